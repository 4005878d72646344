package scraper

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventCards(t *testing.T) {
	data, err := os.ReadFile("testdata/venue_events.html")
	require.NoError(t, err)

	events, err := parseEventCards(strings.NewReader(string(data)), "https://venue.example.com/events")
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Relative link resolved against the page URL.
	assert.Equal(t, "Jazz Night", events[0].Name)
	assert.Equal(t, "2025-05-01 00:00:00", events[0].Date)
	assert.Equal(t, "https://venue.example.com/events/jazz-night", events[0].URL)

	// Absolute link kept as is; date normalized.
	assert.Equal(t, "Poetry Slam", events[1].Name)
	assert.Equal(t, "2025-05-03 00:00:00", events[1].Date)
	assert.Equal(t, "https://tickets.example.com/poetry", events[1].URL)

	// Card without a link falls back to the page URL. The dateless card
	// was skipped entirely.
	assert.Equal(t, "Open Rehearsal", events[2].Name)
	assert.Equal(t, "https://venue.example.com/events", events[2].URL)

	for _, e := range events {
		assert.Empty(t, e.Venue, "static scraper leaves venue tagging to the caller")
	}
}

func TestParseEventCardsEmptyPage(t *testing.T) {
	events, err := parseEventCards(strings.NewReader("<html><body><p>nothing here</p></body></html>"), "https://venue.example.com")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStaticEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`
			<div class="event-item">
				<div class="event-title">Summer Concert</div>
				<div class="event-date">2025-07-04</div>
				<a href="/concert">More</a>
			</div>`))
	}))
	defer srv.Close()

	s := NewStatic(5 * time.Second)
	events, err := s.Events(t.Context(), srv.URL)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Summer Concert", events[0].Name)
	assert.Equal(t, srv.URL+"/concert", events[0].URL)
}

func TestStaticEventsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewStatic(5 * time.Second)
	_, err := s.Events(t.Context(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}
