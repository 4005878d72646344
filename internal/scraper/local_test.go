package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocalCards(t *testing.T) {
	html := `
	<div class="event-item">
		<div class="event-title">Riverfront Music Festival</div>
		<div class="event-date">2025-08-15</div>
		<div class="event-venue">Hart Plaza Festival Grounds</div>
		<a href="/festival">More</a>
	</div>
	<div class="event-item">
		<div class="event-title">Orphan Event</div>
		<div class="event-date">2025-08-16</div>
	</div>`

	events, err := parseLocalCards(strings.NewReader(html), "https://metro.example.com/events")
	require.NoError(t, err)

	// The card without a venue name can never match a stored row, so it
	// is skipped at the boundary.
	require.Len(t, events, 1)
	assert.Equal(t, "Riverfront Music Festival", events[0].Name)
	assert.Equal(t, "2025-08-15 00:00:00", events[0].Date)
	assert.Equal(t, "Hart Plaza Festival Grounds", events[0].Venue)
	assert.Equal(t, "https://metro.example.com/festival", events[0].URL)
}
