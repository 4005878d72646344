package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman/venuescout/internal/logger"
	"github.com/mfreeman/venuescout/internal/venue"
)

type fakeSearcher struct {
	byVenue map[string][]venue.EventCandidate
	err     error

	queried []string
}

func (f *fakeSearcher) Search(ctx context.Context, venueName string) ([]venue.EventCandidate, error) {
	f.queried = append(f.queried, venueName)
	if f.err != nil {
		return nil, f.err
	}
	return f.byVenue[venueName], nil
}

type fakeScraper struct {
	byURL map[string][]venue.EventCandidate

	fetched []string
}

func (f *fakeScraper) Events(ctx context.Context, pageURL string) ([]venue.EventCandidate, error) {
	f.fetched = append(f.fetched, pageURL)
	return f.byURL[pageURL], nil
}

type fakeLocal struct {
	events []venue.EventCandidate
	err    error
}

func (f *fakeLocal) Events(ctx context.Context) ([]venue.EventCandidate, error) {
	return f.events, f.err
}

type fakeEventStore struct {
	venues   []*venue.Venue
	written  []venue.EventCandidate
	writeErr error
}

func (f *fakeEventStore) All() ([]*venue.Venue, error) { return f.venues, nil }

func (f *fakeEventStore) SetUpcomingEvent(c venue.EventCandidate) (bool, error) {
	if f.writeErr != nil {
		return false, f.writeErr
	}
	for _, v := range f.venues {
		if v.Name == c.Venue {
			f.written = append(f.written, c)
			return true, nil
		}
	}
	return false, nil
}

func storedVenue(name string, website, instagram *string, nonVenue bool) *venue.Venue {
	return &venue.Venue{Name: name, WebsiteURL: website, Instagram: instagram, NonVenue: nonVenue}
}

func newTestAggregator(searchers []EventSearcher, static, dynamic *fakeScraper, local *fakeLocal, store *fakeEventStore) *Aggregator {
	return NewAggregator(searchers, static, dynamic, local, store, quietLogger(), logger.NewMetrics())
}

func TestAggregateSkipsNonVenueLocations(t *testing.T) {
	searcher := &fakeSearcher{}
	static := &fakeScraper{}
	dynamic := &fakeScraper{}
	store := &fakeEventStore{venues: []*venue.Venue{
		storedVenue("The Fillmore", strPtr("https://fillmore.example.com"), nil, false),
		storedVenue("Hart Plaza Festival Grounds", strPtr("https://hartplaza.example.com"), nil, true),
	}}

	a := newTestAggregator([]EventSearcher{searcher}, static, dynamic, &fakeLocal{}, store)
	_, err := a.Aggregate(t.Context())
	require.NoError(t, err)

	// Non-venue rows never reach the per-venue adapters, website or not.
	assert.Equal(t, []string{"The Fillmore"}, searcher.queried)
	assert.Equal(t, []string{"https://fillmore.example.com"}, static.fetched)
	assert.NotContains(t, dynamic.fetched, "https://hartplaza.example.com")
}

func TestAggregateUnknownVenueCandidateDropped(t *testing.T) {
	store := &fakeEventStore{venues: []*venue.Venue{
		storedVenue("The Fillmore", nil, nil, false),
	}}
	local := &fakeLocal{events: []venue.EventCandidate{
		{Name: "Pop-up Market", Date: "2025-05-01 10:00:00", URL: "u", Venue: "Vanished Hall"},
	}}

	a := newTestAggregator(nil, &fakeScraper{}, &fakeScraper{}, local, store)
	count, err := a.Aggregate(t.Context())

	require.NoError(t, err)
	assert.Zero(t, count, "dropped candidate must not affect the update count")
	assert.Empty(t, store.written)
}

func TestAggregateAdapterOrderDecidesSurvivor(t *testing.T) {
	// Ticketmaster and the website scrape return the same event; the
	// searcher runs first, so its candidate survives the merge.
	searcher := &fakeSearcher{byVenue: map[string][]venue.EventCandidate{
		"The Fillmore": {{Name: "Jazz Night", Date: "2025-05-01 20:00:00", URL: "https://tm.example.com/jazz", Venue: "The Fillmore"}},
	}}
	static := &fakeScraper{byURL: map[string][]venue.EventCandidate{
		"https://fillmore.example.com": {{Name: "Jazz Nite", Date: "2025-05-01 20:00:00", URL: "https://fillmore.example.com/jazz"}},
	}}
	store := &fakeEventStore{venues: []*venue.Venue{
		storedVenue("The Fillmore", strPtr("https://fillmore.example.com"), nil, false),
	}}

	a := newTestAggregator([]EventSearcher{searcher}, static, &fakeScraper{}, &fakeLocal{}, store)
	count, err := a.Aggregate(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, store.written, 1)
	assert.Equal(t, "https://tm.example.com/jazz", store.written[0].URL)
}

func TestAggregateDynamicPagePriority(t *testing.T) {
	dynamic := &fakeScraper{}
	tests := []struct {
		name  string
		venue *venue.Venue
		want  string
	}{
		{"website first", storedVenue("A", strPtr("https://site"), strPtr("https://ig"), false), "https://site"},
		{"instagram when no website", storedVenue("B", nil, strPtr("https://ig"), false), "https://ig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dynamic.fetched = nil
			store := &fakeEventStore{venues: []*venue.Venue{tt.venue}}
			a := newTestAggregator(nil, &fakeScraper{}, dynamic, &fakeLocal{}, store)
			_, err := a.Aggregate(t.Context())
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, dynamic.fetched)
		})
	}
}

func TestAggregateCountsDistinctVenues(t *testing.T) {
	// Two surviving candidates land on the same venue row; the count is
	// venues written, not candidates written.
	searcher := &fakeSearcher{byVenue: map[string][]venue.EventCandidate{
		"The Fillmore": {
			{Name: "Jazz Night", Date: "2025-05-01 20:00:00", URL: "u1", Venue: "The Fillmore"},
			{Name: "Rock Show", Date: "2025-05-08 20:00:00", URL: "u2", Venue: "The Fillmore"},
		},
	}}
	store := &fakeEventStore{venues: []*venue.Venue{
		storedVenue("The Fillmore", nil, nil, false),
	}}

	a := newTestAggregator([]EventSearcher{searcher}, &fakeScraper{}, &fakeScraper{}, &fakeLocal{}, store)
	count, err := a.Aggregate(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	// Last write wins on the venue row.
	require.Len(t, store.written, 2)
	assert.Equal(t, "Rock Show", store.written[1].Name)
}

func TestAggregateContinuesPastAdapterFailures(t *testing.T) {
	failing := &fakeSearcher{err: errors.New("api down")}
	working := &fakeSearcher{byVenue: map[string][]venue.EventCandidate{
		"The Fillmore": {{Name: "Jazz Night", Date: "2025-05-01 20:00:00", URL: "u", Venue: "The Fillmore"}},
	}}
	store := &fakeEventStore{venues: []*venue.Venue{
		storedVenue("The Fillmore", nil, nil, false),
	}}

	a := newTestAggregator([]EventSearcher{failing, working}, &fakeScraper{}, &fakeScraper{}, &fakeLocal{}, store)
	count, err := a.Aggregate(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAggregateLocalEventsReachNonVenueRows(t *testing.T) {
	store := &fakeEventStore{venues: []*venue.Venue{
		storedVenue("Hart Plaza Festival Grounds", nil, nil, true),
	}}
	local := &fakeLocal{events: []venue.EventCandidate{
		{Name: "Riverfront Festival", Date: "2025-08-15 12:00:00", URL: "u", Venue: "Hart Plaza Festival Grounds"},
	}}

	a := newTestAggregator(nil, &fakeScraper{}, &fakeScraper{}, local, store)
	count, err := a.Aggregate(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, store.written, 1)
	assert.Equal(t, "Riverfront Festival", store.written[0].Name)
}
