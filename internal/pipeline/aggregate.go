package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/mfreeman/venuescout/internal/dedupe"
	"github.com/mfreeman/venuescout/internal/logger"
	"github.com/mfreeman/venuescout/internal/venue"
)

// EventSearcher is an event-search API boundary (Ticketmaster, Eventbrite).
type EventSearcher interface {
	Search(ctx context.Context, venueName string) ([]venue.EventCandidate, error)
}

// PageScraper is a per-URL scraping boundary (static or dynamic).
type PageScraper interface {
	Events(ctx context.Context, pageURL string) ([]venue.EventCandidate, error)
}

// LocalSource supplies events for locations without a fixed venue page.
type LocalSource interface {
	Events(ctx context.Context) ([]venue.EventCandidate, error)
}

// EventStore is the subset of the store the aggregator needs.
type EventStore interface {
	All() ([]*venue.Venue, error)
	SetUpcomingEvent(c venue.EventCandidate) (bool, error)
}

// Aggregator collects event candidates for every stored venue and writes
// the surviving candidate per venue back onto its row.
type Aggregator struct {
	searchers []EventSearcher // queried in order; order decides dedup survivors
	static    PageScraper
	dynamic   PageScraper
	local     LocalSource
	store     EventStore
	log       *logger.Logger
	metrics   *logger.Metrics
}

// NewAggregator wires an aggregation pipeline. searchers are queried in
// the order given, before the static and dynamic scrapes.
func NewAggregator(searchers []EventSearcher, static, dynamic PageScraper, local LocalSource, store EventStore, log *logger.Logger, metrics *logger.Metrics) *Aggregator {
	return &Aggregator{
		searchers: searchers,
		static:    static,
		dynamic:   dynamic,
		local:     local,
		store:     store,
		log:       log,
		metrics:   metrics,
	}
}

// Aggregate runs one collection cycle and returns the number of venues
// that received an event write. Candidates are concatenated across ALL
// venues (local sources last) and deduplicated once globally, so two
// venues hosting same-named, same-dated events can suppress one another;
// that cross-venue merge is inherited source behavior, kept as is.
func (a *Aggregator) Aggregate(ctx context.Context) (int, error) {
	venues, err := a.store.All()
	if err != nil {
		return 0, err
	}
	if len(venues) == 0 {
		a.log.Warn("no venues in store", nil)
		return 0, nil
	}

	a.log.Info("starting event scrape", logger.Fields{"venues": len(venues)})

	var all []venue.EventCandidate
	for _, v := range venues {
		if v.NonVenue {
			// Festival grounds and the like have no page to scrape; they
			// are covered by the local source below.
			continue
		}
		all = append(all, a.collectForVenue(ctx, v)...)
	}

	// Local / non-venue events go last so fixed-venue sources win dedup.
	start := time.Now()
	localEvents, err := a.local.Events(ctx)
	a.metrics.RecordTiming("local.events", time.Since(start))
	if err != nil {
		a.log.Error("local events failed", nil, err)
	}
	all = append(all, localEvents...)

	a.metrics.Add("events.fetched", int64(len(all)))

	merged, err := dedupe.Merge(all)
	if err != nil {
		// Merge failed open; the returned list is the unmodified input.
		a.log.Error("deduplication failed open", nil, err)
	}
	a.metrics.Add("events.after_dedupe", int64(len(merged)))

	written := make(map[string]bool)
	for _, c := range merged {
		ok, err := a.store.SetUpcomingEvent(c)
		if err != nil {
			return len(written), fmt.Errorf("writing event for %q: %w", c.Venue, err)
		}
		if !ok {
			// Candidate names a venue we do not store. Dropped, not an error.
			a.log.Debug("dropping candidate for unknown venue", logger.Fields{
				"event": c.Name,
				"venue": c.Venue,
			})
			continue
		}
		written[c.Venue] = true
		a.log.Info("updated event", logger.Fields{"venue": c.Venue, "event": c.Name})
	}

	a.metrics.Add("venues.with_event", int64(len(written)))
	a.log.Info("completed event scrape", logger.Fields{"venues_updated": len(written)})
	return len(written), nil
}

// collectForVenue queries every applicable adapter for one venue, in the
// fixed order: search APIs, static website scrape, then one dynamic pass
// against the first configured page of {website, instagram, facebook}.
func (a *Aggregator) collectForVenue(ctx context.Context, v *venue.Venue) []venue.EventCandidate {
	var out []venue.EventCandidate

	for _, s := range a.searchers {
		start := time.Now()
		found, err := s.Search(ctx, v.Name)
		a.metrics.RecordTiming("events.search", time.Since(start))
		if err != nil {
			a.log.Error("event search failed", logger.Fields{"venue": v.Name}, err)
			continue
		}
		out = append(out, found...)
	}

	if v.WebsiteURL != nil && *v.WebsiteURL != "" {
		start := time.Now()
		found, err := a.static.Events(ctx, *v.WebsiteURL)
		a.metrics.RecordTiming("scrape.static", time.Since(start))
		if err != nil {
			a.log.Error("website scrape failed", logger.Fields{
				"venue": v.Name,
				"url":   *v.WebsiteURL,
			}, err)
		}
		out = append(out, tagVenue(found, v.Name)...)
	}

	if page := dynamicPage(v); page != "" {
		start := time.Now()
		found, err := a.dynamic.Events(ctx, page)
		a.metrics.RecordTiming("scrape.dynamic", time.Since(start))
		if err != nil {
			a.log.Error("dynamic scrape failed", logger.Fields{
				"venue": v.Name,
				"url":   page,
			}, err)
		}
		out = append(out, tagVenue(found, v.Name)...)
	}

	return out
}

// dynamicPage picks the page for the headless pass: website first, then
// instagram, then facebook. Only the first present one is used.
func dynamicPage(v *venue.Venue) string {
	for _, p := range []*string{v.WebsiteURL, v.Instagram, v.Facebook} {
		if p != nil && *p != "" {
			return *p
		}
	}
	return ""
}

func tagVenue(candidates []venue.EventCandidate, venueName string) []venue.EventCandidate {
	for i := range candidates {
		candidates[i].Venue = venueName
	}
	return candidates
}
