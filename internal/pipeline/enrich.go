package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/mfreeman/venuescout/internal/llm"
	"github.com/mfreeman/venuescout/internal/logger"
	"github.com/mfreeman/venuescout/internal/places"
	"github.com/mfreeman/venuescout/internal/venue"
)

// PlacesAPI is the venue-discovery boundary.
type PlacesAPI interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
	NearbySearch(ctx context.Context, lat, lng, radiusMiles float64, category string) ([]places.Place, error)
	PlaceDetails(ctx context.Context, placeID string) (places.Details, error)
}

// VenueExtractor is the language-model venue-detail boundary.
type VenueExtractor interface {
	ExtractVenueDetails(ctx context.Context, text string) (llm.VenueDetails, error)
}

// VenueWriter is the subset of the store the enricher needs.
type VenueWriter interface {
	UpsertVenue(v *venue.Venue) error
}

// Enricher discovers venues around an address and upserts enriched rows.
type Enricher struct {
	places  PlacesAPI
	llm     VenueExtractor
	store   VenueWriter
	log     *logger.Logger
	metrics *logger.Metrics
}

// NewEnricher wires an enrichment pipeline.
func NewEnricher(p PlacesAPI, extractor VenueExtractor, store VenueWriter, log *logger.Logger, metrics *logger.Metrics) *Enricher {
	return &Enricher{places: p, llm: extractor, store: store, log: log, metrics: metrics}
}

// Enrich geocodes address, searches each category within radiusMiles, and
// upserts one enriched row per discovered place. categories may be nil to
// use the built-in vocabulary. Returns the number of venues upserted.
//
// A geocoding failure aborts the whole run. A store failure aborts the
// run at that point. Everything else is logged and skipped: a place whose
// detail or extraction calls fail is still upserted with defaults.
func (e *Enricher) Enrich(ctx context.Context, address string, radiusMiles float64, categories []string) (int, error) {
	e.log.Info("starting venue update", logger.Fields{
		"address": address,
		"radius":  radiusMiles,
	})

	lat, lng, err := e.places.Geocode(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("could not geocode address %q: %w", address, err)
	}

	if len(categories) == 0 {
		categories = venue.DefaultCategories
	}

	var discovered []places.Place
	for _, category := range categories {
		start := time.Now()
		results, err := e.places.NearbySearch(ctx, lat, lng, radiusMiles, category)
		e.metrics.RecordTiming("places.nearby_search", time.Since(start))
		if err != nil {
			e.log.Error("nearby search failed", logger.Fields{
				"address":  address,
				"category": category,
			}, err)
			continue
		}
		discovered = append(discovered, results...)
	}
	e.metrics.Add("venues.discovered", int64(len(discovered)))

	updated := 0
	for _, place := range discovered {
		v := e.enrichPlace(ctx, place)
		if err := e.store.UpsertVenue(v); err != nil {
			return updated, err
		}
		updated++
		e.log.Info("updated venue", logger.Fields{"venue": v.Name})
	}

	e.metrics.Add("venues.updated", int64(updated))
	e.log.Info("completed venue update", logger.Fields{"count": updated})
	return updated, nil
}

// enrichPlace merges place-detail fields and language-model inferences
// into a venue row. Either call may fail; whatever was gathered still goes
// into the row, with documented defaults standing in for the extractor.
func (e *Enricher) enrichPlace(ctx context.Context, p places.Place) *venue.Venue {
	v := &venue.Venue{
		Name:      p.Name,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Category:  p.Category,
	}

	start := time.Now()
	details, err := e.places.PlaceDetails(ctx, p.PlaceID)
	e.metrics.RecordTiming("places.details", time.Since(start))
	if err != nil {
		e.log.Error("place details failed", logger.Fields{"venue": p.Name}, err)
	}
	v.WebsiteURL = details.Website
	v.PhoneNumber = details.PhoneNumber
	v.Rating = details.Rating

	text := fmt.Sprintf("%s, %s, %s", p.Name, p.Address, p.Category)
	start = time.Now()
	inferred, err := e.llm.ExtractVenueDetails(ctx, text)
	e.metrics.RecordTiming("llm.venue_details", time.Since(start))
	if err != nil {
		// inferred already carries the default record.
		e.log.Error("venue detail extraction failed", logger.Fields{"venue": p.Name}, err)
	}
	v.Size = inferred.Size
	v.Description = inferred.Description
	v.Instagram = inferred.Instagram
	v.Facebook = inferred.Facebook
	v.NonVenue = inferred.NonVenue
	if v.WebsiteURL == nil {
		v.WebsiteURL = inferred.WebsiteURL
	}

	return v
}
