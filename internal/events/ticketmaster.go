// Package events wraps the third-party event-search APIs. Each adapter
// takes a venue name, queries with the configured city, and returns
// candidates tagged with that venue; a failed call yields an error for the
// caller to log and an empty result.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mfreeman/venuescout/internal/venue"
)

const (
	TicketmasterBaseURL = "https://app.ticketmaster.com/discovery/v2"
	UserAgent           = "venuescout/1.0 (github.com/mfreeman/venuescout)"
)

// Ticketmaster searches the Ticketmaster Discovery API.
type Ticketmaster struct {
	// BaseURL is swappable for tests.
	BaseURL string

	apiKey     string
	city       string
	httpClient *http.Client
}

// NewTicketmaster creates a Ticketmaster adapter scoped to one city.
func NewTicketmaster(apiKey, city string, timeout time.Duration) *Ticketmaster {
	return &Ticketmaster{
		BaseURL:    TicketmasterBaseURL,
		apiKey:     apiKey,
		city:       city,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search returns upcoming events matching venueName in the configured city.
func (t *Ticketmaster) Search(ctx context.Context, venueName string) ([]venue.EventCandidate, error) {
	params := url.Values{}
	params.Set("apikey", t.apiKey)
	params.Set("keyword", venueName)
	params.Set("city", t.city)

	var resp struct {
		Embedded struct {
			Events []struct {
				Name  string `json:"name"`
				URL   string `json:"url"`
				Dates struct {
					Start struct {
						DateTime string `json:"dateTime"`
					} `json:"start"`
				} `json:"dates"`
			} `json:"events"`
		} `json:"_embedded"`
	}
	if err := getJSON(ctx, t.httpClient, t.BaseURL+"/events.json?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("ticketmaster search %q: %w", venueName, err)
	}

	candidates := make([]venue.EventCandidate, 0, len(resp.Embedded.Events))
	for _, e := range resp.Embedded.Events {
		if e.Name == "" || e.Dates.Start.DateTime == "" {
			continue
		}
		candidates = append(candidates, venue.EventCandidate{
			Name:  e.Name,
			Date:  venue.NormalizeDate(e.Dates.Start.DateTime),
			URL:   e.URL,
			Venue: venueName,
		})
	}
	return candidates, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
