package events

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mfreeman/venuescout/internal/venue"
)

const EventbriteBaseURL = "https://www.eventbriteapi.com/v3"

// Eventbrite searches the Eventbrite API.
type Eventbrite struct {
	// BaseURL is swappable for tests.
	BaseURL string

	token      string
	city       string
	httpClient *http.Client
}

// NewEventbrite creates an Eventbrite adapter scoped to one city.
func NewEventbrite(token, city string, timeout time.Duration) *Eventbrite {
	return &Eventbrite{
		BaseURL:    EventbriteBaseURL,
		token:      token,
		city:       city,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search returns upcoming events matching venueName in the configured city.
func (e *Eventbrite) Search(ctx context.Context, venueName string) ([]venue.EventCandidate, error) {
	params := url.Values{}
	params.Set("q", venueName)
	params.Set("location.address", e.city)
	params.Set("token", e.token)

	var resp struct {
		Events []struct {
			Name struct {
				Text string `json:"text"`
			} `json:"name"`
			Start struct {
				Local string `json:"local"`
			} `json:"start"`
			URL string `json:"url"`
		} `json:"events"`
	}
	if err := getJSON(ctx, e.httpClient, e.BaseURL+"/events/search/?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("eventbrite search %q: %w", venueName, err)
	}

	candidates := make([]venue.EventCandidate, 0, len(resp.Events))
	for _, ev := range resp.Events {
		if ev.Name.Text == "" || ev.Start.Local == "" {
			continue
		}
		candidates = append(candidates, venue.EventCandidate{
			Name:  ev.Name.Text,
			Date:  venue.NormalizeDate(ev.Start.Local),
			URL:   ev.URL,
			Venue: venueName,
		})
	}
	return candidates, nil
}
