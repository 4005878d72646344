// Package places wraps the Google Maps web services used for venue
// discovery: geocoding, nearby search, and place details. Each call is a
// single attempt with a fixed timeout; failures surface as errors for the
// caller to log and convert per its own policy.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"
	UserAgent      = "venuescout/1.0 (github.com/mfreeman/venuescout)"

	metersPerMile = 1609.34
)

// Place is one nearby-search result.
type Place struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Category  string
	PlaceID   string
}

// Details holds the optional place-detail fields. Nil means the field was
// unavailable or the request failed.
type Details struct {
	Website     *string
	PhoneNumber *string
	Rating      *float64
}

// Client calls the Google Maps APIs.
type Client struct {
	// BaseURL is swappable for tests.
	BaseURL string

	apiKey     string
	httpClient *http.Client
}

// New creates a Client with the given API key and per-request timeout.
func New(apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Geocode resolves an address to coordinates. Any non-OK API status is an
// error: the enrichment pipeline cannot locate venues without it.
func (c *Client) Geocode(ctx context.Context, address string) (lat, lng float64, err error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	var resp struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/geocode/json", params, &resp); err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: %w", address, err)
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return 0, 0, fmt.Errorf("geocoding %q: status %s", address, resp.Status)
	}

	loc := resp.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

// NearbySearch returns places of one category within radiusMiles of the
// given point. The recorded category is the first type tag on the result,
// or "unknown" when the result carries none.
func (c *Client) NearbySearch(ctx context.Context, lat, lng, radiusMiles float64, category string) ([]Place, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%.0f", radiusMiles*metersPerMile))
	params.Set("type", category)
	params.Set("key", c.apiKey)

	var resp struct {
		Status  string `json:"status"`
		Results []struct {
			Name     string   `json:"name"`
			Vicinity string   `json:"vicinity"`
			PlaceID  string   `json:"place_id"`
			Types    []string `json:"types"`
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, fmt.Errorf("nearby search %q: %w", category, err)
	}
	// ZERO_RESULTS is a normal empty answer, not a failure.
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("nearby search %q: status %s", category, resp.Status)
	}

	places := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		cat := "unknown"
		if len(r.Types) > 0 {
			cat = r.Types[0]
		}
		places = append(places, Place{
			Name:      r.Name,
			Address:   r.Vicinity,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
			Category:  cat,
			PlaceID:   r.PlaceID,
		})
	}
	return places, nil
}

// PlaceDetails fetches website, phone number, and rating for a place.
// On failure it returns an all-nil Details alongside the error so callers
// can proceed with whatever was gathered.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "website,formatted_phone_number,rating")
	params.Set("key", c.apiKey)

	var resp struct {
		Status string `json:"status"`
		Result struct {
			Website              *string  `json:"website"`
			FormattedPhoneNumber *string  `json:"formatted_phone_number"`
			Rating               *float64 `json:"rating"`
		} `json:"result"`
	}
	if err := c.get(ctx, "/place/details/json", params, &resp); err != nil {
		return Details{}, fmt.Errorf("place details %q: %w", placeID, err)
	}
	if resp.Status != "OK" {
		return Details{}, fmt.Errorf("place details %q: status %s", placeID, resp.Status)
	}

	return Details{
		Website:     resp.Result.Website,
		PhoneNumber: resp.Result.FormattedPhoneNumber,
		Rating:      resp.Result.Rating,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
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
