// Package llm extracts structured venue and event data from free text
// using the Gemini API. Both extractors prompt for JSON and strip markdown
// code fences from the reply before parsing; a malformed reply is an
// adapter failure, never a crash.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/mfreeman/venuescout/internal/venue"
)

const (
	// Model is the Gemini model used for both extraction calls.
	Model = "gemini-1.5-flash"

	// promptTextLimit caps how much page text is sent per extraction call.
	promptTextLimit = 1000
)

// VenueDetails holds the fields inferred from a venue description.
type VenueDetails struct {
	Size        venue.Size `json:"size"`
	Description string     `json:"description"`
	Instagram   *string    `json:"instagram"`
	Facebook    *string    `json:"facebook"`
	WebsiteURL  *string    `json:"website_url"`
	NonVenue    bool       `json:"non_venue_flag"`
}

// DefaultVenueDetails is the documented fallback when the extraction call
// fails entirely.
func DefaultVenueDetails() VenueDetails {
	return VenueDetails{
		Size:        venue.DefaultSize,
		Description: venue.DefaultDescription,
		NonVenue:    false,
	}
}

// Client calls the Gemini API.
type Client struct {
	genai *genai.Client
	model string
}

// New creates a Gemini-backed extraction client.
func New(ctx context.Context, apiKey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: creating client: %w", err)
	}
	return &Client{genai: c, model: Model}, nil
}

// ExtractVenueDetails infers size, description, social handles, and the
// non-venue flag from a short venue description (name, address, category).
// On any failure the documented default record is returned together with
// the error; callers upsert the defaults and keep going.
func (c *Client) ExtractVenueDetails(ctx context.Context, text string) (VenueDetails, error) {
	prompt := fmt.Sprintf(`Given the following venue information: %s
Extract:
- Size (Large: >10,000 capacity, Medium: 1,000-10,000, Small: <1,000)
- Description (brief, max 100 words)
- Instagram handle
- Facebook page
- Website URL
- Non-venue flag (true if not a fixed venue, e.g. festival space)
Return a JSON object with fields size, description, instagram, facebook,
website_url, non_venue_flag. If data is unavailable, use reasonable
defaults or null.`, text)

	reply, err := c.generate(ctx, prompt)
	if err != nil {
		return DefaultVenueDetails(), fmt.Errorf("llm: venue details: %w", err)
	}

	var details VenueDetails
	if err := json.Unmarshal([]byte(stripFences(reply)), &details); err != nil {
		return DefaultVenueDetails(), fmt.Errorf("llm: venue details: parsing reply: %w", err)
	}
	if details.Size == "" {
		details.Size = venue.DefaultSize
	}
	if details.Description == "" {
		details.Description = venue.DefaultDescription
	}
	return details, nil
}

// ExtractEvents pulls event listings out of rendered page text. Dates are
// requested in the canonical YYYY-MM-DD HH:MM:SS form and normalized again
// on the way out in case the model ignores the instruction. Empty list on
// any failure.
func (c *Client) ExtractEvents(ctx context.Context, pageText, sourceURL string) ([]venue.EventCandidate, error) {
	text := truncate(pageText, promptTextLimit)

	prompt := fmt.Sprintf(`Given the following text from %s: %s
Extract a list of events with:
- name (event title)
- date (YYYY-MM-DD HH:MM:SS format)
- url (event page or source URL)
Return a JSON array of objects with these fields. If no events, return an
empty array.`, sourceURL, text)

	reply, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm: events from %s: %w", sourceURL, err)
	}

	var raw []struct {
		Name string `json:"name"`
		Date string `json:"date"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal([]byte(stripFences(reply)), &raw); err != nil {
		return nil, fmt.Errorf("llm: events from %s: parsing reply: %w", sourceURL, err)
	}

	events := make([]venue.EventCandidate, 0, len(raw))
	for _, r := range raw {
		if r.Name == "" || r.Date == "" {
			continue
		}
		u := r.URL
		if u == "" {
			u = sourceURL
		}
		events = append(events, venue.EventCandidate{
			Name: r.Name,
			Date: venue.NormalizeDate(r.Date),
			URL:  u,
		})
	}
	return events, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0.7),
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty model reply")
	}
	return text, nil
}

// truncate caps s at limit bytes, backing up to a rune boundary so the
// cut never produces invalid UTF-8 for the API layer to reject.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// stripFences removes a surrounding markdown code fence, which Gemini
// sometimes adds even when asked for bare JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
