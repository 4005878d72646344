package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mfreeman/venuescout/internal/venue"
)

const UserAgent = "venuescout/1.0 (github.com/mfreeman/venuescout)"

// Static fetches a page and parses server-rendered event cards: each
// ".event-item" holding an ".event-title", an ".event-date", and a link.
type Static struct {
	httpClient *http.Client
}

// NewStatic creates a static scraper with a fixed per-request timeout.
func NewStatic(timeout time.Duration) *Static {
	return &Static{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Events fetches pageURL and returns the event candidates found on it.
// The Venue field is left empty; the caller tags candidates with the
// owning venue.
func (s *Static) Events(ctx context.Context, pageURL string) ([]venue.EventCandidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code: %d", pageURL, resp.StatusCode)
	}

	return parseEventCards(resp.Body, pageURL)
}

// parseEventCards extracts event candidates from HTML. Cards missing a
// title or date are skipped; links are resolved against the page URL, and
// a card without a link falls back to the page URL itself.
func parseEventCards(r io.Reader, pageURL string) ([]venue.EventCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	events := make([]venue.EventCandidate, 0)
	doc.Find(".event-item").Each(func(i int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Find(".event-title").First().Text())
		date := strings.TrimSpace(sel.Find(".event-date").First().Text())
		if name == "" || date == "" {
			return
		}

		link := pageURL
		if href, ok := sel.Find("a").First().Attr("href"); ok {
			if resolved, err := base.Parse(strings.TrimSpace(href)); err == nil {
				link = resolved.String()
			}
		}

		events = append(events, venue.EventCandidate{
			Name: name,
			Date: venue.NormalizeDate(date),
			URL:  link,
		})
	})

	return events, nil
}
