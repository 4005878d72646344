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

// Local scrapes a metro-area event listing page for locations that have no
// fixed venue page of their own (festival grounds and similar). Cards use
// the same ".event-item" shape plus an ".event-venue" naming the location.
type Local struct {
	pageURL    string
	httpClient *http.Client
}

// NewLocal creates a local-events scraper for the given listing page.
func NewLocal(pageURL string, timeout time.Duration) *Local {
	return &Local{
		pageURL:    pageURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Events returns candidates from the listing page, each tagged with the
// venue named on its card. Cards without a venue name are skipped since
// the candidate could never match a stored row.
func (l *Local) Events(ctx context.Context) ([]venue.EventCandidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", l.pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code: %d", l.pageURL, resp.StatusCode)
	}

	return parseLocalCards(resp.Body, l.pageURL)
}

func parseLocalCards(r io.Reader, pageURL string) ([]venue.EventCandidate, error) {
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
		venueName := strings.TrimSpace(sel.Find(".event-venue").First().Text())
		if name == "" || date == "" || venueName == "" {
			return
		}

		link := pageURL
		if href, ok := sel.Find("a").First().Attr("href"); ok {
			if resolved, err := base.Parse(strings.TrimSpace(href)); err == nil {
				link = resolved.String()
			}
		}

		events = append(events, venue.EventCandidate{
			Name:  name,
			Date:  venue.NormalizeDate(date),
			URL:   link,
			Venue: venueName,
		})
	})

	return events, nil
}
