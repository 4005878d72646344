package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/mfreeman/venuescout/internal/venue"
)

// ExtractFunc turns rendered page text into event candidates. The
// language-model extractor satisfies it in production; tests substitute
// their own.
type ExtractFunc func(ctx context.Context, pageText, sourceURL string) ([]venue.EventCandidate, error)

// Dynamic renders a page in a headless browser and hands the visible text
// to an extractor. The whole render is bounded by one timeout; hitting it
// is an adapter failure like any other.
type Dynamic struct {
	chromeBin string
	timeout   time.Duration
	extract   ExtractFunc
}

// NewDynamic creates a dynamic scraper. chromeBin may be empty, in which
// case chromedp locates a browser itself.
func NewDynamic(chromeBin string, timeout time.Duration, extract ExtractFunc) *Dynamic {
	return &Dynamic{
		chromeBin: chromeBin,
		timeout:   timeout,
		extract:   extract,
	}
}

// Events renders pageURL and returns the candidates the extractor finds in
// its text. The Venue field is left empty for the caller to tag.
func (d *Dynamic) Events(ctx context.Context, pageURL string) ([]venue.EventCandidate, error) {
	text, err := d.renderText(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", pageURL, err)
	}
	return d.extract(ctx, text, pageURL)
}

func (d *Dynamic) renderText(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	if d.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(d.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise; failures come back as errors anyway.
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, d.timeout)
	defer cancelRun()

	var text string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(2*time.Second),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return text, nil
}
