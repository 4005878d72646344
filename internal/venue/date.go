package venue

import (
	"strings"
	"time"
)

// DateLayout is the canonical representation for event dates, matching the
// format the language-model extractor is prompted to produce.
const DateLayout = "2006-01-02 15:04:05"

// dateLayouts are the source-native formats seen across the event
// adapters: Ticketmaster returns RFC3339 datetimes, Eventbrite a local
// datetime without zone, scraped pages anything from full dates to
// "Jan 2" style fragments.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"01/02/2006 3:04 PM",
	"01/02/2006",
}

// NormalizeDate converts a source-native date string to DateLayout.
// Unparseable input is returned trimmed but otherwise unchanged, so the
// exact-string date comparison in deduplication still applies to it.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}
