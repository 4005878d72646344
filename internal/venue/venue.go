package venue

import "time"

// Size classifies a venue by capacity.
type Size string

const (
	SizeLarge  Size = "Large"  // >10,000 capacity
	SizeMedium Size = "Medium" // 1,000-10,000
	SizeSmall  Size = "Small"  // <1,000
)

// Defaults applied when the language-model detail call fails entirely.
const (
	DefaultSize        = SizeMedium
	DefaultDescription = "Unknown venue"
)

// CategoryUnknown is recorded when a place carries no type tags.
const CategoryUnknown = "unknown"

// DefaultCategories is the built-in place-type vocabulary queried during
// venue discovery. Callers may override it with their own list.
var DefaultCategories = []string{
	"stadium",
	"theater",
	"concert_hall",
	"park",
	"community_center",
	"night_club",
	"event_venue",
	"museum",
	"performing_arts_theater",
}

// Venue is one row of the venue store, keyed by Name. Optional columns are
// pointers so that absent values round-trip as NULL through SQLite and as
// null through the read API.
type Venue struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Category    string  `json:"category"`
	Size        Size    `json:"size"`
	Description string  `json:"description"`

	Instagram   *string  `json:"instagram"`
	Facebook    *string  `json:"facebook"`
	WebsiteURL  *string  `json:"website_url"`
	PhoneNumber *string  `json:"phone_number"`
	Rating      *float64 `json:"rating"`

	// NonVenue marks locations without a fixed venue page (festival
	// grounds and the like); the aggregation pipeline routes these to the
	// local-events source instead of the per-venue adapters.
	NonVenue bool `json:"non_venue_flag"`

	UpcomingEventName    *string    `json:"upcoming_event_name"`
	UpcomingEventDate    *string    `json:"upcoming_event_date"`
	UpcomingEventPageURL *string    `json:"upcoming_event_page_url"`
	LastUpdated          *time.Time `json:"last_updated"`
}

// EventCandidate is a transient event record produced by a source adapter.
// Candidates live only through the deduplication step; the survivor is
// denormalized onto its owning venue row and then discarded.
type EventCandidate struct {
	Name  string `json:"name"`
	Date  string `json:"date"`
	URL   string `json:"url"`
	Venue string `json:"venue"`
}
