// Package dedupe merges near-duplicate event candidates.
//
// Two candidates are duplicates when their names fuzzy-match above a fixed
// similarity threshold (case-insensitive) AND their date strings are
// exactly equal. Dates are compared as strings on purpose: two listings of
// the same event whose sources disagree on the date format are kept apart
// rather than guessed together.
package dedupe

import (
	"fmt"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/mfreeman/venuescout/internal/venue"
)

// SimilarityThreshold is the fuzzy-ratio score (0-100) above which two
// candidate names are considered the same event.
const SimilarityThreshold = 90

// ratio scores name similarity. A variable so tests can exercise the
// fail-open recovery below.
var ratio = fuzzy.Ratio

// Merge reduces candidates to a list with near-duplicates removed,
// first-seen-wins: a candidate is dropped when an earlier survivor has a
// name similarity above SimilarityThreshold and an identical date string.
//
// Merge fails open. If anything inside the comparison panics, the original
// list is returned unmodified along with a non-nil error for the caller to
// log; callers must treat the returned slice as authoritative either way.
// O(n²) in the candidate count, which stays in the low double digits per
// run.
func Merge(candidates []venue.EventCandidate) (out []venue.EventCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = candidates
			err = fmt.Errorf("dedupe: merge failed open: %v", r)
		}
	}()

	out = make([]venue.EventCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !isDuplicate(c, out) {
			out = append(out, c)
		}
	}
	return out, nil
}

func isDuplicate(c venue.EventCandidate, kept []venue.EventCandidate) bool {
	name := strings.ToLower(c.Name)
	for _, existing := range kept {
		if c.Date != existing.Date {
			continue
		}
		if ratio(name, strings.ToLower(existing.Name)) > SimilarityThreshold {
			return true
		}
	}
	return false
}
