package csvimport

import (
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

const (
	// DuplicateWindow is how far apart two transactions may be dated and
	// still count as the same real-world event.
	DuplicateWindow = 7 * 24 * time.Hour

	// minDescriptionLength guards the similarity check against trivially
	// short descriptions matching everything.
	minDescriptionLength = 3

	// maxEditDistance is the levenshtein tolerance for near-identical
	// descriptions that differ by a typo or truncation artifact.
	maxEditDistance = 2
)

// WithinWindow reports whether two dates fall inside the duplicate window.
func WithinWindow(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < DuplicateWindow
}

// SimilarDescriptions reports whether two transaction descriptions likely
// describe the same purchase. Both are lower-cased and trimmed; they match
// when one contains the other as a substring ("coffee shop" vs "coffee shop
// downtown") or when they are within a small edit distance of each other.
// Descriptions of three characters or fewer never match.
func SimilarDescriptions(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if len(a) <= minDescriptionLength || len(b) <= minDescriptionLength {
		return false
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	return levenshtein.ComputeDistance(a, b) <= maxEditDistance
}
