// Package ratings maps free-text review labels onto a bounded integer scale.
//
// The source exports record ratings as prose ("it was amazing", "liked it",
// ...) rather than numbers. This package owns the closed vocabulary and the
// mapping rules so that every other component deals only in integers.
//
// The mapping is a pure, exact-match lookup:
//
//   - Labels are matched after lower-casing and whitespace trimming.
//   - Any label outside the vocabulary maps to Unrated (0). A missing or
//     unknown label is a defined default, not an error; the "to-read" shelf
//     marker is deliberately part of the vocabulary and also maps to 0.
package ratings

import "strings"

// Scale bounds. Every value returned by FromLabel lies in [Unrated, Max].
const (
	Unrated = 0
	Max     = 5
)

// vocabulary is the closed set of recognized labels. Keys are stored in
// canonical form (lower case, trimmed); see Canonical.
var vocabulary = map[string]int{
	"it was amazing":                              5,
	"really liked it":                             4,
	"liked it":                                    3,
	"it was ok":                                   2,
	"did not like it":                             1,
	`this user marked the book as "to-read"`:      0,
}

// Canonical returns the canonical form of a raw label: lower-cased and
// stripped of leading/trailing whitespace.
func Canonical(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// FromLabel returns the integer level for a raw review label. Labels not in
// the vocabulary (including the empty string) return Unrated.
func FromLabel(label string) int {
	return vocabulary[Canonical(label)]
}

// Known reports whether the label (after canonicalization) is part of the
// fixed vocabulary. FromLabel does not distinguish an unknown label from the
// "to-read" marker; Known does.
func Known(label string) bool {
	_, ok := vocabulary[Canonical(label)]
	return ok
}
