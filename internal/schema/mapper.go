// Package schema maps raw CSV chunks into the canonical store schema.
//
// Each file kind has its own source columns, coercion rules, and required
// fields. Rows failing coercion or missing required values are quarantined:
// dropped from the output and counted, never surfaced as individual errors.
// Malformed data is a routine condition in these exports, not an exceptional
// one.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"bookvault/internal/classify"
	csvparser "bookvault/internal/parser/csv"
	"bookvault/internal/ratings"
)

// Canonical destination columns, in insert order.
var (
	BookColumns   = []string{"book_id", "title", "avg_rating"}
	RatingColumns = []string{"book_title", "user_id", "rating_text", "rating_int"}
)

// Source column names (canonical header form) expected per file kind.
// Book exports carry Id/Name/Rating; rating exports carry Name/ID/Rating.
// Both canonicalize to the same lower-case keys.
const (
	srcID     = "id"
	srcName   = "name"
	srcRating = "rating"
)

// Mapped is the result of mapping one chunk: rows restricted to canonical
// columns plus the count of quarantined input rows.
type Mapped struct {
	Columns     []string
	Rows        [][]any
	Quarantined int
}

// MapChunk validates and renames a raw chunk according to the file kind.
//
//   - BookFile: id coerced to integer (non-numeric quarantines the row when
//     combined with the required-title rule below), rating coerced to float
//     (non-numeric becomes NULL), rows missing id or title quarantined.
//     Output columns: book_id, title, avg_rating.
//   - RatingFile: label mapped through the ratings vocabulary (unknown -> 0),
//     rows missing book title or user id quarantined. Output columns:
//     book_title, user_id, rating_text, rating_int.
//   - Unknown: returns an error; callers are expected to have classified the
//     file before streaming it.
//
// A chunk whose header lacks a required source column is a structural
// problem with the file, not with individual rows, and returns an error.
func MapChunk(kind classify.Kind, c csvparser.Chunk) (Mapped, error) {
	switch kind {
	case classify.BookFile:
		return mapBooks(c)
	case classify.RatingFile:
		return mapRatings(c)
	}
	return Mapped{}, fmt.Errorf("cannot map chunk for %s file", kind)
}

func mapBooks(c csvparser.Chunk) (Mapped, error) {
	idIx, nameIx, ratingIx := c.Col(srcID), c.Col(srcName), c.Col(srcRating)
	if idIx < 0 || nameIx < 0 || ratingIx < 0 {
		return Mapped{}, fmt.Errorf("book chunk missing required columns (have %v)", c.Header)
	}

	out := Mapped{Columns: BookColumns, Rows: make([][]any, 0, len(c.Rows))}
	for _, row := range c.Rows {
		id, idOK := coerceInt(row[idIx])
		title := row[nameIx]
		if !idOK || title == "" {
			out.Quarantined++
			continue
		}

		var avg any
		if f, ok := coerceFloat(row[ratingIx]); ok {
			avg = f
		}
		out.Rows = append(out.Rows, []any{strconv.FormatInt(id, 10), title, avg})
	}
	return out, nil
}

func mapRatings(c csvparser.Chunk) (Mapped, error) {
	nameIx, userIx, ratingIx := c.Col(srcName), c.Col(srcID), c.Col(srcRating)
	if nameIx < 0 || userIx < 0 || ratingIx < 0 {
		return Mapped{}, fmt.Errorf("rating chunk missing required columns (have %v)", c.Header)
	}

	out := Mapped{Columns: RatingColumns, Rows: make([][]any, 0, len(c.Rows))}
	for _, row := range c.Rows {
		title, user := row[nameIx], row[userIx]
		if title == "" || user == "" {
			out.Quarantined++
			continue
		}

		label := row[ratingIx]
		out.Rows = append(out.Rows, []any{title, user, label, ratings.FromLabel(label)})
	}
	return out, nil
}

// coerceInt parses a cell as a base-10 integer. Values with surrounding
// whitespace are accepted; anything else non-numeric reports false.
func coerceInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// coerceFloat parses a cell as a float. Reports false for non-numeric input;
// the caller decides whether that quarantines the row or nulls the field.
func coerceFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
