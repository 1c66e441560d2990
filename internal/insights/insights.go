// Package insights runs the post-load aggregation queries and renders their
// console form.
package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookvault/internal/storage"
)

// TopN is how many most-reviewed titles a run reports by default.
const TopN = 5

// Summary holds the post-load aggregates for one run.
type Summary struct {
	Books       int64
	Ratings     int64
	Top         []storage.TitleCount
	GeneratedAt time.Time
}

// Collect queries the store for row counts and the topN most-reviewed
// titles. The title ranking joins books to ratings on exact title equality,
// so a title absent from the books table never appears even if heavily
// rated.
func Collect(ctx context.Context, repo storage.Repository, topN int) (Summary, error) {
	var sum Summary

	stats, err := repo.Stats(ctx)
	if err != nil {
		return sum, fmt.Errorf("insights: %w", err)
	}
	sum.Books = stats.Books
	sum.Ratings = stats.Ratings

	top, err := repo.TopReviewed(ctx, topN)
	if err != nil {
		return sum, fmt.Errorf("insights: %w", err)
	}
	sum.Top = top
	sum.GeneratedAt = time.Now()
	return sum, nil
}

// Format renders the summary as console text.
func (s Summary) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "books loaded:   %d\n", s.Books)
	fmt.Fprintf(&b, "ratings loaded: %d\n", s.Ratings)
	if len(s.Top) == 0 {
		b.WriteString("no reviewed titles\n")
		return b.String()
	}
	b.WriteString("most reviewed titles:\n")
	for i, tc := range s.Top {
		fmt.Fprintf(&b, "  %d. %s (%d ratings)\n", i+1, tc.Title, tc.Ratings)
	}
	return b.String()
}
