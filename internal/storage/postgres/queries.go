package postgres

import (
	"context"
	"fmt"

	"bookvault/internal/storage"
)

// Stats returns total row counts for both tables.
func (r *Repository) Stats(ctx context.Context) (storage.Stats, error) {
	var s storage.Stats
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&s.Books); err != nil {
		return s, fmt.Errorf("postgres: count books: %w", err)
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&s.Ratings); err != nil {
		return s, fmt.Errorf("postgres: count ratings: %w", err)
	}
	return s, nil
}

// TopReviewed joins books to ratings on title and returns the most-reviewed
// titles. Tie order is unspecified.
func (r *Repository) TopReviewed(ctx context.Context, limit int) ([]storage.TitleCount, error) {
	rows, err := r.pool.Query(ctx, `
SELECT b.title, COUNT(r.rating_id) AS reviews
FROM books b JOIN ratings r ON b.title = r.book_title
GROUP BY b.title ORDER BY reviews DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: top reviewed: %w", err)
	}
	defer rows.Close()

	var out []storage.TitleCount
	for rows.Next() {
		var tc storage.TitleCount
		if err := rows.Scan(&tc.Title, &tc.Ratings); err != nil {
			return nil, fmt.Errorf("postgres: scan top reviewed: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// SearchTitles returns up to limit books whose title contains keyword,
// best-rated first.
func (r *Repository) SearchTitles(ctx context.Context, keyword string, limit int) ([]storage.SearchHit, error) {
	rows, err := r.pool.Query(ctx, `
SELECT title, avg_rating
FROM books
WHERE title LIKE '%' || $1 || '%'
ORDER BY avg_rating DESC
LIMIT $2`, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: search titles: %w", err)
	}
	defer rows.Close()

	var out []storage.SearchHit
	for rows.Next() {
		var h storage.SearchHit
		if err := rows.Scan(&h.Title, &h.AvgRating); err != nil {
			return nil, fmt.Errorf("postgres: scan search hit: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
