// Package storage contains the storage-agnostic contracts for the book
// catalog store, plus a small factory registry so callers never import a
// concrete backend directly. Backends register themselves in init; programs
// blank-import bookvault/internal/storage/all to compile in every backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
)

// Config selects and parameterizes a backend.
type Config struct {
	// Kind is the backend name as registered (e.g. "sqlite", "postgres").
	Kind string

	// DSN is backend-specific: a file path for sqlite, a pgx URL for postgres.
	DSN string
}

// Stats holds total row counts for both tables.
type Stats struct {
	Books   int64
	Ratings int64
}

// TitleCount is one entry of the most-reviewed ranking.
type TitleCount struct {
	Title   string
	Ratings int64
}

// SearchHit is one row of a keyword search over the catalog.
type SearchHit struct {
	Title     string
	AvgRating sql.NullFloat64
}

// Repository is the storage contract shared by the pipeline, the insight
// queries, and the search tool.
//
// Connection scope: one Repository owns one connection (or pool). Pipeline
// workers each construct their own Repository and must Close it on every
// exit path.
type Repository interface {
	// EnsureSchema prepares the destination for a run: the books table is
	// created if absent (runs are additive for books), the ratings table is
	// dropped and recreated (ratings have no cross-run persistence).
	EnsureSchema(ctx context.Context) error

	// InsertBooks inserts book rows (book_id, title, avg_rating) with
	// first-write-wins semantics: a row whose book_id already exists is
	// silently discarded. Returns the number of rows actually written.
	InsertBooks(ctx context.Context, rows [][]any) (int64, error)

	// InsertRatings appends rating rows (book_title, user_id, rating_text,
	// rating_int) unconditionally. Returns the number of rows written.
	InsertRatings(ctx context.Context, rows [][]any) (int64, error)

	// BuildIndexes creates the title indexes. Deliberately deferred until
	// after bulk load; building once over the final row set is far cheaper
	// than maintaining the index during high-volume insert.
	BuildIndexes(ctx context.Context) error

	// Stats returns total row counts for both tables.
	Stats(ctx context.Context) (Stats, error)

	// TopReviewed joins books to ratings on title equality and returns the
	// limit most-reviewed titles, ties in backend order.
	TopReviewed(ctx context.Context, limit int) ([]TitleCount, error)

	// SearchTitles returns up to limit books whose title contains keyword,
	// ordered by average rating descending.
	SearchTitles(ctx context.Context, keyword string, limit int) ([]SearchHit, error)

	// Close releases the underlying connection. Safe to call once.
	Close()
}

// Factory builds a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a backend factory under a kind name. Backends call this
// from init; a duplicate registration panics early rather than shadowing.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("storage: duplicate registration for kind %q", kind))
	}
	factories[kind] = f
}

// New constructs a Repository for cfg.Kind, or errors listing the kinds that
// are compiled in.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend names, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
