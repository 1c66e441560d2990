// Package sqlite implements the catalog store on SQLite via database/sql.
// SQLite has no dedicated bulk-load API like Postgres COPY, but prepared
// statements inside a transaction keep per-chunk insert cost acceptable;
// first-write-wins on books relies on INSERT OR IGNORE against the primary
// key.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// CGO-free SQLite driver; alternative: github.com/mattn/go-sqlite3.
	_ "modernc.org/sqlite"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens a SQLite connection for the given DSN and returns a Repository
// plus a close function for cleanup.
//
// The DSN is passed to database/sql directly, e.g.:
//
//	"goodreads_production.db"
//	"file:catalog.db?cache=shared"
//	":memory:"
func Open(ctx context.Context, dsn string) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", withBusyTimeout(dsn))
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// A plain ":memory:" DSN gives every pooled connection its own private
	// database; cap the pool at one connection so the schema survives.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// withBusyTimeout adds a busy_timeout pragma to the DSN so every pooled
// connection waits for sibling workers' write locks instead of failing with
// SQLITE_BUSY. A post-open PRAGMA exec would only reach one connection in
// the pool.
func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "_pragma=busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}

// EnsureSchema creates the books table if absent and rebuilds the ratings
// table from empty. Safe to call repeatedly; book rows accumulate across
// runs while ratings never do.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
  book_id TEXT PRIMARY KEY,
  title TEXT,
  avg_rating REAL
);`,
		`DROP TABLE IF EXISTS ratings;`,
		`CREATE TABLE ratings (
  rating_id INTEGER PRIMARY KEY AUTOINCREMENT,
  book_title TEXT,
  user_id TEXT,
  rating_text TEXT,
  rating_int INTEGER
);`,
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlite: ensure schema: %w", err)
		}
	}
	return nil
}

// InsertBooks writes book rows with INSERT OR IGNORE so that a duplicate
// book_id is a silent no-op, both within one run and across runs. Returns
// the number of rows actually inserted (ignored duplicates don't count).
func (r *Repository) InsertBooks(ctx context.Context, rows [][]any) (int64, error) {
	return r.insert(ctx,
		`INSERT OR IGNORE INTO books (book_id, title, avg_rating) VALUES (?, ?, ?)`,
		3, rows)
}

// InsertRatings appends rating rows unconditionally; the table is rebuilt
// every run and repeated (user, title) pairs are expected to persist.
func (r *Repository) InsertRatings(ctx context.Context, rows [][]any) (int64, error) {
	return r.insert(ctx,
		`INSERT INTO ratings (book_title, user_id, rating_text, rating_int) VALUES (?, ?, ?, ?)`,
		4, rows)
}

// insert runs one prepared statement per row inside a single transaction.
// Argument-count limits rule out one giant multi-VALUES statement at chunk
// sizes of 100k rows.
func (r *Repository) insert(ctx context.Context, stmtSQL string, width int, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != width {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: row length %d != %d", len(row), width)
		}
		res, err := stmt.ExecContext(ctx, row...)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: insert: %w", err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// BuildIndexes creates the post-load title indexes used by the aggregation
// join and the keyword search.
func (r *Repository) BuildIndexes(ctx context.Context) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_book_title ON books(title);`,
		`CREATE INDEX IF NOT EXISTS idx_rating_title ON ratings(book_title);`,
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlite: build indexes: %w", err)
		}
	}
	return nil
}
