package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bookvault/internal/classify"
	"bookvault/internal/config"
	"bookvault/internal/metrics"
	"bookvault/internal/storage"
)

// Summary aggregates a whole run. Failed counts files whose Result carries
// an error; their rows are partial at best and excluded from nothing, the
// per-file Results tell the full story.
type Summary struct {
	Files       int
	Failed      int
	Books       int64
	Ratings     int64
	Quarantined int64
	ParseErrors int64
	Elapsed     time.Duration
	Results     []Result
}

// FailedFiles returns the paths of files that errored, in dispatch order.
func (s Summary) FailedFiles() []string {
	var out []string
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r.File)
		}
	}
	return out
}

// Discover lists the CSV files under dir in sorted order. Files that do not
// match a known naming pattern are skipped with a log line; the run operates
// on whatever remains.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read source dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if classify.File(path) == classify.Unknown {
			log.Printf("pipeline: file=%s skipped: unrecognized name", path)
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// Run executes the full pipeline: prepare the schema, load every discovered
// file through a pool of cfg.Workers workers, then build indexes.
//
// A failed file never aborts the run; its error lands in the Result and the
// Failed counter, and the remaining files keep loading. Run itself errors
// only on setup-level problems (unreadable source dir, store unreachable,
// schema or index DDL failure).
func Run(ctx context.Context, cfg config.Config) (Summary, error) {
	start := time.Now()
	var sum Summary

	files, err := Discover(cfg.SourceDir)
	if err != nil {
		return sum, err
	}
	if len(files) == 0 {
		return sum, fmt.Errorf("pipeline: no loadable CSV files in %s", cfg.SourceDir)
	}

	// One administrative connection for DDL; workers open their own.
	admin, err := newRepository(ctx, storage.Config{Kind: cfg.StoreKind, DSN: cfg.DSN})
	if err != nil {
		return sum, fmt.Errorf("pipeline: open store: %w", err)
	}
	defer admin.Close()

	schemaStart := time.Now()
	err = admin.EnsureSchema(ctx)
	metrics.RecordStep(cfg.Job, "schema", err, time.Since(schemaStart))
	if err != nil {
		return sum, fmt.Errorf("pipeline: ensure schema: %w", err)
	}

	log.Printf("pipeline: dispatching files=%d workers=%d chunk_size=%d store=%s",
		len(files), cfg.Workers, cfg.ChunkSize, cfg.StoreKind)

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = ProcessFile(gctx, cfg, path)
			// Per-file failures are reported, not propagated; returning an
			// error here would cancel the sibling workers.
			return nil
		})
	}
	_ = g.Wait()

	idxStart := time.Now()
	err = admin.BuildIndexes(ctx)
	metrics.RecordStep(cfg.Job, "indexes", err, time.Since(idxStart))
	if err != nil {
		return sum, fmt.Errorf("pipeline: build indexes: %w", err)
	}

	sum = summarize(results)
	sum.Elapsed = time.Since(start)

	log.Printf("pipeline: done files=%d failed=%d books=%d ratings=%d quarantined=%d parse_errors=%d elapsed=%s",
		sum.Files, sum.Failed, sum.Books, sum.Ratings, sum.Quarantined, sum.ParseErrors,
		sum.Elapsed.Truncate(time.Millisecond))
	for _, r := range sum.Results {
		if r.Err != nil {
			log.Printf("pipeline: file=%s failed: %v", r.File, r.Err)
		}
	}
	return sum, nil
}

func summarize(results []Result) Summary {
	sum := Summary{Files: len(results), Results: results}
	for _, r := range results {
		if r.Err != nil {
			sum.Failed++
		}
		sum.Quarantined += r.Quarantined
		sum.ParseErrors += r.ParseErrors
		switch r.Kind {
		case classify.BookFile:
			sum.Books += r.Written
		case classify.RatingFile:
			sum.Ratings += r.Written
		}
	}
	return sum
}
