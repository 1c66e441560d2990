// Package config defines the explicit run configuration for the catalog
// loader. It is intentionally small and dependency-free: the struct is built
// from flags (or literals in tests) and passed by value into each component,
// so no component reads process-wide state.
//
// Design goals:
//
//  1. Explicitness: every knob a component needs appears here; there is no
//     hidden global parse result.
//  2. Testability: synthetic configs are plain struct literals.
//  3. Minimalism: no third-party config libraries; validation is a light
//     linter returning issues the CLI can surface.
package config

// Defaults applied by WithDefaults for zero-valued fields.
const (
	DefaultSourceDir = "data/DATA_CSV"
	DefaultDSN       = "goodreads_production.db"
	DefaultStore     = "sqlite"
	DefaultWorkers   = 4
	DefaultChunkSize = 100_000
	DefaultJob       = "bookvault_etl"
)

// Config carries every setting the pipeline and its collaborators need.
type Config struct {
	// SourceDir is the directory scanned for *.csv source files.
	SourceDir string

	// DSN is the destination store connection string. For the sqlite backend
	// this is a file path (or ":memory:"); for postgres a pgx DSN/URL.
	DSN string

	// StoreKind selects the storage backend: "sqlite" or "postgres".
	StoreKind string

	// Workers bounds the number of files processed concurrently.
	Workers int

	// ChunkSize is the number of rows streamed per chunk within one file.
	ChunkSize int

	// ReportPath, when non-empty, is where the HTML dashboard is written
	// after aggregation.
	ReportPath string

	// LogPath, when non-empty, redirects the log stream to a file.
	LogPath string

	// Job names the run for metrics labels and log context.
	Job string
}

// Default returns a Config populated with all documented defaults.
func Default() Config {
	return Config{
		SourceDir: DefaultSourceDir,
		DSN:       DefaultDSN,
		StoreKind: DefaultStore,
		Workers:   DefaultWorkers,
		ChunkSize: DefaultChunkSize,
		Job:       DefaultJob,
	}
}

// WithDefaults returns a copy of c with zero-valued fields replaced by the
// documented defaults. Explicitly set fields are never overridden.
func (c Config) WithDefaults() Config {
	if c.SourceDir == "" {
		c.SourceDir = DefaultSourceDir
	}
	if c.DSN == "" {
		c.DSN = DefaultDSN
	}
	if c.StoreKind == "" {
		c.StoreKind = DefaultStore
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Job == "" {
		c.Job = DefaultJob
	}
	return c
}
