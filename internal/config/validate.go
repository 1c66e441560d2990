// This file adds a lightweight linter for Config values. It performs static
// checks and returns a list of issues (errors and warnings) that callers can
// surface in a CLI or tests. It never mutates the config.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Config.
//
// Path is a dotted path into the config (e.g. "store.kind"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Config.
//
// Callers may decide whether to treat warnings as fatal. Run Validate after
// WithDefaults; missing optional values are not reported, only values that
// are present and wrong.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.SourceDir) == "" {
		issues = append(issues, Issue{SeverityError, "source_dir", "source directory must not be empty"})
	}
	if strings.TrimSpace(c.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "dsn", "destination DSN must not be empty"})
	}
	switch c.StoreKind {
	case "sqlite", "postgres":
	case "":
		issues = append(issues, Issue{SeverityError, "store.kind", "store kind must be set"})
	default:
		issues = append(issues, Issue{SeverityError, "store.kind",
			fmt.Sprintf("unsupported store kind %q (want sqlite or postgres)", c.StoreKind)})
	}
	if c.Workers <= 0 {
		issues = append(issues, Issue{SeverityError, "workers", "worker count must be positive"})
	} else if c.Workers > 64 {
		issues = append(issues, Issue{SeverityWarning, "workers",
			fmt.Sprintf("worker count %d is unusually high for file-level parallelism", c.Workers)})
	}
	if c.ChunkSize <= 0 {
		issues = append(issues, Issue{SeverityError, "chunk_size", "chunk size must be positive"})
	} else if c.ChunkSize < 100 {
		issues = append(issues, Issue{SeverityWarning, "chunk_size",
			fmt.Sprintf("chunk size %d is very small; per-chunk overhead will dominate", c.ChunkSize)})
	}

	return issues
}

// HasError reports whether any issue in the slice is of error severity.
func HasError(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
