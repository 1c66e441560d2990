// Package classify assigns source files to an ingestion route.
//
// The source directory mixes two export shapes that share the ".csv"
// extension: book catalog dumps (book1-100k.csv, book200k-300k.csv, ...) and
// user rating dumps (user_rating_0_to_1000.csv, ...). Classification is an
// explicit, separately testable step so that processing logic never does its
// own filename sniffing.
package classify

import (
	"path/filepath"
	"strings"
)

// Kind identifies the ingestion route for a source file.
type Kind int

const (
	// Unknown marks a file matching neither known prefix. Unknown files are
	// skipped with zero rows processed; they never abort a run.
	Unknown Kind = iota

	// BookFile is a book catalog export (filename prefix "book").
	BookFile

	// RatingFile is a user ratings export (filename prefix "user_rating").
	RatingFile
)

// String returns a short label used in logs and summaries.
func (k Kind) String() string {
	switch k {
	case BookFile:
		return "books"
	case RatingFile:
		return "ratings"
	default:
		return "unknown"
	}
}

// File classifies a source file by its base name. The full path may be
// passed; only the final element is examined.
func File(path string) Kind {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "user_rating"):
		return RatingFile
	case strings.HasPrefix(base, "book"):
		return BookFile
	}
	return Unknown
}
