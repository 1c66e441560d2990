// Package csv implements streaming, chunked CSV parsing for large files.
//
// Files are read in bounded-size chunks (a fixed row count) so that peak
// memory stays around O(chunkSize) regardless of file size. Malformed lines
// are a routine condition in the source exports: they are reported through a
// callback and skipped, never aborting the chunk. Input is treated as UTF-8;
// ill-formed byte sequences are replaced rather than surfaced as errors.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Chunk is a bounded slice of raw rows sharing one canonical header.
type Chunk struct {
	// Header holds canonical column names (lower case, spaces replaced by
	// underscores, BOM stripped). All rows are padded to this width.
	Header []string

	// Rows holds raw cell values. Cells absent in a short record are "".
	Rows [][]string

	// First is the 1-based source line number of the first row in the chunk.
	First int
}

// Col returns the index of a canonical column name in the header, or -1.
func (c Chunk) Col(name string) int {
	for i, h := range c.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// CanonicalHeader normalizes raw header cells: trims whitespace, strips a
// UTF-8 BOM from the first cell, lower-cases, and replaces spaces with
// underscores. The source exports disagree on header casing ("Id" vs "ID");
// canonicalization makes downstream column lookup uniform.
func CanonicalHeader(hdr []string) []string {
	out := make([]string, len(hdr))
	for i, h := range hdr {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = strings.ReplaceAll(strings.ToLower(h), " ", "_")
	}
	return out
}

// StreamChunks reads src as headered CSV and invokes emit for successive
// chunks of up to chunkSize rows. The final chunk may be smaller; an input
// with a header and zero data rows emits nothing.
//
// Behavior:
//   - Per-line errors are soft: reported via onErr(line, err) and skipped.
//   - Rows narrower than the header are padded with ""; extra cells beyond
//     the header width are dropped.
//   - A non-nil error from emit is fatal and stops the stream.
//   - The raw source bytes are hashed while streaming; the xxh3 fingerprint
//     (hex) of everything consumed is returned for lineage reporting.
//
// Returns a fatal error only for: unreadable header, emit failure, or context
// cancellation. The caller owns src and is responsible for closing it.
func StreamChunks(
	ctx context.Context,
	src io.Reader,
	chunkSize int,
	onErr func(line int, err error),
	emit func(Chunk) error,
) (string, error) {
	if chunkSize <= 0 {
		return "", fmt.Errorf("chunkSize must be > 0, got %d", chunkSize)
	}

	hasher := xxh3.New()
	r := io.TeeReader(src, hasher)

	// Replace ill-formed UTF-8 instead of letting it corrupt field values.
	// The hash above covers the original bytes, not the scrubbed stream.
	scrubbed := transform.NewReader(r, runes.ReplaceIllFormed())

	cr := csv.NewReader(scrubbed)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	fingerprint := func() string {
		return fmt.Sprintf("%016x", hasher.Sum64())
	}

	var line int
	readRec := func() ([]string, error) {
		line++
		return cr.Read()
	}

	hdr, err := readRec()
	if err != nil {
		if onErr != nil {
			onErr(line, fmt.Errorf("read header: %w", err))
		}
		return fingerprint(), fmt.Errorf("read header: %w", err)
	}
	header := CanonicalHeader(hdr)

	rows := make([][]string, 0, chunkSize)
	first := 0

	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		err := emit(Chunk{Header: header, Rows: rows, First: first})
		rows = make([][]string, 0, chunkSize)
		first = 0
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return fingerprint(), ctx.Err()
		default:
		}

		rec, err := readRec()
		if err == io.EOF {
			return fingerprint(), flush()
		}
		if err != nil {
			if onErr != nil {
				onErr(line, fmt.Errorf("csv read: %w", err))
			}
			continue
		}

		row := make([]string, len(header))
		for i := range header {
			if i < len(rec) {
				row[i] = rec[i]
			}
		}
		if len(rows) == 0 {
			first = line
		}
		rows = append(rows, row)

		if len(rows) >= chunkSize {
			if err := flush(); err != nil {
				return fingerprint(), err
			}
		}
	}
}
