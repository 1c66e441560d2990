package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"bookvault/internal/parser/csv"
)

var errPreviewDone = errors.New("preview done")

// Preview logs the header and the first rows of each loadable file in dir.
// Meant for eyeballing column layout before a run; failures here are
// non-fatal to the caller by convention.
func Preview(dir string, rows int) error {
	files, err := Discover(dir)
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := previewFile(path, rows); err != nil {
			return err
		}
	}
	return nil
}

func previewFile(path string, rows int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	defer f.Close()

	if rows < 1 {
		rows = 1
	}

	emit := func(chunk csv.Chunk) error {
		log.Printf("preview: file=%s", path)
		log.Printf("preview: | %s |", padCells(chunk.Header))
		for _, row := range chunk.Rows {
			log.Printf("preview: | %s |", padCells(row))
		}
		return errPreviewDone
	}

	_, err = csv.StreamChunks(context.Background(), f, rows, func(int, error) {}, emit)
	if errors.Is(err, errPreviewDone) {
		return nil
	}
	return err
}

// padCells renders cells at a fixed width so consecutive rows line up.
func padCells(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprintf("%-24.24s", c)
	}
	return strings.Join(out, " | ")
}
