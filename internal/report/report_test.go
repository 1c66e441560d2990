package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bookvault/internal/insights"
	"bookvault/internal/pipeline"
	"bookvault/internal/storage"
)

func sampleData() Data {
	run := pipeline.Summary{
		Files:       3,
		Failed:      1,
		Quarantined: 7,
		Elapsed:     1500 * time.Millisecond,
		Results: []pipeline.Result{
			{File: "data/book1.csv"},
			{File: "data/book_broken.csv", Err: os.ErrNotExist},
		},
	}
	agg := insights.Summary{
		Books:   100,
		Ratings: 5000,
		Top: []storage.TitleCount{
			{Title: "Harry Potter & friends", Ratings: 42},
			{Title: "Dune", Ratings: 17},
		},
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	return Build("bookvault_etl", run, agg)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	d := sampleData()
	if d.Books != 100 || d.Ratings != 5000 || d.Quarantined != 7 {
		t.Errorf("counts = %+v", d)
	}
	if len(d.Failed) != 1 || d.Failed[0] != "data/book_broken.csv" {
		t.Errorf("failed = %v", d.Failed)
	}
	if len(d.Top) != 2 || d.Top[0].Rank != 1 || d.Top[1].Rank != 2 {
		t.Errorf("top = %+v", d.Top)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := Render(&b, sampleData()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		">100<", ">5000<", ">7<",
		"Dune",
		"data/book_broken.csv",
		"2025-06-01",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// Titles pass through html/template escaping.
	if !strings.Contains(out, "Harry Potter &amp; friends") {
		t.Error("title not HTML-escaped")
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := Render(&b, Data{Job: "bookvault_etl"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(b.String(), "No reviewed titles") {
		t.Error("empty ranking placeholder missing")
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteFile(path, sampleData()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(raw), "<!DOCTYPE html>") {
		t.Error("report file is not HTML")
	}
}
