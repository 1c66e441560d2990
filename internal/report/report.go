// Package report renders the run dashboard: a static HTML page with the
// load counts, timings, and the most-reviewed titles. The template is
// embedded so the binary stays self-contained.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"bookvault/internal/insights"
	"bookvault/internal/pipeline"
)

//go:embed templates/*.html
var templates embed.FS

var dashboard = template.Must(template.ParseFS(templates, "templates/dashboard.html"))

// Data feeds the dashboard template.
type Data struct {
	Job         string
	Books       int64
	Ratings     int64
	Quarantined int64
	Files       int
	Failed      []string
	Elapsed     time.Duration
	Top         []TopEntry
	GeneratedAt time.Time
}

// TopEntry is one row of the most-reviewed table.
type TopEntry struct {
	Rank    int
	Title   string
	Ratings int64
}

// Build assembles template data from a pipeline summary and the post-load
// aggregates.
func Build(job string, run pipeline.Summary, agg insights.Summary) Data {
	d := Data{
		Job:         job,
		Books:       agg.Books,
		Ratings:     agg.Ratings,
		Quarantined: run.Quarantined,
		Files:       run.Files,
		Failed:      run.FailedFiles(),
		Elapsed:     run.Elapsed.Truncate(time.Millisecond),
		GeneratedAt: agg.GeneratedAt,
	}
	for i, tc := range agg.Top {
		d.Top = append(d.Top, TopEntry{Rank: i + 1, Title: tc.Title, Ratings: tc.Ratings})
	}
	return d
}

// Render writes the dashboard HTML to w.
func Render(w io.Writer, d Data) error {
	if err := dashboard.Execute(w, d); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}

// WriteFile renders the dashboard to path, replacing any previous report.
func WriteFile(path string, d Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := Render(f, d); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
