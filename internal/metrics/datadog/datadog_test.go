package datadog

import (
	"testing"

	"bookvault/internal/metrics"
)

func TestNewBackendRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("expected error for empty Addr")
	}
}

// TestNewBackendWithOptions covers the constructor path including namespace
// and global tags; the UDP client does not dial, so no agent is needed.
func TestNewBackendWithOptions(t *testing.T) {
	t.Parallel()

	b, err := NewBackend(Config{
		Addr:       "127.0.0.1:8125",
		Namespace:  "bookvault.",
		GlobalTags: []string{"env:test"},
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	defer b.Flush()

	// Emitting through the Backend must not panic or error.
	b.IncCounter("pipeline_rows_total", 3, metrics.Labels{"kind": "books_written"})
	b.ObserveHistogram("pipeline_step_duration_seconds", 0.25, metrics.Labels{"step": "file"})
}

func TestNilClientIsSafe(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter("pipeline_rows_total", 1, nil)
	b.ObserveHistogram("pipeline_step_duration_seconds", 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush on nil client: %v", err)
	}
}

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	if got := labelsToTags(nil); got != nil {
		t.Fatalf("labelsToTags(nil) = %v, want nil", got)
	}
	tags := labelsToTags(metrics.Labels{"kind": "quarantined"})
	if len(tags) != 1 || tags[0] != "kind:quarantined" {
		t.Fatalf("labelsToTags = %v", tags)
	}
}
