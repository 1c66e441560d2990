package config

import (
	"strings"
	"testing"
)

func findIssue(issues []Issue, path string) (Issue, bool) {
	for _, iss := range issues {
		if iss.Path == path {
			return iss, true
		}
	}
	return Issue{}, false
}

func TestValidateCleanConfig(t *testing.T) {
	t.Parallel()

	if issues := Validate(Default()); len(issues) != 0 {
		t.Fatalf("Default() produced issues: %v", issues)
	}
}

func TestValidateMissingFields(t *testing.T) {
	t.Parallel()

	issues := Validate(Config{})
	for _, path := range []string{"source_dir", "dsn", "store.kind", "workers", "chunk_size"} {
		iss, ok := findIssue(issues, path)
		if !ok {
			t.Errorf("expected issue at %s, got none", path)
			continue
		}
		if iss.Severity != SeverityError {
			t.Errorf("issue at %s has severity %s, want error", path, iss.Severity)
		}
	}
	if !HasError(issues) {
		t.Error("HasError = false for an all-zero config")
	}
}

func TestValidateUnknownStoreKind(t *testing.T) {
	t.Parallel()

	c := Default()
	c.StoreKind = "oracle"
	issues := Validate(c)
	iss, ok := findIssue(issues, "store.kind")
	if !ok {
		t.Fatal("expected an issue for unsupported store kind")
	}
	if iss.Severity != SeverityError || !strings.Contains(iss.Message, "oracle") {
		t.Errorf("unexpected issue: %+v", iss)
	}
}

func TestValidateWarnings(t *testing.T) {
	t.Parallel()

	c := Default()
	c.Workers = 128
	c.ChunkSize = 10
	issues := Validate(c)

	if iss, ok := findIssue(issues, "workers"); !ok || iss.Severity != SeverityWarning {
		t.Errorf("workers=128: got %+v, want warning", issues)
	}
	if iss, ok := findIssue(issues, "chunk_size"); !ok || iss.Severity != SeverityWarning {
		t.Errorf("chunk_size=10: got %+v, want warning", issues)
	}
	if HasError(issues) {
		t.Error("warnings alone must not report HasError")
	}
}

func TestIssueError(t *testing.T) {
	t.Parallel()

	iss := Issue{SeverityError, "dsn", "destination DSN must not be empty"}
	want := "error at dsn: destination DSN must not be empty"
	if iss.Error() != want {
		t.Errorf("Issue.Error() = %q, want %q", iss.Error(), want)
	}
}
