package storage

import (
	"context"
	"strings"
	"testing"
)

func TestNewUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "no-such-backend"})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !strings.Contains(err.Error(), "no-such-backend") {
		t.Errorf("error should name the kind: %v", err)
	}
}

func TestRegisterAndKinds(t *testing.T) {
	// Mutates the global registry; not parallel.
	called := false
	Register("test-kind", func(ctx context.Context, cfg Config) (Repository, error) {
		called = true
		return nil, nil
	})

	found := false
	for _, k := range Kinds() {
		if k == "test-kind" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Kinds() = %v, missing test-kind", Kinds())
	}

	if _, err := New(context.Background(), Config{Kind: "test-kind"}); err != nil {
		t.Fatalf("New: %v", err)
	}
	if !called {
		t.Error("factory was not invoked")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("dup-kind", func(ctx context.Context, cfg Config) (Repository, error) { return nil, nil })
	Register("dup-kind", func(ctx context.Context, cfg Config) (Repository, error) { return nil, nil })
}
