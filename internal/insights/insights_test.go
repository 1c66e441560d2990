package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bookvault/internal/storage"
)

// fakeRepo implements just enough of storage.Repository for Collect.
type fakeRepo struct {
	storage.Repository

	stats    storage.Stats
	top      []storage.TitleCount
	statsErr error
	topErr   error
}

func (f *fakeRepo) Stats(ctx context.Context) (storage.Stats, error) {
	return f.stats, f.statsErr
}

func (f *fakeRepo) TopReviewed(ctx context.Context, limit int) ([]storage.TitleCount, error) {
	if f.topErr != nil {
		return nil, f.topErr
	}
	if limit < len(f.top) {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func TestCollect(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		stats: storage.Stats{Books: 100, Ratings: 5000},
		top: []storage.TitleCount{
			{Title: "Harry Potter", Ratings: 42},
			{Title: "Dune", Ratings: 17},
		},
	}

	sum, err := Collect(context.Background(), repo, TopN)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if sum.Books != 100 || sum.Ratings != 5000 {
		t.Errorf("counts = %d/%d, want 100/5000", sum.Books, sum.Ratings)
	}
	if len(sum.Top) != 2 || sum.Top[0].Title != "Harry Potter" {
		t.Errorf("top = %+v", sum.Top)
	}
	if sum.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestCollectTopNLimit(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		top: []storage.TitleCount{
			{Title: "A", Ratings: 9}, {Title: "B", Ratings: 8}, {Title: "C", Ratings: 7},
		},
	}
	sum, err := Collect(context.Background(), repo, 2)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(sum.Top) != 2 {
		t.Errorf("top length = %d, want 2", len(sum.Top))
	}
}

func TestCollectErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	if _, err := Collect(context.Background(), &fakeRepo{statsErr: boom}, TopN); !errors.Is(err, boom) {
		t.Errorf("stats error not propagated: %v", err)
	}
	if _, err := Collect(context.Background(), &fakeRepo{topErr: boom}, TopN); !errors.Is(err, boom) {
		t.Errorf("top error not propagated: %v", err)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	s := Summary{
		Books:   3,
		Ratings: 8,
		Top: []storage.TitleCount{
			{Title: "Dune", Ratings: 5},
		},
	}
	out := s.Format()
	for _, want := range []string{"books loaded:   3", "ratings loaded: 8", "1. Dune (5 ratings)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format output missing %q:\n%s", want, out)
		}
	}

	empty := Summary{}.Format()
	if !strings.Contains(empty, "no reviewed titles") {
		t.Errorf("empty summary output: %s", empty)
	}
}
