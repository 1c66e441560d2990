package schema

import (
	"testing"

	"bookvault/internal/classify"
	csvparser "bookvault/internal/parser/csv"
)

func bookChunk(rows ...[]string) csvparser.Chunk {
	return csvparser.Chunk{Header: []string{"id", "name", "rating"}, Rows: rows, First: 2}
}

func ratingChunk(rows ...[]string) csvparser.Chunk {
	return csvparser.Chunk{Header: []string{"name", "id", "rating"}, Rows: rows, First: 2}
}

func TestMapChunkBooks(t *testing.T) {
	t.Parallel()

	m, err := MapChunk(classify.BookFile, bookChunk(
		[]string{"1", "Harry Potter", "4.5"},
		[]string{"2", "", "3.0"},    // missing title: quarantined
		[]string{"abc", "BadId", "2.0"}, // non-numeric id: quarantined
	))
	if err != nil {
		t.Fatalf("MapChunk: %v", err)
	}

	if m.Quarantined != 2 {
		t.Errorf("Quarantined = %d, want 2", m.Quarantined)
	}
	if len(m.Rows) != 1 {
		t.Fatalf("Rows = %v, want exactly one", m.Rows)
	}
	row := m.Rows[0]
	if row[0] != "1" || row[1] != "Harry Potter" || row[2] != 4.5 {
		t.Errorf("row = %v, want [1 Harry Potter 4.5]", row)
	}
}

// TestMapChunkBooksRowAccounting verifies surviving + quarantined always
// equals the input row count.
func TestMapChunkBooksRowAccounting(t *testing.T) {
	t.Parallel()

	in := bookChunk(
		[]string{"1", "A", "4.0"},
		[]string{"x", "B", "4.0"},
		[]string{"3", "", "4.0"},
		[]string{"", "D", ""},
		[]string{"5", "E", "bogus"},
	)
	m, err := MapChunk(classify.BookFile, in)
	if err != nil {
		t.Fatalf("MapChunk: %v", err)
	}
	if got := len(m.Rows) + m.Quarantined; got != len(in.Rows) {
		t.Errorf("rows(%d) + quarantined(%d) = %d, want %d", len(m.Rows), m.Quarantined, got, len(in.Rows))
	}
}

// TestMapChunkBooksNullRating verifies a non-numeric average rating becomes
// NULL while the row itself survives.
func TestMapChunkBooksNullRating(t *testing.T) {
	t.Parallel()

	m, err := MapChunk(classify.BookFile, bookChunk([]string{"7", "Dune", "not-a-number"}))
	if err != nil {
		t.Fatalf("MapChunk: %v", err)
	}
	if len(m.Rows) != 1 {
		t.Fatalf("Rows = %v, want one row", m.Rows)
	}
	if m.Rows[0][2] != nil {
		t.Errorf("avg_rating = %v, want nil", m.Rows[0][2])
	}
	if m.Quarantined != 0 {
		t.Errorf("Quarantined = %d, want 0", m.Quarantined)
	}
}

func TestMapChunkRatings(t *testing.T) {
	t.Parallel()

	m, err := MapChunk(classify.RatingFile, ratingChunk(
		[]string{"Harry Potter", "u1", "it was amazing"},
		[]string{"Dune", "u2", "unknown text"},
		[]string{"", "u3", "liked it"},  // missing title: quarantined
		[]string{"Emma", "", "liked it"}, // missing user: quarantined
	))
	if err != nil {
		t.Fatalf("MapChunk: %v", err)
	}

	if m.Quarantined != 2 {
		t.Errorf("Quarantined = %d, want 2", m.Quarantined)
	}
	if len(m.Rows) != 2 {
		t.Fatalf("Rows = %v, want two", m.Rows)
	}

	want := [][]any{
		{"Harry Potter", "u1", "it was amazing", 5},
		{"Dune", "u2", "unknown text", 0},
	}
	for i, w := range want {
		for j := range w {
			if m.Rows[i][j] != w[j] {
				t.Errorf("row %d col %d = %v, want %v", i, j, m.Rows[i][j], w[j])
			}
		}
	}
}

// TestMapChunkRatingsKeepsRawLabel verifies the raw label text is preserved
// while the integer comes from the canonicalized lookup.
func TestMapChunkRatingsKeepsRawLabel(t *testing.T) {
	t.Parallel()

	m, err := MapChunk(classify.RatingFile, ratingChunk([]string{"Emma", "u9", "  It Was Amazing "}))
	if err != nil {
		t.Fatalf("MapChunk: %v", err)
	}
	row := m.Rows[0]
	if row[2] != "  It Was Amazing " {
		t.Errorf("rating_text = %q, want the raw label", row[2])
	}
	if row[3] != 5 {
		t.Errorf("rating_int = %v, want 5", row[3])
	}
}

func TestMapChunkMissingColumns(t *testing.T) {
	t.Parallel()

	bad := csvparser.Chunk{Header: []string{"isbn", "title"}, Rows: [][]string{{"1", "x"}}}
	if _, err := MapChunk(classify.BookFile, bad); err == nil {
		t.Error("book chunk without id/name/rating columns should error")
	}
	if _, err := MapChunk(classify.RatingFile, bad); err == nil {
		t.Error("rating chunk without name/id/rating columns should error")
	}
}

func TestMapChunkUnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := MapChunk(classify.Unknown, bookChunk()); err == nil {
		t.Error("mapping an unknown kind should error")
	}
}
