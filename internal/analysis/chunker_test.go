package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
)

func TestChunk_coversEveryPosition(t *testing.T) {
	text := strings.Repeat("abcdefghij", 100) // 1000 chars
	cases := []struct{ size, overlap int }{
		{100, 0},
		{100, 20},
		{333, 50},
		{1000, 200},
		{4000, 200},
	}
	for _, c := range cases {
		chunks, err := Chunk(text, c.size, c.overlap)
		if err != nil {
			t.Fatalf("Chunk(size=%d, overlap=%d): %v", c.size, c.overlap, err)
		}
		covered := 0
		step := c.size - c.overlap
		for i, ch := range chunks {
			start := i * step
			if start > covered {
				t.Fatalf("size=%d overlap=%d: gap before chunk %d", c.size, c.overlap, i)
			}
			if end := start + len(ch); end > covered {
				covered = end
			}
		}
		if covered < len(text) {
			t.Errorf("size=%d overlap=%d: covered %d of %d chars", c.size, c.overlap, covered, len(text))
		}
		last := chunks[len(chunks)-1]
		if (len(chunks)-1)*step+len(last) < len(text) {
			t.Errorf("size=%d overlap=%d: last chunk ends before text end", c.size, c.overlap)
		}
	}
}

func TestChunk_overlapContent(t *testing.T) {
	chunks, err := Chunk("abcdefghij", 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"abcd", "cdef", "efgh", "ghij", "ij"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %v, want %v", len(chunks), chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestChunk_idempotent(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 500)
	first, err := Chunk(text, 4000, 200)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Chunk(text, 4000, 200)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("chunk %d differs across runs", i)
		}
	}
}

func TestChunk_invalidConfig(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 100, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Chunk("some text", c.size, c.overlap)
			if !errors.Is(err, apperrors.ErrInvalidChunkConfig) {
				t.Errorf("expected ErrInvalidChunkConfig, got %v", err)
			}
		})
	}
}

func TestChunk_emptyText(t *testing.T) {
	chunks, err := Chunk("", 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("empty text should yield no chunks, got %v", chunks)
	}
}

func TestChunk_multibyteSafe(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 50)
	chunks, err := Chunk(text, 7, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, ch := range chunks {
		if !strings.Contains(text, ch) {
			t.Errorf("chunk %d (%q) splits a multi-byte sequence", i, ch)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("short text should pass through, got %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("truncation should count runes, got %q", got)
	}
	if got := Truncate("x", 0); got != "" {
		t.Errorf("got %q", got)
	}
}
