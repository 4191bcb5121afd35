package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func tokensText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestSplitEmpty(t *testing.T) {
	s := NewSplitter(1000, 200)
	if got := s.Split("", nil); len(got) != 0 {
		t.Fatalf("expected no chunks for empty text, got %d", len(got))
	}
	if got := s.Split("   \n\t  ", nil); len(got) != 0 {
		t.Fatalf("expected no chunks for whitespace text, got %d", len(got))
	}
}

func TestSplitSingleChunk(t *testing.T) {
	s := NewSplitter(1000, 200)
	chunks := s.Split(tokensText(500), nil)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if got := len(Tokenize(chunks[0].Content)); got != 500 {
		t.Fatalf("expected 500 tokens, got %d", got)
	}
}

func TestSplitWindowPositions(t *testing.T) {
	// 3000 tokens, window 1000, overlap 200: starts 0, 800, 1600, 2400.
	s := NewSplitter(1000, 200)
	chunks := s.Split(tokensText(3000), nil)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	wantStarts := []int{0, 800, 1600, 2400}
	wantLens := []int{1000, 1000, 1000, 600}
	for i, c := range chunks {
		toks := Tokenize(c.Content)
		if len(toks) != wantLens[i] {
			t.Errorf("chunk %d: expected %d tokens, got %d", i, wantLens[i], len(toks))
		}
		if toks[0] != fmt.Sprintf("w%d", wantStarts[i]) {
			t.Errorf("chunk %d: expected first token w%d, got %s", i, wantStarts[i], toks[0])
		}
	}
}

func TestSplitOverlapSharesTokens(t *testing.T) {
	s := NewSplitter(100, 20)
	chunks := s.Split(tokensText(300), nil)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	first := Tokenize(chunks[0].Content)
	second := Tokenize(chunks[1].Content)
	tail := first[len(first)-20:]
	head := second[:20]
	for i := range tail {
		if tail[i] != head[i] {
			t.Fatalf("overlap token %d differs: %s vs %s", i, tail[i], head[i])
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	s := NewSplitter(50, 10)
	text := tokensText(237)
	a := s.Split(text, map[string]string{"source": "a"})
	b := s.Split(text, map[string]string{"source": "a"})
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Content != b[i].Content {
			t.Fatalf("chunk %d content differs", i)
		}
	}
}

func TestSplitMetadataCopied(t *testing.T) {
	s := NewSplitter(10, 2)
	meta := map[string]string{"source": "doc.txt"}
	chunks := s.Split(tokensText(25), meta)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	chunks[0].Metadata["source"] = "mutated"
	if chunks[1].Metadata["source"] != "doc.txt" {
		t.Fatal("metadata maps are shared between chunks")
	}
	if meta["source"] != "doc.txt" {
		t.Fatal("caller metadata was mutated")
	}
}

func TestNewSplitterClamps(t *testing.T) {
	tests := []struct {
		name                  string
		size, overlap         int
		wantSize, wantOverlap int
	}{
		{"zero size", 0, 50, 1000, 50},
		{"negative overlap", 100, -5, 100, 0},
		{"overlap equals size", 100, 100, 100, 25},
		{"overlap above size", 100, 150, 100, 25},
		{"valid", 1000, 200, 1000, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSplitter(tt.size, tt.overlap)
			if s.ChunkSize() != tt.wantSize {
				t.Errorf("chunk size: expected %d, got %d", tt.wantSize, s.ChunkSize())
			}
			if s.Overlap() != tt.wantOverlap {
				t.Errorf("overlap: expected %d, got %d", tt.wantOverlap, s.Overlap())
			}
		})
	}
}

func TestSplitAlwaysTerminates(t *testing.T) {
	// overlap clamped to size/4 keeps the step positive
	s := NewSplitter(4, 10)
	chunks := s.Split(tokensText(20), nil)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
}
