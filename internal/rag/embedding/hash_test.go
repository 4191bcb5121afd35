package embedding

import (
	"context"
	"math"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	h := NewHash(384)
	a, err := h.Embed(context.Background(), []string{"the quick brown fox"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Embed(context.Background(), []string{"the quick brown fox"})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("component %d differs: %f vs %f", i, a[0][i], b[0][i])
		}
	}
}

func TestHashDimensions(t *testing.T) {
	h := NewHash(128)
	if h.Dimensions() != 128 {
		t.Fatalf("expected 128 dimensions, got %d", h.Dimensions())
	}
	vecs, err := h.Embed(context.Background(), []string{"a", "b c", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 128 {
			t.Fatalf("vector %d has %d dimensions", i, len(v))
		}
	}
}

func TestHashDefaultDimensions(t *testing.T) {
	if got := NewHash(0).Dimensions(); got != 384 {
		t.Fatalf("expected default 384, got %d", got)
	}
}

func TestHashNormalized(t *testing.T) {
	h := NewHash(384)
	vecs, err := h.Embed(context.Background(), []string{"vectors should have unit length"})
	if err != nil {
		t.Fatal(err)
	}
	var norm float64
	for _, v := range vecs[0] {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-4 {
		t.Fatalf("expected unit norm, got %f", norm)
	}
}

func TestHashDistinguishesTexts(t *testing.T) {
	h := NewHash(384)
	vecs, err := h.Embed(context.Background(), []string{
		"database replication strategies",
		"chocolate cake recipe",
	})
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for i := range vecs[0] {
		if vecs[0][i] != vecs[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("unrelated texts produced identical vectors")
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Hello, World! 123 foo-bar")
	want := []string{"hello", "world", "123", "foo", "bar"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
