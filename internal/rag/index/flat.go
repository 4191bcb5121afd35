// Package index implements exact nearest-neighbor search over squared L2
// distance. The index is brute-force: every query scans the full stored set,
// which guarantees exact results at single-user document scale.
package index

import (
	"errors"
	"fmt"
	"sort"

	"termllm/internal/rag/chunker"
)

var (
	// ErrDimensionMismatch signals a vector whose length differs from the
	// index's configured dimension. This is a programmer or configuration
	// error and is never coerced.
	ErrDimensionMismatch = errors.New("index: vector dimension mismatch")

	// ErrCountMismatch signals vectors and chunks of different lengths.
	ErrCountMismatch = errors.New("index: vectors and chunks length mismatch")
)

// Hit is a single nearest-neighbor match. Distance is the exact squared
// Euclidean distance in float32.
type Hit struct {
	Chunk    chunker.Chunk
	Distance float32
}

// Flat stores (vector, chunk) pairs in parallel, append-only slices. Row i of
// the vector store always corresponds to chunk i; the only removal operation
// is Clear. Flat is safe for concurrent reads; the caller serializes
// mutations against reads.
type Flat struct {
	dim     int
	vectors [][]float32
	chunks  []chunker.Chunk
}

// NewFlat creates an empty index with a fixed dimension.
func NewFlat(dim int) *Flat {
	return &Flat{dim: dim}
}

// Dimensions returns the configured vector dimension.
func (f *Flat) Dimensions() int { return f.dim }

// Len returns the number of stored pairs.
func (f *Flat) Len() int { return len(f.chunks) }

// Chunks returns the stored chunk records in insertion order. The slice is
// shared; callers must not mutate it.
func (f *Flat) Chunks() []chunker.Chunk { return f.chunks }

// Vectors returns the stored vectors in insertion order. The slice is
// shared; callers must not mutate it.
func (f *Flat) Vectors() [][]float32 { return f.vectors }

// Add appends vectors and chunks in lock-step, preserving insertion order.
// All inputs are validated before anything is appended, so a failed Add
// leaves the index untouched.
func (f *Flat) Add(vectors [][]float32, chunks []chunker.Chunk) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: %d vectors, %d chunks", ErrCountMismatch, len(vectors), len(chunks))
	}
	for i, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, index has %d", ErrDimensionMismatch, i, len(v), f.dim)
		}
	}

	f.vectors = append(f.vectors, vectors...)
	f.chunks = append(f.chunks, chunks...)
	return nil
}

// Search returns the k nearest stored chunks to query, ordered by ascending
// distance. It returns at most min(k, Len()) hits and an empty result on an
// empty index. Ties keep insertion order.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if len(f.vectors) == 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	type scored struct {
		row  int
		dist float32
	}
	scoreds := make([]scored, len(f.vectors))
	for i, v := range f.vectors {
		scoreds[i] = scored{row: i, dist: squaredDistance(query, v)}
	}
	sort.SliceStable(scoreds, func(a, b int) bool { return scoreds[a].dist < scoreds[b].dist })

	if k > len(scoreds) {
		k = len(scoreds)
	}
	hits := make([]Hit, k)
	for i := 0; i < k; i++ {
		hits[i] = Hit{Chunk: f.chunks[scoreds[i].row], Distance: scoreds[i].dist}
	}
	return hits, nil
}

// Clear drops all entries and resets the index to its empty state.
func (f *Flat) Clear() {
	f.vectors = nil
	f.chunks = nil
}

// squaredDistance accumulates the squared Euclidean distance directly in
// float32. Reported distances are the sum itself, never a rounded square
// root squared back.
func squaredDistance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
