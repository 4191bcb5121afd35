package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/viant/vec/search"
)

// Hash is a local, deterministic feature-hashing embedder. It needs no model
// download and no network, which makes it the fallback backend when no remote
// embedding provider is configured. Vectors are L2-normalized; identical text
// always produces an identical vector.
type Hash struct {
	dims int
}

// NewHash creates a hashing embedder with the given dimensionality.
func NewHash(dims int) *Hash {
	if dims <= 0 {
		dims = 384
	}
	return &Hash{dims: dims}
}

// Embed converts texts to hashed bag-of-words vectors. It never fails.
func (h *Hash) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = h.embedOne(text)
	}
	return vectors, nil
}

func (h *Hash) embedOne(text string) []float32 {
	vec := make([]float32, h.dims)
	words := tokenize(text)

	for j, w := range words {
		addFeature(vec, w)
		// word bigrams sharpen near-duplicate matching
		if j+1 < len(words) {
			addFeature(vec, w+" "+words[j+1])
		}
	}

	normalize(vec)
	return vec
}

func addFeature(vec []float32, feature string) {
	hh := fnv.New64a()
	hh.Write([]byte(feature))
	sum := hh.Sum64()

	idx := int(sum % uint64(len(vec)))
	// one hash bit determines the sign, keeping the expected value of
	// colliding features near zero
	if sum&(1<<63) != 0 {
		vec[idx]--
	} else {
		vec[idx]++
	}
}

// Dimensions returns the vector dimensionality.
func (h *Hash) Dimensions() int { return h.dims }

// Name returns the embedder name.
func (h *Hash) Name() string { return "hash" }

// normalize scales vec to unit length in place. The magnitude goes through
// viant/vec, which dispatches to SIMD kernels when the CPU has them.
func normalize(vec []float32) {
	norm := search.Float32s(vec).Magnitude()
	if norm == 0 {
		return
	}
	inv := 1 / norm
	for i := range vec {
		vec[i] *= inv
	}
}

// tokenize splits text into lowercase words.
func tokenize(text string) []string {
	var words []string
	var word strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
		} else if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}
	if word.Len() > 0 {
		words = append(words, word.String())
	}

	return words
}
