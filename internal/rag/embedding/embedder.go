// Package embedding maps batches of text to fixed-dimension vectors.
package embedding

import "context"

// Embedder converts text to vectors. Ingestion and querying must go through
// the same Embedder instance: vectors from different embedders are not
// comparable.
type Embedder interface {
	// Embed converts texts to vectors in one batched invocation. A failure
	// returns no vectors at all; callers must treat a batch as all-or-nothing.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector dimensionality.
	Dimensions() int

	// Name identifies the embedder.
	Name() string
}
