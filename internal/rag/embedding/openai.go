package embedding

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI embeds text through an OpenAI-compatible embeddings endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
	dims   int
}

// OpenAIOptions configures the remote embedder.
type OpenAIOptions struct {
	APIKey  string
	BaseURL string // empty uses the default OpenAI endpoint
	Model   string // default "text-embedding-3-small"
}

// NewOpenAI creates a remote embedder.
func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, errors.New("embedding: OpenAI API key is required")
	}
	if opts.Model == "" {
		opts.Model = "text-embedding-3-small"
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	dims := 1536
	if opts.Model == "text-embedding-3-large" {
		dims = 3072
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
		dims:   dims,
	}, nil
}

// Embed sends all texts in a single batched request. On any failure no
// vectors are returned.
func (e *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding: got %d vectors for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j := range d.Embedding {
			vec[j] = float32(d.Embedding[j])
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the vector dimensionality for the configured model.
func (e *OpenAI) Dimensions() int { return e.dims }

// Name returns the embedder name.
func (e *OpenAI) Name() string { return "openai-" + e.model }
