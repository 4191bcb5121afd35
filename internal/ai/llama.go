package ai

import (
	"context"
	"net/http"
	"time"

	"termllm/internal/config"
)

// Llama implements Meta Llama chat endpoints. Some Llama gateways emit bare
// JSON lines instead of "data: " prefixed SSE events, so the prefix is
// optional when parsing.
type Llama struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewLlama creates a Llama provider.
func NewLlama(cfg config.ProviderConfig, timeout time.Duration) *Llama {
	model := cfg.Model
	if model == "" {
		model = "llama-3.1-8b-instruct"
	}
	return &Llama{
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the vendor name.
func (p *Llama) Name() string { return "llama" }

// Stream sends a streaming chat completion request.
func (p *Llama) Stream(ctx context.Context, req *Request, onDelta StreamCallback) (*Response, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)

	body := map[string]any{
		"model":       p.model,
		"messages":    req.Messages,
		"stream":      true,
		"temperature": 0.7,
		"max_tokens":  4096,
	}
	return streamChat(ctx, p.client, p.apiURL, header, body, false, onDelta)
}
