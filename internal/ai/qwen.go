package ai

import (
	"context"
	"net/http"
	"time"

	"termllm/internal/config"
)

// Qwen implements the Alibaba Qwen (Tongyi Qianwen) API.
type Qwen struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewQwen creates a Qwen provider.
func NewQwen(cfg config.ProviderConfig, timeout time.Duration) *Qwen {
	url := cfg.APIURL
	if url == "" {
		url = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	}
	model := cfg.Model
	if model == "" {
		model = "qwen-turbo"
	}
	return &Qwen{
		apiKey: cfg.APIKey,
		apiURL: url,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the vendor name.
func (p *Qwen) Name() string { return "qwen" }

// Stream sends a streaming chat completion request.
func (p *Qwen) Stream(ctx context.Context, req *Request, onDelta StreamCallback) (*Response, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)

	body := map[string]any{
		"model":       p.model,
		"messages":    req.Messages,
		"stream":      true,
		"temperature": 0.7,
		"top_p":       0.7,
	}
	return streamChat(ctx, p.client, p.apiURL, header, body, true, onDelta)
}
