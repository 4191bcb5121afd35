package ai

import (
	"context"
	"net/http"
	"time"

	"termllm/internal/config"
)

// SiliconFlow implements the Silicon Flow API.
type SiliconFlow struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewSiliconFlow creates a Silicon Flow provider.
func NewSiliconFlow(cfg config.ProviderConfig, timeout time.Duration) *SiliconFlow {
	url := cfg.APIURL
	if url == "" {
		url = "https://api.siliconflow.cn/v1/chat/completions"
	}
	return &SiliconFlow{
		apiKey: cfg.APIKey,
		apiURL: url,
		model:  cfg.Model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the vendor name.
func (p *SiliconFlow) Name() string { return "siliconflow" }

// Stream sends a streaming chat completion request.
func (p *SiliconFlow) Stream(ctx context.Context, req *Request, onDelta StreamCallback) (*Response, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)

	body := map[string]any{
		"model":       p.model,
		"messages":    req.Messages,
		"stream":      true,
		"temperature": 0.7,
		"max_tokens":  4096,
	}
	return streamChat(ctx, p.client, p.apiURL, header, body, true, onDelta)
}
