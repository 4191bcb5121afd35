package ai

import (
	"context"
	"net/http"
	"time"

	"termllm/internal/config"
)

// ChatGLM implements the Zhipu ChatGLM API. Its auth header carries the raw
// API key without a Bearer prefix.
type ChatGLM struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewChatGLM creates a ChatGLM provider.
func NewChatGLM(cfg config.ProviderConfig, timeout time.Duration) *ChatGLM {
	url := cfg.APIURL
	if url == "" {
		url = "https://open.bigmodel.cn/api/paas/v4/chat/completions"
	}
	model := cfg.Model
	if model == "" {
		model = "glm-4-flash"
	}
	return &ChatGLM{
		apiKey: cfg.APIKey,
		apiURL: url,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the vendor name.
func (p *ChatGLM) Name() string { return "chatglm" }

// Stream sends a streaming chat completion request.
func (p *ChatGLM) Stream(ctx context.Context, req *Request, onDelta StreamCallback) (*Response, error) {
	header := http.Header{}
	header.Set("Authorization", p.apiKey)

	body := map[string]any{
		"model":       p.model,
		"messages":    req.Messages,
		"stream":      true,
		"temperature": 0.7,
		"top_p":       0.7,
	}
	return streamChat(ctx, p.client, p.apiURL, header, body, true, onDelta)
}
