// Package ai contains the LLM vendor adapters. The supported vendors form a
// closed set selected once at startup from configuration; each adapter owns
// its request formatting and stream parsing behind the same Provider
// interface.
package ai

import (
	"context"
	"fmt"
	"time"

	"termllm/internal/config"
)

// Message is one chat turn. Role is "system", "user", or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a vendor-neutral chat completion request.
type Request struct {
	Messages []Message
}

// Response is the accumulated result of a completed stream.
type Response struct {
	Content string
}

// StreamCallback is called with text deltas as they arrive.
type StreamCallback func(delta string)

// Provider formats vendor requests and parses vendor responses.
type Provider interface {
	// Name identifies the vendor.
	Name() string

	// Stream sends the request, invokes onDelta for each text delta, and
	// returns the accumulated response.
	Stream(ctx context.Context, req *Request, onDelta StreamCallback) (*Response, error)
}

// APIError is a non-200 reply from a vendor endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ai: API error (%d): %s", e.StatusCode, e.Message)
}

// New selects a provider from configuration. Unknown types are rejected;
// there is no dynamic registration.
func New(cfg config.ProviderConfig, timeout time.Duration) (Provider, error) {
	switch cfg.Type {
	case "chatglm":
		return NewChatGLM(cfg, timeout), nil
	case "qwen":
		return NewQwen(cfg, timeout), nil
	case "llama":
		return NewLlama(cfg, timeout), nil
	case "siliconflow":
		return NewSiliconFlow(cfg, timeout), nil
	default:
		return nil, fmt.Errorf("ai: unsupported provider type %q", cfg.Type)
	}
}
