// Package chat glues the chat pipeline together: response cache, retrieval
// context, provider streaming, and history recording.
package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"termllm/internal/ai"
	"termllm/internal/cache"
	"termllm/internal/rag"
)

// ContextSource supplies retrieval context for a prompt. *rag.Service
// implements it.
type ContextSource interface {
	Query(ctx context.Context, text string, topK int) ([]rag.SearchResult, error)
}

// Recorder persists finished interactions. *history.Store implements it.
type Recorder interface {
	Add(ctx context.Context, prompt, response string) (string, error)
}

// ResponseCache is the cache surface the engine needs. *cache.Store
// implements it.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Result is the outcome of one chat turn.
type Result struct {
	Content     string
	Cached      bool
	ContextUsed int // retrieved chunks spliced into the system prompt
	Elapsed     time.Duration
}

// Options configures an Engine. Retrieval, Cache, and History are optional;
// a nil field disables that part of the pipeline.
type Options struct {
	Provider     ai.Provider
	Retrieval    ContextSource
	Cache        ResponseCache
	History      Recorder
	SystemPrompt string
	TopK         int
	Logger       *log.Logger
}

// Engine executes chat turns.
type Engine struct {
	provider     ai.Provider
	retrieval    ContextSource
	cache        ResponseCache
	history      Recorder
	systemPrompt string
	topK         int
	logger       *log.Logger
}

// NewEngine creates a chat engine.
func NewEngine(opts Options) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = rag.DefaultTopK
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Engine{
		provider:     opts.Provider,
		retrieval:    opts.Retrieval,
		cache:        opts.Cache,
		history:      opts.History,
		systemPrompt: opts.SystemPrompt,
		topK:         opts.TopK,
		logger:       opts.Logger,
	}
}

// Respond runs one chat turn for prompt. Deltas are streamed through onDelta
// as they arrive; a cache hit delivers the whole response in a single delta.
func (e *Engine) Respond(ctx context.Context, prompt string, onDelta ai.StreamCallback) (*Result, error) {
	start := time.Now()

	key := cache.Key(e.provider.Name(), prompt)
	if e.cache != nil {
		if cached, ok, err := e.cache.Get(ctx, key); err == nil && ok {
			if onDelta != nil {
				onDelta(cached)
			}
			return &Result{Content: cached, Cached: true, Elapsed: time.Since(start)}, nil
		}
	}

	system, contextUsed := e.buildSystemPrompt(ctx, prompt)

	req := &ai.Request{
		Messages: []ai.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	resp, err := e.provider.Stream(ctx, req, onDelta)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, resp.Content); err != nil {
			e.logger.Printf("[Chat] cache write failed: %v", err)
		}
	}
	if e.history != nil {
		if _, err := e.history.Add(ctx, prompt, resp.Content); err != nil {
			e.logger.Printf("[Chat] history write failed: %v", err)
		}
	}

	return &Result{
		Content:     resp.Content,
		ContextUsed: contextUsed,
		Elapsed:     time.Since(start),
	}, nil
}

// buildSystemPrompt splices retrieved chunks into the base system prompt.
// Retrieval failures degrade to an uncontextualized prompt; they never fail
// the chat turn.
func (e *Engine) buildSystemPrompt(ctx context.Context, prompt string) (string, int) {
	system := e.systemPrompt
	if e.retrieval == nil {
		return system, 0
	}

	results, err := e.retrieval.Query(ctx, prompt, e.topK)
	if err != nil {
		e.logger.Printf("[Chat] retrieval failed, continuing without context: %v", err)
		return system, 0
	}
	if len(results) == 0 {
		return system, 0
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Content
	}
	system += "\n\n相关上下文：\n" + strings.Join(texts, "\n---\n")
	return system, len(results)
}
