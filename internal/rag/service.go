// Package rag implements the retrieval-augmented context engine: document
// ingestion (chunk, embed, index) and query-time top-k similarity search.
package rag

import (
	"context"
	"fmt"
	"log"
	"sync"

	"termllm/internal/rag/chunker"
	"termllm/internal/rag/embedding"
	"termllm/internal/rag/index"
)

// SearchResult is a read-only projection of one retrieved chunk. Score is a
// similarity in (0, 1] derived from distance: 1/(1+d), so an exact match
// scores 1.
type SearchResult struct {
	Content  string
	Metadata map[string]string
	Score    float32
}

// DefaultTopK is the number of results returned when the caller does not ask
// for a specific count.
const DefaultTopK = 3

// Options configures a Service.
type Options struct {
	Splitter    *chunker.Splitter
	Embedder    embedding.Embedder
	Dimensions  int    // index dimension; must match the embedder's output
	SnapshotDir string // empty disables persistence
	Logger      *log.Logger
}

// Service owns one vector index for the process lifetime and is its sole
// mutator. Ingestion and query failures never change service state; the
// service simply reports the operation's own failure.
type Service struct {
	splitter *chunker.Splitter
	embedder embedding.Embedder
	index    *index.Flat
	dir      string
	logger   *log.Logger

	mu    sync.RWMutex
	dirty bool
}

// NewService creates a retrieval service around an empty index.
func NewService(opts Options) *Service {
	if opts.Splitter == nil {
		opts.Splitter = chunker.NewSplitter(1000, 200)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Service{
		splitter: opts.Splitter,
		embedder: opts.Embedder,
		index:    index.NewFlat(opts.Dimensions),
		dir:      opts.SnapshotDir,
		logger:   opts.Logger,
	}
}

// Len returns the number of indexed chunks.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// Ingest loads a document, splits it, embeds every chunk in one batch, and
// appends the batch to the index. Embedding is all-or-nothing: a batch
// failure commits zero chunks. The produced chunks are returned for caller
// display. A missing or unreadable file yields chunker.ErrNotFound.
func (s *Service) Ingest(ctx context.Context, path string) ([]chunker.Chunk, error) {
	text, err := chunker.LoadFile(path)
	if err != nil {
		return nil, err
	}

	chunks := s.splitter.Split(text, chunker.FileMetadata(path))
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, wrap("Ingest", fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.index.Add(vectors, chunks); err != nil {
		return nil, wrap("Ingest", err)
	}
	s.dirty = true

	if err := s.saveLocked(); err != nil {
		// the index is already updated; persistence failure is a warning,
		// the next autosave retries
		s.logger.Printf("[RAG] snapshot save failed: %v", err)
	}

	return chunks, nil
}

// Query embeds text and returns the topK most similar chunks. An empty index
// short-circuits to no results without an embedding call. An embedding
// failure yields ErrEmbeddingUnavailable, distinct from an empty result.
func (s *Service) Query(ctx context.Context, text string, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index.Len() == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, wrap("Query", fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err))
	}

	hits, err := s.index.Search(vectors[0], topK)
	if err != nil {
		return nil, wrap("Query", err)
	}

	results := make([]SearchResult, len(hits))
	for i, h := range hits {
		results[i] = SearchResult{
			Content:  h.Chunk.Content,
			Metadata: h.Chunk.Metadata,
			Score:    1 / (1 + h.Distance),
		}
	}
	return results, nil
}

// Reset clears the index and immediately persists the empty state.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index.Clear()
	s.dirty = true
	if err := s.saveLocked(); err != nil {
		return wrap("Reset", err)
	}
	return nil
}

// Save persists the current snapshot unconditionally.
func (s *Service) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// SaveIfDirty persists the snapshot only when the index changed since the
// last successful save. Used by the background autosave job.
func (s *Service) SaveIfDirty() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.saveLocked()
}
