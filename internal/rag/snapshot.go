package rag

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"termllm/internal/rag/chunker"
	"termllm/internal/rag/index"
)

// On-disk snapshot layout: a directory holding index.bin (binary vector blob,
// row order = insertion order) and chunks.json (JSON array of chunk records
// in the same order). The pairing by position is load-bearing: the binary
// blob carries an explicit row count and the JSON array length must equal it,
// which Load verifies before accepting either file.
const (
	indexFile  = "index.bin"
	chunksFile = "chunks.json"
)

func (s *Service) saveLocked() error {
	if s.dir == "" {
		s.dirty = false
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	blob := index.EncodeVectors(s.index.Dimensions(), s.vectorsLocked())
	chunksJSON, err := json.Marshal(s.index.Chunks())
	if err != nil {
		return fmt.Errorf("failed to encode chunks: %w", err)
	}

	// temp-write-then-rename both files so a crash never leaves a
	// half-written pair behind
	if err := writeAtomic(filepath.Join(s.dir, indexFile), blob); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(s.dir, chunksFile), chunksJSON); err != nil {
		return err
	}

	s.dirty = false
	return nil
}

// Load restores the snapshot pair from the configured directory. A missing
// snapshot is a clean empty start. An unreadable, truncated, or inconsistent
// pair yields ErrCorruptSnapshot and leaves the service on an empty index;
// it never crashes the ingestion or query paths.
func (s *Service) Load() error {
	if s.dir == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob, indexErr := os.ReadFile(filepath.Join(s.dir, indexFile))
	chunksJSON, chunksErr := os.ReadFile(filepath.Join(s.dir, chunksFile))

	if errors.Is(indexErr, os.ErrNotExist) && errors.Is(chunksErr, os.ErrNotExist) {
		return nil
	}
	if indexErr != nil || chunksErr != nil {
		s.index.Clear()
		s.logger.Printf("[RAG] snapshot pair incomplete, starting empty (index: %v, chunks: %v)", indexErr, chunksErr)
		return wrap("Load", ErrCorruptSnapshot)
	}

	dim, vectors, err := index.DecodeVectors(blob)
	if err != nil {
		s.index.Clear()
		s.logger.Printf("[RAG] snapshot index unreadable, starting empty: %v", err)
		return wrap("Load", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
	}

	var chunks []chunker.Chunk
	if err := json.Unmarshal(chunksJSON, &chunks); err != nil {
		s.index.Clear()
		s.logger.Printf("[RAG] snapshot chunks unreadable, starting empty: %v", err)
		return wrap("Load", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
	}

	if len(vectors) != len(chunks) {
		s.index.Clear()
		s.logger.Printf("[RAG] snapshot inconsistent: %d vectors, %d chunks; starting empty", len(vectors), len(chunks))
		return wrap("Load", fmt.Errorf("%w: %d vectors, %d chunks", ErrCorruptSnapshot, len(vectors), len(chunks)))
	}
	if len(vectors) > 0 && dim != s.index.Dimensions() {
		s.index.Clear()
		s.logger.Printf("[RAG] snapshot dimension %d differs from configured %d; starting empty", dim, s.index.Dimensions())
		return wrap("Load", fmt.Errorf("%w: dimension %d, configured %d", ErrCorruptSnapshot, dim, s.index.Dimensions()))
	}

	fresh := index.NewFlat(s.index.Dimensions())
	if err := fresh.Add(vectors, chunks); err != nil {
		s.index.Clear()
		return wrap("Load", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
	}
	s.index = fresh
	s.dirty = false
	s.logger.Printf("[RAG] loaded snapshot: %d chunks", fresh.Len())
	return nil
}

func (s *Service) vectorsLocked() [][]float32 {
	return s.index.Vectors()
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}
