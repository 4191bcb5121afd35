package rag

import (
	"errors"
	"fmt"
)

var (
	// ErrEmbeddingUnavailable signals that the embedding step itself failed.
	// Distinct from an empty result: the caller should report it and allow a
	// retry of the whole operation. No partial state is ever committed.
	ErrEmbeddingUnavailable = errors.New("rag: embedding unavailable")

	// ErrCorruptSnapshot signals an unreadable or inconsistent on-disk
	// snapshot pair. The service recovers by falling back to an empty index.
	ErrCorruptSnapshot = errors.New("rag: corrupt snapshot")
)

// Error wraps errors with operation context.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rag.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
