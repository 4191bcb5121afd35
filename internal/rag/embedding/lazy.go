package embedding

import (
	"context"
	"fmt"
	"sync"
)

// InitNotify is invoked once, before the first (possibly slow) construction
// of the underlying embedder, so the host can tell the user what is about to
// block.
type InitNotify func(name string)

// Lazy defers construction of an embedder until its first use, so the engine
// costs nothing when retrieval is never invoked. Construction happens at most
// once; a construction failure is sticky and returned from every call.
type Lazy struct {
	name    string
	factory func() (Embedder, error)
	notify  InitNotify

	once sync.Once
	emb  Embedder
	err  error
}

// NewLazy wraps factory. name describes the pending embedder for the notify
// callback and for Name() before initialization.
func NewLazy(name string, factory func() (Embedder, error), notify InitNotify) *Lazy {
	return &Lazy{name: name, factory: factory, notify: notify}
}

func (l *Lazy) init() {
	l.once.Do(func() {
		if l.notify != nil {
			l.notify(l.name)
		}
		l.emb, l.err = l.factory()
	})
}

// Embed initializes the underlying embedder on first use and delegates.
func (l *Lazy) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	l.init()
	if l.err != nil {
		return nil, fmt.Errorf("embedding: %s unavailable: %w", l.name, l.err)
	}
	return l.emb.Embed(ctx, texts)
}

// Dimensions initializes the underlying embedder if needed.
func (l *Lazy) Dimensions() int {
	l.init()
	if l.err != nil {
		return 0
	}
	return l.emb.Dimensions()
}

// Name returns the underlying embedder's name, or the pending name before
// first use.
func (l *Lazy) Name() string {
	if l.emb != nil {
		return l.emb.Name()
	}
	return l.name
}
