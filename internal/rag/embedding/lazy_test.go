package embedding

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestLazyInitializesOnce(t *testing.T) {
	var calls int
	l := NewLazy("hash", func() (Embedder, error) {
		calls++
		return NewHash(16), nil
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Embed(context.Background(), []string{"x"}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("factory called %d times", calls)
	}
}

func TestLazyNotifyBeforeInit(t *testing.T) {
	order := []string{}
	l := NewLazy("hash", func() (Embedder, error) {
		order = append(order, "factory")
		return NewHash(16), nil
	}, func(name string) {
		order = append(order, "notify:"+name)
	})

	if _, err := l.Embed(context.Background(), []string{"x"}); err != nil {
		t.Fatal(err)
	}

	if len(order) != 2 || order[0] != "notify:hash" || order[1] != "factory" {
		t.Fatalf("unexpected init order: %v", order)
	}
}

func TestLazyStickyError(t *testing.T) {
	boom := errors.New("no model")
	var calls int
	l := NewLazy("remote", func() (Embedder, error) {
		calls++
		return nil, boom
	}, nil)

	for i := 0; i < 3; i++ {
		if _, err := l.Embed(context.Background(), []string{"x"}); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: expected wrapped factory error, got %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("factory retried %d times, errors should be sticky", calls)
	}
	if got := l.Dimensions(); got != 0 {
		t.Fatalf("expected 0 dimensions after failed init, got %d", got)
	}
}

func TestLazyName(t *testing.T) {
	l := NewLazy("pending-name", func() (Embedder, error) {
		return NewHash(16), nil
	}, nil)

	if got := l.Name(); got != "pending-name" {
		t.Fatalf("expected pending name before init, got %q", got)
	}
	if _, err := l.Embed(context.Background(), []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if got := l.Name(); got != "hash" {
		t.Fatalf("expected underlying name after init, got %q", got)
	}
}
