package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"termllm/internal/cache"
	"termllm/internal/history"
	"termllm/internal/i18n"
	"termllm/internal/rag/chunker"
)

func useEnglish(t *testing.T) {
	t.Helper()
	prev := i18n.CurrentCode()
	if err := i18n.SetLanguage("en"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = i18n.SetLanguage(prev) })
}

// fakeKnowledge is an in-memory Knowledge implementation.
type fakeKnowledge struct {
	chunks    []chunker.Chunk
	ingestErr error
	resetErr  error
	resets    int
	lastPath  string
}

func (f *fakeKnowledge) Ingest(ctx context.Context, path string) ([]chunker.Chunk, error) {
	f.lastPath = path
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	return f.chunks, nil
}

func (f *fakeKnowledge) Reset(ctx context.Context) error {
	f.resets++
	return f.resetErr
}

func (f *fakeKnowledge) Len() int { return len(f.chunks) }

type fakeHistory struct {
	records []history.Interaction
	err     error
}

func (f *fakeHistory) Recent(ctx context.Context, n int) ([]history.Interaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	if n < len(f.records) {
		return f.records[len(f.records)-n:], nil
	}
	return f.records, nil
}

type fakeCache struct {
	stats cache.Stats
}

func (f *fakeCache) Stats(ctx context.Context) (cache.Stats, error) {
	return f.stats, nil
}

func defaultRegistry(k Knowledge) *Registry {
	return NewDefaultRegistry(Deps{
		Knowledge: k,
		History:   &fakeHistory{},
		Cache:     &fakeCache{},
	})
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"  /exit  ", true},
		{"hello", false},
		{"", false},
		{"what is /help", false},
	}
	for _, tt := range tests {
		if got := IsCommand(tt.input); got != tt.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDispatchUnknown(t *testing.T) {
	r := defaultRegistry(&fakeKnowledge{})
	_, known := r.Dispatch(context.Background(), "/frobnicate")
	if known {
		t.Fatal("expected unknown command")
	}
	_, known = r.Dispatch(context.Background(), "/")
	if known {
		t.Fatal("expected bare slash to be unknown")
	}
}

func TestExitCommand(t *testing.T) {
	r := defaultRegistry(&fakeKnowledge{})
	res, known := r.Dispatch(context.Background(), "/exit")
	if !known {
		t.Fatal("expected /exit to be known")
	}
	if res.Action != ActionQuit {
		t.Fatalf("expected ActionQuit, got %v", res.Action)
	}
}

func TestClearCommand(t *testing.T) {
	r := defaultRegistry(&fakeKnowledge{})
	res, known := r.Dispatch(context.Background(), "/clear")
	if !known || res.Action != ActionClear {
		t.Fatalf("expected known ActionClear, got known=%v action=%v", known, res.Action)
	}
}

func TestHelpListsAllCommands(t *testing.T) {
	r := defaultRegistry(&fakeKnowledge{})
	res, known := r.Dispatch(context.Background(), "/help")
	if !known {
		t.Fatal("expected /help to be known")
	}
	for _, name := range []string{"/clear", "/exit", "/help", "/history", "/lang", "/load", "/reset", "/stats"} {
		if !strings.Contains(res.Output, name) {
			t.Errorf("help output missing %s:\n%s", name, res.Output)
		}
	}
}

func TestOptionalCommandsAbsentWithoutDeps(t *testing.T) {
	r := NewDefaultRegistry(Deps{})
	for _, cmd := range []string{"/load x", "/reset", "/history", "/stats"} {
		if _, known := r.Dispatch(context.Background(), cmd); known {
			t.Errorf("expected %s to be unregistered without deps", cmd)
		}
	}
	for _, cmd := range []string{"/help", "/exit", "/clear"} {
		if _, known := r.Dispatch(context.Background(), cmd); !known {
			t.Errorf("expected %s to always be registered", cmd)
		}
	}
}

func TestLangCommand(t *testing.T) {
	useEnglish(t)

	r := defaultRegistry(&fakeKnowledge{})
	ctx := context.Background()

	res, _ := r.Dispatch(ctx, "/lang zh")
	if i18n.CurrentCode() != "zh" {
		t.Fatal("expected language switch to zh")
	}
	if res.Output != i18n.Current().LanguageChanged {
		t.Fatalf("unexpected output: %q", res.Output)
	}

	res, _ = r.Dispatch(ctx, "/lang klingon")
	if res.Output != i18n.Current().LangUsage {
		t.Fatalf("expected usage message for unknown language, got %q", res.Output)
	}
	if i18n.CurrentCode() != "zh" {
		t.Fatal("unknown language must not change the current one")
	}

	res, _ = r.Dispatch(ctx, "/lang")
	if res.Output != i18n.Current().LangUsage {
		t.Fatalf("expected usage message without args, got %q", res.Output)
	}
}

func TestLoadCommand(t *testing.T) {
	useEnglish(t)

	k := &fakeKnowledge{chunks: []chunker.Chunk{
		{Content: "first chunk content"},
		{Content: strings.Repeat("长内容 ", 100)},
	}}
	r := defaultRegistry(k)
	ctx := context.Background()

	res, known := r.Dispatch(ctx, "/load docs/my file.txt")
	if !known {
		t.Fatal("expected /load to be known")
	}
	// arguments with spaces form one path
	if k.lastPath != "docs/my file.txt" {
		t.Fatalf("unexpected path: %q", k.lastPath)
	}
	if !strings.Contains(res.Output, "2") {
		t.Fatalf("expected chunk count in output: %q", res.Output)
	}
	if !strings.Contains(res.Output, "first chunk content") {
		t.Fatalf("expected chunk preview in output: %q", res.Output)
	}
}

func TestLoadCommandUsage(t *testing.T) {
	useEnglish(t)
	r := defaultRegistry(&fakeKnowledge{})
	res, _ := r.Dispatch(context.Background(), "/load")
	if res.Output != i18n.Current().LoadUsage {
		t.Fatalf("expected usage message, got %q", res.Output)
	}
}

func TestLoadCommandNotFound(t *testing.T) {
	useEnglish(t)
	k := &fakeKnowledge{ingestErr: fmt.Errorf("%w: missing.txt", chunker.ErrNotFound)}
	r := defaultRegistry(k)
	res, _ := r.Dispatch(context.Background(), "/load missing.txt")
	want := fmt.Sprintf(i18n.Current().LoadFailed, "missing.txt")
	if res.Output != want {
		t.Fatalf("expected %q, got %q", want, res.Output)
	}
}

func TestLoadCommandEmbedFailure(t *testing.T) {
	useEnglish(t)
	k := &fakeKnowledge{ingestErr: errors.New("embedding backend down")}
	r := defaultRegistry(k)
	res, _ := r.Dispatch(context.Background(), "/load doc.txt")
	if res.Output != i18n.Current().EmbedFailed {
		t.Fatalf("expected embed failure message, got %q", res.Output)
	}
}

func TestResetCommand(t *testing.T) {
	useEnglish(t)
	k := &fakeKnowledge{}
	r := defaultRegistry(k)
	res, _ := r.Dispatch(context.Background(), "/reset")
	if k.resets != 1 {
		t.Fatalf("expected one reset, got %d", k.resets)
	}
	if res.Output != i18n.Current().KnowledgeClear {
		t.Fatalf("unexpected output: %q", res.Output)
	}
}

func TestHistoryCommand(t *testing.T) {
	useEnglish(t)
	h := &fakeHistory{records: []history.Interaction{
		{Prompt: "first question", Response: "first answer"},
		{Prompt: "second question", Response: "second answer"},
	}}
	r := NewDefaultRegistry(Deps{History: h})

	res, known := r.Dispatch(context.Background(), "/history")
	if !known {
		t.Fatal("expected /history to be known")
	}
	if !strings.Contains(res.Output, "first question") || !strings.Contains(res.Output, "second answer") {
		t.Fatalf("history output incomplete: %q", res.Output)
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	useEnglish(t)
	r := NewDefaultRegistry(Deps{History: &fakeHistory{}})
	res, _ := r.Dispatch(context.Background(), "/history")
	if res.Output != i18n.Current().HistoryEmpty {
		t.Fatalf("expected empty message, got %q", res.Output)
	}
}

func TestStatsCommand(t *testing.T) {
	useEnglish(t)
	r := NewDefaultRegistry(Deps{Cache: &fakeCache{stats: cache.Stats{TotalItems: 7, ExpiredItems: 2}}})
	res, _ := r.Dispatch(context.Background(), "/stats")
	if !strings.Contains(res.Output, "7") || !strings.Contains(res.Output, "2") {
		t.Fatalf("stats output incomplete: %q", res.Output)
	}
}
