// Package commands implements the slash commands of the chat loop.
package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"termllm/internal/cache"
	"termllm/internal/history"
	"termllm/internal/i18n"
	"termllm/internal/rag/chunker"
)

// Action tells the UI what to do after a command ran.
type Action int

const (
	// ActionNone leaves the UI as-is; Output is appended to the transcript.
	ActionNone Action = iota
	// ActionQuit exits the application.
	ActionQuit
	// ActionClear clears the transcript.
	ActionClear
)

// Result is the outcome of one command execution.
type Result struct {
	Output string
	Action Action
}

// Command is a single slash command.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args []string) Result
}

// Knowledge is the retrieval surface the knowledge commands need.
// *rag.Service implements it.
type Knowledge interface {
	Ingest(ctx context.Context, path string) ([]chunker.Chunk, error)
	Reset(ctx context.Context) error
	Len() int
}

// HistorySource is the history surface the /history command needs.
type HistorySource interface {
	Recent(ctx context.Context, n int) ([]history.Interaction, error)
}

// CacheSource is the cache surface the /stats command needs.
type CacheSource interface {
	Stats(ctx context.Context) (cache.Stats, error)
}

// Registry holds the closed set of commands, keyed by name.
type Registry struct {
	cmds map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Command)}
}

// Register adds a command. Later registrations replace earlier ones.
func (r *Registry) Register(c Command) {
	r.cmds[c.Name()] = c
}

// IsCommand reports whether input looks like a slash command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// Dispatch parses input like "/load path" and executes the named command.
// The second return value is false when the name is unknown.
func (r *Registry) Dispatch(ctx context.Context, input string) (Result, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return Result{}, false
	}
	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		return Result{}, false
	}

	cmd, ok := r.cmds[parts[0]]
	if !ok {
		return Result{}, false
	}
	return cmd.Execute(ctx, parts[1:]), true
}

// Help renders the command list, sorted by name.
func (r *Registry) Help() string {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "/%s - %s\n", name, r.cmds[name].Description())
	}
	return strings.TrimRight(b.String(), "\n")
}

// Deps wires the default command set.
type Deps struct {
	Knowledge Knowledge
	History   HistorySource
	Cache     CacheSource
}

// NewDefaultRegistry builds the standard registry for the chat UI.
func NewDefaultRegistry(deps Deps) *Registry {
	r := NewRegistry()
	r.Register(&exitCommand{})
	r.Register(&clearCommand{})
	r.Register(&helpCommand{registry: r})
	r.Register(&langCommand{})
	if deps.History != nil {
		r.Register(&historyCommand{source: deps.History})
	}
	if deps.Knowledge != nil {
		r.Register(&loadCommand{knowledge: deps.Knowledge})
		r.Register(&resetCommand{knowledge: deps.Knowledge})
	}
	if deps.Cache != nil {
		r.Register(&statsCommand{cache: deps.Cache})
	}
	return r
}

type exitCommand struct{}

func (c *exitCommand) Name() string        { return "exit" }
func (c *exitCommand) Description() string { return "quit" }
func (c *exitCommand) Execute(ctx context.Context, args []string) Result {
	return Result{Output: i18n.Current().ExitMessage, Action: ActionQuit}
}

type clearCommand struct{}

func (c *clearCommand) Name() string        { return "clear" }
func (c *clearCommand) Description() string { return "clear the screen" }
func (c *clearCommand) Execute(ctx context.Context, args []string) Result {
	return Result{Output: i18n.Current().ClearMessage, Action: ActionClear}
}

type helpCommand struct {
	registry *Registry
}

func (c *helpCommand) Name() string        { return "help" }
func (c *helpCommand) Description() string { return "show this help" }
func (c *helpCommand) Execute(ctx context.Context, args []string) Result {
	return Result{Output: c.registry.Help()}
}

type langCommand struct{}

func (c *langCommand) Name() string        { return "lang" }
func (c *langCommand) Description() string { return "switch language (en/zh)" }
func (c *langCommand) Execute(ctx context.Context, args []string) Result {
	if len(args) == 0 {
		return Result{Output: i18n.Current().LangUsage}
	}
	if err := i18n.SetLanguage(args[0]); err != nil {
		return Result{Output: i18n.Current().LangUsage}
	}
	return Result{Output: i18n.Current().LanguageChanged}
}
