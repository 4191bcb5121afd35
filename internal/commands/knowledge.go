package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"termllm/internal/i18n"
	"termllm/internal/rag/chunker"
)

const previewChunks = 3
const previewRunes = 200

type loadCommand struct {
	knowledge Knowledge
}

func (c *loadCommand) Name() string        { return "load" }
func (c *loadCommand) Description() string { return "load a document into the knowledge base" }

func (c *loadCommand) Execute(ctx context.Context, args []string) Result {
	lang := i18n.Current()
	if len(args) == 0 {
		return Result{Output: lang.LoadUsage}
	}
	path := strings.Join(args, " ")

	chunks, err := c.knowledge.Ingest(ctx, path)
	if err != nil {
		if errors.Is(err, chunker.ErrNotFound) {
			return Result{Output: fmt.Sprintf(lang.LoadFailed, path)}
		}
		return Result{Output: lang.EmbedFailed}
	}

	var b strings.Builder
	fmt.Fprintf(&b, lang.LoadSuccess, path, len(chunks))
	for i, chunk := range chunks {
		if i == previewChunks {
			break
		}
		fmt.Fprintf(&b, "\n\n[%d] %s", i+1, preview(chunk.Content))
	}
	return Result{Output: b.String()}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRunes {
		return content
	}
	return string(runes[:previewRunes]) + "..."
}

type resetCommand struct {
	knowledge Knowledge
}

func (c *resetCommand) Name() string        { return "reset" }
func (c *resetCommand) Description() string { return "clear the knowledge base" }

func (c *resetCommand) Execute(ctx context.Context, args []string) Result {
	if err := c.knowledge.Reset(ctx); err != nil {
		return Result{Output: fmt.Sprintf(i18n.Current().ErrorMessage, err)}
	}
	return Result{Output: i18n.Current().KnowledgeClear}
}
