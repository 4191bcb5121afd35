package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"termllm/internal/i18n"
)

type historyCommand struct {
	source HistorySource
}

func (c *historyCommand) Name() string        { return "history" }
func (c *historyCommand) Description() string { return "show recent interactions" }

func (c *historyCommand) Execute(ctx context.Context, args []string) Result {
	lang := i18n.Current()

	limit := 10
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := c.source.Recent(ctx, limit)
	if err != nil {
		return Result{Output: fmt.Sprintf(lang.ErrorMessage, err)}
	}
	if len(records) == 0 {
		return Result{Output: lang.HistoryEmpty}
	}

	var b strings.Builder
	b.WriteString(lang.HistoryTitle)
	for i, rec := range records {
		fmt.Fprintf(&b, "\n\n%d. %s\n   %s", i+1, rec.Prompt, rec.Response)
	}
	return Result{Output: b.String()}
}
