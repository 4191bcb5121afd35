package commands

import (
	"context"
	"fmt"

	"termllm/internal/i18n"
)

type statsCommand struct {
	cache CacheSource
}

func (c *statsCommand) Name() string        { return "stats" }
func (c *statsCommand) Description() string { return "show response cache statistics" }

func (c *statsCommand) Execute(ctx context.Context, args []string) Result {
	st, err := c.cache.Stats(ctx)
	if err != nil {
		return Result{Output: fmt.Sprintf(i18n.Current().ErrorMessage, err)}
	}
	return Result{Output: fmt.Sprintf("cache: %d items (%d expired)", st.TotalItems, st.ExpiredItems)}
}
