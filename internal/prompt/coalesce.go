package prompt

import (
	"context"
	"errors"
	"maps"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Coalesce wraps next so that concurrent prompts for the same spec share one
// round of input. A terminal can only ask one question at a time, so parallel
// requests that all need credentials get the answer the user typed once.
// Calls that do not overlap still prompt separately.
//
// The shared round runs under the context of the caller that started it.
// Every caller waits on its own context; when the starting caller is
// cancelled, the remaining callers start a new round.
func Coalesce(next Prompter) Prompter {
	return &coalescing{next: next}
}

type coalescing struct {
	next  Prompter
	group singleflight.Group
}

func (c *coalescing) Prompt(ctx context.Context, spec Spec) (map[string]string, error) {
	key := strings.Join(spec.Names(), "\x00")
	for {
		ch := c.group.DoChan(key, func() (interface{}, error) {
			return c.next.Prompt(ctx, spec)
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				if ctx.Err() == nil && isContextError(res.Err) {
					continue
				}
				return nil, res.Err
			}
			// each caller gets its own copy
			return maps.Clone(res.Val.(map[string]string)), nil
		}
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
