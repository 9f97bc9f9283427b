package spotcheck

import (
	"context"

	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
)

// Compile-time interface check to ensure proper implementation.
var _ Checker = (*client)(nil)

// Check gathers every source, compares them and fires the finding hooks.
// Findings are never errors; only an unreadable or structurally broken
// source is.
func (c *client) Check(ctx context.Context) (*reconcile.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithOperation(ctx, "check")

	in, err := c.Gather(ctx)
	if err != nil {
		return nil, err
	}

	result, err := c.comparator.Compare(ctx, in)
	if err != nil {
		return nil, err
	}

	c.hooks.trigger(result)
	return result, nil
}
