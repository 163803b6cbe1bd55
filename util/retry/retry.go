package retry

import (
	"context"
	"time"

	"github.com/chainnode-go/chainnode/ulogger"
)

// Do calls fn until it succeeds, retrying on error with a linearly growing
// wait between attempts. The bootstrap fallback in node/gossip.go uses
// WithInfiniteRetry to keep polling the genesis directory until it has peers
// to hand back, per original_source/peer.py's "keep asking until the
// directory has peers to give" behavior.
func Do(ctx context.Context, logger ulogger.Logger, fn func() error, opts ...Option) error {
	c := build(opts...)
	wait := c.interval

	var lastErr error
	for attempt := 0; c.forever || attempt < c.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		logger.Warnf("%s (attempt %d): %v", c.message, attempt+1, lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		wait = c.interval * time.Duration(c.growth*(attempt+1))
	}

	return lastErr
}
