package clients

import (
	"context"
	"time"
)

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "sentimap-client/1.0 (+https://github.com/spacesedan/sentimap)"

	API_V1_PREFIX = "/api/v1"
)

const VALKEY_RETRY_DELAY = 250 * time.Millisecond

// sleepCtx waits d, returning early with ctx's error once ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
