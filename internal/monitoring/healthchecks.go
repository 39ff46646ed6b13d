// Package monitoring runs the dashboard's background checks.
package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	HEALTHCHECK_TIMER = 15 * time.Second
	SWEEP_TIMER       = time.Minute
)

// MonitorBackendHealth pings the backend every interval and records the
// result in healthy. The first check runs immediately.
func MonitorBackendHealth(ctx context.Context, ping func(context.Context) error, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		err := ping(pingCtx)
		wasHealthy := healthy.Swap(err == nil)
		if err != nil && wasHealthy {
			slog.Warn("[HealthCheck] Backend is unhealthy", slog.String("error", err.Error()))
		} else if err == nil && !wasHealthy {
			slog.Info("[HealthCheck] Backend is healthy")
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

type Sweeper interface {
	Sweep() int
}

// SweepExpired calls s.Sweep every interval until ctx is done.
func SweepExpired(ctx context.Context, s Sweeper, interval time.Duration) {
	if interval <= 0 {
		interval = SWEEP_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("[Sweeper] Dropped expired entries", slog.Int("count", n))
			}
		}
	}
}
