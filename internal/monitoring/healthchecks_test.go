package monitoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMonitorBackendHealth(t *testing.T) {
	defer goleak.VerifyNone(t)

	var fail atomic.Bool
	ping := func(ctx context.Context) error {
		if fail.Load() {
			return errors.New("down")
		}
		return nil
	}

	var healthy atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		MonitorBackendHealth(ctx, ping, &healthy, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, healthy.Load, time.Second, time.Millisecond)

	fail.Store(true)
	assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestSweepExpired(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		SweepExpired(ctx, s, 5*time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return s.calls.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	<-done
}
