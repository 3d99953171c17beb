// Package timer provides a periodic scheduling primitive for long-lived
// background pollers.
package timer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Callback is the unit of periodic work. The context is cancelled when the
// timer is cancelled, so long-running callbacks can bail out mid-flight.
type Callback func(ctx context.Context) error

// PeriodicTimer invokes a callback at a fixed interval until stopped. The
// interval is measured from the end of one invocation to the start of the
// next sleep, so slow callbacks drift rather than overlap: only one
// invocation is ever in flight. Callback failures are logged and never
// terminate the loop; a single bad cycle must not kill a poller.
type PeriodicTimer struct {
	callback Callback
	interval time.Duration

	startOnce sync.Once
	started   atomic.Bool
	stopped   atomic.Bool
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a timer that will run callback every interval once started.
func New(callback Callback, interval time.Duration) *PeriodicTimer {
	ctx, cancel := context.WithCancel(context.Background())
	return &PeriodicTimer{
		callback: callback,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start launches the run loop in a background goroutine. Subsequent calls
// are no-ops.
func (t *PeriodicTimer) Start() {
	t.startOnce.Do(func() {
		t.started.Store(true)
		go t.run()
	})
}

// Shutdown requests a graceful stop: the loop exits after completing its
// current sleep-and-invoke cycle, within at most one interval. Safe to call
// multiple times.
func (t *PeriodicTimer) Shutdown() {
	t.stopped.Store(true)
}

// Cancel terminates the loop immediately, interrupting a sleep in progress
// and cancelling the context passed to a running callback. Idempotent.
func (t *PeriodicTimer) Cancel() {
	t.cancel()
}

// Wait blocks until the run loop has exited. Returns immediately if the
// timer was never started.
func (t *PeriodicTimer) Wait() {
	if !t.started.Load() {
		return
	}
	<-t.done
}

func (t *PeriodicTimer) run() {
	defer close(t.done)

	ticker := time.NewTimer(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
		}

		t.invoke()

		if t.stopped.Load() {
			return
		}
		ticker.Reset(t.interval)
	}
}

// invoke runs one callback cycle, containing both returned errors and
// panics so the loop survives.
func (t *PeriodicTimer) invoke() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("periodic callback panicked", "panic", r)
		}
	}()

	if err := t.callback(t.ctx); err != nil {
		slog.Error("periodic callback failed", "error", err)
	}
}
