// Package worker runs the central controller's single processing goroutine.
// Device polling, event dispatch and hardware cleanup all happen on this
// goroutine so device state never needs locking.
package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// TickInterval is the pause between processing passes.
const TickInterval = 100 * time.Millisecond

// Hooks are the per-tick collaborators, called in a fixed order.
type Hooks struct {
	// UpdateTransitoryEvents sweeps time-based transient state.
	UpdateTransitoryEvents func()
	// CheckDevices polls every live hardware device once.
	CheckDevices func()
	// ProcessNextEvent drains at most one event from the bus.
	ProcessNextEvent func()
	// Cleanup releases hardware resources. Runs once, after the last tick.
	Cleanup func()
}

// Worker drives the tick loop until a shutdown is requested.
type Worker struct {
	log      *slog.Logger
	hooks    Hooks
	interval time.Duration

	shutdownRequested atomic.Bool
	shutdownComplete  atomic.Bool
}

// New creates a worker ticking at TickInterval.
func New(hooks Hooks, log *slog.Logger) *Worker {
	return &Worker{
		log:      log,
		hooks:    hooks,
		interval: TickInterval,
	}
}

// SetInterval overrides the tick cadence. Nonpositive values are ignored.
// Must be called before Run.
func (w *Worker) SetInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

// Run executes the tick loop on the calling goroutine and returns after
// cleanup. Cancelling ctx is equivalent to RequestShutdown.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("worker loop started")

	for !w.shutdownRequested.Load() && ctx.Err() == nil {
		if w.hooks.UpdateTransitoryEvents != nil {
			w.hooks.UpdateTransitoryEvents()
		}
		if w.hooks.CheckDevices != nil {
			w.hooks.CheckDevices()
		}
		if w.hooks.ProcessNextEvent != nil {
			w.hooks.ProcessNextEvent()
		}

		select {
		case <-ctx.Done():
		case <-time.After(w.interval):
		}
	}

	w.log.Info("worker loop stopping")
	if w.hooks.Cleanup != nil {
		w.hooks.Cleanup()
	}
	w.shutdownComplete.Store(true)
}

// RequestShutdown asks the loop to stop after the current tick.
func (w *Worker) RequestShutdown() {
	w.shutdownRequested.Store(true)
}

// ShutdownComplete reports whether the loop has exited and cleaned up.
func (w *Worker) ShutdownComplete() bool {
	return w.shutdownComplete.Load()
}

// AwaitShutdown polls ShutdownComplete until it is true or the deadline
// passes. Returns true when shutdown finished in time.
func (w *Worker) AwaitShutdown(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if w.shutdownComplete.Load() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return w.shutdownComplete.Load()
}
