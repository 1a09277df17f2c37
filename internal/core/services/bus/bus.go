// Package bus implements the in-process FIFO event dispatcher shared by the
// worker loop and the HTTP surface. Handlers run synchronously on whichever
// goroutine calls ProcessNext — in practice, only the worker loop.
package bus

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/telemetry"
)

var (
	// ErrInvalidEventKind is returned when queueing an event whose kind has
	// no registered handler.
	ErrInvalidEventKind = errors.New("event kind has no registered handler")

	// ErrDisabled is returned when queueing onto a quiesced bus.
	ErrDisabled = errors.New("event bus is disabled")
)

// Handler processes one event.
type Handler func(evt domain.Event)

// Bus is a single-consumer FIFO queue with per-kind handlers. The queue is
// safe for concurrent producers (HTTP acceptor) against the single worker
// consumer; handler registration happens before the worker starts.
type Bus struct {
	mu       sync.Mutex
	enabled  bool
	queue    []domain.Event
	handlers map[domain.EventKind]Handler
	log      *slog.Logger
}

// New creates an enabled, empty bus.
func New(log *slog.Logger) *Bus {
	return &Bus{
		enabled:  true,
		handlers: make(map[domain.EventKind]Handler),
		log:      log,
	}
}

// Register binds a handler to an event kind. The first registration for a
// kind wins; later ones are ignored.
func (b *Bus) Register(kind domain.EventKind, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.handlers[kind]; ok {
		return
	}
	b.handlers[kind] = handler
}

// Queue appends an event to the tail. Events re-queued from inside a handler
// land behind everything already waiting, so retries never preempt newer
// work.
func (b *Bus) Queue(evt domain.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.enabled {
		return ErrDisabled
	}
	if _, ok := b.handlers[evt.Kind]; !ok {
		return ErrInvalidEventKind
	}

	b.queue = append(b.queue, evt)
	telemetry.EventsQueued.WithLabelValues(evt.Kind.String()).Inc()
	return nil
}

// ProcessNext pops the head event and invokes its handler synchronously.
// An empty queue is a successful no-op.
func (b *Bus) ProcessNext() error {
	b.mu.Lock()
	if len(b.queue) == 0 {
		b.mu.Unlock()
		return nil
	}

	evt := b.queue[0]
	b.queue = b.queue[1:]

	handler, ok := b.handlers[evt.Kind]
	b.mu.Unlock()

	if !ok {
		return ErrInvalidEventKind
	}

	b.log.Debug("processing event", "kind", evt.Kind.String(), "id", evt.ID)
	handler(evt)
	telemetry.EventsProcessed.WithLabelValues(evt.Kind.String()).Inc()
	return nil
}

// Len returns the number of queued events.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// DeleteAll empties the queue without invoking handlers.
func (b *Bus) DeleteAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = nil
}

// Disable quiesces the bus; further Queue calls fail with ErrDisabled.
func (b *Bus) Disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = false
}
