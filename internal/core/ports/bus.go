package ports

import "github.com/secure-shed/shedctl/internal/core/domain"

// EventQueue is the producer side of the event bus. HTTP handlers and other
// components translate work into events and queue them; all handling happens
// on the worker loop.
type EventQueue interface {
	// Queue appends an event to the tail. It fails when the kind has no
	// registered handler or the bus has been quiesced.
	Queue(evt domain.Event) error
}
