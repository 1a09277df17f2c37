package keypad

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// SequenceTimeout is how long a partially entered sequence survives before
// it is discarded.
const SequenceTimeout = 5 * time.Second

// CodeSender transmits a completed digit sequence to the central controller.
type CodeSender interface {
	SendKeyCode(ctx context.Context, keySequence string) (int, error)
}

// Entry is the digit buffer behind the keypad panel. The first key press
// starts the sequence timer; GO transmits, Reset or timer expiry discards.
type Entry struct {
	mu       sync.Mutex
	sequence string
	timer    *time.Timer

	sender  CodeSender
	log     *slog.Logger
	timeout time.Duration
}

func NewEntry(sender CodeSender, log *slog.Logger) *Entry {
	return &Entry{
		sender:  sender,
		log:     log,
		timeout: SequenceTimeout,
	}
}

// PressKey appends one digit to the sequence.
func (e *Entry) PressKey(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sequence == "" {
		e.timer = time.AfterFunc(e.timeout, e.expire)
	}
	e.sequence += key
}

// Go transmits the entered sequence. An empty buffer transmits nothing. The
// buffer and timer are cleared before the network call, matching the keypad's
// behaviour of blanking as soon as GO is pressed.
func (e *Entry) Go(ctx context.Context) {
	e.mu.Lock()
	sequence := e.sequence
	e.clearLocked()
	e.mu.Unlock()

	if sequence == "" {
		return
	}

	status, err := e.sender.SendKeyCode(ctx, sequence)
	if err != nil {
		e.log.Warn("failed to transmit key code", "error", err)
		return
	}
	if status != http.StatusOK {
		e.log.Warn("central controller rejected key code", "status", status)
	}
}

// Reset discards the entered sequence without sending.
func (e *Entry) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearLocked()
}

// Sequence returns the current buffer contents.
func (e *Entry) Sequence() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sequence
}

func (e *Entry) expire() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.Debug("key sequence timed out")
	e.clearLocked()
}

func (e *Entry) clearLocked() {
	e.sequence = ""
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
