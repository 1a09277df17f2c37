package ports

import (
	"context"
	"errors"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

// ErrKeyCodeNotFound is returned when no stored key code matches the entered
// sequence.
var ErrKeyCodeNotFound = errors.New("key code not found")

// KeyCodeStore is the read-only lookup service for entered key sequences.
// Implementations must treat storage failures as "not found" at the call
// site; the alarm path never crashes on database trouble.
type KeyCodeStore interface {
	// LookupKeyCode returns the record for an exact key-sequence match, or
	// ErrKeyCodeNotFound.
	LookupKeyCode(ctx context.Context, keySequence string) (*domain.KeyCodeRecord, error)
}
