package logstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

// LevelCritical extends slog's levels for operator-visible misconfiguration
// (failed outbound auth and the like).
const LevelCritical = slog.Level(12)

// Handler is an slog.Handler that tees records into a Store while delegating
// formatting to an inner handler, so one log call feeds both stdout and the
// console log ring.
type Handler struct {
	inner slog.Handler
	store *Store
}

// NewHandler wraps inner so every record is also retained in store.
func NewHandler(inner slog.Handler, store *Store) *Handler {
	return &Handler{inner: inner, store: store}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, rec slog.Record) error {
	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	h.store.Add(domain.LogEntry{
		Timestamp: float64(ts.UnixNano()) / float64(time.Second),
		Level:     wireLevel(rec.Level),
		Message:   rec.Message,
	})
	return h.inner.Handle(ctx, rec)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs), store: h.store}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), store: h.store}
}

func wireLevel(level slog.Level) domain.LogLevel {
	switch {
	case level >= LevelCritical:
		return domain.LogCritical
	case level >= slog.LevelError:
		return domain.LogError
	case level >= slog.LevelWarn:
		return domain.LogWarn
	case level >= slog.LevelInfo:
		return domain.LogInfo
	}
	return domain.LogDebug
}
