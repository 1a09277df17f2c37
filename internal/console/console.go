// Package console implements the power console: an operator surface that
// polls the other services' console logs and renders them as a merged feed.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/secure-shed/shedctl/internal/adapters/apiclient"
	"github.com/secure-shed/shedctl/internal/core/domain"
)

// PollInterval is how often each source is asked for new log entries.
const PollInterval = 2 * time.Second

// LogSource fetches console log entries newer than a cursor.
type LogSource interface {
	RetrieveConsoleLogs(ctx context.Context, since float64) (*apiclient.LogsResponse, error)
}

// Source is one polled service.
type Source struct {
	Name   string
	Client LogSource

	cursor      float64
	unreachable bool
}

// Console polls every source on a fixed cadence and writes a merged feed.
// Entries are also retained in memory so a report can be exported on demand.
type Console struct {
	mu       sync.Mutex
	sources  []*Source
	archive  []domain.LogEntry
	out      io.Writer
	log      *slog.Logger
	interval time.Duration
}

func New(sources []*Source, out io.Writer, log *slog.Logger) *Console {
	return &Console{
		sources:  sources,
		out:      out,
		log:      log,
		interval: PollInterval,
	}
}

// Run polls until ctx is cancelled.
func (c *Console) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.PollOnce(ctx)
		}
	}
}

// PollOnce fetches new entries from every source. A source that cannot be
// reached is noted once and retried on the next poll; its cursor is kept so
// nothing is lost.
func (c *Console) PollOnce(ctx context.Context) {
	for _, source := range c.sources {
		logs, err := source.Client.RetrieveConsoleLogs(ctx, source.cursor)
		if err != nil {
			if !source.unreachable {
				c.log.Warn("log source unreachable", "source", source.Name, "error", err)
				source.unreachable = true
			}
			continue
		}
		source.unreachable = false

		if len(logs.Entries) == 0 {
			continue
		}
		source.cursor = logs.LastTimestamp
		c.render(source.Name, logs.Entries)
	}
}

// Archive returns a copy of every entry seen so far, in arrival order.
func (c *Console) Archive() []domain.LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	archive := make([]domain.LogEntry, len(c.archive))
	copy(archive, c.archive)
	return archive
}

func (c *Console) render(sourceName string, entries []domain.LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range entries {
		c.archive = append(c.archive, entry)
		ts := time.Unix(0, int64(entry.Timestamp*1e9)).Format("15:04:05.000")
		fmt.Fprintf(c.out, "%s %-8s [%s] %s\n",
			ts, levelTag(entry.Level), sourceName, entry.Message)
	}
}

func levelTag(level domain.LogLevel) string {
	switch level {
	case domain.LogDebug:
		return "DEBUG"
	case domain.LogInfo:
		return "INFO"
	case domain.LogWarn:
		return "WARN"
	case domain.LogError:
		return "ERROR"
	case domain.LogCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}
