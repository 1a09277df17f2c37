package ports

import "github.com/secure-shed/shedctl/internal/core/domain"

// LogRing is the bounded in-memory console log store each service keeps to
// answer retrieveConsoleLogs.
type LogRing interface {
	// Add appends one entry, evicting the oldest when the ring is full.
	Add(entry domain.LogEntry)

	// EntriesSince returns up to the wire cap of entries with a timestamp
	// strictly greater than since, plus the timestamp of the last entry
	// returned (0 when none).
	EntriesSince(since float64) (lastTimestamp float64, entries []domain.LogEntry)
}
