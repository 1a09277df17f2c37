// Package logstore keeps the bounded in-memory console log ring that backs
// each service's retrieveConsoleLogs endpoint.
package logstore

import (
	"sync"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

// MaxEntriesReturned caps a single retrieveConsoleLogs response.
const MaxEntriesReturned = 50

// DefaultCapacity bounds the ring itself.
const DefaultCapacity = 4096

// Store is a concurrency-safe bounded log ring. Writers are the service's
// logger; readers are the HTTP surface and the live log stream.
type Store struct {
	mu       sync.Mutex
	capacity int
	entries  []domain.LogEntry
}

// New creates a store with the given capacity; zero or negative selects
// DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Add appends one entry, evicting the oldest when the ring is full.
func (s *Store) Add(entry domain.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[len(s.entries)-s.capacity:]
	}
}

// Count returns the number of retained entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// EntriesSince returns up to MaxEntriesReturned entries with a timestamp
// strictly greater than since, oldest first, plus the timestamp of the last
// entry returned. lastTimestamp is 0 when nothing matched.
func (s *Store) EntriesSince(since float64) (float64, []domain.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.LogEntry, 0, MaxEntriesReturned)
	for _, e := range s.entries {
		if e.Timestamp > since {
			matched = append(matched, e)
			if len(matched) == MaxEntriesReturned {
				break
			}
		}
	}

	if len(matched) == 0 {
		return 0, matched
	}
	return matched[len(matched)-1].Timestamp, matched
}
