// Package history keeps the most recent completed translation requests in a
// fixed-capacity ring buffer, newest first.
package history

import (
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/indictrans/internal/translation"
)

// DefaultSize is how many requests are kept and shown
const DefaultSize = 5

// Entry is a snapshot of one completed request
type Entry struct {
	ID             string
	Text           string
	Model          string
	SourceLanguage string // detected ISO 639-1 code, empty if undetermined
	Result         translation.Result
	CreatedAt      time.Time
}

// Store is a bounded, newest-first history. Adding to a full store evicts
// the oldest entry.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	next    int // slot for the next Add
	count   int
}

// NewStore creates a store holding at most size entries
func NewStore(size int) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	return &Store{entries: make([]Entry, size)}
}

// Add records e as the most recent entry
func (s *Store) Add(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[s.next] = e
	s.next = (s.next + 1) % len(s.entries)
	if s.count < len(s.entries) {
		s.count++
	}
}

// Entries returns a copy of the stored entries, newest first
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, s.count)
	for i := 1; i <= s.count; i++ {
		idx := (s.next - i + len(s.entries)) % len(s.entries)
		out = append(out, s.entries[idx])
	}
	return out
}

// Len returns the number of stored entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Cap returns the maximum number of entries
func (s *Store) Cap() int {
	return len(s.entries)
}

// Clear drops all entries
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		s.entries[i] = Entry{}
	}
	s.next = 0
	s.count = 0
}

// Label is the display heading of the n-th shown entry (1 = newest)
func (e Entry) Label(n int) string {
	return fmt.Sprintf("Request %d • Model: %s", n, e.Model)
}
