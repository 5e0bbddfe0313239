// Package snapshot owns the current analytics snapshot. The store replaces
// snapshots wholesale: Set swaps a single pointer under a lock, so a reader
// either sees the complete old snapshot or the complete new one, never a mix.
package snapshot

import (
	"sync"

	"github.com/geoscope/geoscope/internal/models"
)

// Store holds the current snapshot reference
type Store struct {
	mu      sync.RWMutex
	current *models.AnalyticsSnapshot
}

// NewStore creates an empty snapshot store
func NewStore() *Store {
	return &Store{}
}

// Set normalizes the snapshot and makes it current, replacing any previous
// snapshot as a whole
func (s *Store) Set(snap *models.AnalyticsSnapshot) {
	Normalize(snap)

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}

// Get returns the current snapshot, or nil when no data has been loaded.
// Callers must treat the snapshot as read-only.
func (s *Store) Get() *models.AnalyticsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Clear drops the current snapshot
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
