// Package verification holds identity-verification outcomes produced by
// the external identity subsystem. The service consumes them read-only:
// they arrive over the message bus and feed the unified log feed and
// analytics alongside scored transactions.
package verification

import (
	"sync"

	"github.com/riskstream/riskstream/internal/models"
)

// DefaultCapacity bounds the verification window when no capacity is
// configured. Matches the transaction store's bound.
const DefaultCapacity = 100

// Store is a fixed-capacity, most-recent-first buffer of verification
// events. Writes are serialized; reads see consistent snapshots.
type Store struct {
	mu     sync.RWMutex
	events []*models.VerificationEvent // index 0 = most recent
	cap    int
}

// NewStore creates a Store with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		events: make([]*models.VerificationEvent, 0, capacity),
		cap:    capacity,
	}
}

// Insert places the event at the front, evicting the oldest entry when
// the store is full.
func (s *Store) Insert(event *models.VerificationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) == s.cap {
		s.events = s.events[:len(s.events)-1]
	}
	s.events = append([]*models.VerificationEvent{event}, s.events...)
}

// Snapshot returns a copy of all stored events in most-recent-first order.
func (s *Store) Snapshot() []*models.VerificationEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make([]*models.VerificationEvent, len(s.events))
	copy(snap, s.events)
	return snap
}

// Len returns the current number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// CountWhere returns the number of stored events matching the predicate.
func (s *Store) CountWhere(predicate func(*models.VerificationEvent) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.events {
		if predicate(e) {
			count++
		}
	}
	return count
}
