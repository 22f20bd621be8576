// Package store holds the bounded, insertion-ordered window of scored
// transactions. The store is volatile: capacity is fixed, the oldest
// entry is evicted first, and everything is lost on restart.
package store

import (
	"sync"

	"github.com/riskstream/riskstream/internal/metrics"
	"github.com/riskstream/riskstream/internal/models"
)

// DefaultCapacity bounds the event window when no capacity is configured.
const DefaultCapacity = 100

// Store is a fixed-capacity, most-recent-first buffer of risk events.
// All mutations are serialized; reads observe either the state before or
// after a mutation, never a partial one.
type Store struct {
	mu   sync.RWMutex
	buf  []*models.RiskEvent
	next int // slot the next insert writes to
	size int
}

// New creates a Store with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		buf: make([]*models.RiskEvent, capacity),
	}
}

// Capacity returns the fixed capacity of the store.
func (s *Store) Capacity() int {
	return len(s.buf)
}

// Insert places the event at the front (most recent position). When the
// store is full the oldest entry is evicted first; eviction is expected
// behavior, not an error. O(1).
func (s *Store) Insert(event *models.RiskEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := s.buf[s.next] != nil
	s.buf[s.next] = event
	s.next = (s.next + 1) % len(s.buf)
	if s.size < len(s.buf) {
		s.size++
	}

	if evicted {
		metrics.StoreEvictions.Inc()
	}
	metrics.StoreSize.Set(float64(s.size))
}

// DeleteByID removes the event with the given id if present and reports
// whether anything was removed. Deleting a missing id is a no-op, not an
// error. The relative order of remaining events is unchanged.
func (s *Store) DeleteByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := 0; k < s.size; k++ {
		if s.buf[s.phys(k)].ID != id {
			continue
		}
		// Shift every newer event one position toward the old end,
		// then release the vacated newest slot.
		for i := k; i >= 1; i-- {
			s.buf[s.phys(i)] = s.buf[s.phys(i-1)]
		}
		s.buf[s.phys(0)] = nil
		s.next = s.phys(0)
		s.size--

		metrics.StoreSize.Set(float64(s.size))
		return true
	}
	return false
}

// Page returns up to limit events starting at offset skip in
// most-recent-first order. Out-of-range skip or limit yields an empty
// slice; Page never fails.
func (s *Store) Page(skip, limit int) []*models.RiskEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if skip >= s.size {
		return []*models.RiskEvent{}
	}

	n := s.size - skip
	if n > limit {
		n = limit
	}
	page := make([]*models.RiskEvent, n)
	for i := 0; i < n; i++ {
		page[i] = s.buf[s.phys(skip+i)]
	}
	return page
}

// Snapshot returns a copy of all stored events in most-recent-first order.
func (s *Store) Snapshot() []*models.RiskEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make([]*models.RiskEvent, s.size)
	for i := 0; i < s.size; i++ {
		snap[i] = s.buf[s.phys(i)]
	}
	return snap
}

// Len returns the current number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// CountWhere returns the number of stored events matching the predicate.
func (s *Store) CountWhere(predicate func(*models.RiskEvent) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := 0; i < s.size; i++ {
		if predicate(s.buf[s.phys(i)]) {
			count++
		}
	}
	return count
}

// phys maps the logical most-recent-first index k to a buffer slot.
// Callers must hold the lock.
func (s *Store) phys(k int) int {
	c := len(s.buf)
	return ((s.next-1-k)%c + c) % c
}
