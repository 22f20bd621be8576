// Package hub fans out stored-event notifications to live subscribers.
// Delivery is best-effort: a slow subscriber loses its oldest queued
// messages rather than delaying the publisher or its peers.
package hub

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/riskstream/riskstream/internal/metrics"
)

// DefaultQueueCapacity bounds each subscriber's outbound queue when no
// capacity is configured.
const DefaultQueueCapacity = 64

// DeleteNotice is broadcast when an event is removed from the store.
type DeleteNotice struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

// Subscriber is a live connection handle with a bounded outbound queue.
// It is registered on connect, unregistered on disconnect or send
// failure, and owned exclusively by the Hub.
type Subscriber struct {
	id      string
	out     chan []byte
	done    chan struct{}
	dropped atomic.Uint64
	closeMu sync.Mutex
	closed  bool
}

// ID returns the subscriber's opaque identifier.
func (s *Subscriber) ID() string {
	return s.id
}

// Out returns the channel the subscriber's delivery loop reads from.
// Messages arrive in publish order (FIFO within this subscriber).
func (s *Subscriber) Out() <-chan []byte {
	return s.out
}

// Done is closed when the subscriber is disconnected.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Dropped returns how many messages were discarded because this
// subscriber's queue was full.
func (s *Subscriber) Dropped() uint64 {
	return s.dropped.Load()
}

// close is idempotent; only the first call closes done.
func (s *Subscriber) close() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

// Hub maintains the set of currently connected subscribers and publishes
// every message to all of them.
type Hub struct {
	mu       sync.RWMutex
	subs     map[string]*Subscriber
	queueCap int
}

// New creates a Hub whose subscribers get outbound queues of queueCap.
// Non-positive capacities fall back to DefaultQueueCapacity.
func New(queueCap int) *Hub {
	if queueCap <= 0 {
		queueCap = DefaultQueueCapacity
	}
	return &Hub{
		subs:     make(map[string]*Subscriber),
		queueCap: queueCap,
	}
}

// Connect registers a new subscriber with an empty bounded queue and
// returns its handle. The caller pulls from Out until disconnect.
func (h *Hub) Connect() *Subscriber {
	sub := &Subscriber{
		id:   uuid.New().String(),
		out:  make(chan []byte, h.queueCap),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()

	metrics.Subscribers.Inc()
	return sub
}

// Disconnect removes the subscriber and cancels its delivery loop.
// Idempotent; disconnecting one subscriber never affects the others.
func (h *Hub) Disconnect(sub *Subscriber) {
	h.mu.Lock()
	_, present := h.subs[sub.id]
	delete(h.subs, sub.id)
	h.mu.Unlock()

	sub.close()
	if present {
		metrics.Subscribers.Dec()
	}
}

// Publish marshals the message once and enqueues it onto every currently
// connected subscriber's queue. A full queue drops its oldest entry so
// the publisher never blocks. Marshal failures are reported; per-
// subscriber overflow is not.
func (h *Hub) Publish(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		h.enqueue(sub, data)
	}

	metrics.MessagesPublished.Inc()
	return nil
}

// PublishDelete broadcasts a deletion notice for the given event id.
func (h *Hub) PublishDelete(id string) error {
	return h.Publish(DeleteNotice{Action: "delete", ID: id})
}

// enqueue applies the drop-oldest policy on the subscriber's queue.
func (h *Hub) enqueue(sub *Subscriber, data []byte) {
	for {
		select {
		case sub.out <- data:
			return
		default:
		}

		// Queue full: discard the oldest entry and retry. The receive
		// may race with the delivery loop; losing that race just means
		// the queue has room now.
		select {
		case <-sub.out:
			sub.dropped.Add(1)
			metrics.MessagesDropped.Inc()
		default:
		}
	}
}

// Len returns the number of currently connected subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
