package hub

import (
	"encoding/json"
	"fmt"
	"testing"
)

func recvOne(t *testing.T, sub *Subscriber) []byte {
	t.Helper()
	select {
	case data := <-sub.Out():
		return data
	default:
		t.Fatal("expected a queued message")
		return nil
	}
}

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	h := New(8)
	a := h.Connect()
	b := h.Connect()
	defer h.Disconnect(a)
	defer h.Disconnect(b)

	if h.Len() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", h.Len())
	}

	payload := map[string]string{"id": "TXN-0001"}
	if err := h.Publish(payload); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	for _, sub := range []*Subscriber{a, b} {
		var got map[string]string
		if err := json.Unmarshal(recvOne(t, sub), &got); err != nil {
			t.Fatalf("invalid message: %v", err)
		}
		if got["id"] != "TXN-0001" {
			t.Errorf("expected TXN-0001, got %q", got["id"])
		}
	}
}

func TestHub_DisconnectLeavesOthersIntact(t *testing.T) {
	h := New(8)
	a := h.Connect()
	b := h.Connect()

	if err := h.Publish(map[string]int{"n": 1}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	h.Disconnect(a)

	select {
	case <-a.Done():
	default:
		t.Error("expected disconnected subscriber's Done to be closed")
	}

	// Stream continues gap-free for the survivor.
	if err := h.Publish(map[string]int{"n": 2}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	for want := 1; want <= 2; want++ {
		var got map[string]int
		if err := json.Unmarshal(recvOne(t, b), &got); err != nil {
			t.Fatalf("invalid message: %v", err)
		}
		if got["n"] != want {
			t.Errorf("expected message %d, got %d", want, got["n"])
		}
	}

	h.Disconnect(b)
	if h.Len() != 0 {
		t.Errorf("expected 0 subscribers, got %d", h.Len())
	}
}

func TestHub_DisconnectIdempotent(t *testing.T) {
	h := New(4)
	sub := h.Connect()

	h.Disconnect(sub)
	h.Disconnect(sub)

	if h.Len() != 0 {
		t.Errorf("expected 0 subscribers, got %d", h.Len())
	}
}

func TestHub_DropOldestWhenQueueFull(t *testing.T) {
	h := New(2)
	sub := h.Connect()
	defer h.Disconnect(sub)

	for n := 1; n <= 4; n++ {
		if err := h.Publish(map[string]int{"n": n}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}

	// Queue capacity is 2; the two oldest messages were discarded.
	if sub.Dropped() != 2 {
		t.Errorf("expected 2 dropped messages, got %d", sub.Dropped())
	}

	for _, want := range []int{3, 4} {
		var got map[string]int
		if err := json.Unmarshal(recvOne(t, sub), &got); err != nil {
			t.Fatalf("invalid message: %v", err)
		}
		if got["n"] != want {
			t.Errorf("expected message %d, got %d", want, got["n"])
		}
	}

	select {
	case data := <-sub.Out():
		t.Errorf("unexpected extra message: %s", data)
	default:
	}
}

func TestHub_SlowSubscriberDoesNotStarvePeers(t *testing.T) {
	h := New(2)
	slow := h.Connect()
	fast := h.Connect()
	defer h.Disconnect(slow)
	defer h.Disconnect(fast)

	for n := 1; n <= 5; n++ {
		if err := h.Publish(map[string]int{"n": n}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
		// The fast subscriber drains every round; the slow one never reads.
		recvOne(t, fast)
	}

	if fast.Dropped() != 0 {
		t.Errorf("expected no drops for draining subscriber, got %d", fast.Dropped())
	}
	if slow.Dropped() != 3 {
		t.Errorf("expected 3 drops for stalled subscriber, got %d", slow.Dropped())
	}
}

func TestHub_PublishDelete(t *testing.T) {
	h := New(4)
	sub := h.Connect()
	defer h.Disconnect(sub)

	if err := h.PublishDelete("TXN-00ab"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	var notice DeleteNotice
	if err := json.Unmarshal(recvOne(t, sub), &notice); err != nil {
		t.Fatalf("invalid message: %v", err)
	}
	if notice.Action != "delete" {
		t.Errorf("expected action delete, got %q", notice.Action)
	}
	if notice.ID != "TXN-00ab" {
		t.Errorf("expected id TXN-00ab, got %q", notice.ID)
	}
}

func TestHub_PublishUnmarshalableMessage(t *testing.T) {
	h := New(4)
	sub := h.Connect()
	defer h.Disconnect(sub)

	if err := h.Publish(make(chan int)); err == nil {
		t.Error("expected marshal error")
	}

	select {
	case data := <-sub.Out():
		t.Errorf("unexpected message after failed publish: %s", data)
	default:
	}
}

func TestHub_UniqueSubscriberIDs(t *testing.T) {
	h := New(4)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		sub := h.Connect()
		if seen[sub.ID()] {
			t.Fatalf("duplicate subscriber id %s", sub.ID())
		}
		seen[sub.ID()] = true
		h.Disconnect(sub)
	}
}

func TestHub_QueueCapacityFallback(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		h := New(capacity)
		if h.queueCap != DefaultQueueCapacity {
			t.Errorf("capacity %d: expected fallback to %d, got %d", capacity, DefaultQueueCapacity, h.queueCap)
		}
	}
}

func BenchmarkHub_Publish(b *testing.B) {
	h := New(DefaultQueueCapacity)
	for i := 0; i < 10; i++ {
		sub := h.Connect()
		defer h.Disconnect(sub)
	}

	msg := map[string]string{"id": fmt.Sprintf("TXN-%08x", 42)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = h.Publish(msg)
	}
}
