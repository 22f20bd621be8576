package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/riskstream/riskstream/internal/models"
)

func makeEvent(n int) *models.RiskEvent {
	return &models.RiskEvent{
		ID:        fmt.Sprintf("TXN-%04d", n),
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second),
		UserID:    "user_0001",
		Seq:       models.NextSeq(),
	}
}

func TestStore_InsertMostRecentFirst(t *testing.T) {
	s := New(10)

	for i := 1; i <= 3; i++ {
		s.Insert(makeEvent(i))
	}

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	for i, wantN := range []int{3, 2, 1} {
		want := fmt.Sprintf("TXN-%04d", wantN)
		if snap[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, snap[i].ID)
		}
	}
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	s := New(100)

	for i := 1; i <= 101; i++ {
		s.Insert(makeEvent(i))
	}

	if s.Len() != 100 {
		t.Fatalf("expected size 100, got %d", s.Len())
	}

	snap := s.Snapshot()
	if snap[0].ID != "TXN-0101" {
		t.Errorf("expected newest event at offset 0, got %s", snap[0].ID)
	}
	if snap[len(snap)-1].ID != "TXN-0002" {
		t.Errorf("expected oldest surviving event TXN-0002, got %s", snap[len(snap)-1].ID)
	}
	for _, e := range snap {
		if e.ID == "TXN-0001" {
			t.Error("first-inserted event should have been evicted")
		}
	}
}

func TestStore_CapacityFallback(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		s := New(capacity)
		if s.Capacity() != DefaultCapacity {
			t.Errorf("capacity %d: expected fallback to %d, got %d", capacity, DefaultCapacity, s.Capacity())
		}
	}
}

func TestStore_Page(t *testing.T) {
	s := New(10)
	for i := 1; i <= 5; i++ {
		s.Insert(makeEvent(i))
	}

	tests := []struct {
		name    string
		skip    int
		limit   int
		wantIDs []string
	}{
		{"first page", 0, 2, []string{"TXN-0005", "TXN-0004"}},
		{"middle page", 2, 2, []string{"TXN-0003", "TXN-0002"}},
		{"partial last page", 4, 2, []string{"TXN-0001"}},
		{"skip past end", 5, 2, []string{}},
		{"skip far past end", 100, 10, []string{}},
		{"limit past end", 0, 100, []string{"TXN-0005", "TXN-0004", "TXN-0003", "TXN-0002", "TXN-0001"}},
		{"negative skip", -3, 2, []string{"TXN-0005", "TXN-0004"}},
		{"zero limit", 0, 0, []string{}},
		{"negative limit", 0, -1, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := s.Page(tt.skip, tt.limit)
			if len(page) != len(tt.wantIDs) {
				t.Fatalf("expected %d events, got %d", len(tt.wantIDs), len(page))
			}
			for i, want := range tt.wantIDs {
				if page[i].ID != want {
					t.Errorf("position %d: expected %s, got %s", i, want, page[i].ID)
				}
			}
		})
	}
}

func TestStore_DeleteByID(t *testing.T) {
	s := New(5)
	for i := 1; i <= 5; i++ {
		s.Insert(makeEvent(i))
	}

	if !s.DeleteByID("TXN-0003") {
		t.Fatal("expected delete of present id to report true")
	}
	if s.Len() != 4 {
		t.Fatalf("expected size 4 after delete, got %d", s.Len())
	}

	snap := s.Snapshot()
	wantOrder := []string{"TXN-0005", "TXN-0004", "TXN-0002", "TXN-0001"}
	for i, want := range wantOrder {
		if snap[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, snap[i].ID)
		}
	}
}

func TestStore_DeleteMissingIsNoOp(t *testing.T) {
	s := New(5)
	s.Insert(makeEvent(1))

	if s.DeleteByID("TXN-9999") {
		t.Error("expected delete of missing id to report false")
	}
	if s.Len() != 1 {
		t.Errorf("expected size unchanged, got %d", s.Len())
	}
}

func TestStore_InsertAfterDelete(t *testing.T) {
	s := New(3)
	for i := 1; i <= 3; i++ {
		s.Insert(makeEvent(i))
	}

	// Free a slot, then refill and overflow again.
	if !s.DeleteByID("TXN-0002") {
		t.Fatal("expected delete to succeed")
	}
	s.Insert(makeEvent(4))
	s.Insert(makeEvent(5))

	if s.Len() != 3 {
		t.Fatalf("expected size 3, got %d", s.Len())
	}
	snap := s.Snapshot()
	wantOrder := []string{"TXN-0005", "TXN-0004", "TXN-0003"}
	for i, want := range wantOrder {
		if snap[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, snap[i].ID)
		}
	}
}

func TestStore_DeleteNewestAndOldest(t *testing.T) {
	s := New(5)
	for i := 1; i <= 4; i++ {
		s.Insert(makeEvent(i))
	}

	if !s.DeleteByID("TXN-0004") {
		t.Fatal("expected delete of newest to succeed")
	}
	if !s.DeleteByID("TXN-0001") {
		t.Fatal("expected delete of oldest to succeed")
	}

	snap := s.Snapshot()
	wantOrder := []string{"TXN-0003", "TXN-0002"}
	if len(snap) != len(wantOrder) {
		t.Fatalf("expected %d events, got %d", len(wantOrder), len(snap))
	}
	for i, want := range wantOrder {
		if snap[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, snap[i].ID)
		}
	}
}

func TestStore_CountWhere(t *testing.T) {
	s := New(10)
	for i := 1; i <= 6; i++ {
		e := makeEvent(i)
		e.IsFraud = i%2 == 0
		s.Insert(e)
	}

	fraud := s.CountWhere(func(e *models.RiskEvent) bool { return e.IsFraud })
	if fraud != 3 {
		t.Errorf("expected 3 fraud events, got %d", fraud)
	}
}
