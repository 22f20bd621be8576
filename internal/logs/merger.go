// Package logs merges the transaction and verification event windows
// into one time-ordered feed and derives aggregate analytics over both.
package logs

import (
	"sort"
	"time"

	"github.com/riskstream/riskstream/internal/models"
	"github.com/riskstream/riskstream/internal/store"
	"github.com/riskstream/riskstream/internal/verification"
)

// Entry type tags in the unified feed.
const (
	TypeTransaction  = "TRANSACTION"
	TypeVerification = "DAO_VERIFICATION"
)

// Entry is the shared minimal view both event kinds expose in the feed,
// plus kind-specific detail fields.
type Entry struct {
	ID           string                      `json:"id"`
	Timestamp    time.Time                   `json:"timestamp"`
	Type         string                      `json:"type"`
	UserID       string                      `json:"user_id"`
	IsFraud      bool                        `json:"is_fraud"`
	RiskScore    float64                     `json:"risk_score"`
	Features     *models.FeatureVector       `json:"features,omitempty"`
	Explanations []models.FeatureAttribution `json:"explanations,omitempty"`
	Confidence   *float64                    `json:"confidence,omitempty"`

	seq uint64
}

// Merger combines the transaction store with the externally fed
// verification store into one descending-timestamp feed. Only
// fraud-flagged transactions appear in the feed; verification entries
// appear regardless of outcome.
type Merger struct {
	transactions  *store.Store
	verifications *verification.Store
}

// NewMerger creates a Merger over the two stores.
func NewMerger(transactions *store.Store, verifications *verification.Store) *Merger {
	return &Merger{
		transactions:  transactions,
		verifications: verifications,
	}
}

// Page returns up to limit merged entries starting at offset skip,
// ordered by descending timestamp with descending sequence number as the
// tie-break, plus the total combined count. Ordering is a pure function
// of (timestamp, seq), so repeated calls over unchanged stores return
// identical feeds. Out-of-range paging yields an empty slice; Page never
// fails.
func (m *Merger) Page(skip, limit int) ([]Entry, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}

	txs := m.transactionEntries()
	vfs := m.verificationEntries()
	total := len(txs) + len(vfs)

	// Two-pointer merge, bounded by skip+limit: the full union is never
	// materialized.
	want := skip + limit
	if want > total {
		want = total
	}
	merged := make([]Entry, 0, want)
	i, j := 0, 0
	for len(merged) < want {
		switch {
		case i == len(txs):
			merged = append(merged, vfs[j])
			j++
		case j == len(vfs):
			merged = append(merged, txs[i])
			i++
		case newer(txs[i], vfs[j]):
			merged = append(merged, txs[i])
			i++
		default:
			merged = append(merged, vfs[j])
			j++
		}
	}

	if skip >= len(merged) {
		return []Entry{}, total
	}
	return merged[skip:], total
}

// newer reports whether a precedes b in the feed: later timestamp first,
// higher sequence number on ties.
func newer(a, b Entry) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.seq > b.seq
}

// transactionEntries snapshots fraud-flagged transactions sorted by
// (timestamp desc, seq desc). The store orders by insertion, which is
// score-completion order and may differ from timestamp order.
func (m *Merger) transactionEntries() []Entry {
	snap := m.transactions.Snapshot()
	entries := make([]Entry, 0, len(snap))
	for _, tx := range snap {
		if !tx.IsFraud {
			continue
		}
		features := tx.Features
		entries = append(entries, Entry{
			ID:           tx.ID,
			Timestamp:    tx.Timestamp,
			Type:         TypeTransaction,
			UserID:       tx.UserID,
			IsFraud:      tx.IsFraud,
			RiskScore:    tx.RiskScore,
			Features:     &features,
			Explanations: tx.Explanations,
			seq:          tx.Seq,
		})
	}
	sortEntries(entries)
	return entries
}

// verificationEntries snapshots all verification events sorted the same way.
func (m *Merger) verificationEntries() []Entry {
	snap := m.verifications.Snapshot()
	entries := make([]Entry, 0, len(snap))
	for _, v := range snap {
		confidence := v.Confidence
		entries = append(entries, Entry{
			ID:         v.ID,
			Timestamp:  v.Timestamp,
			Type:       TypeVerification,
			UserID:     v.UserID,
			IsFraud:    v.IsFraud,
			RiskScore:  v.RiskScore,
			Confidence: &confidence,
			seq:        v.Seq,
		})
	}
	sortEntries(entries)
	return entries
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return newer(entries[i], entries[j])
	})
}
