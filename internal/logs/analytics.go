package logs

import (
	"math"

	"github.com/riskstream/riskstream/internal/models"
	"github.com/riskstream/riskstream/internal/store"
	"github.com/riskstream/riskstream/internal/verification"
)

// Analytics aggregates counts and rates across both event windows.
type Analytics struct {
	TotalTransactions  int     `json:"total_transactions"`
	TotalFraudDetected int     `json:"total_fraud_detected"`
	CleanTransactions  int     `json:"clean_transactions"`
	FraudRate          float64 `json:"fraud_rate"`
}

// Aggregator derives analytics over the transaction and verification
// stores. Pure read-only; each call is an O(n) scan of the bounded
// windows with no caching.
type Aggregator struct {
	transactions  *store.Store
	verifications *verification.Store
}

// NewAggregator creates an Aggregator over the two stores.
func NewAggregator(transactions *store.Store, verifications *verification.Store) *Aggregator {
	return &Aggregator{
		transactions:  transactions,
		verifications: verifications,
	}
}

// Aggregate computes the combined totals. All transactions count toward
// the total (not only flagged ones); the fraud rate is flagged/total
// rounded to 4 decimal places, defined as 0 when the total is 0.
func (a *Aggregator) Aggregate() Analytics {
	totalTx := a.transactions.Len()
	fraudTx := a.transactions.CountWhere(func(e *models.RiskEvent) bool {
		return e.IsFraud
	})

	totalVf := a.verifications.Len()
	rejectedVf := a.verifications.CountWhere(func(e *models.VerificationEvent) bool {
		return e.IsFraud
	})

	total := totalTx + totalVf
	flagged := fraudTx + rejectedVf

	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(flagged)/float64(total)*10000) / 10000
	}

	return Analytics{
		TotalTransactions:  total,
		TotalFraudDetected: flagged,
		CleanTransactions:  total - flagged,
		FraudRate:          rate,
	}
}
