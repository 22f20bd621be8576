package models

import "time"

// ScoringStats tracks cumulative ingestion counters for the readiness
// endpoint. Reset on restart, like everything else in this service.
type ScoringStats struct {
	TotalScored   int64     `json:"total_scored"`
	FraudDetected int64     `json:"fraud_detected"`
	FailedScores  int64     `json:"failed_scores"`
	LastEvent     time.Time `json:"last_event"`
}
