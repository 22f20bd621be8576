package models

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Canonical feature names, in FeatureVector field order. Explanation
// ranking uses this order to break ties between equal contributions.
const (
	FeatureAmount           = "amount"
	FeatureUserAgeDays      = "user_age_days"
	FeatureDeviceTrustScore = "device_trust_score"
	FeatureVelocity1H       = "velocity_1h"
	FeatureDistanceFromHome = "distance_from_home"
)

// FeatureOrder is the canonical ordering of FeatureVector fields.
var FeatureOrder = []string{
	FeatureAmount,
	FeatureUserAgeDays,
	FeatureDeviceTrustScore,
	FeatureVelocity1H,
	FeatureDistanceFromHome,
}

// FeatureVector describes a single financial transaction.
// Immutable once submitted.
type FeatureVector struct {
	Amount           float64 `json:"amount"`
	UserAgeDays      int     `json:"user_age_days"`
	DeviceTrustScore float64 `json:"device_trust_score"`
	Velocity1H       int     `json:"velocity_1h"`
	DistanceFromHome float64 `json:"distance_from_home"`
}

// Validate rejects malformed or out-of-range feature values before scoring.
func (v FeatureVector) Validate() error {
	if v.Amount < 0 {
		return fmt.Errorf("amount must be non-negative, got %v", v.Amount)
	}
	if v.UserAgeDays < 0 {
		return fmt.Errorf("user_age_days must be non-negative, got %d", v.UserAgeDays)
	}
	if v.DeviceTrustScore < 0 || v.DeviceTrustScore > 1 {
		return fmt.Errorf("device_trust_score must be in [0,1], got %v", v.DeviceTrustScore)
	}
	if v.Velocity1H < 0 {
		return fmt.Errorf("velocity_1h must be non-negative, got %d", v.Velocity1H)
	}
	if v.DistanceFromHome < 0 {
		return fmt.Errorf("distance_from_home must be non-negative, got %v", v.DistanceFromHome)
	}
	return nil
}

// Value returns the named feature's value as a float64.
// Unknown names return 0; callers only pass canonical names.
func (v FeatureVector) Value(name string) float64 {
	switch name {
	case FeatureAmount:
		return v.Amount
	case FeatureUserAgeDays:
		return float64(v.UserAgeDays)
	case FeatureDeviceTrustScore:
		return v.DeviceTrustScore
	case FeatureVelocity1H:
		return float64(v.Velocity1H)
	case FeatureDistanceFromHome:
		return v.DistanceFromHome
	}
	return 0
}

// FeatureAttribution is one feature's signed push toward or away from fraud.
type FeatureAttribution struct {
	Feature      string  `json:"feature"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
}

// RiskEvent is a scored transaction. Immutable once created.
// Seq is a per-process ordering counter used to break timestamp ties in
// the merged feed; it is never serialized.
type RiskEvent struct {
	ID           string               `json:"id"`
	Timestamp    time.Time            `json:"timestamp"`
	UserID       string               `json:"user_id"`
	Features     FeatureVector        `json:"features"`
	RiskScore    float64              `json:"risk_score"`
	IsFraud      bool                 `json:"is_fraud"`
	Explanations []FeatureAttribution `json:"explanations"`
	Seq          uint64               `json:"-"`
}

// VerificationEvent is an identity-verification outcome produced by the
// external identity subsystem and consumed read-only here.
type VerificationEvent struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	UserID     string    `json:"user_id"`
	Confidence float64   `json:"confidence"`
	RiskScore  float64   `json:"risk_score"`
	IsFraud    bool      `json:"is_fraud"`
	Seq        uint64    `json:"-"`
}

// seqCounter is the shared per-process sequence source for both event kinds.
var seqCounter atomic.Uint64

// NextSeq returns the next per-process sequence number.
func NextSeq() uint64 {
	return seqCounter.Add(1)
}
