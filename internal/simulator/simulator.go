// Package simulator produces an unending stream of synthetic
// transactions to exercise the pipeline without external traffic.
package simulator

import (
	"context"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/riskstream/riskstream/internal/metrics"
	"github.com/riskstream/riskstream/internal/models"
	"github.com/riskstream/riskstream/internal/service"
	"github.com/riskstream/riskstream/pkg/logging"
)

// Config controls emission cadence and the suspicious-profile mix.
type Config struct {
	// MinInterval and MaxInterval bound the uniform random pause between
	// emissions.
	MinInterval time.Duration
	MaxInterval time.Duration

	// SuspiciousRatio is the probability an emission draws the
	// suspicious profile instead of the normal one.
	SuspiciousRatio float64
}

// DefaultConfig matches the live traffic generator's historical cadence:
// one transaction every 1-4 seconds, 20% suspicious.
func DefaultConfig() Config {
	return Config{
		MinInterval:     1 * time.Second,
		MaxInterval:     4 * time.Second,
		SuspiciousRatio: 0.2,
	}
}

// Simulator feeds synthetic transactions through the normal ingestion
// path, exactly as an external caller would. It holds no position; a
// restart simply begins a fresh sequence.
type Simulator struct {
	service *service.RiskService
	config  Config
	logger  *logging.Logger
}

// New creates a Simulator emitting into the given service.
func New(svc *service.RiskService, cfg Config, logger *logging.Logger) *Simulator {
	if cfg.MinInterval <= 0 || cfg.MaxInterval < cfg.MinInterval {
		cfg = DefaultConfig()
	}
	return &Simulator{
		service: svc,
		config:  cfg,
		logger:  logger,
	}
}

// Run emits transactions until ctx is cancelled. Cancelling stops only
// the generation loop; nothing already stored or broadcast is affected.
func (s *Simulator) Run(ctx context.Context) {
	s.logger.Info("simulator started")
	timer := time.NewTimer(s.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulator stopped")
			return
		case <-timer.C:
		}

		userID, features := s.draw()
		if _, err := s.service.ProcessTransaction(ctx, userID, features); err != nil {
			s.logger.Warn("simulator transaction rejected", logging.Error(err))
		} else {
			metrics.SimulatedTransactions.Inc()
		}

		timer.Reset(s.nextDelay())
	}
}

// nextDelay returns a uniform random pause in [MinInterval, MaxInterval).
func (s *Simulator) nextDelay() time.Duration {
	spread := s.config.MaxInterval - s.config.MinInterval
	return s.config.MinInterval + time.Duration(rand.Float64()*float64(spread))
}

// draw produces a synthetic user and feature vector. With probability
// SuspiciousRatio the vector is drawn from the high-risk profile.
func (s *Simulator) draw() (string, models.FeatureVector) {
	userID := "user_" + gofakeit.DigitN(4)

	if rand.Float64() < s.config.SuspiciousRatio {
		return userID, SuspiciousProfile()
	}
	return userID, NormalProfile()
}

// SuspiciousProfile draws a vector resembling account-takeover traffic:
// large amount, young account, untrusted device, bursty velocity, far
// from home.
func SuspiciousProfile() models.FeatureVector {
	return models.FeatureVector{
		Amount:           uniform(500, 5000),
		UserAgeDays:      rand.Intn(100) + 1,
		DeviceTrustScore: uniform(0.01, 0.4),
		Velocity1H:       rand.Intn(12) + 4,
		DistanceFromHome: uniform(100, 2000),
	}
}

// NormalProfile draws a vector resembling routine traffic.
func NormalProfile() models.FeatureVector {
	return models.FeatureVector{
		Amount:           uniform(5, 300),
		UserAgeDays:      rand.Intn(3551) + 100,
		DeviceTrustScore: uniform(0.6, 1.0),
		Velocity1H:       rand.Intn(4),
		DistanceFromHome: uniform(0, 50),
	}
}

func uniform(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}
