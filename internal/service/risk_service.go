// Package service orchestrates the scoring pipeline: validate, score,
// rank, store, broadcast. Both the HTTP surface and the simulator feed
// transactions through the same path.
package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/riskstream/riskstream/internal/hub"
	"github.com/riskstream/riskstream/internal/metrics"
	"github.com/riskstream/riskstream/internal/models"
	"github.com/riskstream/riskstream/internal/scoring"
	"github.com/riskstream/riskstream/internal/store"
	"github.com/riskstream/riskstream/pkg/logging"
	"github.com/riskstream/riskstream/pkg/messaging"
)

// SimulationResult is a score-and-explain outcome that was neither
// stored nor broadcast.
type SimulationResult struct {
	RiskScore    float64                     `json:"risk_score"`
	IsFraud      bool                        `json:"is_fraud"`
	Explanations []models.FeatureAttribution `json:"explanations"`
}

// RiskService runs the scoring-and-distribution pipeline.
type RiskService struct {
	engine *scoring.Engine
	store  *store.Store
	hub    *hub.Hub
	bus    messaging.Publisher // nil when the message bus is disabled
	logger *logging.Logger

	stats      models.ScoringStats
	statsMutex sync.RWMutex
}

// NewRiskService wires the pipeline together. bus may be nil; outbound
// bus publishing is then skipped.
func NewRiskService(engine *scoring.Engine, eventStore *store.Store, broadcastHub *hub.Hub, bus messaging.Publisher, logger *logging.Logger) *RiskService {
	return &RiskService{
		engine: engine,
		store:  eventStore,
		hub:    broadcastHub,
		bus:    bus,
		logger: logger,
	}
}

// ProcessTransaction scores the features, stores the resulting event and
// broadcasts it to all subscribers. Scoring runs before any store or hub
// lock is taken; events become visible and are broadcast in the order
// their scoring completes.
func (s *RiskService) ProcessTransaction(ctx context.Context, userID string, features models.FeatureVector) (*models.RiskEvent, error) {
	if err := features.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	probability, isFraud, contributions, err := s.engine.Score(features)
	metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ScoringErrors.Inc()
		s.updateStats(false, false)
		return nil, err
	}
	metrics.TransactionsScored.WithLabelValues(strconv.FormatBool(isFraud)).Inc()

	event := &models.RiskEvent{
		ID:           newEventID(),
		Timestamp:    time.Now().UTC(),
		UserID:       userID,
		Features:     features,
		RiskScore:    probability,
		IsFraud:      isFraud,
		Explanations: scoring.Rank(features, contributions),
		Seq:          models.NextSeq(),
	}

	s.store.Insert(event)
	if err := s.hub.Publish(event); err != nil {
		s.logger.ErrorContext(ctx, "failed to broadcast event", logging.Error(err), logging.EventID(event.ID))
	}
	s.publishToBus(ctx, event)
	s.updateStats(true, isFraud)

	s.logger.InfoContext(ctx, "transaction scored",
		logging.EventID(event.ID),
		logging.UserID(userID),
		logging.RiskScore(probability))
	return event, nil
}

// Simulate scores and explains without saving or broadcasting. Used for
// interactive what-if exploration.
func (s *RiskService) Simulate(features models.FeatureVector) (*SimulationResult, error) {
	if err := features.Validate(); err != nil {
		return nil, err
	}

	probability, isFraud, contributions, err := s.engine.Score(features)
	if err != nil {
		return nil, err
	}

	return &SimulationResult{
		RiskScore:    probability,
		IsFraud:      isFraud,
		Explanations: scoring.Rank(features, contributions),
	}, nil
}

// Delete removes the event if present and broadcasts a deletion notice.
// A missing id is a no-op, not an error.
func (s *RiskService) Delete(ctx context.Context, id string) bool {
	removed := s.store.DeleteByID(id)
	if err := s.hub.PublishDelete(id); err != nil {
		s.logger.ErrorContext(ctx, "failed to broadcast deletion", logging.Error(err), logging.EventID(id))
	}
	return removed
}

// List returns a page of stored events in most-recent-first order plus
// the total stored count.
func (s *RiskService) List(skip, limit int) ([]*models.RiskEvent, int) {
	return s.store.Page(skip, limit), s.store.Len()
}

// publishToBus forwards the scored event to the message bus when one is
// configured. Best-effort: failures are logged and never fail ingestion.
func (s *RiskService) publishToBus(ctx context.Context, event *models.RiskEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishJSON(ctx, messaging.SubjectTransactionsScored, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish scored event to bus",
			logging.Error(err),
			logging.Subject(messaging.SubjectTransactionsScored))
	}
}

func (s *RiskService) updateStats(success, isFraud bool) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.LastEvent = time.Now()
	if !success {
		s.stats.FailedScores++
		return
	}
	s.stats.TotalScored++
	if isFraud {
		s.stats.FraudDetected++
	}
}

// GetStats returns a copy of the cumulative scoring counters.
func (s *RiskService) GetStats() models.ScoringStats {
	s.statsMutex.RLock()
	defer s.statsMutex.RUnlock()
	return s.stats
}

// Ready reports whether the service can score: the model must be loaded
// or loadable.
func (s *RiskService) Ready() bool {
	return s.engine.Load() == nil
}

func newEventID() string {
	u := uuid.New()
	return fmt.Sprintf("TXN-%x", u[:4])
}
