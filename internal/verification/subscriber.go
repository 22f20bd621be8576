package verification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/riskstream/riskstream/internal/metrics"
	"github.com/riskstream/riskstream/internal/models"
	"github.com/riskstream/riskstream/pkg/logging"
	"github.com/riskstream/riskstream/pkg/messaging"
)

// OutcomeMessage is the wire format the identity subsystem publishes on
// the bus for each completed verification attempt.
type OutcomeMessage struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	UserID     string    `json:"user_id"`
	Match      bool      `json:"match"`
	Confidence float64   `json:"confidence"`
}

// Subscriber consumes verification outcomes from the message bus and
// records them in the Store.
type Subscriber struct {
	client messaging.Subscriber
	store  *Store
	logger *logging.Logger
	sub    messaging.Subscription
}

// NewSubscriber creates a bus subscriber feeding the given store.
func NewSubscriber(client messaging.Subscriber, store *Store, logger *logging.Logger) *Subscriber {
	return &Subscriber{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Start subscribes to the verification outcome subject.
func (s *Subscriber) Start() error {
	sub, err := s.client.Subscribe(messaging.SubjectVerificationsCompleted, s.handleOutcome)
	if err != nil {
		return err
	}
	s.sub = sub
	s.logger.Info("subscribed to verification outcomes",
		logging.Subject(messaging.SubjectVerificationsCompleted))
	return nil
}

// Stop unsubscribes from verification outcomes.
func (s *Subscriber) Stop() error {
	if s.sub != nil {
		return s.sub.Unsubscribe()
	}
	return nil
}

// handleOutcome converts an inbound outcome into a VerificationEvent.
// A rejected match is fraud; the risk score is the inverse of the match
// confidence.
func (s *Subscriber) handleOutcome(ctx context.Context, msg *messaging.Message) error {
	var outcome OutcomeMessage
	if err := json.Unmarshal(msg.Data, &outcome); err != nil {
		s.logger.ErrorContext(ctx, "failed to unmarshal verification outcome", logging.Error(err))
		return err
	}

	ts := outcome.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	s.store.Insert(&models.VerificationEvent{
		ID:         outcome.ID,
		Timestamp:  ts.UTC(),
		UserID:     outcome.UserID,
		Confidence: outcome.Confidence,
		RiskScore:  1.0 - outcome.Confidence,
		IsFraud:    !outcome.Match,
		Seq:        models.NextSeq(),
	})

	metrics.VerificationEvents.Inc()
	s.logger.DebugContext(ctx, "recorded verification outcome",
		logging.EventID(outcome.ID),
		logging.UserID(outcome.UserID))
	return nil
}
