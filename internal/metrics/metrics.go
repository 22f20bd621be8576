package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scoring metrics
	TransactionsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskstream_transactions_scored_total",
			Help: "Total number of transactions scored",
		},
		[]string{"verdict"},
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "riskstream_scoring_duration_seconds",
			Help:    "Duration of model scoring in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ScoringErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskstream_scoring_errors_total",
			Help: "Total number of scoring failures",
		},
	)

	// Store metrics
	StoreSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "riskstream_store_events",
			Help: "Current number of events held in the bounded store",
		},
	)

	StoreEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskstream_store_evictions_total",
			Help: "Total number of events evicted at capacity",
		},
	)

	// Broadcast metrics
	Subscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "riskstream_broadcast_subscribers",
			Help: "Current number of connected stream subscribers",
		},
	)

	MessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskstream_broadcast_messages_total",
			Help: "Total number of messages published to the broadcast hub",
		},
	)

	MessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskstream_broadcast_dropped_total",
			Help: "Total number of messages dropped from full subscriber queues",
		},
	)

	// Simulator metrics
	SimulatedTransactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskstream_simulator_transactions_total",
			Help: "Total number of transactions emitted by the simulator",
		},
	)

	// Verification intake metrics
	VerificationEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskstream_verification_events_total",
			Help: "Total number of verification events consumed from the bus",
		},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskstream_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"key"},
	)
)
