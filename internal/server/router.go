package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskstream/riskstream/internal/handlers"
	"github.com/riskstream/riskstream/pkg/middleware"
)

// NewRouter constructs a ServeMux with the risk API routes registered,
// wrapped in request-ID and CORS middleware.
func NewRouter(tx *handlers.TransactionHandler, stream *handlers.StreamHandler, logs *handlers.LogsHandler, cors middleware.CORSConfig) http.Handler {
	mux := http.NewServeMux()

	// Transaction scoring API
	mux.HandleFunc("/api/v1/transactions", tx.HandleTransactions)
	mux.HandleFunc("/api/v1/transactions/", tx.HandleTransactionByID)
	mux.HandleFunc("/api/v1/simulate", tx.HandleSimulate)

	// Live event stream
	mux.HandleFunc("/api/v1/stream", stream.HandleStream)

	// Unified logs and analytics
	mux.HandleFunc("/api/v1/logs", logs.HandleLogs)
	mux.HandleFunc("/api/v1/logs/analytics", logs.HandleAnalytics)

	// Health endpoints
	mux.HandleFunc("/healthz", tx.Health)
	mux.HandleFunc("/readyz", tx.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(middleware.CORS(cors)(mux))
}
