package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskstream/riskstream/internal/handlers"
	"github.com/riskstream/riskstream/internal/hub"
	"github.com/riskstream/riskstream/internal/logs"
	"github.com/riskstream/riskstream/internal/scoring"
	"github.com/riskstream/riskstream/internal/service"
	"github.com/riskstream/riskstream/internal/store"
	"github.com/riskstream/riskstream/internal/verification"
	"github.com/riskstream/riskstream/pkg/logging"
	"github.com/riskstream/riskstream/pkg/middleware"
)

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(ctx context.Context, key string) (bool, error) { return true, nil }
func (allowAllLimiter) Close() error                                        { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	engine := scoring.NewEngine("testdata/fraud_model.json")
	eventStore := store.New(100)
	broadcastHub := hub.New(8)
	verificationStore := verification.NewStore(100)
	logger := logging.New(slog.LevelError, "json")

	svc := service.NewRiskService(engine, eventStore, broadcastHub, nil, logger)
	tx := handlers.NewTransactionHandler(svc, allowAllLimiter{}, logger)
	stream := handlers.NewStreamHandler(broadcastHub, logger)
	lg := handlers.NewLogsHandler(
		logs.NewMerger(eventStore, verificationStore),
		logs.NewAggregator(eventStore, verificationStore),
	)

	return NewRouter(tx, stream, lg, middleware.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"submit transaction", http.MethodPost, "/api/v1/transactions",
			`{"user_id":"user_0001","features":{"amount":1000,"user_age_days":5,"device_trust_score":0.1,"velocity_1h":10,"distance_from_home":800}}`,
			http.StatusOK},
		{"list transactions", http.MethodGet, "/api/v1/transactions", "", http.StatusOK},
		{"delete transaction", http.MethodDelete, "/api/v1/transactions/TXN-deadbeef", "", http.StatusOK},
		{"simulate", http.MethodPost, "/api/v1/simulate",
			`{"amount":50,"user_age_days":1000,"device_trust_score":0.9,"velocity_1h":1,"distance_from_home":10}`,
			http.StatusOK},
		{"logs", http.MethodGet, "/api/v1/logs", "", http.StatusOK},
		{"analytics", http.MethodGet, "/api/v1/logs/analytics", "", http.StatusOK},
		{"health", http.MethodGet, "/healthz", "", http.StatusOK},
		{"ready", http.MethodGet, "/readyz", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"unknown path", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_EndToEndSubmitThenList(t *testing.T) {
	router := newTestRouter(t)

	body := `{"user_id":"user_0042","features":{"amount":1000,"user_age_days":5,"device_trust_score":0.1,"velocity_1h":10,"distance_from_home":800}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var event struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Transactions []struct {
			ID string `json:"id"`
		} `json:"transactions"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, event.ID, page.Transactions[0].ID)
}
