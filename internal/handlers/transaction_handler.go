package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/riskstream/riskstream/internal/models"
	"github.com/riskstream/riskstream/internal/ratelimit"
	"github.com/riskstream/riskstream/internal/scoring"
	"github.com/riskstream/riskstream/internal/service"
	"github.com/riskstream/riskstream/pkg/httputil"
	"github.com/riskstream/riskstream/pkg/logging"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 100
)

type transactionRequest struct {
	UserID   string               `json:"user_id"`
	Features models.FeatureVector `json:"features"`
}

type transactionPage struct {
	Transactions []*models.RiskEvent `json:"transactions"`
	Total        int                 `json:"total"`
	Skip         int                 `json:"skip"`
	Limit        int                 `json:"limit"`
}

type TransactionHandler struct {
	service *service.RiskService
	limiter ratelimit.RateLimiter
	logger  *logging.Logger
}

func NewTransactionHandler(svc *service.RiskService, limiter ratelimit.RateLimiter, logger *logging.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: svc,
		limiter: limiter,
		logger:  logger,
	}
}

// HandleTransactions serves the transaction collection: POST scores and
// stores a new transaction, GET returns a page of recent ones.
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// HandleTransactionByID serves DELETE /api/v1/transactions/{id}.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/transactions/")
	if id == "" || strings.Contains(id, "/") {
		httputil.WriteError(w, http.StatusNotFound, "not found")
		return
	}

	h.service.Delete(r.Context(), id)

	// Deletion is idempotent: removing an id that has already been
	// evicted or deleted still succeeds.
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// HandleSimulate scores a transaction without storing or broadcasting it.
func (h *TransactionHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.allow(w, r) {
		return
	}

	var features models.FeatureVector
	if !h.decodeBody(w, r, &features) {
		return
	}

	result, err := h.service.Simulate(features)
	if err != nil {
		h.writeScoringError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *TransactionHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (h *TransactionHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.service.Ready() {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not ready",
			"reason": scoring.ErrModelUnavailable.Error(),
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"stats":  h.service.GetStats(),
	})
}

func (h *TransactionHandler) submit(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	event, err := h.service.ProcessTransaction(r.Context(), req.UserID, req.Features)
	if err != nil {
		h.writeScoringError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, event)
}

func (h *TransactionHandler) list(w http.ResponseWriter, r *http.Request) {
	paging := httputil.ParsePaging(r, defaultPageLimit, maxPageLimit)
	events, total := h.service.List(paging.Skip, paging.Limit)

	httputil.WriteJSON(w, http.StatusOK, transactionPage{
		Transactions: events,
		Total:        total,
		Skip:         paging.Skip,
		Limit:        paging.Limit,
	})
}

func (h *TransactionHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*transactionRequest, bool) {
	var req transactionRequest
	if !h.decodeBody(w, r, &req) {
		return nil, false
	}
	return &req, true
}

func (h *TransactionHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if len(body) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "empty request body")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func (h *TransactionHandler) writeScoringError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, scoring.ErrModelUnavailable) {
		httputil.WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	httputil.WriteError(w, http.StatusBadRequest, err.Error())
}

// allow applies the per-IP rate limit. Limiter failures fail open so a
// Redis outage cannot take scoring down with it.
func (h *TransactionHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	key := httputil.GetClientIP(r)
	allowed, err := h.limiter.Allow(r.Context(), key)
	if err != nil {
		h.logger.WarnContext(r.Context(), "rate limiter check failed", logging.Error(err), logging.IP(key))
		return true
	}
	if !allowed {
		httputil.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return false
	}
	return true
}
