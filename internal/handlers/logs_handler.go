package handlers

import (
	"net/http"

	"github.com/riskstream/riskstream/internal/logs"
	"github.com/riskstream/riskstream/pkg/httputil"
)

type logsPage struct {
	Logs  []logs.Entry `json:"logs"`
	Total int          `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

type LogsHandler struct {
	merger     *logs.Merger
	aggregator *logs.Aggregator
}

func NewLogsHandler(merger *logs.Merger, aggregator *logs.Aggregator) *LogsHandler {
	return &LogsHandler{
		merger:     merger,
		aggregator: aggregator,
	}
}

// HandleLogs serves GET /api/v1/logs: fraud-flagged transactions merged
// with verification outcomes, newest first.
func (h *LogsHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	paging := httputil.ParsePaging(r, defaultPageLimit, maxPageLimit)
	entries, total := h.merger.Page(paging.Skip, paging.Limit)

	httputil.WriteJSON(w, http.StatusOK, logsPage{
		Logs:  entries,
		Total: total,
		Skip:  paging.Skip,
		Limit: paging.Limit,
	})
}

// HandleAnalytics serves GET /api/v1/logs/analytics.
func (h *LogsHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.aggregator.Aggregate())
}
