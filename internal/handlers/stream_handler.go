package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/riskstream/riskstream/internal/hub"
	"github.com/riskstream/riskstream/pkg/httputil"
	"github.com/riskstream/riskstream/pkg/logging"
)

// heartbeatInterval is how often an SSE comment line is emitted to keep
// idle connections from being reaped by intermediaries.
const heartbeatInterval = 15 * time.Second

type StreamHandler struct {
	hub    *hub.Hub
	logger *logging.Logger
}

func NewStreamHandler(broadcastHub *hub.Hub, logger *logging.Logger) *StreamHandler {
	return &StreamHandler{
		hub:    broadcastHub,
		logger: logger,
	}
}

// HandleStream serves GET /api/v1/transactions/stream as Server-Sent
// Events. Subscribers receive only events published after they connect;
// no history is replayed.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub := h.hub.Connect()
	defer h.hub.Disconnect(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.InfoContext(r.Context(), "stream subscriber connected", logging.SubscriberID(sub.ID()))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logDisconnect(r, sub)
			return
		case <-sub.Done():
			h.logDisconnect(r, sub)
			return
		case data := <-sub.Out():
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				h.logDisconnect(r, sub)
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				h.logDisconnect(r, sub)
				return
			}
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) logDisconnect(r *http.Request, sub *hub.Subscriber) {
	h.logger.InfoContext(r.Context(), "stream subscriber disconnected",
		logging.SubscriberID(sub.ID()),
		logging.Dropped(sub.Dropped()),
	)
}
