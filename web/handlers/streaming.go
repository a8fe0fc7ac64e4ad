package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pvlkh/rostrum/internal/engine"
)

// StreamEvent represents a server-sent event.
type StreamEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// handleDebateStream runs a debate and streams each step as a server-sent
// event as it completes. The three steps are strictly sequential, so the
// stream doubles as the busy indicator: the connection stays open for the
// duration of each blocking call.
func (h *Handler) handleDebateStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "topic is required")
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		slog.Error("Streaming unsupported: ResponseWriter does not implement http.Flusher")
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	slog.Debug("Debate stream started", "session", sess.ID, "topic", topic)

	result, err := h.engine.RunDebate(r.Context(), sess, topic, func(step engine.DebateStep) {
		h.sendSSEEvent(w, flusher, "step_complete", step)
	})
	if err != nil {
		h.sendSSEError(w, flusher, err.Error())
		return
	}

	if result.Err != nil {
		h.sendSSEEvent(w, flusher, "step_failed", map[string]any{
			"role":  result.FailedRole,
			"error": result.Err.Error(),
		})
		return
	}

	h.sendSSEEvent(w, flusher, "debate_complete", map[string]any{
		"topic": result.Topic,
		"steps": len(result.Steps),
	})
}

// sendSSEEvent writes a single server-sent event.
func (h *Handler) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	event := StreamEvent{Type: eventType, Data: data}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal SSE event", "type", eventType, "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}

// sendSSEError writes an error event.
func (h *Handler) sendSSEError(w http.ResponseWriter, flusher http.Flusher, message string) {
	h.sendSSEEvent(w, flusher, "error", map[string]string{"error": message})
}
