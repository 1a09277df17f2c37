package handlers

import (
	"net/http"

	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/core/ports"
)

// LogsHandler serves a service's console log ring. Both the central
// controller and the keypad expose the same route over their own ring.
type LogsHandler struct {
	ring ports.LogRing
}

func NewLogsHandler(ring ports.LogRing) *LogsHandler {
	return &LogsHandler{ring: ring}
}

type retrieveLogsRequest struct {
	StartTimestamp *float64 `json:"startTimestamp"`
}

type retrieveLogsResponse struct {
	LastTimestamp float64           `json:"lastTimestamp"`
	Entries       []domain.LogEntry `json:"entries"`
}

// HandleRetrieveConsoleLogs returns at most 50 entries newer than the
// caller's cursor, oldest first.
func (h *LogsHandler) HandleRetrieveConsoleLogs(w http.ResponseWriter, r *http.Request) {
	var req retrieveLogsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.StartTimestamp == nil || *req.StartTimestamp < 0 {
		writePlain(w, http.StatusBadRequest, "startTimestamp must be a number >= 0")
		return
	}

	lastTimestamp, entries := h.ring.EntriesSince(*req.StartTimestamp)
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	writeJSON(w, http.StatusOK, retrieveLogsResponse{
		LastTimestamp: lastTimestamp,
		Entries:       entries,
	})
}
