package handlers

import (
	"log/slog"
	"net/http"

	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/core/ports"
)

// CentralHandler serves the central controller's inbound routes. Requests
// only queue events; all alarm logic runs later on the worker goroutine.
type CentralHandler struct {
	queue ports.EventQueue
	log   *slog.Logger
}

func NewCentralHandler(queue ports.EventQueue, log *slog.Logger) *CentralHandler {
	return &CentralHandler{queue: queue, log: log}
}

type receiveKeyCodeRequest struct {
	KeySequence *string `json:"keySequence"`
}

// HandleReceiveKeyCode accepts a digit sequence entered on the keypad.
func (h *CentralHandler) HandleReceiveKeyCode(w http.ResponseWriter, r *http.Request) {
	var req receiveKeyCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.KeySequence == nil || *req.KeySequence == "" {
		writePlain(w, http.StatusBadRequest, "keySequence must be a non-empty string")
		return
	}

	if err := h.queue.Queue(domain.NewEvent(domain.EventKeypadKeyCodeEntered,
		domain.KeyCodeEnteredBody{KeySequence: *req.KeySequence})); err != nil {
		h.log.Error("failed to queue key code event", "error", err)
		writePlain(w, http.StatusServiceUnavailable, "Controller is shutting down")
		return
	}
	writePlain(w, http.StatusOK, "Ok")
}

// HandlePleaseRespond is sent by a keypad in its comms-lost panel; it queues
// an alive ping back towards the keypad.
func (h *CentralHandler) HandlePleaseRespond(w http.ResponseWriter, r *http.Request) {
	h.log.Info("keypad requested a response ping")
	if err := h.queue.Queue(domain.NewEvent(domain.EventKeypadAPISendAlivePing, nil)); err != nil {
		h.log.Error("failed to queue alive ping event", "error", err)
		writePlain(w, http.StatusServiceUnavailable, "Controller is shutting down")
		return
	}
	writePlain(w, http.StatusOK, "Ok")
}

// HandleHealthStatus reports liveness.
func (h *CentralHandler) HandleHealthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"health": "normal"})
}
