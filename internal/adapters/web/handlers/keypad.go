package handlers

import (
	"log/slog"
	"net/http"
)

// PanelController is the keypad-side surface the inbound routes drive. The
// panel state machine adopts the requested panel on its next tick.
type PanelController interface {
	// CentralPingReceived clears the comms-lost panel if it is showing.
	CentralPingReceived()
	// Lock shows the locked panel until the absolute unlock time (seconds
	// since epoch).
	Lock(lockTime int64)
}

// KeypadHandler serves the keypad controller's inbound routes.
type KeypadHandler struct {
	panel PanelController
	log   *slog.Logger
}

func NewKeypadHandler(panel PanelController, log *slog.Logger) *KeypadHandler {
	return &KeypadHandler{panel: panel, log: log}
}

// HandleCentralPing is the central controller's alive ping. It always
// succeeds, whether or not the keypad considered communications lost.
func (h *KeypadHandler) HandleCentralPing(w http.ResponseWriter, r *http.Request) {
	h.log.Debug("received alive ping from central controller")
	h.panel.CentralPingReceived()
	writePlain(w, http.StatusOK, "Ok")
}

type keypadLockRequest struct {
	LockTime *int64 `json:"lockTime"`
}

// HandleKeypadLock locks the keypad until the given wall-clock time.
func (h *KeypadHandler) HandleKeypadLock(w http.ResponseWriter, r *http.Request) {
	var req keypadLockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.LockTime == nil || *req.LockTime < 0 {
		writePlain(w, http.StatusBadRequest, "lockTime must be an integer >= 0")
		return
	}

	h.log.Info("keypad locked by central controller", "lockTime", *req.LockTime)
	h.panel.Lock(*req.LockTime)
	writePlain(w, http.StatusOK, "Ok")
}

// HandleHealthStatus reports liveness.
func (h *KeypadHandler) HandleHealthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"health": "normal"})
}
