package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/secure-shed/shedctl/internal/adapters/web/handlers"
	"github.com/secure-shed/shedctl/internal/adapters/web/middleware"
	"github.com/secure-shed/shedctl/internal/adapters/web/stream"
)

// CentralRoutes builds the central controller's router. Every route sits
// behind the shared-key auth middleware.
func CentralRoutes(authKey string, central *handlers.CentralHandler,
	logs *handlers.LogsHandler, streamMgr *stream.Manager) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.KeyAuth(authKey))

	r.HandleFunc("/receiveKeyCode", central.HandleReceiveKeyCode).Methods(http.MethodPost)
	r.HandleFunc("/pleaseRespondToKeypad", central.HandlePleaseRespond).Methods(http.MethodPost)
	r.HandleFunc("/retrieveConsoleLogs", logs.HandleRetrieveConsoleLogs).Methods(http.MethodPost)
	r.HandleFunc("/_health_status", central.HandleHealthStatus).Methods(http.MethodGet)

	if streamMgr != nil {
		r.HandleFunc("/consoleLogStream", streamMgr.HandleWebSocket).Methods(http.MethodGet)
	}
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// KeypadRoutes builds the keypad controller's router.
func KeypadRoutes(authKey string, keypad *handlers.KeypadHandler,
	logs *handlers.LogsHandler, streamMgr *stream.Manager) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.KeyAuth(authKey))

	r.HandleFunc("/receiveCentralControllerPing", keypad.HandleCentralPing).Methods(http.MethodPost)
	r.HandleFunc("/receiveKeypadLock", keypad.HandleKeypadLock).Methods(http.MethodPost)
	r.HandleFunc("/retrieveConsoleLogs", logs.HandleRetrieveConsoleLogs).Methods(http.MethodPost)
	r.HandleFunc("/_healthStatus", keypad.HandleHealthStatus).Methods(http.MethodGet)

	if streamMgr != nil {
		r.HandleFunc("/consoleLogStream", streamMgr.HandleWebSocket).Methods(http.MethodGet)
	}
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
