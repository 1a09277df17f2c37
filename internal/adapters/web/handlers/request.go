// Package handlers implements the inbound HTTP routes for the central
// controller and keypad controller surfaces.
package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
)

// decodeJSON enforces the request discipline shared by every body-carrying
// route: JSON content type, parseable body, no unknown fields. It writes the
// 400 response itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || contentType != "application/json" {
		writePlain(w, http.StatusBadRequest, "Expected JSON content type")
		return false
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writePlain(w, http.StatusBadRequest, "Malformed JSON body")
		return false
	}
	return true
}

func writePlain(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
