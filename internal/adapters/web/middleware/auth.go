// Package middleware holds the HTTP middleware shared by the central
// controller and keypad surfaces.
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AuthHeaderName is the shared-secret header every protected route requires.
const AuthHeaderName = "authorisationKey"

// KeyAuth rejects requests without the configured authorisation key. A
// missing header is 401, a mismatched one is 403; both bodies are plain text.
func KeyAuth(authKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AuthHeaderName)
			if provided == "" {
				plainTextError(w, http.StatusUnauthorized, "Authorisation key is missing")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(authKey)) != 1 {
				plainTextError(w, http.StatusForbidden, "Authorisation key is invalid")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func plainTextError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}
