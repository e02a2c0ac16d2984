// Package httpserver contains HTTP handlers and middleware.
//
// Handlers own the user-facing message strings; the error taxonomy in the
// domain package only decides the status code. Every failure is caught at the
// handler boundary and returned as a flat {error, details?} body.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jobdeck/jobdeck/internal/domain"
)

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// statusFor maps taxonomy sentinels to HTTP statuses. Parse failures are 500
// like any other upstream fault; they differ only in message.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
