// Package httpx holds the JSON response helpers shared by every service's
// HTTP layer, plus the mapping from the apperr taxonomy to status codes.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"ecommerce-platform/internal/pkg/apperr"
)

// ErrorResponse is the error payload shape for every REST surface.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a bare code/message error payload.
func WriteError(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

// StatusOf maps an apperr kind to its HTTP status code.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindUnauthorized:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindDependencyUnavailable:
		return http.StatusBadGateway
	case apperr.KindPaymentDeclined:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps err onto the wire. Internal error detail is suppressed
// when APP_ENV=production so stack context never leaks to callers.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	kind := apperr.KindOf(err)

	resp := ErrorResponse{Error: string(kind), Message: err.Error()}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		resp.Details = ae.Fields
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		if os.Getenv("APP_ENV") == "production" {
			resp.Message = ""
		}
	}

	WriteJSON(w, status, resp)
}
