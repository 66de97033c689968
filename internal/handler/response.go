package handler

// Response helpers shared by every handler: one JSON shape for successes,
// one for errors. The error mapping is the single place where the domain
// taxonomy (apperror sentinels) turns into HTTP status codes — services
// never see a status code, handlers never invent an error kind.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/jibi/internal/apperror"
)

// ErrorResponse is the standard error body for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable kind, e.g. "duplicate_username"
	Message string `json:"message"`         // human-readable, surfaced to the user
	Field   string `json:"field,omitempty"` // offending input field, when known
}

// writeJSON sends a JSON response. Headers and status must be set before
// the first body write; this helper keeps the order right everywhere.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error onto HTTP.
//
// Every sentinel in the taxonomy gets a distinct machine-readable kind, so
// no expected failure is ever swallowed into a generic 500:
//
//	ErrValidation       → 400 validation_error
//	ErrInvalidImage     → 400 invalid_image
//	ErrAuthFailed       → 401 auth_failed
//	ErrNotAuthenticated → 401 not_authenticated
//	ErrNotFound         → 404 not_found
//	ErrDuplicateUsername→ 409 duplicate_username
//	ErrPasswordMismatch → 400 password_mismatch
//
// Anything else (storage down, I/O failure) is an unexpected condition:
// a generic 500 with no internal detail leaked to the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		kind := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status, kind = http.StatusBadRequest, "validation_error"
		case errors.Is(err, apperror.ErrPasswordMismatch):
			status, kind = http.StatusBadRequest, "password_mismatch"
		case errors.Is(err, apperror.ErrInvalidImage):
			status, kind = http.StatusBadRequest, "invalid_image"
		case errors.Is(err, apperror.ErrAuthFailed):
			status, kind = http.StatusUnauthorized, "auth_failed"
		case errors.Is(err, apperror.ErrNotAuthenticated):
			status, kind = http.StatusUnauthorized, "not_authenticated"
		case errors.Is(err, apperror.ErrNotFound):
			status, kind = http.StatusNotFound, "not_found"
		case errors.Is(err, apperror.ErrDuplicateUsername):
			status, kind = http.StatusConflict, "duplicate_username"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   kind,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
