package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/farmbook-io/farmbook-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteServiceError maps engine errors to HTTP responses. Sentinel
// errors get their dedicated status; anything else is an internal
// error with a generic message (details stay in the logs).
func WriteServiceError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return ErrorResponse(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperrors.ErrInvalidWindow):
		return ErrorResponse(w, http.StatusBadRequest, "invalid_window", err.Error())
	case errors.Is(err, apperrors.ErrEmptyBatch):
		return ErrorResponse(w, http.StatusBadRequest, "empty_batch", err.Error())
	case errors.Is(err, apperrors.ErrUnknownTag):
		return ErrorResponse(w, http.StatusBadRequest, "unknown_tag", err.Error())
	default:
		return ErrorResponse(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
