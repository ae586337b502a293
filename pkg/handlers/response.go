// Package handlers contains the HTTP boundary: request parsing, error
// mapping, and JSON envelopes around the pipeline services.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
)

// ApiResponse wraps data in the format expected by the frontend.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

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

// MapError translates domain errors to an HTTP status and error code.
func MapError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrPreconditionNotMet):
		return http.StatusUnprocessableEntity, "precondition_not_met"
	case errors.Is(err, apperrors.ErrEmptyScript):
		return http.StatusBadRequest, "empty_script"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "conflict"
	case llm.IsUnavailable(err):
		return http.StatusServiceUnavailable, "generation_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
