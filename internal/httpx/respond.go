// Package httpx holds the response helpers shared by all HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"restaurant-backend/internal/apperr"
)

// JSON writes v as a JSON response with the given status code
func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// Error writes an error response in the standard shape
func Error(w http.ResponseWriter, statusCode int, message, requestID string) {
	JSON(w, statusCode, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

// ErrorFrom maps a service error onto an HTTP status and writes it
func ErrorFrom(w http.ResponseWriter, err error, requestID string) {
	switch {
	case apperr.IsValidation(err):
		Error(w, http.StatusBadRequest, err.Error(), requestID)
	case apperr.IsNotFound(err):
		Error(w, http.StatusNotFound, err.Error(), requestID)
	case apperr.IsInsufficientStock(err):
		Error(w, http.StatusConflict, err.Error(), requestID)
	case errors.Is(err, apperr.ErrAlreadyBooked):
		Error(w, http.StatusConflict, err.Error(), requestID)
	case apperr.IsRole(err):
		Error(w, http.StatusForbidden, err.Error(), requestID)
	default:
		Error(w, http.StatusInternalServerError, "Internal server error", requestID)
	}
}

// Decode parses a JSON request body, rejecting unknown fields
func Decode(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return apperr.Validation("invalid JSON body: %s", err.Error())
	}
	return nil
}
