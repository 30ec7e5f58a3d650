// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/medicare/medicare-api/internal/handler/dto"
	"github.com/medicare/medicare-api/internal/middleware"
	"github.com/medicare/medicare-api/internal/query"
	"github.com/medicare/medicare-api/internal/service"
)

// Response messages shared by several handlers.
const (
	msgInvalidBody      = "Invalid request body"
	msgBodyTooLarge     = "Request body too large"
	msgMedicineNotFound = "Medicine not found"
	msgUserExists       = "User already exists"
	msgInvalidCreds     = "Invalid credentials"
)

// NotFound handles 404 responses for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.Fail("Route not found"))
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.Fail("Method not allowed"))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a failure envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Fail(message))
}

// decodeJSON decodes the request body into v and writes a 400 (or 413) on failure.
// The body must hold exactly one JSON value.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeBodyError(w, err)
		return false
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func writeBodyError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return
	}
	writeError(w, http.StatusBadRequest, msgInvalidBody)
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, query.ErrInvalidParam):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMedicineNotFound):
		writeError(w, http.StatusNotFound, msgMedicineNotFound)
	case errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusBadRequest, msgUserExists)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, msgInvalidCreds)
	default:
		logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
			"path", r.URL.Path,
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
