// Package handlers implements the HTTP endpoints. Handlers decode and
// validate input, delegate to the services, and serialize the response
// envelope; every response is built in memory and written once.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "telemetry-backend/internal/errors"
	"telemetry-backend/internal/logging"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError writes the error envelope. Only the human-readable message
// crosses the boundary; error types never leak to clients.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"success":   false,
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}

// respondServiceError maps a service failure to its HTTP status class and
// logs server-side failures with full detail.
func respondServiceError(r *http.Request, w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("error", err.Error()))
	}
	respondError(w, status, apperrors.Message(err))
}

// decodeAndValidate decodes the JSON body into dst and applies struct
// validation, answering 400 itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}
