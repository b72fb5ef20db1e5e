package handlers

import (
	"net/http"
	"time"

	"telemetry-backend/internal/telemetry"
)

// HealthHandler answers liveness checks.
type HealthHandler struct {
	serviceName string
	metrics     *telemetry.Registry
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(serviceName string, metrics *telemetry.Registry) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, metrics: metrics}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.metrics.Increment(r.Context(), telemetry.HealthChecksTotal)
	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   h.serviceName,
	})
}
