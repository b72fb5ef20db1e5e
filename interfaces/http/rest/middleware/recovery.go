package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"telemetry-backend/internal/logging"
)

// Recovery converts handler panics into the standard 500 error envelope so
// every response is built and written exactly once.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logging.FromContext(r.Context()).Error("panic recovered",
						zap.String("path", r.URL.Path),
						zap.Any("panic", rec))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success":   false,
						"error":     fmt.Sprintf("Internal server error: %v", rec),
						"timestamp": time.Now().UTC(),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
