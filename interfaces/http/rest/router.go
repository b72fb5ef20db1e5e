// Package rest wires the HTTP surface: routes, middleware order, and the
// Prometheus scrape endpoint.
package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"telemetry-backend/interfaces/http/rest/handlers"
	"telemetry-backend/interfaces/http/rest/middleware"
)

// Dependencies carries everything the router needs.
type Dependencies struct {
	Logger    *zap.Logger
	Collector *middleware.Collector
	Users     *handlers.UserHandler
	Orders    *handlers.OrderHandler
	Health    *handlers.HealthHandler
	RootSpan  func(http.Handler) http.Handler
}

// NewRouter builds the chi router. Middleware order matters: the logger must
// be in the context before the root span binds correlation identifiers into
// it, and recovery must sit inside the span so panics still close it.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(allowOptions)
	r.Use(middleware.ContextLogger(deps.Logger))
	r.Use(deps.RootSpan)
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics(deps.Collector))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.Health.Health)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", deps.Users.ListUsers)
			r.Post("/", deps.Users.CreateUser)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", deps.Orders.CreateOrder)
			r.Get("/customer/{customerID}", deps.Orders.ListByCustomer)
			r.Post("/{orderID}/process", deps.Orders.ProcessOrder)
			r.Post("/{orderID}/cancel", deps.Orders.CancelOrder)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(
		deps.Collector.Registry(),
		promhttp.HandlerOpts{},
	))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorEnvelope(w, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorEnvelope(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// allowOptions answers every OPTIONS request with an empty success response.
// The CORS handler only intercepts preflights carrying
// Access-Control-Request-Method; a bare OPTIONS must not fall through to the
// 405 handler.
func allowOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeErrorEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   false,
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
