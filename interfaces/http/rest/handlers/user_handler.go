package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"telemetry-backend/internal/domain"
	"telemetry-backend/internal/logging"
	"telemetry-backend/internal/service"
	"telemetry-backend/internal/telemetry"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	users  *service.UserService
	tracer *telemetry.Tracer
}

// NewUserHandler creates a user handler.
func NewUserHandler(users *service.UserService, tracer *telemetry.Tracer) *UserHandler {
	return &UserHandler{users: users, tracer: tracer}
}

// CreateUserRequest is the body for POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
}

// ListUsers handles GET /api/users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetActiveUsers(r.Context())
	if err != nil {
		respondServiceError(r, w, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    users,
		"count":   len(users),
	})
	logging.FromContext(r.Context()).Info("retrieved active users", zap.Int("count", len(users)))
}

// CreateUser handles POST /api/users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := telemetry.InSpanValue(r.Context(), h.tracer, "user.create",
		func(ctx context.Context) (*domain.User, error) {
			telemetry.AddBusinessContext(ctx, "user", req.Username, "create")
			return h.users.CreateUser(ctx, req.Username, req.Email)
		})
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    user,
		"message": "User created successfully",
	})
	logging.FromContext(r.Context()).Info("created user",
		zap.String("username", user.Username),
		zap.String(logging.FieldUserID, user.ID))
}
