// Package service holds the entity state machines. Operations validate
// eagerly, persist through the repository collaborator, and emit metrics
// only after persistence succeeds, so counters never over-report relative to
// stored state.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telemetry-backend/internal/domain"
	apperrors "telemetry-backend/internal/errors"
	"telemetry-backend/internal/logging"
	"telemetry-backend/internal/repository"
	"telemetry-backend/internal/telemetry"
)

// UserService handles user creation, validation, and management.
type UserService struct {
	repo    repository.UserRepository
	metrics *telemetry.Registry
	tracer  *telemetry.Tracer
}

// NewUserService constructs a UserService.
func NewUserService(repo repository.UserRepository, metrics *telemetry.Registry, tracer *telemetry.Tracer) *UserService {
	return &UserService{repo: repo, metrics: metrics, tracer: tracer}
}

// CreateUser validates the input, persists a new ACTIVE user, and counts the
// creation. Usernames are trimmed; emails are trimmed and lowercased.
func (s *UserService) CreateUser(ctx context.Context, username, email string) (*domain.User, error) {
	start := time.Now()
	return telemetry.InSpanValue(ctx, s.tracer, "user.service.create", func(ctx context.Context) (*domain.User, error) {
		log := logging.FromContext(ctx).Named("service.user")
		log.Info("creating user", zap.String("username", username))
		telemetry.AddBusinessContext(ctx, "user", username, "create")

		if err := s.tracer.InSpan(ctx, "user.validation", func(context.Context) error {
			if strings.TrimSpace(username) == "" {
				return apperrors.Validation("username cannot be empty")
			}
			if strings.TrimSpace(email) == "" {
				return apperrors.Validation("email cannot be empty")
			}
			return nil
		}); err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		user := &domain.User{
			ID:        "user-" + uuid.NewString(),
			Username:  strings.TrimSpace(username),
			Email:     strings.ToLower(strings.TrimSpace(email)),
			Status:    domain.UserStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx = logging.WithFields(ctx, zap.String(logging.FieldUserID, user.ID))
		if err := s.tracer.InSpan(ctx, "user.repository.save", func(ctx context.Context) error {
			return s.repo.Save(ctx, user)
		}); err != nil {
			return nil, err
		}

		s.metrics.Increment(ctx, telemetry.UserCreatedTotal)
		s.metrics.RecordDuration(ctx, telemetry.UserOperationDuration,
			float64(time.Since(start).Milliseconds()), "createUser")
		telemetry.RecordBusinessEvent(ctx, "user.created", "user", user.ID)

		log.Info("user created successfully",
			zap.String("username", user.Username),
			zap.String(logging.FieldUserID, user.ID))
		return user, nil
	})
}

// GetUserByID looks up one user; a missing user returns nil without error.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.Validation("user ID cannot be empty")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		s.metrics.Increment(ctx, telemetry.UserFoundTotal)
	}
	return user, nil
}

// GetActiveUsers lists all users in ACTIVE status.
func (s *UserService) GetActiveUsers(ctx context.Context) ([]*domain.User, error) {
	log := logging.FromContext(ctx).Named("service.user")
	log.Debug("getting all active users")

	users, err := s.repo.FindActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.Increment(ctx, telemetry.UserFoundTotal)

	log.Debug("found active users", zap.Int("count", len(users)))
	return users, nil
}

// UpdateUserEmail replaces the user's email, normalized to lower case.
func (s *UserService) UpdateUserEmail(ctx context.Context, userID, newEmail string) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.Validation("user ID cannot be empty")
	}
	if strings.TrimSpace(newEmail) == "" {
		return nil, apperrors.Validation("email cannot be empty")
	}

	ctx = logging.WithFields(ctx, zap.String(logging.FieldUserID, userID))
	log := logging.FromContext(ctx).Named("service.user")
	log.Info("updating email for user")

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found: %s", userID)
	}

	user.Email = strings.ToLower(strings.TrimSpace(newEmail))
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.metrics.Increment(ctx, telemetry.UserUpdatedTotal)

	log.Info("email updated for user", zap.String("username", user.Username))
	return user, nil
}
