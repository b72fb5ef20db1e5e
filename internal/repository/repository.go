// Package repository defines the persistence boundary for users and orders.
// Implementations are collaborators: the service layer treats them as opaque
// CRUD stores keyed by string identifiers.
package repository

import (
	"context"

	"telemetry-backend/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	// Save inserts the user or updates email/status/updatedAt for an
	// existing identifier.
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindActiveUsers(ctx context.Context) ([]*domain.User, error)
}

// OrderRepository persists orders.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	// UpdateStatus writes a single status transition. Updating a
	// nonexistent order is a NotFound error.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}
