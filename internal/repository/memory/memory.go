// Package memory provides map-backed repository implementations used in
// development and tests. They mirror the MySQL implementations' contract:
// missing lookups return (nil, nil), missing updates return NotFound.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"telemetry-backend/internal/domain"
	apperrors "telemetry-backend/internal/errors"
)

// UserRepository is an in-memory user store.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserRepository creates an empty in-memory user store.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

// Save inserts or replaces the user.
func (r *UserRepository) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

// FindByID returns the user or (nil, nil) when absent.
func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

// FindActiveUsers returns all ACTIVE users, newest first.
func (r *UserRepository) FindActiveUsers(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []*domain.User
	for _, user := range r.users {
		if user.Status == domain.UserStatusActive {
			clone := *user
			active = append(active, &clone)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active, nil
}

// OrderRepository is an in-memory order store.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

// NewOrderRepository creates an empty in-memory order store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*domain.Order)}
}

// Save inserts or replaces the order.
func (r *OrderRepository) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

// FindByID returns the order or (nil, nil) when absent.
func (r *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	clone := *order
	return &clone, nil
}

// FindByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) FindByCustomer(_ context.Context, customerID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []*domain.Order
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			clone := *order
			found = append(found, &clone)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].CreatedAt.After(found[j].CreatedAt)
	})
	return found, nil
}

// UpdateStatus writes a status transition for an existing order.
func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return apperrors.NotFound("order not found: %s", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return nil
}
