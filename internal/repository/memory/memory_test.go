package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telemetry-backend/internal/domain"
	apperrors "telemetry-backend/internal/errors"
)

func TestUserRepositoryMissReturnsNilNil(t *testing.T) {
	repo := NewUserRepository()

	user, err := repo.FindByID(context.Background(), "user-missing")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepositoryReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	original := &domain.User{ID: "user-1", Username: "alice", Status: domain.UserStatusActive}
	require.NoError(t, repo.Save(ctx, original))

	found, err := repo.FindByID(ctx, "user-1")
	require.NoError(t, err)
	found.Username = "mutated"

	again, err := repo.FindByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username, "callers must not mutate stored state through returned pointers")
}

func TestFindActiveUsersNewestFirst(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, repo.Save(ctx, &domain.User{ID: "user-old", Status: domain.UserStatusActive, CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, repo.Save(ctx, &domain.User{ID: "user-new", Status: domain.UserStatusActive, CreatedAt: base}))
	require.NoError(t, repo.Save(ctx, &domain.User{ID: "user-gone", Status: domain.UserStatusDeleted, CreatedAt: base}))

	active, err := repo.FindActiveUsers(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "user-new", active[0].ID)
	assert.Equal(t, "user-old", active[1].ID)
}

func TestOrderUpdateStatusMissingIsNotFound(t *testing.T) {
	repo := NewOrderRepository()

	err := repo.UpdateStatus(context.Background(), "order-missing", domain.OrderStatusProcessing)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestOrderUpdateStatusTouchesUpdatedAt(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()
	created := time.Now().UTC().Add(-time.Minute)

	require.NoError(t, repo.Save(ctx, &domain.Order{ID: "order-1", Status: domain.OrderStatusCreated, UpdatedAt: created}))
	require.NoError(t, repo.UpdateStatus(ctx, "order-1", domain.OrderStatusProcessing))

	order, err := repo.FindByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	assert.True(t, order.UpdatedAt.After(created))
}

func TestFindByCustomerFilters(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Order{ID: "order-1", CustomerID: "customer-1"}))
	require.NoError(t, repo.Save(ctx, &domain.Order{ID: "order-2", CustomerID: "customer-2"}))

	orders, err := repo.FindByCustomer(ctx, "customer-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "order-1", orders[0].ID)
}
