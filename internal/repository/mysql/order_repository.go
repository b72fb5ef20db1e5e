package mysql

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"telemetry-backend/internal/domain"
	apperrors "telemetry-backend/internal/errors"
	"telemetry-backend/internal/logging"
	"telemetry-backend/internal/telemetry"
)

// OrderRepository is the MySQL-backed repository.OrderRepository.
type OrderRepository struct {
	db      *sql.DB
	metrics *telemetry.Registry
}

// NewOrderRepository wraps the database handle with instrumentation.
func NewOrderRepository(db *sql.DB, metrics *telemetry.Registry) *OrderRepository {
	return &OrderRepository{db: db, metrics: metrics}
}

func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	const query = `INSERT INTO orders (id, customer_id, amount, currency, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		status = VALUES(status), updated_at = VALUES(updated_at)`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.CustomerID, order.Amount, order.Currency,
		string(order.Status), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return r.fail(ctx, err, "failed to save order: %s", order.ID)
	}

	r.done(ctx, start, "saveOrder")
	logging.FromContext(ctx).Debug("saved order", zap.String(logging.FieldOrderID, order.ID))
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `SELECT id, customer_id, amount, currency, status, created_at, updated_at
		FROM orders WHERE id = ?`

	start := time.Now()
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		r.done(ctx, start, "findOrderById")
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(ctx, err, "failed to find order: %s", id)
	}

	r.done(ctx, start, "findOrderById")
	return order, nil
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	const query = `SELECT id, customer_id, amount, currency, status, created_at, updated_at
		FROM orders WHERE customer_id = ? ORDER BY created_at DESC`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, r.fail(ctx, err, "failed to query orders for customer: %s", customerID)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, r.fail(ctx, err, "failed to scan order row")
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(ctx, err, "failed to iterate order rows")
	}

	r.done(ctx, start, "findOrdersByCustomer")
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	const query = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return r.fail(ctx, err, "failed to update order status: %s", id)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return r.fail(ctx, err, "failed to read update result: %s", id)
	}
	if affected == 0 {
		r.done(ctx, start, "updateOrderStatus")
		return apperrors.NotFound("order not found: %s", id)
	}

	r.done(ctx, start, "updateOrderStatus")
	logging.FromContext(ctx).Debug("updated order status",
		zap.String(logging.FieldOrderID, id),
		zap.String("status", string(status)))
	return nil
}

func (r *OrderRepository) done(ctx context.Context, start time.Time, operation string) {
	r.metrics.RecordDuration(ctx, telemetry.DatabaseOperationDuration,
		float64(time.Since(start).Milliseconds()), operation)
	r.metrics.Increment(ctx, telemetry.DatabaseOperationsTotal)
}

func (r *OrderRepository) fail(ctx context.Context, cause error, format string, args ...any) error {
	r.metrics.Increment(ctx, telemetry.DatabaseErrorsTotal)
	r.metrics.RecordError(ctx, "database", cause)
	return apperrors.Persistence(cause, format, args...)
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var status string
	if err := row.Scan(&order.ID, &order.CustomerID, &order.Amount, &order.Currency,
		&status, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)
	return &order, nil
}
