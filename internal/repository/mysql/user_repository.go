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

// UserRepository is the MySQL-backed repository.UserRepository.
type UserRepository struct {
	db      *sql.DB
	metrics *telemetry.Registry
}

// NewUserRepository wraps the database handle with instrumentation.
func NewUserRepository(db *sql.DB, metrics *telemetry.Registry) *UserRepository {
	return &UserRepository{db: db, metrics: metrics}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	const query = `INSERT INTO users (id, username, email, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		email = VALUES(email), status = VALUES(status), updated_at = VALUES(updated_at)`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, string(user.Status),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return r.fail(ctx, err, "failed to save user: %s", user.ID)
	}

	r.done(ctx, start, "saveUser")
	logging.FromContext(ctx).Debug("saved user", zap.String(logging.FieldUserID, user.ID))
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, username, email, status, created_at, updated_at
		FROM users WHERE id = ?`

	start := time.Now()
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		r.done(ctx, start, "findUserById")
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(ctx, err, "failed to find user: %s", id)
	}

	r.done(ctx, start, "findUserById")
	return user, nil
}

func (r *UserRepository) FindActiveUsers(ctx context.Context) ([]*domain.User, error) {
	const query = `SELECT id, username, email, status, created_at, updated_at
		FROM users WHERE status = 'ACTIVE' ORDER BY created_at DESC`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, r.fail(ctx, err, "failed to query active users")
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, r.fail(ctx, err, "failed to scan user row")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(ctx, err, "failed to iterate user rows")
	}

	r.done(ctx, start, "findActiveUsers")
	return users, nil
}

func (r *UserRepository) done(ctx context.Context, start time.Time, operation string) {
	r.metrics.RecordDuration(ctx, telemetry.DatabaseOperationDuration,
		float64(time.Since(start).Milliseconds()), operation)
	r.metrics.Increment(ctx, telemetry.DatabaseOperationsTotal)
}

func (r *UserRepository) fail(ctx context.Context, cause error, format string, args ...any) error {
	r.metrics.Increment(ctx, telemetry.DatabaseErrorsTotal)
	r.metrics.RecordError(ctx, "database", cause)
	return apperrors.Persistence(cause, format, args...)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var status string
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &status,
		&user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.Status = domain.UserStatus(status)
	return &user, nil
}
