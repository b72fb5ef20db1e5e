// Package mysql implements the repositories on a MySQL database through
// database/sql. Every call is a blocking round trip instrumented with the
// database duration histogram and operation/error counters.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection. The service performs
// one logical unit of work per request against this handle; pooling beyond
// database/sql defaults and transactions are deliberately out of scope.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	dsn, err := normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// normalizeDSN validates the DSN and forces parseTime so TIMESTAMP columns
// scan into time.Time. A DSN without it would fail on the first read, not at
// startup.
func normalizeDSN(dsn string) (string, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// EnsureSchema creates the users and orders tables when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         VARCHAR(64)  PRIMARY KEY,
			username   VARCHAR(255) NOT NULL UNIQUE,
			email      VARCHAR(255) NOT NULL,
			status     VARCHAR(32)  NOT NULL,
			created_at TIMESTAMP(3) NOT NULL,
			updated_at TIMESTAMP(3) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id          VARCHAR(64)   PRIMARY KEY,
			customer_id VARCHAR(64)   NOT NULL,
			amount      DECIMAL(12,2) NOT NULL,
			currency    VARCHAR(3)    NOT NULL,
			status      VARCHAR(32)   NOT NULL,
			created_at  TIMESTAMP(3)  NOT NULL,
			updated_at  TIMESTAMP(3)  NOT NULL,
			INDEX idx_orders_customer (customer_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
