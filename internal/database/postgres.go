package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgemunganga/vendorhub-backend/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Connect opens the Postgres pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}

// IsDuplicateKey returns true when the error is a PostgreSQL unique constraint violation (code 23505).
func IsDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
