// Package db provides connection helpers for the optional backing stores.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const diagnosticsSchema = `
CREATE TABLE IF NOT EXISTS query_diagnostics (
	id          BIGSERIAL PRIMARY KEY,
	logged_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	level       TEXT        NOT NULL,
	message     TEXT        NOT NULL,
	attempt_id  TEXT,
	attrs       JSONB       NOT NULL DEFAULT '{}'::jsonb
)`

// NewPostgresPool opens a pgxpool, verifies it and makes sure the
// diagnostics table exists.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	if _, err := pool.Exec(ctx, diagnosticsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create query_diagnostics: %w", err)
	}

	return pool, nil
}
