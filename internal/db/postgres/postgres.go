// Package postgres persists match and notification rows. Both tables are
// append-only from the matching engine's perspective; the only mutation is
// the mark-as-read flag on notifications.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// Config holds connection parameters for the match store.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// DB wraps the SQL connection pool for match and notification storage.
type DB struct {
	db *sql.DB
}

// New opens a connection pool. The pool is lazy; call Ping to verify.
func New(cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	pool, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	pool.SetConnMaxLifetime(30 * time.Minute)

	return &DB{db: pool}, nil
}

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close shuts down the pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the match and notification tables if they do not exist.
// There is deliberately no uniqueness constraint on (lost_item_id,
// found_item_id): repeated matching runs may re-insert the same pair.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			lost_item_id TEXT NOT NULL,
			found_item_id TEXT NOT NULL,
			text_score DOUBLE PRECISION NOT NULL,
			location_score DOUBLE PRECISION NOT NULL,
			combined_score DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_lost_item ON matches (lost_item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_found_item ON matches (found_item_id)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			match_id BIGINT NOT NULL REFERENCES matches(id),
			subject TEXT NOT NULL,
			message TEXT NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
