package repository

import (
	"context"
	"fmt"
)

// schema holds the DDL for every table the repository manages. Statements
// are idempotent so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
		id              BIGSERIAL PRIMARY KEY,
		symbol          TEXT NOT NULL,
		timeframe       TEXT NOT NULL,
		analyzed_at     TIMESTAMPTZ NOT NULL,
		composite_score DOUBLE PRECISION NOT NULL,
		signal          TEXT NOT NULL,
		conviction      TEXT NOT NULL,
		result          JSONB NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_symbol_time
		ON analyses (symbol, analyzed_at DESC)`,
	`CREATE TABLE IF NOT EXISTS scan_runs (
		id             UUID PRIMARY KEY,
		universe       TEXT NOT NULL,
		criteria       JSONB NOT NULL,
		status         TEXT NOT NULL,
		symbols_total  INTEGER NOT NULL DEFAULT 0,
		symbols_passed INTEGER NOT NULL DEFAULT 0,
		results        JSONB NOT NULL DEFAULT '[]',
		error          TEXT NOT NULL DEFAULT '',
		started_at     TIMESTAMPTZ NOT NULL,
		completed_at   TIMESTAMPTZ,
		duration_ms    BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_runs_started
		ON scan_runs (started_at DESC)`,
	`CREATE TABLE IF NOT EXISTS watchlist (
		symbol   TEXT PRIMARY KEY,
		note     TEXT NOT NULL DEFAULT '',
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the repository tables if they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
