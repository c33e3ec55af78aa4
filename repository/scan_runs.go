package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/observability"
)

// CreateScanRun inserts a new scan run in its initial state.
func (r *Repository) CreateScanRun(ctx context.Context, run *models.ScanRun) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("insert", "scan_runs")

	criteriaJSON, err := json.Marshal(run.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}
	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO scan_runs (id, universe, criteria, status, symbols_total, symbols_passed, results, error, started_at, completed_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, run.ID, run.Universe, criteriaJSON, run.Status, run.SymbolsTotal,
		run.SymbolsPassed, resultsJSON, run.Error, run.StartedAt, run.CompletedAt, run.DurationMs)

	if err != nil {
		metrics.RecordDBError("insert", "scan_runs")
		return fmt.Errorf("failed to create scan run: %w", err)
	}
	return nil
}

// UpdateScanRun updates an existing scan run with its final state.
func (r *Repository) UpdateScanRun(ctx context.Context, run *models.ScanRun) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("update", "scan_runs")

	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		UPDATE scan_runs
		SET status = $2, symbols_total = $3, symbols_passed = $4, results = $5,
		    error = $6, completed_at = $7, duration_ms = $8
		WHERE id = $1
	`, run.ID, run.Status, run.SymbolsTotal, run.SymbolsPassed, resultsJSON,
		run.Error, run.CompletedAt, run.DurationMs)

	if err != nil {
		metrics.RecordDBError("update", "scan_runs")
		return fmt.Errorf("failed to update scan run: %w", err)
	}
	return nil
}

// GetScanRun returns a scan run by ID, or nil when it does not exist.
func (r *Repository) GetScanRun(ctx context.Context, id uuid.UUID) (*models.ScanRun, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "scan_runs")

	run, err := r.scanRunRow(r.db.QueryRow(ctx, `
		SELECT id, universe, criteria, status, symbols_total, symbols_passed, results, error, started_at, completed_at, duration_ms
		FROM scan_runs
		WHERE id = $1
	`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBError("select", "scan_runs")
		return nil, fmt.Errorf("failed to get scan run: %w", err)
	}
	return run, nil
}

// GetLatestScanRun returns the most recent scan run, or nil when none exist.
func (r *Repository) GetLatestScanRun(ctx context.Context) (*models.ScanRun, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "scan_runs")

	run, err := r.scanRunRow(r.db.QueryRow(ctx, `
		SELECT id, universe, criteria, status, symbols_total, symbols_passed, results, error, started_at, completed_at, duration_ms
		FROM scan_runs
		ORDER BY started_at DESC
		LIMIT 1
	`))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBError("select", "scan_runs")
		return nil, fmt.Errorf("failed to get latest scan run: %w", err)
	}
	return run, nil
}

// GetScanRunHistory returns recent scan runs, newest first.
func (r *Repository) GetScanRunHistory(ctx context.Context, limit int) ([]models.ScanRun, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "scan_runs")

	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, universe, criteria, status, symbols_total, symbols_passed, results, error, started_at, completed_at, duration_ms
		FROM scan_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		metrics.RecordDBError("select", "scan_runs")
		return nil, fmt.Errorf("failed to get scan run history: %w", err)
	}
	defer rows.Close()

	var runs []models.ScanRun
	for rows.Next() {
		run, err := r.scanRunRow(rows)
		if err != nil {
			metrics.RecordDBError("select", "scan_runs")
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

// scanRunRow scans one scan_runs row, decoding the JSONB columns.
func (r *Repository) scanRunRow(row pgx.Row) (*models.ScanRun, error) {
	var run models.ScanRun
	var criteriaJSON, resultsJSON []byte

	err := row.Scan(&run.ID, &run.Universe, &criteriaJSON, &run.Status,
		&run.SymbolsTotal, &run.SymbolsPassed, &resultsJSON, &run.Error,
		&run.StartedAt, &run.CompletedAt, &run.DurationMs)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(criteriaJSON, &run.Criteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal criteria: %w", err)
	}
	if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}
	return &run, nil
}
