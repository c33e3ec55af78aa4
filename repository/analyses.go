package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/observability"
)

// SaveAnalysis stores one analysis result. The full document goes into a
// JSONB column; score, signal and conviction are lifted into columns for
// querying.
func (r *Repository) SaveAnalysis(ctx context.Context, result *models.AnalysisResult) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("insert", "analyses")

	doc, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO analyses (symbol, timeframe, analyzed_at, composite_score, signal, conviction, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, result.Symbol, result.Timeframe, result.Timestamp,
		result.Scores.CompositeScore, result.Signal, result.Conviction, doc)

	if err != nil {
		metrics.RecordDBError("insert", "analyses")
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetLatestAnalysis returns the most recent stored analysis for a symbol,
// or nil when none exists.
func (r *Repository) GetLatestAnalysis(ctx context.Context, symbol string) (*models.AnalysisResult, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "analyses")

	var doc []byte
	err := r.db.QueryRow(ctx, `
		SELECT result FROM analyses
		WHERE symbol = $1
		ORDER BY analyzed_at DESC
		LIMIT 1
	`, symbol).Scan(&doc)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBError("select", "analyses")
		return nil, fmt.Errorf("failed to get latest analysis: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(doc, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	return &result, nil
}

// GetAnalysisHistory returns stored analyses for a symbol, newest first.
func (r *Repository) GetAnalysisHistory(ctx context.Context, symbol string, limit int) ([]models.AnalysisResult, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "analyses")

	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx, `
		SELECT result FROM analyses
		WHERE symbol = $1
		ORDER BY analyzed_at DESC
		LIMIT $2
	`, symbol, limit)
	if err != nil {
		metrics.RecordDBError("select", "analyses")
		return nil, fmt.Errorf("failed to get analysis history: %w", err)
	}
	defer rows.Close()

	var results []models.AnalysisResult
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			metrics.RecordDBError("select", "analyses")
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		var result models.AnalysisResult
		if err := json.Unmarshal(doc, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}
