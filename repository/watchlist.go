package repository

import (
	"context"
	"fmt"

	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/observability"
)

// AddToWatchlist inserts or updates a watchlist entry.
func (r *Repository) AddToWatchlist(ctx context.Context, symbol, note string) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("insert", "watchlist")

	_, err := r.db.Exec(ctx, `
		INSERT INTO watchlist (symbol, note)
		VALUES ($1, $2)
		ON CONFLICT (symbol)
		DO UPDATE SET note = EXCLUDED.note
	`, symbol, note)

	if err != nil {
		metrics.RecordDBError("insert", "watchlist")
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return nil
}

// RemoveFromWatchlist deletes a watchlist entry. Removing an absent symbol
// is not an error.
func (r *Repository) RemoveFromWatchlist(ctx context.Context, symbol string) error {
	if err := r.checkDB(); err != nil {
		return err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("delete", "watchlist")

	_, err := r.db.Exec(ctx, `DELETE FROM watchlist WHERE symbol = $1`, symbol)
	if err != nil {
		metrics.RecordDBError("delete", "watchlist")
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	return nil
}

// GetWatchlist returns all watchlist entries ordered by symbol.
func (r *Repository) GetWatchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()
	defer timer.ObserveDB("select", "watchlist")

	rows, err := r.db.Query(ctx, `
		SELECT symbol, note, added_at
		FROM watchlist
		ORDER BY symbol
	`)
	if err != nil {
		metrics.RecordDBError("select", "watchlist")
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchlistEntry
	for rows.Next() {
		var e models.WatchlistEntry
		if err := rows.Scan(&e.Symbol, &e.Note, &e.AddedAt); err != nil {
			metrics.RecordDBError("select", "watchlist")
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// GetWatchlistSymbols returns just the symbols, for use as a scan universe.
func (r *Repository) GetWatchlistSymbols(ctx context.Context) ([]string, error) {
	entries, err := r.GetWatchlist(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, len(entries))
	for i, e := range entries {
		symbols[i] = e.Symbol
	}
	return symbols, nil
}
