package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// RepositoryInterface defines all repository operations
type RepositoryInterface interface {
	// Health and lifecycle
	Close()
	Health(ctx context.Context) error
	Migrate(ctx context.Context) error

	// Analyses
	SaveAnalysis(ctx context.Context, result *models.AnalysisResult) error
	GetLatestAnalysis(ctx context.Context, symbol string) (*models.AnalysisResult, error)
	GetAnalysisHistory(ctx context.Context, symbol string, limit int) ([]models.AnalysisResult, error)

	// Scan runs
	CreateScanRun(ctx context.Context, run *models.ScanRun) error
	UpdateScanRun(ctx context.Context, run *models.ScanRun) error
	GetScanRun(ctx context.Context, id uuid.UUID) (*models.ScanRun, error)
	GetLatestScanRun(ctx context.Context) (*models.ScanRun, error)
	GetScanRunHistory(ctx context.Context, limit int) ([]models.ScanRun, error)

	// Watchlist
	AddToWatchlist(ctx context.Context, symbol, note string) error
	RemoveFromWatchlist(ctx context.Context, symbol string) error
	GetWatchlist(ctx context.Context) ([]models.WatchlistEntry, error)
	GetWatchlistSymbols(ctx context.Context) ([]string, error)
}

// Compile-time interface verification
var _ RepositoryInterface = (*Repository)(nil)
