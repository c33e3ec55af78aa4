// Package scanner runs the analysis pipeline across a universe of symbols
// and filters the results into ranked trade candidates.
package scanner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pankajhirway/ChartAnalyzer/config"
	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/observability"
)

// AnalysisProvider runs the full analysis for one symbol.
type AnalysisProvider interface {
	Analyze(ctx context.Context, symbol, timeframe string) (*models.AnalysisResult, error)
}

// RunStore persists scan runs and serves their history.
type RunStore interface {
	CreateScanRun(ctx context.Context, run *models.ScanRun) error
	UpdateScanRun(ctx context.Context, run *models.ScanRun) error
	GetScanRun(ctx context.Context, id uuid.UUID) (*models.ScanRun, error)
	GetLatestScanRun(ctx context.Context) (*models.ScanRun, error)
	GetScanRunHistory(ctx context.Context, limit int) ([]models.ScanRun, error)
}

// WatchlistSource resolves the watchlist scan universe.
type WatchlistSource interface {
	GetWatchlistSymbols(ctx context.Context) ([]string, error)
}

// Scanner analyzes symbol universes concurrently under a semaphore bound.
// The run store and watchlist source are optional; without a store runs are
// not persisted and without a watchlist source the watchlist universe is
// unavailable.
type Scanner struct {
	analysis  AnalysisProvider
	runs      RunStore
	watchlist WatchlistSource
	cfg       *config.ScannerConfig
}

// New creates a scanner.
func New(analysis AnalysisProvider, runs RunStore, watchlist WatchlistSource, cfg *config.ScannerConfig) *Scanner {
	return &Scanner{
		analysis:  analysis,
		runs:      runs,
		watchlist: watchlist,
		cfg:       cfg,
	}
}

// ScanUniverse analyzes every symbol in the universe, filters the results,
// and returns the run with the top candidates sorted by composite score.
func (s *Scanner) ScanUniverse(ctx context.Context, universe string, filter models.ScanFilter, maxResults int) (*models.ScanRun, error) {
	if universe == "" {
		universe = s.cfg.DefaultUniverse
	}
	if maxResults <= 0 {
		maxResults = s.cfg.MaxResults
	}

	symbols, err := s.resolveUniverse(ctx, universe)
	if err != nil {
		return nil, err
	}

	run := models.NewScanRun(universe, filter)
	if s.runs != nil {
		if err := s.runs.CreateScanRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to create scan run: %w", err)
		}
	}

	observability.Info("starting market scan",
		"universe", universe,
		"symbols", len(symbols),
	)

	results := s.analyzeSymbols(ctx, symbols, filter)

	sort.Slice(results, func(i, j int) bool {
		return results[i].CompositeScore > results[j].CompositeScore
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	run.Complete(results, len(symbols))
	s.finishRun(ctx, run)

	observability.Info("market scan completed",
		"universe", universe,
		"duration_ms", run.DurationMs,
		"passed", run.SymbolsPassed,
	)
	return run, nil
}

// resolveUniverse maps a universe name to its symbol list. Unknown names
// fall back to nifty50, matching the permissive behavior clients expect.
func (s *Scanner) resolveUniverse(ctx context.Context, universe string) ([]string, error) {
	if universe == UniverseWatchlist {
		if s.watchlist == nil {
			return nil, fmt.Errorf("watchlist universe requires a database")
		}
		symbols, err := s.watchlist.GetWatchlistSymbols(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load watchlist: %w", err)
		}
		if len(symbols) == 0 {
			return nil, fmt.Errorf("watchlist is empty")
		}
		return symbols, nil
	}

	symbols, ok := builtinUniverse(universe)
	if !ok {
		observability.Warn("unknown universe, falling back to nifty50", "universe", universe)
		symbols, _ = builtinUniverse("nifty50")
	}
	return symbols, nil
}

// analyzeSymbols runs analyses concurrently with a semaphore limit and
// returns the results that pass the filter.
func (s *Scanner) analyzeSymbols(ctx context.Context, symbols []string, filter models.ScanFilter) []models.ScanResult {
	scanCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.AnalysisTimeoutSec)*time.Second)
	defer cancel()

	type outcome struct {
		index  int
		result *models.ScanResult
	}

	outcomes := make(chan outcome, len(symbols))
	sem := make(chan struct{}, s.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for i, symbol := range symbols {
		wg.Add(1)
		go func(idx int, sym string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-scanCtx.Done():
				outcomes <- outcome{index: idx}
				return
			}

			analysis, err := s.analysis.Analyze(scanCtx, sym, "1d")
			if err != nil {
				observability.Warn("scan analysis failed", "symbol", sym, "error", err)
				outcomes <- outcome{index: idx}
				return
			}

			if !matchesFilter(analysis, filter) {
				outcomes <- outcome{index: idx}
				return
			}
			result := buildScanResult(analysis)
			outcomes <- outcome{index: idx, result: &result}
		}(i, symbol)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Collect by index so the pre-sort order is stable across runs.
	ordered := make([]*models.ScanResult, len(symbols))
	for o := range outcomes {
		ordered[o.index] = o.result
	}

	results := make([]models.ScanResult, 0, len(symbols))
	for _, r := range ordered {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results
}

// matchesFilter checks an analysis against the scan criteria. Nil filter
// fields are not applied.
func matchesFilter(a *models.AnalysisResult, f models.ScanFilter) bool {
	score := a.Scores.CompositeScore
	if score < f.MinCompositeScore || score > f.MaxCompositeScore {
		return false
	}
	if f.Signal != nil && a.Signal != *f.Signal {
		return false
	}
	if f.MinConviction != nil && a.Conviction.Rank() < f.MinConviction.Rank() {
		return false
	}
	if f.Trend != nil && a.PrimaryTrend != *f.Trend {
		return false
	}
	if f.WeinsteinStage != nil && a.WeinsteinStage != *f.WeinsteinStage {
		return false
	}
	if f.MinVolumeRatio != nil {
		if a.VolumeRatio == nil || *a.VolumeRatio < *f.MinVolumeRatio {
			return false
		}
	}
	return true
}

// buildScanResult projects an analysis into the compact scan row, keeping
// at most three pattern names.
func buildScanResult(a *models.AnalysisResult) models.ScanResult {
	patterns := make([]string, 0, 3)
	for _, p := range a.DetectedPatterns {
		if len(patterns) == 3 {
			break
		}
		patterns = append(patterns, p.PatternName)
	}

	return models.ScanResult{
		Symbol:         a.Symbol,
		CompanyName:    a.CompanyName,
		CurrentPrice:   a.CurrentPrice,
		CompositeScore: a.Scores.CompositeScore,
		Signal:         a.Signal,
		Conviction:     a.Conviction,
		PrimaryTrend:   a.PrimaryTrend,
		WeinsteinStage: a.WeinsteinStage,
		Patterns:       patterns,
		Timestamp:      a.Timestamp,
	}
}

// finishRun records metrics and persists the final run state.
func (s *Scanner) finishRun(ctx context.Context, run *models.ScanRun) {
	observability.GetMetrics().RecordScanRun(
		run.Universe,
		run.Status,
		time.Duration(run.DurationMs)*time.Millisecond,
		run.SymbolsPassed,
	)
	if s.runs == nil {
		return
	}
	if err := s.runs.UpdateScanRun(ctx, run); err != nil {
		observability.Warn("failed to update scan run", "id", run.ID, "error", err)
	}
}

// GetRun returns one scan run by id.
func (s *Scanner) GetRun(ctx context.Context, id uuid.UUID) (*models.ScanRun, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("scan history requires a database")
	}
	return s.runs.GetScanRun(ctx, id)
}

// LatestRun returns the most recent scan run.
func (s *Scanner) LatestRun(ctx context.Context) (*models.ScanRun, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("scan history requires a database")
	}
	return s.runs.GetLatestScanRun(ctx)
}

// RunHistory returns recent scan runs, newest first.
func (s *Scanner) RunHistory(ctx context.Context, limit int) ([]models.ScanRun, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("scan history requires a database")
	}
	return s.runs.GetScanRunHistory(ctx, limit)
}
