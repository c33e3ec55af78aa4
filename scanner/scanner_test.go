package scanner

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pankajhirway/ChartAnalyzer/config"
	"github.com/pankajhirway/ChartAnalyzer/models"
)

type fakeAnalysis struct {
	mu          sync.Mutex
	results     map[string]*models.AnalysisResult
	delay       time.Duration
	inFlight    int
	maxInFlight int
}

func (f *fakeAnalysis) Analyze(ctx context.Context, symbol, timeframe string) (*models.AnalysisResult, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	result := f.results[symbol]
	f.mu.Unlock()

	if result == nil {
		return nil, fmt.Errorf("no data for %s", symbol)
	}
	return result, nil
}

type fakeRunStore struct {
	mu      sync.Mutex
	created []*models.ScanRun
	updated []*models.ScanRun
}

func (f *fakeRunStore) CreateScanRun(ctx context.Context, run *models.ScanRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, run)
	return nil
}

func (f *fakeRunStore) UpdateScanRun(ctx context.Context, run *models.ScanRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, run)
	return nil
}

func (f *fakeRunStore) GetScanRun(ctx context.Context, id uuid.UUID) (*models.ScanRun, error) {
	return nil, nil
}

func (f *fakeRunStore) GetLatestScanRun(ctx context.Context) (*models.ScanRun, error) {
	return nil, nil
}

func (f *fakeRunStore) GetScanRunHistory(ctx context.Context, limit int) ([]models.ScanRun, error) {
	return nil, nil
}

type fakeWatchlist struct {
	symbols []string
	err     error
}

func (f *fakeWatchlist) GetWatchlistSymbols(ctx context.Context) ([]string, error) {
	return f.symbols, f.err
}

func testScannerConfig() *config.ScannerConfig {
	return &config.ScannerConfig{
		MaxConcurrent:      5,
		AnalysisTimeoutSec: 30,
		MaxResults:         20,
		DefaultUniverse:    "nifty50",
	}
}

func buyResult(symbol string, score float64) *models.AnalysisResult {
	return &models.AnalysisResult{
		Symbol:         symbol,
		Timestamp:      time.Now(),
		CurrentPrice:   100,
		PrimaryTrend:   models.TrendBullish,
		WeinsteinStage: models.StageAdvancing,
		Scores:         models.StrategyScores{CompositeScore: score},
		Signal:         models.SignalBuy,
		Conviction:     models.ConvictionMedium,
		VolumeRatio:    models.Float64Ptr(1.3),
	}
}

func TestScanUniverseRanksAndCaps(t *testing.T) {
	provider := &fakeAnalysis{results: map[string]*models.AnalysisResult{}}
	for i, symbol := range nifty50Symbols {
		provider.results[symbol] = buyResult(symbol, float64(30+i))
	}
	s := New(provider, nil, nil, testScannerConfig())

	run, err := s.ScanUniverse(context.Background(), "nifty50", models.DefaultScanFilter(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.SymbolsTotal != 50 {
		t.Errorf("expected 50 symbols scanned, got %d", run.SymbolsTotal)
	}
	if len(run.Results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(run.Results))
	}
	for i := 1; i < len(run.Results); i++ {
		if run.Results[i].CompositeScore > run.Results[i-1].CompositeScore {
			t.Errorf("results not sorted descending at %d: %v > %v",
				i, run.Results[i].CompositeScore, run.Results[i-1].CompositeScore)
		}
	}
	// Scores run 30..79, so the default 50..100 band passes 30 symbols and
	// the top slot holds the highest score.
	if run.SymbolsPassed != 5 {
		t.Errorf("symbols_passed should match returned results, got %d", run.SymbolsPassed)
	}
	if run.Results[0].CompositeScore != 79 {
		t.Errorf("expected top score 79, got %v", run.Results[0].CompositeScore)
	}
	if run.Status != models.ScanStatusCompleted {
		t.Errorf("expected completed run, got %s", run.Status)
	}
}

func TestScanUniverseFailedSymbolsSkipped(t *testing.T) {
	provider := &fakeAnalysis{results: map[string]*models.AnalysisResult{
		nifty50Symbols[0]: buyResult(nifty50Symbols[0], 80),
	}}
	s := New(provider, nil, nil, testScannerConfig())

	run, err := s.ScanUniverse(context.Background(), "nifty50", models.DefaultScanFilter(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(run.Results))
	}
	if run.Results[0].Symbol != nifty50Symbols[0] {
		t.Errorf("unexpected symbol %s", run.Results[0].Symbol)
	}
}

func TestScanUniverseConcurrencyBound(t *testing.T) {
	provider := &fakeAnalysis{
		results: map[string]*models.AnalysisResult{},
		delay:   5 * time.Millisecond,
	}
	for _, symbol := range nifty50Symbols {
		provider.results[symbol] = buyResult(symbol, 60)
	}
	cfg := testScannerConfig()
	cfg.MaxConcurrent = 3
	s := New(provider, nil, nil, cfg)

	if _, err := s.ScanUniverse(context.Background(), "nifty50", models.DefaultScanFilter(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.maxInFlight > 3 {
		t.Errorf("concurrency bound exceeded: %d in flight", provider.maxInFlight)
	}
}

func TestScanUniverseUnknownFallsBackToNifty50(t *testing.T) {
	provider := &fakeAnalysis{results: map[string]*models.AnalysisResult{}}
	s := New(provider, nil, nil, testScannerConfig())

	run, err := s.ScanUniverse(context.Background(), "ftse100", models.DefaultScanFilter(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.SymbolsTotal != 50 {
		t.Errorf("fallback should scan nifty50, got %d symbols", run.SymbolsTotal)
	}
}

func TestScanUniverseWatchlist(t *testing.T) {
	provider := &fakeAnalysis{results: map[string]*models.AnalysisResult{
		"AAPL": buyResult("AAPL", 72),
		"MSFT": buyResult("MSFT", 64),
	}}
	watchlist := &fakeWatchlist{symbols: []string{"AAPL", "MSFT"}}
	s := New(provider, nil, watchlist, testScannerConfig())

	run, err := s.ScanUniverse(context.Background(), UniverseWatchlist, models.DefaultScanFilter(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.SymbolsTotal != 2 || len(run.Results) != 2 {
		t.Fatalf("expected both watchlist symbols, got total=%d results=%d", run.SymbolsTotal, len(run.Results))
	}
	if run.Results[0].Symbol != "AAPL" {
		t.Errorf("expected AAPL first, got %s", run.Results[0].Symbol)
	}
}

func TestScanUniverseWatchlistUnavailable(t *testing.T) {
	s := New(&fakeAnalysis{}, nil, nil, testScannerConfig())
	if _, err := s.ScanUniverse(context.Background(), UniverseWatchlist, models.DefaultScanFilter(), 0); err == nil {
		t.Error("expected error without a watchlist source")
	}

	empty := New(&fakeAnalysis{}, nil, &fakeWatchlist{}, testScannerConfig())
	if _, err := empty.ScanUniverse(context.Background(), UniverseWatchlist, models.DefaultScanFilter(), 0); err == nil {
		t.Error("expected error for empty watchlist")
	}
}

func TestScanUniversePersistsRun(t *testing.T) {
	provider := &fakeAnalysis{results: map[string]*models.AnalysisResult{}}
	store := &fakeRunStore{}
	s := New(provider, store, nil, testScannerConfig())

	run, err := s.ScanUniverse(context.Background(), "nifty50", models.DefaultScanFilter(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.created) != 1 || len(store.updated) != 1 {
		t.Fatalf("expected one create and one update, got %d/%d", len(store.created), len(store.updated))
	}
	if store.updated[0].ID != run.ID {
		t.Errorf("updated run id mismatch")
	}
	if store.updated[0].Status != models.ScanStatusCompleted {
		t.Errorf("persisted run not completed: %s", store.updated[0].Status)
	}
}

func TestMatchesFilter(t *testing.T) {
	base := buyResult("TEST", 70)

	tests := []struct {
		name   string
		modify func(*models.AnalysisResult)
		filter models.ScanFilter
		want   bool
	}{
		{
			name:   "default band passes",
			modify: func(a *models.AnalysisResult) {},
			filter: models.DefaultScanFilter(),
			want:   true,
		},
		{
			name:   "below min score",
			modify: func(a *models.AnalysisResult) { a.Scores.CompositeScore = 40 },
			filter: models.DefaultScanFilter(),
			want:   false,
		},
		{
			name:   "above max score",
			modify: func(a *models.AnalysisResult) { a.Scores.CompositeScore = 80 },
			filter: models.ScanFilter{MinCompositeScore: 50, MaxCompositeScore: 75},
			want:   false,
		},
		{
			name:   "signal mismatch",
			modify: func(a *models.AnalysisResult) { a.Signal = models.SignalHold },
			filter: models.ScanFilter{
				MinCompositeScore: 50, MaxCompositeScore: 100,
				Signal: signalPtr(models.SignalBuy),
			},
			want: false,
		},
		{
			name:   "conviction below minimum",
			modify: func(a *models.AnalysisResult) { a.Conviction = models.ConvictionLow },
			filter: models.ScanFilter{
				MinCompositeScore: 50, MaxCompositeScore: 100,
				MinConviction: convictionPtr(models.ConvictionMedium),
			},
			want: false,
		},
		{
			name:   "conviction above minimum",
			modify: func(a *models.AnalysisResult) { a.Conviction = models.ConvictionHigh },
			filter: models.ScanFilter{
				MinCompositeScore: 50, MaxCompositeScore: 100,
				MinConviction: convictionPtr(models.ConvictionMedium),
			},
			want: true,
		},
		{
			name:   "trend mismatch",
			modify: func(a *models.AnalysisResult) { a.PrimaryTrend = models.TrendNeutral },
			filter: models.ScanFilter{
				MinCompositeScore: 50, MaxCompositeScore: 100,
				Trend: trendPtr(models.TrendBullish),
			},
			want: false,
		},
		{
			name:   "stage mismatch",
			modify: func(a *models.AnalysisResult) { a.WeinsteinStage = models.StageBasing },
			filter: models.ScanFilter{
				MinCompositeScore: 50, MaxCompositeScore: 100,
				WeinsteinStage: stagePtr(models.StageAdvancing),
			},
			want: false,
		},
		{
			name:   "volume ratio too low",
			modify: func(a *models.AnalysisResult) { a.VolumeRatio = models.Float64Ptr(1.1) },
			filter: models.ScanFilter{
				MinCompositeScore: 50, MaxCompositeScore: 100,
				MinVolumeRatio: floatPtr(1.5),
			},
			want: false,
		},
		{
			name:   "volume ratio missing",
			modify: func(a *models.AnalysisResult) { a.VolumeRatio = nil },
			filter: models.ScanFilter{
				MinCompositeScore: 50, MaxCompositeScore: 100,
				MinVolumeRatio: floatPtr(1.0),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := *base
			tt.modify(&a)
			if got := matchesFilter(&a, tt.filter); got != tt.want {
				t.Errorf("matchesFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildScanResultCapsPatterns(t *testing.T) {
	a := buyResult("TEST", 70)
	for i := 0; i < 5; i++ {
		a.DetectedPatterns = append(a.DetectedPatterns, models.PatternMatch{
			PatternName: fmt.Sprintf("Pattern %d", i),
		})
	}

	result := buildScanResult(a)
	if len(result.Patterns) != 3 {
		t.Errorf("expected 3 pattern names, got %d", len(result.Patterns))
	}
	if result.Patterns[0] != "Pattern 0" {
		t.Errorf("pattern order not preserved: %v", result.Patterns)
	}
}
