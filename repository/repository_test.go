package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// getTestDB returns a repository connected to the test database.
// If DATABASE_URL is not set, the test is skipped.
func getTestDB(t *testing.T) *Repository {
	t.Helper()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo, err := NewRepository(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return repo
}

func cleanupAnalyses(t *testing.T, repo *Repository) {
	t.Helper()
	repo.pool.Exec(context.Background(), "DELETE FROM analyses WHERE symbol LIKE 'TEST%'")
}

func cleanupScanRuns(t *testing.T, repo *Repository) {
	t.Helper()
	repo.pool.Exec(context.Background(), "DELETE FROM scan_runs WHERE universe = 'test_universe'")
}

func cleanupWatchlist(t *testing.T, repo *Repository) {
	t.Helper()
	repo.pool.Exec(context.Background(), "DELETE FROM watchlist WHERE symbol LIKE 'TEST%'")
}

func testAnalysis(symbol string, score float64, at time.Time) *models.AnalysisResult {
	return &models.AnalysisResult{
		Symbol:         symbol,
		Timestamp:      at,
		Timeframe:      "1d",
		CurrentPrice:   123.45,
		PrimaryTrend:   models.TrendBullish,
		WeinsteinStage: models.StageAdvancing,
		Scores:         models.StrategyScores{CompositeScore: score},
		Signal:         models.SignalBuy,
		Conviction:     models.ConvictionMedium,
		BullishFactors: []string{"Strong uptrend"},
	}
}

func TestRepository_Analyses(t *testing.T) {
	repo := getTestDB(t)
	defer repo.Close()
	defer cleanupAnalyses(t, repo)

	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	if err := repo.SaveAnalysis(ctx, testAnalysis("TESTAAA", 60, base.Add(-time.Hour))); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.SaveAnalysis(ctx, testAnalysis("TESTAAA", 72, base)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	latest, err := repo.GetLatestAnalysis(ctx, "TESTAAA")
	if err != nil {
		t.Fatalf("get latest failed: %v", err)
	}
	if latest == nil {
		t.Fatal("expected a stored analysis")
	}
	if latest.Scores.CompositeScore != 72 {
		t.Errorf("expected newest analysis (score 72), got %v", latest.Scores.CompositeScore)
	}
	if latest.Signal != models.SignalBuy || latest.PrimaryTrend != models.TrendBullish {
		t.Errorf("document round trip lost fields: %+v", latest)
	}

	history, err := repo.GetAnalysisHistory(ctx, "TESTAAA", 10)
	if err != nil {
		t.Fatalf("get history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	if history[0].Scores.CompositeScore != 72 {
		t.Errorf("history not newest first: %v", history[0].Scores.CompositeScore)
	}

	missing, err := repo.GetLatestAnalysis(ctx, "TESTNONE")
	if err != nil {
		t.Fatalf("get missing failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown symbol")
	}
}

func TestRepository_ScanRuns(t *testing.T) {
	repo := getTestDB(t)
	defer repo.Close()
	defer cleanupScanRuns(t, repo)

	ctx := context.Background()

	run := models.NewScanRun("test_universe", models.DefaultScanFilter())
	if err := repo.CreateScanRun(ctx, run); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	run.Complete([]models.ScanResult{
		{
			Symbol:         "TESTAAA",
			CurrentPrice:   100,
			CompositeScore: 80,
			Signal:         models.SignalBuy,
			Conviction:     models.ConvictionHigh,
			PrimaryTrend:   models.TrendBullish,
			WeinsteinStage: models.StageAdvancing,
			Patterns:       []string{"Volatility Contraction Pattern"},
			Timestamp:      time.Now().UTC(),
		},
	}, 50)
	if err := repo.UpdateScanRun(ctx, run); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := repo.GetScanRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored run")
	}
	if got.Status != models.ScanStatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if got.SymbolsTotal != 50 || got.SymbolsPassed != 1 {
		t.Errorf("counts wrong: total=%d passed=%d", got.SymbolsTotal, got.SymbolsPassed)
	}
	if len(got.Results) != 1 || got.Results[0].Symbol != "TESTAAA" {
		t.Errorf("results round trip failed: %+v", got.Results)
	}
	if got.Criteria.MinCompositeScore != 50 {
		t.Errorf("criteria round trip failed: %+v", got.Criteria)
	}

	latest, err := repo.GetLatestScanRun(ctx)
	if err != nil {
		t.Fatalf("get latest failed: %v", err)
	}
	if latest == nil || latest.ID != run.ID {
		t.Error("latest run should be the one just stored")
	}

	history, err := repo.GetScanRunHistory(ctx, 5)
	if err != nil {
		t.Fatalf("get history failed: %v", err)
	}
	if len(history) == 0 {
		t.Error("expected at least one history row")
	}

	missing, err := repo.GetScanRun(ctx, uuid.New())
	if err != nil {
		t.Fatalf("get missing failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown run id")
	}
}

func TestRepository_Watchlist(t *testing.T) {
	repo := getTestDB(t)
	defer repo.Close()
	defer cleanupWatchlist(t, repo)

	ctx := context.Background()

	if err := repo.AddToWatchlist(ctx, "TESTAAA", "breakout watch"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := repo.AddToWatchlist(ctx, "TESTBBB", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	// Upsert replaces the note.
	if err := repo.AddToWatchlist(ctx, "TESTAAA", "stage 2 confirmed"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	entries, err := repo.GetWatchlist(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	notes := map[string]string{}
	for _, e := range entries {
		notes[e.Symbol] = e.Note
	}
	if notes["TESTAAA"] != "stage 2 confirmed" {
		t.Errorf("note not updated: %q", notes["TESTAAA"])
	}

	symbols, err := repo.GetWatchlistSymbols(ctx)
	if err != nil {
		t.Fatalf("get symbols failed: %v", err)
	}
	found := 0
	for _, s := range symbols {
		if s == "TESTAAA" || s == "TESTBBB" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("expected both test symbols, found %d", found)
	}

	if err := repo.RemoveFromWatchlist(ctx, "TESTBBB"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := repo.RemoveFromWatchlist(ctx, "TESTBBB"); err != nil {
		t.Errorf("removing absent symbol should not error: %v", err)
	}
}
