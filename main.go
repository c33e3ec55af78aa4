package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pankajhirway/ChartAnalyzer/analyzer"
	"github.com/pankajhirway/ChartAnalyzer/config"
	"github.com/pankajhirway/ChartAnalyzer/internal/api"
	"github.com/pankajhirway/ChartAnalyzer/observability"
	"github.com/pankajhirway/ChartAnalyzer/repository"
	"github.com/pankajhirway/ChartAnalyzer/scanner"
	"github.com/pankajhirway/ChartAnalyzer/services"
	"github.com/pankajhirway/ChartAnalyzer/strategies"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.Production)
	observability.InitMetrics()

	ctx := context.Background()

	// Market data is required for every analysis path.
	if !cfg.HasMarketData() {
		observability.Warn("MARKET_DATA_API_KEY not set, analysis requests will fail upstream")
	}
	marketData := services.NewMarketDataService(cfg.MarketData.APIKey, cfg.MarketData.BaseURL)

	// Fundamentals are optional; without them the Lynch scorer falls back
	// to technical factors.
	var fundamentals services.FundamentalsProvider
	if cfg.HasFundamentals() {
		fundamentals = services.NewFundamentalsService(cfg.Fundamentals.APIKey, cfg.Fundamentals.BaseURL)
	} else {
		observability.Warn("FUNDAMENTALS_API_KEY not set, fundamental analysis disabled")
	}

	// Database is optional; without it analyses are not persisted and the
	// watchlist and scan history endpoints are unavailable.
	var repo *repository.Repository
	if cfg.HasDatabase() {
		repo, err = repository.NewRepository(ctx, cfg.Database.URL)
		if err != nil {
			observability.Warn("failed to connect to database, running without persistence", "error", err)
			repo = nil
		} else {
			defer repo.Close()
			if err := repo.Migrate(ctx); err != nil {
				observability.Fatal("failed to apply database schema", "error", err)
			}
			observability.Info("connected to database")
		}
	} else {
		observability.Info("DATABASE_URL not set, running without persistence")
	}

	svc := analyzer.New(marketData, fundamentals, strategies.Weights{
		Minervini: cfg.Analysis.WeightMinervini,
		Weinstein: cfg.Analysis.WeightWeinstein,
		Lynch:     cfg.Analysis.WeightLynch,
		Technical: cfg.Analysis.WeightTechnical,
	})

	// Interface fields stay nil (not a typed nil pointer) when the
	// repository is absent, so nil checks downstream behave.
	var runStore scanner.RunStore
	var watchlist scanner.WatchlistSource
	var store api.Store
	if repo != nil {
		runStore = repo
		watchlist = repo
		store = repo
	}

	scan := scanner.New(svc, runStore, watchlist, &cfg.Scanner)

	handler := api.NewHandler(svc, scan, store, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.Scanner.AnalysisTimeoutSec+30) * time.Second,
	}

	go func() {
		observability.Info("starting server", "port", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}
	observability.Info("server stopped")
}
