package config

import (
	"os"
	"strings"
	"testing"
)

var allEnvKeys = []string{
	"DATABASE_URL",
	"MARKET_DATA_API_KEY",
	"MARKET_DATA_BASE_URL",
	"FUNDAMENTALS_API_KEY",
	"FUNDAMENTALS_BASE_URL",
	"ANALYSIS_LOOKBACK_BARS",
	"ANALYSIS_BENCHMARK_SYMBOL",
	"STRATEGY_WEIGHT_MINERVINI",
	"STRATEGY_WEIGHT_WEINSTEIN",
	"STRATEGY_WEIGHT_LYNCH",
	"STRATEGY_WEIGHT_TECHNICAL",
	"SCANNER_MAX_CONCURRENT",
	"SCANNER_ANALYSIS_TIMEOUT_SEC",
	"SCANNER_MAX_RESULTS",
	"SCANNER_DEFAULT_UNIVERSE",
	"PORT",
	"CORS_ALLOWED_ORIGINS",
	"PRODUCTION",
}

// withCleanEnv clears all config env vars for the test and restores them after.
func withCleanEnv(t *testing.T) {
	t.Helper()
	saved := make(map[string]string)
	for _, key := range allEnvKeys {
		saved[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for key, val := range saved {
			if val == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, val)
			}
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	withCleanEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL, got %s", cfg.Database.URL)
	}
	if cfg.MarketData.BaseURL != "https://www.alphavantage.co/query" {
		t.Errorf("unexpected market data base URL: %s", cfg.MarketData.BaseURL)
	}
	if cfg.Fundamentals.BaseURL != "https://financialmodelingprep.com/api/v3" {
		t.Errorf("unexpected fundamentals base URL: %s", cfg.Fundamentals.BaseURL)
	}
	if cfg.Analysis.LookbackBars != 365 {
		t.Errorf("expected 365 lookback bars, got %d", cfg.Analysis.LookbackBars)
	}
	if cfg.Analysis.WeightMinervini != 0.35 || cfg.Analysis.WeightWeinstein != 0.35 ||
		cfg.Analysis.WeightLynch != 0.15 || cfg.Analysis.WeightTechnical != 0.15 {
		t.Errorf("unexpected default weights: %+v", cfg.Analysis)
	}
	if cfg.Scanner.MaxConcurrent != 5 {
		t.Errorf("expected 5 concurrent analyses, got %d", cfg.Scanner.MaxConcurrent)
	}
	if cfg.Scanner.DefaultUniverse != "nifty50" {
		t.Errorf("expected nifty50 default universe, got %s", cfg.Scanner.DefaultUniverse)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.HTTP.Port)
	}
	if cfg.Production {
		t.Error("production should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	withCleanEnv(t)

	os.Setenv("DATABASE_URL", "postgres://localhost/chartanalyzer")
	os.Setenv("MARKET_DATA_API_KEY", "md-key")
	os.Setenv("FUNDAMENTALS_API_KEY", "fn-key")
	os.Setenv("SCANNER_MAX_CONCURRENT", "10")
	os.Setenv("SCANNER_DEFAULT_UNIVERSE", "nifty100")
	os.Setenv("PORT", "9000")
	os.Setenv("PRODUCTION", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.URL != "postgres://localhost/chartanalyzer" {
		t.Errorf("database URL not loaded: %s", cfg.Database.URL)
	}
	if cfg.MarketData.APIKey != "md-key" {
		t.Errorf("market data key not loaded: %s", cfg.MarketData.APIKey)
	}
	if cfg.Scanner.MaxConcurrent != 10 {
		t.Errorf("scanner concurrency not loaded: %d", cfg.Scanner.MaxConcurrent)
	}
	if cfg.Scanner.DefaultUniverse != "nifty100" {
		t.Errorf("default universe not loaded: %s", cfg.Scanner.DefaultUniverse)
	}
	if cfg.HTTP.Port != "9000" {
		t.Errorf("port not loaded: %s", cfg.HTTP.Port)
	}
	if !cfg.Production {
		t.Error("production flag not loaded")
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	withCleanEnv(t)

	os.Setenv("STRATEGY_WEIGHT_MINERVINI", "0.9")
	os.Setenv("STRATEGY_WEIGHT_WEINSTEIN", "0.9")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for weights not summing to 1.0")
	}
	if !strings.Contains(err.Error(), "must sum to 1.0") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"weights sum too high", func(c *Config) { c.Analysis.WeightMinervini = 0.9 }, true},
		{"negative weight", func(c *Config) {
			c.Analysis.WeightLynch = -0.15
			c.Analysis.WeightMinervini = 0.65
		}, true},
		{"zero lookback", func(c *Config) { c.Analysis.LookbackBars = 0 }, true},
		{"zero concurrency", func(c *Config) { c.Scanner.MaxConcurrent = 0 }, true},
		{"zero timeout", func(c *Config) { c.Scanner.AnalysisTimeoutSec = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFeatureProbes(t *testing.T) {
	cfg := NewTestConfig()

	if cfg.HasDatabase() {
		t.Error("test config should not have a database")
	}
	if cfg.HasMarketData() {
		t.Error("test config should not have a market data key")
	}
	if cfg.HasFundamentals() {
		t.Error("test config should not have a fundamentals key")
	}

	cfg.Database.URL = "postgres://localhost/x"
	cfg.MarketData.APIKey = "k"
	cfg.Fundamentals.APIKey = "k"

	if !cfg.HasDatabase() || !cfg.HasMarketData() || !cfg.HasFundamentals() {
		t.Error("feature probes should report configured services")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	withCleanEnv(t)

	if got := getEnvString("SCANNER_DEFAULT_UNIVERSE", "nifty50"); got != "nifty50" {
		t.Errorf("expected default, got %s", got)
	}
	os.Setenv("SCANNER_DEFAULT_UNIVERSE", "watchlist")
	if got := getEnvString("SCANNER_DEFAULT_UNIVERSE", "nifty50"); got != "watchlist" {
		t.Errorf("expected override, got %s", got)
	}

	os.Setenv("SCANNER_MAX_CONCURRENT", "not-a-number")
	if got := getEnvInt("SCANNER_MAX_CONCURRENT", 5); got != 5 {
		t.Errorf("bad int should fall back to default, got %d", got)
	}
	os.Setenv("SCANNER_MAX_CONCURRENT", "-2")
	if got := getEnvInt("SCANNER_MAX_CONCURRENT", 5); got != 5 {
		t.Errorf("non-positive int should fall back to default, got %d", got)
	}

	os.Setenv("STRATEGY_WEIGHT_LYNCH", "1.5")
	if got := getEnvFloat("STRATEGY_WEIGHT_LYNCH", 0.15); got != 0.15 {
		t.Errorf("out-of-range float should fall back to default, got %f", got)
	}

	os.Setenv("PRODUCTION", "yes-please")
	if got := getEnvBool("PRODUCTION", false); got {
		t.Error("unparseable bool should fall back to default")
	}
}

func TestNewTestConfig(t *testing.T) {
	cfg := NewTestConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("test config should validate: %v", err)
	}
}
