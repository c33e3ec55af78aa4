package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// External service configurations
	MarketData   MarketDataConfig
	Fundamentals FundamentalsConfig

	// Analysis configuration
	Analysis AnalysisConfig

	// Scanner configuration
	Scanner ScannerConfig

	// HTTP configuration
	HTTP HTTPConfig

	// Production selects JSON logging
	Production bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// MarketDataConfig holds market data API configuration
type MarketDataConfig struct {
	APIKey  string
	BaseURL string
}

// FundamentalsConfig holds fundamentals API configuration
type FundamentalsConfig struct {
	APIKey  string
	BaseURL string
}

// AnalysisConfig holds analysis pipeline configuration
type AnalysisConfig struct {
	LookbackBars    int    // daily bars fetched per symbol
	BenchmarkSymbol string // index used for relative strength

	// Strategy weights for the composite score; must sum to 1.0
	WeightMinervini float64
	WeightWeinstein float64
	WeightLynch     float64
	WeightTechnical float64
}

// ScannerConfig holds market scanner configuration
type ScannerConfig struct {
	MaxConcurrent      int    // max concurrent analyses (default: 5)
	AnalysisTimeoutSec int    // per-symbol analysis timeout in seconds
	MaxResults         int    // default result cap per scan
	DefaultUniverse    string // universe used when none is given
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port               string
	CORSAllowedOrigins string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		MarketData: MarketDataConfig{
			APIKey:  os.Getenv("MARKET_DATA_API_KEY"),
			BaseURL: getEnvString("MARKET_DATA_BASE_URL", "https://www.alphavantage.co/query"),
		},
		Fundamentals: FundamentalsConfig{
			APIKey:  os.Getenv("FUNDAMENTALS_API_KEY"),
			BaseURL: getEnvString("FUNDAMENTALS_BASE_URL", "https://financialmodelingprep.com/api/v3"),
		},
		Analysis: AnalysisConfig{
			LookbackBars:    getEnvInt("ANALYSIS_LOOKBACK_BARS", 365),
			BenchmarkSymbol: getEnvString("ANALYSIS_BENCHMARK_SYMBOL", "SPY"),
			WeightMinervini: getEnvFloat("STRATEGY_WEIGHT_MINERVINI", 0.35),
			WeightWeinstein: getEnvFloat("STRATEGY_WEIGHT_WEINSTEIN", 0.35),
			WeightLynch:     getEnvFloat("STRATEGY_WEIGHT_LYNCH", 0.15),
			WeightTechnical: getEnvFloat("STRATEGY_WEIGHT_TECHNICAL", 0.15),
		},
		Scanner: ScannerConfig{
			MaxConcurrent:      getEnvInt("SCANNER_MAX_CONCURRENT", 5),
			AnalysisTimeoutSec: getEnvInt("SCANNER_ANALYSIS_TIMEOUT_SEC", 120),
			MaxResults:         getEnvInt("SCANNER_MAX_RESULTS", 50),
			DefaultUniverse:    getEnvString("SCANNER_DEFAULT_UNIVERSE", "nifty50"),
		},
		HTTP: HTTPConfig{
			Port:               getEnvString("PORT", "8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
		},
		Production: getEnvBool("PRODUCTION", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate strategy weights sum to 1.0
	weightSum := c.Analysis.WeightMinervini + c.Analysis.WeightWeinstein +
		c.Analysis.WeightLynch + c.Analysis.WeightTechnical
	if weightSum < 0.99 || weightSum > 1.01 {
		return fmt.Errorf("strategy weights must sum to 1.0, got %.2f (minervini=%.2f, weinstein=%.2f, lynch=%.2f, technical=%.2f)",
			weightSum, c.Analysis.WeightMinervini, c.Analysis.WeightWeinstein,
			c.Analysis.WeightLynch, c.Analysis.WeightTechnical)
	}

	// Validate weight ranges
	if c.Analysis.WeightMinervini < 0 || c.Analysis.WeightMinervini > 1 {
		return fmt.Errorf("STRATEGY_WEIGHT_MINERVINI must be between 0 and 1, got %.2f", c.Analysis.WeightMinervini)
	}
	if c.Analysis.WeightWeinstein < 0 || c.Analysis.WeightWeinstein > 1 {
		return fmt.Errorf("STRATEGY_WEIGHT_WEINSTEIN must be between 0 and 1, got %.2f", c.Analysis.WeightWeinstein)
	}
	if c.Analysis.WeightLynch < 0 || c.Analysis.WeightLynch > 1 {
		return fmt.Errorf("STRATEGY_WEIGHT_LYNCH must be between 0 and 1, got %.2f", c.Analysis.WeightLynch)
	}
	if c.Analysis.WeightTechnical < 0 || c.Analysis.WeightTechnical > 1 {
		return fmt.Errorf("STRATEGY_WEIGHT_TECHNICAL must be between 0 and 1, got %.2f", c.Analysis.WeightTechnical)
	}

	// Validate positive integers
	if c.Analysis.LookbackBars <= 0 {
		return fmt.Errorf("ANALYSIS_LOOKBACK_BARS must be positive, got %d", c.Analysis.LookbackBars)
	}
	if c.Scanner.MaxConcurrent <= 0 {
		return fmt.Errorf("SCANNER_MAX_CONCURRENT must be positive, got %d", c.Scanner.MaxConcurrent)
	}
	if c.Scanner.AnalysisTimeoutSec <= 0 {
		return fmt.Errorf("SCANNER_ANALYSIS_TIMEOUT_SEC must be positive, got %d", c.Scanner.AnalysisTimeoutSec)
	}

	return nil
}

// HasDatabase returns true if database configuration is available
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasMarketData returns true if market data API configuration is available
func (c *Config) HasMarketData() bool {
	return c.MarketData.APIKey != ""
}

// HasFundamentals returns true if fundamentals API configuration is available
func (c *Config) HasFundamentals() bool {
	return c.Fundamentals.APIKey != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil && parsed >= 0 && parsed <= 1 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL: "",
		},
		MarketData: MarketDataConfig{
			APIKey:  "",
			BaseURL: "https://www.alphavantage.co/query",
		},
		Fundamentals: FundamentalsConfig{
			APIKey:  "",
			BaseURL: "https://financialmodelingprep.com/api/v3",
		},
		Analysis: AnalysisConfig{
			LookbackBars:    365,
			BenchmarkSymbol: "SPY",
			WeightMinervini: 0.35,
			WeightWeinstein: 0.35,
			WeightLynch:     0.15,
			WeightTechnical: 0.15,
		},
		Scanner: ScannerConfig{
			MaxConcurrent:      5,
			AnalysisTimeoutSec: 120,
			MaxResults:         50,
			DefaultUniverse:    "nifty50",
		},
		HTTP: HTTPConfig{
			Port:               "8080",
			CORSAllowedOrigins: "*",
		},
	}
}
