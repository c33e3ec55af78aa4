package services

import (
	"context"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// MarketDataProvider defines the interface for price history operations
type MarketDataProvider interface {
	GetHistoricalBars(ctx context.Context, symbol, timeframe string) ([]models.Bar, error)
}

// FundamentalsProvider defines the interface for fundamental data operations
type FundamentalsProvider interface {
	GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalData, error)
	GetCompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error)
}

// CompanyProfile is the descriptive company data attached to analyses.
type CompanyProfile struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Exchange    string `json:"exchange,omitempty"`
}

// Compile-time interface verification
var _ MarketDataProvider = (*MarketDataService)(nil)
var _ FundamentalsProvider = (*FundamentalsService)(nil)
