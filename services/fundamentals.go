package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/observability"
)

// FundamentalsService fetches fundamental metrics and company profiles
// from Financial Modeling Prep
type FundamentalsService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewFundamentalsService creates a new FundamentalsService instance. An empty
// baseURL selects the public FMP endpoint.
func NewFundamentalsService(apiKey, baseURL string) *FundamentalsService {
	if baseURL == "" {
		baseURL = "https://financialmodelingprep.com/api/v3"
	}
	return &FundamentalsService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// fmpRatiosResponse represents key TTM ratios from the FMP API. Ratios are
// fractions; the scorer works in percent.
type fmpRatiosResponse struct {
	Symbol           string   `json:"symbol"`
	PERatio          *float64 `json:"peRatioTTM"`
	PriceToBookRatio *float64 `json:"priceToBookRatioTTM"`
	ReturnOnEquity   *float64 `json:"returnOnEquityTTM"`
	ReturnOnCapital  *float64 `json:"returnOnCapitalEmployedTTM"`
	DebtEquityRatio  *float64 `json:"debtEquityRatioTTM"`
}

// fmpGrowthResponse represents year-over-year growth rates from the FMP API
type fmpGrowthResponse struct {
	Symbol        string   `json:"symbol"`
	EPSGrowth     *float64 `json:"epsgrowth"`
	RevenueGrowth *float64 `json:"revenueGrowth"`
}

// fmpProfileResponse represents a company profile from the FMP API
type fmpProfileResponse struct {
	Symbol            string `json:"symbol"`
	CompanyName       string `json:"companyName"`
	Sector            string `json:"sector"`
	Industry          string `json:"industry"`
	ExchangeShortName string `json:"exchangeShortName"`
}

// GetFundamentals fetches the GARP scoring inputs for a symbol. A symbol
// with no published ratios yields data that fails HasSufficientData rather
// than an error, so the Lynch scorer can fall back to technicals.
func (s *FundamentalsService) GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalData, error) {
	return WithCircuitBreaker(ctx, BreakerFundamentals, func() (*models.FundamentalData, error) {
		data := &models.FundamentalData{Symbol: symbol}

		metrics := observability.GetMetrics()
		metrics.RecordExternalAPIRequest("fundamentals", "ratios")
		timer := metrics.NewTimer()
		defer timer.ObserveExternalAPI("fundamentals", "ratios")

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			var ratios []fmpRatiosResponse
			if err := s.getJSON(ctx, fmt.Sprintf("/ratios-ttm/%s", url.PathEscape(symbol)), &ratios); err != nil {
				return err
			}
			if len(ratios) > 0 {
				r := ratios[0]
				data.PERatio = r.PERatio
				data.PBRatio = r.PriceToBookRatio
				data.ROE = asPercent(r.ReturnOnEquity)
				data.ROCE = asPercent(r.ReturnOnCapital)
				data.DebtToEquity = r.DebtEquityRatio
			}

			var growth []fmpGrowthResponse
			if err := s.getJSON(ctx, fmt.Sprintf("/financial-growth/%s?period=annual&limit=1", url.PathEscape(symbol)), &growth); err != nil {
				return err
			}
			if len(growth) > 0 {
				data.EPSGrowth = asPercent(growth[0].EPSGrowth)
				data.RevenueGrowth = asPercent(growth[0].RevenueGrowth)
			}

			return nil
		})

		if err != nil {
			observability.GetMetrics().RecordExternalAPIError("fundamentals", "ratios", "fetch_failed")
			return nil, err
		}

		return data, nil
	})
}

// GetCompanyProfile returns descriptive company data for a symbol
func (s *FundamentalsService) GetCompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	return WithCircuitBreaker(ctx, BreakerFundamentals, func() (*CompanyProfile, error) {
		var profile *CompanyProfile

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			var profiles []fmpProfileResponse
			if err := s.getJSON(ctx, fmt.Sprintf("/profile/%s", url.PathEscape(symbol)), &profiles); err != nil {
				return err
			}
			if len(profiles) == 0 {
				return fmt.Errorf("no profile data for symbol %s", symbol)
			}

			p := profiles[0]
			profile = &CompanyProfile{
				Symbol:      p.Symbol,
				CompanyName: p.CompanyName,
				Sector:      p.Sector,
				Industry:    p.Industry,
				Exchange:    p.ExchangeShortName,
			}
			return nil
		})

		if err != nil {
			return nil, err
		}

		return profile, nil
	})
}

// getJSON performs a GET against the FMP API and decodes the response.
// The path may already carry query parameters; the API key is appended.
func (s *FundamentalsService) getJSON(ctx context.Context, path string, dest any) error {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	reqURL := s.baseURL + path + sep + "apikey=" + url.QueryEscape(s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fundamentals API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", path, err)
	}
	return nil
}

// asPercent converts a fractional ratio to percent, preserving nil.
func asPercent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	pct := *v * 100
	return &pct
}
