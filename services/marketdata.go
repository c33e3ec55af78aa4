package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/observability"
)

// MarketDataService fetches historical price data from Alpha Vantage
type MarketDataService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewMarketDataService creates a new MarketDataService instance. An empty
// baseURL selects the public Alpha Vantage endpoint.
func NewMarketDataService(apiKey, baseURL string) *MarketDataService {
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co/query"
	}
	return &MarketDataService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// timeSeriesBar is one OHLCV entry in an Alpha Vantage time series response
type timeSeriesBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// timeSeriesResponse covers both the daily and weekly series endpoints.
// Error Message / Note / Information signal API-level failures with a 200.
type timeSeriesResponse struct {
	DailySeries  map[string]timeSeriesBar `json:"Time Series (Daily)"`
	WeeklySeries map[string]timeSeriesBar `json:"Weekly Time Series"`
	ErrorMessage string                   `json:"Error Message"`
	Note         string                   `json:"Note"`
	Information  string                   `json:"Information"`
}

// GetHistoricalBars fetches the full history for a symbol. Supported
// timeframes are "1d" and "1wk". Bars are returned oldest first and
// validated before they reach the analysis pipeline.
func (s *MarketDataService) GetHistoricalBars(ctx context.Context, symbol, timeframe string) ([]models.Bar, error) {
	function := ""
	switch timeframe {
	case "", "1d":
		function = "TIME_SERIES_DAILY"
	case "1wk":
		function = "TIME_SERIES_WEEKLY"
	default:
		return nil, fmt.Errorf("unsupported timeframe %q", timeframe)
	}

	return WithCircuitBreaker(ctx, BreakerMarketData, func() ([]models.Bar, error) {
		var bars []models.Bar

		metrics := observability.GetMetrics()
		metrics.RecordExternalAPIRequest("marketdata", "historical_bars")
		timer := metrics.NewTimer()
		defer timer.ObserveExternalAPI("marketdata", "historical_bars")

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("function", function)
			params.Set("symbol", symbol)
			params.Set("outputsize", "full")
			params.Set("apikey", s.apiKey)

			reqURL := s.baseURL + "?" + params.Encode()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to fetch time series: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("time series API returned status %d", resp.StatusCode)
			}

			var seriesResp timeSeriesResponse
			if err := json.NewDecoder(resp.Body).Decode(&seriesResp); err != nil {
				return fmt.Errorf("failed to decode time series response: %w", err)
			}

			if seriesResp.ErrorMessage != "" {
				return fmt.Errorf("time series API error: %s", seriesResp.ErrorMessage)
			}
			if seriesResp.Note != "" {
				return fmt.Errorf("time series API rate limited: %s", seriesResp.Note)
			}
			if seriesResp.Information != "" {
				return fmt.Errorf("time series API rejected request: %s", seriesResp.Information)
			}

			series := seriesResp.DailySeries
			if function == "TIME_SERIES_WEEKLY" {
				series = seriesResp.WeeklySeries
			}
			if len(series) == 0 {
				return fmt.Errorf("no time series data for symbol %s", symbol)
			}

			bars, err = parseTimeSeries(series)
			if err != nil {
				return err
			}
			return models.ValidateBars(bars)
		})

		if err != nil {
			observability.GetMetrics().RecordExternalAPIError("marketdata", "historical_bars", "fetch_failed")
			return nil, err
		}

		return bars, nil
	})
}

// parseTimeSeries converts the date-keyed series map into bars sorted
// oldest first.
func parseTimeSeries(series map[string]timeSeriesBar) ([]models.Bar, error) {
	dates := make([]string, 0, len(series))
	for date := range series {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	bars := make([]models.Bar, 0, len(dates))
	for _, date := range dates {
		ts, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse series date %q: %w", date, err)
		}

		entry := series[date]
		bar := models.Bar{Timestamp: ts}
		for _, field := range []struct {
			raw  string
			dest *float64
		}{
			{entry.Open, &bar.Open},
			{entry.High, &bar.High},
			{entry.Low, &bar.Low},
			{entry.Close, &bar.Close},
			{entry.Volume, &bar.Volume},
		} {
			v, err := strconv.ParseFloat(field.raw, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse series value %q for %s: %w", field.raw, date, err)
			}
			*field.dest = v
		}

		if err := bar.Validate(); err != nil {
			return nil, fmt.Errorf("invalid bar for %s: %w", date, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}
