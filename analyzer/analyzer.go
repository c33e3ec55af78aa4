// Package analyzer orchestrates the full analysis pipeline: price history,
// indicators, trend and stage, patterns, levels, volume, the strategy
// composite and the resulting trade plan.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pankajhirway/ChartAnalyzer/analysis"
	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/observability"
	"github.com/pankajhirway/ChartAnalyzer/services"
	"github.com/pankajhirway/ChartAnalyzer/strategies"
)

// ErrInsufficientData is returned when a symbol has too little history to
// analyze. The API maps it to a 404.
var ErrInsufficientData = errors.New("insufficient data for analysis")

// minAnalysisBars is the shortest history the full pipeline accepts.
const minAnalysisBars = 100

// minIndicatorBars is the shortest history the indicators-only path accepts.
const minIndicatorBars = 50

// Analyzer coordinates all analysis components.
type Analyzer struct {
	marketData   services.MarketDataProvider
	fundamentals services.FundamentalsProvider

	indicators *analysis.IndicatorEngine
	patterns   *analysis.PatternDetector
	levels     *analysis.LevelDetector
	trend      *analysis.TrendAnalyzer
	volume     *analysis.VolumeAnalyzer
	strategy   *strategies.CompositeStrategy
}

// New creates an analyzer. The fundamentals provider is optional; when nil
// the Lynch scorer works from technicals alone.
func New(marketData services.MarketDataProvider, fundamentals services.FundamentalsProvider, weights strategies.Weights) *Analyzer {
	trend := analysis.NewTrendAnalyzer(analysis.DefaultTrendConfig())
	return &Analyzer{
		marketData:   marketData,
		fundamentals: fundamentals,
		indicators:   analysis.NewIndicatorEngine(analysis.DefaultIndicatorConfig()),
		patterns:     analysis.NewPatternDetector(analysis.DefaultPatternConfig()),
		levels:       analysis.NewLevelDetector(analysis.DefaultLevelConfig()),
		trend:        trend,
		volume:       analysis.NewVolumeAnalyzer(analysis.DefaultVolumeConfig()),
		strategy:     strategies.NewCompositeStrategy(trend, weights),
	}
}

// Analyze fetches data for a symbol and runs the complete pipeline.
func (a *Analyzer) Analyze(ctx context.Context, symbol, timeframe string) (*models.AnalysisResult, error) {
	if timeframe == "" {
		timeframe = "1d"
	}

	metrics := observability.GetMetrics()
	metrics.RecordAnalysisRequest(symbol)
	timer := metrics.NewTimer()

	bars, err := a.marketData.GetHistoricalBars(ctx, symbol, timeframe)
	if err != nil {
		timer.ObserveAnalysis(symbol, "error")
		metrics.RecordAnalysisError(symbol, "fetch_failed")
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}

	var companyName string
	var fundamentalData *models.FundamentalData
	if a.fundamentals != nil {
		// Fundamental data is best effort; analysis proceeds without it.
		if profile, err := a.fundamentals.GetCompanyProfile(ctx, symbol); err == nil {
			companyName = profile.CompanyName
		}
		if data, err := a.fundamentals.GetFundamentals(ctx, symbol); err == nil {
			fundamentalData = data
		} else {
			observability.Warn("fundamental data unavailable", "symbol", symbol, "error", err)
		}
	}

	result, err := a.AnalyzeBars(symbol, timeframe, bars, fundamentalData)
	if err != nil {
		timer.ObserveAnalysis(symbol, "error")
		metrics.RecordAnalysisError(symbol, "insufficient_data")
		return nil, err
	}
	result.CompanyName = companyName

	timer.ObserveAnalysis(symbol, "success")
	return result, nil
}

// AnalyzeBars runs the pipeline over already-fetched bars. The scanner uses
// this to avoid refetching, and tests use it for determinism.
func (a *Analyzer) AnalyzeBars(symbol, timeframe string, bars []models.Bar, fundamentals *models.FundamentalData) (*models.AnalysisResult, error) {
	if len(bars) < minAnalysisBars {
		observability.Warn("insufficient data for analysis", "symbol", symbol, "bars", len(bars))
		return nil, fmt.Errorf("%w: %s has %d bars, need %d", ErrInsufficientData, symbol, len(bars), minAnalysisBars)
	}

	indicators := a.indicators.Compute(bars)

	trend, trendStrength, trendNotes := a.trend.AnalyzeTrend(bars)
	stage, stageDesc := a.trend.DetermineStage(bars)

	patterns := a.patterns.Detect(bars)
	support, resistance := a.levels.Detect(bars)
	volumeProfile := a.volume.Analyze(bars)

	strategyResult := a.strategy.Analyze(bars, &indicators, fundamentals)

	tradePlan := BuildTradeSuggestion(symbol, bars, &indicators, patterns, support, resistance, strategyResult)

	bullish := capFactors(strategyResult.BullishFactors, 5)
	bearish := capFactors(strategyResult.BearishFactors, 5)
	warnings := capFactors(strategyResult.Warnings, 3)

	if volumeProfile.AccumulationDetected {
		bullish = append(bullish, "Volume shows accumulation")
	}
	if volumeProfile.OnBreakout {
		bullish = append(bullish, "Breakout volume detected")
	}

	result := &models.AnalysisResult{
		Symbol:           strings.ToUpper(symbol),
		Timestamp:        time.Now(),
		Timeframe:        timeframe,
		CurrentPrice:     bars[len(bars)-1].Close,
		PrimaryTrend:     trend,
		TrendStrength:    trendStrength,
		TrendNotes:       trendNotes,
		WeinsteinStage:   stage,
		StageDescription: stageDesc,
		Scores:           strategyResult.Scores,
		DetectedPatterns: patterns,
		SupportLevels:    support,
		ResistanceLevels: resistance,
		Signal:           strategyResult.Signal,
		Conviction:       strategyResult.Conviction,
		VolumeRatio:      volumeProfile.VolumeRatio,
		TradeSuggestion:  tradePlan,
		Indicators:       indicators,
		BullishFactors:   bullish,
		BearishFactors:   bearish,
		Warnings:         warnings,
	}

	metrics := observability.GetMetrics()
	metrics.RecordSignal(string(strategyResult.Signal), strategyResult.Scores.CompositeScore)

	observability.Info("analysis completed",
		"symbol", symbol,
		"composite_score", strategyResult.Scores.CompositeScore,
		"signal", string(strategyResult.Signal),
	)

	return result, nil
}

// IndicatorsOnly computes just the indicator snapshot for a symbol.
func (a *Analyzer) IndicatorsOnly(ctx context.Context, symbol, timeframe string) (*models.IndicatorSet, error) {
	if timeframe == "" {
		timeframe = "1d"
	}

	bars, err := a.marketData.GetHistoricalBars(ctx, symbol, timeframe)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	if len(bars) < minIndicatorBars {
		return nil, fmt.Errorf("%w: %s has %d bars, need %d", ErrInsufficientData, symbol, len(bars), minIndicatorBars)
	}

	indicators := a.indicators.Compute(bars)
	return &indicators, nil
}

// capFactors copies at most limit factors. The copy keeps appended volume
// notes from mutating the strategy result's backing array.
func capFactors(factors []string, limit int) []string {
	if len(factors) > limit {
		factors = factors[:limit]
	}
	out := make([]string, len(factors))
	copy(out, factors)
	return out
}
