package strategies

import (
	"fmt"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// LynchStrategy scores a symbol with Peter Lynch's GARP approach. When
// fundamental data is available the score comes entirely from the
// fundamental GARP scorer; otherwise a simplified technical fallback is
// used and the result carries an explicit warning about the missing data.
type LynchStrategy struct {
	fundamentals *FundamentalScorer
}

// NewLynchStrategy creates the scorer.
func NewLynchStrategy() *LynchStrategy {
	return &LynchStrategy{fundamentals: NewFundamentalScorer()}
}

// Name identifies the strategy in combined output.
func (s *LynchStrategy) Name() string { return "Lynch GARP Approach" }

// Analyze scores the bar history, preferring fundamentals when supplied.
// The returned FundamentalScore is non-nil only when the GARP path ran.
func (s *LynchStrategy) Analyze(bars []models.Bar, ind *models.IndicatorSet, fundamentals *models.FundamentalData) (StrategyResult, *models.FundamentalScore) {
	if len(bars) < 50 {
		return insufficientResult("Need at least 50 bars of data"), nil
	}

	if fundamentals.HasSufficientData() {
		if fs := s.fundamentals.Score(fundamentals); fs != nil {
			signal, conviction := signalFromScore(fs.Score)
			return StrategyResult{
				Score:          fs.Score,
				BullishFactors: fs.BullishFactors,
				BearishFactors: fs.BearishFactors,
				Warnings:       fs.Warnings,
				Signal:         signal,
				Conviction:     conviction,
			}, fs
		}
	}

	return s.technicalFallback(bars, ind), nil
}

// technicalFallback is a coarse trend-and-momentum score used when no
// fundamental data is available. It starts from a neutral 40 so a purely
// technical read can never reach the high-conviction bands on its own.
func (s *LynchStrategy) technicalFallback(bars []models.Bar, ind *models.IndicatorSet) StrategyResult {
	var bullish, bearish []string
	warnings := []string{"Fundamental data unavailable - scoring on technical factors only"}

	score := 40.0
	closes := models.Closes(bars)
	currentPrice := closes[len(closes)-1]

	if sma50, ok := truthy(ind, models.IndSMA50); ok && currentPrice > sma50 {
		score += 10
		bullish = append(bullish, "Trading above 50-day MA")
	}
	if sma200, ok := truthy(ind, models.IndSMA200); ok && currentPrice > sma200 {
		score += 10
		bullish = append(bullish, "Trading above 200-day MA")
	}

	if rsi, ok := lookup(ind, models.IndRSI14); ok {
		switch {
		case rsi > 40 && rsi < 70:
			score += 10
			bullish = append(bullish, fmt.Sprintf("RSI in bullish zone (%.1f)", rsi))
		case rsi >= 70:
			score -= 5
			warnings = append(warnings, fmt.Sprintf("RSI overbought (%.1f)", rsi))
		case rsi <= 30:
			score += 5
			bullish = append(bullish, fmt.Sprintf("RSI oversold - potential bounce (%.1f)", rsi))
		}
	}

	score = clamp(score, 0, 100)
	signal, conviction := signalFromScore(score)

	return StrategyResult{
		Score:          score,
		BullishFactors: bullish,
		BearishFactors: bearish,
		Warnings:       warnings,
		Signal:         signal,
		Conviction:     conviction,
	}
}
