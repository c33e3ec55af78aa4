package analysis

import (
	"math"
	"strings"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// TrendConfig holds trend and stage analysis periods.
type TrendConfig struct {
	ShortMAPeriod  int
	MediumMAPeriod int
	LongMAPeriod   int
	WeeklyMAPeriod int // daily-bar equivalent of the 30-week MA
}

// DefaultTrendConfig returns the standard periods.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		ShortMAPeriod:  20,
		MediumMAPeriod: 50,
		LongMAPeriod:   200,
		WeeklyMAPeriod: 150,
	}
}

// TrendAnalyzer classifies directional trend strength and the Weinstein
// market-cycle stage.
type TrendAnalyzer struct {
	cfg TrendConfig
}

// NewTrendAnalyzer creates an analyzer with the given config.
func NewTrendAnalyzer(cfg TrendConfig) *TrendAnalyzer {
	return &TrendAnalyzer{cfg: cfg}
}

// AnalyzeTrend scores the current trend. Strength is 0..100 centered on 50;
// >=65 is bullish, <=35 bearish, else neutral.
func (a *TrendAnalyzer) AnalyzeTrend(bars []models.Bar) (models.TrendType, float64, string) {
	if len(bars) < 50 {
		return models.TrendNeutral, 0, "Insufficient data"
	}

	closes := models.Closes(bars)
	currentPrice := lastOf(closes)

	sma20 := rollingMean(closes, a.cfg.ShortMAPeriod)
	sma50 := rollingMean(closes, a.cfg.MediumMAPeriod)

	slope20 := slopePct(sma20, 10)
	slope50 := slopePct(sma50, 20)

	hhHL := a.checkHigherHighsLows(bars, 20)
	llLH := a.checkLowerLowsHighs(bars, 20)

	score := 0.0
	var notes []string

	currentSMA20 := lastOf(sma20)
	currentSMA50 := lastOf(sma50)

	if currentPrice > currentSMA20 {
		score += 15
		notes = append(notes, "Price above SMA20")
	} else {
		score -= 10
	}

	if currentPrice > currentSMA50 {
		score += 15
		notes = append(notes, "Price above SMA50")
	} else {
		score -= 15
	}

	if currentSMA20 > currentSMA50 {
		score += 15
		notes = append(notes, "Bullish MA alignment")
	} else {
		score -= 10
	}

	if slope20 > 0 {
		score += 10
	} else {
		score -= 10
	}

	if slope50 > 0 {
		score += 10
	} else {
		score -= 10
	}

	if hhHL {
		score += 20
		notes = append(notes, "Higher highs and higher lows")
	} else if llLH {
		score -= 20
		notes = append(notes, "Lower highs and lower lows")
	}

	if len(closes) >= a.cfg.LongMAPeriod {
		currentSMA200 := mean(tail(closes, a.cfg.LongMAPeriod))
		if currentPrice > currentSMA200 {
			score += 15
			notes = append(notes, "Price above SMA200")
		} else {
			score -= 10
		}
	}

	strength := math.Max(0, math.Min(100, 50+score))

	trend := models.TrendNeutral
	if strength >= 65 {
		trend = models.TrendBullish
	} else if strength <= 35 {
		trend = models.TrendBearish
	}

	trendNotes := "Mixed signals"
	if len(notes) > 0 {
		trendNotes = strings.Join(notes, "; ")
	}
	return trend, strength, trendNotes
}

// DetermineStage classifies the Weinstein stage from the 150-bar trend line,
// its trailing slope and the higher-high/lower-low balance. The decision
// table is order-sensitive; the first matching branch wins and the slope
// deadband is 0.01.
func (a *TrendAnalyzer) DetermineStage(bars []models.Bar) (models.WeinsteinStage, string) {
	if len(bars) < 200 {
		return models.StageBasing, "Insufficient data for stage analysis"
	}

	closes := models.Closes(bars)
	currentPrice := lastOf(closes)

	weeklyMA := rollingMean(closes, a.cfg.WeeklyMAPeriod)
	currentWeeklyMA := lastOf(weeklyMA)

	maSlope := slopePct(weeklyMA, a.cfg.WeeklyMAPeriod)
	priceAboveMA := currentPrice > currentWeeklyMA

	lookback := min(100, len(bars)-1)
	recentHighs := tail(models.Highs(bars), lookback)
	recentLows := tail(models.Lows(bars), lookback)

	higherHighs := countIncreases(recentHighs, 20)
	lowerLows := countDecreases(recentLows, 20)

	switch {
	case priceAboveMA && maSlope > 0.01:
		if higherHighs > lowerLows {
			return models.StageAdvancing, "Stage 2: Advancing - BUY ZONE"
		}
		return models.StageAdvancing, "Stage 2: Advancing (consolidating)"

	case !priceAboveMA && maSlope < -0.01:
		if lowerLows > higherHighs {
			return models.StageDeclining, "Stage 4: Declining - AVOID/SHORT"
		}
		return models.StageDeclining, "Stage 4: Declining (potential bottom)"

	case math.Abs(maSlope) <= 0.01:
		priorMA := currentWeeklyMA
		if len(weeklyMA) > lookback {
			priorMA = weeklyMA[len(weeklyMA)-lookback]
		}
		priorPrice := currentPrice
		if len(closes) > lookback {
			priorPrice = closes[len(closes)-lookback]
		}

		// NaN prior MA (window not yet full at that index) matches neither
		// crossing branch and falls through to the ambiguous label.
		if priorPrice < priorMA && priceAboveMA {
			return models.StageBasing, "Stage 1: Basing - Watch for breakout"
		}
		if priorPrice > priorMA && !priceAboveMA {
			return models.StageTopping, "Stage 3: Topping - Consider selling"
		}
		return models.StageBasing, "Stage 1/3: Consolidating - Wait for direction"

	default:
		return models.StageBasing, "Transitional - Monitor for direction"
	}
}

// checkHigherHighsLows reports whether at least 60% of consecutive deltas
// are rising for both highs and lows over the lookback window.
func (a *TrendAnalyzer) checkHigherHighsLows(bars []models.Bar, lookback int) bool {
	if len(bars) < lookback {
		return false
	}
	recent := lastBars(bars, lookback)
	highs := models.Highs(recent)
	lows := models.Lows(recent)

	hh := countIncreases(highs, 0)
	hl := countIncreases(lows, 0)
	return float64(hh) > float64(len(highs))*0.6 && float64(hl) > float64(len(lows))*0.6
}

// checkLowerLowsHighs is the bearish mirror of checkHigherHighsLows.
func (a *TrendAnalyzer) checkLowerLowsHighs(bars []models.Bar, lookback int) bool {
	if len(bars) < lookback {
		return false
	}
	recent := lastBars(bars, lookback)
	highs := models.Highs(recent)
	lows := models.Lows(recent)

	lh := countDecreases(highs, 0)
	ll := countDecreases(lows, 0)
	return float64(lh) > float64(len(highs))*0.6 && float64(ll) > float64(len(lows))*0.6
}

// IsUptrend reports whether the trend classifies as bullish.
func (a *TrendAnalyzer) IsUptrend(bars []models.Bar) bool {
	trend, _, _ := a.AnalyzeTrend(bars)
	return trend == models.TrendBullish
}

// IsDowntrend reports whether the trend classifies as bearish.
func (a *TrendAnalyzer) IsDowntrend(bars []models.Bar) bool {
	trend, _, _ := a.AnalyzeTrend(bars)
	return trend == models.TrendBearish
}
