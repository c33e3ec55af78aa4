package strategies

import (
	"fmt"
	"math"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// MinerviniStrategy scores a symbol against Mark Minervini's SEPA trend
// template: MA stack alignment, volatility contraction, volume character,
// relative strength and the broader market regime.
//
// Sub-scores: Setup 25, VCP 25, Volume 20, Relative Strength 15, Market 15.
type MinerviniStrategy struct{}

// NewMinerviniStrategy creates the scorer.
func NewMinerviniStrategy() *MinerviniStrategy {
	return &MinerviniStrategy{}
}

// Name identifies the strategy in combined output.
func (s *MinerviniStrategy) Name() string { return "Minervini SEPA" }

// Analyze scores the bar history. At least 200 bars are required for the
// full trend template.
func (s *MinerviniStrategy) Analyze(bars []models.Bar, ind *models.IndicatorSet) StrategyResult {
	if len(bars) < 200 {
		return insufficientResult("Need at least 200 bars of data")
	}

	var bullish, bearish, warnings []string

	setupScore := s.scoreSetup(bars, ind, &bullish, &bearish, &warnings)
	vcpScore := s.scoreVCP(bars, &bullish)
	volumeScore := s.scoreVolume(bars, ind, &bullish, &bearish)
	rsScore := s.scoreRelativeStrength(bars, ind, &bullish, &warnings)
	marketScore := s.scoreMarket(ind, &bullish, &warnings)

	total := setupScore + vcpScore + volumeScore + rsScore + marketScore
	signal, conviction := signalFromScore(total)

	return StrategyResult{
		Score:          total,
		BullishFactors: bullish,
		BearishFactors: bearish,
		Warnings:       warnings,
		Signal:         signal,
		Conviction:     conviction,
	}
}

// scoreSetup evaluates the trend template: MA stack order, long MA slopes
// and position within the 52-week range. 0-25 points.
func (s *MinerviniStrategy) scoreSetup(bars []models.Bar, ind *models.IndicatorSet, bullish, bearish, warnings *[]string) float64 {
	score := 0.0
	closes := models.Closes(bars)
	currentPrice := closes[len(closes)-1]

	sma50, ok50 := truthy(ind, models.IndSMA50)
	sma150, ok150 := truthy(ind, models.IndSMA150)
	sma200, ok200 := truthy(ind, models.IndSMA200)

	if ok50 && ok150 && ok200 {
		switch {
		case currentPrice > sma50 && sma50 > sma150 && sma150 > sma200:
			score += 10
			*bullish = append(*bullish, "Perfect MA alignment: Price > SMA50 > SMA150 > SMA200")
		case currentPrice > sma50 && sma50 > sma150:
			score += 7
			*bullish = append(*bullish, "Good MA alignment: Price > SMA50 > SMA150")
		case currentPrice > sma50:
			score += 3
			*bullish = append(*bullish, "Price above SMA50")
		default:
			*bearish = append(*bearish, "Price below key moving averages")
			score -= 5
		}
	}

	if len(closes) >= 200 {
		// Slope over the trailing 20 sessions. The prior sample is NaN
		// while the rolling window is still filling, which fails the
		// comparison and counts as not trending up.
		slope150 := maSlope(closes, 150, 20)
		if slope150 > 0 {
			score += 3
			*bullish = append(*bullish, "SMA150 trending up")
		} else {
			*bearish = append(*bearish, "SMA150 not trending up")
		}

		slope200 := maSlope(closes, 200, 20)
		if slope200 > 0 {
			score += 2
			*bullish = append(*bullish, "SMA200 trending up")
		} else {
			*bearish = append(*bearish, "SMA200 not trending up")
		}
	}

	yearCloses := tailFloats(closes, 252)
	low52 := minFloat(yearCloses)
	high52 := maxFloat(yearCloses)

	pctFromLow := (currentPrice - low52) / low52 * 100
	if pctFromLow >= 30 {
		score += 3
		*bullish = append(*bullish, fmt.Sprintf("At least 30%% above 52-week low (%.1f%%)", pctFromLow))
	} else {
		*warnings = append(*warnings, fmt.Sprintf("Only %.1f%% above 52-week low (need 30%%)", pctFromLow))
	}

	pctFromHigh := (high52 - currentPrice) / high52 * 100
	if pctFromHigh <= 25 {
		score += 4
		*bullish = append(*bullish, fmt.Sprintf("Within 25%% of 52-week high (%.1f%% below)", pctFromHigh))
	} else {
		*warnings = append(*warnings, fmt.Sprintf("Too far from 52-week high (%.1f%% below)", pctFromHigh))
	}

	if ok50 && currentPrice > sma50 {
		score += 3
	}

	return clamp(score, 0, 25)
}

// scoreVCP looks for a volatility contraction pattern: successive swing
// ranges that shrink monotonically. 0-25 points.
func (s *MinerviniStrategy) scoreVCP(bars []models.Bar, bullish *[]string) float64 {
	if len(bars) < 100 {
		return 0
	}
	score := 0.0

	lookback := min(100, len(bars))
	data := tailBars(bars, lookback)
	highs := models.Highs(data)
	lows := models.Lows(data)

	pivots := findPivots(highs, lows, 5)
	if len(pivots) < 3 {
		return 0
	}

	var contractions []float64
	// Pairing walks pivots two at a time by position, not by alternating
	// type, so a same-type pair falls back to the partner's value.
	for i := 0; i < len(pivots)-1; i += 2 {
		pivotHigh := pivots[i+1].value
		if pivots[i].kind == pivotKindHigh {
			pivotHigh = pivots[i].value
		}
		pivotLow := pivots[i+1].value
		if pivots[i].kind == pivotKindLow {
			pivotLow = pivots[i].value
		}
		if pivotHigh > pivotLow {
			contractions = append(contractions, (pivotHigh-pivotLow)/pivotHigh*100)
		}
	}
	if len(contractions) == 0 {
		return 0
	}

	isContracting := len(contractions) >= 2
	for i := 0; i+1 < len(contractions) && isContracting; i++ {
		if contractions[i+1] >= contractions[i] {
			isContracting = false
		}
	}

	if isContracting {
		score += 15
		*bullish = append(*bullish, fmt.Sprintf("VCP forming with %d contracting waves", len(contractions)))
		score += math.Min(10, float64(len(contractions))*3)
	} else if meanOf(contractions) < 15 {
		score += 8
		*bullish = append(*bullish, "Tight price action (potential VCP)")
	} else {
		score += 3
	}

	return math.Min(25, score)
}

// scoreVolume rewards elevated breakout volume, drying-up volume during
// bases and accumulation-skewed candle volume. 0-20 points.
func (s *MinerviniStrategy) scoreVolume(bars []models.Bar, ind *models.IndicatorSet, bullish, bearish *[]string) float64 {
	score := 0.0
	currentVolume := bars[len(bars)-1].Volume

	if volSMA20, ok := truthy(ind, models.IndVolumeSMA20); ok {
		ratio := currentVolume / volSMA20
		switch {
		case ratio > 1.5:
			score += 8
			*bullish = append(*bullish, fmt.Sprintf("High volume (%.1fx average)", ratio))
		case ratio > 1.0:
			score += 5
			*bullish = append(*bullish, "Above average volume")
		case ratio < 0.5:
			score += 5
			*bullish = append(*bullish, "Volume drying up (typical for VCP)")
		default:
			score += 2
		}
	}

	upVol, downVol, upCount, downCount := candleVolumes(tailBars(bars, 20))
	if upCount > 0 && downCount > 0 {
		avgUp := upVol / float64(upCount)
		avgDown := downVol / float64(downCount)
		if avgUp > avgDown*1.3 {
			score += 7
			*bullish = append(*bullish, "Higher volume on up days (accumulation)")
		} else if avgDown > avgUp*1.3 {
			score -= 5
			*bearish = append(*bearish, "Higher volume on down days (distribution)")
		}
	}

	return clamp(score, 0, 20)
}

// scoreRelativeStrength rewards outperformance against the benchmark,
// falling back to the stock's own 50-bar return when no benchmark ratio
// was supplied. 0-15 points.
func (s *MinerviniStrategy) scoreRelativeStrength(bars []models.Bar, ind *models.IndicatorSet, bullish, warnings *[]string) float64 {
	score := 0.0
	closes := models.Closes(bars)

	rs, ok := lookup(ind, models.IndRelativeStrength)
	if !ok && len(closes) >= 50 {
		rs = 1 + (closes[len(closes)-1]/closes[len(closes)-50] - 1)
		ok = true
	}

	if ok {
		switch {
		case rs > 1.2:
			score += 15
			*bullish = append(*bullish, fmt.Sprintf("Strong relative strength (%.2fx)", rs))
		case rs > 1.0:
			score += 10
			*bullish = append(*bullish, fmt.Sprintf("Positive relative strength (%.2fx)", rs))
		case rs > 0.9:
			score += 5
		default:
			*warnings = append(*warnings, fmt.Sprintf("Weak relative strength (%.2fx)", rs))
		}
	}

	return math.Min(15, score)
}

// scoreMarket checks the trend regime via ADX/DI and MACD. 0-15 points.
func (s *MinerviniStrategy) scoreMarket(ind *models.IndicatorSet, bullish, warnings *[]string) float64 {
	score := 0.0

	if adx, ok := lookup(ind, models.IndADX14); ok {
		if adx > 25 {
			score += 5
			plusDI, okP := truthy(ind, models.IndPlusDI)
			minusDI, okM := truthy(ind, models.IndMinusDI)
			if okP && okM {
				if plusDI > minusDI {
					score += 5
					*bullish = append(*bullish, fmt.Sprintf("Strong trending market (ADX: %.1f)", adx))
				} else if plusDI < minusDI {
					score -= 3
					*warnings = append(*warnings, "Stock in downtrend")
				}
			}
		} else {
			score += 2
		}
	}

	macd, okM := lookup(ind, models.IndMACD)
	signal, okS := lookup(ind, models.IndMACDSignal)
	if okM && okS {
		if macd > signal && macd > 0 {
			score += 5
			*bullish = append(*bullish, "MACD bullish")
		} else if macd < signal && macd < 0 {
			score -= 3
			*warnings = append(*warnings, "MACD bearish")
		}
	}

	return clamp(score, 0, 15)
}

// maSlope returns the fractional change of the period-SMA over the last
// lag sessions. NaN while the prior window is not yet full.
func maSlope(closes []float64, period, lag int) float64 {
	last := smaAt(closes, period, len(closes)-1)
	prior := smaAt(closes, period, len(closes)-lag)
	return (last - prior) / prior
}

type pivotKind int

const (
	pivotKindHigh pivotKind = iota
	pivotKindLow
)

// pivot is one swing extreme used for contraction measurement.
type pivot struct {
	kind  pivotKind
	index int
	value float64
}

// findPivots returns swing highs and lows in index order. A high and a
// low at the same index emit the high first.
func findPivots(highs, lows []float64, window int) []pivot {
	var pivots []pivot
	for i := window; i < len(highs)-window; i++ {
		if isStrictMax(highs, i, window) {
			pivots = append(pivots, pivot{kind: pivotKindHigh, index: i, value: highs[i]})
		}
		if isStrictMin(lows, i, window) {
			pivots = append(pivots, pivot{kind: pivotKindLow, index: i, value: lows[i]})
		}
	}
	return pivots
}

func isStrictMax(xs []float64, i, window int) bool {
	for j := i - window; j <= i+window; j++ {
		if j != i && xs[j] >= xs[i] {
			return false
		}
	}
	return true
}

func isStrictMin(xs []float64, i, window int) bool {
	for j := i - window; j <= i+window; j++ {
		if j != i && xs[j] <= xs[i] {
			return false
		}
	}
	return true
}
