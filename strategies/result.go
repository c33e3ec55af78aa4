// Package strategies implements the trading strategy scorers. Each scorer
// is a pure function over a bar history and an indicator snapshot that
// produces a 0..100 score with qualitative factors, and the composite
// combines them into a single weighted signal.
package strategies

import (
	"math"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// StrategyResult is the output of a single strategy scorer.
type StrategyResult struct {
	Score          float64                `json:"score"`
	BullishFactors []string               `json:"bullish_factors"`
	BearishFactors []string               `json:"bearish_factors"`
	Warnings       []string               `json:"warnings"`
	Signal         models.SignalType      `json:"signal"`
	Conviction     models.ConvictionLevel `json:"conviction"`
}

// signalFromScore maps a strategy score to (signal, conviction). All
// scorers share this table so their outputs stay comparable.
func signalFromScore(score float64) (models.SignalType, models.ConvictionLevel) {
	switch {
	case score >= 80:
		return models.SignalBuy, models.ConvictionHigh
	case score >= 65:
		return models.SignalBuy, models.ConvictionMedium
	case score >= 50:
		return models.SignalHold, models.ConvictionLow
	case score >= 35:
		return models.SignalAvoid, models.ConvictionMedium
	default:
		return models.SignalSell, models.ConvictionHigh
	}
}

// insufficientResult is the fixed shape every scorer returns when the bar
// history is too short to analyze.
func insufficientResult(warning string) StrategyResult {
	return StrategyResult{
		Score:          0,
		BullishFactors: []string{},
		BearishFactors: []string{"Insufficient data"},
		Warnings:       []string{warning},
		Signal:         models.SignalAvoid,
		Conviction:     models.ConvictionLow,
	}
}

// lookup returns the named indicator value and whether it is present.
func lookup(ind *models.IndicatorSet, name string) (float64, bool) {
	return ind.Lookup(name)
}

// truthy reports a present, non-zero indicator value. This mirrors how
// optional metrics gate branches that divide by or compare the value.
func truthy(ind *models.IndicatorSet, name string) (float64, bool) {
	v, ok := ind.Lookup(name)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func tailFloats(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func tailBars(bars []models.Bar, n int) []models.Bar {
	if len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func maxFloat(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

func minFloat(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		if x < m {
			m = x
		}
	}
	return m
}

// smaAt returns the period-mean of xs ending at index i (inclusive), or
// NaN when the window is not yet full. Matches a rolling mean that emits
// NaN until it has period samples.
func smaAt(xs []float64, period, i int) float64 {
	if i+1 < period || i >= len(xs) {
		return math.NaN()
	}
	sum := 0.0
	for j := i + 1 - period; j <= i; j++ {
		sum += xs[j]
	}
	return sum / float64(period)
}

// candleVolumes sums volume over up-candles (close>open) and down-candles
// (close<open). Dojis count in neither bucket.
func candleVolumes(bars []models.Bar) (upVol, downVol float64, upCount, downCount int) {
	for _, b := range bars {
		if b.Close > b.Open {
			upVol += b.Volume
			upCount++
		} else if b.Close < b.Open {
			downVol += b.Volume
			downCount++
		}
	}
	return upVol, downVol, upCount, downCount
}

// strictPeaks returns indices i where xs[i] is strictly greater than every
// other value within the window on both sides.
func strictPeaks(xs []float64, window int) []int {
	var peaks []int
	for i := window; i < len(xs)-window; i++ {
		isPeak := true
		for j := i - window; j <= i+window && isPeak; j++ {
			if j != i && xs[j] >= xs[i] {
				isPeak = false
			}
		}
		if isPeak {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// strictTroughs is the minimum mirror of strictPeaks.
func strictTroughs(xs []float64, window int) []int {
	var troughs []int
	for i := window; i < len(xs)-window; i++ {
		isTrough := true
		for j := i - window; j <= i+window && isTrough; j++ {
			if j != i && xs[j] <= xs[i] {
				isTrough = false
			}
		}
		if isTrough {
			troughs = append(troughs, i)
		}
	}
	return troughs
}

func allAscending(xs []float64) bool {
	for i := 0; i+1 < len(xs); i++ {
		if xs[i] >= xs[i+1] {
			return false
		}
	}
	return true
}

func allDescending(xs []float64) bool {
	for i := 0; i+1 < len(xs); i++ {
		if xs[i] <= xs[i+1] {
			return false
		}
	}
	return true
}

func valuesAt(xs []float64, idx []int) []float64 {
	out := make([]float64, 0, len(idx))
	for _, i := range idx {
		out = append(out, xs[i])
	}
	return out
}
