package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// PatternConfig holds pattern detection thresholds.
type PatternConfig struct {
	MinBars     int
	MaxBars     int
	Tolerance   float64 // level similarity tolerance (0.03 = 3%)
	PivotWindow int
}

// DefaultPatternConfig returns the standard thresholds.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		MinBars:     20,
		MaxBars:     100,
		Tolerance:   0.03,
		PivotWindow: 5,
	}
}

// PatternDetector scans price geometry for chart pattern archetypes. Each
// detector is independent and may fire zero or more matches per call.
type PatternDetector struct {
	cfg PatternConfig
}

// NewPatternDetector creates a detector with the given config.
func NewPatternDetector(cfg PatternConfig) *PatternDetector {
	return &PatternDetector{cfg: cfg}
}

// Detect returns all detected patterns sorted by descending confidence.
func (d *PatternDetector) Detect(bars []models.Bar) []models.PatternMatch {
	if len(bars) < d.cfg.MinBars {
		return nil
	}

	var patterns []models.PatternMatch
	patterns = append(patterns, d.detectCupHandle(bars)...)
	patterns = append(patterns, d.detectVCP(bars)...)
	patterns = append(patterns, d.detectDoubleTopBottom(bars)...)
	patterns = append(patterns, d.detectHeadShoulders(bars)...)
	patterns = append(patterns, d.detectTriangles(bars)...)
	patterns = append(patterns, d.detectFlags(bars)...)
	patterns = append(patterns, d.detectWedges(bars)...)
	patterns = append(patterns, d.detectBaseBreakout(bars)...)
	patterns = append(patterns, d.detectHighTightFlag(bars)...)
	patterns = append(patterns, d.detectMAPullback(bars)...)

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence > patterns[j].Confidence
	})
	return patterns
}

func lastBars(bars []models.Bar, n int) []models.Bar {
	if n >= len(bars) {
		return bars
	}
	return bars[len(bars)-n:]
}

func (d *PatternDetector) detectCupHandle(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 60 {
		return nil
	}
	data := lastBars(bars, min(100, len(bars)))
	highs := models.Highs(data)
	lows := models.Lows(data)
	closes := models.Closes(data)

	leftHigh := maxOf(highs[:len(highs)/2])
	bottom := minOf(lows)
	rightHigh := maxOf(tail(highs, 20))

	cupDepth := (leftHigh - bottom) / leftHigh
	if cupDepth <= 0.10 || cupDepth >= 0.35 {
		return nil
	}

	handle := tail(closes, 10)
	handleHigh := maxOf(handle)
	handleLow := minOf(handle)
	handleDepth := (handleHigh - handleLow) / handleHigh

	if handleDepth >= 0.15 || handleLow <= bottom {
		return nil
	}

	breakout := math.Max(leftHigh, rightHigh)
	return []models.PatternMatch{{
		PatternType:   models.PatternCupHandle,
		PatternName:   "Cup and Handle",
		Bullish:       true,
		CompletionPct: math.Min(100, 90+(rightHigh/leftHigh)*10),
		BreakoutLevel: models.Float64Ptr(breakout),
		TargetPrice:   models.Float64Ptr(breakout * 1.2),
		StopLoss:      models.Float64Ptr(handleLow * 0.98),
		Confidence:    0.75,
		Description:   fmt.Sprintf("Cup depth %.1f%%, handle depth %.1f%%", cupDepth*100, handleDepth*100),
	}}
}

func (d *PatternDetector) detectVCP(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 80 {
		return nil
	}
	data := lastBars(bars, min(150, len(bars)))
	highs := models.Highs(data)
	lows := models.Lows(data)
	volumes := models.Volumes(data)

	pivots := findSwings(highs, lows, d.cfg.PivotWindow)
	if len(pivots) < 3 {
		return nil
	}

	// Contractions pair each pivot's high with the next pivot's low,
	// regardless of pivot type.
	contractions := make([]float64, 0, len(pivots)-1)
	for i := 0; i < len(pivots)-1; i++ {
		contractions = append(contractions, (pivots[i].High-pivots[i+1].Low)/pivots[i].High)
	}
	if len(contractions) < 2 {
		return nil
	}
	for i := 0; i < len(contractions)-1; i++ {
		if contractions[i] <= contractions[i+1] {
			return nil
		}
	}

	recentHigh := maxOf(tail(highs, 20))
	recentVol := mean(tail(volumes, 10))
	earlierVol := mean(volumes[max(0, len(volumes)-50) : len(volumes)-10])
	volDrying := recentVol < earlierVol*0.8

	confidence := 0.55
	completion := 60.0
	volNote := "volume not confirmed"
	if volDrying {
		confidence = 0.7
		completion = 80
		volNote = "volume drying"
	}

	return []models.PatternMatch{{
		PatternType:   models.PatternVCP,
		PatternName:   "Volatility Contraction Pattern",
		Bullish:       true,
		CompletionPct: completion,
		BreakoutLevel: models.Float64Ptr(recentHigh),
		TargetPrice:   models.Float64Ptr(recentHigh * 1.15),
		StopLoss:      models.Float64Ptr(pivots[len(pivots)-1].Low * 0.97),
		Confidence:    confidence,
		Description:   fmt.Sprintf("%d contractions, %s", len(contractions), volNote),
	}}
}

func (d *PatternDetector) detectDoubleTopBottom(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 40 {
		return nil
	}
	data := lastBars(bars, min(80, len(bars)))
	highs := models.Highs(data)
	lows := models.Lows(data)
	closes := models.Closes(data)
	currentPrice := lastOf(closes)

	var patterns []models.PatternMatch

	peaks := findPeaks(highs, 5)
	if len(peaks) >= 2 {
		peak1 := highs[peaks[len(peaks)-2]]
		peak2 := highs[peaks[len(peaks)-1]]
		neckline := minOf(lows[peaks[len(peaks)-1]:])

		if math.Abs(peak1-peak2)/peak1 < d.cfg.Tolerance {
			completion := 50.0
			if currentPrice < (peak1+neckline)/2 {
				completion = 70
			}
			patterns = append(patterns, models.PatternMatch{
				PatternType:   models.PatternDoubleTop,
				PatternName:   "Double Top",
				Bullish:       false,
				CompletionPct: completion,
				BreakoutLevel: models.Float64Ptr(neckline),
				TargetPrice:   models.Float64Ptr(neckline - (peak1 - neckline)),
				StopLoss:      models.Float64Ptr(peak2 * 1.02),
				Confidence:    0.65,
				Description:   fmt.Sprintf("Two peaks at %.2f and %.2f", peak1, peak2),
			})
		}
	}

	troughs := findTroughs(lows, 5)
	if len(troughs) >= 2 {
		trough1 := lows[troughs[len(troughs)-2]]
		trough2 := lows[troughs[len(troughs)-1]]
		neckline := maxOf(highs[troughs[len(troughs)-1]:])

		if math.Abs(trough1-trough2)/trough1 < d.cfg.Tolerance {
			completion := 50.0
			if currentPrice > (trough1+neckline)/2 {
				completion = 70
			}
			patterns = append(patterns, models.PatternMatch{
				PatternType:   models.PatternDoubleBottom,
				PatternName:   "Double Bottom",
				Bullish:       true,
				CompletionPct: completion,
				BreakoutLevel: models.Float64Ptr(neckline),
				TargetPrice:   models.Float64Ptr(neckline + (neckline - trough1)),
				StopLoss:      models.Float64Ptr(trough2 * 0.98),
				Confidence:    0.65,
				Description:   fmt.Sprintf("Two troughs at %.2f and %.2f", trough1, trough2),
			})
		}
	}

	return patterns
}

func (d *PatternDetector) detectHeadShoulders(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 60 {
		return nil
	}
	data := lastBars(bars, min(100, len(bars)))
	highs := models.Highs(data)
	lows := models.Lows(data)

	var patterns []models.PatternMatch

	peaks := findPeaks(highs, 10)
	if len(peaks) >= 3 {
		leftShoulder := highs[peaks[len(peaks)-3]]
		head := highs[peaks[len(peaks)-2]]
		rightShoulder := highs[peaks[len(peaks)-1]]

		if head > leftShoulder && head > rightShoulder &&
			math.Abs(leftShoulder-rightShoulder)/leftShoulder < 0.05 {
			neckline := minOf(lows[peaks[len(peaks)-3]:peaks[len(peaks)-1]])
			patterns = append(patterns, models.PatternMatch{
				PatternType:   models.PatternHeadShoulders,
				PatternName:   "Head and Shoulders",
				Bullish:       false,
				CompletionPct: 75,
				BreakoutLevel: models.Float64Ptr(neckline),
				TargetPrice:   models.Float64Ptr(neckline - (head - neckline)),
				StopLoss:      models.Float64Ptr(head * 1.02),
				Confidence:    0.70,
				Description:   fmt.Sprintf("Head at %.2f, shoulders at %.2f/%.2f", head, leftShoulder, rightShoulder),
			})
		}
	}

	troughs := findTroughs(lows, 10)
	if len(troughs) >= 3 {
		leftShoulder := lows[troughs[len(troughs)-3]]
		head := lows[troughs[len(troughs)-2]]
		rightShoulder := lows[troughs[len(troughs)-1]]

		if head < leftShoulder && head < rightShoulder &&
			math.Abs(leftShoulder-rightShoulder)/leftShoulder < 0.05 {
			neckline := maxOf(highs[troughs[len(troughs)-3]:troughs[len(troughs)-1]])
			patterns = append(patterns, models.PatternMatch{
				PatternType:   models.PatternHeadShouldersInverse,
				PatternName:   "Inverse Head and Shoulders",
				Bullish:       true,
				CompletionPct: 75,
				BreakoutLevel: models.Float64Ptr(neckline),
				TargetPrice:   models.Float64Ptr(neckline + (neckline - head)),
				StopLoss:      models.Float64Ptr(head * 0.98),
				Confidence:    0.70,
				Description:   fmt.Sprintf("Head at %.2f, shoulders at %.2f/%.2f", head, leftShoulder, rightShoulder),
			})
		}
	}

	return patterns
}

func (d *PatternDetector) detectTriangles(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 30 {
		return nil
	}
	data := lastBars(bars, min(50, len(bars)))
	highs := models.Highs(data)
	lows := models.Lows(data)
	closes := models.Closes(data)

	highSlope := linregSlope(highs)
	lowSlope := linregSlope(lows)
	currentPrice := lastOf(closes)

	var patterns []models.PatternMatch

	// Ascending: flat top, rising bottom
	if math.Abs(highSlope) < 0.1 && lowSlope > 0.2 {
		resistance := maxOf(highs)
		completion := 60.0
		if currentPrice > resistance*0.98 {
			completion = 80
		}
		patterns = append(patterns, models.PatternMatch{
			PatternType:   models.PatternAscendingTriangle,
			PatternName:   "Ascending Triangle",
			Bullish:       true,
			CompletionPct: completion,
			BreakoutLevel: models.Float64Ptr(resistance),
			TargetPrice:   models.Float64Ptr(resistance * 1.1),
			StopLoss:      models.Float64Ptr(lastOf(lows) * 0.97),
			Confidence:    0.70,
			Description:   "Flat resistance with rising support",
		})
	}

	// Descending: falling top, flat bottom
	if highSlope < -0.2 && math.Abs(lowSlope) < 0.1 {
		support := minOf(lows)
		completion := 60.0
		if currentPrice < support*1.02 {
			completion = 80
		}
		patterns = append(patterns, models.PatternMatch{
			PatternType:   models.PatternDescendingTriangle,
			PatternName:   "Descending Triangle",
			Bullish:       false,
			CompletionPct: completion,
			BreakoutLevel: models.Float64Ptr(support),
			TargetPrice:   models.Float64Ptr(support * 0.9),
			StopLoss:      models.Float64Ptr(lastOf(highs) * 1.03),
			Confidence:    0.70,
			Description:   "Falling resistance with flat support",
		})
	}

	return patterns
}

func (d *PatternDetector) detectFlags(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 30 {
		return nil
	}
	data := lastBars(bars, min(40, len(bars)))
	closes := models.Closes(data)
	highs := models.Highs(data)
	lows := models.Lows(data)

	// Sharp move in the first 10 bars, then tight consolidation.
	firstMove := (closes[10] - closes[0]) / closes[0] * 100
	consolidation := closes[10:]
	rangePct := (maxOf(consolidation) - minOf(consolidation)) / mean(consolidation) * 100

	if math.Abs(firstMove) <= 10 || rangePct >= 8 || firstMove <= 0 {
		return nil
	}

	currentPrice := lastOf(closes)
	name := "Bull Pennant"
	if lastOf(consolidation) < mean(consolidation) {
		name = "Bull Flag"
	}

	return []models.PatternMatch{{
		PatternType:   models.PatternFlag,
		PatternName:   name,
		Bullish:       true,
		CompletionPct: 75,
		BreakoutLevel: models.Float64Ptr(maxOf(highs[10:])),
		TargetPrice:   models.Float64Ptr(currentPrice * 1.15),
		StopLoss:      models.Float64Ptr(minOf(tail(lows, 10)) * 0.98),
		Confidence:    0.65,
		Description:   fmt.Sprintf("Sharp %.1f%% move with tight consolidation", firstMove),
	}}
}

func (d *PatternDetector) detectWedges(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 30 {
		return nil
	}
	data := lastBars(bars, min(40, len(bars)))
	highs := models.Highs(data)
	lows := models.Lows(data)
	closes := models.Closes(data)

	highSlope := linregSlope(highs)
	lowSlope := linregSlope(lows)

	var patterns []models.PatternMatch

	// Rising wedge: both lines rising, lows rising faster (bearish)
	if highSlope > 0 && lowSlope > 0 && lowSlope > highSlope*1.5 {
		patterns = append(patterns, models.PatternMatch{
			PatternType:   models.PatternWedgeRising,
			PatternName:   "Rising Wedge",
			Bullish:       false,
			CompletionPct: 70,
			BreakoutLevel: models.Float64Ptr(minOf(tail(lows, 5))),
			TargetPrice:   models.Float64Ptr(lastOf(closes) * 0.9),
			StopLoss:      models.Float64Ptr(lastOf(highs) * 1.02),
			Confidence:    0.60,
			Description:   "Converging upward lines - typically bearish",
		})
	}

	// Falling wedge: both lines falling, highs falling faster (bullish)
	if highSlope < 0 && lowSlope < 0 && highSlope < lowSlope*1.5 {
		patterns = append(patterns, models.PatternMatch{
			PatternType:   models.PatternWedgeFalling,
			PatternName:   "Falling Wedge",
			Bullish:       true,
			CompletionPct: 70,
			BreakoutLevel: models.Float64Ptr(maxOf(tail(highs, 5))),
			TargetPrice:   models.Float64Ptr(lastOf(closes) * 1.15),
			StopLoss:      models.Float64Ptr(lastOf(lows) * 0.98),
			Confidence:    0.60,
			Description:   "Converging downward lines - typically bullish",
		})
	}

	return patterns
}

func (d *PatternDetector) detectBaseBreakout(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 50 {
		return nil
	}
	data := lastBars(bars, min(80, len(bars)))
	closes := models.Closes(data)
	highs := models.Highs(data)
	lows := models.Lows(data)
	volumes := models.Volumes(data)

	baseHigh := maxOf(highs[:len(highs)-10])
	baseLow := minOf(lows[:len(lows)-10])
	baseRange := (baseHigh - baseLow) / baseHigh * 100
	currentPrice := lastOf(closes)

	if baseRange >= 15 || currentPrice <= baseHigh*1.01 {
		return nil
	}

	avgVol := mean(volumes[:len(volumes)-10])
	recentVol := mean(tail(volumes, 5))
	volConfirmed := recentVol > avgVol*1.3

	confidence := 0.60
	if volConfirmed {
		confidence = 0.75
	}

	return []models.PatternMatch{{
		PatternType:   models.PatternBaseBreakout,
		PatternName:   "Base Breakout",
		Bullish:       true,
		CompletionPct: 85,
		BreakoutLevel: models.Float64Ptr(baseHigh),
		TargetPrice:   models.Float64Ptr(baseHigh + (baseHigh - baseLow)),
		StopLoss:      models.Float64Ptr(baseLow * 0.98),
		Confidence:    confidence,
		Description:   fmt.Sprintf("Breaking out of %.1f%% base range", baseRange),
	}}
}

func (d *PatternDetector) detectHighTightFlag(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 40 {
		return nil
	}
	data := lastBars(bars, min(60, len(bars)))
	closes := models.Closes(data)
	highs := models.Highs(data)
	lows := models.Lows(data)

	startPrice := closes[0]
	peakPrice := maxOf(highs[:min(30, len(highs))])
	currentPrice := lastOf(closes)

	priceGain := (peakPrice - startPrice) / startPrice * 100
	if priceGain <= 100 {
		return nil
	}

	recentHigh := maxOf(tail(highs, 15))
	recentLow := minOf(tail(lows, 15))
	consolidationDepth := (recentHigh - recentLow) / recentHigh * 100

	if consolidationDepth >= 10 || currentPrice <= peakPrice*0.9 {
		return nil
	}

	return []models.PatternMatch{{
		PatternType:   models.PatternHighTightFlag,
		PatternName:   "High Tight Flag",
		Bullish:       true,
		CompletionPct: 80,
		BreakoutLevel: models.Float64Ptr(recentHigh),
		TargetPrice:   models.Float64Ptr(recentHigh * 1.2),
		StopLoss:      models.Float64Ptr(recentLow * 0.97),
		Confidence:    0.75,
		Description:   fmt.Sprintf("100%%+ gain with %.1f%% consolidation", consolidationDepth),
	}}
}

func (d *PatternDetector) detectMAPullback(bars []models.Bar) []models.PatternMatch {
	if len(bars) < 100 {
		return nil
	}
	closes := models.Closes(bars)
	sma20 := rollingMean(closes, 20)
	sma50 := rollingMean(closes, 50)

	currentPrice := lastOf(closes)
	ma20 := lastOf(sma20)
	ma50 := lastOf(sma50)

	var patterns []models.PatternMatch

	if math.Abs(currentPrice-ma20)/ma20 < 0.02 && ma20 > sma20[len(sma20)-20] {
		patterns = append(patterns, models.PatternMatch{
			PatternType:   models.PatternPullbackMA,
			PatternName:   "Pullback to 20 MA",
			Bullish:       true,
			CompletionPct: 85,
			BreakoutLevel: models.Float64Ptr(currentPrice * 1.02),
			TargetPrice:   models.Float64Ptr(currentPrice * 1.1),
			StopLoss:      models.Float64Ptr(ma20 * 0.97),
			Confidence:    0.65,
			Description:   "Pullback to rising 20 MA in uptrend",
		})
	}

	if math.Abs(currentPrice-ma50)/ma50 < 0.02 && ma50 > sma50[len(sma50)-30] {
		patterns = append(patterns, models.PatternMatch{
			PatternType:   models.PatternPullbackMA,
			PatternName:   "Pullback to 50 MA",
			Bullish:       true,
			CompletionPct: 85,
			BreakoutLevel: models.Float64Ptr(currentPrice * 1.02),
			TargetPrice:   models.Float64Ptr(currentPrice * 1.1),
			StopLoss:      models.Float64Ptr(ma50 * 0.96),
			Confidence:    0.65,
			Description:   "Pullback to rising 50 MA in uptrend",
		})
	}

	return patterns
}
