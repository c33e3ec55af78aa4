package strategies

import (
	"math"

	"github.com/pankajhirway/ChartAnalyzer/analysis"
	"github.com/pankajhirway/ChartAnalyzer/models"
)

// WeinsteinStrategy scores a symbol with Stan Weinstein's stage analysis:
// the market-cycle stage dominates, refined by the 30-week MA relationship,
// price structure and volume character.
//
// Sub-scores: Stage 40, MA Relationship 25, Price Action 20, Volume 15.
type WeinsteinStrategy struct {
	trend *analysis.TrendAnalyzer
}

// NewWeinsteinStrategy creates the scorer. The stage classification is
// shared with the rest of the pipeline through the trend analyzer.
func NewWeinsteinStrategy(trend *analysis.TrendAnalyzer) *WeinsteinStrategy {
	return &WeinsteinStrategy{trend: trend}
}

// Name identifies the strategy in combined output.
func (s *WeinsteinStrategy) Name() string { return "Weinstein Stage Analysis" }

// stageScores is the fixed score contribution per stage.
var stageScores = map[models.WeinsteinStage]float64{
	models.StageAdvancing: 40,
	models.StageBasing:    25,
	models.StageTopping:   15,
	models.StageDeclining: 0,
}

// Analyze scores the bar history. At least 150 bars are required for
// meaningful stage work.
func (s *WeinsteinStrategy) Analyze(bars []models.Bar, ind *models.IndicatorSet) StrategyResult {
	if len(bars) < 150 {
		return insufficientResult("Need at least 150 bars for stage analysis")
	}

	var bullish, bearish, warnings []string

	stage, stageDesc := s.trend.DetermineStage(bars)

	stageScore := stageScores[stage]
	switch stage {
	case models.StageAdvancing:
		bullish = append(bullish, "Stock in Stage 2 advancing phase")
	case models.StageDeclining:
		bearish = append(bearish, "Stock in Stage 4 declining phase")
	case models.StageBasing:
		warnings = append(warnings, "Stock in Stage 1 basing - wait for breakout")
	case models.StageTopping:
		warnings = append(warnings, "Stock in Stage 3 topping - caution advised")
	}

	maScore := s.scoreMARelationship(bars, ind, &bullish, &bearish)
	priceScore := s.scorePriceAction(bars, ind, &bullish, &bearish)
	volumeScore := s.scoreVolume(bars, &bullish, &bearish)

	total := stageScore + maScore + priceScore + volumeScore

	stageInfo := "Currently in " + stageDesc
	switch stage {
	case models.StageAdvancing:
		bullish = append([]string{stageInfo}, bullish...)
	case models.StageDeclining:
		bearish = append([]string{stageInfo}, bearish...)
	default:
		warnings = append(warnings, stageInfo)
	}

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

// scoreMARelationship evaluates price versus the 30-week (150-day) MA and
// the MA's own slope. 0-25 points.
func (s *WeinsteinStrategy) scoreMARelationship(bars []models.Bar, ind *models.IndicatorSet, bullish, bearish *[]string) float64 {
	score := 0.0
	closes := models.Closes(bars)
	currentPrice := closes[len(closes)-1]

	sma150, ok150 := truthy(ind, models.IndSMA150)
	if ok150 {
		if currentPrice > sma150 {
			score += 10
			*bullish = append(*bullish, "Price above 30-week MA")
		} else {
			*bearish = append(*bearish, "Price below 30-week MA")
		}
	}

	if len(closes) >= 150 {
		slope := trailingSlope(rollingSMA(closes, 150), 20)
		switch {
		case slope > 0.02:
			score += 10
			*bullish = append(*bullish, "30-week MA trending up strongly")
		case slope > 0:
			score += 7
			*bullish = append(*bullish, "30-week MA trending up")
		case slope < -0.02:
			*bearish = append(*bearish, "30-week MA trending down strongly")
		default:
			score += 3
		}
	}

	if ok150 && currentPrice > sma150 {
		distance := (currentPrice - sma150) / sma150 * 100
		if distance < 30 {
			score += 5
		} else if distance > 50 {
			score -= 3
		}
	}

	return clamp(score, 0, 25)
}

// scorePriceAction checks for higher-high/higher-low structure, proximity
// to recent highs and support at the 50-day MA. 0-20 points.
func (s *WeinsteinStrategy) scorePriceAction(bars []models.Bar, ind *models.IndicatorSet, bullish, bearish *[]string) float64 {
	if len(bars) < 50 {
		return 0
	}
	score := 0.0

	recent := tailBars(bars, 30)
	highs := models.Highs(recent)
	lows := models.Lows(recent)

	peaks := valuesAt(highs, strictPeaks(highs, 1))
	troughs := valuesAt(lows, strictTroughs(lows, 1))

	higherHighs := len(peaks) >= 2 && allAscending(peaks)
	higherLows := len(troughs) >= 2 && allAscending(troughs)
	lowerLows := len(troughs) >= 2 && allDescending(troughs)
	lowerHighs := len(peaks) >= 2 && allDescending(peaks)

	if higherHighs && higherLows {
		score += 10
		*bullish = append(*bullish, "Making higher highs and higher lows")
	} else if lowerLows && lowerHighs {
		*bearish = append(*bearish, "Making lower lows and lower highs")
	} else {
		score += 3
	}

	closes := models.Closes(bars)
	currentPrice := closes[len(closes)-1]
	if currentPrice >= maxFloat(tailFloats(models.Highs(bars), 20))*0.98 {
		score += 5
		*bullish = append(*bullish, "Near recent highs")
	}

	if sma50, ok := truthy(ind, models.IndSMA50); ok {
		recentLow := minFloat(tailFloats(models.Lows(bars), 10))
		if math.Abs(recentLow-sma50)/sma50 < 0.02 {
			score += 5
			*bullish = append(*bullish, "Found support at 50-day MA")
		}
	}

	return math.Min(20, score)
}

// scoreVolume compares the short and medium volume averages and the
// up-day versus down-day volume balance. 0-15 points.
func (s *WeinsteinStrategy) scoreVolume(bars []models.Bar, bullish, bearish *[]string) float64 {
	score := 0.0
	volumes := models.Volumes(bars)

	if len(volumes) >= 50 {
		avg20 := meanOf(tailFloats(volumes, 20))
		avg50 := meanOf(tailFloats(volumes, 50))
		if avg20 > avg50 {
			score += 7
			*bullish = append(*bullish, "Volume trend increasing")
		} else {
			score += 2
		}
	}

	upVol, downVol, upCount, downCount := candleVolumes(tailBars(bars, 20))
	if upCount > 0 && downCount > 0 {
		avgUp := upVol / float64(upCount)
		avgDown := downVol / float64(downCount)
		if avgUp > avgDown*1.2 {
			score += 8
			*bullish = append(*bullish, "Higher volume on up days")
		} else if avgDown > avgUp*1.2 {
			*bearish = append(*bearish, "Higher volume on down days")
		} else {
			score += 4
		}
	}

	return math.Min(15, score)
}

// rollingSMA is the period-mean series, NaN until the window is full.
func rollingSMA(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = smaAt(xs, period, i)
	}
	return out
}

// trailingSlope is the fractional change across the valid values of the
// last lookback samples. Fewer than two valid samples yield zero.
func trailingSlope(series []float64, lookback int) float64 {
	recent := tailFloats(series, lookback)
	var valid []float64
	for _, v := range recent {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) < 2 {
		return 0
	}
	return (valid[len(valid)-1] - valid[0]) / valid[0]
}
