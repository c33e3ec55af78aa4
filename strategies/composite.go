package strategies

import (
	"math"

	"github.com/pankajhirway/ChartAnalyzer/analysis"
	"github.com/pankajhirway/ChartAnalyzer/models"
)

// Weights are the composite blend of the strategy scores. They should sum
// to 1.
type Weights struct {
	Minervini float64
	Weinstein float64
	Lynch     float64
	Technical float64
}

// DefaultWeights returns the standard blend.
func DefaultWeights() Weights {
	return Weights{
		Minervini: 0.35,
		Weinstein: 0.35,
		Lynch:     0.15,
		Technical: 0.15,
	}
}

// StrategyDetail is one strategy's contribution in a composite result.
type StrategyDetail struct {
	Score      float64                `json:"score"`
	Signal     models.SignalType      `json:"signal,omitempty"`
	Conviction models.ConvictionLevel `json:"conviction,omitempty"`
}

// CompositeResult is the combined output of all strategies.
type CompositeResult struct {
	Scores           models.StrategyScores     `json:"scores"`
	Signal           models.SignalType         `json:"signal"`
	Conviction       models.ConvictionLevel    `json:"conviction"`
	BullishFactors   []string                  `json:"bullish_factors"`
	BearishFactors   []string                  `json:"bearish_factors"`
	Warnings         []string                  `json:"warnings"`
	StrategyDetails  map[string]StrategyDetail `json:"strategy_details"`
	FundamentalScore *models.FundamentalScore  `json:"fundamental_score,omitempty"`
}

// CompositeStrategy runs every strategy scorer and blends them into one
// weighted score and signal.
type CompositeStrategy struct {
	minervini *MinerviniStrategy
	weinstein *WeinsteinStrategy
	lynch     *LynchStrategy
	weights   Weights
}

// NewCompositeStrategy creates the composite with its sub-strategies. The
// trend analyzer is shared so stage classification matches the pipeline.
func NewCompositeStrategy(trend *analysis.TrendAnalyzer, weights Weights) *CompositeStrategy {
	return &CompositeStrategy{
		minervini: NewMinerviniStrategy(),
		weinstein: NewWeinsteinStrategy(trend),
		lynch:     NewLynchStrategy(),
		weights:   weights,
	}
}

// Analyze runs all strategies and combines their results. Fundamentals
// may be nil; the Lynch scorer then falls back to technical factors.
func (c *CompositeStrategy) Analyze(bars []models.Bar, ind *models.IndicatorSet, fundamentals *models.FundamentalData) CompositeResult {
	minerviniResult := c.minervini.Analyze(bars, ind)
	weinsteinResult := c.weinstein.Analyze(bars, ind)
	lynchResult, fundamentalScore := c.lynch.Analyze(bars, ind, fundamentals)

	technicalScore := TechnicalScore(bars, ind)

	compositeScore := minerviniResult.Score*c.weights.Minervini +
		weinsteinResult.Score*c.weights.Weinstein +
		lynchResult.Score*c.weights.Lynch +
		technicalScore*c.weights.Technical

	scores := models.StrategyScores{
		MinerviniScore: round1(minerviniResult.Score),
		WeinsteinScore: round1(weinsteinResult.Score),
		LynchScore:     models.Float64Ptr(round1(lynchResult.Score)),
		TechnicalScore: round1(technicalScore),
		CompositeScore: round1(compositeScore),
	}
	if fundamentalScore != nil {
		scores.FundamentalScore = models.Float64Ptr(fundamentalScore.Score)
	}

	var bullish, bearish, warnings []string
	bullish = appendLabeled(bullish, "[Minervini] ", minerviniResult.BullishFactors, 3)
	bullish = appendLabeled(bullish, "[Weinstein] ", weinsteinResult.BullishFactors, 3)
	bullish = appendLabeled(bullish, "[Lynch] ", lynchResult.BullishFactors, 3)

	bearish = appendLabeled(bearish, "[Minervini] ", minerviniResult.BearishFactors, 2)
	bearish = appendLabeled(bearish, "[Weinstein] ", weinsteinResult.BearishFactors, 2)
	bearish = appendLabeled(bearish, "[Lynch] ", lynchResult.BearishFactors, 2)

	warnings = appendLabeled(warnings, "[Minervini] ", minerviniResult.Warnings, 2)
	warnings = appendLabeled(warnings, "[Weinstein] ", weinsteinResult.Warnings, 2)
	warnings = appendLabeled(warnings, "[Lynch] ", lynchResult.Warnings, 2)

	signal, conviction := c.determineSignal(compositeScore, scores)

	return CompositeResult{
		Scores:         scores,
		Signal:         signal,
		Conviction:     conviction,
		BullishFactors: bullish,
		BearishFactors: bearish,
		Warnings:       warnings,
		StrategyDetails: map[string]StrategyDetail{
			"minervini": {Score: minerviniResult.Score, Signal: minerviniResult.Signal, Conviction: minerviniResult.Conviction},
			"weinstein": {Score: weinsteinResult.Score, Signal: weinsteinResult.Signal, Conviction: weinsteinResult.Conviction},
			"lynch":     {Score: lynchResult.Score, Signal: lynchResult.Signal, Conviction: lynchResult.Conviction},
			"technical": {Score: technicalScore},
		},
		FundamentalScore: fundamentalScore,
	}
}

// TechnicalScore is a pure indicator read without strategy bias. It starts
// from a neutral 50 and applies bounded adjustments for MA alignment,
// momentum, trend strength and Bollinger position.
func TechnicalScore(bars []models.Bar, ind *models.IndicatorSet) float64 {
	if len(bars) == 0 || ind == nil {
		return 0
	}

	score := 50.0
	closes := models.Closes(bars)
	currentPrice := closes[len(closes)-1]

	sma20, ok20 := truthy(ind, models.IndSMA20)
	sma50, ok50 := truthy(ind, models.IndSMA50)
	sma200, ok200 := truthy(ind, models.IndSMA200)

	if ok20 && currentPrice > sma20 {
		score += 5
	}
	if ok50 && currentPrice > sma50 {
		score += 5
	}
	if ok200 && currentPrice > sma200 {
		score += 5
	}
	if ok20 && ok50 && sma20 > sma50 {
		score += 5
	}

	if rsi, ok := truthy(ind, models.IndRSI14); ok {
		switch {
		case rsi > 40 && rsi < 70:
			score += 5
		case rsi > 70:
			score -= 3
		case rsi < 30:
			score += 3
		}
	}

	macd, okM := truthy(ind, models.IndMACD)
	macdSignal, okS := truthy(ind, models.IndMACDSignal)
	if okM && okS {
		if macd > macdSignal {
			score += 5
		} else {
			score -= 5
		}
	}

	if stochK, ok := truthy(ind, models.IndStochK); ok {
		if stochK > 20 && stochK < 80 {
			score += 5
		}
	}

	if adx, ok := truthy(ind, models.IndADX14); ok && adx > 25 {
		plusDI, okP := truthy(ind, models.IndPlusDI)
		minusDI, okM := truthy(ind, models.IndMinusDI)
		if okP && okM {
			if plusDI > minusDI {
				score += 10
			} else {
				score -= 5
			}
		}
	}

	bbUpper, okU := truthy(ind, models.IndBBUpper)
	bbLower, okL := truthy(ind, models.IndBBLower)
	if okU && okL {
		bbMid := (bbUpper + bbLower) / 2
		if currentPrice > bbMid {
			score += 3
		}
		if currentPrice > bbUpper {
			score -= 3
		} else if currentPrice < bbLower {
			score += 3
		}
	}

	return clamp(score, 0, 100)
}

// determineSignal maps the composite score to a signal. Conviction also
// depends on agreement between the strategy scores: a population standard
// deviation below 15 counts as agreement, and only extreme scores with
// agreement earn high conviction.
func (c *CompositeStrategy) determineSignal(compositeScore float64, scores models.StrategyScores) (models.SignalType, models.ConvictionLevel) {
	lynchOr50 := 50.0
	if scores.LynchScore != nil && *scores.LynchScore != 0 {
		lynchOr50 = *scores.LynchScore
	}
	strategyScores := []float64{scores.MinerviniScore, scores.WeinsteinScore, lynchOr50}

	avg := meanOf(strategyScores)
	variance := 0.0
	for _, s := range strategyScores {
		variance += (s - avg) * (s - avg)
	}
	stdDev := math.Sqrt(variance / float64(len(strategyScores)))
	agreement := stdDev < 15

	switch {
	case compositeScore >= 70:
		if compositeScore >= 85 && agreement {
			return models.SignalBuy, models.ConvictionHigh
		}
		return models.SignalBuy, models.ConvictionMedium

	case compositeScore >= 50:
		return models.SignalHold, models.ConvictionLow

	// A second HOLD band with identical output. Kept separate so the
	// 35..50 range stays an explicit decision, not a fallthrough.
	case compositeScore >= 35:
		return models.SignalHold, models.ConvictionLow

	default:
		if compositeScore < 25 && agreement {
			return models.SignalAvoid, models.ConvictionHigh
		}
		return models.SignalAvoid, models.ConvictionMedium
	}
}

// appendLabeled appends up to limit factors with a strategy label prefix.
func appendLabeled(dst []string, label string, factors []string, limit int) []string {
	for i, f := range factors {
		if i >= limit {
			break
		}
		dst = append(dst, label+f)
	}
	return dst
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
