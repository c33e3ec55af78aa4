package analyzer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/strategies"
)

// positionPctByConviction sizes positions as a percentage of portfolio.
var positionPctByConviction = map[models.ConvictionLevel]float64{
	models.ConvictionHigh:   5.0,
	models.ConvictionMedium: 3.0,
	models.ConvictionLow:    1.5,
}

// BuildTradeSuggestion derives a trade plan from the analysis. HOLD
// signals yield no plan; AVOID yields a fixed do-not-enter plan; buy
// signals get an ATR-sized entry zone, a support-derived stop and
// risk-multiple targets.
func BuildTradeSuggestion(
	symbol string,
	bars []models.Bar,
	ind *models.IndicatorSet,
	patterns []models.PatternMatch,
	support, resistance []models.Level,
	strategyResult strategies.CompositeResult,
) *models.TradeSuggestion {
	currentPrice := bars[len(bars)-1].Close

	if strategyResult.Signal == models.SignalHold {
		return nil
	}

	if strategyResult.Signal == models.SignalAvoid {
		degenerate := models.Target{Price: currentPrice, RiskReward: 0, Description: "N/A"}
		return &models.TradeSuggestion{
			Symbol:       strings.ToUpper(symbol),
			Timestamp:    time.Now(),
			Action:       models.SignalAvoid,
			Conviction:   strategyResult.Conviction,
			EntryPrice:   currentPrice,
			EntryZone:    models.EntryZone{Low: currentPrice * 0.99, High: currentPrice * 1.01},
			EntryTrigger: "Do not enter - wait for better setup",
			StopLoss:     currentPrice * 1.05,
			StopLossType: models.StopPercentage,
			StopLossPct:  5.0,
			RiskPerShare: currentPrice * 0.05,
			Target1:      degenerate,
			Target2:      degenerate,
			Target3:      degenerate,

			SuggestedPositionPct: 0,
			MaxPositionPct:       0,
			RiskRewardRatio:      0,
			HoldingPeriod:        models.HoldingSwing,
			StrategySource:       "Composite Strategy",
			Reasoning:            append([]string{"Current setup not favorable"}, capFactors(strategyResult.BearishFactors, 3)...),
			Warnings:             strategyResult.Warnings,
		}
	}

	atr, ok := ind.Lookup(models.IndATR14)
	if !ok || atr == 0 {
		atr = currentPrice * 0.02
	}

	entryPrice := currentPrice
	entryLow := currentPrice - atr*0.5
	entryHigh := currentPrice + atr*0.5

	var stopLoss float64
	if len(support) > 0 {
		nearest := support
		if len(nearest) > 3 {
			nearest = nearest[:3]
		}
		highestSupport := nearest[0].Price
		for _, s := range nearest[1:] {
			if s.Price > highestSupport {
				highestSupport = s.Price
			}
		}
		stopLoss = highestSupport - atr*0.5
	} else {
		stopLoss = currentPrice - atr*2
	}

	// Hard floor keeps the stop a sensible distance below entry even when
	// support sits just under the price.
	stopLoss = math.Min(stopLoss, currentPrice-atr*1.5)

	riskPerShare := entryPrice - stopLoss
	stopPct := riskPerShare / entryPrice * 100

	target1Price := entryPrice + riskPerShare*1.5
	target2Price := entryPrice + riskPerShare*2.5
	target3Price := entryPrice + riskPerShare*4.0

	if len(resistance) > 0 {
		nearest := resistance[0]
		for _, r := range resistance[1:] {
			if math.Abs(r.Price-entryPrice) < math.Abs(nearest.Price-entryPrice) {
				nearest = r
			}
		}
		if entryPrice < nearest.Price && nearest.Price < target2Price {
			target2Price = nearest.Price * 0.98
		}
	}

	positionPct, ok := positionPctByConviction[strategyResult.Conviction]
	if !ok {
		positionPct = 2.0
	}

	entryTrigger := "Current price level"
	if len(patterns) > 0 && patterns[0].BreakoutLevel != nil {
		entryTrigger = fmt.Sprintf("Buy on breakout above %.2f", *patterns[0].BreakoutLevel)
	}

	var reasoning []string
	if len(patterns) > 0 {
		reasoning = append(reasoning, "Pattern: "+patterns[0].PatternName)
	}
	reasoning = append(reasoning, capFactors(strategyResult.BullishFactors, 4)...)

	stopType := models.StopATR
	if len(support) > 0 {
		stopType = models.StopSupport
	}

	return &models.TradeSuggestion{
		Symbol:       strings.ToUpper(symbol),
		Timestamp:    time.Now(),
		Action:       strategyResult.Signal,
		Conviction:   strategyResult.Conviction,
		EntryPrice:   round2(entryPrice),
		EntryZone:    models.EntryZone{Low: round2(entryLow), High: round2(entryHigh)},
		EntryTrigger: entryTrigger,
		StopLoss:     round2(stopLoss),
		StopLossType: stopType,
		StopLossPct:  round2(stopPct),
		RiskPerShare: round2(riskPerShare),
		Target1:      models.Target{Price: round2(target1Price), RiskReward: 1.5, Description: "Conservative target"},
		Target2:      models.Target{Price: round2(target2Price), RiskReward: 2.5, Description: "Moderate target"},
		Target3:      models.Target{Price: round2(target3Price), RiskReward: 4.0, Description: "Aggressive target"},

		SuggestedPositionPct: positionPct,
		MaxPositionPct:       positionPct * 1.5,
		RiskRewardRatio:      2.0,
		HoldingPeriod:        models.HoldingSwing,
		StrategySource:       "Composite: Minervini + Weinstein + Lynch",
		Reasoning:            reasoning,
		Warnings:             strategyResult.Warnings,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
