package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StopLossType records what the stop placement was derived from.
type StopLossType string

const (
	StopPercentage StopLossType = "percentage"
	StopATR        StopLossType = "atr"
	StopSupport    StopLossType = "support"
	StopSwingLow   StopLossType = "swing_low"
)

// EntryZone is the acceptable entry price band around the ideal entry.
type EntryZone struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Target is one profit target with its risk/reward multiple.
type Target struct {
	Price       float64 `json:"price"`
	RiskReward  float64 `json:"risk_reward"`
	Description string  `json:"description"`
}

// TradeSuggestion is the actionable trade plan derived from an analysis.
type TradeSuggestion struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`

	Action     SignalType      `json:"action"`
	Conviction ConvictionLevel `json:"conviction"`

	EntryPrice   float64   `json:"entry_price"`
	EntryZone    EntryZone `json:"entry_zone"`
	EntryTrigger string    `json:"entry_trigger"`

	StopLoss     float64      `json:"stop_loss"`
	StopLossType StopLossType `json:"stop_loss_type"`
	StopLossPct  float64      `json:"stop_loss_pct"`
	RiskPerShare float64      `json:"risk_per_share"`

	Target1 Target `json:"target_1"`
	Target2 Target `json:"target_2"`
	Target3 Target `json:"target_3"`

	SuggestedPositionPct float64 `json:"suggested_position_pct"`
	MaxPositionPct       float64 `json:"max_position_pct"`

	RiskRewardRatio float64       `json:"risk_reward_ratio"`
	HoldingPeriod   HoldingPeriod `json:"holding_period"`
	StrategySource  string        `json:"strategy_source"`

	Reasoning []string `json:"reasoning"`
	Warnings  []string `json:"warnings"`
}

// PositionNotional converts the suggested position percentage into a money
// amount for the given portfolio value. Decimal arithmetic so the figure is
// exact at the API boundary.
func (t *TradeSuggestion) PositionNotional(portfolioValue decimal.Decimal) decimal.Decimal {
	pct := decimal.NewFromFloat(t.SuggestedPositionPct)
	return portfolioValue.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}

// MaxPositionNotional is PositionNotional for the maximum allowed size.
func (t *TradeSuggestion) MaxPositionNotional(portfolioValue decimal.Decimal) decimal.Decimal {
	pct := decimal.NewFromFloat(t.MaxPositionPct)
	return portfolioValue.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}
