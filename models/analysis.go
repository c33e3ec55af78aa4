package models

import "time"

// TrendType is the primary trend classification.
type TrendType string

const (
	TrendBullish TrendType = "bullish"
	TrendBearish TrendType = "bearish"
	TrendNeutral TrendType = "neutral"
)

// SignalType is the actionable recommendation for a symbol.
type SignalType string

const (
	SignalBuy   SignalType = "buy"
	SignalSell  SignalType = "sell"
	SignalHold  SignalType = "hold"
	SignalAvoid SignalType = "avoid"
)

// ConvictionLevel expresses how strongly a signal is held.
type ConvictionLevel string

const (
	ConvictionHigh   ConvictionLevel = "high"
	ConvictionMedium ConvictionLevel = "medium"
	ConvictionLow    ConvictionLevel = "low"
)

// convictionRank orders conviction levels for filter comparisons.
var convictionRank = map[ConvictionLevel]int{
	ConvictionLow:    1,
	ConvictionMedium: 2,
	ConvictionHigh:   3,
}

// Rank returns the ordering value of a conviction level (low=1, high=3).
// Unknown levels rank 0.
func (c ConvictionLevel) Rank() int {
	return convictionRank[c]
}

// HoldingPeriod is the intended trade duration.
type HoldingPeriod string

const (
	HoldingIntraday   HoldingPeriod = "intraday"
	HoldingSwing      HoldingPeriod = "swing"
	HoldingPositional HoldingPeriod = "positional"
)

// WeinsteinStage is the Weinstein market-cycle stage (1 basing, 2 advancing,
// 3 topping, 4 declining).
type WeinsteinStage int

const (
	StageBasing    WeinsteinStage = 1
	StageAdvancing WeinsteinStage = 2
	StageTopping   WeinsteinStage = 3
	StageDeclining WeinsteinStage = 4
)

// PatternType identifies a chart pattern family.
type PatternType string

const (
	PatternCupHandle            PatternType = "cup_handle"
	PatternVCP                  PatternType = "vcp"
	PatternDoubleTop            PatternType = "double_top"
	PatternDoubleBottom         PatternType = "double_bottom"
	PatternHeadShoulders        PatternType = "head_shoulders"
	PatternHeadShouldersInverse PatternType = "head_shoulders_inverse"
	PatternAscendingTriangle    PatternType = "ascending_triangle"
	PatternDescendingTriangle   PatternType = "descending_triangle"
	PatternFlag                 PatternType = "flag"
	PatternPennant              PatternType = "pennant"
	PatternWedgeRising          PatternType = "wedge_rising"
	PatternWedgeFalling         PatternType = "wedge_falling"
	PatternBaseBreakout         PatternType = "base_breakout"
	PatternHighTightFlag        PatternType = "high_tight_flag"
	PatternPullbackMA           PatternType = "pullback_ma"
)

// Level is a horizontal support or resistance price level.
type Level struct {
	Price       float64 `json:"price"`
	Strength    int     `json:"strength"` // 1 weakest .. 5 strongest
	Touches     int     `json:"touches"`
	LevelType   string  `json:"level_type"` // "support" or "resistance"
	Description string  `json:"description"`
}

// PatternMatch is one detected chart pattern with its trade geometry.
type PatternMatch struct {
	PatternType   PatternType `json:"pattern_type"`
	PatternName   string      `json:"pattern_name"`
	Bullish       bool        `json:"bullish"`
	CompletionPct float64     `json:"completion_pct"` // 0..100
	BreakoutLevel *float64    `json:"breakout_level,omitempty"`
	TargetPrice   *float64    `json:"target_price,omitempty"`
	StopLoss      *float64    `json:"stop_loss,omitempty"`
	Confidence    float64     `json:"confidence"` // 0..1
	Description   string      `json:"description"`
}

// StrategyScores carries the per-strategy scores and the weighted composite,
// all on a 0..100 scale rounded to one decimal.
type StrategyScores struct {
	MinerviniScore   float64  `json:"minervini_score"`
	WeinsteinScore   float64  `json:"weinstein_score"`
	LynchScore       *float64 `json:"lynch_score,omitempty"`
	TechnicalScore   float64  `json:"technical_score"`
	FundamentalScore *float64 `json:"fundamental_score,omitempty"`
	CompositeScore   float64  `json:"composite_score"`
}

// AnalysisResult is the full output of analyzing one symbol.
type AnalysisResult struct {
	Symbol       string    `json:"symbol"`
	CompanyName  string    `json:"company_name,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Timeframe    string    `json:"timeframe"`
	CurrentPrice float64   `json:"current_price"`

	PrimaryTrend  TrendType `json:"primary_trend"`
	TrendStrength float64   `json:"trend_strength"` // 0..100
	TrendNotes    string    `json:"trend_notes"`

	WeinsteinStage   WeinsteinStage `json:"weinstein_stage"`
	StageDescription string         `json:"stage_description"`

	Scores StrategyScores `json:"scores"`

	DetectedPatterns []PatternMatch `json:"detected_patterns"`
	SupportLevels    []Level        `json:"support_levels"`
	ResistanceLevels []Level        `json:"resistance_levels"`

	Signal     SignalType      `json:"signal"`
	Conviction ConvictionLevel `json:"conviction"`

	// VolumeRatio is the latest volume over its 20-bar average; nil with
	// short history. Scan filters key off it.
	VolumeRatio *float64 `json:"volume_ratio,omitempty"`

	TradeSuggestion *TradeSuggestion `json:"trade_suggestion,omitempty"`

	Indicators IndicatorSet `json:"indicators"`

	BullishFactors []string `json:"bullish_factors"`
	BearishFactors []string `json:"bearish_factors"`
	Warnings       []string `json:"warnings"`
}
