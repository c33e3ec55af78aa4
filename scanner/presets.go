package scanner

import "github.com/pankajhirway/ChartAnalyzer/models"

func signalPtr(s models.SignalType) *models.SignalType               { return &s }
func convictionPtr(c models.ConvictionLevel) *models.ConvictionLevel { return &c }
func trendPtr(t models.TrendType) *models.TrendType                  { return &t }
func stagePtr(s models.WeinsteinStage) *models.WeinsteinStage        { return &s }
func floatPtr(v float64) *float64                                    { return &v }

// Presets returns the built-in scan presets in display order.
func Presets() []models.ScanPreset {
	return []models.ScanPreset{
		{
			ID:          "minervini_breakouts",
			Name:        "Minervini Breakouts",
			Description: "Stocks showing VCP (Volatility Contraction Pattern) or base breakout patterns with volume confirmation",
			Filter: models.ScanFilter{
				MinCompositeScore: 65,
				MaxCompositeScore: 100,
				Signal:            signalPtr(models.SignalBuy),
				MinVolumeRatio:    floatPtr(1.2),
			},
		},
		{
			ID:          "stage_2_stocks",
			Name:        "Stage 2 Stocks",
			Description: "Stocks in Weinstein Stage 2 (advancing phase) with strong uptrend characteristics",
			Filter: models.ScanFilter{
				MinCompositeScore: 55,
				MaxCompositeScore: 100,
				Trend:             trendPtr(models.TrendBullish),
				WeinsteinStage:    stagePtr(models.StageAdvancing),
			},
		},
		{
			ID:          "vcp_setups",
			Name:        "VCP Setups",
			Description: "Volatility Contraction Pattern setups - tightening price action with decreasing volatility",
			Filter: models.ScanFilter{
				MinCompositeScore: 60,
				MaxCompositeScore: 100,
				Signal:            signalPtr(models.SignalBuy),
			},
		},
		{
			ID:          "high_composite_score",
			Name:        "High Composite Score",
			Description: "Stocks with highest composite technical scores across all analysis dimensions",
			Filter: models.ScanFilter{
				MinCompositeScore: 75,
				MaxCompositeScore: 100,
				Signal:            signalPtr(models.SignalBuy),
				MinConviction:     convictionPtr(models.ConvictionMedium),
			},
		},
		{
			ID:          "volume_breakouts",
			Name:        "Volume Breakouts",
			Description: "Stocks breaking above resistance with significant volume increase (52-week high focus)",
			Filter: models.ScanFilter{
				MinCompositeScore: 60,
				MaxCompositeScore: 100,
				Signal:            signalPtr(models.SignalBuy),
				MinVolumeRatio:    floatPtr(1.5),
			},
		},
		{
			ID:          "pullback_entries",
			Name:        "Pullback Entries",
			Description: "Stocks in uptrend pulling back to key moving averages or support zones",
			Filter: models.ScanFilter{
				MinCompositeScore: 50,
				MaxCompositeScore: 75,
				Trend:             trendPtr(models.TrendBullish),
				WeinsteinStage:    stagePtr(models.StageAdvancing),
			},
		},
		{
			ID:          "high_conviction",
			Name:        "High Conviction",
			Description: "High conviction buy signals where multiple indicators and strategies align",
			Filter: models.ScanFilter{
				MinCompositeScore: 70,
				MaxCompositeScore: 100,
				Signal:            signalPtr(models.SignalBuy),
				MinConviction:     convictionPtr(models.ConvictionHigh),
			},
		},
	}
}

// PresetByID returns the preset with the given id.
func PresetByID(id string) (models.ScanPreset, bool) {
	for _, p := range Presets() {
		if p.ID == id {
			return p, true
		}
	}
	return models.ScanPreset{}, false
}
