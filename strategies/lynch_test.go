package strategies

import (
	"testing"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

func TestLynchInsufficientData(t *testing.T) {
	s := NewLynchStrategy()

	result, fs := s.Analyze(uptrendBars(30), &models.IndicatorSet{}, nil)
	if fs != nil {
		t.Errorf("expected no fundamental score, got %+v", fs)
	}
	if result.Score != 0 {
		t.Errorf("expected score 0, got %v", result.Score)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != "Need at least 50 bars of data" {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestLynchTechnicalFallback(t *testing.T) {
	s := NewLynchStrategy()
	bars := flatBars(100, 110)

	tests := []struct {
		name      string
		ind       *models.IndicatorSet
		wantScore float64
	}{
		{
			name: "above both MAs with bullish RSI",
			ind: &models.IndicatorSet{
				SMA50:  f(100),
				SMA200: f(90),
				RSI14:  f(55),
			},
			wantScore: 70,
		},
		{
			name: "overbought RSI",
			ind: &models.IndicatorSet{
				SMA50:  f(100),
				SMA200: f(90),
				RSI14:  f(75),
			},
			wantScore: 55,
		},
		{
			name:      "no indicators stays neutral",
			ind:       &models.IndicatorSet{},
			wantScore: 40,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, fs := s.Analyze(bars, tt.ind, nil)
			if fs != nil {
				t.Errorf("expected no fundamental score on fallback path")
			}
			if result.Score != tt.wantScore {
				t.Errorf("score = %v, want %v", result.Score, tt.wantScore)
			}
			if len(result.Warnings) == 0 || result.Warnings[0] != "Fundamental data unavailable - scoring on technical factors only" {
				t.Errorf("missing fallback warning: %v", result.Warnings)
			}
			if !checkSignalTable(result.Score, result.Signal, result.Conviction) {
				t.Errorf("signal %v/%v inconsistent with score %v", result.Signal, result.Conviction, result.Score)
			}
		})
	}
}

func TestLynchDelegatesToFundamentals(t *testing.T) {
	s := NewLynchStrategy()
	bars := uptrendBars(100)
	data := &models.FundamentalData{
		Symbol:        "GROW",
		PERatio:       f(12),
		EPSGrowth:     f(25),
		RevenueGrowth: f(22),
		ROE:           f(25),
		ROCE:          f(22),
		DebtToEquity:  f(0.2),
	}

	result, fs := s.Analyze(bars, &models.IndicatorSet{}, data)
	if fs == nil {
		t.Fatal("expected a fundamental score")
	}
	if result.Score != fs.Score {
		t.Errorf("strategy score %v should equal fundamental score %v", result.Score, fs.Score)
	}
	if result.Score != 100 || fs.Grade != "A+" {
		t.Errorf("expected 100/A+, got %v/%s", result.Score, fs.Grade)
	}
	if result.Signal != models.SignalBuy || result.Conviction != models.ConvictionHigh {
		t.Errorf("expected buy/high, got %v/%v", result.Signal, result.Conviction)
	}
	for _, w := range result.Warnings {
		if w == "Fundamental data unavailable - scoring on technical factors only" {
			t.Error("fundamental path must not carry the fallback warning")
		}
	}
}
