package strategies

import (
	"strings"
	"testing"

	"github.com/pankajhirway/ChartAnalyzer/analysis"
	"github.com/pankajhirway/ChartAnalyzer/models"
)

func newWeinsteinForTest() *WeinsteinStrategy {
	trend := analysis.NewTrendAnalyzer(analysis.DefaultTrendConfig())
	return NewWeinsteinStrategy(trend)
}

func TestWeinsteinInsufficientData(t *testing.T) {
	s := newWeinsteinForTest()
	engine := analysis.NewIndicatorEngine(analysis.DefaultIndicatorConfig())

	bars := uptrendBars(120)
	ind := engine.Compute(bars)
	result := s.Analyze(bars, &ind)

	if result.Score != 0 {
		t.Errorf("expected score 0, got %v", result.Score)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != "Need at least 150 bars for stage analysis" {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if result.Signal != models.SignalAvoid || result.Conviction != models.ConvictionLow {
		t.Errorf("expected avoid/low, got %v/%v", result.Signal, result.Conviction)
	}
}

func TestWeinsteinUptrendIsStageTwo(t *testing.T) {
	s := newWeinsteinForTest()
	engine := analysis.NewIndicatorEngine(analysis.DefaultIndicatorConfig())

	bars := uptrendBars(250)
	ind := engine.Compute(bars)
	result := s.Analyze(bars, &ind)

	if result.Score < 40 {
		t.Errorf("stage 2 alone contributes 40, got total %v", result.Score)
	}
	if len(result.BullishFactors) == 0 || !strings.HasPrefix(result.BullishFactors[0], "Currently in Stage 2") {
		t.Errorf("expected leading stage 2 factor, got %v", result.BullishFactors)
	}
	if !checkSignalTable(result.Score, result.Signal, result.Conviction) {
		t.Errorf("signal %v/%v inconsistent with score %v", result.Signal, result.Conviction, result.Score)
	}
}

func TestWeinsteinDowntrendIsStageFour(t *testing.T) {
	s := newWeinsteinForTest()
	engine := analysis.NewIndicatorEngine(analysis.DefaultIndicatorConfig())

	bars := downtrendBars(250)
	ind := engine.Compute(bars)
	result := s.Analyze(bars, &ind)

	if len(result.BearishFactors) == 0 || !strings.HasPrefix(result.BearishFactors[0], "Currently in Stage 4") {
		t.Errorf("expected leading stage 4 factor, got %v", result.BearishFactors)
	}
	if result.Score >= 50 {
		t.Errorf("stage 4 stock should not score 50+, got %v", result.Score)
	}
}

func TestWeinsteinScoreBounds(t *testing.T) {
	s := newWeinsteinForTest()
	engine := analysis.NewIndicatorEngine(analysis.DefaultIndicatorConfig())

	scenarios := map[string][]models.Bar{
		"uptrend":   uptrendBars(250),
		"downtrend": downtrendBars(250),
		"flat":      flatBars(250, 100),
		"short":     uptrendBars(160),
	}
	for name, bars := range scenarios {
		ind := engine.Compute(bars)
		result := s.Analyze(bars, &ind)
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("%s: score out of bounds: %v", name, result.Score)
		}
	}
}

func TestTrailingSlope(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   float64
	}{
		{"rising", []float64{100, 105, 110}, 0.10},
		{"falling", []float64{100, 95, 90}, -0.10},
		{"too short", []float64{100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trailingSlope(tt.series, 20)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("trailingSlope(%v) = %v, want %v", tt.series, got, tt.want)
			}
		})
	}
}
