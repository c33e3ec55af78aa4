package strategies

import (
	"strings"
	"testing"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

func f(v float64) *float64 { return &v }

func TestFundamentalScorerNoData(t *testing.T) {
	s := NewFundamentalScorer()

	if got := s.Score(nil); got != nil {
		t.Errorf("expected nil for nil data, got %+v", got)
	}
	if got := s.Score(&models.FundamentalData{Symbol: "TEST", DebtToEquity: f(0.5)}); got != nil {
		t.Errorf("debt alone is not scoreable, got %+v", got)
	}
}

func TestFundamentalScorerExcellent(t *testing.T) {
	s := NewFundamentalScorer()
	data := &models.FundamentalData{
		Symbol:        "GROW",
		PERatio:       f(12),
		EPSGrowth:     f(25),
		RevenueGrowth: f(22),
		ROE:           f(25),
		ROCE:          f(22),
		DebtToEquity:  f(0.2),
	}

	got := s.Score(data)
	if got == nil {
		t.Fatal("expected a score")
	}
	if got.Score != 100 {
		t.Errorf("expected 100, got %v (details %v)", got.Score, got.DetailScores)
	}
	if got.Grade != "A+" {
		t.Errorf("expected grade A+, got %s", got.Grade)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", got.Warnings)
	}
}

func TestFundamentalScorerPoor(t *testing.T) {
	s := NewFundamentalScorer()
	data := &models.FundamentalData{
		Symbol:       "LEVER",
		PERatio:      f(60),
		ROE:          f(-5),
		DebtToEquity: f(3.5),
	}

	got := s.Score(data)
	if got == nil {
		t.Fatal("expected a score")
	}
	if got.Grade != "D" {
		t.Errorf("expected grade D, got %s (score %v)", got.Grade, got.Score)
	}

	wantWarnings := []string{
		"P/E ratio suggests overvaluation",
		"Excessive leverage - significant financial risk",
	}
	for _, w := range wantWarnings {
		found := false
		for _, g := range got.Warnings {
			if g == w {
				found = true
			}
		}
		if !found {
			t.Errorf("missing warning %q in %v", w, got.Warnings)
		}
	}
}

func TestFundamentalScorerPEGBuckets(t *testing.T) {
	s := NewFundamentalScorer()
	tests := []struct {
		name      string
		pe        *float64
		epsGrowth *float64
		want      float64
	}{
		{"low pe with bargain growth", f(12), f(25), 25},
		{"low pe no growth data", f(12), nil, 15},
		{"mid pe no growth data", f(30), nil, 4},
		{"high pe expensive growth", f(60), f(10), 0},
		{"no pe", nil, f(25), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.scorePERatio(&models.FundamentalData{PERatio: tt.pe, EPSGrowth: tt.epsGrowth},
				&[]string{}, &[]string{}, &[]string{})
			if got != tt.want {
				t.Errorf("pe score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFundamentalScorerDebtBuckets(t *testing.T) {
	s := NewFundamentalScorer()
	tests := []struct {
		name string
		de   *float64
		want float64
	}{
		{"missing is neutral", nil, 5},
		{"very low", f(0.2), 20},
		{"low", f(0.4), 18},
		{"conservative", f(0.6), 15},
		{"manageable", f(0.9), 10},
		{"middling", f(1.2), 5},
		{"moderate high", f(1.8), 0},
		{"high", f(2.5), 0},
		{"excessive", f(4.0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.scoreDebtEquity(&models.FundamentalData{DebtToEquity: tt.de},
				&[]string{}, &[]string{}, &[]string{})
			if got != tt.want {
				t.Errorf("debt score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFundamentalScorerLeverageWarning(t *testing.T) {
	s := NewFundamentalScorer()
	data := &models.FundamentalData{
		Symbol: "LBO",
		ROE:    f(35),
		ROCE:   f(12),
	}

	got := s.Score(data)
	if got == nil {
		t.Fatal("expected a score")
	}
	found := false
	for _, w := range got.Warnings {
		if strings.Contains(w, "check leverage") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected leverage warning for ROE/ROCE gap, got %v", got.Warnings)
	}
}

func TestGradeFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "A+"}, {90, "A+"}, {85, "A"}, {75, "B+"},
		{65, "B"}, {55, "C"}, {49.9, "D"}, {0, "D"},
	}
	for _, tt := range tests {
		if got := gradeFromScore(tt.score); got != tt.want {
			t.Errorf("gradeFromScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
