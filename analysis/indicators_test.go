package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// flatBars returns n bars pinned at price with high=low=close.
func flatBars(n int, price, volume float64) []models.Bar {
	bars := make([]models.Bar, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    volume,
		}
	}
	return bars
}

// steppedBars returns n bars moving by step per bar with a small range.
func steppedBars(n int, start, step, volume float64) []models.Bar {
	bars := make([]models.Bar, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		close := start + step*float64(i)
		bars[i] = models.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      close - step/2,
			High:      close + 0.5,
			Low:       close - 0.5,
			Close:     close,
			Volume:    volume,
		}
	}
	return bars
}

func almost(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestComputeInsufficientBars(t *testing.T) {
	engine := NewIndicatorEngine(DefaultIndicatorConfig())

	set := engine.Compute(flatBars(49, 100, 1000))
	if set.SMA20 != nil || set.RSI14 != nil || set.MACD != nil || set.ATR14 != nil {
		t.Errorf("expected all-absent set below the minimum bar count: %+v", set)
	}
}

func TestComputeFlatSeries(t *testing.T) {
	engine := NewIndicatorEngine(DefaultIndicatorConfig())

	set := engine.Compute(flatBars(60, 100, 1000))

	for name, v := range map[string]*float64{
		"SMA10": set.SMA10,
		"SMA20": set.SMA20,
		"SMA50": set.SMA50,
		"EMA8":  set.EMA8,
		"EMA21": set.EMA21,
	} {
		if v == nil || *v != 100 {
			t.Errorf("%s: expected 100, got %v", name, v)
		}
	}

	// Longer lookbacks stay absent with only 60 bars.
	if set.SMA150 != nil || set.SMA200 != nil {
		t.Error("SMA150/SMA200 should be absent with 60 bars")
	}

	if set.MACD == nil || *set.MACD != 0 {
		t.Errorf("flat series MACD should be 0, got %v", set.MACD)
	}

	// No losses at all pins RSI at 100.
	if set.RSI14 == nil || *set.RSI14 != 100 {
		t.Errorf("flat series RSI should be 100, got %v", set.RSI14)
	}

	// Zero high-low range maps raw %K to 0.
	if set.StochK == nil || *set.StochK != 0 {
		t.Errorf("flat series StochK should be 0, got %v", set.StochK)
	}

	if set.BBUpper == nil || set.BBLower == nil || *set.BBUpper != 100 || *set.BBLower != 100 {
		t.Errorf("flat series bands should collapse to the midline: %v / %v", set.BBUpper, set.BBLower)
	}
	if set.BBWidth == nil || *set.BBWidth != 0 {
		t.Errorf("flat series band width should be 0, got %v", set.BBWidth)
	}

	if set.ATR14 == nil || *set.ATR14 != 0 {
		t.Errorf("flat series ATR should be 0, got %v", set.ATR14)
	}

	// Zero ATR makes the DI series non-computable.
	if set.ADX14 != nil || set.PlusDI != nil || set.MinusDI != nil {
		t.Error("flat series ADX family should be absent")
	}

	if set.VolumeSMA20 == nil || *set.VolumeSMA20 != 1000 {
		t.Errorf("expected VolumeSMA20 1000, got %v", set.VolumeSMA20)
	}

	// Flat closes never move OBV off zero.
	if set.OBV == nil || *set.OBV != 0 {
		t.Errorf("flat series OBV should be 0, got %v", set.OBV)
	}
}

func TestRSIBoundaries(t *testing.T) {
	engine := NewIndicatorEngine(DefaultIndicatorConfig())

	up := engine.Compute(steppedBars(60, 100, 0.5, 1000))
	if up.RSI14 == nil || *up.RSI14 != 100 {
		t.Errorf("all-gain series RSI should be 100, got %v", up.RSI14)
	}

	down := engine.Compute(steppedBars(60, 150, -0.5, 1000))
	if down.RSI14 == nil || *down.RSI14 != 0 {
		t.Errorf("all-loss series RSI should be 0, got %v", down.RSI14)
	}
}

func TestComputeTrendingSMAs(t *testing.T) {
	engine := NewIndicatorEngine(DefaultIndicatorConfig())

	// close_i = 100 + 0.5*i, i = 0..59; SMA20 is the mean of the last 20.
	set := engine.Compute(steppedBars(60, 100, 0.5, 1000))
	if set.SMA20 == nil || !almost(*set.SMA20, 124.75, 1e-9) {
		t.Errorf("expected SMA20 124.75, got %v", set.SMA20)
	}
	if set.SMA50 == nil || !almost(*set.SMA50, 117.25, 1e-9) {
		t.Errorf("expected SMA50 117.25, got %v", set.SMA50)
	}

	// Rising closes accumulate the full volume into OBV.
	if set.OBV == nil || *set.OBV != 59000 {
		t.Errorf("expected OBV 59000, got %v", set.OBV)
	}
}

func TestRelativeStrength(t *testing.T) {
	engine := NewIndicatorEngine(DefaultIndicatorConfig())

	stock := []float64{100, 110, 120}
	bench := []float64{100, 105, 110}

	rs := engine.RelativeStrength(stock, bench)
	if rs == nil {
		t.Fatal("expected a relative strength value")
	}
	if !almost(*rs, 1.2/1.1, 1e-9) {
		t.Errorf("expected RS %.4f, got %.4f", 1.2/1.1, *rs)
	}

	if engine.RelativeStrength([]float64{100}, bench) != nil {
		t.Error("short stock series should yield nil")
	}
	if engine.RelativeStrength(stock, []float64{100}) != nil {
		t.Error("short benchmark series should yield nil")
	}
}
