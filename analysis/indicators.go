package analysis

import (
	"math"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// IndicatorConfig holds the lookback periods for the indicator engine.
// Construct once and pass in; the engine never mutates it.
type IndicatorConfig struct {
	SMAPeriods []int
	EMAPeriods []int

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	RSIPeriod int

	StochPeriod  int
	StochSmoothK int
	StochSmoothD int

	BBPeriod int
	BBStdDev float64

	ATRPeriod int
	ADXPeriod int

	VolumeSMAPeriods []int

	// MinBars gates the whole computation: fewer bars yields an all-absent set.
	MinBars int
}

// DefaultIndicatorConfig returns the standard period set.
func DefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{
		SMAPeriods:       []int{10, 20, 50, 150, 200},
		EMAPeriods:       []int{8, 21},
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		RSIPeriod:        14,
		StochPeriod:      14,
		StochSmoothK:     3,
		StochSmoothD:     3,
		BBPeriod:         20,
		BBStdDev:         2,
		ATRPeriod:        14,
		ADXPeriod:        14,
		VolumeSMAPeriods: []int{20, 50},
		MinBars:          50,
	}
}

// IndicatorEngine computes the latest indicator values from OHLCV bars.
type IndicatorEngine struct {
	cfg IndicatorConfig
}

// NewIndicatorEngine creates an engine with the given config.
func NewIndicatorEngine(cfg IndicatorConfig) *IndicatorEngine {
	return &IndicatorEngine{cfg: cfg}
}

// Compute returns the indicator snapshot for the most recent bar. With fewer
// than MinBars bars every field is absent; individual indicators with longer
// lookbacks are absent until their own window is satisfied.
func (e *IndicatorEngine) Compute(bars []models.Bar) models.IndicatorSet {
	var set models.IndicatorSet
	n := len(bars)
	if n < e.cfg.MinBars {
		return set
	}

	closes := models.Closes(bars)
	highs := models.Highs(bars)
	lows := models.Lows(bars)
	volumes := models.Volumes(bars)

	for _, period := range e.cfg.SMAPeriods {
		if n < period {
			continue
		}
		v := mean(tail(closes, period))
		switch period {
		case 10:
			set.SMA10 = ptrIfValid(v)
		case 20:
			set.SMA20 = ptrIfValid(v)
		case 50:
			set.SMA50 = ptrIfValid(v)
		case 150:
			set.SMA150 = ptrIfValid(v)
		case 200:
			set.SMA200 = ptrIfValid(v)
		}
	}

	for _, period := range e.cfg.EMAPeriods {
		if n < period {
			continue
		}
		v := lastOf(emaSeries(closes, period))
		switch period {
		case 8:
			set.EMA8 = ptrIfValid(v)
		case 21:
			set.EMA21 = ptrIfValid(v)
		}
	}

	macd, signal, histogram := e.macd(closes)
	set.MACD = ptrIfValid(macd)
	set.MACDSignal = ptrIfValid(signal)
	set.MACDHistogram = ptrIfValid(histogram)

	set.RSI14 = ptrIfValid(e.rsi(closes))

	k, d := e.stochastic(highs, lows, closes)
	set.StochK = ptrIfValid(k)
	set.StochD = ptrIfValid(d)

	upper, middle, lower, width := e.bollinger(closes)
	set.BBUpper = ptrIfValid(upper)
	set.BBMiddle = ptrIfValid(middle)
	set.BBLower = ptrIfValid(lower)
	set.BBWidth = ptrIfValid(width)

	set.ATR14 = ptrIfValid(e.atr(highs, lows, closes))

	adx, plusDI, minusDI := e.adx(highs, lows, closes)
	set.ADX14 = ptrIfValid(adx)
	set.PlusDI = ptrIfValid(plusDI)
	set.MinusDI = ptrIfValid(minusDI)

	for _, period := range e.cfg.VolumeSMAPeriods {
		if n < period {
			continue
		}
		v := mean(tail(volumes, period))
		switch period {
		case 20:
			set.VolumeSMA20 = ptrIfValid(v)
		case 50:
			set.VolumeSMA50 = ptrIfValid(v)
		}
	}

	obv := obvSeries(closes, volumes)
	set.OBV = ptrIfValid(lastOf(obv))
	if len(obv) >= 20 {
		set.OBVSMA = ptrIfValid(mean(tail(obv, 20)))
	}

	return set
}

// macd returns the latest MACD line, signal line and histogram.
func (e *IndicatorEngine) macd(closes []float64) (macd, signal, histogram float64) {
	fast := emaSeries(closes, e.cfg.MACDFast)
	slow := emaSeries(closes, e.cfg.MACDSlow)
	line := make([]float64, len(closes))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	macd = lastOf(line)
	signal = lastOf(emaSeries(line, e.cfg.MACDSignal))
	histogram = macd - signal
	return macd, signal, histogram
}

// rsi computes RSI over rolling mean gain/loss. A zero average loss maps to
// infinite relative strength, pinning RSI at 100.
func (e *IndicatorEngine) rsi(closes []float64) float64 {
	period := e.cfg.RSIPeriod
	if len(closes) < period+1 {
		return nan
	}
	deltas := tail(diff(closes), period)
	gainSum, lossSum := 0.0, 0.0
	for _, d := range deltas {
		if d > 0 {
			gainSum += d
		} else {
			lossSum += -d
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// stochastic returns smoothed %K and %D. A zero high-low range maps the raw
// %K to 0 via the infinite-denominator substitution.
func (e *IndicatorEngine) stochastic(highs, lows, closes []float64) (k, d float64) {
	period := e.cfg.StochPeriod
	if len(closes) < period {
		return nan, nan
	}
	rawK := make([]float64, len(closes))
	lowMin := rollingMin(lows, period)
	highMax := rollingMax(highs, period)
	for i := range rawK {
		if math.IsNaN(lowMin[i]) || math.IsNaN(highMax[i]) {
			rawK[i] = nan
			continue
		}
		denom := highMax[i] - lowMin[i]
		if denom == 0 {
			rawK[i] = 0
			continue
		}
		rawK[i] = 100 * (closes[i] - lowMin[i]) / denom
	}
	smoothK := rollingMean(rawK, e.cfg.StochSmoothK)
	smoothD := rollingMean(smoothK, e.cfg.StochSmoothD)
	return lastOf(smoothK), lastOf(smoothD)
}

// bollinger returns the latest upper/middle/lower bands and width as a
// percentage of the midline.
func (e *IndicatorEngine) bollinger(closes []float64) (upper, middle, lower, width float64) {
	period := e.cfg.BBPeriod
	if len(closes) < period {
		return nan, nan, nan, nan
	}
	window := tail(closes, period)
	middle = mean(window)
	std := stdSample(window)
	upper = middle + e.cfg.BBStdDev*std
	lower = middle - e.cfg.BBStdDev*std
	width = (upper - lower) / middle * 100
	return upper, middle, lower, width
}

// atr is the rolling mean of the true range.
func (e *IndicatorEngine) atr(highs, lows, closes []float64) float64 {
	period := e.cfg.ATRPeriod
	if len(closes) < period+1 {
		return nan
	}
	tr := trueRange(highs, lows, closes)
	return mean(tail(tr[1:], period))
}

// adx returns the latest ADX, +DI and -DI. Zero-denominator DX is mapped
// to 0 via the infinite-denominator substitution.
func (e *IndicatorEngine) adx(highs, lows, closes []float64) (adx, plusDI, minusDI float64) {
	period := e.cfg.ADXPeriod
	if len(closes) < period*2 {
		return nan, nan, nan
	}

	n := len(closes)
	tr := trueRange(highs, lows, closes)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	plusDM[0], minusDM[0] = nan, nan
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up < 0 {
			up = 0
		}
		if down < 0 {
			down = 0
		}
		plusDM[i] = up
		minusDM[i] = down
	}

	atrSeries := rollingMean(tr, period)
	plusSmooth := rollingMean(plusDM, period)
	minusSmooth := rollingMean(minusDM, period)

	plusDISeries := make([]float64, n)
	minusDISeries := make([]float64, n)
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(atrSeries[i]) || math.IsNaN(plusSmooth[i]) || math.IsNaN(minusSmooth[i]) || atrSeries[i] == 0 {
			plusDISeries[i] = nan
			minusDISeries[i] = nan
			dx[i] = nan
			continue
		}
		plusDISeries[i] = 100 * plusSmooth[i] / atrSeries[i]
		minusDISeries[i] = 100 * minusSmooth[i] / atrSeries[i]
		sum := plusDISeries[i] + minusDISeries[i]
		if sum == 0 {
			dx[i] = 0
			continue
		}
		dx[i] = 100 * math.Abs(plusDISeries[i]-minusDISeries[i]) / sum
	}
	adxSeries := rollingMean(dx, period)
	return lastOf(adxSeries), lastOf(plusDISeries), lastOf(minusDISeries)
}

// trueRange returns the TR series aligned to the input; index 0 is NaN.
func trueRange(highs, lows, closes []float64) []float64 {
	n := len(closes)
	tr := make([]float64, n)
	if n > 0 {
		tr[0] = nan
	}
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// obvSeries is cumulative signed volume with sign(0) = 0.
func obvSeries(closes, volumes []float64) []float64 {
	out := make([]float64, len(closes))
	cum := 0.0
	for i := range closes {
		if i > 0 {
			switch {
			case closes[i] > closes[i-1]:
				cum += volumes[i]
			case closes[i] < closes[i-1]:
				cum -= volumes[i]
			}
		}
		out[i] = cum
	}
	return out
}

// RelativeStrength is the ratio of cumulative returns of the stock against
// a benchmark over the full overlapping window. Nil when either series has
// fewer than two values or the benchmark did not move.
func (e *IndicatorEngine) RelativeStrength(stockCloses, benchmarkCloses []float64) *float64 {
	if len(stockCloses) < 2 || len(benchmarkCloses) < 2 {
		return nil
	}
	stockChange := stockCloses[len(stockCloses)-1] / stockCloses[0]
	benchChange := benchmarkCloses[len(benchmarkCloses)-1] / benchmarkCloses[0]
	if benchChange == 0 {
		return nil
	}
	rs := stockChange / benchChange
	return &rs
}
