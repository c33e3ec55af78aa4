package analysis

import "math"

// Series helpers shared by the analysis components. Rolling functions are
// NaN-propagating: a window that is incomplete or contains NaN yields NaN,
// so downstream code can distinguish "not computable" from a real value.

var nan = math.NaN()

func tail(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return nan
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdSample is the sample standard deviation (n-1 denominator).
func stdSample(xs []float64) float64 {
	if len(xs) < 2 {
		return nan
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return nan
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return nan
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func rollingMean(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		if i < period-1 {
			out[i] = nan
			continue
		}
		out[i] = windowStat(xs[i-period+1:i+1], mean)
	}
	return out
}

func rollingStd(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		if i < period-1 {
			out[i] = nan
			continue
		}
		out[i] = windowStat(xs[i-period+1:i+1], stdSample)
	}
	return out
}

func rollingMax(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		if i < period-1 {
			out[i] = nan
			continue
		}
		out[i] = windowStat(xs[i-period+1:i+1], maxOf)
	}
	return out
}

func rollingMin(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		if i < period-1 {
			out[i] = nan
			continue
		}
		out[i] = windowStat(xs[i-period+1:i+1], minOf)
	}
	return out
}

func windowStat(window []float64, stat func([]float64) float64) float64 {
	for _, x := range window {
		if math.IsNaN(x) {
			return nan
		}
	}
	return stat(window)
}

// diff returns first differences aligned to the input: out[0] is NaN.
func diff(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(out) > 0 {
		out[0] = nan
	}
	for i := 1; i < len(xs); i++ {
		out[i] = xs[i] - xs[i-1]
	}
	return out
}

// emaSeries computes an exponential moving average over the full series,
// seeded with the first value, alpha = 2/(span+1).
func emaSeries(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// slopePct is the fractional change from the first to the last valid value
// of the trailing lookback window. Returns 0 when the series is shorter
// than the lookback or fewer than two valid values remain.
func slopePct(xs []float64, lookback int) float64 {
	if len(xs) < lookback {
		return 0
	}
	window := tail(xs, lookback)
	valid := make([]float64, 0, len(window))
	for _, x := range window {
		if !math.IsNaN(x) {
			valid = append(valid, x)
		}
	}
	if len(valid) < 2 || valid[0] == 0 {
		return 0
	}
	return (valid[len(valid)-1] - valid[0]) / valid[0]
}

// linregSlope is the least-squares slope of xs against its index.
func linregSlope(xs []float64) float64 {
	n := float64(len(xs))
	if n < 2 {
		return 0
	}
	xMean := (n - 1) / 2
	yMean := mean(xs)
	num, den := 0.0, 0.0
	for i, y := range xs {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// countIncreases counts consecutive increases xs[i] > xs[i-1]. Returns 0
// when the series is shorter than minLen.
func countIncreases(xs []float64, minLen int) int {
	if len(xs) < minLen {
		return 0
	}
	count := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[i-1] {
			count++
		}
	}
	return count
}

// countDecreases counts consecutive decreases xs[i] < xs[i-1]. Returns 0
// when the series is shorter than minLen.
func countDecreases(xs []float64, minLen int) int {
	if len(xs) < minLen {
		return 0
	}
	count := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			count++
		}
	}
	return count
}

// ptrIfValid returns a pointer to v, or nil when v is NaN.
func ptrIfValid(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func lastOf(xs []float64) float64 {
	if len(xs) == 0 {
		return nan
	}
	return xs[len(xs)-1]
}
