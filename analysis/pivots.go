package analysis

// Swing/pivot detection shared by the pattern detector, the level detector
// and the strategy scorers. A pivot at index i is the local extremum over a
// symmetric window on both sides; ties are inclusive. Indices within window
// of either boundary can never become pivots.

type swingType int

const (
	swingHigh swingType = iota
	swingLow
)

// swing is one detected pivot. High and Low carry the bar's full range so
// contraction measurements can mix a pivot's high with the next pivot's low.
type swing struct {
	Type  swingType
	Index int
	High  float64
	Low   float64
}

// Value returns the price that made this swing a pivot.
func (s swing) Value() float64 {
	if s.Type == swingHigh {
		return s.High
	}
	return s.Low
}

// findSwings returns pivots in index order. A single bar can produce both a
// high and a low pivot; the high is emitted first.
func findSwings(highs, lows []float64, window int) []swing {
	var swings []swing
	for i := window; i < len(highs)-window; i++ {
		if isWindowMax(highs, i, window) {
			swings = append(swings, swing{Type: swingHigh, Index: i, High: highs[i], Low: lows[i]})
		}
		if isWindowMin(lows, i, window) {
			swings = append(swings, swing{Type: swingLow, Index: i, High: highs[i], Low: lows[i]})
		}
	}
	return swings
}

// findPeaks returns indices of local maxima of xs over the window.
func findPeaks(xs []float64, window int) []int {
	var peaks []int
	for i := window; i < len(xs)-window; i++ {
		if isWindowMax(xs, i, window) {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// findTroughs returns indices of local minima of xs over the window.
func findTroughs(xs []float64, window int) []int {
	var troughs []int
	for i := window; i < len(xs)-window; i++ {
		if isWindowMin(xs, i, window) {
			troughs = append(troughs, i)
		}
	}
	return troughs
}

func isWindowMax(xs []float64, i, window int) bool {
	for j := i - window; j <= i+window; j++ {
		if j == i {
			continue
		}
		if xs[j] > xs[i] {
			return false
		}
	}
	return true
}

func isWindowMin(xs []float64, i, window int) bool {
	for j := i - window; j <= i+window; j++ {
		if j == i {
			continue
		}
		if xs[j] < xs[i] {
			return false
		}
	}
	return true
}
