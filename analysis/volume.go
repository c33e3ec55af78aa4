package analysis

import (
	"fmt"
	"math"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// VolumeConfig holds volume analysis thresholds.
type VolumeConfig struct {
	SMAPeriods             []int
	SpikeThreshold         float64 // multiple of the 20-bar average
	AccumulationThreshold  float64 // up-day vs down-day volume ratio
	ClimaxThreshold        float64 // multiple of the 20-bar average
	DryingUpLookback       int
	DryingUpAvgMultiple    float64
	ConfirmationLookback   int
	BreakoutMinPriceChange float64 // percent
}

// DefaultVolumeConfig returns the standard thresholds.
func DefaultVolumeConfig() VolumeConfig {
	return VolumeConfig{
		SMAPeriods:             []int{20, 50},
		SpikeThreshold:         1.5,
		AccumulationThreshold:  2.0,
		ClimaxThreshold:        3.0,
		DryingUpLookback:       10,
		DryingUpAvgMultiple:    0.7,
		ConfirmationLookback:   10,
		BreakoutMinPriceChange: 1.0,
	}
}

// VolumeProfile is the output of a volume analysis pass.
type VolumeProfile struct {
	CurrentVolume        float64  `json:"current_volume"`
	AvgVolume20          *float64 `json:"avg_volume_20,omitempty"`
	AvgVolume50          *float64 `json:"avg_volume_50,omitempty"`
	VolumeRatio          *float64 `json:"volume_ratio,omitempty"`
	VolumeTrend          string   `json:"volume_trend"` // increasing, decreasing, stable, neutral
	OnBreakout           bool     `json:"on_breakout"`
	AccumulationDetected bool     `json:"accumulation_detected"`
	DistributionDetected bool     `json:"distribution_detected"`
	VolumeConfirmation   bool     `json:"volume_confirmation"`
	Notes                []string `json:"notes"`
}

// VolumeClimax flags exhaustion-level volume on the latest bar.
type VolumeClimax struct {
	Detected       bool    `json:"detected"`
	VolumeRatio    float64 `json:"volume_ratio,omitempty"`
	PriceChangePct float64 `json:"price_change_pct,omitempty"`
	Type           string  `json:"type,omitempty"` // buying_climax or selling_climax
}

// VolumeAnalyzer classifies the volume regime of a bar sequence.
type VolumeAnalyzer struct {
	cfg VolumeConfig
}

// NewVolumeAnalyzer creates an analyzer with the given config.
func NewVolumeAnalyzer(cfg VolumeConfig) *VolumeAnalyzer {
	return &VolumeAnalyzer{cfg: cfg}
}

// Analyze returns the volume profile for the bar sequence. An empty
// sequence yields the all-default profile.
func (a *VolumeAnalyzer) Analyze(bars []models.Bar) VolumeProfile {
	profile := VolumeProfile{VolumeTrend: "neutral", Notes: []string{}}
	if len(bars) == 0 {
		return profile
	}

	volumes := models.Volumes(bars)
	profile.CurrentVolume = lastOf(volumes)

	if len(volumes) >= 20 {
		profile.AvgVolume20 = models.Float64Ptr(mean(tail(volumes, 20)))
	}
	if len(volumes) >= 50 {
		profile.AvgVolume50 = models.Float64Ptr(mean(tail(volumes, 50)))
	}

	if profile.AvgVolume20 != nil && *profile.AvgVolume20 != 0 {
		profile.VolumeRatio = models.Float64Ptr(profile.CurrentVolume / *profile.AvgVolume20)
	}

	profile.VolumeTrend = a.volumeTrend(volumes)
	profile.OnBreakout = a.breakoutVolume(bars)

	accumulation, distribution := a.accumulationDistribution(bars)
	profile.AccumulationDetected = accumulation
	profile.DistributionDetected = distribution

	profile.VolumeConfirmation = a.volumeConfirmation(bars)
	profile.Notes = a.notes(profile)

	return profile
}

// volumeTrend compares the 20-bar and 50-bar volume averages.
func (a *VolumeAnalyzer) volumeTrend(volumes []float64) string {
	if len(volumes) < 50 {
		return "neutral"
	}
	avg20 := mean(tail(volumes, 20))
	avg50 := mean(tail(volumes, 50))

	switch {
	case avg20 > avg50*1.2:
		return "increasing"
	case avg20 < avg50*0.8:
		return "decreasing"
	default:
		return "stable"
	}
}

// breakoutVolume flags a volume spike coinciding with a >1% price move.
func (a *VolumeAnalyzer) breakoutVolume(bars []models.Bar) bool {
	if len(bars) < 20 {
		return false
	}
	volumes := models.Volumes(bars)
	closes := models.Closes(bars)

	avgVolume := mean(tail(volumes, 20))
	currentVolume := lastOf(volumes)
	currentClose := lastOf(closes)
	prevClose := currentClose
	if len(closes) > 1 {
		prevClose = closes[len(closes)-2]
	}

	priceChangePct := math.Abs((currentClose-prevClose)/prevClose) * 100
	return currentVolume > avgVolume*a.cfg.SpikeThreshold &&
		priceChangePct > a.cfg.BreakoutMinPriceChange
}

// accumulationDistribution compares up-candle and down-candle volume over
// the trailing 20 bars.
func (a *VolumeAnalyzer) accumulationDistribution(bars []models.Bar) (accumulation, distribution bool) {
	if len(bars) < 20 {
		return false, false
	}
	recent := lastBars(bars, 20)

	upVol, downVol, upCount, downCount := candleVolumes(recent)
	if upCount == 0 || downCount == 0 {
		return false, false
	}

	avgUp := upVol / float64(upCount)
	avgDown := downVol / float64(downCount)

	if avgUp > avgDown*a.cfg.AccumulationThreshold {
		accumulation = true
	}
	if avgDown > avgUp*a.cfg.AccumulationThreshold {
		distribution = true
	}
	return accumulation, distribution
}

// volumeConfirmation checks that the trailing 10-bar advance is carried by
// higher up-day volume. Only rising windows can confirm.
func (a *VolumeAnalyzer) volumeConfirmation(bars []models.Bar) bool {
	if len(bars) < a.cfg.ConfirmationLookback {
		return false
	}
	recent := lastBars(bars, a.cfg.ConfirmationLookback)
	closes := models.Closes(recent)

	if lastOf(closes) <= closes[0] {
		return false
	}

	upVol, downVol, upCount, downCount := candleVolumes(recent)
	if upCount == 0 || downCount == 0 {
		return false
	}
	return upVol/float64(upCount) > downVol/float64(downCount)
}

func (a *VolumeAnalyzer) notes(profile VolumeProfile) []string {
	notes := []string{}

	if profile.VolumeRatio != nil && *profile.VolumeRatio > 1.5 {
		notes = append(notes, fmt.Sprintf("Volume %.1fx above average", *profile.VolumeRatio))
	}
	if profile.OnBreakout {
		notes = append(notes, "Breakout volume detected")
	}
	if profile.AccumulationDetected {
		notes = append(notes, "Accumulation pattern: high volume on up days")
	}
	if profile.DistributionDetected {
		notes = append(notes, "Distribution pattern: high volume on down days")
	}
	if profile.VolumeTrend == "increasing" {
		notes = append(notes, "Volume trend increasing")
	} else if profile.VolumeTrend == "decreasing" {
		notes = append(notes, "Volume trend decreasing")
	}

	return notes
}

// Climax detects exhaustion volume: current volume above three times the
// 20-bar average, labeled by the sign of the 1-bar return.
func (a *VolumeAnalyzer) Climax(bars []models.Bar) *VolumeClimax {
	if len(bars) < 20 {
		return nil
	}
	volumes := models.Volumes(bars)
	closes := models.Closes(bars)

	avgVolume := mean(tail(volumes, 20))
	currentVolume := lastOf(volumes)

	if currentVolume <= avgVolume*a.cfg.ClimaxThreshold {
		return &VolumeClimax{Detected: false}
	}

	priceChange := (closes[len(closes)-1] - closes[len(closes)-2]) / closes[len(closes)-2] * 100
	climaxType := "selling_climax"
	if priceChange > 0 {
		climaxType = "buying_climax"
	}
	return &VolumeClimax{
		Detected:       true,
		VolumeRatio:    currentVolume / avgVolume,
		PriceChangePct: priceChange,
		Type:           climaxType,
	}
}

// IsVolumeDryingUp reports contracting volume below the long-run average,
// a precondition for volatility contraction setups.
func (a *VolumeAnalyzer) IsVolumeDryingUp(bars []models.Bar) bool {
	lookback := a.cfg.DryingUpLookback
	if len(bars) < lookback || len(bars) < 50 {
		return false
	}
	volumes := models.Volumes(bars)
	recent := tail(volumes, lookback)
	avgVolume := mean(tail(volumes, 50))

	isDecreasing := lastOf(recent) < recent[0]
	isBelowAvg := mean(recent) < avgVolume*a.cfg.DryingUpAvgMultiple
	return isDecreasing && isBelowAvg
}

// candleVolumes sums volume over up-candles (close>open) and down-candles
// (close<open). Dojis count in neither bucket.
func candleVolumes(bars []models.Bar) (upVol, downVol float64, upCount, downCount int) {
	for _, b := range bars {
		if b.Close > b.Open {
			upVol += b.Volume
			upCount++
		} else if b.Close < b.Open {
			downVol += b.Volume
			downCount++
		}
	}
	return upVol, downVol, upCount, downCount
}
