package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

// LevelConfig holds support/resistance detection thresholds.
type LevelConfig struct {
	LookbackPeriod  int
	MinTouches      int
	TolerancePct    float64 // price cluster tolerance in percent
	PivotLookback   int
	VolumeThreshold float64 // volume spike multiple of the average
}

// DefaultLevelConfig returns the standard thresholds.
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{
		LookbackPeriod:  100,
		MinTouches:      2,
		TolerancePct:    1.0,
		PivotLookback:   5,
		VolumeThreshold: 1.5,
	}
}

// LevelDetector derives support and resistance levels from pivots, volume
// spikes, moving averages and round numbers, then clusters nearby candidates.
type LevelDetector struct {
	cfg LevelConfig
}

// NewLevelDetector creates a detector with the given config.
func NewLevelDetector(cfg LevelConfig) *LevelDetector {
	return &LevelDetector{cfg: cfg}
}

// Detect returns (support, resistance), each sorted by strength then
// proximity to the current price, at most 10 per side.
func (d *LevelDetector) Detect(bars []models.Bar) (support, resistance []models.Level) {
	if len(bars) < d.cfg.PivotLookback*2 {
		return nil, nil
	}

	data := lastBars(bars, min(d.cfg.LookbackPeriod, len(bars)))
	currentPrice := bars[len(bars)-1].Close

	var all []models.Level
	all = append(all, d.pivotLevels(data)...)
	all = append(all, d.volumeLevels(data)...)
	all = append(all, d.maLevels(bars)...)
	all = append(all, d.psychologicalLevels(currentPrice)...)

	clustered := d.clusterLevels(all, currentPrice)

	for _, l := range clustered {
		if l.Price < currentPrice && l.LevelType == "support" {
			support = append(support, l)
		} else if l.Price > currentPrice && l.LevelType == "resistance" {
			resistance = append(resistance, l)
		}
	}

	byStrengthThenProximity := func(levels []models.Level) func(i, j int) bool {
		return func(i, j int) bool {
			if levels[i].Strength != levels[j].Strength {
				return levels[i].Strength > levels[j].Strength
			}
			return math.Abs(currentPrice-levels[i].Price) < math.Abs(currentPrice-levels[j].Price)
		}
	}
	sort.SliceStable(support, byStrengthThenProximity(support))
	sort.SliceStable(resistance, byStrengthThenProximity(resistance))

	if len(support) > 10 {
		support = support[:10]
	}
	if len(resistance) > 10 {
		resistance = resistance[:10]
	}
	return support, resistance
}

// pivotLevels flags swing highs as resistance and swing lows as support.
func (d *LevelDetector) pivotLevels(bars []models.Bar) []models.Level {
	var levels []models.Level
	highs := models.Highs(bars)
	lows := models.Lows(bars)
	lookback := d.cfg.PivotLookback

	for i := lookback; i < len(bars)-lookback; i++ {
		if highs[i] == maxOf(highs[i-lookback:i+lookback+1]) {
			levels = append(levels, models.Level{
				Price:       highs[i],
				Strength:    3,
				Touches:     1,
				LevelType:   "resistance",
				Description: "Pivot high resistance",
			})
		}
		if lows[i] == minOf(lows[i-lookback:i+lookback+1]) {
			levels = append(levels, models.Level{
				Price:       lows[i],
				Strength:    3,
				Touches:     1,
				LevelType:   "support",
				Description: "Pivot low support",
			})
		}
	}
	return levels
}

// volumeLevels flags the highs/lows of volume-spike candles.
func (d *LevelDetector) volumeLevels(bars []models.Bar) []models.Level {
	var levels []models.Level
	avgVolume := mean(models.Volumes(bars))
	threshold := avgVolume * d.cfg.VolumeThreshold

	for _, b := range bars {
		if b.Volume <= threshold {
			continue
		}
		if b.Close > b.Open {
			levels = append(levels, models.Level{
				Price:       b.High,
				Strength:    4,
				Touches:     1,
				LevelType:   "resistance",
				Description: "High volume resistance",
			})
		} else {
			levels = append(levels, models.Level{
				Price:       b.Low,
				Strength:    4,
				Touches:     1,
				LevelType:   "support",
				Description: "High volume support",
			})
		}
	}
	return levels
}

// maLevels places dynamic levels at the key moving averages over the full
// history. Type is a placeholder reassessed during clustering.
func (d *LevelDetector) maLevels(bars []models.Bar) []models.Level {
	var levels []models.Level
	closes := models.Closes(bars)

	for _, period := range []int{20, 50, 100, 200} {
		if len(closes) < period {
			continue
		}
		levels = append(levels, models.Level{
			Price:       mean(tail(closes, period)),
			Strength:    2,
			Touches:     period,
			LevelType:   "support",
			Description: fmt.Sprintf("SMA %d dynamic support/resistance", period),
		})
	}
	return levels
}

// psychologicalLevels places round-number levels within 10% of the price.
func (d *LevelDetector) psychologicalLevels(currentPrice float64) []models.Level {
	var levels []models.Level

	for _, inc := range []float64{50, 100, 500, 1000} {
		lower := math.Floor(currentPrice/inc) * inc
		upper := lower + inc

		for _, price := range []float64{lower, upper} {
			if price < 0.9*currentPrice || price > 1.1*currentPrice {
				continue
			}
			levelType := "resistance"
			if price < currentPrice {
				levelType = "support"
			}
			levels = append(levels, models.Level{
				Price:       price,
				Strength:    2,
				Touches:     0,
				LevelType:   levelType,
				Description: fmt.Sprintf("Psychological level (%.0f)", inc),
			})
		}
	}
	return levels
}

// clusterLevels groups candidates within tolerance of the cluster anchor.
// The anchor is the first level added to a cluster, not a running centroid;
// this keeps clustering order-dependent and deterministic.
func (d *LevelDetector) clusterLevels(levels []models.Level, currentPrice float64) []models.Level {
	if len(levels) == 0 {
		return nil
	}

	sorted := make([]models.Level, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	tolerance := currentPrice * (d.cfg.TolerancePct / 100)

	var clustered []models.Level
	cluster := []models.Level{sorted[0]}

	for _, level := range sorted[1:] {
		if math.Abs(level.Price-cluster[0].Price) <= tolerance {
			cluster = append(cluster, level)
		} else {
			clustered = append(clustered, mergeCluster(cluster, currentPrice))
			cluster = []models.Level{level}
		}
	}
	clustered = append(clustered, mergeCluster(cluster, currentPrice))

	return clustered
}

// mergeCluster collapses a cluster into one level. A single-element cluster
// is returned unchanged.
func mergeCluster(cluster []models.Level, currentPrice float64) models.Level {
	if len(cluster) == 1 {
		return cluster[0]
	}

	totalStrength := 0
	weightedPrice := 0.0
	totalTouches := 0
	for _, l := range cluster {
		totalStrength += l.Strength
		weightedPrice += l.Price * float64(l.Strength)
		totalTouches += l.Touches
	}
	weightedPrice /= float64(totalStrength)

	strength := min(5, totalStrength/len(cluster)+1)

	levelType := "resistance"
	if weightedPrice < currentPrice {
		levelType = "support"
	}

	return models.Level{
		Price:       weightedPrice,
		Strength:    strength,
		Touches:     totalTouches,
		LevelType:   levelType,
		Description: fmt.Sprintf("Clustered %s (%d touches)", levelType, len(cluster)),
	}
}

// NearestLevels returns the closest count supports and resistances.
func (d *LevelDetector) NearestLevels(bars []models.Bar, count int) (support, resistance []models.Level) {
	support, resistance = d.Detect(bars)
	if len(support) > count {
		support = support[:count]
	}
	if len(resistance) > count {
		resistance = resistance[:count]
	}
	return support, resistance
}
