package models

import (
	"fmt"
	"time"
)

// Bar is a single daily OHLCV sample. Bars are always handled as
// ascending-by-timestamp slices.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Validate checks a single bar for internal consistency.
func (b Bar) Validate() error {
	if b.Timestamp.IsZero() {
		return fmt.Errorf("bar has zero timestamp")
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar at %s has non-positive price", b.Timestamp.Format("2006-01-02"))
	}
	if b.High < b.Low {
		return fmt.Errorf("bar at %s has high %.4f below low %.4f", b.Timestamp.Format("2006-01-02"), b.High, b.Low)
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar at %s has negative volume", b.Timestamp.Format("2006-01-02"))
	}
	return nil
}

// ValidateBars checks per-bar sanity and ascending timestamp order.
// Providers call this at ingestion so the analysis engine never sees
// malformed input.
func ValidateBars(bars []Bar) error {
	for i, b := range bars {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("bar %d: %w", i, err)
		}
		if i > 0 && !bars[i-1].Timestamp.Before(b.Timestamp) {
			return fmt.Errorf("bar %d: timestamp %s not after previous bar", i, b.Timestamp.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close series from a bar slice.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high series from a bar slice.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low series from a bar slice.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume series from a bar slice.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
