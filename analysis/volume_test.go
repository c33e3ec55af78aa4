package analysis

import (
	"testing"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

func TestAnalyzeEmptySeries(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultVolumeConfig())

	profile := a.Analyze(nil)
	if profile.VolumeTrend != "neutral" {
		t.Errorf("expected neutral trend, got %s", profile.VolumeTrend)
	}
	if profile.CurrentVolume != 0 || profile.AvgVolume20 != nil || profile.VolumeRatio != nil {
		t.Errorf("empty series should produce the zero profile: %+v", profile)
	}
	if len(profile.Notes) != 0 {
		t.Errorf("expected no notes, got %v", profile.Notes)
	}
}

func TestAnalyzeBreakoutVolume(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultVolumeConfig())

	bars := flatBars(60, 100, 1000)
	last := &bars[len(bars)-1]
	last.Open = 100
	last.Close = 102
	last.High = 102
	last.Volume = 2000

	profile := a.Analyze(bars)

	// The 20-bar average includes the spike bar itself.
	if profile.VolumeRatio == nil || !almost(*profile.VolumeRatio, 2000.0/1050.0, 1e-9) {
		t.Errorf("unexpected volume ratio: %v", profile.VolumeRatio)
	}
	if !profile.OnBreakout {
		t.Error("volume spike on a real price move should flag breakout volume")
	}

	wantNotes := []string{"Volume 1.9x above average", "Breakout volume detected"}
	if len(profile.Notes) != len(wantNotes) {
		t.Fatalf("expected %d notes, got %v", len(wantNotes), profile.Notes)
	}
	for i, want := range wantNotes {
		if profile.Notes[i] != want {
			t.Errorf("note %d: expected %q, got %q", i, want, profile.Notes[i])
		}
	}
}

func TestAnalyzeAccumulationDistribution(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultVolumeConfig())

	// Alternating candles with up days on triple the down-day volume.
	makeBars := func(upVol, downVol float64) []models.Bar {
		bars := flatBars(60, 100, 0)
		for i := range bars {
			if i%2 == 0 {
				bars[i].Open, bars[i].Close = 99, 101
				bars[i].Volume = upVol
			} else {
				bars[i].Open, bars[i].Close = 101, 99
				bars[i].Volume = downVol
			}
			bars[i].High, bars[i].Low = 101, 99
		}
		return bars
	}

	profile := a.Analyze(makeBars(3000, 1000))
	if !profile.AccumulationDetected || profile.DistributionDetected {
		t.Errorf("expected accumulation only: %+v", profile)
	}
	if !containsNote(profile.Notes, "Accumulation pattern: high volume on up days") {
		t.Errorf("missing accumulation note: %v", profile.Notes)
	}

	profile = a.Analyze(makeBars(1000, 3000))
	if profile.AccumulationDetected || !profile.DistributionDetected {
		t.Errorf("expected distribution only: %+v", profile)
	}
	if !containsNote(profile.Notes, "Distribution pattern: high volume on down days") {
		t.Errorf("missing distribution note: %v", profile.Notes)
	}
}

func TestAnalyzeVolumeTrendIncreasing(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultVolumeConfig())

	bars := flatBars(60, 100, 500)
	for i := 40; i < 60; i++ {
		bars[i].Volume = 1000
	}

	profile := a.Analyze(bars)
	if profile.VolumeTrend != "increasing" {
		t.Errorf("expected increasing trend, got %s", profile.VolumeTrend)
	}
	if !containsNote(profile.Notes, "Volume trend increasing") {
		t.Errorf("missing trend note: %v", profile.Notes)
	}
}

func TestClimax(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultVolumeConfig())

	if a.Climax(flatBars(19, 100, 1000)) != nil {
		t.Error("short series should yield nil")
	}

	bars := flatBars(60, 100, 1200)
	last := &bars[len(bars)-1]
	last.Close = 101
	last.High = 101
	last.Volume = 5000

	climax := a.Climax(bars)
	if climax == nil || !climax.Detected {
		t.Fatalf("expected a detected climax, got %+v", climax)
	}
	if climax.Type != "buying_climax" {
		t.Errorf("up move should label a buying climax, got %s", climax.Type)
	}
	// Average over the trailing 20 bars includes the climax bar.
	if !almost(climax.VolumeRatio, 5000.0/1390.0, 1e-9) {
		t.Errorf("unexpected climax ratio: %v", climax.VolumeRatio)
	}
	if !almost(climax.PriceChangePct, 1, 1e-9) {
		t.Errorf("unexpected price change: %v", climax.PriceChangePct)
	}

	bars[len(bars)-1].Volume = 2000
	climax = a.Climax(bars)
	if climax == nil || climax.Detected {
		t.Errorf("moderate volume should not flag a climax: %+v", climax)
	}
}

func TestClimaxSelling(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultVolumeConfig())

	bars := flatBars(60, 100, 1200)
	last := &bars[len(bars)-1]
	last.Close = 95
	last.Low = 95
	last.Volume = 6000

	climax := a.Climax(bars)
	if climax == nil || !climax.Detected || climax.Type != "selling_climax" {
		t.Errorf("down move should label a selling climax: %+v", climax)
	}
}

func TestIsVolumeDryingUp(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultVolumeConfig())

	bars := flatBars(60, 100, 2000)
	for i := 0; i < 10; i++ {
		bars[50+i].Volume = 900 - float64(i)*10
	}
	if !a.IsVolumeDryingUp(bars) {
		t.Error("tapering volume below the long-run average should report drying up")
	}

	if a.IsVolumeDryingUp(flatBars(60, 100, 2000)) {
		t.Error("flat volume should not report drying up")
	}
	if a.IsVolumeDryingUp(flatBars(30, 100, 100)) {
		t.Error("short series should not report drying up")
	}
}

func TestVolumeConfirmation(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultVolumeConfig())

	// Rising window with up days on heavier volume.
	bars := flatBars(60, 100, 1000)
	for i := 50; i < 60; i++ {
		if i%2 == 0 {
			bars[i].Open, bars[i].Close = 100, 102
			bars[i].Volume = 2000
		} else {
			bars[i].Open, bars[i].Close = 102, 101
			bars[i].Volume = 500
		}
	}
	bars[59].Open, bars[59].Close = 101, 103
	bars[59].Volume = 2000

	profile := a.Analyze(bars)
	if !profile.VolumeConfirmation {
		t.Error("advance on heavy up-day volume should confirm")
	}

	// A falling window can never confirm.
	down := flatBars(60, 100, 1000)
	down[59].Open, down[59].Close = 100, 95
	profile = a.Analyze(down)
	if profile.VolumeConfirmation {
		t.Error("declining window should not confirm")
	}
}

func containsNote(notes []string, want string) bool {
	for _, n := range notes {
		if n == want {
			return true
		}
	}
	return false
}
