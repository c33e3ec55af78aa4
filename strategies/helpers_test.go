package strategies

import (
	"math"
	"time"

	"github.com/pankajhirway/ChartAnalyzer/models"
)

func barSeries(n int, closeAt func(i int) float64) []models.Bar {
	bars := make([]models.Bar, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := closeAt(i)
		open := c - 0.3
		volume := 1_200_000.0
		if i%5 == 0 {
			// Periodic down candle on lighter volume.
			open = c + 0.3
			volume = 800_000
		}
		bars[i] = models.Bar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      open,
			High:      math.Max(open, c) + 1,
			Low:       math.Min(open, c) - 1,
			Close:     c,
			Volume:    volume,
		}
	}
	return bars
}

func uptrendBars(n int) []models.Bar {
	return barSeries(n, func(i int) float64 {
		return 100 + 0.5*float64(i) + 1.5*math.Sin(float64(i)/3)
	})
}

func downtrendBars(n int) []models.Bar {
	return barSeries(n, func(i int) float64 {
		return 300 - 0.8*float64(i) + 1.5*math.Sin(float64(i)/3)
	})
}

func flatBars(n int, price float64) []models.Bar {
	bars := make([]models.Bar, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		bars[i] = models.Bar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      price,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
			Volume:    1_000_000,
		}
	}
	return bars
}

func checkSignalTable(score float64, signal models.SignalType, conviction models.ConvictionLevel) bool {
	wantSignal, wantConviction := signalFromScore(score)
	return signal == wantSignal && conviction == wantConviction
}
