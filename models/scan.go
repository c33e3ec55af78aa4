package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanFilter selects which analyzed symbols make it into scan results.
// Zero-valued / nil fields are not applied.
type ScanFilter struct {
	MinCompositeScore float64          `json:"min_composite_score"`
	MaxCompositeScore float64          `json:"max_composite_score"`
	Signal            *SignalType      `json:"signal,omitempty"`
	MinConviction     *ConvictionLevel `json:"min_conviction,omitempty"`
	Trend             *TrendType       `json:"trend,omitempty"`
	WeinsteinStage    *WeinsteinStage  `json:"weinstein_stage,omitempty"`
	MinVolumeRatio    *float64         `json:"min_volume_ratio,omitempty"`
}

// DefaultScanFilter returns the permissive default band (composite 50..100).
func DefaultScanFilter() ScanFilter {
	return ScanFilter{
		MinCompositeScore: 50,
		MaxCompositeScore: 100,
	}
}

// ScanResult is one symbol that passed a scan filter.
type ScanResult struct {
	Symbol         string          `json:"symbol"`
	CompanyName    string          `json:"company_name,omitempty"`
	CurrentPrice   float64         `json:"current_price"`
	CompositeScore float64         `json:"composite_score"`
	Signal         SignalType      `json:"signal"`
	Conviction     ConvictionLevel `json:"conviction"`
	PrimaryTrend   TrendType       `json:"primary_trend"`
	WeinsteinStage WeinsteinStage  `json:"weinstein_stage"`
	Patterns       []string        `json:"patterns"` // top pattern names, at most 3
	Timestamp      time.Time       `json:"timestamp"`
}

// ScanRun statuses.
const (
	ScanStatusRunning   = "running"
	ScanStatusCompleted = "completed"
	ScanStatusFailed    = "failed"
)

// ScanRun records one execution of the market scanner.
type ScanRun struct {
	ID            uuid.UUID    `json:"id"`
	Universe      string       `json:"universe"`
	Criteria      ScanFilter   `json:"criteria"`
	Status        string       `json:"status"`
	SymbolsTotal  int          `json:"symbols_total"`
	SymbolsPassed int          `json:"symbols_passed"`
	Results       []ScanResult `json:"results"`
	Error         string       `json:"error,omitempty"`
	StartedAt     time.Time    `json:"started_at"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
	DurationMs    int64        `json:"duration_ms"`
}

// NewScanRun creates a running scan run with a fresh identifier.
func NewScanRun(universe string, criteria ScanFilter) *ScanRun {
	return &ScanRun{
		ID:        uuid.New(),
		Universe:  universe,
		Criteria:  criteria,
		Status:    ScanStatusRunning,
		StartedAt: time.Now(),
	}
}

// Complete marks the run finished with its results.
func (r *ScanRun) Complete(results []ScanResult, total int) {
	now := time.Now()
	r.Status = ScanStatusCompleted
	r.Results = results
	r.SymbolsTotal = total
	r.SymbolsPassed = len(results)
	r.CompletedAt = &now
	r.DurationMs = now.Sub(r.StartedAt).Milliseconds()
}

// Fail marks the run failed with the given error message.
func (r *ScanRun) Fail(msg string) {
	now := time.Now()
	r.Status = ScanStatusFailed
	r.Error = msg
	r.CompletedAt = &now
	r.DurationMs = now.Sub(r.StartedAt).Milliseconds()
}

// ScanPreset is a named, pre-built scan filter.
type ScanPreset struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Filter      ScanFilter `json:"filter"`
}
