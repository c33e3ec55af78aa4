package models

// FundamentalData holds the fundamental metrics used by the Lynch/GARP
// scorer. Every field is optional: nil means the provider had no value,
// which is scored differently from zero.
type FundamentalData struct {
	Symbol        string   `json:"symbol"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	PBRatio       *float64 `json:"pb_ratio,omitempty"`
	ROE           *float64 `json:"roe,omitempty"`  // percent
	ROCE          *float64 `json:"roce,omitempty"` // percent
	DebtToEquity  *float64 `json:"debt_to_equity,omitempty"`
	EPSGrowth     *float64 `json:"eps_growth,omitempty"`     // percent, year over year
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"` // percent, year over year
}

// HasSufficientData reports whether at least one scoreable metric is present.
func (f *FundamentalData) HasSufficientData() bool {
	if f == nil {
		return false
	}
	return f.PERatio != nil || f.PBRatio != nil || f.ROE != nil ||
		f.ROCE != nil || f.EPSGrowth != nil || f.RevenueGrowth != nil
}

// FundamentalScore is the output of the GARP fundamental scorer.
type FundamentalScore struct {
	Score          float64            `json:"score"` // 0..100, one decimal
	Grade          string             `json:"grade"` // A+ .. D
	BullishFactors []string           `json:"bullish_factors"`
	BearishFactors []string           `json:"bearish_factors"`
	Warnings       []string           `json:"warnings"`
	DetailScores   map[string]float64 `json:"detail_scores"`
}
