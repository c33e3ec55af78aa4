package strategies

import (
	"fmt"
	"math"

	"github.com/pankajhirway/ChartAnalyzer/models"
	"github.com/pankajhirway/ChartAnalyzer/observability"
)

// FundamentalScorer grades a stock on GARP (growth at a reasonable price)
// principles: a P/E justified by growth, consistent earnings and revenue
// expansion, efficient capital returns and a conservative balance sheet.
//
// Component scores: P/E and PEG 25, Growth 30, ROE/ROCE 25, Debt 20.
type FundamentalScorer struct{}

// NewFundamentalScorer creates the scorer.
func NewFundamentalScorer() *FundamentalScorer {
	return &FundamentalScorer{}
}

// Score grades the fundamentals, or returns nil when no scoreable metric
// is present.
func (s *FundamentalScorer) Score(data *models.FundamentalData) *models.FundamentalScore {
	if !data.HasSufficientData() {
		symbol := ""
		if data != nil {
			symbol = data.Symbol
		}
		observability.Warn("Insufficient fundamental data for scoring", "symbol", symbol)
		return nil
	}

	var bullish, bearish, warnings []string

	peScore := s.scorePERatio(data, &bullish, &bearish, &warnings)
	growthScore := s.scoreGrowth(data, &bullish, &bearish)
	roeScore := s.scoreROEROCE(data, &bullish, &bearish, &warnings)
	debtScore := s.scoreDebtEquity(data, &bullish, &bearish, &warnings)

	total := peScore + growthScore + roeScore + debtScore
	grade := gradeFromScore(total)

	observability.Info("Fundamental scoring completed",
		"symbol", data.Symbol,
		"score", total,
		"grade", grade,
	)

	return &models.FundamentalScore{
		Score:          math.Round(total*10) / 10,
		Grade:          grade,
		BullishFactors: bullish,
		BearishFactors: bearish,
		Warnings:       warnings,
		DetailScores: map[string]float64{
			"pe_score":     peScore,
			"growth_score": growthScore,
			"roe_score":    roeScore,
			"debt_score":   debtScore,
		},
	}
}

// scorePERatio applies the core GARP rule: P/E should not outrun growth,
// so PEG below one is rewarded. 0-25 points.
func (s *FundamentalScorer) scorePERatio(data *models.FundamentalData, bullish, bearish, warnings *[]string) float64 {
	if data.PERatio == nil {
		return 0
	}
	score := 0.0
	pe := *data.PERatio

	switch {
	case pe < 15:
		score += 10
		*bullish = append(*bullish, fmt.Sprintf("Attractive P/E ratio (%.1f)", pe))
	case pe < 25:
		score += 7
		*bullish = append(*bullish, fmt.Sprintf("Reasonable P/E ratio (%.1f)", pe))
	case pe < 35:
		score += 4
	case pe < 50:
		*bearish = append(*bearish, fmt.Sprintf("Elevated P/E ratio (%.1f)", pe))
	default:
		*bearish = append(*bearish, fmt.Sprintf("High P/E ratio (%.1f) - expensive", pe))
		*warnings = append(*warnings, "P/E ratio suggests overvaluation")
	}

	if data.EPSGrowth != nil && *data.EPSGrowth > 0 {
		peg := pe / *data.EPSGrowth
		switch {
		case peg < 0.8:
			score += 15
			*bullish = append(*bullish, fmt.Sprintf("Excellent PEG ratio (%.2f) - growth at bargain price", peg))
		case peg < 1.0:
			score += 12
			*bullish = append(*bullish, fmt.Sprintf("Good PEG ratio (%.2f) - reasonably priced growth", peg))
		case peg < 1.3:
			score += 6
			*bullish = append(*bullish, fmt.Sprintf("Acceptable PEG ratio (%.2f)", peg))
		case peg > 2.0:
			*bearish = append(*bearish, fmt.Sprintf("High PEG ratio (%.2f) - paying too much for growth", peg))
		}
	} else if data.EPSGrowth == nil && pe < 20 {
		score += 5
	}

	return math.Min(25, score)
}

// scoreGrowth rates EPS and revenue growth, with a bonus when the two
// move together. Missing metrics are penalized. 0-30 points.
func (s *FundamentalScorer) scoreGrowth(data *models.FundamentalData, bullish, bearish *[]string) float64 {
	score := 0.0

	score += scoreGrowthMetric(data.EPSGrowth, "EPS", bullish, bearish)
	score += scoreGrowthMetric(data.RevenueGrowth, "revenue", bullish, bearish)

	if data.EPSGrowth != nil && data.RevenueGrowth != nil {
		eps, rev := *data.EPSGrowth, *data.RevenueGrowth
		if eps > 0 && rev > 0 && math.Abs(eps-rev) < 5 {
			score += 3
			*bullish = append(*bullish, "Consistent earnings and revenue growth")
		}
	}

	return clamp(score, 0, 30)
}

func scoreGrowthMetric(growth *float64, label string, bullish, bearish *[]string) float64 {
	if growth == nil {
		return -2
	}
	g := *growth
	switch {
	case g > 20:
		*bullish = append(*bullish, fmt.Sprintf("Excellent %s growth (%.1f%%)", label, g))
		return 15
	case g > 15:
		*bullish = append(*bullish, fmt.Sprintf("Strong %s growth (%.1f%%)", label, g))
		return 12
	case g > 10:
		*bullish = append(*bullish, fmt.Sprintf("Good %s growth (%.1f%%)", label, g))
		return 9
	case g > 5:
		return 5
	case g > 0:
		return 2
	case g < -5:
		if label == "EPS" {
			*bearish = append(*bearish, fmt.Sprintf("Declining EPS (%.1f%%)", g))
		} else {
			*bearish = append(*bearish, fmt.Sprintf("Declining revenue (%.1f%%)", g))
		}
		return 0
	case g < 0:
		*bearish = append(*bearish, fmt.Sprintf("Negative %s growth (%.1f%%)", label, g))
		return 0
	default:
		return 0
	}
}

// scoreROEROCE rates return on equity and return on capital employed, and
// flags a wide gap between them as a leverage concern. 0-25 points.
func (s *FundamentalScorer) scoreROEROCE(data *models.FundamentalData, bullish, bearish, warnings *[]string) float64 {
	score := 0.0

	if data.ROE != nil {
		roe := *data.ROE
		switch {
		case roe > 20:
			score += 15
			*bullish = append(*bullish, fmt.Sprintf("Exceptional ROE (%.1f%%) - high quality earnings", roe))
		case roe > 15:
			score += 12
			*bullish = append(*bullish, fmt.Sprintf("Strong ROE (%.1f%%) - efficient capital use", roe))
		case roe > 10:
			score += 8
			*bullish = append(*bullish, fmt.Sprintf("Good ROE (%.1f%%)", roe))
		case roe > 5:
			score += 4
		case roe < 0:
			*bearish = append(*bearish, fmt.Sprintf("Negative ROE (%.1f%%)", roe))
		}
	} else {
		score -= 3
	}

	if data.ROCE != nil {
		roce := *data.ROCE
		switch {
		case roce > 20:
			score += 10
			*bullish = append(*bullish, fmt.Sprintf("Excellent ROCE (%.1f%%)", roce))
		case roce > 15:
			score += 8
			*bullish = append(*bullish, fmt.Sprintf("Strong ROCE (%.1f%%)", roce))
		case roce > 10:
			score += 5
		case roce < 5:
			*bearish = append(*bearish, fmt.Sprintf("Low ROCE (%.1f%%) - poor capital efficiency", roce))
		}
	} else {
		score -= 2
	}

	if data.ROE != nil && data.ROCE != nil && *data.ROE != 0 && *data.ROCE != 0 {
		if math.Abs(*data.ROE-*data.ROCE) > 15 {
			*warnings = append(*warnings, fmt.Sprintf("ROE (%.1f%%) significantly higher than ROCE (%.1f%%) - check leverage", *data.ROE, *data.ROCE))
		}
	}

	return clamp(score, 0, 25)
}

// scoreDebtEquity rates balance-sheet health. A missing ratio scores a
// neutral 5. 0-20 points.
func (s *FundamentalScorer) scoreDebtEquity(data *models.FundamentalData, bullish, bearish, warnings *[]string) float64 {
	if data.DebtToEquity == nil {
		return 5
	}
	score := 0.0
	de := *data.DebtToEquity

	switch {
	case de < 0.3:
		score += 20
		*bullish = append(*bullish, fmt.Sprintf("Very low debt-to-equity (%.2f) - strong financial health", de))
	case de < 0.5:
		score += 18
		*bullish = append(*bullish, fmt.Sprintf("Low debt-to-equity (%.2f)", de))
	case de < 0.75:
		score += 15
		*bullish = append(*bullish, fmt.Sprintf("Conservative debt levels (%.2f)", de))
	case de < 1.0:
		score += 10
		*bullish = append(*bullish, fmt.Sprintf("Manageable debt-to-equity (%.2f)", de))
	case de < 1.5:
		score += 5
	case de < 2.0:
		*bearish = append(*bearish, fmt.Sprintf("Moderate-high debt (%.2f)", de))
	case de < 3.0:
		*bearish = append(*bearish, fmt.Sprintf("High debt-to-equity (%.2f)", de))
		*warnings = append(*warnings, "Elevated debt levels - financial risk")
	default:
		*bearish = append(*bearish, fmt.Sprintf("Very high debt-to-equity (%.2f)", de))
		*warnings = append(*warnings, "Excessive leverage - significant financial risk")
	}

	return clamp(score, 0, 20)
}

// gradeFromScore maps a 0-100 score to a letter grade.
func gradeFromScore(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}
