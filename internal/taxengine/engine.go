package taxengine

import (
	"math"
)

// Progressive bracket schedule, USD integer units.
const (
	// BracketOneCeiling is the top of the 10% bracket
	BracketOneCeiling int64 = 50_000
	// BracketTwoCeiling is the top of the 20% bracket
	BracketTwoCeiling int64 = 100_000

	// RateOnePercent is the rate applied up to BracketOneCeiling
	RateOnePercent int64 = 10
	// RateTwoPercent is the rate applied between the two ceilings
	RateTwoPercent int64 = 20
	// RateThreePercent is the rate applied above BracketTwoCeiling
	RateThreePercent int64 = 30
)

// Engine computes tax owed under the fixed three-bracket progressive
// schedule. All methods are pure; the engine is total over non-negative
// inputs and callers validate income >= 0 and 0 <= deductions <= income
// before invoking.
type Engine struct{}

// NewEngine creates a new tax engine
func NewEngine() *Engine {
	return &Engine{}
}

// BracketLine describes the portion of taxable income that falls within a
// single bracket, for display and audit purposes.
type BracketLine struct {
	RatePercent   int64 `json:"rate_percent"`
	LowerBound    int64 `json:"lower_bound"`
	UpperBound    int64 `json:"upper_bound,omitempty"` // 0 means unbounded
	TaxableAmount int64 `json:"taxable_amount"`
	TaxOwed       int64 `json:"tax_owed"`
}

// TaxableIncome returns income minus deductions, floored at zero.
func (e *Engine) TaxableIncome(income, deductions int64) int64 {
	taxable := income - deductions
	if taxable < 0 {
		return 0
	}
	return taxable
}

// Calculate returns the tax owed for the given income and deductions,
// rounded half-up to the nearest whole dollar.
func (e *Engine) Calculate(income, deductions int64) int64 {
	taxable := e.TaxableIncome(income, deductions)

	var tax float64
	switch {
	case taxable <= BracketOneCeiling:
		tax = float64(taxable) * rate(RateOnePercent)
	case taxable <= BracketTwoCeiling:
		tax = float64(BracketOneCeiling)*rate(RateOnePercent) +
			float64(taxable-BracketOneCeiling)*rate(RateTwoPercent)
	default:
		tax = float64(BracketOneCeiling)*rate(RateOnePercent) +
			float64(BracketTwoCeiling-BracketOneCeiling)*rate(RateTwoPercent) +
			float64(taxable-BracketTwoCeiling)*rate(RateThreePercent)
	}

	// Round half-up; inputs are non-negative so floor(x+0.5) is exact.
	return int64(math.Floor(tax + 0.5))
}

// MarginalRate returns the rate (10, 20 or 30) of the bracket the taxable
// income falls into.
func (e *Engine) MarginalRate(income, deductions int64) int64 {
	taxable := e.TaxableIncome(income, deductions)
	switch {
	case taxable <= BracketOneCeiling:
		return RateOnePercent
	case taxable <= BracketTwoCeiling:
		return RateTwoPercent
	default:
		return RateThreePercent
	}
}

// Breakdown returns one line per bracket the taxable income touches, with
// the amount taxed and the tax owed within that bracket. Lines are rounded
// individually; Calculate remains the authoritative total.
func (e *Engine) Breakdown(income, deductions int64) []BracketLine {
	taxable := e.TaxableIncome(income, deductions)
	lines := []BracketLine{}

	inFirst := taxable
	if inFirst > BracketOneCeiling {
		inFirst = BracketOneCeiling
	}
	lines = append(lines, BracketLine{
		RatePercent:   RateOnePercent,
		LowerBound:    0,
		UpperBound:    BracketOneCeiling,
		TaxableAmount: inFirst,
		TaxOwed:       roundHalfUp(float64(inFirst) * rate(RateOnePercent)),
	})

	if taxable <= BracketOneCeiling {
		return lines
	}

	inSecond := taxable - BracketOneCeiling
	if inSecond > BracketTwoCeiling-BracketOneCeiling {
		inSecond = BracketTwoCeiling - BracketOneCeiling
	}
	lines = append(lines, BracketLine{
		RatePercent:   RateTwoPercent,
		LowerBound:    BracketOneCeiling,
		UpperBound:    BracketTwoCeiling,
		TaxableAmount: inSecond,
		TaxOwed:       roundHalfUp(float64(inSecond) * rate(RateTwoPercent)),
	})

	if taxable <= BracketTwoCeiling {
		return lines
	}

	inThird := taxable - BracketTwoCeiling
	lines = append(lines, BracketLine{
		RatePercent:   RateThreePercent,
		LowerBound:    BracketTwoCeiling,
		TaxableAmount: inThird,
		TaxOwed:       roundHalfUp(float64(inThird) * rate(RateThreePercent)),
	})

	return lines
}

func rate(percent int64) float64 {
	return float64(percent) / 100
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
