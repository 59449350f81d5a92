package core

import "github.com/shopspring/decimal"

const (
	StatusOnTrack  BudgetStatus = "on-track"
	StatusWarning  BudgetStatus = "warning"
	StatusExceeded BudgetStatus = "exceeded"
)

// BudgetStatus classifies how much of a budget has been consumed.
type BudgetStatus string

var (
	warningThreshold  = decimal.NewFromInt(80)
	exceededThreshold = decimal.NewFromInt(100)
	hundred           = decimal.NewFromInt(100)
)

// SpentAmount resolves the actual spend for a budget by matching a comparison
// record on (category, year, month). No match means nothing was spent.
func SpentAmount(b Budget, records []ComparisonRecord) decimal.Decimal {
	for _, r := range records {
		if r.CategoryID == b.Category && r.Year == b.Year && r.Month == b.Month {
			return r.ActualAmount
		}
	}
	return decimal.Zero
}

// SpentPercent returns spent/allocated as a percentage. A zero allocation
// yields 0 rather than dividing by zero.
func SpentPercent(allocated, spent decimal.Decimal) decimal.Decimal {
	if allocated.IsZero() {
		return decimal.Zero
	}
	return spent.Div(allocated).Mul(hundred)
}

// StatusFor derives the budget status from the spent percentage:
// >=100% exceeded, >=80% warning, otherwise on-track.
func StatusFor(allocated, spent decimal.Decimal) BudgetStatus {
	pct := SpentPercent(allocated, spent)
	switch {
	case pct.GreaterThanOrEqual(exceededThreshold):
		return StatusExceeded
	case pct.GreaterThanOrEqual(warningThreshold):
		return StatusWarning
	default:
		return StatusOnTrack
	}
}

// Remaining returns the unspent part of the allocation. Negative when the
// budget is exceeded.
func Remaining(allocated, spent decimal.Decimal) decimal.Decimal {
	return allocated.Sub(spent)
}
