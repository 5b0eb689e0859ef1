package domain

import "github.com/shopspring/decimal"

// ThresholdState classifies cumulative spend against a category's monthly
// budget. It is recomputed on demand and never persisted.
type ThresholdState string

const (
	ThresholdNone     ThresholdState = "none"
	ThresholdWarning  ThresholdState = "warning"
	ThresholdExceeded ThresholdState = "exceeded"
)

// warningRatio is the fraction of budget at which a warning starts.
var warningRatio = decimal.NewFromFloat(0.9)

// EvaluateThreshold classifies spend against budget:
//
//	budget <= 0          -> none (tracking disabled)
//	spend  >  budget     -> exceeded
//	spend  >= 0.9*budget -> warning
//	otherwise            -> none
//
// Both boundaries are inclusive for warning: exactly 90% and exactly 100%
// of budget classify as warning. Decimal comparison keeps the boundaries
// exact; there is no division, so a zero budget is never a runtime error.
func EvaluateThreshold(spend, budget decimal.Decimal) ThresholdState {
	if !budget.IsPositive() {
		return ThresholdNone
	}
	if spend.GreaterThan(budget) {
		return ThresholdExceeded
	}
	if spend.GreaterThanOrEqual(budget.Mul(warningRatio)) {
		return ThresholdWarning
	}
	return ThresholdNone
}

// BudgetPercent returns spend as a whole percentage of budget, rounded to
// the nearest integer. Callers must ensure budget is positive.
func BudgetPercent(spend, budget decimal.Decimal) int64 {
	return spend.Div(budget).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
