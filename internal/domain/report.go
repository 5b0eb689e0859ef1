package domain

import "github.com/shopspring/decimal"

// AggregateRow is one category's spending within a period. Total is
// rounded to two decimals for display; the grand total in MonthlySummary
// is rounded from the raw sums instead, so it may differ from the sum of
// the displayed rows by a cent. That is the documented rounding policy,
// not a bug.
type AggregateRow struct {
	CategoryID int32           `json:"categoryId"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
	Budget     decimal.Decimal `json:"budget"`
}

// TrendPoint is one calendar month in a spending trend. Months without
// transactions appear with a zero total.
type TrendPoint struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// MonthlySummary is the reporting contract returned to consumers. Field
// names and nesting are relied on by existing clients.
type MonthlySummary struct {
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	Total           decimal.Decimal `json:"total"`
	ExpenseCount    int64           `json:"expenseCount"`
	HighestCategory *AggregateRow   `json:"highestCategory"`
	ByCategory      []AggregateRow  `json:"byCategory"`
	Trend           []TrendPoint    `json:"trend"`
}

// DefaultTrendWindow is the number of months a trend covers, ending at the
// requested month.
const DefaultTrendWindow = 6
