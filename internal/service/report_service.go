package service

import (
	"sort"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportService computes period-scoped spending aggregates. All of its
// methods are pure reads over the current store contents.
type ReportService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
}

// NewReportService creates a new ReportService
func NewReportService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// Summarize aggregates the user's spending for one calendar month: raw
// per-category sums joined against category names and budgets, sorted by
// total descending (ties by category id for reproducible output).
//
// The grand total is rounded once from the raw sums, not from the rounded
// rows. A transaction whose category no longer exists still counts toward
// the grand total and expense count but yields no row.
func (s *ReportService) Summarize(userID uuid.UUID, year, month int) (*domain.MonthlySummary, error) {
	period := domain.NewPeriod(year, month)

	transactions, err := s.transactionRepo.FindInRange(userID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	sums := make(map[int32]decimal.Decimal)
	rawTotal := decimal.Zero
	for _, tx := range transactions {
		sums[tx.CategoryID] = sums[tx.CategoryID].Add(tx.Amount)
		rawTotal = rawTotal.Add(tx.Amount)
	}

	categories, err := s.categoryRepo.GetAccessible(userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int32]*domain.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	rows := make([]domain.AggregateRow, 0, len(sums))
	rawByCategory := make(map[int32]decimal.Decimal, len(sums))
	for categoryID, sum := range sums {
		cat, ok := byID[categoryID]
		if !ok {
			// Category deleted since the transactions were recorded.
			continue
		}
		rawByCategory[categoryID] = sum
		rows = append(rows, domain.AggregateRow{
			CategoryID: categoryID,
			Name:       cat.Name,
			Total:      sum.Round(2),
			Budget:     cat.MonthlyBudget,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rawByCategory[rows[i].CategoryID], rawByCategory[rows[j].CategoryID]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})

	var highest *domain.AggregateRow
	if len(rows) > 0 {
		highest = &rows[0]
	}

	// Counted independently of the grouping so a vanished category never
	// skews the count.
	count, err := s.transactionRepo.CountInRange(userID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	return &domain.MonthlySummary{
		Month:           period.Month(),
		Year:            period.Year(),
		Total:           rawTotal.Round(2),
		ExpenseCount:    count,
		HighestCategory: highest,
		ByCategory:      rows,
	}, nil
}

// Trend returns one point per calendar month for the window ending at the
// given year/month, oldest first, always exactly window points. Months
// with no transactions carry a zero total. A non-positive window falls
// back to the default of six months.
//
// The whole window is fetched with a single range query and re-bucketed in
// memory rather than issuing one query per month.
func (s *ReportService) Trend(userID uuid.UUID, year, month, window int) ([]domain.TrendPoint, error) {
	if window <= 0 {
		window = domain.DefaultTrendWindow
	}

	target := domain.NewPeriod(year, month)
	oldest := target.AddMonths(-(window - 1))

	transactions, err := s.transactionRepo.FindInRange(userID, oldest.Start, target.End)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		key := domain.PeriodOf(tx.Date).Label()
		totals[key] = totals[key].Add(tx.Amount)
	}

	points := make([]domain.TrendPoint, 0, window)
	for offset := window - 1; offset >= 0; offset-- {
		p := target.AddMonths(-offset)
		points = append(points, domain.TrendPoint{
			Label: p.Label(),
			Total: totals[p.Label()].Round(2),
		})
	}
	return points, nil
}

// MonthlyReport composes the month's summary with its trailing trend. This
// is the shape the reporting endpoint returns.
func (s *ReportService) MonthlyReport(userID uuid.UUID, year, month int) (*domain.MonthlySummary, error) {
	summary, err := s.Summarize(userID, year, month)
	if err != nil {
		return nil, err
	}

	trend, err := s.Trend(userID, year, month, domain.DefaultTrendWindow)
	if err != nil {
		return nil, err
	}
	summary.Trend = trend
	return summary, nil
}

// CategorySpend sums the user's raw spending for a single category within
// the period. It is the per-category slice of Summarize that the alert
// path needs.
func (s *ReportService) CategorySpend(userID uuid.UUID, categoryID int32, period domain.Period) (decimal.Decimal, error) {
	transactions, err := s.transactionRepo.FindInRange(userID, period.Start, period.End)
	if err != nil {
		return decimal.Zero, err
	}

	spend := decimal.Zero
	for _, tx := range transactions {
		if tx.CategoryID == categoryID {
			spend = spend.Add(tx.Amount)
		}
	}
	return spend, nil
}
