package service

import (
	"testing"
	"time"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/dkrasnov/fintrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func day(year, month, dayOfMonth int) time.Time {
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReportService_Summarize(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name              string
		year              int
		month             int
		setupCategories   func(*testutil.MockCategoryRepository)
		setupTransactions func(*testutil.MockTransactionRepository)
		wantTotal         string
		wantCount         int64
		wantRows          int
		wantHighest       string
		wantRowOrder      []int32
	}{
		{
			name:  "aggregates per category and ranks by total",
			year:  2025,
			month: 3,
			setupCategories: func(m *testutil.MockCategoryRepository) {
				m.AddCategory(&domain.Category{ID: 1, UserID: &userID, Name: "Food", MonthlyBudget: dec("500")})
				m.AddCategory(&domain.Category{ID: 2, UserID: &userID, Name: "Travel", MonthlyBudget: dec("300")})
			},
			setupTransactions: func(m *testutil.MockTransactionRepository) {
				m.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: dec("400"), Date: day(2025, 3, 5)})
				m.AddTransaction(&domain.Transaction{ID: 2, UserID: userID, CategoryID: 1, Amount: dec("300"), Date: day(2025, 3, 12)})
				m.AddTransaction(&domain.Transaction{ID: 3, UserID: userID, CategoryID: 2, Amount: dec("400"), Date: day(2025, 3, 20)})
			},
			wantTotal:    "1100",
			wantCount:    3,
			wantRows:     2,
			wantHighest:  "Food",
			wantRowOrder: []int32{1, 2},
		},
		{
			name:  "ties broken by category id ascending",
			year:  2025,
			month: 3,
			setupCategories: func(m *testutil.MockCategoryRepository) {
				m.AddCategory(&domain.Category{ID: 7, UserID: &userID, Name: "Gifts", MonthlyBudget: decimal.Zero})
				m.AddCategory(&domain.Category{ID: 3, UserID: &userID, Name: "Books", MonthlyBudget: decimal.Zero})
			},
			setupTransactions: func(m *testutil.MockTransactionRepository) {
				m.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 7, Amount: dec("50"), Date: day(2025, 3, 1)})
				m.AddTransaction(&domain.Transaction{ID: 2, UserID: userID, CategoryID: 3, Amount: dec("50"), Date: day(2025, 3, 2)})
			},
			wantTotal:    "100",
			wantCount:    2,
			wantRows:     2,
			wantHighest:  "Books",
			wantRowOrder: []int32{3, 7},
		},
		{
			name:  "empty month yields zero total and no rows",
			year:  2025,
			month: 4,
			setupCategories: func(m *testutil.MockCategoryRepository) {
				m.AddCategory(&domain.Category{ID: 1, UserID: &userID, Name: "Food", MonthlyBudget: dec("500")})
			},
			setupTransactions: func(m *testutil.MockTransactionRepository) {},
			wantTotal:         "0",
			wantCount:         0,
			wantRows:          0,
			wantHighest:       "",
		},
		{
			name:  "transactions outside the month are excluded",
			year:  2025,
			month: 3,
			setupCategories: func(m *testutil.MockCategoryRepository) {
				m.AddCategory(&domain.Category{ID: 1, UserID: &userID, Name: "Food", MonthlyBudget: dec("500")})
			},
			setupTransactions: func(m *testutil.MockTransactionRepository) {
				m.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: dec("100"), Date: day(2025, 2, 28)})
				m.AddTransaction(&domain.Transaction{ID: 2, UserID: userID, CategoryID: 1, Amount: dec("200"), Date: day(2025, 3, 1)})
				m.AddTransaction(&domain.Transaction{ID: 3, UserID: userID, CategoryID: 1, Amount: dec("300"), Date: day(2025, 4, 1)})
			},
			wantTotal:    "200",
			wantCount:    1,
			wantRows:     1,
			wantHighest:  "Food",
			wantRowOrder: []int32{1},
		},
		{
			name:  "deleted category still counts toward total and count",
			year:  2025,
			month: 3,
			setupCategories: func(m *testutil.MockCategoryRepository) {
				m.AddCategory(&domain.Category{ID: 1, UserID: &userID, Name: "Food", MonthlyBudget: dec("500")})
			},
			setupTransactions: func(m *testutil.MockTransactionRepository) {
				m.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: dec("100"), Date: day(2025, 3, 5)})
				// Category 99 no longer exists.
				m.AddTransaction(&domain.Transaction{ID: 2, UserID: userID, CategoryID: 99, Amount: dec("40"), Date: day(2025, 3, 6)})
			},
			wantTotal:    "140",
			wantCount:    2,
			wantRows:     1,
			wantHighest:  "Food",
			wantRowOrder: []int32{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categoryRepo := testutil.NewMockCategoryRepository()
			transactionRepo := testutil.NewMockTransactionRepository()
			tt.setupCategories(categoryRepo)
			tt.setupTransactions(transactionRepo)

			svc := NewReportService(transactionRepo, categoryRepo)
			summary, err := svc.Summarize(userID, tt.year, tt.month)
			if err != nil {
				t.Fatalf("Summarize() error = %v", err)
			}

			if summary.Year != tt.year || summary.Month != tt.month {
				t.Errorf("period = %d-%d, want %d-%d", summary.Year, summary.Month, tt.year, tt.month)
			}
			if !summary.Total.Equal(dec(tt.wantTotal)) {
				t.Errorf("Total = %s, want %s", summary.Total, tt.wantTotal)
			}
			if summary.ExpenseCount != tt.wantCount {
				t.Errorf("ExpenseCount = %d, want %d", summary.ExpenseCount, tt.wantCount)
			}
			if len(summary.ByCategory) != tt.wantRows {
				t.Fatalf("len(ByCategory) = %d, want %d", len(summary.ByCategory), tt.wantRows)
			}
			for i, id := range tt.wantRowOrder {
				if summary.ByCategory[i].CategoryID != id {
					t.Errorf("ByCategory[%d].CategoryID = %d, want %d", i, summary.ByCategory[i].CategoryID, id)
				}
			}
			if tt.wantHighest == "" {
				if summary.HighestCategory != nil {
					t.Errorf("HighestCategory = %v, want nil", summary.HighestCategory)
				}
			} else {
				if summary.HighestCategory == nil {
					t.Fatal("HighestCategory = nil, want a row")
				}
				if summary.HighestCategory.Name != tt.wantHighest {
					t.Errorf("HighestCategory.Name = %s, want %s", summary.HighestCategory.Name, tt.wantHighest)
				}
			}
		})
	}
}

// The grand total is rounded once from the raw sums, so it may legitimately
// differ from the sum of the independently rounded rows.
func TestReportService_Summarize_RoundingDivergence(t *testing.T) {
	userID := uuid.New()
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: &userID, Name: "A", MonthlyBudget: decimal.Zero})
	categoryRepo.AddCategory(&domain.Category{ID: 2, UserID: &userID, Name: "B", MonthlyBudget: decimal.Zero})
	categoryRepo.AddCategory(&domain.Category{ID: 3, UserID: &userID, Name: "C", MonthlyBudget: decimal.Zero})

	for i, categoryID := range []int32{1, 2, 3} {
		transactionRepo.AddTransaction(&domain.Transaction{
			ID:         int32(i + 1),
			UserID:     userID,
			CategoryID: categoryID,
			Amount:     dec("10.005"),
			Date:       day(2025, 5, i+1),
		})
	}

	svc := NewReportService(transactionRepo, categoryRepo)
	summary, err := svc.Summarize(userID, 2025, 5)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	// Raw sum 30.015 rounds to 30.02; each row rounds to 10.01.
	if got := summary.Total.StringFixed(2); got != "30.02" {
		t.Errorf("Total = %s, want 30.02", got)
	}
	rowSum := decimal.Zero
	for _, row := range summary.ByCategory {
		if got := row.Total.StringFixed(2); got != "10.01" {
			t.Errorf("row %d Total = %s, want 10.01", row.CategoryID, got)
		}
		rowSum = rowSum.Add(row.Total)
	}
	if rowSum.Equal(summary.Total) {
		t.Error("rounded rows happen to sum to the grand total; fixture no longer exercises the divergence")
	}
}

func TestReportService_Summarize_Idempotent(t *testing.T) {
	userID := uuid.New()
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: &userID, Name: "Food", MonthlyBudget: dec("500")})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: dec("123.45"), Date: day(2025, 3, 5)})

	svc := NewReportService(transactionRepo, categoryRepo)
	first, err := svc.Summarize(userID, 2025, 3)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	second, err := svc.Summarize(userID, 2025, 3)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if !first.Total.Equal(second.Total) || first.ExpenseCount != second.ExpenseCount {
		t.Errorf("repeated Summarize diverged: %v vs %v", first, second)
	}
}

func TestReportService_Trend(t *testing.T) {
	userID := uuid.New()
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()

	transactionRepo.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: dec("100"), Date: day(2024, 9, 10)})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 2, UserID: userID, CategoryID: 1, Amount: dec("250"), Date: day(2025, 1, 15)})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 3, UserID: userID, CategoryID: 1, Amount: dec("50"), Date: day(2025, 1, 20)})
	// Outside the window.
	transactionRepo.AddTransaction(&domain.Transaction{ID: 4, UserID: userID, CategoryID: 1, Amount: dec("999"), Date: day(2024, 7, 1)})

	svc := NewReportService(transactionRepo, categoryRepo)
	points, err := svc.Trend(userID, 2025, 1, 6)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}

	wantLabels := []string{"Aug 2024", "Sep 2024", "Oct 2024", "Nov 2024", "Dec 2024", "Jan 2025"}
	wantTotals := []string{"0", "100", "0", "0", "0", "300"}

	if len(points) != len(wantLabels) {
		t.Fatalf("len(points) = %d, want %d", len(points), len(wantLabels))
	}
	for i := range points {
		if points[i].Label != wantLabels[i] {
			t.Errorf("points[%d].Label = %s, want %s", i, points[i].Label, wantLabels[i])
		}
		if !points[i].Total.Equal(dec(wantTotals[i])) {
			t.Errorf("points[%d].Total = %s, want %s", i, points[i].Total, wantTotals[i])
		}
	}
}

func TestReportService_Trend_NoData(t *testing.T) {
	userID := uuid.New()
	svc := NewReportService(testutil.NewMockTransactionRepository(), testutil.NewMockCategoryRepository())

	points, err := svc.Trend(userID, 2025, 6, 0) // zero window falls back to default
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if len(points) != domain.DefaultTrendWindow {
		t.Fatalf("len(points) = %d, want %d", len(points), domain.DefaultTrendWindow)
	}
	for i, p := range points {
		if !p.Total.IsZero() {
			t.Errorf("points[%d].Total = %s, want 0", i, p.Total)
		}
	}
}

func TestReportService_Trend_SingleQuery(t *testing.T) {
	userID := uuid.New()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewReportService(transactionRepo, testutil.NewMockCategoryRepository())

	if _, err := svc.Trend(userID, 2025, 1, 6); err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if transactionRepo.FindInRangeCalls != 1 {
		t.Errorf("FindInRange called %d times, want 1", transactionRepo.FindInRangeCalls)
	}
}

func TestReportService_MonthlyReport(t *testing.T) {
	userID := uuid.New()
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()

	categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: &userID, Name: "Food", MonthlyBudget: dec("500")})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: dec("120"), Date: day(2025, 3, 10)})

	svc := NewReportService(transactionRepo, categoryRepo)
	summary, err := svc.MonthlyReport(userID, 2025, 3)
	if err != nil {
		t.Fatalf("MonthlyReport() error = %v", err)
	}

	if len(summary.Trend) != domain.DefaultTrendWindow {
		t.Errorf("len(Trend) = %d, want %d", len(summary.Trend), domain.DefaultTrendWindow)
	}
	last := summary.Trend[len(summary.Trend)-1]
	if last.Label != "Mar 2025" {
		t.Errorf("last trend label = %s, want Mar 2025", last.Label)
	}
	if !last.Total.Equal(dec("120")) {
		t.Errorf("last trend total = %s, want 120", last.Total)
	}
}

func TestReportService_CategorySpend(t *testing.T) {
	userID := uuid.New()
	transactionRepo := testutil.NewMockTransactionRepository()

	transactionRepo.AddTransaction(&domain.Transaction{ID: 1, UserID: userID, CategoryID: 1, Amount: dec("200"), Date: day(2025, 3, 5)})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 2, UserID: userID, CategoryID: 1, Amount: dec("150"), Date: day(2025, 3, 8)})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 3, UserID: userID, CategoryID: 2, Amount: dec("75"), Date: day(2025, 3, 9)})
	transactionRepo.AddTransaction(&domain.Transaction{ID: 4, UserID: userID, CategoryID: 1, Amount: dec("60"), Date: day(2025, 4, 1)})

	svc := NewReportService(transactionRepo, testutil.NewMockCategoryRepository())
	spend, err := svc.CategorySpend(userID, 1, domain.NewPeriod(2025, 3))
	if err != nil {
		t.Fatalf("CategorySpend() error = %v", err)
	}
	if !spend.Equal(dec("350")) {
		t.Errorf("CategorySpend = %s, want 350", spend)
	}
}
