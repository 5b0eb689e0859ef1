package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/dkrasnov/fintrack-backend/internal/service"
	"github.com/dkrasnov/fintrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type transactionFixture struct {
	handler         *TransactionHandler
	categoryRepo    *testutil.MockCategoryRepository
	transactionRepo *testutil.MockTransactionRepository
	notifier        *testutil.MockNotifier
}

func newTransactionFixture() *transactionFixture {
	f := &transactionFixture{
		categoryRepo:    testutil.NewMockCategoryRepository(),
		transactionRepo: testutil.NewMockTransactionRepository(),
		notifier:        &testutil.MockNotifier{},
	}
	svc := service.NewTransactionService(f.transactionRepo, f.categoryRepo, f.notifier, nil)
	f.handler = NewTransactionHandler(svc)
	return f
}

func TestCreateTransaction(t *testing.T) {
	e := echo.New()
	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setup      func(*transactionFixture)
		wantStatus int
		wantNotify int
	}{
		{
			name: "creates transaction and queues budget check",
			body: `{"amount":"42.50","categoryId":1,"date":"2025-03-05","note":"lunch"}`,
			setup: func(f *transactionFixture) {
				f.categoryRepo.AddCategory(&domain.Category{ID: 1, UserID: &userID, Name: "Food"})
			},
			wantStatus: http.StatusCreated,
			wantNotify: 1,
		},
		{
			name:       "rejects non-positive amount",
			body:       `{"amount":"0","categoryId":1,"date":"2025-03-05"}`,
			setup:      func(f *transactionFixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rejects bad date format",
			body:       `{"amount":"10","categoryId":1,"date":"05-03-2025"}`,
			setup:      func(f *transactionFixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rejects inaccessible category",
			body:       `{"amount":"10","categoryId":9,"date":"2025-03-05"}`,
			setup:      func(f *transactionFixture) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransactionFixture()
			tt.setup(f)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			setupAuthContext(c, userID)

			if err := f.handler.CreateTransaction(c); err != nil {
				t.Fatalf("CreateTransaction() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if f.notifier.CallCount() != tt.wantNotify {
				t.Errorf("notifier calls = %d, want %d", f.notifier.CallCount(), tt.wantNotify)
			}
		})
	}
}

func TestGetTransactions_MonthFilter(t *testing.T) {
	e := echo.New()
	userID := uuid.New()
	f := newTransactionFixture()

	f.transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, CategoryID: 1,
		Amount: amount(t, "10"), Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	f.transactionRepo.AddTransaction(&domain.Transaction{
		ID: 2, UserID: userID, CategoryID: 1,
		Amount: amount(t, "20"), Date: time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?year=2025&month=3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := f.handler.GetTransactions(c); err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var transactions []*domain.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &transactions); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(transactions) != 1 || transactions[0].ID != 1 {
		t.Errorf("transactions = %v, want only id 1", transactions)
	}
}

func TestDeleteTransaction_OwnershipEnforced(t *testing.T) {
	e := echo.New()
	owner := uuid.New()
	intruder := uuid.New()
	f := newTransactionFixture()

	f.transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: owner, CategoryID: 1,
		Amount: amount(t, "10"), Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, intruder)

	if err := f.handler.DeleteTransaction(c); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/1", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContext(c, owner)

	if err := f.handler.DeleteTransaction(c); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if f.notifier.CallCount() != 0 {
		t.Errorf("notifier calls = %d on delete, want 0", f.notifier.CallCount())
	}
}
