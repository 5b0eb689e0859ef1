package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/dkrasnov/fintrack-backend/internal/middleware"
	"github.com/dkrasnov/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	CategoryID int32           `json:"categoryId"`
	Date       string          `json:"date"` // YYYY-MM-DD
	Note       *string         `json:"note,omitempty"`
}

func (r *TransactionRequest) toInput() (service.TransactionInput, error) {
	input := service.TransactionInput{
		Amount:     r.Amount,
		CategoryID: r.CategoryID,
		Note:       r.Note,
	}
	if r.Date != "" {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return input, err
		}
		input.Date = date
	}
	return input, nil
}

func transactionErrorResponse(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrNoteTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "note", Message: "Note must be 500 characters or less"},
		})
	case errors.Is(err, domain.ErrCategoryNotAllowed):
		return NewValidationError(c, "Invalid category", []ValidationError{
			{Field: "categoryId", Message: "Category does not exist or is not accessible"},
		})
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	default:
		log.Error().Err(err).Msg("Failed to " + action + " transaction")
		return NewInternalError(c, "Failed to "+action+" transaction")
	}
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Date must be formatted as YYYY-MM-DD"},
		})
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		return transactionErrorResponse(c, err, "create")
	}

	log.Info().Stringer("user_id", userID).Int32("transaction_id", transaction.ID).Msg("Transaction created")
	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions handles GET /api/v1/transactions?year=&month=
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var year, month int
	if y := c.QueryParam("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return NewValidationError(c, "Invalid year", nil)
		}
		year = parsed
	}
	if m := c.QueryParam("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			return NewValidationError(c, "Invalid month", nil)
		}
		month = parsed
	}

	transactions, err := h.transactionService.GetTransactions(userID, year, month)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	return c.JSON(http.StatusOK, transactions)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(userID, int32(id))
	if err != nil {
		return transactionErrorResponse(c, err, "get")
	}

	return c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, err := req.toInput()
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Date must be formatted as YYYY-MM-DD"},
		})
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, int32(id), input)
	if err != nil {
		return transactionErrorResponse(c, err, "update")
	}

	log.Info().Stringer("user_id", userID).Int32("transaction_id", transaction.ID).Msg("Transaction updated")
	return c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, int32(id)); err != nil {
		return transactionErrorResponse(c, err, "delete")
	}

	log.Info().Stringer("user_id", userID).Int("transaction_id", id).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}
