package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single dated expense. Amount is a positive currency
// value with two-decimal semantics; Date is a calendar date, time of day
// is irrelevant to monthly bucketing.
type Transaction struct {
	ID         int32           `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	CategoryID int32           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Note       *string         `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID uuid.UUID, id int32) (*Transaction, error)
	// FindInRange returns the user's transactions with date in [start, end),
	// newest first.
	FindInRange(userID uuid.UUID, start, end time.Time) ([]*Transaction, error)
	CountInRange(userID uuid.UUID, start, end time.Time) (int64, error)
	FindByUser(userID uuid.UUID) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	Delete(userID uuid.UUID, id int32) error
}
