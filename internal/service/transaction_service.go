package service

import (
	"strings"
	"time"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/dkrasnov/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction business logic. Create and
// update hand the written transaction's user, category and month to the
// alert notifier; the notifier's outcome never affects the write.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	alerts          AlertNotifier
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	alerts AlertNotifier,
	publisher websocket.EventPublisher,
) *TransactionService {
	if alerts == nil {
		alerts = NoOpNotifier{}
	}
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		alerts:          alerts,
		publisher:       publisher,
	}
}

// TransactionInput holds the input for creating or updating a transaction
type TransactionInput struct {
	Amount     decimal.Decimal
	CategoryID int32
	Date       time.Time
	Note       *string
}

func (s *TransactionService) validate(userID uuid.UUID, input TransactionInput) (*string, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var note *string
	if input.Note != nil {
		trimmed := strings.TrimSpace(*input.Note)
		if len(trimmed) > domain.MaxTransactionNoteLength {
			return nil, domain.ErrNoteTooLong
		}
		if trimmed != "" {
			note = &trimmed
		}
	}

	// The category must be system-provided or owned by the same user.
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, domain.ErrCategoryNotAllowed
	}
	if !category.AccessibleBy(userID) {
		return nil, domain.ErrCategoryNotAllowed
	}

	return note, nil
}

// CreateTransaction records a new expense and queues a budget check for
// its category and month.
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	note, err := s.validate(userID, input)
	if err != nil {
		return nil, err
	}

	date := input.Date.UTC().Truncate(24 * time.Hour)
	if input.Date.IsZero() {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	transaction := &domain.Transaction{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Date:       date,
		Note:       note,
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	s.alerts.NotifyIfNeeded(userID, created.CategoryID, created.Date)
	s.publisher.Publish(userID, websocket.TransactionCreated(created))
	return created, nil
}

// UpdateTransaction mutates an existing expense's amount, category, date
// or note, then queues a budget check against the updated state.
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id int32, input TransactionInput) (*domain.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	note, err := s.validate(userID, input)
	if err != nil {
		return nil, err
	}

	date := input.Date.UTC().Truncate(24 * time.Hour)
	if input.Date.IsZero() {
		date = existing.Date
	}

	existing.Amount = input.Amount
	existing.CategoryID = input.CategoryID
	existing.Date = date
	existing.Note = note

	updated, err := s.transactionRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.alerts.NotifyIfNeeded(userID, updated.CategoryID, updated.Date)
	s.publisher.Publish(userID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes an expense. Deletes trigger no budget check.
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id int32) error {
	transaction, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.TransactionDeleted(transaction))
	return nil
}

// GetTransaction retrieves one of the user's transactions
func (s *TransactionService) GetTransaction(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// GetTransactions lists the user's transactions, optionally restricted to
// one calendar month.
func (s *TransactionService) GetTransactions(userID uuid.UUID, year, month int) ([]*domain.Transaction, error) {
	if year != 0 && month != 0 {
		period := domain.NewPeriod(year, month)
		return s.transactionRepo.FindInRange(userID, period.Start, period.End)
	}
	return s.transactionRepo.FindByUser(userID)
}
