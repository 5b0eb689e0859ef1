package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO transactions (user_id, category_id, amount, date, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, category_id, amount, date, note, created_at, updated_at`,
		transaction.UserID, transaction.CategoryID, amount, transaction.Date, transaction.Note,
	)

	return scanTransaction(row)
}

// GetByID retrieves a transaction by ID, scoped to its owner
func (r *TransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT id, user_id, category_id, amount, date, note, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND id = $2`,
		userID, id,
	)

	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// FindInRange returns the user's transactions with date in [start, end), newest first
func (r *TransactionRepository) FindInRange(userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT id, user_id, category_id, amount, date, note, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC, created_at DESC`,
		userID, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// CountInRange counts the user's transactions with date in [start, end)
func (r *TransactionRepository) CountInRange(userID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(), `
		SELECT count(*)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3`,
		userID, start, end,
	).Scan(&count)
	return count, err
}

// FindByUser returns all of the user's transactions, newest first
func (r *TransactionRepository) FindByUser(userID uuid.UUID) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT id, user_id, category_id, amount, date, note, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Update mutates a transaction's amount, category, date and note
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE transactions
		SET amount = $3, category_id = $4, date = $5, note = $6, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING id, user_id, category_id, amount, date, note, created_at, updated_at`,
		transaction.UserID, transaction.ID, amount, transaction.CategoryID, transaction.Date, transaction.Note,
	)

	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction, scoped to its owner
func (r *TransactionRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var amount pgtype.Numeric
	var date pgtype.Date

	err := row.Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.CategoryID,
		&amount,
		&date,
		&transaction.Note,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	transaction.Amount, err = pgNumericToDecimal(amount)
	if err != nil {
		return nil, err
	}
	transaction.Date = date.Time
	return &transaction, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}
