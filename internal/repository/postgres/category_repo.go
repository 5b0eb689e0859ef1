package postgres

import (
	"context"
	"errors"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	budget, err := decimalToPgNumeric(category.MonthlyBudget)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO categories (user_id, name, monthly_budget)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, monthly_budget, created_at, updated_at`,
		category.UserID, category.Name, budget,
	)

	created, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(id int32) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT id, user_id, name, monthly_budget, created_at, updated_at
		FROM categories
		WHERE id = $1`,
		id,
	)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetByName does a case-insensitive name lookup among the categories
// accessible to the user (system-provided plus user-owned).
func (r *CategoryRepository) GetByName(userID uuid.UUID, name string) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT id, user_id, name, monthly_budget, created_at, updated_at
		FROM categories
		WHERE (user_id IS NULL OR user_id = $1) AND lower(name) = lower($2)`,
		userID, name,
	)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAccessible retrieves the system-provided and user-owned categories
func (r *CategoryRepository) GetAccessible(userID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT id, user_id, name, monthly_budget, created_at, updated_at
		FROM categories
		WHERE user_id IS NULL OR user_id = $1
		ORDER BY user_id IS NULL DESC, lower(name)`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update changes a category's name and monthly budget
func (r *CategoryRepository) Update(id int32, name string, monthlyBudget decimal.Decimal) (*domain.Category, error) {
	budget, err := decimalToPgNumeric(monthlyBudget)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE categories
		SET name = $2, monthly_budget = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, name, monthly_budget, created_at, updated_at`,
		id, name, budget,
	)

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category. Transactions referencing it are kept; the
// reference dangles on purpose and reports skip it during resolution.
func (r *CategoryRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	var budget pgtype.Numeric

	err := row.Scan(&category.ID, &category.UserID, &category.Name, &budget, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}

	category.MonthlyBudget, err = pgNumericToDecimal(budget)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
