package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups transactions and optionally carries a monthly budget.
// A nil UserID marks a system-provided category: visible to every user,
// immutable and undeletable through the API.
type Category struct {
	ID            int32           `json:"id"`
	UserID        *uuid.UUID      `json:"userId,omitempty"`
	Name          string          `json:"name"`
	MonthlyBudget decimal.Decimal `json:"monthlyBudget"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// IsSystem reports whether the category is system-provided (not owned by any user).
func (c *Category) IsSystem() bool {
	return c.UserID == nil
}

// BudgetEnabled reports whether budget tracking applies to this category.
// A zero or absent budget disables tracking.
func (c *Category) BudgetEnabled() bool {
	return c.MonthlyBudget.IsPositive()
}

// AccessibleBy reports whether the given user may attach transactions to
// this category: it must be system-provided or owned by that user.
func (c *Category) AccessibleBy(userID uuid.UUID) bool {
	return c.UserID == nil || *c.UserID == userID
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(id int32) (*Category, error)
	// GetByName does a case-insensitive lookup among the categories
	// accessible to the user (system-provided plus user-owned).
	GetByName(userID uuid.UUID, name string) (*Category, error)
	GetAccessible(userID uuid.UUID) ([]*Category, error)
	Update(id int32, name string, monthlyBudget decimal.Decimal) (*Category, error)
	Delete(id int32) error
}
