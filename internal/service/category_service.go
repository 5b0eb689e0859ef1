package service

import (
	"errors"
	"strings"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/dkrasnov/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	publisher    websocket.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, publisher websocket.EventPublisher) *CategoryService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &CategoryService{categoryRepo: categoryRepo, publisher: publisher}
}

func validateCategoryInput(name string, budget decimal.Decimal) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return "", domain.ErrNameTooLong
	}
	if budget.IsNegative() {
		return "", domain.ErrInvalidBudget
	}
	return name, nil
}

// CreateCategory creates a user-owned category. Names are unique
// case-insensitively among the categories the user can see (system ones
// included). A zero budget means the category is not budget-tracked.
func (s *CategoryService) CreateCategory(userID uuid.UUID, name string, monthlyBudget decimal.Decimal) (*domain.Category, error) {
	name, err := validateCategoryInput(name, monthlyBudget)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.GetByName(userID, name)
	if err != nil && !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrCategoryAlreadyExists
	}

	owner := userID
	category := &domain.Category{
		UserID:        &owner,
		Name:          name,
		MonthlyBudget: monthlyBudget,
	}

	created, err := s.categoryRepo.Create(category)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.CategoryCreated(created))
	return created, nil
}

// GetCategories retrieves the categories accessible to the user:
// system-provided plus user-owned.
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAccessible(userID)
}

// GetCategoryByID retrieves a category the user can access
func (s *CategoryService) GetCategoryByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !category.AccessibleBy(userID) {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// UpdateCategory renames a user-owned category or changes its budget.
// System categories cannot be modified.
func (s *CategoryService) UpdateCategory(userID uuid.UUID, id int32, name string, monthlyBudget decimal.Decimal) (*domain.Category, error) {
	category, err := s.GetCategoryByID(userID, id)
	if err != nil {
		return nil, err
	}
	if category.IsSystem() {
		return nil, domain.ErrSystemCategory
	}

	name, err = validateCategoryInput(name, monthlyBudget)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.GetByName(userID, name)
	if err != nil && !errors.Is(err, domain.ErrCategoryNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, domain.ErrCategoryAlreadyExists
	}

	updated, err := s.categoryRepo.Update(id, name, monthlyBudget)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.CategoryUpdated(updated))
	return updated, nil
}

// DeleteCategory removes a user-owned category. Transactions that
// reference it are left in place; reports simply stop resolving the
// category for them.
func (s *CategoryService) DeleteCategory(userID uuid.UUID, id int32) error {
	category, err := s.GetCategoryByID(userID, id)
	if err != nil {
		return err
	}
	if category.IsSystem() {
		return domain.ErrSystemCategory
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.CategoryDeleted(category))
	return nil
}
