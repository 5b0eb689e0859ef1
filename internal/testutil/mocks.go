package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/dkrasnov/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[uuid.UUID]*domain.User
	ByEmail  map[string]*domain.User
	CreateFn func(user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:   make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	if _, ok := m.ByEmail[strings.ToLower(user.Email)]; ok {
		return nil, domain.ErrEmailAlreadyRegistered
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.Users[user.ID] = user
	m.ByEmail[strings.ToLower(user.Email)] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email (case-insensitive)
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.ID] = user
	m.ByEmail[strings.ToLower(user.Email)] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
	CreateFn   func(category *domain.Category) (*domain.Category, error)
	GetByIDFn  func(id int32) (*domain.Category, error)
	UpdateFn   func(id int32, name string, monthlyBudget decimal.Decimal) (*domain.Category, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	category.ID = m.NextID
	m.NextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(id int32) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	if category, ok := m.Categories[id]; ok {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByName retrieves a category accessible to the user by name (case-insensitive)
func (m *MockCategoryRepository) GetByName(userID uuid.UUID, name string) (*domain.Category, error) {
	for _, category := range m.Categories {
		if !category.AccessibleBy(userID) {
			continue
		}
		if strings.EqualFold(category.Name, name) {
			return category, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAccessible retrieves all categories visible to the user
func (m *MockCategoryRepository) GetAccessible(userID uuid.UUID) ([]*domain.Category, error) {
	result := []*domain.Category{}
	for _, category := range m.Categories {
		if category.AccessibleBy(userID) {
			result = append(result, category)
		}
	}
	return result, nil
}

// Update updates a category's name and budget
func (m *MockCategoryRepository) Update(id int32, name string, monthlyBudget decimal.Decimal) (*domain.Category, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(id, name, monthlyBudget)
	}
	category, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	category.Name = name
	category.MonthlyBudget = monthlyBudget
	category.UpdatedAt = time.Now()
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(id int32) error {
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions     map[int32]*domain.Transaction
	ByUser           map[uuid.UUID][]*domain.Transaction
	NextID           int32
	CreateFn         func(transaction *domain.Transaction) (*domain.Transaction, error)
	FindInRangeFn    func(userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error)
	FindInRangeCalls int
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		ByUser:       make(map[uuid.UUID][]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	m.ByUser[transaction.UserID] = append(m.ByUser[transaction.UserID], transaction)
	return transaction, nil
}

// GetByID retrieves a transaction owned by the user
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// FindInRange returns the user's transactions with date in [start, end)
func (m *MockTransactionRepository) FindInRange(userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	m.FindInRangeCalls++
	if m.FindInRangeFn != nil {
		return m.FindInRangeFn(userID, start, end)
	}
	result := []*domain.Transaction{}
	for _, t := range m.ByUser[userID] {
		if !t.Date.Before(start) && t.Date.Before(end) {
			result = append(result, t)
		}
	}
	return result, nil
}

// CountInRange counts the user's transactions with date in [start, end)
func (m *MockTransactionRepository) CountInRange(userID uuid.UUID, start, end time.Time) (int64, error) {
	var count int64
	for _, t := range m.ByUser[userID] {
		if !t.Date.Before(start) && t.Date.Before(end) {
			count++
		}
	}
	return count, nil
}

// FindByUser returns all of the user's transactions
func (m *MockTransactionRepository) FindByUser(userID uuid.UUID) ([]*domain.Transaction, error) {
	transactions := m.ByUser[userID]
	if transactions == nil {
		return []*domain.Transaction{}, nil
	}
	return transactions, nil
}

// Update updates a transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID {
		return nil, domain.ErrTransactionNotFound
	}
	existing.Amount = transaction.Amount
	existing.CategoryID = transaction.CategoryID
	existing.Date = transaction.Date
	existing.Note = transaction.Note
	existing.UpdatedAt = time.Now()
	return existing, nil
}

// Delete removes a transaction owned by the user
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id int32) error {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	list := m.ByUser[userID]
	for i, t := range list {
		if t.ID == id {
			m.ByUser[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.Transactions[transaction.ID] = transaction
	m.ByUser[transaction.UserID] = append(m.ByUser[transaction.UserID], transaction)
	if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
}

// SentMessage records one delivery attempt made through MockChannel
type SentMessage struct {
	Address string
	Subject string
	Body    string
}

// MockChannel is a recording implementation of notify.Channel. Sends are
// appended to Sent and signalled on Notify so tests can wait for
// asynchronous dispatch.
type MockChannel struct {
	mu     sync.Mutex
	Sent   []SentMessage
	SendFn func(ctx context.Context, address, subject, body string) error
	Notify chan SentMessage
}

// NewMockChannel creates a new MockChannel with a buffered notify channel
func NewMockChannel() *MockChannel {
	return &MockChannel{Notify: make(chan SentMessage, 16)}
}

// Send records the message
func (m *MockChannel) Send(ctx context.Context, address, subject, body string) error {
	if m.SendFn != nil {
		if err := m.SendFn(ctx, address, subject, body); err != nil {
			return err
		}
	}
	msg := SentMessage{Address: address, Subject: subject, Body: body}
	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	m.mu.Unlock()
	select {
	case m.Notify <- msg:
	default:
	}
	return nil
}

// SentCount returns the number of recorded sends
func (m *MockChannel) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// MockNotifier records NotifyIfNeeded calls for write-path tests
type MockNotifier struct {
	mu    sync.Mutex
	Calls []NotifyCall
}

// NotifyCall captures the arguments of one NotifyIfNeeded invocation
type NotifyCall struct {
	UserID     uuid.UUID
	CategoryID int32
	Date       time.Time
}

// NotifyIfNeeded records the call
func (m *MockNotifier) NotifyIfNeeded(userID uuid.UUID, categoryID int32, date time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, NotifyCall{UserID: userID, CategoryID: categoryID, Date: date})
}

// CallCount returns the number of recorded calls
func (m *MockNotifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// PublishedEvent captures one event published to the mock hub
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockPublisher records events published for live updates
type MockPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// Publish records the event
func (m *MockPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// EventCount returns the number of recorded events
func (m *MockPublisher) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}
