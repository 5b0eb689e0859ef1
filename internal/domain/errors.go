package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrCategoryAlreadyExists  = errors.New("category already exists")
	ErrCategoryNotAllowed     = errors.New("category not accessible to user")
	ErrSystemCategory         = errors.New("system categories cannot be modified")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidBudget          = errors.New("budget must not be negative")
	ErrInvalidMonth           = errors.New("month must be between 1 and 12")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrNoteTooLong            = errors.New("note exceeds maximum length")
)

// Validation constants
const (
	MaxCategoryNameLength    = 100
	MaxTransactionNoteLength = 500
)
