package domain

import (
	"errors"
	"time"
)

var ErrValidation = errors.New("validation failed")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")

// User models an account row in the users table.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// ValidationError carries a field-level message that is safe to return to
// the client. It unwraps to ErrValidation so the error handler can map it.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a client-facing validation failure.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
