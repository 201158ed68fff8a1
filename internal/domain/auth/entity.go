package auth

import (
	"errors"
	"time"
)

var (
	// ErrValidation marks missing or malformed client input. Wrap it with a
	// user-safe message.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailExists signals a duplicate email registration.
	ErrEmailExists = errors.New("email already registered")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized means no credential was presented.
	ErrUnauthorized = errors.New("authorization token required")
	// ErrTokenInvalid means a supplied token cannot be validated.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrSigning reports a token that could not be signed.
	ErrSigning = errors.New("token signing failed")
)

// ValidationError carries a user-safe description of rejected input.
type ValidationError struct {
	Message string
}

// NewValidationError builds a ValidationError matching ErrValidation.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// User models the authentication entity persisted in storage.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Credentials captures raw credential input for login.
type Credentials struct {
	Email    string
	Password string
}

// Registration captures raw input for account creation.
type Registration struct {
	Username string
	Email    string
	Password string
}
