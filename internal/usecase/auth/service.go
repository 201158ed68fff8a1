package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "authgate/backend/internal/domain/auth"

	"github.com/google/uuid"
)

// maxPasswordBytes is the longest input bcrypt hashes without truncation.
const maxPasswordBytes = 72

// PasswordHasher produces and checks stored credentials.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, credential string) (bool, error)
}

// Service coordinates authentication workflows between domain and infrastructure.
type Service struct {
	users   domain.UserRepository
	hasher  PasswordHasher
	tokens  TokenIssuer
	nowFunc func() time.Time
}

// NewService constructs an auth service.
func NewService(users domain.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		nowFunc: time.Now,
	}
}

// Register creates a new user and returns the persisted entity.
func (s *Service) Register(ctx context.Context, input domain.Registration) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := normaliseEmail(input.Email)
	switch {
	case username == "":
		return nil, domain.NewValidationError("username is required")
	case email == "":
		return nil, domain.NewValidationError("email is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hashed, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login validates credentials and returns a token plus user.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	email := normaliseEmail(creds.Email)
	if email == "" {
		return "", nil, domain.NewValidationError("email is required")
	}
	if creds.Password == "" {
		return "", nil, domain.NewValidationError("password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("lookup email: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, creds.Password, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Profile loads the user behind an authenticated identity.
func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func normaliseEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validatePassword(password string) error {
	if password == "" {
		return domain.NewValidationError("password is required")
	}
	if len(password) > maxPasswordBytes {
		return domain.NewValidationError("password must be at most 72 bytes")
	}
	return nil
}
