package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/loginbox/auth-api/internal/core/domain"
	"github.com/loginbox/auth-api/internal/core/password"
	"github.com/loginbox/auth-api/internal/core/ports"
	"github.com/loginbox/auth-api/internal/core/token"
)

const minPasswordLength = 8

// Matches the local@domain.tld shape; anything stricter belongs in an email
// verification flow, which this service does not have.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements registration, login, and profile management.
type AuthService struct {
	repo     ports.UserRepository
	hasher   password.Hasher
	tokens   *token.Manager
	cache    ports.ProfileCache
	recorder ports.LoginRecorder
}

func NewAuthService(repo ports.UserRepository, hasher password.Hasher, tokens *token.Manager, cache ports.ProfileCache, recorder ports.LoginRecorder) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, cache: cache, recorder: recorder}
}

func (s *AuthService) Register(ctx context.Context, name, lastName, email, pass string) (*domain.User, error) {
	if name == "" || lastName == "" || email == "" || pass == "" {
		return nil, domain.NewValidationError("name, last_name, email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.NewValidationError("email is not valid")
	}
	if len(pass) < minPasswordLength {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}

	// Pre-check keeps the common duplicate case off the insert path; the
	// unique index on email still backstops the race between two
	// concurrent registrations (the losing insert maps to ErrUserExists).
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and mints a bearer token. An unknown email and
// a wrong password are indistinguishable to the caller: both return
// ErrInvalidCredentials after one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, email, pass string) (string, *domain.User, error) {
	if email == "" || pass == "" {
		return "", nil, domain.NewValidationError("email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.DummyVerify(pass)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(pass, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Email, user.Name, user.LastName)
	if err != nil {
		return "", nil, err
	}

	if s.recorder != nil {
		s.recorder.Record(ports.LoginEvent{UserID: user.ID, At: time.Now().UTC()})
	}

	return tok, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	if s.cache != nil {
		if user, ok := s.cache.Get(ctx, userID); ok {
			return user, nil
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, user)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, name, lastName string) (*domain.User, error) {
	if name == "" || lastName == "" {
		return nil, domain.NewValidationError("name and last_name are required")
	}

	updated, err := s.repo.UpdateName(ctx, userID, name, lastName)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return updated, nil
}
