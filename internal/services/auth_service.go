package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicely/internal/auth"
	"invoicely/internal/common"
	"invoicely/internal/models"
	"invoicely/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the fixed cost the system has always used.
const bcryptCost = 10

// AuthResult is what both registration and login hand back to the API surface.
type AuthResult struct {
	User  *models.User
	Token string
}

// AuthService establishes identity: it hashes and verifies passwords against
// the credential store and mints bearer tokens. Plaintext passwords never
// leave this package and are never logged.
type AuthService struct {
	users   repositories.UserRepository
	tokens  *auth.TokenIssuer
	timeout time.Duration
}

func NewAuthService(users repositories.UserRepository, tokens *auth.TokenIssuer, storageTimeout time.Duration) *AuthService {
	return &AuthService{users: users, tokens: tokens, timeout: storageTimeout}
}

// Register creates a new user and returns it with a fresh token. Email,
// password and name are required. Duplicate emails fail with
// common.ErrDuplicateEmail; the storage layer enforces that atomically.
func (s *AuthService) Register(ctx context.Context, email, password, name, companyName string) (*AuthResult, error) {
	if err := common.ValidateRequiredString(email, "email"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(password, "password"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CompanyName:  companyName,
		CreatedAt:    time.Now().UTC(),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.users.Create(storeCtx, user); err != nil {
		return nil, mapStorageErr(err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller so accounts cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := common.ValidateRequiredString(email, "email"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(password, "password"); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	user, err := s.users.GetByEmail(storeCtx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, mapStorageErr(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetProfile loads the public profile of the given user.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	user, err := s.users.GetByID(storeCtx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, mapStorageErr(err)
	}
	return user, nil
}

// mapStorageErr normalizes backend failures into the shared taxonomy without
// masking the sentinel errors repositories already return.
func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrValidation):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", common.ErrStorageTimeout, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
}
