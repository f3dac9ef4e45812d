package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/wailingwell/wailingwell/internal/auth"
	"github.com/wailingwell/wailingwell/internal/model"
	"github.com/wailingwell/wailingwell/internal/store"
)

// AccountService handles registration and credential checks.
type AccountService struct {
	store store.Store
}

func NewAccountService(s store.Store) *AccountService { return &AccountService{store: s} }

// Register creates an account with a hashed password. A username or email
// already in use yields model.ErrDuplicate.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.Account, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", model.ErrValidation)
	}

	salt, verifier, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.store.Accounts().Create(ctx, &model.Account{
		Username:         username,
		Email:            email,
		PasswordSalt:     salt,
		PasswordVerifier: verifier,
	})
}

// Authenticate resolves login as either username or email and checks the
// password. Unknown login and wrong password are indistinguishable: both
// yield model.ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, login, password string) (*model.Account, error) {
	acc, err := s.store.Accounts().GetByLogin(ctx, login)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(password, acc.PasswordSalt, acc.PasswordVerifier) {
		return nil, model.ErrInvalidCredentials
	}
	return acc, nil
}
