package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"betledger/internal/database"
	"betledger/internal/models"
	"betledger/internal/repository"
	"betledger/internal/security"
	"betledger/internal/validation"
)

// CredentialStore owns password credentials: account creation, password
// verification and password replacement.
type CredentialStore struct {
	users *repository.UserRepository
}

func NewCredentialStore(users *repository.UserRepository) *CredentialStore {
	return &CredentialStore{users: users}
}

// WithTx returns a store whose writes run inside tx
func (s *CredentialStore) WithTx(tx *database.Tx) *CredentialStore {
	return &CredentialStore{users: s.users.WithTx(tx)}
}

// CreateAccount registers a password account under the normalized email.
func (s *CredentialStore) CreateAccount(ctx context.Context, email, password, name string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, validation.NormalizeEmail(email), hash, strings.TrimSpace(name))
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyCredentials returns the password account matching email and password.
// A missing account, a federated account and a wrong password all return
// ErrInvalidCredentials.
func (s *CredentialStore) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetPasswordUserByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		security.BurnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ReplacePassword hashes password and stores it for userID.
func (s *CredentialStore) ReplacePassword(ctx context.Context, userID int64, password string) error {
	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	err = s.users.UpdatePassword(ctx, userID, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}
