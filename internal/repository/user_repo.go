package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"betledger/internal/database"
	"betledger/internal/models"
)

const userColumns = `id, email, COALESCE(password_hash, ''), name, COALESCE(oauth_provider, ''), COALESCE(oauth_id, ''), created_at`

// UserRepository handles database operations for users
type UserRepository struct {
	q database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db}
}

// WithTx returns a repository bound to tx
func (r *UserRepository) WithTx(tx *database.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

// CreateUser inserts a password account. Returns ErrDuplicate if the email is taken.
func (r *UserRepository) CreateUser(ctx context.Context, email, passwordHash, name string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name)
		VALUES (?, ?, ?)
	`
	id, err := r.q.ExecReturningID(ctx, query, email, passwordHash, name)
	if err != nil {
		if r.q.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CreateFederatedUser inserts an account bound to an external identity.
// Returns ErrDuplicate if the email or the provider identity already exists.
func (r *UserRepository) CreateFederatedUser(ctx context.Context, email, name, provider, providerID, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, oauth_provider, oauth_id)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.q.ExecReturningID(ctx, query, email, passwordHash, name, provider, providerID)
	if err != nil {
		if r.q.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}

	return &models.User{
		ID:            id,
		Email:         email,
		PasswordHash:  passwordHash,
		Name:          name,
		OAuthProvider: provider,
		OAuthID:       providerID,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email address, federated or not
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// GetPasswordUserByEmail retrieves a user by email only if the account is not
// bound to a federated provider.
func (r *UserRepository) GetPasswordUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE email = ? AND (oauth_provider IS NULL OR oauth_provider = '')`
	return r.getOne(ctx, query, email)
}

// GetUserByOAuth retrieves the user bound to a provider identity
func (r *UserRepository) GetUserByOAuth(ctx context.Context, provider, providerID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE oauth_provider = ? AND oauth_id = ?`
	return r.getOne(ctx, query, provider, providerID)
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	result, err := r.q.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectOneRow(result, "update password")
}

// LinkOAuthProvider binds an existing account to a provider identity and
// replaces its password hash, which ends password sign-in for the account.
func (r *UserRepository) LinkOAuthProvider(ctx context.Context, userID int64, provider, providerID, passwordHash string) error {
	query := `
		UPDATE users
		SET oauth_provider = ?, oauth_id = ?, password_hash = ?
		WHERE id = ?
	`
	result, err := r.q.ExecContext(ctx, query, provider, providerID, passwordHash, userID)
	if err != nil {
		if r.q.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to link OAuth provider: %w", err)
	}
	return expectOneRow(result, "link OAuth provider")
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.q.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.OAuthProvider,
		&user.OAuthID,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func expectOneRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to %s: %w", op, sql.ErrNoRows)
	}
	return nil
}
