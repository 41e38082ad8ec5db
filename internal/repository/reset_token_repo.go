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

// ResetTokenRepository stores hashed password reset tokens
type ResetTokenRepository struct {
	q database.DBTX
}

func NewResetTokenRepository(db *database.DB) *ResetTokenRepository {
	return &ResetTokenRepository{q: db}
}

// WithTx returns a repository bound to tx
func (r *ResetTokenRepository) WithTx(tx *database.Tx) *ResetTokenRepository {
	return &ResetTokenRepository{q: tx}
}

// Create stores a reset token hash for userID
func (r *ResetTokenRepository) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token_hash, expires_at)
		VALUES (?, ?, ?)
	`
	if _, err := r.q.ExecContext(ctx, query, userID, tokenHash, expiresAt.UTC()); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetByHash returns the token with the given hash, or nil if none exists
func (r *ResetTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_reset_tokens
		WHERE token_hash = ?
	`
	token := &models.PasswordResetToken{}
	err := r.q.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return token, nil
}

// Delete removes a token and reports whether it existed
func (r *ResetTokenRepository) Delete(ctx context.Context, tokenHash string) (bool, error) {
	result, err := r.q.ExecContext(ctx, "DELETE FROM password_reset_tokens WHERE token_hash = ?", tokenHash)
	if err != nil {
		return false, fmt.Errorf("failed to delete reset token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete reset token: %w", err)
	}
	return rows > 0, nil
}

// DeleteExpired removes every token that expired before now
func (r *ResetTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.q.ExecContext(ctx, "DELETE FROM password_reset_tokens WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return result.RowsAffected()
}
