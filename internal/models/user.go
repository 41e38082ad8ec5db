package models

import "time"

// User is an account holder. Accounts created or linked through a federated
// provider carry OAuthProvider/OAuthID and cannot sign in with a password.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	OAuthProvider string    `json:"-"`
	OAuthID       string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsFederated reports whether the account is bound to an external identity provider.
func (u *User) IsFederated() bool {
	return u.OAuthProvider != ""
}

// PasswordResetToken represents a pending password reset.
// Only the SHA-256 of the token handed to the user is stored.
type PasswordResetToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the reset token has expired at the given instant
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
