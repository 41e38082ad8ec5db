package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"betledger/internal/database"
	"betledger/internal/notify"
	"betledger/internal/repository"
	"betledger/internal/security"
	"betledger/internal/validation"
)

// DefaultResetTokenTTL is how long a reset link stays valid.
const DefaultResetTokenTTL = time.Hour

type ResetConfig struct {
	// FrontendURL is the base of the reset link, {FrontendURL}/reset-password?token=...
	FrontendURL string
	TTL         time.Duration
	Now         func() time.Time
}

// ResetService runs the forgot-password workflow
type ResetService struct {
	db          *database.DB
	users       *repository.UserRepository
	tokens      *repository.ResetTokenRepository
	credentials *CredentialStore
	notifier    notify.Notifier
	frontendURL string
	ttl         time.Duration
	now         func() time.Time
	log         *slog.Logger
}

// NewResetService creates a reset service. notifier may be nil, in which case
// reset links are written to the log.
func NewResetService(
	db *database.DB,
	users *repository.UserRepository,
	tokens *repository.ResetTokenRepository,
	credentials *CredentialStore,
	notifier notify.Notifier,
	cfg ResetConfig,
	logger *slog.Logger,
) *ResetService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &ResetService{
		db:          db,
		users:       users,
		tokens:      tokens,
		credentials: credentials,
		notifier:    notifier,
		frontendURL: cfg.FrontendURL,
		ttl:         ttl,
		now:         now,
		log:         logger,
	}
}

// RequestReset issues a reset token for a password account and delivers the
// link. Unknown and federated addresses are a silent no-op so the caller
// cannot tell whether an account exists.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)
	if email == "" {
		return validation.ValidationError{Field: "email", Message: "Email is required"}
	}

	user, err := s.users.GetPasswordUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, hash, err := security.GenerateResetToken()
	if err != nil {
		return err
	}
	if err := s.tokens.Create(ctx, user.ID, hash, s.now().Add(s.ttl)); err != nil {
		return err
	}

	link := s.resetLink(token)
	if s.notifier == nil {
		s.log.Warn("no email notifier configured, password reset link follows", "user_id", user.ID, "reset_link", link)
		return nil
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, user.Name, link); err != nil {
		return fmt.Errorf("failed to deliver reset link for user %d: %w", user.ID, err)
	}
	return nil
}

// CompleteReset replaces the password of the token's owner and consumes the
// token in one transaction. A token can succeed at most once.
func (s *ResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < validation.MinPasswordLength {
		return ErrWeakPassword
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	hash := security.HashToken(token)

	var userID int64
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		tokens := s.tokens.WithTx(tx)

		rt, err := tokens.GetByHash(ctx, hash)
		if err != nil {
			return err
		}
		if rt == nil || rt.IsExpired(s.now()) {
			return ErrInvalidOrExpiredToken
		}

		if err := s.credentials.WithTx(tx).ReplacePassword(ctx, rt.UserID, newPassword); err != nil {
			return err
		}

		// a concurrent reset may have consumed the token after our read
		deleted, err := tokens.Delete(ctx, hash)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrInvalidOrExpiredToken
		}
		userID = rt.UserID
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("password reset completed", "user_id", userID)
	return nil
}

// PurgeExpired deletes reset tokens whose window has passed
func (s *ResetService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.now())
}

func (s *ResetService) resetLink(token string) string {
	return s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}
