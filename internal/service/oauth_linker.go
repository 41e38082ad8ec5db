package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"betledger/internal/models"
	"betledger/internal/oauth"
	"betledger/internal/repository"
	"betledger/internal/security"
	"betledger/internal/validation"
)

const defaultDisplayName = "User"

// OAuthLinker reconciles an external identity with local accounts.
type OAuthLinker struct {
	users *repository.UserRepository
	log   *slog.Logger
}

func NewOAuthLinker(users *repository.UserRepository, logger *slog.Logger) *OAuthLinker {
	return &OAuthLinker{users: users, log: logger}
}

// PlaceholderEmail is stored for federated accounts whose provider shared no address.
func PlaceholderEmail(provider, providerID string) string {
	return fmt.Sprintf("%s@%s.oauth", providerID, provider)
}

// Link returns the account for profile. In order:
//  1. an account already bound to (provider, id) is returned unchanged;
//  2. an account with the same email is bound to the identity and its
//     password is replaced with the OAuth sentinel;
//  3. otherwise a new federated account is created.
//
// A unique-constraint race with a concurrent callback is resolved by
// re-running the lookups, so one identity never yields two accounts.
func (l *OAuthLinker) Link(ctx context.Context, profile oauth.Profile) (*models.User, error) {
	if profile.Provider == "" || profile.ID == "" {
		return nil, validation.ValidationError{Field: "profile", Message: "Provider profile is incomplete"}
	}

	email := validation.NormalizeEmail(profile.Email)
	if email == "" {
		email = PlaceholderEmail(profile.Provider, profile.ID)
	}
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = defaultDisplayName
	}

	const attempts = 2
	var lastErr error
	for i := 0; i < attempts; i++ {
		user, err := l.link(ctx, profile.Provider, profile.ID, email, name)
		if errors.Is(err, repository.ErrDuplicate) {
			lastErr = err
			continue
		}
		return user, err
	}
	return nil, fmt.Errorf("failed to link %s identity: %w", profile.Provider, lastErr)
}

func (l *OAuthLinker) link(ctx context.Context, provider, providerID, email, name string) (*models.User, error) {
	user, err := l.users.GetUserByOAuth(ctx, provider, providerID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = l.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err := l.users.LinkOAuthProvider(ctx, user.ID, provider, providerID, security.OAuthPasswordSentinel); err != nil {
			return nil, err
		}
		l.log.Info("linked federated identity to existing account", "user_id", user.ID, "provider", provider)
		user.OAuthProvider = provider
		user.OAuthID = providerID
		user.PasswordHash = security.OAuthPasswordSentinel
		return user, nil
	}

	user, err = l.users.CreateFederatedUser(ctx, email, name, provider, providerID, security.OAuthPasswordSentinel)
	if err != nil {
		return nil, err
	}
	l.log.Info("account created from federated identity", "user_id", user.ID, "provider", provider)
	return user, nil
}
