package service

import (
	"context"
	"log/slog"

	"betledger/internal/models"
	"betledger/internal/repository"
	"betledger/internal/security"
)

// AuthResult is returned by every flow that signs a user in
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService handles authentication business logic
type AuthService struct {
	credentials *CredentialStore
	users       *repository.UserRepository
	tokens      *security.TokenService
	log         *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(credentials *CredentialStore, users *repository.UserRepository, tokens *security.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		credentials: credentials,
		users:       users,
		tokens:      tokens,
		log:         logger,
	}
}

// Signup creates a password account and signs it in
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	user, err := s.credentials.CreateAccount(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	s.log.Info("account created", "user_id", user.ID)
	return s.IssueFor(user)
}

// Login verifies a password and signs the account in
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.credentials.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.IssueFor(user)
}

// IssueFor signs a session token for user
func (s *AuthService) IssueFor(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to the user ID it names
func (s *AuthService) Authenticate(token string) (int64, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return 0, ErrUnauthorized
	}
	return userID, nil
}

// CurrentUser loads the account a verified token names
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
