package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betledger/internal/database"
	"betledger/internal/oauth"
	"betledger/internal/repository"
	"betledger/internal/validation"
)

func TestCreateAccountNormalizesEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.credentials.CreateAccount(ctx, "  Alice@Example.COM ", "secret1", " Alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = f.credentials.CreateAccount(ctx, "ALICE@example.com", "other12", "Other")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCreateAccountValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name, email, password, display string
	}{
		{"missing email", "", "secret1", "A"},
		{"bad email", "nope", "secret1", "A"},
		{"short password", "a@example.com", "123", "A"},
		{"missing name", "a@example.com", "secret1", " "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.credentials.CreateAccount(ctx, tt.email, tt.password, tt.display)
			var ve validation.ValidationError
			assert.True(t, errors.As(err, &ve), "got %v", err)
		})
	}
}

func TestVerifyCredentialsUniformFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.CreateAccount(ctx, "bob@example.com", "secret1", "Bob")
	require.NoError(t, err)
	_, err = f.linker.Link(ctx, oauth.Profile{Provider: "google", ID: "g-1", Email: "fed@example.com", Name: "Fed"})
	require.NoError(t, err)

	user, err := f.credentials.VerifyCredentials(ctx, "BOB@example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)

	_, errUnknown := f.credentials.VerifyCredentials(ctx, "nobody@example.com", "secret1")
	_, errWrong := f.credentials.VerifyCredentials(ctx, "bob@example.com", "wrong-password")
	_, errFederated := f.credentials.VerifyCredentials(ctx, "fed@example.com", "oauth")

	for _, err := range []error{errUnknown, errWrong, errFederated} {
		assert.Equal(t, ErrInvalidCredentials, err, "failures must be the identical sentinel")
	}
}

func TestReplacePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.credentials.CreateAccount(ctx, "carol@example.com", "secret1", "Carol")
	require.NoError(t, err)

	require.NoError(t, f.credentials.ReplacePassword(ctx, user.ID, "newpass1"))

	_, err = f.credentials.VerifyCredentials(ctx, "carol@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.credentials.VerifyCredentials(ctx, "carol@example.com", "newpass1")
	assert.NoError(t, err)

	assert.ErrorIs(t, f.credentials.ReplacePassword(ctx, user.ID+99, "newpass1"), ErrNotFound)
}

func TestVerifyCredentialsStoreFailureIsNotUniformError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db := database.New(conn, database.NewSQLiteDialect())
	store := NewCredentialStore(repository.NewUserRepository(db))

	mock.ExpectQuery("SELECT .* FROM users").WillReturnError(errors.New("connection refused"))

	_, err = store.VerifyCredentials(context.Background(), "bob@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
