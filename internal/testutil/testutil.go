// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"betledger/internal/database"
	"betledger/internal/models"
	"betledger/internal/repository"
)

// NewTestDB creates a migrated SQLite database in a temp dir.
// A file is used rather than :memory: so every pooled connection sees the same data.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Initialize(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, db.Migrate(ctx, nil))
	return db
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestUser creates a password account. The password is hashed at minimum cost.
func NewTestUser(t *testing.T, db *database.DB, email, password, name string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := repository.NewUserRepository(db).CreateUser(context.Background(), email, string(hash), name)
	require.NoError(t, err)
	return user
}

// NewTestGroup creates a group owned by creatorID.
func NewTestGroup(t *testing.T, db *database.DB, name string, creatorID int64) *models.Group {
	t.Helper()
	group, err := repository.NewGroupRepository(db).CreateGroup(context.Background(), name, creatorID)
	require.NoError(t, err)
	return group
}
