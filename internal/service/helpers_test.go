package service

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"betledger/internal/database"
	"betledger/internal/repository"
	"betledger/internal/security"
	"betledger/internal/testutil"
)

type sentReset struct {
	To, Name, Link string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentReset
	err  error
}

func (f *fakeNotifier) SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentReset{To: toEmail, Name: toName, Link: resetLink})
	return nil
}

func (f *fakeNotifier) last(t *testing.T) sentReset {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "no reset email sent")
	return f.sent[len(f.sent)-1]
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	db          *database.DB
	users       *repository.UserRepository
	credentials *CredentialStore
	auth        *AuthService
	reset       *ResetService
	linker      *OAuthLinker
	ledger      *LedgerService
	notifier    *fakeNotifier
	clock       *clock
	logs        *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)

	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	credentials := NewCredentialStore(users)
	clk := &clock{now: time.Now().UTC()}

	tokens, err := security.NewTokenService(security.TokenConfig{Secret: "service-test-secret-123"})
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	notifier := &fakeNotifier{}

	return &fixture{
		db:          db,
		users:       users,
		credentials: credentials,
		auth:        NewAuthService(credentials, users, tokens, logger),
		reset: NewResetService(db, users, repository.NewResetTokenRepository(db), credentials, notifier,
			ResetConfig{FrontendURL: "http://front.test", Now: clk.Now}, logger),
		linker:   NewOAuthLinker(users, logger),
		ledger:   NewLedgerService(groups, repository.NewGameRepository(db), users, NewMembershipGuard(groups)),
		notifier: notifier,
		clock:    clk,
		logs:     logs,
	}
}
