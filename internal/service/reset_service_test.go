package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betledger/internal/oauth"
	"betledger/internal/repository"
	"betledger/internal/validation"
)

func countResetTokens(t *testing.T, f *fixture) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM password_reset_tokens").Scan(&n))
	return n
}

func TestResetRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.CreateAccount(ctx, "frank@example.com", "oldpass", "Frank")
	require.NoError(t, err)

	require.NoError(t, f.reset.RequestReset(ctx, "FRANK@example.com"))
	sent := f.notifier.last(t)
	assert.Equal(t, "frank@example.com", sent.To)
	assert.Equal(t, "Frank", sent.Name)
	assert.True(t, strings.HasPrefix(sent.Link, "http://front.test/reset-password?token="))

	token := tokenFromLink(t, sent.Link)
	require.NoError(t, f.reset.CompleteReset(ctx, token, "newpass"))

	_, err = f.credentials.VerifyCredentials(ctx, "frank@example.com", "oldpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.credentials.VerifyCredentials(ctx, "frank@example.com", "newpass")
	assert.NoError(t, err)

	// second use of the same token
	err = f.reset.CompleteReset(ctx, token, "another")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	assert.Zero(t, countResetTokens(t, f))
}

func TestResetTokenStoredHashed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.CreateAccount(ctx, "gina@example.com", "oldpass", "Gina")
	require.NoError(t, err)
	require.NoError(t, f.reset.RequestReset(ctx, "gina@example.com"))
	token := tokenFromLink(t, f.notifier.last(t).Link)

	var stored string
	require.NoError(t, f.db.QueryRowContext(ctx, "SELECT token_hash FROM password_reset_tokens").Scan(&stored))
	assert.NotEqual(t, token, stored)
}

func TestResetTokenExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.CreateAccount(ctx, "hank@example.com", "oldpass", "Hank")
	require.NoError(t, err)
	require.NoError(t, f.reset.RequestReset(ctx, "hank@example.com"))
	token := tokenFromLink(t, f.notifier.last(t).Link)

	f.clock.Advance(time.Hour + time.Second)

	err = f.reset.CompleteReset(ctx, token, "newpass")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = f.credentials.VerifyCredentials(ctx, "hank@example.com", "oldpass")
	assert.NoError(t, err, "expired token must not change the password")

	n, err := f.reset.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestResetMultipleOutstandingTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.CreateAccount(ctx, "ivy@example.com", "oldpass", "Ivy")
	require.NoError(t, err)

	require.NoError(t, f.reset.RequestReset(ctx, "ivy@example.com"))
	first := tokenFromLink(t, f.notifier.last(t).Link)
	require.NoError(t, f.reset.RequestReset(ctx, "ivy@example.com"))
	second := tokenFromLink(t, f.notifier.last(t).Link)
	assert.NotEqual(t, first, second)

	require.NoError(t, f.reset.CompleteReset(ctx, first, "newpass1"))
	require.NoError(t, f.reset.CompleteReset(ctx, second, "newpass2"))

	_, err = f.credentials.VerifyCredentials(ctx, "ivy@example.com", "newpass2")
	assert.NoError(t, err)
}

func TestResetWeakPasswordChecksFirst(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.reset.CompleteReset(context.Background(), "", "12345"), ErrWeakPassword)
	assert.ErrorIs(t, f.reset.CompleteReset(context.Background(), "whatever", ""), ErrWeakPassword)
	assert.ErrorIs(t, f.reset.CompleteReset(context.Background(), "", "123456"), ErrInvalidOrExpiredToken)
	assert.ErrorIs(t, f.reset.CompleteReset(context.Background(), "unknown-token", "123456"), ErrInvalidOrExpiredToken)
}

func TestRequestResetSilentForUnknownAndFederated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.linker.Link(ctx, oauth.Profile{Provider: "facebook", ID: "fb-1", Email: "fed@example.com", Name: "Fed"})
	require.NoError(t, err)

	require.NoError(t, f.reset.RequestReset(ctx, "nobody@example.com"))
	require.NoError(t, f.reset.RequestReset(ctx, "fed@example.com"))

	assert.Empty(t, f.notifier.sent)
	assert.Zero(t, countResetTokens(t, f))
}

func TestRequestResetRequiresEmail(t *testing.T) {
	f := newFixture(t)

	err := f.reset.RequestReset(context.Background(), "  ")
	var ve validation.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestRequestResetNotifierFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.CreateAccount(ctx, "jack@example.com", "oldpass", "Jack")
	require.NoError(t, err)

	f.notifier.err = errors.New("smtp down")
	err = f.reset.RequestReset(ctx, "jack@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestRequestResetWithoutNotifierLogsLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.CreateAccount(ctx, "kim@example.com", "oldpass", "Kim")
	require.NoError(t, err)

	svc := NewResetService(f.db, f.users, repository.NewResetTokenRepository(f.db), f.credentials, nil,
		ResetConfig{FrontendURL: "http://front.test"}, f.reset.log)

	require.NoError(t, svc.RequestReset(ctx, "kim@example.com"))
	logs := f.logs.String()
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "http://front.test/reset-password?token=")
}

func TestCompleteResetConcurrentUseSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.CreateAccount(ctx, "lee@example.com", "oldpass", "Lee")
	require.NoError(t, err)
	require.NoError(t, f.reset.RequestReset(ctx, "lee@example.com"))
	token := tokenFromLink(t, f.notifier.last(t).Link)

	const workers = 4
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.reset.CompleteReset(ctx, token, "newpass")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	}
	assert.Equal(t, 1, succeeded)
}
