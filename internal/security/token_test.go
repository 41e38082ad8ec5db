package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{Secret: "short"})
	assert.ErrorIs(t, err, ErrSecretTooShort)
}

func TestIssueAndVerify(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: testSecret})
	require.NoError(t, err)

	token, err := svc.Issue(42)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
}

func TestTokenWithoutTTLHasNoExpiry(t *testing.T) {
	issued := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer, err := NewTokenService(TokenConfig{Secret: testSecret, Now: func() time.Time { return issued }})
	require.NoError(t, err)

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	later, err := NewTokenService(TokenConfig{Secret: testSecret, Now: func() time.Time { return issued.AddDate(10, 0, 0) }})
	require.NoError(t, err)

	userID, err := later.Verify(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, userID)
}

func TestTokenExpiry(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	svc, err := NewTokenService(TokenConfig{Secret: testSecret, TTL: time.Hour, Now: clock})
	require.NoError(t, err)

	token, err := svc.Issue(9)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejects(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{Secret: testSecret})
	require.NoError(t, err)
	other, err := NewTokenService(TokenConfig{Secret: "another-secret-0123456789"})
	require.NoError(t, err)

	good, err := svc.Issue(1)
	require.NoError(t, err)
	foreign, err := other.Issue(1)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tamperedClaims, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 2}).SignedString([]byte("x"))
	require.NoError(t, err)
	tampered := parts[0] + "." + strings.Split(tamperedClaims, ".")[1] + "." + parts[2]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	zeroUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"other secret", foreign},
		{"tampered payload", tampered},
		{"alg none", none},
		{"no user", zeroUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
