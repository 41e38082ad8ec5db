package security

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"lowercase scheme", "bearer abc", "abc", nil},
		{"missing", "", "", ErrMissingAuthHeader},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", ErrInvalidAuthHeader},
		{"no token", "Bearer ", "", ErrInvalidAuthHeader},
		{"scheme only", "Bearer", "", ErrInvalidAuthHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/auth/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, err := BearerToken(r)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSecureRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	assert.False(t, IsSecureRequest(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, IsSecureRequest(r))

	tlsReq := httptest.NewRequest("GET", "https://example.com/", nil)
	assert.True(t, IsSecureRequest(tlsReq))
}

func TestTempCookies(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/", nil)

	c := CreateTempCookie(r, "oauth_state", "xyz", 10*time.Minute)
	assert.Equal(t, 600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)

	d := CreateDeleteCookie(r, "oauth_state")
	assert.Equal(t, -1, d.MaxAge)
	assert.Empty(t, d.Value)
}

func TestGenerateState(t *testing.T) {
	assert.NotEqual(t, GenerateState(), GenerateState())
}
