package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"betledger/internal/oauth"
	"betledger/internal/repository"
	"betledger/internal/security"
	"betledger/internal/service"
	"betledger/internal/testutil"
)

type fakeNotifier struct {
	mu    sync.Mutex
	links []string
	err   error
}

func (f *fakeNotifier) SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.links = append(f.links, resetLink)
	return nil
}

type fakeProvider struct {
	name    string
	profile oauth.Profile
	err     error
}

func (p *fakeProvider) Name() string  { return p.name }
func (p *fakeProvider) Label() string { return oauth.Label(p.name) }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://idp.test/authorize?state=" + state
}

func (p *fakeProvider) Exchange(ctx context.Context, code string) (oauth.Profile, error) {
	if p.err != nil {
		return oauth.Profile{}, p.err
	}
	if code != "good-code" {
		return oauth.Profile{}, errors.New("bad code")
	}
	return p.profile, nil
}

type testServer struct {
	handler  http.Handler
	notifier *fakeNotifier
	provider *fakeProvider
	startup  *StartupStatus
}

const testFrontendURL = "http://front.test"

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewTestDB(t)
	logger := testutil.DiscardLogger()

	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	credentials := service.NewCredentialStore(users)

	tokens, err := security.NewTokenService(security.TokenConfig{Secret: "handler-test-secret-123"})
	require.NoError(t, err)

	notifier := &fakeNotifier{}
	provider := &fakeProvider{
		name:    "google",
		profile: oauth.Profile{Provider: "google", ID: "g-100", Email: "fed@example.com", Name: "Fed"},
	}

	authService := service.NewAuthService(credentials, users, tokens, logger)
	resetService := service.NewResetService(db, users, repository.NewResetTokenRepository(db), credentials, notifier,
		service.ResetConfig{FrontendURL: testFrontendURL}, logger)
	linker := service.NewOAuthLinker(users, logger)
	ledger := service.NewLedgerService(groups, repository.NewGameRepository(db), users, service.NewMembershipGuard(groups))

	startup := NewStartupStatus(StepDatabase)
	startup.MarkReady()

	router := Router{
		Auth:       NewAuthHandler(authService, resetService, linker, oauth.NewRegistry(provider), testFrontendURL, logger),
		Ledger:     NewLedgerHandler(ledger, logger),
		Middleware: NewMiddleware(authService, logger),
		Startup:    startup,
		Logger:     logger,
	}

	return &testServer{
		handler:  router.Handler(),
		notifier: notifier,
		provider: provider,
		startup:  startup,
	}
}

// do sends a JSON request, authenticated when token is not empty
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
}

func (s *testServer) signup(t *testing.T, email, name string) authBody {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": "secret1", "name": name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body authBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[errorResponse](t, rec).Error
}
