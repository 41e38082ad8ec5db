package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logging(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/brew", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "path=/api/brew")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "ip=203.0.113.9")
}

func TestUserIDFromContextOutsideAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)
}

func TestHealthReportsStartup(t *testing.T) {
	status := NewStartupStatus(StepDatabase, StepMigrations)
	status.CompleteStep(StepDatabase)
	status.SetCurrentStep(StepMigrations)

	rec := httptest.NewRecorder()
	status.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"starting","current":"Running migrations","progress":50}`, rec.Body.String())

	status.MarkReady()
	rec = httptest.NewRecorder()
	status.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// stepWriter advances the startup status while the health body is written.
type stepWriter struct {
	*httptest.ResponseRecorder
	status *StartupStatus
}

func (w stepWriter) Write(b []byte) (int, error) {
	w.status.SetCurrentStep(StepServices)
	return w.ResponseRecorder.Write(b)
}

func TestHealthDoesNotHoldLockWhileWriting(t *testing.T) {
	status := NewStartupStatus(StepDatabase, StepServices)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		status.Health(stepWriter{ResponseRecorder: rec, status: status}, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("health handler blocked a concurrent step update")
	}
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"starting"`)
}

func TestUnknownAPIRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, MsgNotFound, errorMessage(t, rec))
}
