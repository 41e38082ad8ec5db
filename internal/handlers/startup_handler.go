package handlers

import (
	"net/http"
	"sync"
)

// Startup steps reported by the health endpoint while the server initializes.
const (
	StepDatabase   = "Database connection"
	StepMigrations = "Running migrations"
	StepServices   = "Initializing services"
)

// StartupStatus tracks the initialization progress
type StartupStatus struct {
	mu       sync.RWMutex
	ready    bool
	current  string
	steps    []string
	complete map[string]bool
}

func NewStartupStatus(steps ...string) *StartupStatus {
	return &StartupStatus{
		current:  "Initializing...",
		steps:    steps,
		complete: make(map[string]bool, len(steps)),
	}
}

// SetCurrentStep updates the current initialization step
func (s *StartupStatus) SetCurrentStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = step
}

// CompleteStep marks a step as completed
func (s *StartupStatus) CompleteStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complete[step] = true
}

// MarkReady marks the server as fully initialized
func (s *StartupStatus) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.current = "Server ready"
}

func (s *StartupStatus) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *StartupStatus) progress() int {
	if s.ready || len(s.steps) == 0 {
		return 100
	}
	completed := 0
	for _, step := range s.steps {
		if s.complete[step] {
			completed++
		}
	}
	return completed * 100 / len(s.steps)
}

type healthResponse struct {
	Status   string `json:"status"`
	Current  string `json:"current,omitempty"`
	Progress int    `json:"progress,omitempty"`
}

// Health answers {"status":"ok"} once the server is ready and 503 with the
// current startup step before that.
func (s *StartupStatus) Health(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready, current, progress := s.ready, s.current, s.progress()
	s.mu.RUnlock()

	if ready {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, healthResponse{
		Status:   "starting",
		Current:  current,
		Progress: progress,
	})
}
