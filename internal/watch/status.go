package watch

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/KamilPietrzak/blogbuild/internal/logfields"
)

const (
	healthHealthy   = "healthy"
	healthDegraded  = "degraded"
	healthUnhealthy = "unhealthy"
)

// status tracks rebuild outcomes for the health endpoint. Rebuilds and
// scrapes run on different goroutines.
type status struct {
	mu          sync.RWMutex
	started     time.Time
	builds      int
	goodBuild   bool
	lastErr     error
	lastOutcome string
	lastBuild   time.Time
}

func newStatus() *status {
	return &status{started: time.Now()}
}

func (s *status) recordSuccess(outcome string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds++
	s.goodBuild = true
	s.lastErr = nil
	s.lastOutcome = outcome
	s.lastBuild = time.Now()
}

func (s *status) recordFailure(outcome string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds++
	s.lastErr = err
	s.lastOutcome = outcome
	s.lastBuild = time.Now()
}

// healthResponse is the /healthz document.
type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      string    `json:"uptime"`
	Builds      int       `json:"builds"`
	LastOutcome string    `json:"last_outcome,omitempty"`
	LastBuild   time.Time `json:"last_build"`
	LastError   string    `json:"last_error,omitempty"`
}

// healthHandler reports healthy while the served tree comes from a good
// build. A failed rebuild over an earlier good build degrades; no good
// build at all is unhealthy and answers 503.
func (s *status) healthHandler(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	resp := healthResponse{
		Timestamp:   time.Now(),
		Uptime:      time.Since(s.started).String(),
		Builds:      s.builds,
		LastOutcome: s.lastOutcome,
		LastBuild:   s.lastBuild,
	}
	if s.lastErr != nil {
		resp.LastError = s.lastErr.Error()
	}
	switch {
	case s.lastErr == nil && s.goodBuild:
		resp.Status = healthHealthy
	case s.goodBuild:
		resp.Status = healthDegraded
	default:
		resp.Status = healthUnhealthy
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if resp.Status == healthUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode health response", logfields.Error(err))
	}
}
