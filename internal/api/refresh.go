// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"

	"github.com/pooja61096/uscensus/internal/cache"
	"github.com/pooja61096/uscensus/internal/config"
	"github.com/pooja61096/uscensus/internal/jobs"
	"github.com/pooja61096/uscensus/internal/log"
)

type statusResponse struct {
	Version        string       `json:"version,omitempty"`
	CircuitBreaker string       `json:"circuit_breaker"`
	Targets        int          `json:"targets"`
	Snapshots      int          `json:"snapshots"`
	RefreshRunning bool         `json:"refresh_running"`
	Cache          cache.Stats  `json:"cache"`
	LastRefresh    *jobs.Status `json:"last_refresh,omitempty"`
}

// handleStatus reports gateway state: breaker, cache counters and the
// outcome of the most recent refresh run.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Version:        s.version,
		CircuitBreaker: s.client.BreakerState().String(),
		RefreshRunning: s.refreshing.Load(),
		Cache:          s.cache.Stats(),
	}
	if s.targets != nil {
		resp.Targets = len(s.targets.Current())
	}
	resp.Snapshots = s.snapshotCount()

	s.mu.RLock()
	if !s.lastStatus.LastRun.IsZero() {
		last := s.lastStatus
		resp.LastRefresh = &last
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

// snapshotCount sums the stored snapshots across the datasets of the
// configured targets.
func (s *Server) snapshotCount() int {
	if s.store == nil || s.targets == nil {
		return 0
	}
	seen := make(map[string]struct{})
	count := 0
	for _, t := range s.targets.Current() {
		if _, done := seen[t.Dataset]; done {
			continue
		}
		seen[t.Dataset] = struct{}{}
		keys, err := s.store.List(t.Dataset)
		if err != nil {
			continue
		}
		count += len(keys)
	}
	return count
}

// handleRefresh runs a snapshot refresh. Only one refresh runs at a
// time; concurrent requests get 409 instead of queueing.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	if !s.refreshing.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, errorBody{Error: "refresh already running"})
		return
	}
	defer s.refreshing.Store(false)

	status, err := s.Refresh(r.Context())
	if err != nil {
		logger.Warn().Err(err).Str(log.FieldEvent, "api.refresh_failed").Msg("refresh finished with failures")
	}

	// Partial success still produced fresh snapshots, so only a run
	// with nothing to show turns into a gateway error.
	code := http.StatusOK
	if err != nil && status.Rows == 0 {
		code = http.StatusBadGateway
	}
	writeJSON(w, code, status)
}

// Refresh runs the snapshot job against the current target set and
// records its status for /api/v1/status.
func (s *Server) Refresh(ctx context.Context) (jobs.Status, error) {
	var targets []config.Target
	if s.targets != nil {
		targets = s.targets.Current()
	}

	status, err := jobs.Refresh(ctx, jobs.Config{
		DataDir:     s.dataDir,
		Targets:     targets,
		Client:      s.client,
		Store:       s.store,
		Concurrency: s.concurrency,
	})

	s.mu.Lock()
	s.lastStatus = status
	s.mu.Unlock()

	return status, err
}
