// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pooja61096/uscensus/internal/census"
	"github.com/pooja61096/uscensus/internal/config"
	"github.com/pooja61096/uscensus/internal/export"
	"github.com/pooja61096/uscensus/internal/jobs"
	"github.com/pooja61096/uscensus/internal/log"
	"github.com/pooja61096/uscensus/internal/metrics"
)

// dataset builds a GET handler for one census dataset. Only the listed
// query parameters are forwarded; everything else a client sends is
// ignored. Validation happens in the client layer so the handler stays
// a thin cache-then-fetch shim.
func (s *Server) dataset(name string, keys ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string, len(keys))
		for _, k := range keys {
			if v := r.URL.Query().Get(k); v != "" {
				params[k] = v
			}
		}
		s.serveTable(w, r, config.Target{Dataset: name, Params: params})
	}
}

// handleEcon handles /econ/{subset}: a single year or a from/to month
// range of economic indicators.
func (s *Server) handleEcon(w http.ResponseWriter, r *http.Request) {
	params := map[string]string{"subset": chi.URLParam(r, "subset")}
	for _, k := range []string{"year", "from", "to"} {
		if v := r.URL.Query().Get(k); v != "" {
			params[k] = v
		}
	}
	s.serveTable(w, r, config.Target{Dataset: census.DatasetEcon, Params: params})
}

func (s *Server) serveTable(w http.ResponseWriter, r *http.Request, target config.Target) {
	logger := log.WithComponentFromContext(r.Context(), "api")
	key := "api:" + export.StableName(target.Dataset, target.Params)

	if raw, ok := s.cache.Get(key); ok {
		metrics.RecordCacheHit()
		s.writeTableBytes(w, r, raw)
		return
	}
	metrics.RecordCacheMiss()

	table, err := jobs.Fetch(r.Context(), s.client, target)
	if err != nil {
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "api.fetch_failed").
			Str(log.FieldDataset, target.Dataset).
			Msg("table fetch failed")
		// A bad request stays a bad request; everything else may be
		// served stale from the snapshot store.
		if !errors.Is(err, census.ErrInvalidInput) {
			if raw, fetchedAt, name, ok := s.snapshotFallback(target); ok {
				logger.Info().
					Str(log.FieldEvent, "api.snapshot_fallback").
					Str(log.FieldDataset, target.Dataset).
					Str("target", name).
					Time("fetched_at", fetchedAt).
					Msg("serving stored snapshot for failed fetch")
				w.Header().Set("X-Snapshot", name)
				w.Header().Set("X-Snapshot-Age", strconv.FormatInt(int64(time.Since(fetchedAt).Seconds()), 10))
				s.writeTableBytes(w, r, raw)
				return
			}
		}
		writeError(w, err)
		return
	}

	raw, err := json.Marshal(table)
	if err != nil {
		writeError(w, err)
		return
	}
	s.cache.Set(key, raw, s.cacheTTL)
	s.writeTableBytes(w, r, raw)
}

// snapshotFallback looks for a stored snapshot matching the request.
// Only configured targets are snapshotted, so the request's dataset and
// parameters must line up with one of them.
func (s *Server) snapshotFallback(target config.Target) ([]byte, time.Time, string, bool) {
	if s.store == nil || s.targets == nil {
		return nil, time.Time{}, "", false
	}

	want := export.StableName(target.Dataset, target.Params)
	for _, t := range s.targets.Current() {
		if t.Dataset != target.Dataset || export.StableName(t.Dataset, t.Params) != want {
			continue
		}
		table, fetchedAt, err := s.store.Get(t.Dataset, t.Name)
		if err != nil {
			return nil, time.Time{}, "", false
		}
		raw, err := json.Marshal(table)
		if err != nil {
			return nil, time.Time{}, "", false
		}
		return raw, fetchedAt, t.Name, true
	}
	return nil, time.Time{}, "", false
}

// writeTableBytes renders the cached wire-format table either verbatim
// as JSON or converted to CSV when ?format=csv is requested.
func (s *Server) writeTableBytes(w http.ResponseWriter, r *http.Request, raw []byte) {
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	case "csv":
		var table census.Table
		if err := json.Unmarshal(raw, &table); err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		_ = table.WriteCSV(w)
	default:
		writeError(w, fmt.Errorf("%w: unsupported format %q", census.ErrInvalidInput, format))
	}
}
