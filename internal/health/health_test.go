// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name   string
	result CheckResult
}

func (s stubChecker) Name() string { return s.name }

func (s stubChecker) Check(context.Context) CheckResult { return s.result }

func TestServeHealthAlways200(t *testing.T) {
	m := NewManager("1.2.3")
	m.RegisterChecker(stubChecker{name: "store", result: CheckResult{Status: StatusUnhealthy, Error: "down"}})

	rec := httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest("GET", "/healthz", nil))

	require.Equal(t, 200, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Empty(t, resp.Checks, "non-verbose liveness skips component checks")
}

func TestServeHealthVerbose(t *testing.T) {
	m := NewManager("dev")
	m.RegisterChecker(stubChecker{name: "cache", result: CheckResult{Status: StatusDegraded, Message: "slow"}})

	rec := httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest("GET", "/healthz?verbose=true", nil))

	require.Equal(t, 200, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusDegraded, resp.Status)
	require.Contains(t, resp.Checks, "cache")
	assert.Equal(t, "slow", resp.Checks["cache"].Message)
}

func TestServeReady(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		wantCode int
		want     Status
	}{
		{
			name:     "no checkers is ready",
			wantCode: 200,
			want:     StatusHealthy,
		},
		{
			name: "degraded stays ready",
			checkers: []Checker{
				stubChecker{name: "upstream", result: CheckResult{Status: StatusDegraded}},
			},
			wantCode: 200,
			want:     StatusDegraded,
		},
		{
			name: "unhealthy flips 503",
			checkers: []Checker{
				stubChecker{name: "upstream", result: CheckResult{Status: StatusHealthy}},
				stubChecker{name: "store", result: CheckResult{Status: StatusUnhealthy, Error: "closed"}},
			},
			wantCode: 503,
			want:     StatusUnhealthy,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewManager("dev")
			for _, c := range tc.checkers {
				m.RegisterChecker(c)
			}

			rec := httptest.NewRecorder()
			m.ServeReady(rec, httptest.NewRequest("GET", "/readyz", nil))

			require.Equal(t, tc.wantCode, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.want, resp.Status)
		})
	}
}

type stubPinger struct{ err error }

func (s stubPinger) HealthCheck(context.Context) error { return s.err }

func TestPingChecker(t *testing.T) {
	ok := NewPingChecker("redis", stubPinger{})
	assert.Equal(t, StatusHealthy, ok.Check(context.Background()).Status)

	bad := NewPingChecker("redis", stubPinger{err: errors.New("connection refused")})
	result := bad.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)
	assert.Contains(t, result.Error, "connection refused")
}

func TestDirChecker(t *testing.T) {
	dir := t.TempDir()

	result := NewDirChecker("data", dir).Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)

	result = NewDirChecker("data", filepath.Join(dir, "missing")).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	result = NewDirChecker("data", file).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)
}
