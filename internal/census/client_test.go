// SPDX-License-Identifier: MIT

package census

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestClientAppendsKey(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Key: "test-key"})
	_, err := c.DetailedTables(context.Background(), 2019, "B01001", SpanOneYear)
	require.NoError(t, err)

	q := srv.LastRequest().Query()
	assert.Equal(t, "test-key", q.Get("key"))
	assert.Equal(t, "NAME,group(B01001)", q.Get("get"))
	assert.Equal(t, "us:1", q.Get("for"))
}

func TestClientOmitsEmptyKey(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.DetailedTables(context.Background(), 2019, "B01001", SpanOneYear)
	require.NoError(t, err)

	_, hasKey := srv.LastRequest().Query()["key"]
	assert.False(t, hasKey, "keyless client must not send a key parameter")
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrForbidden},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusInternalServerError, ErrUpstreamError},
		{http.StatusBadGateway, ErrUpstreamError},
		{http.StatusTeapot, ErrBadResponse},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			defer srv.Close()

			c := New(Options{BaseURL: srv.URL})
			_, err := c.HealthInsurance(context.Background(), 2018, "", "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.sentinel), "status %d: got %v", tc.status, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, DatasetHealthInsurance, apiErr.Dataset)
		})
	}
}

func TestClientBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.HealthInsurance(context.Background(), 2018, "", "")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.HealthInsurance(context.Background(), 2018, "", "")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClientUnreachable(t *testing.T) {
	// Reserved TEST-NET address, nothing listens there.
	c := New(Options{BaseURL: "http://192.0.2.1:9", Timeout: 100 * time.Millisecond})
	_, err := c.HealthInsurance(context.Background(), 2018, "", "")
	require.Error(t, err)
	ok := errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrTimeout)
	assert.True(t, ok, "got %v", err)
}

func TestClientBreakerOpensAfterFailures(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	srv.FailNext("/data/timeseries/healthins/sahie", 10, http.StatusInternalServerError)

	c := New(Options{BaseURL: srv.URL, BreakerThreshold: 2, BreakerReset: time.Hour})

	for i := 0; i < 2; i++ {
		_, err := c.HealthInsurance(context.Background(), 2018, "", "")
		assert.ErrorIs(t, err, ErrUpstreamError)
	}
	require.Equal(t, StateOpen, c.BreakerState())

	// Open breaker short-circuits before the transport, and is
	// distinguishable from a plain transport failure.
	before := len(srv.Requests())
	_, err := c.HealthInsurance(context.Background(), 2018, "", "")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.NotErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, before, len(srv.Requests()), "no request must reach upstream while open")
}

func TestClientBreakerRecovers(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	srv.FailNext("/data/timeseries/healthins/sahie", 2, http.StatusInternalServerError)

	c := New(Options{BaseURL: srv.URL, BreakerThreshold: 2, BreakerReset: 10 * time.Millisecond})

	for i := 0; i < 2; i++ {
		_, _ = c.HealthInsurance(context.Background(), 2018, "", "")
	}
	require.Equal(t, StateOpen, c.BreakerState())

	time.Sleep(20 * time.Millisecond)

	_, err := c.HealthInsurance(context.Background(), 2018, "", "")
	require.NoError(t, err)
	assert.Equal(t, StateClosed, c.BreakerState())
}

func TestClientLimiterHonoursContext(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()

	// One token, no refill worth waiting for.
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	c := New(Options{BaseURL: srv.URL, Limiter: limiter})

	_, err := c.HealthInsurance(context.Background(), 2018, "", "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.HealthInsurance(ctx, 2018, "", "")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClientPing(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	assert.NoError(t, c.Ping(context.Background()))
}
