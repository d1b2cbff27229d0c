// SPDX-License-Identifier: MIT

// Package census is a typed client for the US Census Bureau data API
// (api.census.gov). Every operation fetches one dataset and decodes the
// array-of-arrays wire format into a Table.
package census

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	xclog "github.com/pooja61096/uscensus/internal/log"
	"github.com/pooja61096/uscensus/internal/metrics"
)

// DefaultBaseURL is the public Census data API endpoint.
const DefaultBaseURL = "https://api.census.gov"

// Responses are bounded to keep a misbehaving upstream from exhausting memory.
const maxResponseBytes = 64 << 20

// Dataset names. They identify client operations in metrics, errors, cache
// keys and the snapshot target file.
const (
	DatasetACSDetailed     = "acs/detailed"
	DatasetACSSubject      = "acs/subject"
	DatasetACSComparison   = "acs/comparison"
	DatasetACSPopulation   = "acs/population"
	DatasetACSSupplemental = "acs/supplemental"
	DatasetASECompanies    = "ase/companies"
	DatasetASEBusinesses   = "ase/businesses"
	DatasetASMArea         = "asm/area"
	DatasetASMSeries       = "asm/series"
	DatasetNonemployer     = "nonemployer"
	DatasetCBP             = "cbp"
	DatasetEcon            = "econ"
	DatasetHealthInsurance = "health-insurance"
)

// Options configures a Client.
type Options struct {
	BaseURL string        // defaults to DefaultBaseURL
	Key     string        // API key; several datasets work without one
	Timeout time.Duration // per-request timeout, defaults to 30s

	// Limiter throttles outbound requests (the public API enforces a daily
	// quota). Nil disables client-side limiting.
	Limiter *rate.Limiter

	// BreakerThreshold enables a circuit breaker after that many consecutive
	// failures; zero disables the breaker.
	BreakerThreshold int
	BreakerReset     time.Duration
}

// Client talks to the Census data API.
type Client struct {
	base    string
	key     string
	http    *http.Client
	limiter *rate.Limiter
	breaker *CircuitBreaker
	logger  zerolog.Logger
}

// New creates a Client. The zero Options value yields a keyless client
// against the public API.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		base:    base,
		key:     opts.Key,
		http:    &http.Client{Timeout: timeout},
		limiter: opts.Limiter,
		logger:  xclog.WithComponent("census"),
	}
	if opts.BreakerThreshold > 0 {
		reset := opts.BreakerReset
		if reset <= 0 {
			reset = 30 * time.Second
		}
		c.breaker = NewCircuitBreaker(opts.BreakerThreshold, reset)
	}
	return c
}

// get performs one dataset request and decodes the response table.
func (c *Client) get(ctx context.Context, dataset, path string, query url.Values) (*Table, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		metrics.RecordRateLimitWait()
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Sentinel: ErrTimeout, Dataset: dataset, Err: err}
		}
	}

	if c.key != "" {
		query.Set("key", c.key)
	}
	reqURL := c.base + path + "?" + query.Encode()

	var table *Table
	call := func() error {
		var err error
		table, err = c.fetch(ctx, dataset, reqURL)
		return err
	}

	start := time.Now()
	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(call)
		if errors.Is(err, ErrCircuitOpen) {
			err = &APIError{Sentinel: ErrCircuitOpen, Dataset: dataset}
		}
	} else {
		err = call()
	}
	metrics.ObserveUpstreamRequest(dataset, time.Since(start), err)

	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("event", "upstream.request_failed").
			Str(xclog.FieldDataset, dataset).
			Msg("census API request failed")
		return nil, err
	}

	c.logger.Debug().
		Str("event", "upstream.request").
		Str(xclog.FieldDataset, dataset).
		Int("rows", table.Len()).
		Dur("duration", time.Since(start)).
		Msg("census API request completed")
	return table, nil
}

func (c *Client) fetch(ctx context.Context, dataset, reqURL string) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &APIError{Sentinel: ErrInvalidInput, Dataset: dataset, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		sentinel := ErrUpstreamUnavailable
		if isTimeout(err) {
			sentinel = ErrTimeout
		}
		return nil, &APIError{Sentinel: sentinel, Dataset: dataset, Err: err}
	}
	defer func() {
		_ = res.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, &APIError{Sentinel: ErrBadResponse, Dataset: dataset, Status: res.StatusCode, Err: err}
	}

	switch {
	case res.StatusCode == http.StatusOK:
		// decoded below
	case res.StatusCode == http.StatusNotFound:
		return nil, &APIError{Sentinel: ErrNotFound, Dataset: dataset, Status: res.StatusCode, Body: snippet(body)}
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return nil, &APIError{Sentinel: ErrForbidden, Dataset: dataset, Status: res.StatusCode, Body: snippet(body)}
	case res.StatusCode >= 500:
		return nil, &APIError{Sentinel: ErrUpstreamError, Dataset: dataset, Status: res.StatusCode, Body: snippet(body)}
	default:
		return nil, &APIError{Sentinel: ErrBadResponse, Dataset: dataset, Status: res.StatusCode, Body: snippet(body)}
	}

	table, err := ParseTable(body)
	if err != nil {
		return nil, &APIError{Sentinel: ErrBadResponse, Dataset: dataset, Status: res.StatusCode, Err: err}
	}
	return table, nil
}

// Ping probes upstream reachability for readiness checks. The datasets
// discovery document is small and needs no key.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/data.json", nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("census ping: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1<<20))
	if res.StatusCode >= 500 {
		return fmt.Errorf("census ping: upstream returned %d", res.StatusCode)
	}
	return nil
}

// BreakerState reports the circuit breaker state, or StateClosed when the
// breaker is disabled.
func (c *Client) BreakerState() State {
	if c.breaker == nil {
		return StateClosed
	}
	return c.breaker.State()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateYear(year int) error {
	if year < 1900 || year > 2100 {
		return invalidInput("year must be a full 4-digit year (got %d)", year)
	}
	return nil
}

func validateNonEmpty(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidInput("%s must not be empty", name)
	}
	return nil
}
