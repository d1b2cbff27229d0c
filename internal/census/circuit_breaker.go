// SPDX-License-Identifier: MIT

package census

import (
	"errors"
	"sync"
	"time"

	"github.com/pooja61096/uscensus/internal/metrics"
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // normal operation, requests allowed
	StateOpen                  // circuit open, requests blocked
	StateHalfOpen              // testing if the upstream recovered
)

func (s State) String() string { return stateLabel(s) }

const breakerComponent = "census"

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker blocks upstream calls after consecutive failures so a dead
// or rate-limited api.census.gov does not absorb every request's timeout.
type CircuitBreaker struct {
	mu               sync.RWMutex
	state            State
	failures         int
	failureThreshold int
	resetTimeout     time.Duration
	lastFailure      time.Time
}

// NewCircuitBreaker creates a circuit breaker that opens after threshold
// consecutive failures and retries after resetTimeout.
func NewCircuitBreaker(threshold int, resetTimeout time.Duration) *CircuitBreaker {
	cb := &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: threshold,
		resetTimeout:     resetTimeout,
	}
	metrics.SetCircuitBreakerState(breakerComponent, stateLabel(cb.state))
	return cb
}

// Execute runs fn if the circuit is closed or half-open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allowRequest() {
		return ErrCircuitOpen
	}

	if err := fn(); err != nil {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()

	switch cb.state {
	case StateClosed:
		cb.mu.Unlock()
		return true
	case StateOpen:
		if time.Since(cb.lastFailure) > cb.resetTimeout {
			cb.state = StateHalfOpen
			cb.mu.Unlock()
			metrics.SetCircuitBreakerState(breakerComponent, stateLabel(StateHalfOpen))
			return true
		}
		cb.mu.Unlock()
		return false
	default:
		// Half-open: allow probes through until one settles the state.
		cb.mu.Unlock()
		return true
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	prev := cb.state

	cb.failures++
	cb.lastFailure = time.Now()

	if cb.state == StateHalfOpen || cb.failures >= cb.failureThreshold {
		cb.state = StateOpen
	}
	state := cb.state
	cb.mu.Unlock()

	if state != prev {
		metrics.SetCircuitBreakerState(breakerComponent, stateLabel(state))
		if state == StateOpen {
			metrics.RecordCircuitBreakerTrip(breakerComponent)
		}
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	prev := cb.state
	cb.failures = 0
	cb.state = StateClosed
	cb.mu.Unlock()

	if prev != StateClosed {
		metrics.SetCircuitBreakerState(breakerComponent, stateLabel(StateClosed))
	}
}

// State returns the current state (thread-safe).
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

func stateLabel(state State) string {
	switch state {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}
