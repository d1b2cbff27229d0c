// SPDX-License-Identifier: MIT

package census

import (
	"errors"
	"testing"
	"time"
)

var errUpstreamDown = errors.New("upstream down")

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Hour)

	for i := 0; i < 2; i++ {
		_ = cb.Execute(func() error { return errUpstreamDown })
		if cb.State() != StateClosed {
			t.Fatalf("breaker opened after %d failures, threshold is 3", i+1)
		}
	}

	_ = cb.Execute(func() error { return errUpstreamDown })
	if cb.State() != StateOpen {
		t.Fatal("breaker should be open after reaching threshold")
	}

	if err := cb.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	_ = cb.Execute(func() error { return errUpstreamDown })
	if cb.State() != StateOpen {
		t.Fatal("breaker should open after first failure (threshold 1)")
	}

	time.Sleep(20 * time.Millisecond)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("half-open probe should pass: %v", err)
	}
	if cb.State() != StateClosed {
		t.Fatal("breaker should close after successful probe")
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	_ = cb.Execute(func() error { return errUpstreamDown })
	time.Sleep(20 * time.Millisecond)

	_ = cb.Execute(func() error { return errUpstreamDown })
	if cb.State() != StateOpen {
		t.Fatal("failed half-open probe should reopen the breaker")
	}
}

func TestCircuitBreakerSuccessResetsCounter(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Hour)

	_ = cb.Execute(func() error { return errUpstreamDown })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errUpstreamDown })

	if cb.State() != StateClosed {
		t.Fatal("a success in between should reset the failure counter")
	}
}
