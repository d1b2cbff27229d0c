// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pooja61096/uscensus/internal/census"
)

// UpstreamChecker probes the Census API. With strict disabled it only
// inspects the circuit breaker, so readiness never depends on a live
// upstream round trip.
type UpstreamChecker struct {
	client *census.Client
	strict bool
}

func NewUpstreamChecker(client *census.Client, strict bool) *UpstreamChecker {
	return &UpstreamChecker{client: client, strict: strict}
}

func (c *UpstreamChecker) Name() string { return "upstream" }

func (c *UpstreamChecker) Check(ctx context.Context) CheckResult {
	if state := c.client.BreakerState(); state == census.StateOpen {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "circuit breaker open",
		}
	}

	if !c.strict {
		return CheckResult{Status: StatusHealthy, Message: "circuit breaker closed"}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.client.Ping(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "upstream reachable"}
}

// Pinger is satisfied by backends with a connectivity probe, e.g. the
// redis cache.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// PingChecker wraps a Pinger as a readiness check.
type PingChecker struct {
	name   string
	target Pinger
}

func NewPingChecker(name string, target Pinger) *PingChecker {
	return &PingChecker{name: name, target: target}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if err := c.target.HealthCheck(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}

// DirChecker verifies that the export directory exists and is writable.
type DirChecker struct {
	name string
	path string
}

func NewDirChecker(name, path string) *DirChecker {
	return &DirChecker{name: name, path: path}
}

func (c *DirChecker) Name() string { return c.name }

func (c *DirChecker) Check(_ context.Context) CheckResult {
	info, err := os.Stat(c.path)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  fmt.Sprintf("%s is not a directory", c.path),
		}
	}

	probe, err := os.CreateTemp(c.path, ".probe-*")
	if err != nil {
		return CheckResult{Status: StatusDegraded, Error: "directory not writable: " + err.Error()}
	}
	probe.Close()
	os.Remove(probe.Name())

	return CheckResult{Status: StatusHealthy, Message: c.path}
}
