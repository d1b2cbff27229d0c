// SPDX-License-Identifier: MIT

// Package config loads gateway configuration with the precedence
// ENV > defaults, plus a YAML snapshot-target list.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Cache backend selectors.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheOff    = "off"
)

// AppConfig holds the runtime configuration of the gateway.
type AppConfig struct {
	// Upstream Census API
	BaseURL       string // Census API base URL
	APIKey        string // data.census.gov API key (optional for some datasets)
	Timeout       time.Duration
	UpstreamRate  float64 // client-side requests per second towards api.census.gov
	UpstreamBurst int

	// Circuit breaker
	BreakerThreshold int
	BreakerReset     time.Duration

	// Serving
	ListenAddr  string
	MetricsAddr string // empty disables the metrics listener
	ReadyStrict bool
	RateLimit   int // per-client API requests per minute; 0 disables

	// Cache
	CacheBackend  string // memory | redis | off
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Snapshots
	DataDir        string
	TargetsPath    string // YAML snapshot target list (optional)
	InitialRefresh bool
	SnapshotTTL    time.Duration // retention of stored tables

	// Logging
	LogLevel   string
	LogService string
}

// FromEnv builds an AppConfig from USCENSUS_* environment variables,
// falling back to defaults.
func FromEnv() AppConfig {
	return AppConfig{
		BaseURL:       ParseString("USCENSUS_API_BASE", "https://api.census.gov"),
		APIKey:        ParseString("USCENSUS_API_KEY", ""),
		Timeout:       ParseDuration("USCENSUS_TIMEOUT", 30*time.Second),
		UpstreamRate:  ParseFloat("USCENSUS_UPSTREAM_RATE", 5),
		UpstreamBurst: ParseInt("USCENSUS_UPSTREAM_BURST", 10),

		BreakerThreshold: ParseInt("USCENSUS_BREAKER_THRESHOLD", 5),
		BreakerReset:     ParseDuration("USCENSUS_BREAKER_RESET", 30*time.Second),

		ListenAddr:  ParseString("USCENSUS_LISTEN", ":8080"),
		MetricsAddr: ParseString("USCENSUS_METRICS_ADDR", ""),
		ReadyStrict: ParseBool("USCENSUS_READY_STRICT", false),
		RateLimit:   ParseInt("USCENSUS_RATE_LIMIT", 120),

		CacheBackend:  ParseString("USCENSUS_CACHE", CacheMemory),
		CacheTTL:      ParseDuration("USCENSUS_CACHE_TTL", 15*time.Minute),
		RedisAddr:     ParseString("USCENSUS_REDIS_ADDR", "localhost:6379"),
		RedisPassword: ParseString("USCENSUS_REDIS_PASSWORD", ""),
		RedisDB:       ParseInt("USCENSUS_REDIS_DB", 0),

		DataDir:        ParseString("USCENSUS_DATA", "/tmp/uscensus"),
		TargetsPath:    ParseString("USCENSUS_TARGETS", ""),
		InitialRefresh: ParseBool("USCENSUS_INITIAL_REFRESH", true),
		SnapshotTTL:    ParseDuration("USCENSUS_SNAPSHOT_TTL", 7*24*time.Hour),

		LogLevel:   ParseString("USCENSUS_LOG_LEVEL", "info"),
		LogService: ParseString("LOG_SERVICE", "uscensus"),
	}
}

// Validate checks the configuration for values that would fail at runtime.
func (c AppConfig) Validate() error {
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", base)
	}
	switch c.CacheBackend {
	case CacheMemory, CacheRedis, CacheOff:
	default:
		return fmt.Errorf("unknown cache backend %q (want %s, %s or %s)",
			c.CacheBackend, CacheMemory, CacheRedis, CacheOff)
	}
	if c.CacheBackend == CacheRedis && strings.TrimSpace(c.RedisAddr) == "" {
		return fmt.Errorf("redis cache selected but redis address is empty")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative (got %d)", c.RateLimit)
	}
	if c.UpstreamRate <= 0 {
		return fmt.Errorf("upstream rate must be positive (got %v)", c.UpstreamRate)
	}
	if c.BreakerThreshold < 1 {
		return fmt.Errorf("breaker threshold must be >= 1 (got %d)", c.BreakerThreshold)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	return nil
}
