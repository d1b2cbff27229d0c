// SPDX-License-Identifier: MIT

// Command censusd runs the census data gateway: an HTTP API over the
// Census Bureau data API with caching, snapshot exports and probes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pooja61096/uscensus/internal/api"
	"github.com/pooja61096/uscensus/internal/cache"
	"github.com/pooja61096/uscensus/internal/census"
	"github.com/pooja61096/uscensus/internal/config"
	"github.com/pooja61096/uscensus/internal/health"
	uclog "github.com/pooja61096/uscensus/internal/log"
	"github.com/pooja61096/uscensus/internal/store"
	"github.com/pooja61096/uscensus/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	targetsPath := flag.String("targets", "", "path to the snapshot targets file (overrides USCENSUS_TARGETS)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Logging must be up before FromEnv, which logs every parsed key.
	uclog.Configure(uclog.Config{
		Level:   os.Getenv("USCENSUS_LOG_LEVEL"),
		Service: os.Getenv("LOG_SERVICE"),
		Version: version.Version,
	})
	logger := uclog.WithComponent("daemon")

	cfg := config.FromEnv()
	if strings.TrimSpace(*targetsPath) != "" {
		cfg.TargetsPath = strings.TrimSpace(*targetsPath)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().
			Err(err).
			Str(uclog.FieldEvent, "config.invalid").
			Msg("invalid configuration")
	}

	logger.Info().
		Str(uclog.FieldEvent, "startup").
		Str("version", version.Version).
		Str("addr", cfg.ListenAddr).
		Str(uclog.FieldBaseURL, cfg.BaseURL).
		Bool("api_key", cfg.APIKey != "").
		Str("cache", cfg.CacheBackend).
		Str("data_dir", cfg.DataDir).
		Msg("starting censusd")

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().Err(err).Str(uclog.FieldPath, cfg.DataDir).Msg("cannot create data directory")
	}

	client := census.New(census.Options{
		BaseURL:          cfg.BaseURL,
		Key:              cfg.APIKey,
		Timeout:          cfg.Timeout,
		Limiter:          rate.NewLimiter(rate.Limit(cfg.UpstreamRate), cfg.UpstreamBurst),
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerReset:     cfg.BreakerReset,
	})

	tableCache, redisCache := buildCache(cfg, logger)
	if redisCache != nil {
		defer redisCache.Close()
	}

	snapshots, err := store.Open(filepath.Join(cfg.DataDir, "snapshots"), cfg.SnapshotTTL)
	if err != nil {
		logger.Fatal().Err(err).Str(uclog.FieldEvent, "store.open_failed").Msg("cannot open snapshot store")
	}
	defer snapshots.Close()

	targets, err := config.NewTargetHolder(cfg.TargetsPath)
	if err != nil {
		logger.Fatal().Err(err).Str(uclog.FieldEvent, "targets.load_failed").Msg("cannot load snapshot targets")
	}
	if err := targets.StartWatcher(ctx); err != nil {
		logger.Fatal().Err(err).Str(uclog.FieldEvent, "targets.watch_failed").Msg("cannot watch snapshot targets")
	}
	defer targets.Stop()

	manager := health.NewManager(version.Version)
	manager.RegisterChecker(health.NewUpstreamChecker(client, cfg.ReadyStrict))
	manager.RegisterChecker(health.NewDirChecker("data_dir", cfg.DataDir))
	if redisCache != nil {
		manager.RegisterChecker(health.NewPingChecker("redis", redisCache))
	}

	server := api.New(api.Options{
		Client:    client,
		Cache:     tableCache,
		Store:     snapshots,
		Targets:   targets,
		Health:    manager,
		DataDir:   cfg.DataDir,
		CacheTTL:  cfg.CacheTTL,
		RateLimit: cfg.RateLimit,
		Version:   version.Version,
	})

	if cfg.InitialRefresh && len(targets.Current()) > 0 {
		if _, err := server.Refresh(ctx); err != nil {
			logger.Warn().Err(err).
				Str(uclog.FieldEvent, "refresh.initial_failed").
				Msg("initial snapshot refresh failed, serving anyway")
		}
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listener started")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics listener failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("api listener started")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("api listener failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Str(uclog.FieldEvent, "shutdown").Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api shutdown failed")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics shutdown failed")
		}
	}
}

// buildCache selects the cache backend. A failing redis connection is
// fatal: an operator who configured redis wants to know, not silently
// run uncached.
func buildCache(cfg config.AppConfig, logger zerolog.Logger) (cache.Cache, *cache.RedisCache) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, uclog.WithComponent("cache"))
		if err != nil {
			logger.Fatal().Err(err).Str(uclog.FieldEvent, "cache.redis_failed").Msg("cannot connect to redis")
		}
		return rc, rc
	case config.CacheOff:
		return cache.NewNoOpCache(), nil
	default:
		return cache.NewMemoryCache(time.Minute), nil
	}
}
