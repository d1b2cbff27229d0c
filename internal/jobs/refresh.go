// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pooja61096/uscensus/internal/config"
	"github.com/pooja61096/uscensus/internal/export"
	"github.com/pooja61096/uscensus/internal/log"
	"github.com/pooja61096/uscensus/internal/metrics"
)

const defaultConcurrency = 4

// Refresh fetches every configured target, writes the CSV export and stores
// the snapshot. Targets are fetched concurrently; a failing target does not
// stop the run. The returned Status always reflects the full run, even when
// err is non-nil.
func Refresh(ctx context.Context, cfg Config) (Status, error) {
	jobID := uuid.NewString()
	ctx = log.ContextWithJobID(ctx, jobID)
	logger := log.WithComponentFromContext(ctx, "jobs")

	start := time.Now()
	status := Status{
		LastRun: start,
		Targets: len(cfg.Targets),
	}

	logger.Info().
		Str(log.FieldEvent, "refresh.start").
		Int("targets", len(cfg.Targets)).
		Msg("starting snapshot refresh")

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	var mu sync.Mutex
	failures := make(map[string]string)
	rows := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, target := range cfg.Targets {
		g.Go(func() error {
			n, err := refreshTarget(gctx, cfg, target)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[target.Name] = err.Error()
				metrics.RecordSnapshotError(target.Name)
				logger.Warn().
					Err(err).
					Str(log.FieldEvent, "refresh.target_failed").
					Str(log.FieldDataset, target.Dataset).
					Str("target", target.Name).
					Msg("target refresh failed")
				return nil
			}
			rows += n
			metrics.SetSnapshotRows(target.Name, n)
			return nil
		})
	}

	// Per-target errors are collected, not returned, so this only reports
	// context cancellation.
	runErr := g.Wait()

	status.Rows = rows
	status.Failed = len(failures)
	if len(failures) > 0 {
		status.Failures = failures
	}

	duration := time.Since(start)
	metrics.ObserveSnapshotDuration(duration)

	switch {
	case runErr != nil:
		status.Error = runErr.Error()
	case len(failures) > 0:
		status.Error = fmt.Sprintf("%d of %d targets failed", len(failures), len(cfg.Targets))
		runErr = fmt.Errorf("refresh: %s", status.Error)
	}

	if runErr != nil {
		logger.Error().
			Str(log.FieldEvent, "refresh.failed").
			Int("failed", status.Failed).
			Dur("duration", duration).
			Msg(status.Error)
		return status, runErr
	}

	logger.Info().
		Str(log.FieldEvent, "refresh.success").
		Int("targets", status.Targets).
		Int("rows", status.Rows).
		Dur("duration", duration).
		Msg("snapshot refresh complete")
	return status, nil
}

func refreshTarget(ctx context.Context, cfg Config, target config.Target) (int, error) {
	table, err := Fetch(ctx, cfg.Client, target)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", target.Name, err)
	}

	path, err := export.DataFilePath(cfg.DataDir, target.Name+".csv")
	if err != nil {
		return 0, err
	}
	if err := export.WriteCSV(ctx, path, table); err != nil {
		return 0, fmt.Errorf("export %s: %w", target.Name, err)
	}

	if cfg.Store != nil {
		if err := cfg.Store.Put(target.Dataset, target.Name, table); err != nil {
			return 0, fmt.Errorf("store %s: %w", target.Name, err)
		}
	}
	return table.Len(), nil
}
