// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xclog "github.com/pooja61096/uscensus/internal/log"
)

// TargetHolder holds the snapshot target list with atomic reloading.
// It watches the YAML file and swaps in the new list only when it parses
// and validates; on failure the old list stays active.
type TargetHolder struct {
	mu      sync.RWMutex
	current []Target
	path    string
	watcher *fsnotify.Watcher
	logger  zerolog.Logger
}

// NewTargetHolder loads the initial target list from path. An empty path
// yields a holder with an empty list and no watcher.
func NewTargetHolder(path string) (*TargetHolder, error) {
	targets, err := LoadTargets(path)
	if err != nil {
		return nil, err
	}
	return &TargetHolder{
		current: targets,
		path:    path,
		logger:  xclog.WithComponent("config"),
	}, nil
}

// Current returns the active target list (thread-safe read).
func (h *TargetHolder) Current() []Target {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Target, len(h.current))
	copy(out, h.current)
	return out
}

// Reload re-reads the targets file. If parsing or validation fails the old
// list is kept and the error returned, so a half-edited file never takes effect.
func (h *TargetHolder) Reload() error {
	targets, err := LoadTargets(h.path)
	if err != nil {
		h.logger.Error().Err(err).Str("event", "targets.reload_failed").
			Msg("failed to reload snapshot targets")
		return fmt.Errorf("reload targets: %w", err)
	}

	h.mu.Lock()
	old := len(h.current)
	h.current = targets
	h.mu.Unlock()

	h.logger.Info().
		Str("event", "targets.reload_success").
		Int("old_count", old).
		Int("new_count", len(targets)).
		Msg("snapshot targets reloaded")
	return nil
}

// StartWatcher watches the targets file for changes. No-op without a path.
func (h *TargetHolder) StartWatcher(ctx context.Context) error {
	if h.path == "" {
		h.logger.Info().Str("event", "targets.watcher_disabled").
			Msg("targets watcher disabled (no targets file configured)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	if err := watcher.Add(h.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch targets file: %w", err)
	}

	h.logger.Info().
		Str("event", "targets.watcher_started").
		Str("path", h.path).
		Msg("watching snapshot targets file for changes")

	go h.watchLoop(ctx)
	return nil
}

func (h *TargetHolder) watchLoop(ctx context.Context) {
	// Debounce to avoid a reload per write syscall from editors.
	var debounce *time.Timer
	const debounceDelay = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str("event", "targets.watcher_stopped").Msg("targets watcher stopped")
			_ = h.watcher.Close()
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					if err := h.Reload(); err != nil {
						h.logger.Error().Err(err).
							Str("event", "targets.auto_reload_failed").
							Msg("automatic targets reload failed")
					}
				})
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).
				Str("event", "targets.watcher_error").
				Msg("targets watcher error")
		}
	}
}

// Stop closes the watcher if running.
func (h *TargetHolder) Stop() {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
}
