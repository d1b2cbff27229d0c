// SPDX-License-Identifier: MIT

// Package jobs runs snapshot refreshes: it fetches the configured census
// tables, persists them and exports CSV files.
package jobs

import (
	"time"

	"github.com/pooja61096/uscensus/internal/census"
	"github.com/pooja61096/uscensus/internal/config"
	"github.com/pooja61096/uscensus/internal/store"
)

// Status represents the outcome of the most recent refresh run.
type Status struct {
	LastRun  time.Time         `json:"last_run"`
	Targets  int               `json:"targets"`
	Rows     int               `json:"rows"`
	Failed   int               `json:"failed,omitempty"`
	Error    string            `json:"error,omitempty"`
	Failures map[string]string `json:"failures,omitempty"` // target name -> error
}

// Config holds everything a refresh run needs.
type Config struct {
	DataDir string
	Targets []config.Target
	Client  *census.Client

	// Store receives fetched tables; nil disables persistence.
	Store *store.SnapshotStore

	// Concurrency bounds parallel upstream fetches; defaults to 4.
	Concurrency int
}
