// SPDX-License-Identifier: MIT

// Package export writes fetched tables to disk.
package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/pooja61096/uscensus/internal/census"
	xclog "github.com/pooja61096/uscensus/internal/log"
)

// WriteCSV writes the table to path atomically and durably: the data is
// fsynced to a temp file and renamed into place, so readers never observe a
// partially written file.
func WriteCSV(ctx context.Context, path string, table *census.Table) error {
	logger := xclog.WithComponentFromContext(ctx, "export")

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending CSV file: %w", err)
	}
	defer func() {
		// renameio removes the temp file if it was not committed.
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending CSV file")
		}
	}()

	if err := table.WriteCSV(pendingFile); err != nil {
		return fmt.Errorf("write CSV data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace CSV file: %w", err)
	}

	return nil
}

// DataFilePath resolves name inside dataDir and rejects anything that would
// escape it.
func DataFilePath(dataDir, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("file name must not be empty")
	}
	cleanDir := filepath.Clean(dataDir)
	full := filepath.Clean(filepath.Join(cleanDir, name))

	rel, err := filepath.Rel(cleanDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes data directory", name)
	}
	return full, nil
}

// StableName derives a deterministic filename stem from a dataset and its
// parameters. Hashing keeps the name stable across parameter reordering and
// safe for arbitrary parameter values.
func StableName(dataset string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	h.Write([]byte(dataset))
	for _, k := range keys {
		fmt.Fprintf(h, "|%s=%s", k, params[k])
	}
	sum := h.Sum(nil)

	slug := strings.ReplaceAll(dataset, "/", "-")
	return slug + "-" + hex.EncodeToString(sum[:8])
}
