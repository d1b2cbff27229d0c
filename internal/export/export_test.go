// SPDX-License-Identifier: MIT

package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooja61096/uscensus/internal/census"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	table := &census.Table{
		Header: []string{"NAME", "EMP"},
		Rows:   [][]string{{"California", "243498"}},
	}
	require.NoError(t, WriteCSV(context.Background(), path, table))

	data, err := os.ReadFile(path) // #nosec G304 -- temp dir path
	require.NoError(t, err)
	assert.Equal(t, "NAME,EMP\nCalifornia,243498\n", string(data))

	// No pending temp files may remain next to the output.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCSVReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old content"), 0o600))

	table := &census.Table{Header: []string{"A"}, Rows: [][]string{{"1"}}}
	require.NoError(t, WriteCSV(context.Background(), path, table))

	data, err := os.ReadFile(path) // #nosec G304 -- temp dir path
	require.NoError(t, err)
	assert.Equal(t, "A\n1\n", string(data))
}

func TestDataFilePath(t *testing.T) {
	dir := t.TempDir()

	full, err := DataFilePath(dir, "snapshot.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "snapshot.csv"), full)

	for _, bad := range []string{"", "../escape.csv", "a/../../escape.csv"} {
		_, err := DataFilePath(dir, bad)
		assert.Error(t, err, "name %q must be rejected", bad)
	}
}

func TestStableName(t *testing.T) {
	a := StableName("acs/detailed", map[string]string{"year": "2019", "group": "B01001"})
	b := StableName("acs/detailed", map[string]string{"group": "B01001", "year": "2019"})
	assert.Equal(t, a, b, "parameter order must not change the name")
	assert.Contains(t, a, "acs-detailed-")

	c := StableName("acs/detailed", map[string]string{"group": "B01002", "year": "2019"})
	assert.NotEqual(t, a, c, "different parameters must yield different names")
}
