// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pooja61096/uscensus/internal/census"
)

func TestRunFetchCSV(t *testing.T) {
	srv := census.NewMockServer()
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "out.csv")
	code := run([]string{
		"-base", srv.URL,
		"-dataset", "acs/detailed",
		"-p", "year=2019",
		"-p", "group=B01001",
		"-o", out,
	})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], "NAME")
}

func TestRunFetchJSON(t *testing.T) {
	srv := census.NewMockServer()
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "out.json")
	code := run([]string{
		"-base", srv.URL,
		"-dataset", "cbp",
		"-p", "year=2018",
		"-p", "sector=23",
		"-p", "state=06",
		"-format", "json",
		"-o", out,
	})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "[["))
}

func TestRunArgumentErrors(t *testing.T) {
	assert.Equal(t, 2, run(nil), "missing dataset")
	assert.Equal(t, 2, run([]string{"-p", "no-equals-sign", "-dataset", "cbp"}))

	srv := census.NewMockServer()
	defer srv.Close()
	assert.Equal(t, 2, run([]string{"-base", srv.URL, "-dataset", "cbp", "-p", "year=2018", "-format", "yaml"}))
}

func TestRunUnknownDataset(t *testing.T) {
	srv := census.NewMockServer()
	defer srv.Close()
	assert.Equal(t, 1, run([]string{"-base", srv.URL, "-dataset", "bogus", "-p", "year=2018"}))
}
