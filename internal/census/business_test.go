// SPDX-License-Identifier: MIT

package census

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanySummary(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL})

	_, err := c.CompanySummary(context.Background(), 2016, "01", false)
	require.NoError(t, err)

	req := srv.LastRequest()
	assert.Equal(t, "/data/2016/ase/csa", req.Path)
	assert.Equal(t, "VET_GROUP_LABEL", req.Query().Get("get"))
	assert.Equal(t, "state:01", req.Query().Get("for"))
}

func TestCompanySummaryMicroIgnoresState(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL})

	_, err := c.CompanySummary(context.Background(), 2016, "01", true)
	require.NoError(t, err)
	assert.Equal(t, msaGeography, srv.LastRequest().Query().Get("for"))
}

func TestBusinessCharacteristics(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL})

	_, err := c.BusinessCharacteristics(context.Background(), 2016, "", false)
	require.NoError(t, err)

	req := srv.LastRequest()
	assert.Equal(t, "/data/2016/ase/cscb", req.Path)
	assert.Equal(t, "RCPPDEMP_F", req.Query().Get("get"))
	assert.Equal(t, "state:*", req.Query().Get("for"))
}

func TestManufacturing(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL})

	table, err := c.Manufacturing(context.Background(), 2017, "31-33")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	req := srv.LastRequest()
	assert.Equal(t, "/data/timeseries/asm/area2017", req.Path)
	assert.Equal(t, "NAICS2017_LABEL,NAICS2017,EMP", req.Query().Get("get"))
	assert.Equal(t, "2018", req.Query().Get("YEAR"), "area series vintage is year+1")
	assert.Equal(t, "31-33", req.Query().Get("NAICS2017"))
}

func TestStateManufacturing(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL})

	_, err := c.StateManufacturing(context.Background(), 2016, "31-33", CrossSectionState, "06")
	require.NoError(t, err)

	req := srv.LastRequest()
	assert.Equal(t, "/data/timeseries/asm/state", req.Path)
	assert.Equal(t, "NAICS_TTL,EMP,GEO_TTL", req.Query().Get("get"))
	assert.Equal(t, "state:06", req.Query().Get("for"))
	assert.Equal(t, "2016", req.Query().Get("YEAR"))

	_, err = c.StateManufacturing(context.Background(), 2016, "31-33", CrossSectionIndustry, "")
	require.NoError(t, err)
	assert.Equal(t, "/data/timeseries/asm/industry", srv.LastRequest().Path)

	_, err = c.StateManufacturing(context.Background(), 2016, "31-33", "county", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNonemployerStatistics(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL})

	_, err := c.NonemployerStatistics(context.Background(), 2002, "54", "02")
	require.NoError(t, err)

	req := srv.LastRequest()
	assert.Equal(t, "/data/2002/nonemp", req.Path)
	assert.Equal(t, "NRCPTOT,NAME", req.Query().Get("get"))
	assert.Equal(t, "county:*", req.Query().Get("for"))
	assert.Equal(t, "state:02", req.Query().Get("in"))
	assert.Equal(t, "54", req.Query().Get("NAICS2002"))
}

func TestCountyBusinessPatterns(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL})

	table, err := c.CountyBusinessPatterns(context.Background(), 2018, "72", "06")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	req := srv.LastRequest()
	assert.Equal(t, "/data/2018/cbp", req.Path)
	// CBP tags NAICS columns with the previous year's vintage.
	assert.Equal(t, "ESTAB,LFO,NAICS2017_LABEL,NAME", req.Query().Get("get"))
	assert.Equal(t, "72", req.Query().Get("NAICS2017"))
	_, hasKey := req.Query()["key"]
	assert.False(t, hasKey)
}
