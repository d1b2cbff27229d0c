// SPDX-License-Identifier: MIT

package census

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// MockServer is a configurable Census API stand-in for tests. It serves
// canned tables keyed by URL path, can inject failures, and records every
// request for assertions on query construction.
type MockServer struct {
	*httptest.Server
	mu       sync.Mutex
	tables   map[string][][]string // path -> wire rows (header first)
	failures map[string]int        // path -> remaining failures
	failCode int
	requests []*url.URL
}

// NewMockServer starts a mock Census API with a small default dataset.
func NewMockServer() *MockServer {
	m := &MockServer{
		tables:   make(map[string][][]string),
		failures: make(map[string]int),
		failCode: http.StatusInternalServerError,
	}
	m.SetDefaultData()
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// SetDefaultData installs realistic tables for the commonly tested paths.
func (m *MockServer) SetDefaultData() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables["/data/2019/acs/acs1"] = [][]string{
		{"NAME", "B01001_001E", "us"},
		{"United States", "328239523", "1"},
	}
	m.tables["/data/2019/acs/acs1/profile"] = [][]string{
		{"S0201_001E", "us"},
		{"328239523", "1"},
	}
	m.tables["/data/2019/acs/acs1/cprofile"] = [][]string{
		{"CP05_2015_001E", "CP05_2019_001E", "us"},
		{"321418821", "328239523", "1"},
	}
	m.tables["/data/2019/acs/acs1/spp"] = [][]string{
		{"NAME", "S0201_001E", "POPGROUP", "us"},
		{"United States", "328239523", "001", "1"},
	}
	m.tables["/data/2019/acs/acsse"] = [][]string{
		{"NAME", "K200101_001E", "state"},
		{"Alabama", "4903185", "01"},
		{"Alaska", "731545", "02"},
	}
	m.tables["/data/2016/ase/csa"] = [][]string{
		{"VET_GROUP_LABEL", "state"},
		{"All firms", "01"},
	}
	m.tables["/data/2016/ase/cscb"] = [][]string{
		{"RCPPDEMP_F", "state"},
		{"S", "01"},
	}
	m.tables["/data/timeseries/asm/area2017"] = [][]string{
		{"NAICS2017_LABEL", "NAICS2017", "EMP", "us"},
		{"Manufacturing", "31-33", "11709527", "1"},
	}
	m.tables["/data/timeseries/asm/state"] = [][]string{
		{"NAICS_TTL", "EMP", "GEO_TTL", "state"},
		{"Manufacturing", "243498", "California", "06"},
	}
	m.tables["/data/timeseries/asm/industry"] = [][]string{
		{"NAICS_TTL", "EMP", "GEO_TTL"},
		{"Manufacturing", "11709527", "United States"},
	}
	m.tables["/data/2002/nonemp"] = [][]string{
		{"NRCPTOT", "NAME", "state", "county"},
		{"102938", "Anchorage Borough, Alaska", "02", "020"},
	}
	m.tables["/data/2018/cbp"] = [][]string{
		{"ESTAB", "LFO", "NAICS2017_LABEL", "NAME", "state"},
		{"76059", "001", "Accommodation and food services", "California", "06"},
	}
	m.tables["/data/timeseries/eits/hv"] = [][]string{
		{"cell_value", "data_type_code", "time_slot_id", "category_code", "seasonally_adj", "time"},
		{"1394", "RATE", "0", "RVR", "no", "2018"},
	}
	m.tables["/data/timeseries/eits/resconst"] = [][]string{
		{"cell_value", "data_type_code", "time_slot_id", "category_code", "seasonally_adj", "time"},
		{"1250", "TOTAL", "0", "PERMITS", "yes", "2018"},
	}
	m.tables["/data/timeseries/healthins/sahie"] = [][]string{
		{"NIC_PT", "NUI_PT", "county", "state", "time"},
		{"253849", "34781", "020", "02", "2018"},
	}
}

// SetTable installs the wire rows (header first) served for a path.
func (m *MockServer) SetTable(path string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[path] = rows
}

// FailNext makes the next n requests to a path fail with the given status.
func (m *MockServer) FailNext(path string, n, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[path] = n
	m.failCode = status
}

// Requests returns a copy of all request URLs seen so far.
func (m *MockServer) Requests() []*url.URL {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*url.URL, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request URL, or nil.
func (m *MockServer) LastRequest() *url.URL {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

func (m *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	u := *r.URL
	m.requests = append(m.requests, &u)

	if left := m.failures[r.URL.Path]; left > 0 {
		m.failures[r.URL.Path] = left - 1
		code := m.failCode
		m.mu.Unlock()
		http.Error(w, "mock failure", code)
		return
	}

	rows, ok := m.tables[r.URL.Path]
	m.mu.Unlock()

	if !ok && strings.HasSuffix(r.URL.Path, "/data.json") {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"dataset":[]}`))
		return
	}
	if !ok {
		http.Error(w, "unknown dataset", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}
