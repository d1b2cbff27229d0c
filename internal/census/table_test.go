// SPDX-License-Identifier: MIT

package census

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTable(t *testing.T) {
	// Shape as returned by api.census.gov, including a numeric and a null cell.
	body := []byte(`[["NAME","B01001_001E","us"],["United States",328239523,"1"],["Puerto Rico",null,"72"]]`)

	table, err := ParseTable(body)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}

	want := &Table{
		Header: []string{"NAME", "B01001_001E", "us"},
		Rows: [][]string{
			{"United States", "328239523", "1"},
			{"Puerto Rico", "", "72"},
		},
	}
	if diff := cmp.Diff(want, table, cmp.AllowUnexported(Table{})); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
	if table.Len() != 2 {
		t.Fatalf("Len: got %d", table.Len())
	}
}

func TestParseTableRaggedRows(t *testing.T) {
	body := []byte(`[["A","B"],["1"],["1","2","3"]]`)
	table, err := ParseTable(body)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if diff := cmp.Diff([][]string{{"1", ""}, {"1", "2"}}, table.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTableHeaderOnly(t *testing.T) {
	table, err := ParseTable([]byte(`[["NAME","us"]]`))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", table.Len())
	}
}

func TestParseTableMalformed(t *testing.T) {
	for _, body := range []string{``, `{}`, `[]`, `"nope"`} {
		if _, err := ParseTable([]byte(body)); !errors.Is(err, ErrBadResponse) {
			t.Errorf("ParseTable(%q): want ErrBadResponse, got %v", body, err)
		}
	}
}

func TestTableColumn(t *testing.T) {
	table := &Table{
		Header: []string{"NAME", "EMP"},
		Rows:   [][]string{{"California", "243498"}, {"Texas", "120000"}},
	}

	emp, err := table.Column("EMP")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if diff := cmp.Diff([]string{"243498", "120000"}, emp); diff != "" {
		t.Fatalf("column mismatch (-want +got):\n%s", diff)
	}

	if _, err := table.Column("NOPE"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing column: want ErrInvalidInput, got %v", err)
	}
}

func TestTableRecords(t *testing.T) {
	table := &Table{
		Header: []string{"NAME", "state"},
		Rows:   [][]string{{"Alabama", "01"}},
	}
	recs := table.Records()
	if len(recs) != 1 || recs[0]["NAME"] != "Alabama" || recs[0]["state"] != "01" {
		t.Fatalf("unexpected records: %v", recs)
	}
}

func TestTableWriteCSV(t *testing.T) {
	table := &Table{
		Header: []string{"NAME", "EMP"},
		Rows:   [][]string{{"Washington, DC", "1000"}},
	}
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "NAME,EMP\n\"Washington, DC\",1000\n"
	if buf.String() != want {
		t.Fatalf("csv output:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestTableJSONRoundTrip(t *testing.T) {
	orig := &Table{
		Header: []string{"NAME", "us"},
		Rows:   [][]string{{"United States", "1"}},
	}
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Table
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(orig, &back, cmp.AllowUnexported(Table{})); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
