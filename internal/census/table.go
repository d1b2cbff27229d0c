// SPDX-License-Identifier: MIT

package census

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Table is a decoded Census API response. The wire format is a JSON array
// of arrays where the first inner array is the column header; every cell is
// kept as a string, matching the upstream representation.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int // lazy column-name index
}

// ParseTable decodes the Census wire format. A header-only response yields
// an empty table. Rows shorter than the header are padded with empty cells,
// longer rows are truncated to the header width.
func ParseTable(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw [][]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrBadResponse)
	}

	header := make([]string, len(raw[0]))
	for i, cell := range raw[0] {
		header[i] = renderCell(cell)
	}

	rows := make([][]string, 0, len(raw)-1)
	for _, rawRow := range raw[1:] {
		row := make([]string, len(header))
		for i := range header {
			if i < len(rawRow) {
				row[i] = renderCell(rawRow[i])
			}
		}
		rows = append(rows, row)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// renderCell turns a decoded JSON value into its cell string. JSON null
// becomes the empty string.
func renderCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case json.Number:
		return c.String()
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}

// Len returns the number of data rows (the header is not counted).
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns all values of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx, ok := t.columnIndex(name)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidInput, name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Records returns the data rows as column-name keyed maps.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(t.Header))
		for j, name := range t.Header {
			rec[name] = row[j]
		}
		out[i] = rec
	}
	return out
}

// WriteCSV writes the table as RFC 4180 CSV, header first.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalJSON emits the upstream wire shape: header row first, then data rows.
func (t *Table) MarshalJSON() ([]byte, error) {
	all := make([][]string, 0, len(t.Rows)+1)
	all = append(all, t.Header)
	all = append(all, t.Rows...)
	return json.Marshal(all)
}

// UnmarshalJSON parses the upstream wire shape.
func (t *Table) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTable(data)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

func (t *Table) columnIndex(name string) (int, bool) {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Header))
		for i, h := range t.Header {
			t.index[h] = i
		}
	}
	idx, ok := t.index[name]
	return idx, ok
}
