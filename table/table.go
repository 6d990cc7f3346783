// Package table parses the comma separated translation export into rows of
// a key followed by one value per language column.
package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

var bom = []byte("\xef\xbb\xbf")

// Row is a single translation line. Cell 0 is the key, the remaining cells
// are values in language column order.
type Row []string

// Key of the row, empty if the row has no cells.
func (row Row) Key() string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// Value returns the cell at column and whether the row is long enough to
// contain it. Column 0 is the key, so the first language is column 1.
func (row Row) Value(column int) (string, bool) {
	if column < 0 || column >= len(row) {
		return "", false
	}
	return row[column], true
}

// Table holds the data rows of a translation export. The header row of the
// source is never part of Rows.
type Table struct {
	Rows []Row
}

// Parse reads CSV from r and drops the header row.
func Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read translations: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes is Parse for an in-memory export.
func ParseBytes(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bom)))
	reader.Comma = ','

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse translations: %w", err)
	}

	t := &Table{Rows: make([]Row, 0, len(records))}
	if len(records) < 2 {
		return t, nil
	}
	for _, record := range records[1:] {
		t.Rows = append(t.Rows, Row(record))
	}
	return t, nil
}
