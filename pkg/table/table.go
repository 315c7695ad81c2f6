// Package table holds the row-oriented table model used by the enrichment
// pipeline. Rows are identified by position only; there is no primary key.
package table

import (
	"fmt"
)

// Table is an in-memory row-oriented table. Header names columns; every row
// has exactly len(Header) cells. An empty cell represents an absent value.
type Table struct {
	Header []string
	Rows   [][]string
}

// RowCount returns the number of data rows (excluding the header).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's values in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column '%s' not found in table", name)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// WithColumns returns a copy of the table with the given columns appended in
// order. Every column must have exactly one value per existing row; the
// receiver is never modified.
func (t *Table) WithColumns(names []string, columns [][]string) (*Table, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("got %d column names for %d columns", len(names), len(columns))
	}
	for i, col := range columns {
		if len(col) != len(t.Rows) {
			return nil, fmt.Errorf("column '%s' has %d values for %d rows", names[i], len(col), len(t.Rows))
		}
	}

	out := &Table{
		Header: make([]string, 0, len(t.Header)+len(names)),
		Rows:   make([][]string, len(t.Rows)),
	}
	out.Header = append(out.Header, t.Header...)
	out.Header = append(out.Header, names...)

	for i, row := range t.Rows {
		newRow := make([]string, 0, len(row)+len(columns))
		newRow = append(newRow, row...)
		for _, col := range columns {
			newRow = append(newRow, col[i])
		}
		out.Rows[i] = newRow
	}
	return out, nil
}
