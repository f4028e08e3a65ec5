package report

import (
	"maps"
	"slices"
)

// Row is one parsed report line keyed by normalized column name. Values are
// string, float64, bool, time.Time or nil for an empty cell.
type Row map[string]any

// Table is the typed row collection produced by Parse.
type Table struct {
	Rows []Row
	// Columns holds the normalized keys in header order.
	Columns []string
	// OriginalColumns holds the header names as received, index-aligned
	// with Columns.
	OriginalColumns []string
}

// Len returns the number of rows. A nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// OriginalName returns the header a normalized column was derived from.
func (t *Table) OriginalName(column string) (string, bool) {
	if t == nil {
		return "", false
	}
	for i, c := range t.Columns {
		if c == column {
			return t.OriginalColumns[i], true
		}
	}
	return "", false
}

// Column returns every row's value for the given normalized column.
func (t *Table) Column(column string) []any {
	if t == nil {
		return nil
	}
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[column]
	}
	return values
}

// Filter returns a table with the same columns holding only the rows keep
// accepts, in their original order.
func (t *Table) Filter(keep func(Row) (bool, error)) (*Table, error) {
	if t == nil {
		return &Table{}, nil
	}
	out := &Table{
		Columns:         t.Columns,
		OriginalColumns: t.OriginalColumns,
	}
	for _, row := range t.Rows {
		ok, err := keep(row)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// Append adds the rows of other to t. Columns of other that t lacks are
// added after t's own, and every row is padded with nil so its keys match
// Columns again. Rows of other are copied, so other is left untouched.
func (t *Table) Append(other *Table) {
	if other == nil {
		return
	}

	var missing []int
	for i, c := range other.Columns {
		if !slices.Contains(t.Columns, c) {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		t.Columns = slices.Clone(t.Columns)
		t.OriginalColumns = slices.Clone(t.OriginalColumns)
		for _, i := range missing {
			t.Columns = append(t.Columns, other.Columns[i])
			t.OriginalColumns = append(t.OriginalColumns, other.originalAt(i))
		}
		for _, row := range t.Rows {
			t.pad(row)
		}
	}

	for _, row := range other.Rows {
		copied := make(Row, len(t.Columns))
		maps.Copy(copied, row)
		t.pad(copied)
		t.Rows = append(t.Rows, copied)
	}
}

func (t *Table) originalAt(i int) string {
	if i < len(t.OriginalColumns) {
		return t.OriginalColumns[i]
	}
	return t.Columns[i]
}

func (t *Table) pad(row Row) {
	for _, c := range t.Columns {
		if _, ok := row[c]; !ok {
			row[c] = nil
		}
	}
}
