package survey

import (
	"fmt"
	"strings"
)

// Row is one respondent's answers keyed by column identifier.
// A column absent from the map is a missing answer.
type Row map[string]string

// Get returns the raw answer for col and whether it is present.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Table is an immutable, row-oriented survey table. Every operation that
// changes the row population returns a new Table re-indexed from 0.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// NewTable builds a table from a header and rows. Rows are copied; cells for
// columns not listed in the header are dropped.
func NewTable(columns []string, rows []Row) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		rows:    make([]Row, 0, len(rows)),
	}
	for i, c := range t.columns {
		t.index[c] = i
	}
	for _, r := range rows {
		cp := make(Row, len(r))
		for k, v := range r {
			if _, ok := t.index[k]; ok {
				cp[k] = v
			}
		}
		t.rows = append(t.rows, cp)
	}
	return t
}

// Columns returns the header in file order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// HasColumn reports whether col is part of the header.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns a copy of row i.
func (t *Table) Row(i int) Row {
	cp := make(Row, len(t.rows[i]))
	for k, v := range t.rows[i] {
		cp[k] = v
	}
	return cp
}

// Value returns the cell at row i, column col.
func (t *Table) Value(i int, col string) (string, bool) {
	return t.rows[i].Get(col)
}

// Select projects the table onto the given columns, in the given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("select: unknown column %q", c)
		}
	}
	return NewTable(cols, t.rows), nil
}

// Where returns the rows for which keep returns true.
func (t *Table) Where(keep func(Row) bool) *Table {
	out := &Table{columns: t.columns, index: t.index}
	for _, r := range t.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// FilterInvalid drops rows whose value in col is missing or equal to the
// no-response sentinel.
func (t *Table) FilterInvalid(col, noResponse string) *Table {
	return t.Where(func(r Row) bool {
		v, ok := r.Get(col)
		return ok && v != noResponse
	})
}

// FilterIn keeps rows whose value in col is one of keep.
func (t *Table) FilterIn(col string, keep []string) *Table {
	set := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		set[k] = struct{}{}
	}
	return t.Where(func(r Row) bool {
		v, ok := r.Get(col)
		if !ok {
			return false
		}
		_, in := set[v]
		return in
	})
}

// FilterContains keeps rows whose value in col contains substr.
func (t *Table) FilterContains(col, substr string) *Table {
	return t.Where(func(r Row) bool {
		v, ok := r.Get(col)
		return ok && strings.Contains(v, substr)
	})
}

// Replace rewrites every cell that equals old to new, in all columns.
func (t *Table) Replace(old, new string) *Table {
	out := &Table{columns: t.columns, index: t.index, rows: make([]Row, 0, len(t.rows))}
	for _, r := range t.rows {
		cp := make(Row, len(r))
		for k, v := range r {
			if v == old {
				v = new
			}
			cp[k] = v
		}
		out.rows = append(out.rows, cp)
	}
	return out
}

// Unique returns the distinct present values of col in first-seen order.
func (t *Table) Unique(col string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, r := range t.rows {
		v, ok := r.Get(col)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
