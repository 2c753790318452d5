package rules

import (
	"sort"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
)

// Table is an ordered list of rules.
type Table []Rule

// Clone returns a copy of t. Item slices are shared; rules are never
// modified in place.
func (t Table) Clone() Table {
	if t == nil {
		return Table{}
	}
	return append(Table{}, t...)
}

// Numbers returns a numeric column of t.
func (t Table) Numbers(col string) ([]float64, error) {
	if !isNumeric(col) {
		return nil, mining.InvalidArgument("rule column", "name", col)
	}
	out := make([]float64, len(t))
	for i, r := range t {
		out[i], _ = r.Number(col)
	}
	return out, nil
}

func isNumeric(col string) bool {
	_, ok := Rule{}.Number(col)
	return ok
}

// Sorted returns a copy of t stably sorted by the given columns. by and
// ascending are parallel.
func (t Table) Sorted(by []string, ascending []bool) (Table, error) {
	if err := checkSortKeys(by, ascending); err != nil {
		return nil, err
	}
	out := t.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		for k, col := range by {
			c := compare(out[i], out[j], col)
			if c == 0 {
				continue
			}
			if ascending[k] {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return out, nil
}

func checkSortKeys(by []string, ascending []bool) error {
	if len(by) != len(ascending) {
		return mining.InvalidArgument("sort", "ascending list length", len(ascending))
	}
	for _, col := range by {
		if !isColumn(col) {
			return mining.InvalidArgument("sort", "column", col)
		}
	}
	return nil
}

func compare(a, b Rule, col string) int {
	if av, ok := a.Number(col); ok {
		bv, _ := b.Number(col)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
	as, bs := a.Field(col), b.Field(col)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}
