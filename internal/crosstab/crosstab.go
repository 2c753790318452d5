// Package crosstab builds the count tables behind the survey's bar charts
// and heat maps.
package crosstab

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/survey"
)

// Normalize selects how crosstab counts are turned into values.
type Normalize string

const (
	NormalizeNone    Normalize = "none"
	NormalizeRows    Normalize = "rows"
	NormalizeColumns Normalize = "columns"
	NormalizeAll     Normalize = "all"
)

// ParseNormalize validates a normalization name. Empty means none.
func ParseNormalize(s string) (Normalize, error) {
	switch n := Normalize(s); n {
	case "":
		return NormalizeNone, nil
	case NormalizeNone, NormalizeRows, NormalizeColumns, NormalizeAll:
		return n, nil
	}
	return "", mining.InvalidArgument("crosstab", "normalize", s)
}

// Table is a labelled matrix of counts plus derived values (proportions or
// normalized counts). Matrices are nil when either dimension is zero.
type Table struct {
	Rows   []string
	Cols   []string
	counts *mat.Dense
	values *mat.Dense
}

func newTable(rows, cols []string) *Table {
	t := &Table{Rows: rows, Cols: cols}
	if len(rows) > 0 && len(cols) > 0 {
		t.counts = mat.NewDense(len(rows), len(cols), nil)
		t.values = mat.NewDense(len(rows), len(cols), nil)
	}
	return t
}

// Dims returns the number of rows and columns.
func (t *Table) Dims() (int, int) { return len(t.Rows), len(t.Cols) }

// Empty reports whether the table has no cells.
func (t *Table) Empty() bool { return t.counts == nil }

// Count returns the raw count at (i, j).
func (t *Table) Count(i, j int) float64 { return t.counts.At(i, j) }

// Value returns the derived value at (i, j).
func (t *Table) Value(i, j int) float64 { return t.values.At(i, j) }

// Counts returns a copy of the count matrix, or nil when empty.
func (t *Table) Counts() *mat.Dense {
	if t.counts == nil {
		return nil
	}
	return mat.DenseCopyOf(t.counts)
}

// Values returns a copy of the value matrix, or nil when empty.
func (t *Table) Values() *mat.Dense {
	if t.values == nil {
		return nil
	}
	return mat.DenseCopyOf(t.values)
}

// GroupCounts counts, for every value of groupCol, the respondents whose
// answerCol contains each answer value. Values are proportions of the
// group's respondents who answered answerCol. Rows with a missing or
// no-response group are dropped. When answerValues is nil the distinct
// individual answers of answerCol are used.
func GroupCounts(t *survey.Table, groupCol, answerCol string, answerValues []string, noResponse string) (*Table, error) {
	for _, c := range []string{groupCol, answerCol} {
		if !t.HasColumn(c) {
			return nil, mining.InvalidArgument("group counts", "column", c)
		}
	}
	valid := t.FilterInvalid(groupCol, noResponse)
	if answerValues == nil {
		answerValues = survey.UniqueAnswers(valid, answerCol)
	}
	groups := valid.Unique(groupCol)
	out := newTable(groups, append([]string(nil), answerValues...))
	if out.Empty() {
		return out, nil
	}

	gi := indexOf(groups)
	answered := make([]float64, len(groups))
	for r := 0; r < valid.Len(); r++ {
		g, _ := valid.Value(r, groupCol)
		i := gi[g]
		ans, ok := valid.Value(r, answerCol)
		if !ok {
			continue
		}
		answered[i]++
		for j, v := range answerValues {
			if strings.Contains(ans, v) {
				out.counts.Set(i, j, out.counts.At(i, j)+1)
			}
		}
	}
	for i := range groups {
		if answered[i] == 0 {
			continue
		}
		for j := range answerValues {
			out.values.Set(i, j, out.counts.At(i, j)/answered[i])
		}
	}
	return out, nil
}

// Crosstab counts co-occurrences of the values of two single-answer columns.
// Rows missing either value, or answering noResponse, are dropped.
func Crosstab(t *survey.Table, rowCol, colCol, noResponse string, norm Normalize) (*Table, error) {
	for _, c := range []string{rowCol, colCol} {
		if !t.HasColumn(c) {
			return nil, mining.InvalidArgument("crosstab", "column", c)
		}
	}
	if _, err := ParseNormalize(string(norm)); err != nil {
		return nil, err
	}
	valid := t.FilterInvalid(rowCol, noResponse).FilterInvalid(colCol, noResponse)
	out := newTable(valid.Unique(rowCol), valid.Unique(colCol))
	if out.Empty() {
		return out, nil
	}
	ri, ci := indexOf(out.Rows), indexOf(out.Cols)
	for r := 0; r < valid.Len(); r++ {
		a, _ := valid.Value(r, rowCol)
		b, _ := valid.Value(r, colCol)
		i, j := ri[a], ci[b]
		out.counts.Set(i, j, out.counts.At(i, j)+1)
	}
	out.normalize(norm)
	return out, nil
}

func (t *Table) normalize(norm Normalize) {
	rows, cols := t.Dims()
	switch norm {
	case NormalizeRows:
		for i := 0; i < rows; i++ {
			sum := mat.Sum(t.counts.RowView(i))
			for j := 0; j < cols; j++ {
				t.values.Set(i, j, safeDiv(t.counts.At(i, j), sum))
			}
		}
	case NormalizeColumns:
		for j := 0; j < cols; j++ {
			sum := mat.Sum(t.counts.ColView(j))
			for i := 0; i < rows; i++ {
				t.values.Set(i, j, safeDiv(t.counts.At(i, j), sum))
			}
		}
	case NormalizeAll:
		if total := mat.Sum(t.counts); total > 0 {
			t.values.Scale(1/total, t.counts)
		}
	default:
		t.values.Copy(t.counts)
	}
}

// Reorder returns a copy with rows in the given order. Labels not present are
// skipped; rows not named keep their relative order after the named ones.
func (t *Table) Reorder(order []string) *Table {
	idx := indexOf(t.Rows)
	var perm []int
	used := map[int]bool{}
	for _, label := range order {
		if i, ok := idx[label]; ok && !used[i] {
			perm = append(perm, i)
			used[i] = true
		}
	}
	for i := range t.Rows {
		if !used[i] {
			perm = append(perm, i)
		}
	}
	rows := make([]string, len(perm))
	for k, i := range perm {
		rows[k] = t.Rows[i]
	}
	out := newTable(rows, append([]string(nil), t.Cols...))
	if out.Empty() {
		return out
	}
	for k, i := range perm {
		out.counts.SetRow(k, mat.Row(nil, i, t.counts))
		out.values.SetRow(k, mat.Row(nil, i, t.values))
	}
	return out
}

// Transpose swaps rows and columns.
func (t *Table) Transpose() *Table {
	out := &Table{Rows: append([]string(nil), t.Cols...), Cols: append([]string(nil), t.Rows...)}
	if !t.Empty() {
		out.counts = mat.DenseCopyOf(t.counts.T())
		out.values = mat.DenseCopyOf(t.values.T())
	}
	return out
}

func indexOf(labels []string) map[string]int {
	m := make(map[string]int, len(labels))
	for i, l := range labels {
		m[l] = i
	}
	return m
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
