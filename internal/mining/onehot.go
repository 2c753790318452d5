package mining

import (
	"sort"
	"strings"
)

// Matrix is a one-hot encoding of transactions: Rows[i][j] is true when
// transaction i contains the token Columns[j].
type Matrix struct {
	Columns []string
	Rows    [][]bool
}

// NumRows returns the number of encoded transactions.
func (m *Matrix) NumRows() int { return len(m.Rows) }

// ColumnIndex returns the position of token, or -1.
func (m *Matrix) ColumnIndex(token string) int {
	i := sort.SearchStrings(m.Columns, token)
	if i < len(m.Columns) && m.Columns[i] == token {
		return i
	}
	return -1
}

// Encode one-hot encodes transactions. Columns are the distinct tokens in
// lexicographic order, with double quotes removed.
func Encode(txs []Transaction) *Matrix {
	seen := map[string]struct{}{}
	for _, tx := range txs {
		for _, it := range tx.items {
			seen[columnName(it)] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for c := range seen {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	m := &Matrix{Columns: cols, Rows: make([][]bool, len(txs))}
	for i, tx := range txs {
		row := make([]bool, len(cols))
		for _, it := range tx.items {
			row[m.ColumnIndex(columnName(it))] = true
		}
		m.Rows[i] = row
	}
	return m
}

func columnName(token string) string { return strings.ReplaceAll(token, `"`, "") }
