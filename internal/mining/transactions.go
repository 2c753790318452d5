package mining

import (
	"strings"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/survey"
)

// Transaction is the set of tokens one respondent contributes to a mining
// run. Insertion order is kept; duplicates are ignored.
type Transaction struct {
	items []string
	set   map[string]struct{}
}

// NewTransaction builds a transaction from tokens, collapsing duplicates.
func NewTransaction(tokens ...string) Transaction {
	var tx Transaction
	for _, t := range tokens {
		tx.Add(t)
	}
	return tx
}

// Add inserts token unless already present.
func (tx *Transaction) Add(token string) {
	if tx.set == nil {
		tx.set = map[string]struct{}{}
	}
	if _, ok := tx.set[token]; ok {
		return
	}
	tx.set[token] = struct{}{}
	tx.items = append(tx.items, token)
}

// Has reports whether token is in the transaction.
func (tx Transaction) Has(token string) bool {
	_, ok := tx.set[token]
	return ok
}

// Items returns the tokens in insertion order.
func (tx Transaction) Items() []string { return append([]string(nil), tx.items...) }

// Len returns the number of distinct tokens.
func (tx Transaction) Len() int { return len(tx.items) }

// BuildTransactions turns the rows of t into one transaction each.
//
// columns and vocabularies are parallel: vocabularies[i] lists the legal
// tokens of columns[i]. Rows missing a value in any listed column, or
// answering noResponse, are dropped before matching; the filter is applied
// column by column, so each column sees only the rows that survived the
// previous ones. A token is matched when it occurs as a substring of the raw
// answer, which means overlapping vocabulary entries both match.
func BuildTransactions(t *survey.Table, columns []string, vocabularies [][]string, noResponse string) ([]Transaction, error) {
	if len(columns) != len(vocabularies) {
		return nil, InvalidArgument("build transactions", "vocabulary count", len(vocabularies))
	}
	for _, c := range columns {
		if !t.HasColumn(c) {
			return nil, InvalidArgument("build transactions", "column", c)
		}
	}
	for _, c := range columns {
		t = t.FilterInvalid(c, noResponse)
	}

	out := make([]Transaction, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		var tx Transaction
		for j, c := range columns {
			raw, _ := t.Value(i, c)
			for _, token := range vocabularies[j] {
				if strings.Contains(raw, token) {
					tx.Add(token)
				}
			}
		}
		out = append(out, tx)
	}
	return out, nil
}
