package mining

import (
	"math"
	"sort"
	"strings"
)

// Algorithm names accepted by FrequentItemsets.
const (
	AlgorithmFPGrowth = "fpgrowth"
	AlgorithmApriori  = "apriori"
)

// Itemset is a sorted set of tokens with the fraction (Support) and number
// (Count) of transactions that contain all of them.
type Itemset struct {
	Items   []string
	Support float64
	Count   int
}

// Len returns the number of tokens in the itemset.
func (s Itemset) Len() int { return len(s.Items) }

// Key identifies the token set independent of its metrics.
func (s Itemset) Key() string { return ItemsKey(s.Items) }

// ItemsKey returns the lookup key of a sorted token list.
func ItemsKey(items []string) string { return strings.Join(items, "\x1f") }

// FrequentItemsets mines m with the named algorithm. An empty name selects
// FP-growth.
func FrequentItemsets(m *Matrix, minSupport float64, algorithm string) ([]Itemset, error) {
	switch algorithm {
	case "", AlgorithmFPGrowth:
		return FPGrowth(m, minSupport)
	case AlgorithmApriori:
		return Apriori(m, minSupport)
	default:
		return nil, InvalidArgument("frequent itemsets", "algorithm", algorithm)
	}
}

// FilterItemsets returns a copy of itemsets, without the single-token ones
// when removeSingles is set.
func FilterItemsets(itemsets []Itemset, removeSingles bool) []Itemset {
	out := make([]Itemset, 0, len(itemsets))
	for _, s := range itemsets {
		if removeSingles && s.Len() < 2 {
			continue
		}
		s.Items = append([]string(nil), s.Items...)
		out = append(out, s)
	}
	return out
}

func checkSupport(op string, minSupport float64) error {
	if math.IsNaN(minSupport) || minSupport < 0 || minSupport > 1 {
		return InvalidArgument(op, "min support", minSupport)
	}
	return nil
}

// supportCounter decides whether a count is frequent among n transactions.
type supportCounter struct {
	n          int
	minSupport float64
}

func (c supportCounter) frequent(count int) bool {
	return count > 0 && float64(count)/float64(c.n) >= c.minSupport
}

func (c supportCounter) itemset(m *Matrix, idx []int, count int) Itemset {
	items := make([]string, len(idx))
	for i, j := range idx {
		items[i] = m.Columns[j]
	}
	sort.Strings(items)
	return Itemset{Items: items, Support: float64(count) / float64(c.n), Count: count}
}

// sortItemsets orders by support descending, then size ascending, then
// token order.
func sortItemsets(s []Itemset) {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i], s[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if len(a.Items) != len(b.Items) {
			return len(a.Items) < len(b.Items)
		}
		for k := range a.Items {
			if a.Items[k] != b.Items[k] {
				return a.Items[k] < b.Items[k]
			}
		}
		return false
	})
}

func columnCounts(m *Matrix) []int {
	counts := make([]int, len(m.Columns))
	for _, row := range m.Rows {
		for j, v := range row {
			if v {
				counts[j]++
			}
		}
	}
	return counts
}
