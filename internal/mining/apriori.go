package mining

import (
	"sort"
	"strconv"
	"strings"
)

// Apriori mines frequent itemsets level by level: candidates of size k+1 are
// joined from frequent k-itemsets sharing a k-1 prefix and pruned when any
// k-subset is infrequent. minSupport must be positive.
func Apriori(m *Matrix, minSupport float64) ([]Itemset, error) {
	if err := checkSupport("apriori", minSupport); err != nil {
		return nil, err
	}
	if minSupport == 0 {
		return nil, InvalidArgument("apriori", "min support", minSupport)
	}
	if m.NumRows() == 0 {
		return []Itemset{}, nil
	}
	sc := supportCounter{n: m.NumRows(), minSupport: minSupport}

	out := []Itemset{}
	var level [][]int
	for j, c := range columnCounts(m) {
		if sc.frequent(c) {
			level = append(level, []int{j})
			out = append(out, sc.itemset(m, []int{j}, c))
		}
	}

	for len(level) > 1 {
		known := make(map[string]struct{}, len(level))
		for _, s := range level {
			known[intsKey(s)] = struct{}{}
		}
		var next [][]int
		for a := 0; a < len(level); a++ {
			for b := a + 1; b < len(level); b++ {
				cand, ok := join(level[a], level[b])
				if !ok || !allSubsetsKnown(cand, known) {
					continue
				}
				count := 0
				for _, row := range m.Rows {
					if containsAll(row, cand) {
						count++
					}
				}
				if sc.frequent(count) {
					next = append(next, cand)
					out = append(out, sc.itemset(m, cand, count))
				}
			}
		}
		sort.Slice(next, func(i, j int) bool { return lessInts(next[i], next[j]) })
		level = next
	}
	sortItemsets(out)
	return out, nil
}

// join merges two sorted k-sets that share their first k-1 elements.
func join(a, b []int) ([]int, bool) {
	k := len(a)
	for i := 0; i < k-1; i++ {
		if a[i] != b[i] {
			return nil, false
		}
	}
	if a[k-1] == b[k-1] {
		return nil, false
	}
	cand := make([]int, 0, k+1)
	cand = append(cand, a[:k-1]...)
	if a[k-1] < b[k-1] {
		cand = append(cand, a[k-1], b[k-1])
	} else {
		cand = append(cand, b[k-1], a[k-1])
	}
	return cand, true
}

func allSubsetsKnown(cand []int, known map[string]struct{}) bool {
	sub := make([]int, 0, len(cand)-1)
	for skip := range cand {
		sub = sub[:0]
		for i, v := range cand {
			if i != skip {
				sub = append(sub, v)
			}
		}
		if _, ok := known[intsKey(sub)]; !ok {
			return false
		}
	}
	return true
}

func containsAll(row []bool, idx []int) bool {
	for _, j := range idx {
		if !row[j] {
			return false
		}
	}
	return true
}

func intsKey(s []int) string {
	var b strings.Builder
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func lessInts(a, b []int) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
