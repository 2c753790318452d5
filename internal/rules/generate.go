package rules

import (
	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
)

// Metric names accepted by Generate.
const (
	MetricSupport    = ColSupport
	MetricConfidence = ColConfidence
	MetricLift       = ColLift
	MetricLeverage   = ColLeverage
	MetricConviction = ColConviction
)

// Generate derives every rule from itemsets whose metric is at least
// threshold. Each itemset of two or more tokens is split into every
// antecedent/consequent pair; splits whose halves are not themselves in
// itemsets are skipped. No qualifying itemset yields an empty table.
func Generate(itemsets []mining.Itemset, metric string, threshold float64) (Table, error) {
	switch metric {
	case MetricSupport, MetricConfidence, MetricLift, MetricLeverage, MetricConviction:
	default:
		return nil, mining.InvalidArgument("generate rules", "metric", metric)
	}

	support := make(map[string]float64, len(itemsets))
	for _, s := range itemsets {
		support[s.Key()] = s.Support
	}

	out := Table{}
	for _, s := range itemsets {
		if s.Len() < 2 {
			continue
		}
		for k := s.Len() - 1; k >= 1; k-- {
			combinations(s.Len(), k, func(pick []bool) {
				var ante, cons Items
				for i, it := range s.Items {
					if pick[i] {
						ante = append(ante, it)
					} else {
						cons = append(cons, it)
					}
				}
				sA, okA := support[mining.ItemsKey(ante)]
				sC, okC := support[mining.ItemsKey(cons)]
				if !okA || !okC {
					return
				}
				r := newRule(ante, cons, s.Support, sA, sC)
				if v, _ := r.Number(metric); v >= threshold {
					out = append(out, r)
				}
			})
		}
	}
	return out, nil
}

// combinations calls fn with every k-of-n selection in lexicographic order
// of the chosen positions.
func combinations(n, k int, fn func(pick []bool)) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	pick := make([]bool, n)
	for {
		for i := range pick {
			pick[i] = false
		}
		for _, i := range idx {
			pick[i] = true
		}
		fn(pick)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
