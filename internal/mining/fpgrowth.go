package mining

import "sort"

type fpNode struct {
	item     int
	count    int
	parent   *fpNode
	children map[int]*fpNode
}

// fpTree is a prefix tree of transactions whose items are ordered by
// descending global frequency. links holds every node of an item.
type fpTree struct {
	root  *fpNode
	links map[int][]*fpNode
	// items in the tree, least frequent first
	items []int
	rank  map[int]int
}

func newFPTree(rank map[int]int) *fpTree {
	return &fpTree{
		root:  &fpNode{item: -1, children: map[int]*fpNode{}},
		links: map[int][]*fpNode{},
		rank:  rank,
	}
}

func (t *fpTree) insert(path []int, count int) {
	n := t.root
	for _, it := range path {
		child, ok := n.children[it]
		if !ok {
			child = &fpNode{item: it, parent: n, children: map[int]*fpNode{}}
			n.children[it] = child
			t.links[it] = append(t.links[it], child)
		}
		child.count += count
		n = child
	}
}

// FPGrowth mines every itemset with support >= minSupport by frequent-pattern
// growth. minSupport may be 0, in which case every itemset occurring in at
// least one transaction is returned.
func FPGrowth(m *Matrix, minSupport float64) ([]Itemset, error) {
	if err := checkSupport("fpgrowth", minSupport); err != nil {
		return nil, err
	}
	if m.NumRows() == 0 {
		return []Itemset{}, nil
	}
	sc := supportCounter{n: m.NumRows(), minSupport: minSupport}

	counts := columnCounts(m)
	var frequent []int
	for j, c := range counts {
		if sc.frequent(c) {
			frequent = append(frequent, j)
		}
	}
	// rank orders items by descending count, ties by column order
	sort.SliceStable(frequent, func(a, b int) bool { return counts[frequent[a]] > counts[frequent[b]] })
	rank := make(map[int]int, len(frequent))
	for r, j := range frequent {
		rank[j] = r
	}

	paths := make([][]int, 0, m.NumRows())
	weights := make([]int, 0, m.NumRows())
	for _, row := range m.Rows {
		var path []int
		for j, v := range row {
			if v {
				if _, ok := rank[j]; ok {
					path = append(path, j)
				}
			}
		}
		if len(path) == 0 {
			continue
		}
		paths = append(paths, path)
		weights = append(weights, 1)
	}

	var out []Itemset
	tree := buildFPTree(paths, weights, rank, sc)
	mineFPTree(tree, nil, sc, func(idx []int, count int) {
		out = append(out, sc.itemset(m, idx, count))
	})
	if out == nil {
		out = []Itemset{}
	}
	sortItemsets(out)
	return out, nil
}

// buildFPTree inserts weighted paths, keeping only items frequent within
// this base, in rank order.
func buildFPTree(paths [][]int, weights []int, rank map[int]int, sc supportCounter) *fpTree {
	local := map[int]int{}
	for i, p := range paths {
		for _, it := range p {
			local[it] += weights[i]
		}
	}
	t := newFPTree(rank)
	for it, c := range local {
		if sc.frequent(c) {
			t.items = append(t.items, it)
		}
	}
	sort.Slice(t.items, func(a, b int) bool { return rank[t.items[a]] > rank[t.items[b]] })

	for i, p := range paths {
		kept := make([]int, 0, len(p))
		for _, it := range p {
			if sc.frequent(local[it]) {
				kept = append(kept, it)
			}
		}
		sort.Slice(kept, func(a, b int) bool { return rank[kept[a]] < rank[kept[b]] })
		if len(kept) > 0 {
			t.insert(kept, weights[i])
		}
	}
	return t
}

func mineFPTree(t *fpTree, suffix []int, sc supportCounter, emit func([]int, int)) {
	for _, it := range t.items {
		count := 0
		for _, n := range t.links[it] {
			count += n.count
		}
		set := append(append([]int(nil), suffix...), it)
		emit(set, count)

		var paths [][]int
		var weights []int
		for _, n := range t.links[it] {
			var path []int
			for p := n.parent; p != nil && p.item >= 0; p = p.parent {
				path = append(path, p.item)
			}
			if len(path) == 0 {
				continue
			}
			paths = append(paths, path)
			weights = append(weights, n.count)
		}
		if len(paths) == 0 {
			continue
		}
		cond := buildFPTree(paths, weights, t.rank, sc)
		mineFPTree(cond, set, sc, emit)
	}
}
