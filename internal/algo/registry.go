package algo

import (
	"fmt"
	"sort"
)

type Registry struct {
	algorithms map[string]func() Algorithm
}

func NewRegistry() *Registry {
	r := &Registry{
		algorithms: make(map[string]func() Algorithm),
	}

	r.algorithms["bubble-sort"] = BubbleSort
	r.algorithms["insertion-sort"] = InsertionSort
	r.algorithms["selection-sort"] = SelectionSort
	r.algorithms["merge-sort"] = MergeSort
	r.algorithms["quick-sort"] = QuickSort
	r.algorithms["shuffle"] = Shuffle

	r.algorithms["binary-search"] = BinarySearch
	r.algorithms["pair-sum"] = PairSum
	r.algorithms["max-window-sum"] = MaxWindowSum

	r.algorithms["bfs"] = BFS
	r.algorithms["dfs"] = DFS
	r.algorithms["topological-sort"] = TopologicalSort
	r.algorithms["dijkstra"] = Dijkstra
	r.algorithms["bellman-ford"] = BellmanFord
	r.algorithms["floyd-warshall"] = FloydWarshall

	r.algorithms["knapsack"] = Knapsack
	r.algorithms["lcs"] = LCS

	r.algorithms["union-find"] = UnionFind
	r.algorithms["hash-insert"] = HashInsert

	return r
}

// Register adds or replaces an algorithm under its own name.
func (r *Registry) Register(fn func() Algorithm) {
	r.algorithms[fn().Name()] = fn
}

func (r *Registry) Get(name string) (Algorithm, error) {
	fn, ok := r.algorithms[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", name)
	}
	return fn(), nil
}

// List returns algorithm names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.algorithms))
	for name := range r.algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByFamily groups algorithm names by family, each group sorted.
func (r *Registry) ByFamily() map[string][]string {
	groups := make(map[string][]string)
	for _, name := range r.List() {
		a := r.algorithms[name]()
		groups[a.Family()] = append(groups[a.Family()], name)
	}
	return groups
}
