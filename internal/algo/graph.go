package algo

import (
	"container/heap"
	"fmt"
	"strings"

	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/validate"
	"github.com/san-kum/algoviz/internal/viz"
)

const graphExample = `{"A":["B","C"],"B":["D"],"C":["D","E"],"D":["F"],"E":["F"],"F":[]}`

const weightedExample = `{"A":{"B":4,"C":1},"B":{"D":1},"C":{"B":2,"D":5},"D":{}}`

func graphInput(in validate.Input) (validate.Params, error) {
	g, err := validate.GraphField(in, validate.FieldGraph)
	if err != nil {
		return validate.Params{}, err
	}
	if err := validate.AtMost(validate.FieldGraph, len(g.Nodes), maxArrayLen); err != nil {
		return validate.Params{}, err
	}
	return validate.Params{Graph: g}, nil
}

func graphStartInput(in validate.Input) (validate.Params, error) {
	p, err := graphInput(in)
	if err != nil {
		return p, err
	}
	if p.Start, err = validate.StartNode(in, validate.FieldStart, p.Graph); err != nil {
		return p, err
	}
	return p, nil
}

func graphState(p validate.Params) viz.State {
	return viz.State{Nodes: p.Graph.Nodes}
}

func distState(p validate.Params) viz.State {
	s := graphState(p)
	s.Dist = make(map[string]int, len(p.Graph.Nodes))
	for _, n := range p.Graph.Nodes {
		s.Dist[n] = step.Inf
	}
	return s
}

func discover(node, from string) step.Step {
	return step.Step{Kind: step.Discover, Node: node, From: from}
}

func visit(node string) step.Step {
	return step.Step{Kind: step.Visit, Node: node}
}

func relax(node, from string, d int) step.Step {
	return step.Step{Kind: step.Relax, Node: node, From: from, Value: d}
}

func BFS() Algorithm {
	return &definition{
		name:     "bfs",
		family:   FamilyGraph,
		fields:   []string{validate.FieldGraph, validate.FieldStart},
		tieBreak: "FIFO queue; neighbours are enqueued in adjacency-list order",
		example: validate.Input{
			validate.FieldGraph: graphExample,
			validate.FieldStart: "A",
		},
		validate: graphStartInput,
		initial:  graphState,
		steps:    bfsSteps,
	}
}

func bfsSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		g := p.Graph
		seen := map[string]bool{p.Start: true}
		queue := []string{p.Start}
		order := make([]string, 0, len(g.Nodes))
		if !yield(discover(p.Start, "")) {
			return
		}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			order = append(order, u)
			if !yield(visit(u)) {
				return
			}
			for _, e := range g.Neighbors(u) {
				if seen[e.To] {
					continue
				}
				seen[e.To] = true
				queue = append(queue, e.To)
				if !yield(discover(e.To, u)) {
					return
				}
			}
		}
		yield(step.Finish("visited %d of %d nodes: %s", len(order), len(g.Nodes), strings.Join(order, " ")))
	}
}

func DFS() Algorithm {
	return &definition{
		name:     "dfs",
		family:   FamilyGraph,
		fields:   []string{validate.FieldGraph, validate.FieldStart},
		tieBreak: "recursive; neighbours are explored in adjacency-list order",
		example: validate.Input{
			validate.FieldGraph: graphExample,
			validate.FieldStart: "A",
		},
		validate: graphStartInput,
		initial:  graphState,
		steps:    dfsSteps,
	}
}

func dfsSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		g := p.Graph
		seen := map[string]bool{p.Start: true}
		order := make([]string, 0, len(g.Nodes))

		var walk func(u string) bool
		walk = func(u string) bool {
			order = append(order, u)
			if !yield(visit(u)) {
				return false
			}
			for _, e := range g.Neighbors(u) {
				if seen[e.To] {
					continue
				}
				seen[e.To] = true
				if !yield(discover(e.To, u)) || !walk(e.To) {
					return false
				}
			}
			return true
		}

		if !yield(discover(p.Start, "")) || !walk(p.Start) {
			return
		}
		yield(step.Finish("visited %d of %d nodes: %s", len(order), len(g.Nodes), strings.Join(order, " ")))
	}
}

func TopologicalSort() Algorithm {
	return &definition{
		name:     "topological-sort",
		family:   FamilyGraph,
		fields:   []string{validate.FieldGraph},
		tieBreak: "Kahn's algorithm; the ready queue is FIFO, seeded in node-name order",
		example: validate.Input{
			validate.FieldGraph: graphExample,
		},
		validate: graphInput,
		initial:  graphState,
		steps:    topoSteps,
	}
}

func topoSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		g := p.Graph
		indeg := make(map[string]int, len(g.Nodes))
		for _, u := range g.Nodes {
			for _, e := range g.Neighbors(u) {
				indeg[e.To]++
			}
		}

		var ready []string
		for _, u := range g.Nodes {
			if indeg[u] == 0 {
				ready = append(ready, u)
				if !yield(discover(u, "")) {
					return
				}
			}
		}

		order := make([]string, 0, len(g.Nodes))
		for len(ready) > 0 {
			u := ready[0]
			ready = ready[1:]
			order = append(order, u)
			if !yield(visit(u)) {
				return
			}
			for _, e := range g.Neighbors(u) {
				indeg[e.To]--
				if indeg[e.To] == 0 {
					ready = append(ready, e.To)
					if !yield(discover(e.To, u)) {
						return
					}
				}
			}
		}

		if len(order) < len(g.Nodes) {
			yield(step.Fail("cycle detected"))
			return
		}
		yield(step.Finish("order: %s", strings.Join(order, " ")))
	}
}

type distItem struct {
	node string
	dist int
}

// distQueue is a min-heap ordered by distance, then node name.
type distQueue []distItem

func (q distQueue) Len() int { return len(q) }
func (q distQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].node < q[j].node
}
func (q distQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x any)   { *q = append(*q, x.(distItem)) }
func (q *distQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

func Dijkstra() Algorithm {
	return &definition{
		name:     "dijkstra",
		family:   FamilyGraph,
		fields:   []string{validate.FieldGraph, validate.FieldStart},
		tieBreak: "nodes at equal distance are settled in name order; a distance only improves on strict <",
		example: validate.Input{
			validate.FieldGraph: weightedExample,
			validate.FieldStart: "A",
		},
		validate: func(in validate.Input) (validate.Params, error) {
			p, err := graphStartInput(in)
			if err != nil {
				return p, err
			}
			return p, validate.NoNegativeWeights(validate.FieldGraph, p.Graph)
		},
		initial: distState,
		steps:   dijkstraSteps,
	}
}

func dijkstraSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		g := p.Graph
		dist := infDistances(g)
		done := make(map[string]bool, len(g.Nodes))

		dist[p.Start] = 0
		if !yield(relax(p.Start, "", 0)) {
			return
		}
		q := &distQueue{{node: p.Start}}
		for q.Len() > 0 {
			it := heap.Pop(q).(distItem)
			if done[it.node] || it.dist > dist[it.node] {
				continue
			}
			done[it.node] = true
			if !yield(visit(it.node)) {
				return
			}
			for _, e := range g.Neighbors(it.node) {
				nd := it.dist + e.Weight
				if nd < dist[e.To] {
					dist[e.To] = nd
					heap.Push(q, distItem{node: e.To, dist: nd})
					if !yield(relax(e.To, it.node, nd)) {
						return
					}
				}
			}
		}
		yield(step.Finish("distances: %s", formatDistances(g, dist)))
	}
}

func BellmanFord() Algorithm {
	return &definition{
		name:     "bellman-ford",
		family:   FamilyGraph,
		fields:   []string{validate.FieldGraph, validate.FieldStart},
		tieBreak: "edges are relaxed in node-name then adjacency order; a distance only improves on strict <",
		example: validate.Input{
			validate.FieldGraph: `{"A":{"B":4,"C":5},"B":{"D":-2},"C":{"B":-3},"D":{}}`,
			validate.FieldStart: "A",
		},
		validate: graphStartInput,
		initial:  distState,
		steps:    bellmanFordSteps,
	}
}

func bellmanFordSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		g := p.Graph
		dist := infDistances(g)
		dist[p.Start] = 0
		if !yield(relax(p.Start, "", 0)) {
			return
		}

		for round := 1; round < len(g.Nodes); round++ {
			if !yield(step.Step{Kind: step.Pointer, Label: "round", Indices: []int{round}}) {
				return
			}
			changed := false
			for _, u := range g.Nodes {
				if dist[u] == step.Inf {
					continue
				}
				for _, e := range g.Neighbors(u) {
					nd := dist[u] + e.Weight
					if nd < dist[e.To] {
						dist[e.To] = nd
						changed = true
						if !yield(relax(e.To, u, nd)) {
							return
						}
					}
				}
			}
			if !changed {
				break
			}
		}

		for _, u := range g.Nodes {
			if dist[u] == step.Inf {
				continue
			}
			for _, e := range g.Neighbors(u) {
				if dist[u]+e.Weight < dist[e.To] {
					yield(step.Fail("negative cycle detected"))
					return
				}
			}
		}
		yield(step.Finish("distances: %s", formatDistances(g, dist)))
	}
}

func FloydWarshall() Algorithm {
	return &definition{
		name:     "floyd-warshall",
		family:   FamilyGraph,
		fields:   []string{validate.FieldMatrix},
		tieBreak: "intermediate vertices in index order; an entry only improves on strict <",
		example: validate.Input{
			validate.FieldMatrix: "0,3,inf,7; 8,0,2,inf; 5,inf,0,1; 2,inf,inf,0",
		},
		validate: func(in validate.Input) (validate.Params, error) {
			m, err := validate.Matrix(in, validate.FieldMatrix)
			if err != nil {
				return validate.Params{}, err
			}
			if err := validate.AtMost(validate.FieldMatrix, len(m), maxMatrixLen); err != nil {
				return validate.Params{}, err
			}
			return validate.Params{Matrix: m}, nil
		},
		initial: func(p validate.Params) viz.State {
			return viz.State{Table: p.Matrix}
		},
		steps: floydSteps,
	}
}

func floydSteps(p validate.Params) step.Seq {
	return func(yield func(step.Step) bool) {
		d := p.Matrix
		n := len(d)
		for k := 0; k < n; k++ {
			if !yield(step.Step{Kind: step.Pointer, Label: "k", Indices: []int{k}}) {
				return
			}
			for i := 0; i < n; i++ {
				if d[i][k] == step.Inf {
					continue
				}
				for j := 0; j < n; j++ {
					if d[k][j] == step.Inf {
						continue
					}
					if nd := d[i][k] + d[k][j]; nd < d[i][j] {
						d[i][j] = nd
						if !yield(step.Step{Kind: step.Cell, Indices: []int{i, j}, Value: nd}) {
							return
						}
					}
				}
			}
		}
		for i := 0; i < n; i++ {
			if d[i][i] < 0 {
				yield(step.Fail("negative cycle detected"))
				return
			}
		}
		yield(step.Finish("all-pairs shortest paths for %d nodes", n))
	}
}

func infDistances(g *validate.Graph) map[string]int {
	dist := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		dist[n] = step.Inf
	}
	return dist
}

func formatDistances(g *validate.Graph, dist map[string]int) string {
	parts := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if dist[n] == step.Inf {
			parts = append(parts, n+"=inf")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", n, dist[n]))
	}
	return strings.Join(parts, " ")
}
