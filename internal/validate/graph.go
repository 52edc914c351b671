package validate

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/algoviz/internal/step"
)

// Edge is a directed, weighted edge. Unweighted graphs use weight 1.
type Edge struct {
	To     string
	Weight int
}

// Graph is a directed graph with deterministic node and edge order: nodes
// are sorted by name, edges keep the order they were written in (weighted
// maps, which carry no order, are sorted by target name).
type Graph struct {
	Nodes    []string
	Adj      map[string][]Edge
	Weighted bool
}

func (g *Graph) Has(node string) bool {
	_, ok := g.Adj[node]
	return ok
}

func (g *Graph) Neighbors(node string) []Edge {
	return g.Adj[node]
}

// Index returns the position of node in Nodes, or -1.
func (g *Graph) Index(node string) int {
	i := sort.SearchStrings(g.Nodes, node)
	if i < len(g.Nodes) && g.Nodes[i] == node {
		return i
	}
	return -1
}

func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.Adj {
		n += len(edges)
	}
	return n
}

func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes:    append([]string(nil), g.Nodes...),
		Adj:      make(map[string][]Edge, len(g.Adj)),
		Weighted: g.Weighted,
	}
	for k, edges := range g.Adj {
		c.Adj[k] = append([]Edge(nil), edges...)
	}
	return c
}

// ParseGraph accepts a JSON adjacency list {"A":["B","C"]} or a weighted
// adjacency map {"A":{"B":4}}.
func ParseGraph(field, raw string) (*Graph, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, newError(EmptyInput, field, "a graph is required")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, wrapError(MalformedStructure, field, err, "graph must be a JSON object of adjacency lists")
	}
	if len(probe) == 0 {
		return nil, newError(EmptyInput, field, "graph has no nodes")
	}

	g := &Graph{Adj: make(map[string][]Edge, len(probe))}
	for node, body := range probe {
		if strings.TrimSpace(node) == "" {
			return nil, newError(MalformedStructure, field, "node names cannot be empty")
		}
		edges, weighted, err := parseEdges(field, node, body)
		if err != nil {
			return nil, err
		}
		g.Weighted = g.Weighted || weighted
		g.Adj[node] = edges
	}

	for _, edges := range g.Adj {
		for _, e := range edges {
			if _, ok := g.Adj[e.To]; !ok {
				g.Adj[e.To] = nil
			}
		}
	}
	g.Nodes = make([]string, 0, len(g.Adj))
	for node := range g.Adj {
		g.Nodes = append(g.Nodes, node)
	}
	sort.Strings(g.Nodes)
	return g, nil
}

func parseEdges(field, node string, body json.RawMessage) ([]Edge, bool, error) {
	trimmed := bytes.TrimSpace(body)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return nil, false, nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var targets []string
		if err := json.Unmarshal(trimmed, &targets); err != nil {
			return nil, false, wrapError(MalformedStructure, field, err, "neighbors of %q must be a list of node names", node)
		}
		edges := make([]Edge, 0, len(targets))
		for _, to := range targets {
			if strings.TrimSpace(to) == "" {
				return nil, false, newError(MalformedStructure, field, "node names cannot be empty")
			}
			edges = append(edges, Edge{To: to, Weight: 1})
		}
		return edges, false, nil
	case len(trimmed) > 0 && trimmed[0] == '{':
		var weights map[string]json.Number
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&weights); err != nil {
			return nil, false, wrapError(MalformedStructure, field, err, "neighbors of %q must map node names to weights", node)
		}
		targets := make([]string, 0, len(weights))
		for to := range weights {
			targets = append(targets, to)
		}
		sort.Strings(targets)
		edges := make([]Edge, 0, len(targets))
		for _, to := range targets {
			if strings.TrimSpace(to) == "" {
				return nil, false, newError(MalformedStructure, field, "node names cannot be empty")
			}
			w, err := strconv.Atoi(weights[to].String())
			if err != nil {
				return nil, false, wrapError(NotANumber, field, err, "weight %s->%s is not an integer", node, to)
			}
			if w > MaxMagnitude || w < -MaxMagnitude {
				return nil, false, newError(OutOfBounds, field, "weight %d on edge %s->%s is outside [%d, %d]", w, node, to, -MaxMagnitude, MaxMagnitude)
			}
			edges = append(edges, Edge{To: to, Weight: w})
		}
		return edges, true, nil
	default:
		return nil, false, newError(MalformedStructure, field, "neighbors of %q must be a list or an object", node)
	}
}

// GraphField parses the graph stored in field.
func GraphField(in Input, field string) (*Graph, error) {
	return ParseGraph(field, in.Get(field))
}

// StartNode reads a start node and checks that g contains it.
func StartNode(in Input, field string, g *Graph) (string, error) {
	start := in.Get(field)
	if start == "" {
		return "", newError(EmptyInput, field, "a start node is required")
	}
	if !g.Has(start) {
		return "", newError(OutOfBounds, field, "node %q is not in the graph", start)
	}
	return start, nil
}

// NoNegativeWeights rejects graphs with negative edge weights.
func NoNegativeWeights(field string, g *Graph) error {
	for _, node := range g.Nodes {
		for _, e := range g.Adj[node] {
			if e.Weight < 0 {
				return newError(ConstraintViolation, field, "negative weight %d on edge %s->%s", e.Weight, node, e.To)
			}
		}
	}
	return nil
}

// Matrix parses a square integer matrix. Rows are separated by ';' or
// newlines, entries by commas or spaces. "inf" (or "x") marks a missing edge.
func Matrix(in Input, field string) ([][]int, error) {
	raw := in.Get(field)
	if raw == "" {
		return nil, newError(EmptyInput, field, "a matrix is required")
	}
	rows := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '\n' })
	m := make([][]int, 0, len(rows))
	for r, row := range rows {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		cells := strings.FieldsFunc(row, func(c rune) bool { return c == ',' || c == ' ' || c == '\t' })
		vals := make([]int, 0, len(cells))
		for _, cell := range cells {
			switch strings.ToLower(cell) {
			case "inf", "x", "∞":
				vals = append(vals, step.Inf)
				continue
			}
			v, err := strconv.Atoi(cell)
			if err != nil {
				return nil, wrapError(NotANumber, field, err, "row %d: %q is not a number", r+1, cell)
			}
			if v > MaxMagnitude || v < -MaxMagnitude {
				return nil, newError(OutOfBounds, field, "row %d: %d is outside [%d, %d]", r+1, v, -MaxMagnitude, MaxMagnitude)
			}
			vals = append(vals, v)
		}
		m = append(m, vals)
	}
	if len(m) == 0 {
		return nil, newError(EmptyInput, field, "a matrix is required")
	}
	for i, row := range m {
		if len(row) != len(m) {
			return nil, newError(MalformedStructure, field, "matrix must be square: row %d has %d entries, expected %d", i+1, len(row), len(m))
		}
	}
	return m, nil
}
