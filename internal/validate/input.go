package validate

import (
	"sort"
	"strconv"
	"strings"
)

// Raw input field names.
const (
	FieldArray    = "array"
	FieldTarget   = "target"
	FieldWindow   = "window"
	FieldWeights  = "weights"
	FieldValues   = "values"
	FieldCapacity = "capacity"
	FieldGraph    = "graph"
	FieldStart    = "start"
	FieldMatrix   = "matrix"
	FieldSize     = "size"
	FieldPairs    = "pairs"
	FieldKeys     = "keys"
	FieldFirst    = "first"
	FieldSecond   = "second"
	FieldSeed     = "seed"
)

// Input is the raw, unvalidated text a user supplied, keyed by field name.
type Input map[string]string

func (in Input) Get(field string) string {
	if in == nil {
		return ""
	}
	return strings.TrimSpace(in[field])
}

func (in Input) Clone() Input {
	c := make(Input, len(in))
	for k, v := range in {
		c[k] = v
	}
	return c
}

// Keys returns the field names in sorted order.
func (in Input) Keys() []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Params holds typed, validated algorithm parameters. Only the fields an
// algorithm declares are populated.
type Params struct {
	Array    []int
	Target   int
	Window   int
	Weights  []int
	Values   []int
	Capacity int
	Graph    *Graph
	Start    string
	Matrix   [][]int
	Size     int
	Pairs    [][2]int
	Keys     []int
	First    string
	Second   string
	Seed     int64
}

// Clone returns a deep copy so emitters can never mutate validated input.
func (p Params) Clone() Params {
	c := p
	c.Array = cloneInts(p.Array)
	c.Weights = cloneInts(p.Weights)
	c.Values = cloneInts(p.Values)
	c.Keys = cloneInts(p.Keys)
	if p.Matrix != nil {
		c.Matrix = make([][]int, len(p.Matrix))
		for i, row := range p.Matrix {
			c.Matrix[i] = cloneInts(row)
		}
	}
	if p.Pairs != nil {
		c.Pairs = append([][2]int(nil), p.Pairs...)
	}
	if p.Graph != nil {
		c.Graph = p.Graph.Clone()
	}
	return c
}

func cloneInts(s []int) []int {
	if s == nil {
		return nil
	}
	return append([]int(nil), s...)
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == ';'
	})
}

// Ints parses a comma or whitespace separated list of integers, with
// optional surrounding brackets.
func Ints(in Input, field string) ([]int, error) {
	raw := in.Get(field)
	if raw == "" {
		return nil, newError(EmptyInput, field, "a list of numbers is required")
	}
	tokens := splitList(raw)
	if len(tokens) == 0 {
		return nil, newError(EmptyInput, field, "a list of numbers is required")
	}
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, wrapError(NotANumber, field, err, "%q is not a number", tok)
		}
		out = append(out, v)
	}
	return out, nil
}

// Int parses a required integer field.
func Int(in Input, field string) (int, error) {
	raw := in.Get(field)
	if raw == "" {
		return 0, newError(EmptyInput, field, "a number is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, wrapError(NotANumber, field, err, "%q is not a number", raw)
	}
	return v, nil
}

// OptionalInt parses an integer field, returning def when it is absent.
func OptionalInt(in Input, field string, def int) (int, error) {
	if in.Get(field) == "" {
		return def, nil
	}
	return Int(in, field)
}

// Text returns a required free-text field.
func Text(in Input, field string) (string, error) {
	raw := in.Get(field)
	if raw == "" {
		return "", newError(EmptyInput, field, "a value is required")
	}
	return raw, nil
}

// Pairs parses index pairs written as "0-1, 2-3" or "0 1; 2 3".
func Pairs(in Input, field string) ([][2]int, error) {
	raw := in.Get(field)
	if raw == "" {
		return nil, newError(EmptyInput, field, "at least one pair is required")
	}
	chunks := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || r == '\n' })
	out := make([][2]int, 0, len(chunks))
	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		parts := splitPair(chunk)
		if len(parts) != 2 {
			return nil, newError(MalformedStructure, field, "%q is not a pair like 0-1", chunk)
		}
		var pair [2]int
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, wrapError(NotANumber, field, err, "%q is not a number", p)
			}
			pair[i] = v
		}
		out = append(out, pair)
	}
	if len(out) == 0 {
		return nil, newError(EmptyInput, field, "at least one pair is required")
	}
	return out, nil
}

// splitPair separates "a-b", "a:b" or "a b". A leading minus belongs to the
// first number.
func splitPair(chunk string) []string {
	if parts := strings.Fields(chunk); len(parts) == 2 {
		return parts
	}
	if i := strings.Index(chunk, ":"); i > 0 {
		return []string{chunk[:i], chunk[i+1:]}
	}
	if i := strings.Index(chunk[1:], "-"); i >= 0 {
		return []string{chunk[:i+1], chunk[i+2:]}
	}
	return nil
}
