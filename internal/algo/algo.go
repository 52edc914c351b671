// Package algo is the algorithm catalogue. Every algorithm validates its own
// raw input, describes its initial visualization and produces its steps
// lazily as a step.Seq.
package algo

import (
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/validate"
	"github.com/san-kum/algoviz/internal/viz"
)

// Families group algorithms by the kind of state they animate.
const (
	FamilySorting   = "sorting"
	FamilySearching = "searching"
	FamilyGraph     = "graph"
	FamilyDP        = "dynamic-programming"
	FamilyDisjoint  = "disjoint-set"
	FamilyHashing   = "hashing"
)

// Size limits keep step counts and tables small enough to animate.
const (
	maxArrayLen  = 200
	maxMatrixLen = 30
	maxCapacity  = 1000
	maxItems     = 50
	maxTextLen   = 200
	maxSlots     = 200
)

type Algorithm interface {
	Name() string
	Family() string
	// Fields lists the raw input fields Validate reads.
	Fields() []string
	// TieBreak describes how equal candidates are ordered, which is what
	// makes the step sequence deterministic.
	TieBreak() string
	// Example returns a ready-to-run input.
	Example() validate.Input
	Validate(in validate.Input) (validate.Params, error)
	Initial(p validate.Params) viz.State
	// Steps returns a fresh sequence. Calling it twice with the same params
	// yields identical sequences.
	Steps(p validate.Params) step.Seq
}

type definition struct {
	name     string
	family   string
	fields   []string
	tieBreak string
	example  validate.Input
	validate func(validate.Input) (validate.Params, error)
	initial  func(validate.Params) viz.State
	steps    func(validate.Params) step.Seq
}

func (d *definition) Name() string     { return d.name }
func (d *definition) Family() string   { return d.family }
func (d *definition) TieBreak() string { return d.tieBreak }

func (d *definition) Fields() []string {
	return append([]string(nil), d.fields...)
}

func (d *definition) Example() validate.Input {
	return d.example.Clone()
}

func (d *definition) Validate(in validate.Input) (validate.Params, error) {
	return d.validate(in)
}

func (d *definition) Initial(p validate.Params) viz.State {
	return d.initial(p.Clone())
}

// Steps hands the generator its own copy of p so that running it never
// mutates validated input.
func (d *definition) Steps(p validate.Params) step.Seq {
	gen := d.steps
	return func(yield func(step.Step) bool) {
		gen(p.Clone())(yield)
	}
}

func arrayState(p validate.Params) viz.State {
	return viz.State{Array: p.Array}
}

func compare(i, j int) step.Step {
	return step.Step{Kind: step.Compare, Indices: []int{i, j}}
}

func swap(i, j int) step.Step {
	return step.Step{Kind: step.Swap, Indices: []int{i, j}}
}

func write(i, v int) step.Step {
	return step.Step{Kind: step.Write, Indices: []int{i}, Value: v}
}

func mark(idx ...int) step.Step {
	return step.Step{Kind: step.Mark, Indices: idx}
}

func pointer(label string, i int) step.Step {
	return step.Step{Kind: step.Pointer, Label: label, Indices: []int{i}}
}

func span(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}
