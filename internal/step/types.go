package step

import (
	"fmt"
	"math"
	"strings"
)

// Inf marks an unreachable distance in graph and matrix algorithms.
const Inf = math.MaxInt32

type Kind string

const (
	Compare  Kind = "compare"
	Swap     Kind = "swap"
	Write    Kind = "write"
	Mark     Kind = "mark"
	Pointer  Kind = "pointer"
	Window   Kind = "window"
	Discover Kind = "discover"
	Visit    Kind = "visit"
	Relax    Kind = "relax"
	Cell     Kind = "cell"
	Find     Kind = "find"
	Link     Kind = "link"
	Probe    Kind = "probe"
	Insert   Kind = "insert"
	Done     Kind = "done"
	Failed   Kind = "failed"
)

// Step is one atomic state change made by an algorithm.
//
// Field use depends on Kind:
//
//	compare, swap   Indices = [i, j]
//	write           Indices = [i], Value = new element
//	mark            Indices = positions that reached their final value
//	pointer         Label = pointer name, Indices = [position]
//	window          Indices = [lo, hi], Value = window sum
//	discover        Node, From = parent (may be empty)
//	visit           Node
//	relax           Node, From, Value = new distance
//	cell            Indices = [row, col], Value
//	find            Indices = path walked to the root
//	link            Indices = [child], Value = new parent
//	probe, insert   Indices = [slot], Value = key
//	done            Summary
//	failed          Reason
type Step struct {
	Kind    Kind   `json:"kind"`
	Indices []int  `json:"indices,omitempty"`
	Node    string `json:"node,omitempty"`
	From    string `json:"from,omitempty"`
	Value   int    `json:"value,omitempty"`
	Label   string `json:"label,omitempty"`
	Summary string `json:"summary,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Terminal reports whether s closes its sequence.
func (s Step) Terminal() bool {
	return s.Kind == Done || s.Kind == Failed
}

// Clone copies s so the result shares no slice with it.
func (s Step) Clone() Step {
	c := s
	if s.Indices != nil {
		c.Indices = append([]int(nil), s.Indices...)
	}
	return c
}

// Equal compares two steps field by field.
func (s Step) Equal(o Step) bool {
	if s.Kind != o.Kind || s.Node != o.Node || s.From != o.From || s.Value != o.Value ||
		s.Label != o.Label || s.Summary != o.Summary || s.Reason != o.Reason {
		return false
	}
	if len(s.Indices) != len(o.Indices) {
		return false
	}
	for i := range s.Indices {
		if s.Indices[i] != o.Indices[i] {
			return false
		}
	}
	return true
}

func (s Step) String() string {
	var b strings.Builder
	b.WriteString(string(s.Kind))
	if len(s.Indices) > 0 {
		fmt.Fprintf(&b, " %v", s.Indices)
	}
	if s.From != "" {
		fmt.Fprintf(&b, " %s->%s", s.From, s.Node)
	} else if s.Node != "" {
		fmt.Fprintf(&b, " %s", s.Node)
	}
	switch s.Kind {
	case Write, Relax, Cell, Link, Probe, Insert, Window:
		fmt.Fprintf(&b, " =%d", s.Value)
	}
	if s.Label != "" {
		fmt.Fprintf(&b, " (%s)", s.Label)
	}
	if s.Summary != "" {
		fmt.Fprintf(&b, ": %s", s.Summary)
	}
	if s.Reason != "" {
		fmt.Fprintf(&b, ": %s", s.Reason)
	}
	return b.String()
}

// Finish builds the terminal success step.
func Finish(format string, args ...any) Step {
	return Step{Kind: Done, Summary: fmt.Sprintf(format, args...)}
}

// Fail builds the terminal failure step.
func Fail(format string, args ...any) Step {
	return Step{Kind: Failed, Reason: fmt.Sprintf(format, args...)}
}

// Observer receives every step folded into a visualization.
type Observer interface {
	OnStep(s Step)
}

// Observers fans a step out to several observers.
type Observers []Observer

func (o Observers) OnStep(s Step) {
	for _, obs := range o {
		if obs != nil {
			obs.OnStep(s)
		}
	}
}
