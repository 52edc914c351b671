// Package viz holds the visualization state folded from algorithm steps.
//
// A State starts from an algorithm's initial snapshot and is advanced one
// step at a time with Apply. Renderers only ever see clones; the owning
// controller is the single writer.
package viz

import (
	"fmt"

	"github.com/san-kum/algoviz/internal/step"
)

// Slot is one hash table bucket.
type Slot struct {
	Key  int  `json:"key"`
	Used bool `json:"used"`
}

type State struct {
	Array     []int          `json:"array,omitempty"`
	Highlight []int          `json:"highlight,omitempty"`
	Marked    []int          `json:"marked,omitempty"`
	Pointers  map[string]int `json:"pointers,omitempty"`
	Window    []int          `json:"window,omitempty"`
	WindowSum int            `json:"window_sum,omitempty"`

	Nodes    []string          `json:"nodes,omitempty"`
	Frontier []string          `json:"frontier,omitempty"`
	Visited  []string          `json:"visited,omitempty"`
	Parent   map[string]string `json:"parent,omitempty"`
	Dist     map[string]int    `json:"dist,omitempty"`

	Table [][]int `json:"table,omitempty"`
	Slots []Slot  `json:"slots,omitempty"`

	Comparisons int `json:"comparisons"`
	Swaps       int `json:"swaps"`
	Writes      int `json:"writes"`
	Probes      int `json:"probes"`
	Steps       int `json:"steps"`

	Last    step.Step `json:"last"`
	Summary string    `json:"summary,omitempty"`
	Failure string    `json:"failure,omitempty"`
}

// BadStepError reports a step that does not fit the current state, such as
// an index past the end of the array.
type BadStepError struct {
	Step   step.Step
	Reason string
}

func (e *BadStepError) Error() string {
	return fmt.Sprintf("cannot apply %s: %s", e.Step, e.Reason)
}

func (s *State) index(st step.Step, i, n int) error {
	if i < 0 || i >= n {
		return &BadStepError{Step: st, Reason: fmt.Sprintf("index %d outside [0, %d)", i, n)}
	}
	return nil
}

func (s *State) need(st step.Step, n int) error {
	if len(st.Indices) < n {
		return &BadStepError{Step: st, Reason: fmt.Sprintf("expected %d indices, got %d", n, len(st.Indices))}
	}
	return nil
}

// Apply folds one step into the state. A step that does not fit leaves the
// state unchanged and returns a *BadStepError.
func (s *State) Apply(st step.Step) error {
	switch st.Kind {
	case step.Compare:
		if err := s.need(st, 1); err != nil {
			return err
		}
		s.Comparisons++
		s.Highlight = append(s.Highlight[:0], st.Indices...)

	case step.Swap:
		if err := s.need(st, 2); err != nil {
			return err
		}
		i, j := st.Indices[0], st.Indices[1]
		if err := s.index(st, i, len(s.Array)); err != nil {
			return err
		}
		if err := s.index(st, j, len(s.Array)); err != nil {
			return err
		}
		s.Array[i], s.Array[j] = s.Array[j], s.Array[i]
		s.Swaps++
		s.Highlight = append(s.Highlight[:0], i, j)

	case step.Write, step.Link:
		if err := s.need(st, 1); err != nil {
			return err
		}
		i := st.Indices[0]
		if err := s.index(st, i, len(s.Array)); err != nil {
			return err
		}
		s.Array[i] = st.Value
		s.Writes++
		s.Highlight = append(s.Highlight[:0], i)

	case step.Mark:
		for _, i := range st.Indices {
			if !contains(s.Marked, i) {
				s.Marked = append(s.Marked, i)
			}
		}

	case step.Pointer:
		if err := s.need(st, 1); err != nil {
			return err
		}
		if s.Pointers == nil {
			s.Pointers = make(map[string]int)
		}
		s.Pointers[st.Label] = st.Indices[0]

	case step.Window:
		if err := s.need(st, 2); err != nil {
			return err
		}
		s.Window = append(s.Window[:0], st.Indices[0], st.Indices[1])
		s.WindowSum = st.Value

	case step.Discover:
		s.Frontier = append(s.Frontier, st.Node)
		if st.From != "" {
			if s.Parent == nil {
				s.Parent = make(map[string]string)
			}
			s.Parent[st.Node] = st.From
		}

	case step.Visit:
		s.Visited = append(s.Visited, st.Node)
		for i, n := range s.Frontier {
			if n == st.Node {
				s.Frontier = append(s.Frontier[:i], s.Frontier[i+1:]...)
				break
			}
		}

	case step.Relax:
		if s.Dist == nil {
			s.Dist = make(map[string]int)
		}
		s.Dist[st.Node] = st.Value
		if st.From != "" {
			if s.Parent == nil {
				s.Parent = make(map[string]string)
			}
			s.Parent[st.Node] = st.From
		}

	case step.Cell:
		if err := s.need(st, 2); err != nil {
			return err
		}
		r, c := st.Indices[0], st.Indices[1]
		if err := s.index(st, r, len(s.Table)); err != nil {
			return err
		}
		if err := s.index(st, c, len(s.Table[r])); err != nil {
			return err
		}
		s.Table[r][c] = st.Value
		s.Writes++
		s.Highlight = append(s.Highlight[:0], r, c)

	case step.Find:
		s.Highlight = append(s.Highlight[:0], st.Indices...)

	case step.Probe:
		if err := s.need(st, 1); err != nil {
			return err
		}
		if err := s.index(st, st.Indices[0], len(s.Slots)); err != nil {
			return err
		}
		s.Probes++
		s.Highlight = append(s.Highlight[:0], st.Indices[0])

	case step.Insert:
		if err := s.need(st, 1); err != nil {
			return err
		}
		i := st.Indices[0]
		if err := s.index(st, i, len(s.Slots)); err != nil {
			return err
		}
		s.Slots[i] = Slot{Key: st.Value, Used: true}
		s.Writes++

	case step.Done:
		s.Summary = st.Summary
		s.Highlight = s.Highlight[:0]

	case step.Failed:
		s.Failure = st.Reason

	default:
		return &BadStepError{Step: st, Reason: "unknown step kind"}
	}

	s.Steps++
	s.Last = st
	return nil
}

func contains(a []int, v int) bool {
	for _, x := range a {
		if x == v {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to renderers.
func (s State) Clone() State {
	c := s
	c.Array = cloneInts(s.Array)
	c.Highlight = cloneInts(s.Highlight)
	c.Marked = cloneInts(s.Marked)
	c.Window = cloneInts(s.Window)
	c.Nodes = cloneStrings(s.Nodes)
	c.Frontier = cloneStrings(s.Frontier)
	c.Visited = cloneStrings(s.Visited)
	c.Last = s.Last.Clone()
	if s.Pointers != nil {
		c.Pointers = make(map[string]int, len(s.Pointers))
		for k, v := range s.Pointers {
			c.Pointers[k] = v
		}
	}
	if s.Parent != nil {
		c.Parent = make(map[string]string, len(s.Parent))
		for k, v := range s.Parent {
			c.Parent[k] = v
		}
	}
	if s.Dist != nil {
		c.Dist = make(map[string]int, len(s.Dist))
		for k, v := range s.Dist {
			c.Dist[k] = v
		}
	}
	if s.Table != nil {
		c.Table = make([][]int, len(s.Table))
		for i, row := range s.Table {
			c.Table[i] = cloneInts(row)
		}
	}
	if s.Slots != nil {
		c.Slots = append([]Slot(nil), s.Slots...)
	}
	return c
}

func cloneInts(s []int) []int {
	if s == nil {
		return nil
	}
	return append([]int(nil), s...)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// Fold applies steps in order to initial and returns the result. It stops at
// the first step that does not fit.
func Fold(initial State, steps []step.Step) (State, error) {
	s := initial.Clone()
	for _, st := range steps {
		if err := s.Apply(st); err != nil {
			return s, err
		}
	}
	return s, nil
}
