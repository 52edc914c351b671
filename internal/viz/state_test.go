package viz

import (
	"errors"
	"testing"

	"github.com/san-kum/algoviz/internal/step"
)

func TestApplySwapAndCompare(t *testing.T) {
	s := State{Array: []int{3, 1, 2}}

	steps := []step.Step{
		{Kind: step.Compare, Indices: []int{0, 1}},
		{Kind: step.Swap, Indices: []int{0, 1}},
		{Kind: step.Write, Indices: []int{2}, Value: 9},
		{Kind: step.Mark, Indices: []int{2}},
		{Kind: step.Mark, Indices: []int{2, 0}},
	}
	for _, st := range steps {
		if err := s.Apply(st); err != nil {
			t.Fatalf("apply %v: %v", st, err)
		}
	}

	want := []int{1, 3, 9}
	for i := range want {
		if s.Array[i] != want[i] {
			t.Fatalf("array = %v, want %v", s.Array, want)
		}
	}
	if s.Comparisons != 1 || s.Swaps != 1 || s.Writes != 1 {
		t.Errorf("counters = %d/%d/%d, want 1/1/1", s.Comparisons, s.Swaps, s.Writes)
	}
	if len(s.Marked) != 2 {
		t.Errorf("marked = %v, want two distinct indices", s.Marked)
	}
	if s.Steps != len(steps) {
		t.Errorf("steps = %d, want %d", s.Steps, len(steps))
	}
}

func TestApplyGraphSteps(t *testing.T) {
	s := State{Nodes: []string{"A", "B"}}
	steps := []step.Step{
		{Kind: step.Discover, Node: "A"},
		{Kind: step.Visit, Node: "A"},
		{Kind: step.Discover, Node: "B", From: "A"},
		{Kind: step.Relax, Node: "B", From: "A", Value: 4},
	}
	for _, st := range steps {
		if err := s.Apply(st); err != nil {
			t.Fatalf("apply %v: %v", st, err)
		}
	}

	if len(s.Visited) != 1 || s.Visited[0] != "A" {
		t.Errorf("visited = %v", s.Visited)
	}
	if len(s.Frontier) != 1 || s.Frontier[0] != "B" {
		t.Errorf("frontier = %v", s.Frontier)
	}
	if s.Parent["B"] != "A" {
		t.Errorf("parent[B] = %q", s.Parent["B"])
	}
	if s.Dist["B"] != 4 {
		t.Errorf("dist[B] = %d", s.Dist["B"])
	}
}

func TestApplyRejectsBadSteps(t *testing.T) {
	tests := []struct {
		name  string
		state State
		step  step.Step
	}{
		{"swap out of range", State{Array: []int{1}}, step.Step{Kind: step.Swap, Indices: []int{0, 3}}},
		{"swap missing index", State{Array: []int{1, 2}}, step.Step{Kind: step.Swap, Indices: []int{0}}},
		{"cell out of range", State{Table: [][]int{{0}}}, step.Step{Kind: step.Cell, Indices: []int{1, 0}}},
		{"probe out of range", State{Slots: make([]Slot, 2)}, step.Step{Kind: step.Probe, Indices: []int{2}}},
		{"unknown kind", State{}, step.Step{Kind: "teleport"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.state.Steps
			err := tt.state.Apply(tt.step)
			var bad *BadStepError
			if !errors.As(err, &bad) {
				t.Fatalf("expected BadStepError, got %v", err)
			}
			if tt.state.Steps != before {
				t.Error("rejected step should not be counted")
			}
		})
	}
}

func TestApplyTerminal(t *testing.T) {
	s := State{}
	if err := s.Apply(step.Finish("all good")); err != nil {
		t.Fatal(err)
	}
	if s.Summary != "all good" {
		t.Errorf("summary = %q", s.Summary)
	}

	f := State{}
	if err := f.Apply(step.Fail("cycle detected")); err != nil {
		t.Fatal(err)
	}
	if f.Failure != "cycle detected" {
		t.Errorf("failure = %q", f.Failure)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := State{
		Array:    []int{1, 2},
		Pointers: map[string]int{"lo": 0},
		Dist:     map[string]int{"A": 0},
		Table:    [][]int{{1}},
		Slots:    []Slot{{Key: 1, Used: true}},
	}
	c := s.Clone()
	c.Array[0] = 9
	c.Pointers["lo"] = 5
	c.Dist["A"] = 7
	c.Table[0][0] = 9
	c.Slots[0].Key = 3

	if s.Array[0] != 1 || s.Pointers["lo"] != 0 || s.Dist["A"] != 0 || s.Table[0][0] != 1 || s.Slots[0].Key != 1 {
		t.Error("clone shares memory with the original")
	}
}

func TestFold(t *testing.T) {
	initial := State{Array: []int{2, 1}}
	final, err := Fold(initial, []step.Step{
		{Kind: step.Compare, Indices: []int{0, 1}},
		{Kind: step.Swap, Indices: []int{0, 1}},
		step.Finish("sorted"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if final.Array[0] != 1 || final.Array[1] != 2 {
		t.Errorf("final = %v", final.Array)
	}
	if initial.Array[0] != 2 {
		t.Error("fold must not mutate the initial state")
	}
}
