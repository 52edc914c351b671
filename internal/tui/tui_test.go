package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/controller"
	"github.com/san-kum/algoviz/internal/scheduler"
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/viz"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func refresh(m Model) Model {
	next, _ := m.Update(SnapshotMsg(m.ctrl.CurrentState()))
	return next.(Model)
}

func TestRenderArray(t *testing.T) {
	v := viz.State{
		Array:     []int{3, -1, 0},
		Highlight: []int{0},
		Pointers:  map[string]int{"pivot": 2},
	}
	out := Render(v, NewStyles(ThemeDefault))
	for _, want := range []string{"3", "-1", "pivot"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderGraphAndTable(t *testing.T) {
	v := viz.State{
		Nodes:   []string{"A", "B"},
		Visited: []string{"A"},
		Dist:    map[string]int{"A": 0, "B": step.Inf},
		Table:   [][]int{{0, step.Inf}, {2, 0}},
	}
	out := Render(v, NewStyles(ThemeDefault))
	if !strings.Contains(out, "∞") {
		t.Errorf("unreachable distance should render as ∞:\n%s", out)
	}
	if !strings.Contains(out, "order: A") {
		t.Errorf("missing visit order:\n%s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	if out := Render(viz.State{}, NewStyles(ThemeDefault)); !strings.Contains(out, "nothing") {
		t.Errorf("unexpected empty render: %q", out)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "default" {
		t.Error("unknown theme should fall back to default")
	}
	seen := map[string]bool{}
	th := ThemeDefault
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) {
		t.Errorf("NextTheme should cycle through all themes, saw %v", seen)
	}
}

func TestModelManualRun(t *testing.T) {
	reg := algo.NewRegistry()
	alg, _ := reg.Get("bubble-sort")
	c := controller.New(alg, controller.WithMode(scheduler.Manual))
	m := NewModel(c, reg, alg.Example(), "default")
	defer m.Close()

	m = refresh(press(t, m, "enter"))
	if c.State() != controller.Running {
		t.Fatalf("expected Running after enter, got %s", c.State())
	}
	if !strings.Contains(m.View(), "RUNNING") {
		t.Error("status label should show RUNNING")
	}

	m = refresh(press(t, m, "n", "n"))
	if m.snap.View.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", m.snap.View.Steps)
	}

	m = refresh(press(t, m, " "))
	if c.State() != controller.Paused || !strings.Contains(m.View(), "PAUSED") {
		t.Errorf("expected Paused, got %s", c.State())
	}
	m = refresh(press(t, m, " "))
	if c.State() != controller.Running {
		t.Errorf("expected Running after resume, got %s", c.State())
	}

	m = refresh(press(t, m, "r"))
	if c.State() != controller.Idle || !strings.Contains(m.View(), "IDLE") {
		t.Errorf("expected Idle after reset, got %s", c.State())
	}
}

func TestModelMisuseNotice(t *testing.T) {
	reg := algo.NewRegistry()
	alg, _ := reg.Get("bfs")
	c := controller.New(alg, controller.WithMode(scheduler.Manual))
	m := NewModel(c, reg, alg.Example(), "default")
	defer m.Close()

	m = press(t, m, "n")
	if !strings.Contains(m.notice, "SCHEDULER_MISUSE") {
		t.Errorf("stepping while idle should report misuse, got %q", m.notice)
	}
	if c.State() != controller.Idle {
		t.Errorf("misuse must not change state, got %s", c.State())
	}
}

func TestModelCyclesAlgorithmAndPreset(t *testing.T) {
	reg := algo.NewRegistry()
	alg, _ := reg.Get("bfs")
	c := controller.New(alg)
	m := NewModel(c, reg, alg.Example(), "default")
	defer m.Close()

	m = refresh(press(t, m, "a"))
	if m.snap.Algorithm == "bfs" {
		t.Error("algorithm should change")
	}

	m = press(t, m, "tab")
	if len(m.presets) > 0 && m.presetIdx != 0 {
		t.Errorf("expected first preset selected, got %d", m.presetIdx)
	}
}

func TestTracePrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewTracePrinter(&buf, "default").WithFrames(viz.State{Array: []int{2, 1}}, 10)
	p.OnStep(step.Step{Kind: step.Compare, Indices: []int{0, 1}})
	p.OnStep(step.Step{Kind: step.Swap, Indices: []int{0, 1}})
	p.OnStep(step.Finish("sorted [1 2]"))

	if p.Count() != 3 {
		t.Errorf("expected 3 steps, got %d", p.Count())
	}
	out := buf.String()
	if !strings.Contains(out, "swap [0 1]") || !strings.Contains(out, "sorted [1 2]") {
		t.Errorf("unexpected trace output:\n%s", out)
	}
}
