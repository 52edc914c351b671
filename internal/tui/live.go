// Package tui renders a visualization controller in the terminal.
//
// Model is an interactive Bubble Tea program driving one controller;
// TracePrinter is a plain step.Observer for non-interactive runs.
//
// # Key Bindings
//
//	Enter - Submit the current input (restarts a finished run)
//	Space - Pause/Resume
//	N     - Advance one step (manual mode)
//	M     - Toggle timed/manual mode for the next submission
//	R     - Reset to Idle
//	+/-   - Faster/slower animation
//	Tab   - Cycle input presets
//	A     - Cycle algorithms
//	T     - Cycle color themes
//	?     - Show help overlay
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/controller"
	"github.com/san-kum/algoviz/internal/scheduler"
	"github.com/san-kum/algoviz/internal/validate"
)

const (
	historyCapacity = 300
	minInterval     = 10 * time.Millisecond
	maxInterval     = 5 * time.Second
)

// SnapshotMsg tells the model a newer controller snapshot is available.
type SnapshotMsg controller.Snapshot

type Model struct {
	ctrl     *controller.Controller
	registry *algo.Registry
	notify   chan struct{}
	cancel   func()

	algorithms []string
	algIdx     int
	presets    []string
	presetIdx  int
	input      validate.Input

	snap     controller.Snapshot
	activity []float64
	notice   string
	theme    Theme
	styles   Styles
	showHelp bool
}

// NewModel subscribes to c. Call Close once the program exits.
func NewModel(c *controller.Controller, registry *algo.Registry, in validate.Input, theme string) Model {
	notify := make(chan struct{}, 1)
	cancel := c.Subscribe(func(controller.Snapshot) {
		select {
		case notify <- struct{}{}:
		default:
		}
	})

	snap := c.CurrentState()
	m := Model{
		ctrl:       c,
		registry:   registry,
		notify:     notify,
		cancel:     cancel,
		algorithms: registry.List(),
		input:      in.Clone(),
		snap:       snap,
		activity:   make([]float64, 0, historyCapacity),
		theme:      GetTheme(theme),
	}
	m.styles = NewStyles(m.theme)
	for i, name := range m.algorithms {
		if name == snap.Algorithm {
			m.algIdx = i
		}
	}
	m.presets = config.ListPresets(snap.Algorithm)
	m.presetIdx = -1
	return m
}

func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

// wait blocks until the controller publishes, then reads the latest
// snapshot. Bursts of snapshots coalesce into one message.
func (m Model) wait() tea.Cmd {
	notify, c := m.notify, m.ctrl
	return func() tea.Msg {
		<-notify
		return SnapshotMsg(c.CurrentState())
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case SnapshotMsg:
		m.observe(controller.Snapshot(msg))
		return m, m.wait()
	}
	return m, nil
}

func (m *Model) observe(s controller.Snapshot) {
	if s.Version <= m.snap.Version {
		return
	}
	if s.State == controller.Idle || s.State == controller.Validating {
		m.activity = m.activity[:0]
	} else if s.View.Steps > 0 {
		m.activity = append(m.activity, work(s.Metrics))
		if len(m.activity) > historyCapacity {
			m.activity = m.activity[1:]
		}
	}
	m.snap = s
}

// work sums the counters that represent algorithm effort.
func work(metrics map[string]float64) float64 {
	var total float64
	for _, k := range []string{"comparisons", "swaps", "writes", "visits", "relaxations", "probes"} {
		total += metrics[k]
	}
	return total
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	m.notice = ""
	var err error
	switch key {
	case "q", "ctrl+c":
		m.ctrl.Reset()
		return m, tea.Quit
	case "enter":
		err = m.ctrl.Submit(m.input)
	case " ":
		switch m.ctrl.State() {
		case controller.Paused:
			err = m.ctrl.Resume()
		default:
			err = m.ctrl.Pause()
		}
	case "n":
		err = m.ctrl.Step()
	case "m":
		mode := scheduler.Manual
		if m.ctrl.Mode() == scheduler.Manual {
			mode = scheduler.Timed
		}
		m.ctrl.SetMode(mode)
		m.notice = fmt.Sprintf("%s mode from next submit", mode)
	case "r":
		m.ctrl.Reset()
	case "+", "=":
		err = m.ctrl.SetInterval(max(m.snap.Interval/2, minInterval))
	case "-", "_":
		err = m.ctrl.SetInterval(min(m.snap.Interval*2, maxInterval))
	case "tab":
		m.nextPreset()
	case "a":
		m.nextAlgorithm()
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = NewStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	if err != nil {
		m.notice = err.Error()
	}
	return m, nil
}

func (m *Model) nextPreset() {
	if len(m.presets) == 0 {
		m.notice = "no presets"
		return
	}
	m.presetIdx = (m.presetIdx + 1) % len(m.presets)
	name := m.presets[m.presetIdx]
	m.input = config.GetPreset(m.algorithms[m.algIdx], name)
	m.notice = "preset " + name
}

func (m *Model) nextAlgorithm() {
	if len(m.algorithms) == 0 {
		return
	}
	m.algIdx = (m.algIdx + 1) % len(m.algorithms)
	alg, err := m.registry.Get(m.algorithms[m.algIdx])
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.ctrl.Select(alg)
	m.input = alg.Example()
	m.presets = config.ListPresets(alg.Name())
	m.presetIdx = -1
}

func (m Model) status() string {
	label := m.snap.State.String()
	style, ok := m.styles.Status[label]
	if !ok {
		style = m.styles.Value
	}
	return style.Render(strings.ToUpper(label))
}

func (m Model) View() string {
	st := m.styles
	canvas := st.Canvas.Render(Render(m.snap.View, st))

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.snap.Algorithm)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.activity) > 1 {
		chart := asciigraph.Plot(m.activity, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Work"))
		s.WriteString(st.Graph.Render(chart) + "\n\n")
	}

	s.WriteString(st.Label.Render("Mode") + st.Value.Render(m.snap.Mode.String()) + "\n")
	s.WriteString(st.Label.Render("Interval") + st.Value.Render(m.snap.Interval.String()) + "\n")
	s.WriteString(st.Label.Render("Steps") + st.Value.Render(fmt.Sprintf("%d", m.snap.View.Steps)) + "\n")
	if last := m.snap.View.Last; last.Kind != "" {
		s.WriteString(st.Label.Render("Last") + st.Value.Render(last.String()) + "\n")
	}

	s.WriteString("\nMETRICS\n")
	names := make([]string, 0, len(m.snap.Metrics))
	for k := range m.snap.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		v := m.snap.Metrics[k]
		if v == 0 {
			continue
		}
		s.WriteString(st.Label.Render(k) + st.Value.Render(formatMetric(v)) + "\n")
	}

	s.WriteString("\nINPUT\n")
	for _, k := range m.input.Keys() {
		s.WriteString(st.Label.Render(k) + st.Value.Render(truncate(m.input[k], 26)) + "\n")
	}

	switch {
	case m.snap.Err != nil:
		s.WriteString("\n" + st.Status["Error"].Render(m.snap.Err.Error()) + "\n")
	case m.snap.View.Summary != "":
		s.WriteString("\n" + st.Status["Done"].Render(m.snap.View.Summary) + "\n")
	}
	if m.notice != "" {
		s.WriteString("\n" + st.Muted.Render(m.notice) + "\n")
	}

	s.WriteString(st.Help.Render("\n─────────────────────\nENTER:Run SP:Pause N:Step\nR:Reset Q:Quit ?:Help"))
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvas, st.Stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + main
	}
	return main
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Enter    - Submit input / restart   ║
║  Space    - Pause/Resume             ║
║  N        - Next step (manual mode)  ║
║  M        - Toggle timed/manual      ║
║  R        - Reset                    ║
║  + / -    - Faster / slower          ║
║  Tab      - Cycle presets            ║
║  A        - Cycle algorithms         ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run starts the interactive program and blocks until the user quits.
func Run(m Model) error {
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
