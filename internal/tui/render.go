package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/viz"
)

const (
	barWidth = 30
	maxRows  = 32
)

// Render draws every populated part of v: array bars, graph nodes, the DP
// table and hash slots.
func Render(v viz.State, st Styles) string {
	var parts []string
	if len(v.Array) > 0 {
		parts = append(parts, renderArray(v, st))
	}
	if len(v.Nodes) > 0 {
		parts = append(parts, renderGraph(v, st))
	}
	if len(v.Table) > 0 {
		parts = append(parts, renderTable(v, st))
	}
	if len(v.Slots) > 0 {
		parts = append(parts, renderSlots(v, st))
	}
	if len(parts) == 0 {
		return st.Muted.Render("(nothing to show)")
	}
	return strings.Join(parts, "\n\n")
}

func has(a []int, v int) bool {
	for _, x := range a {
		if x == v {
			return true
		}
	}
	return false
}

func inWindow(v viz.State, i int) bool {
	return len(v.Window) == 2 && i >= v.Window[0] && i <= v.Window[1]
}

func renderArray(v viz.State, st Styles) string {
	peak := 1
	for _, x := range v.Array {
		if x < 0 {
			x = -x
		}
		if x > peak {
			peak = x
		}
	}

	at := make(map[int][]string)
	for name, i := range v.Pointers {
		at[i] = append(at[i], name)
	}

	var b strings.Builder
	for i, x := range v.Array {
		if i == maxRows {
			fmt.Fprintf(&b, "%s\n", st.Muted.Render(fmt.Sprintf("... %d more", len(v.Array)-maxRows)))
			break
		}
		n := x
		glyph := "█"
		if n < 0 {
			n, glyph = -n, "░"
		}
		bar := strings.Repeat(glyph, max(1, n*barWidth/peak))
		if x == 0 {
			bar = "·"
		}
		line := fmt.Sprintf("%3d %-*s %d", i, barWidth, bar, x)

		switch {
		case has(v.Highlight, i):
			line = st.Highlight.Render(line)
		case has(v.Marked, i):
			line = st.Marked.Render(line)
		case inWindow(v, i):
			line = st.Window.Render(line)
		}
		b.WriteString(line)
		if names := at[i]; len(names) > 0 {
			sort.Strings(names)
			b.WriteString(st.Muted.Render(" <- " + strings.Join(names, ",")))
		}
		b.WriteString("\n")
	}
	if len(v.Window) == 2 {
		fmt.Fprintf(&b, "%s\n", st.Window.Render(fmt.Sprintf("window [%d, %d] sum %d", v.Window[0], v.Window[1], v.WindowSum)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func dist(d int) string {
	if d == step.Inf {
		return "∞"
	}
	return strconv.Itoa(d)
}

func renderGraph(v viz.State, st Styles) string {
	visited := make(map[string]int, len(v.Visited))
	for i, n := range v.Visited {
		visited[n] = i + 1
	}
	frontier := make(map[string]bool, len(v.Frontier))
	for _, n := range v.Frontier {
		frontier[n] = true
	}

	var b strings.Builder
	for _, n := range v.Nodes {
		status := "   "
		style := st.Value
		switch {
		case v.Last.Node == n:
			style = st.Highlight
		case visited[n] > 0:
			style = st.Marked
		case frontier[n]:
			style = st.Window
		}
		if k := visited[n]; k > 0 {
			status = fmt.Sprintf("#%-2d", k)
		} else if frontier[n] {
			status = " ? "
		}
		line := fmt.Sprintf("%s %-8s", status, n)
		if d, ok := v.Dist[n]; ok {
			line += fmt.Sprintf(" d=%-4s", dist(d))
		}
		if p, ok := v.Parent[n]; ok {
			line += " <- " + p
		}
		b.WriteString(style.Render(line) + "\n")
	}
	if len(v.Visited) > 0 {
		b.WriteString(st.Muted.Render("order: " + strings.Join(v.Visited, " ")))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTable(v viz.State, st Styles) string {
	w := 1
	for _, row := range v.Table {
		for _, x := range row {
			w = max(w, len(dist(x)))
		}
	}
	hr, hc := -1, -1
	if v.Last.Kind == step.Cell && len(v.Highlight) == 2 {
		hr, hc = v.Highlight[0], v.Highlight[1]
	}

	var b strings.Builder
	for r, row := range v.Table {
		if r == maxRows {
			b.WriteString(st.Muted.Render(fmt.Sprintf("... %d more rows", len(v.Table)-maxRows)))
			break
		}
		cells := make([]string, len(row))
		for c, x := range row {
			cell := fmt.Sprintf("%*s", w, dist(x))
			if r == hr && c == hc {
				cell = st.Highlight.Render(cell)
			}
			cells[c] = cell
		}
		b.WriteString(strings.Join(cells, " ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSlots(v viz.State, st Styles) string {
	var b strings.Builder
	for i, s := range v.Slots {
		if i == maxRows {
			b.WriteString(st.Muted.Render(fmt.Sprintf("... %d more slots", len(v.Slots)-maxRows)))
			break
		}
		key := "·"
		if s.Used {
			key = strconv.Itoa(s.Key)
		}
		line := fmt.Sprintf("[%3d] %s", i, key)
		switch {
		case has(v.Highlight, i):
			line = st.Highlight.Render(line)
		case s.Used:
			line = st.Marked.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
