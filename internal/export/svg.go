// Package export draws visualization states as standalone SVG documents.
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/algoviz/internal/viz"
)

const (
	background = "#0a0a0a"
	barColor   = "#00a8cc"
	hotColor   = "#ff00ff"
	doneColor  = "#00ff88"
	textColor  = "#cccccc"
)

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// ArrayToSVG draws v.Array as vertical bars. Highlighted positions use the
// accent color and marked positions the success color. Negative values hang
// below a zero baseline.
func ArrayToSVG(v viz.State, width, height int) string {
	if len(v.Array) == 0 {
		return ""
	}

	lo, hi := 0, 0
	for _, x := range v.Array {
		lo, hi = min(lo, x), max(hi, x)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	pad := 20.0
	plotH := float64(height) - 2*pad
	slot := (float64(width) - 2*pad) / float64(len(v.Array))
	baseline := pad + float64(hi)/float64(span)*plotH

	hot := make(map[int]bool, len(v.Highlight))
	for _, i := range v.Highlight {
		hot[i] = true
	}
	done := make(map[int]bool, len(v.Marked))
	for _, i := range v.Marked {
		done[i] = true
	}

	var sb strings.Builder
	header(&sb, width, height)
	for i, x := range v.Array {
		color := barColor
		switch {
		case hot[i]:
			color = hotColor
		case done[i]:
			color = doneColor
		}
		h := float64(x) / float64(span) * plotH
		y := baseline - h
		if h < 0 {
			y, h = baseline, -h
		}
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, pad+float64(i)*slot+slot*0.1, y, slot*0.8, max(h, 1), color)
	}
	fmt.Fprintf(&sb, `<line x1="%.0f" y1="%.1f" x2="%.0f" y2="%.1f" stroke="%s" stroke-width="0.5"/>
`, pad, baseline, float64(width)-pad, baseline, textColor)
	if v.Summary != "" {
		fmt.Fprintf(&sb, `<text x="%.0f" y="%.0f" fill="%s" font-family="monospace" font-size="12">%s</text>
`, pad, pad-6, textColor, html.EscapeString(v.Summary))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws a polyline through data, such as a cumulative counter
// sampled at every step.
func SeriesToSVG(data []float64, width, height int, strokeColor string) string {
	if len(data) < 2 {
		return ""
	}

	lo, hi := data[0], data[0]
	for _, y := range data {
		lo, hi = min(lo, y), max(hi, y)
	}
	rangeY := hi - lo
	if rangeY == 0 {
		rangeY = 1
	}
	lo -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, y := range data {
		px := float64(i) / float64(len(data)-1) * float64(width)
		py := float64(height) - (y-lo)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", px, py)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", px, py)
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
