package export

import (
	"strings"
	"testing"

	"github.com/san-kum/algoviz/internal/viz"
)

func TestArrayToSVG(t *testing.T) {
	v := viz.State{
		Array:     []int{3, -1, 4},
		Highlight: []int{0},
		Marked:    []int{2},
		Summary:   "sorted <x>",
	}
	svg := ArrayToSVG(v, 300, 200)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if got := strings.Count(svg, "<rect"); got != 4 {
		t.Errorf("expected background plus 3 bars, got %d rects", got)
	}
	for _, want := range []string{hotColor, doneColor, "sorted &lt;x&gt;"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestArrayToSVGEmpty(t *testing.T) {
	if ArrayToSVG(viz.State{}, 100, 100) != "" {
		t.Error("expected empty output for a state without an array")
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 1, 3}, 200, 100, "#00ff00")
	if !strings.Contains(svg, `d="M`) || strings.Count(svg, " L") != 3 {
		t.Errorf("unexpected path: %q", svg)
	}
	if SeriesToSVG([]float64{1}, 10, 10, "#fff") != "" {
		t.Error("a single point cannot form a line")
	}
}
