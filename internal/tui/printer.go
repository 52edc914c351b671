package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/viz"
)

// TracePrinter writes one line per delivered step. With a frame interval it
// also folds the steps itself and redraws the view every n steps.
type TracePrinter struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
	count  int
	every  int
	view   viz.State
}

func NewTracePrinter(w io.Writer, theme string) *TracePrinter {
	return &TracePrinter{w: w, styles: NewStyles(GetTheme(theme))}
}

// WithFrames redraws the view folded from initial every n steps.
func (p *TracePrinter) WithFrames(initial viz.State, n int) *TracePrinter {
	p.view = initial.Clone()
	p.every = n
	return p
}

func (p *TracePrinter) OnStep(s step.Step) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.count++
	line := fmt.Sprintf("%5d  %s", p.count, s)
	switch s.Kind {
	case step.Done:
		line = p.styles.Status["Done"].Render(line)
	case step.Failed:
		line = p.styles.Status["Error"].Render(line)
	case step.Swap, step.Write, step.Insert, step.Link:
		line = p.styles.Highlight.Render(line)
	}
	fmt.Fprintln(p.w, line)

	if p.every <= 0 {
		return
	}
	if err := p.view.Apply(s); err != nil {
		fmt.Fprintln(p.w, p.styles.Status["Error"].Render(err.Error()))
		p.every = 0
		return
	}
	if p.count%p.every == 0 || s.Terminal() {
		fmt.Fprintln(p.w, Render(p.view, p.styles))
		fmt.Fprintln(p.w)
	}
}

func (p *TracePrinter) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}
