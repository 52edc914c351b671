package metrics

import "github.com/san-kum/algoviz/internal/step"

// Counter counts steps of the given kinds. With no kinds it counts every step.
type Counter struct {
	name  string
	kinds map[step.Kind]bool
	count int
}

func NewCounter(name string, kinds ...step.Kind) *Counter {
	c := &Counter{name: name}
	if len(kinds) > 0 {
		c.kinds = make(map[step.Kind]bool, len(kinds))
		for _, k := range kinds {
			c.kinds[k] = true
		}
	}
	return c
}

func NewComparisons() *Counter { return NewCounter("comparisons", step.Compare) }
func NewSwaps() *Counter       { return NewCounter("swaps", step.Swap) }
func NewWrites() *Counter      { return NewCounter("writes", step.Write, step.Cell, step.Link, step.Insert) }
func NewVisits() *Counter      { return NewCounter("visits", step.Visit) }
func NewRelaxations() *Counter { return NewCounter("relaxations", step.Relax) }
func NewProbes() *Counter      { return NewCounter("probes", step.Probe) }
func NewSteps() *Counter       { return NewCounter("steps") }

func (c *Counter) Name() string { return c.name }

func (c *Counter) Observe(s step.Step) {
	if c.kinds == nil || c.kinds[s.Kind] {
		c.count++
	}
}

func (c *Counter) Value() float64 { return float64(c.count) }

func (c *Counter) Reset() { c.count = 0 }
