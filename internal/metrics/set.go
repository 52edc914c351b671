// Package metrics accumulates per-run statistics from delivered steps.
package metrics

import (
	"sort"

	"github.com/san-kum/algoviz/internal/step"
)

type Metric interface {
	Name() string
	Observe(s step.Step)
	Value() float64
	Reset()
}

// Set fans steps out to several metrics. It is not safe for concurrent use.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Default returns the metrics every run reports.
func Default() *Set {
	return NewSet(
		NewSteps(),
		NewComparisons(),
		NewSwaps(),
		NewWrites(),
		NewVisits(),
		NewRelaxations(),
		NewProbes(),
		NewMutationRatio(),
		NewProbeLength(),
	)
}

func (s *Set) Add(m Metric) { s.metrics = append(s.metrics, m) }

// OnStep lets a Set act as a step.Observer.
func (s *Set) OnStep(st step.Step) { s.Observe(st) }

func (s *Set) Observe(st step.Step) {
	for _, m := range s.metrics {
		m.Observe(st)
	}
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns metric names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.metrics))
	for _, m := range s.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
