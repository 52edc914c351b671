package metrics

import "github.com/san-kum/algoviz/internal/step"

// MutationRatio is the share of steps that change the visualized data, as
// opposed to only inspecting it.
type MutationRatio struct {
	name      string
	mutations int
	samples   int
}

func NewMutationRatio() *MutationRatio {
	return &MutationRatio{
		name: "mutation_ratio",
	}
}

func (m *MutationRatio) Name() string {
	return m.name
}

func (m *MutationRatio) Observe(s step.Step) {
	if s.Terminal() {
		return
	}
	m.samples++
	switch s.Kind {
	case step.Swap, step.Write, step.Cell, step.Link, step.Insert, step.Relax:
		m.mutations++
	}
}

func (m *MutationRatio) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.mutations) / float64(m.samples)
}

func (m *MutationRatio) Reset() {
	m.mutations = 0
	m.samples = 0
}

// ProbeLength is the mean number of probes per hash insert, counting the
// probe that found the free slot.
type ProbeLength struct {
	name    string
	probes  int
	inserts int
}

func NewProbeLength() *ProbeLength {
	return &ProbeLength{
		name: "probe_length",
	}
}

func (p *ProbeLength) Name() string { return p.name }

func (p *ProbeLength) Observe(s step.Step) {
	switch s.Kind {
	case step.Probe:
		p.probes++
	case step.Insert:
		p.inserts++
	}
}

func (p *ProbeLength) Value() float64 {
	if p.inserts == 0 {
		return 0
	}
	return float64(p.probes) / float64(p.inserts)
}

func (p *ProbeLength) Reset() {
	p.probes = 0
	p.inserts = 0
}
