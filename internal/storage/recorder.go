package storage

import (
	"sync"

	"github.com/san-kum/algoviz/internal/step"
)

// Recorder is a step.Observer that keeps every step it sees.
type Recorder struct {
	mu    sync.Mutex
	steps []step.Step
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnStep(s step.Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, s.Clone())
}

// Steps returns a copy of the recorded trace.
func (r *Recorder) Steps() []step.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]step.Step, len(r.steps))
	for i, s := range r.steps {
		out[i] = s.Clone()
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = nil
}
