package step

import "iter"

// Seq is the lazy step sequence an algorithm produces.
type Seq = iter.Seq[Step]

// Emitter pulls steps from a Seq one at a time. It enforces the terminal
// contract: the sequence always ends with a done or failed step and
// nothing is emitted after it.
//
// Emitter is not safe for concurrent use; the scheduler serializes access.
type Emitter struct {
	next    func() (Step, bool)
	stop    func()
	emitted int
	closed  bool
}

func NewEmitter(seq Seq) *Emitter {
	next, stop := iter.Pull(seq)
	return &Emitter{next: next, stop: stop}
}

// Next returns the next step, or false once the sequence is closed.
func (e *Emitter) Next() (Step, bool) {
	if e.closed {
		return Step{}, false
	}
	s, ok := e.next()
	if !ok {
		s = Fail("sequence ended without a terminal step")
	}
	e.emitted++
	if s.Terminal() {
		e.Close()
	}
	return s, true
}

// Close releases the underlying sequence. It is safe to call more than once.
func (e *Emitter) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.stop()
}

// Closed reports whether a terminal step was emitted or Close was called.
func (e *Emitter) Closed() bool { return e.closed }

// Emitted counts the steps returned so far, including a synthesized failure.
func (e *Emitter) Emitted() int { return e.emitted }

// Collect drains seq through an Emitter.
func Collect(seq Seq) []Step {
	e := NewEmitter(seq)
	steps := make([]Step, 0, 64)
	for {
		s, ok := e.Next()
		if !ok {
			return steps
		}
		steps = append(steps, s)
	}
}

// FromSlice replays recorded steps as a Seq.
func FromSlice(steps []Step) Seq {
	return func(yield func(Step) bool) {
		for _, s := range steps {
			if !yield(s.Clone()) {
				return
			}
		}
	}
}
