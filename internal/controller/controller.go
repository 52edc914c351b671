// Package controller ties validation, step emission and pacing together
// behind a small state machine.
//
//	c := controller.New(alg, controller.WithMode(scheduler.Manual))
//	if err := c.Submit(in); err != nil {
//	    // c.CurrentState().State == controller.Error
//	}
//	snap, err := c.Drain(ctx)
//
// The controller owns the visualization state. Renderers read snapshots,
// either on demand with CurrentState or pushed through Subscribe; every
// transition and every folded step produces a new snapshot version.
package controller

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/scheduler"
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/validate"
	"github.com/san-kum/algoviz/internal/viz"
)

const DefaultInterval = 200 * time.Millisecond

// Snapshot is an immutable copy of the controller's observable state.
type Snapshot struct {
	Version   uint64
	Algorithm string
	Mode      scheduler.Mode
	Interval  time.Duration
	State     State
	View      viz.State
	Metrics   map[string]float64
	Err       *Err
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

type Controller struct {
	mode      scheduler.Mode
	interval  time.Duration
	logger    *log.Logger
	metrics   *metrics.Set
	observers step.Observers

	mu       sync.Mutex
	alg      algo.Algorithm
	state    State
	view     viz.State
	err      *Err
	version  uint64
	run      uint64
	sched    *scheduler.Scheduler
	finished chan struct{}
	subs     []subscriber
	nextSub  int
	queue    []Snapshot

	notifyMu sync.Mutex
}

type Option func(*Controller)

func WithMode(m scheduler.Mode) Option {
	return func(c *Controller) { c.mode = m }
}

// WithInterval sets the timed delay between steps. Non-positive values are
// ignored.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers an observer that sees every folded step.
func WithObserver(o step.Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func WithMetrics(s *metrics.Set) Option {
	return func(c *Controller) {
		if s != nil {
			c.metrics = s
		}
	}
}

func New(alg algo.Algorithm, opts ...Option) *Controller {
	c := &Controller{
		alg:      alg,
		mode:     scheduler.Timed,
		interval: DefaultInterval,
		logger:   log.New(io.Discard),
		metrics:  metrics.Default(),
		finished: closedChan(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// State returns the current lifecycle state without copying the view.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Mode() scheduler.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// CurrentState returns a deep snapshot of the controller.
func (c *Controller) CurrentState() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:  c.version,
		Mode:     c.mode,
		Interval: c.interval,
		State:    c.state,
		View:     c.view.Clone(),
		Metrics:  c.metrics.Values(),
	}
	if c.alg != nil {
		snap.Algorithm = c.alg.Name()
	}
	if c.err != nil {
		e := *c.err
		snap.Err = &e
	}
	return snap
}

// Subscribe registers fn for every new snapshot. Callbacks run outside the
// controller lock, in version order, and may call back into the controller.
func (c *Controller) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Select switches to another algorithm. Any active run is cancelled first.
func (c *Controller) Select(alg algo.Algorithm) {
	c.mu.Lock()
	c.resetLocked()
	c.alg = alg
	c.publishLocked()
	c.mu.Unlock()
	c.flush()
}

// SetMode changes the pacing mode used by the next submission.
func (c *Controller) SetMode(m scheduler.Mode) {
	c.mu.Lock()
	c.mode = m
	c.publishLocked()
	c.mu.Unlock()
	c.flush()
}

// Submit validates in and, when valid, starts a new run. Submitting while a
// run is active or finished resets the controller first.
func (c *Controller) Submit(in validate.Input) error {
	c.mu.Lock()
	err := c.submitLocked(in)
	c.mu.Unlock()
	c.flush()
	if err != nil {
		return err
	}
	return nil
}

func (c *Controller) submitLocked(in validate.Input) *Err {
	if c.state != Idle {
		c.resetLocked()
	}
	c.fire(EventSubmit)

	if c.alg == nil {
		c.err = &Err{Category: InputError, Message: "no algorithm selected"}
		c.fire(EventInvalid)
		return c.err
	}

	p, err := c.alg.Validate(in.Clone())
	if err != nil {
		c.err = &Err{Category: InputError, Message: validate.UserMessage(err), Cause: err}
		c.logger.Debug("input rejected", "algorithm", c.alg.Name(), "err", err)
		c.fire(EventInvalid)
		return c.err
	}

	c.run++
	run := c.run
	c.view = c.alg.Initial(p)
	c.metrics.Reset()
	c.finished = make(chan struct{})
	c.sched = scheduler.New(c.mode, func(s step.Step) { c.consume(run, s) })
	c.fire(EventValid)

	if err := c.sched.Start(step.NewEmitter(c.alg.Steps(p)), c.interval); err != nil {
		c.err = &Err{Category: SchedulerMisuse, Message: "cannot start run", Cause: err}
		c.stopLocked()
		c.fire(EventFail)
		return c.err
	}
	c.logger.Debug("run started", "algorithm", c.alg.Name(), "mode", c.mode, "run", run)
	return nil
}

// consume folds a delivered step. Steps from a superseded run are dropped.
func (c *Controller) consume(run uint64, s step.Step) {
	c.mu.Lock()
	defer c.flush()
	defer c.mu.Unlock()

	if run != c.run || (c.state != Running && c.state != Paused) {
		return
	}

	if err := c.view.Apply(s); err != nil {
		c.err = &Err{Category: AlgorithmFailure, Message: err.Error(), Cause: err}
		c.logger.Error("step rejected", "step", s, "err", err)
		c.stopLocked()
		c.fire(EventFail)
		return
	}
	c.metrics.Observe(s)
	c.observers.OnStep(s)

	switch s.Kind {
	case step.Done:
		c.logger.Debug("run finished", "run", run, "summary", s.Summary)
		c.sched = nil
		c.fire(EventFinish)
		c.closeFinished()
	case step.Failed:
		c.err = &Err{Category: AlgorithmFailure, Message: s.Reason}
		c.logger.Debug("run failed", "run", run, "reason", s.Reason)
		c.sched = nil
		c.fire(EventFail)
		c.closeFinished()
	default:
		c.publishLocked()
	}
}

// Reset cancels any run and returns to Idle.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	c.flush()
}

func (c *Controller) resetLocked() {
	c.stopLocked()
	c.run++
	c.err = nil
	c.view = viz.State{}
	c.metrics.Reset()
	c.fire(EventReset)
}

// stopLocked cancels the scheduler and releases anyone waiting on the run.
func (c *Controller) stopLocked() {
	if c.sched != nil {
		c.sched.Cancel()
		c.sched = nil
	}
	c.closeFinished()
}

func (c *Controller) closeFinished() {
	select {
	case <-c.finished:
	default:
		close(c.finished)
	}
}

func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.flush()
	defer c.mu.Unlock()

	switch c.state {
	case Paused:
		return nil
	case Running:
		if err := c.sched.Pause(); err != nil {
			c.logger.Debug("scheduler already stopped", "err", err)
		}
		c.fire(EventPause)
		return nil
	default:
		return c.misuse("pause")
	}
}

func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.flush()
	defer c.mu.Unlock()

	switch c.state {
	case Running:
		return nil
	case Paused:
		if err := c.sched.Resume(); err != nil {
			c.logger.Debug("scheduler already stopped", "err", err)
		}
		c.fire(EventResume)
		return nil
	default:
		return c.misuse("resume")
	}
}

// Step advances a manual run by one step.
func (c *Controller) Step() error {
	c.mu.Lock()
	if c.mode != scheduler.Manual {
		err := c.misuse("step in timed mode")
		c.mu.Unlock()
		return err
	}
	if c.state != Running {
		err := c.misuse("step")
		c.mu.Unlock()
		return err
	}
	s := c.sched
	c.mu.Unlock()

	if err := s.StepOnce(); err != nil {
		c.logger.Warn("step not delivered", "err", err)
		return &Err{Category: SchedulerMisuse, Message: "step not delivered", Cause: err}
	}
	return nil
}

// SetInterval changes the timed delay. An active run picks it up at its
// next tick.
func (c *Controller) SetInterval(d time.Duration) error {
	c.mu.Lock()
	defer c.flush()
	defer c.mu.Unlock()

	if d <= 0 {
		return c.misuse(fmt.Sprintf("set interval to %s", d))
	}
	c.interval = d
	if c.sched != nil && c.mode == scheduler.Timed {
		if err := c.sched.SetInterval(d); err != nil {
			return &Err{Category: SchedulerMisuse, Message: "cannot change interval", Cause: err}
		}
	}
	c.publishLocked()
	return nil
}

// Wait blocks until the current run reaches Done or Error, or is reset.
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	ch := c.finished
	c.mu.Unlock()

	select {
	case <-ch:
		return c.CurrentState(), nil
	case <-ctx.Done():
		return c.CurrentState(), ctx.Err()
	}
}

// Drain runs the current run to completion. Manual runs are stepped
// directly; timed runs are waited on.
func (c *Controller) Drain(ctx context.Context) (Snapshot, error) {
	if c.Mode() != scheduler.Manual {
		return c.Wait(ctx)
	}
	for {
		if err := ctx.Err(); err != nil {
			return c.CurrentState(), err
		}
		switch c.State() {
		case Idle, Done, Error:
			return c.CurrentState(), nil
		}
		if err := c.Step(); err != nil {
			return c.CurrentState(), err
		}
	}
}

func (c *Controller) misuse(op string) *Err {
	c.logger.Warn("scheduler misuse", "op", op, "state", c.state)
	return &Err{Category: SchedulerMisuse, Message: fmt.Sprintf("cannot %s while %s", op, c.state)}
}

// fire applies ev to the state machine. Events the current state does not
// accept are ignored.
func (c *Controller) fire(ev Event) bool {
	to, ok := Next(c.state, ev)
	if !ok {
		c.logger.Debug("event ignored", "state", c.state, "event", ev)
		return false
	}
	c.logger.Debug("transition", "from", c.state, "event", ev, "to", to)
	c.state = to
	c.publishLocked()
	return true
}

func (c *Controller) publishLocked() {
	c.version++
	if len(c.subs) > 0 {
		c.queue = append(c.queue, c.snapshotLocked())
	}
}

// flush delivers queued snapshots outside the controller lock. Only one
// goroutine delivers at a time; the others leave their snapshots queued for
// it and it re-checks the queue before returning.
func (c *Controller) flush() {
	for {
		if !c.notifyMu.TryLock() {
			return
		}
		c.mu.Lock()
		batch := c.queue
		c.queue = nil
		subs := append([]subscriber(nil), c.subs...)
		c.mu.Unlock()

		for _, snap := range batch {
			for _, s := range subs {
				s.fn(snap)
			}
		}
		c.notifyMu.Unlock()

		c.mu.Lock()
		pending := len(c.queue) > 0
		c.mu.Unlock()
		if !pending {
			return
		}
	}
}
