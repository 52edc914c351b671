// Package scheduler paces delivery of algorithm steps, either on a timer or
// one step per explicit request.
//
// A Scheduler drives a single emitter. It never reorders or drops steps
// while running: pausing only withholds the next pull, and Cancel discards
// whatever the emitter had not produced yet.
package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/san-kum/algoviz/internal/step"
)

type Mode int

const (
	Timed Mode = iota
	Manual
)

func (m Mode) String() string {
	switch m {
	case Timed:
		return "timed"
	case Manual:
		return "manual"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "timed", "auto":
		return Timed, nil
	case "manual", "step":
		return Manual, nil
	default:
		return Timed, fmt.Errorf("unknown mode: %s", s)
	}
}

type Status int

const (
	Idle Status = iota
	Running
	Paused
	Finished
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

var (
	ErrAlreadyStarted = errors.New("scheduler already started")
	ErrNotStarted     = errors.New("scheduler not started")
	ErrNotRunning     = errors.New("scheduler not running")
	ErrWrongMode      = errors.New("operation not available in this mode")
	ErrPaused         = errors.New("scheduler is paused")
	ErrFinished       = errors.New("sequence already finished")
	ErrCancelled      = errors.New("scheduler cancelled")
	ErrInterval       = errors.New("interval must be positive")
)

// Sink receives delivered steps, one at a time and in emission order.
type Sink func(step.Step)

type Scheduler struct {
	mode Mode
	sink Sink

	mu     sync.Mutex
	status Status
	em     *step.Emitter

	// deliverMu is held across pull and sink so deliveries never overlap.
	deliverMu sync.Mutex

	interval  *atomic.Duration
	delivered *atomic.Int64

	stop     chan struct{}
	done     chan struct{}
	doneOnce sync.Once
}

func New(mode Mode, sink Sink) *Scheduler {
	return &Scheduler{
		mode:      mode,
		sink:      sink,
		interval:  atomic.NewDuration(0),
		delivered: atomic.NewInt64(0),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *Scheduler) Mode() Mode { return s.mode }

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Delivered is the number of steps handed to the sink so far.
func (s *Scheduler) Delivered() int64 { return s.delivered.Load() }

func (s *Scheduler) Interval() time.Duration { return s.interval.Load() }

// Done is closed once the terminal step has been delivered or the
// scheduler is cancelled.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

// Start begins driving em. Timed schedulers deliver the first step one
// interval after Start; manual schedulers wait for StepOnce. Starting a
// cancelled scheduler closes em and does nothing else.
func (s *Scheduler) Start(em *step.Emitter, interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case Idle:
	case Cancelled:
		em.Close()
		return nil
	default:
		return ErrAlreadyStarted
	}
	if s.mode == Timed && interval <= 0 {
		return ErrInterval
	}

	s.em = em
	s.interval.Store(interval)
	s.status = Running
	if s.mode == Timed {
		go s.loop()
	}
	return nil
}

func (s *Scheduler) loop() {
	t := time.NewTimer(s.interval.Load())
	defer t.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
		}
		if !s.deliver() {
			return
		}
		t.Reset(s.interval.Load())
	}
}

// deliver pulls one step and hands it to the sink. A paused scheduler skips
// the pull. It reports whether more steps may follow.
func (s *Scheduler) deliver() bool {
	s.deliverMu.Lock()

	s.mu.Lock()
	status := s.status
	s.mu.Unlock()

	switch {
	case status == Cancelled || status == Finished:
		s.deliverMu.Unlock()
		s.releaseIfCancelled()
		return false
	case status == Paused:
		s.deliverMu.Unlock()
		return true
	}

	st, ok := s.em.Next()
	if !ok {
		s.deliverMu.Unlock()
		return false
	}
	terminal := st.Terminal()
	if terminal {
		s.mu.Lock()
		if s.status != Cancelled {
			s.status = Finished
		}
		s.mu.Unlock()
	}
	s.delivered.Inc()
	s.sink(st)
	s.deliverMu.Unlock()

	if terminal {
		s.closeDone()
		return false
	}
	s.releaseIfCancelled()
	return true
}

// StepOnce delivers exactly one step. Manual mode only.
func (s *Scheduler) StepOnce() error {
	if s.mode != Manual {
		return ErrWrongMode
	}
	switch s.Status() {
	case Idle:
		return ErrNotStarted
	case Paused:
		return ErrPaused
	case Finished:
		return ErrFinished
	case Cancelled:
		return ErrCancelled
	}
	s.deliver()
	return nil
}

// Pause withholds further deliveries. Pausing a paused scheduler is a no-op.
func (s *Scheduler) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case Running:
		s.status = Paused
		return nil
	case Paused:
		return nil
	default:
		return fmt.Errorf("%w: cannot pause while %s", ErrNotRunning, s.status)
	}
}

// Resume continues delivery from the next undelivered step.
func (s *Scheduler) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case Paused:
		s.status = Running
		return nil
	case Running:
		return nil
	default:
		return fmt.Errorf("%w: cannot resume while %s", ErrNotRunning, s.status)
	}
}

// Cancel stops the scheduler for good and releases the emitter. It never
// waits on an in-flight delivery; that delivery finishes and the emitter is
// released right after it.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	if s.status == Cancelled || s.status == Finished {
		s.mu.Unlock()
		return
	}
	s.status = Cancelled
	close(s.stop)
	s.mu.Unlock()

	s.closeDone()
	s.releaseIfCancelled()
}

func (s *Scheduler) releaseIfCancelled() {
	s.mu.Lock()
	em := s.em
	cancelled := s.status == Cancelled
	s.mu.Unlock()
	if !cancelled || em == nil {
		return
	}
	if !s.deliverMu.TryLock() {
		return
	}
	em.Close()
	s.deliverMu.Unlock()
}

// SetInterval changes the timed delay. The new value applies from the next
// tick on.
func (s *Scheduler) SetInterval(d time.Duration) error {
	if d <= 0 {
		return ErrInterval
	}
	s.interval.Store(d)
	return nil
}

func (s *Scheduler) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}
