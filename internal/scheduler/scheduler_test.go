package scheduler_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/atomic"

	"github.com/san-kum/algoviz/internal/scheduler"
	"github.com/san-kum/algoviz/internal/step"
)

type recorder struct {
	mu    sync.Mutex
	steps []step.Step
}

func (r *recorder) sink(s step.Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, s)
}

func (r *recorder) values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.steps))
	for i, s := range r.steps {
		out[i] = s.Value
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps)
}

// counting yields n write steps followed by done. released flips once the
// generator has returned.
func counting(n int, released *atomic.Bool) step.Seq {
	return func(yield func(step.Step) bool) {
		defer released.Store(true)
		for i := 0; i < n; i++ {
			if !yield(step.Step{Kind: step.Write, Indices: []int{0}, Value: i}) {
				return
			}
		}
		yield(step.Finish("counted %d", n))
	}
}

func expected(n int) []int {
	out := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		out = append(out, i)
	}
	return append(out, 0)
}

var _ = Describe("Scheduler", func() {
	var (
		rec      *recorder
		released *atomic.Bool
	)

	BeforeEach(func() {
		rec = &recorder{}
		released = atomic.NewBool(false)
	})

	Describe("timed mode", func() {
		It("delivers every step in order and then finishes", func() {
			s := scheduler.New(scheduler.Timed, rec.sink)
			Expect(s.Start(step.NewEmitter(counting(10, released)), time.Millisecond)).To(Succeed())

			Eventually(s.Done()).Should(BeClosed())
			Expect(rec.values()).To(Equal(expected(10)))
			Expect(s.Status()).To(Equal(scheduler.Finished))
			Expect(s.Delivered()).To(BeEquivalentTo(11))
			Expect(released.Load()).To(BeTrue())
		})

		It("rejects a non-positive interval", func() {
			s := scheduler.New(scheduler.Timed, rec.sink)
			Expect(s.Start(step.NewEmitter(counting(1, released)), 0)).To(MatchError(scheduler.ErrInterval))
			Expect(s.Status()).To(Equal(scheduler.Idle))
		})

		It("refuses to start twice", func() {
			s := scheduler.New(scheduler.Timed, rec.sink)
			Expect(s.Start(step.NewEmitter(counting(100, released)), time.Hour)).To(Succeed())
			Expect(s.Start(step.NewEmitter(counting(1, released)), time.Hour)).To(MatchError(scheduler.ErrAlreadyStarted))
			s.Cancel()
		})

		It("withholds steps while paused and loses none on resume", func() {
			s := scheduler.New(scheduler.Timed, rec.sink)
			Expect(s.Start(step.NewEmitter(counting(40, released)), time.Millisecond)).To(Succeed())

			Eventually(rec.count).Should(BeNumerically(">=", 3))
			Expect(s.Pause()).To(Succeed())
			Expect(s.Pause()).To(Succeed(), "pause is idempotent")

			time.Sleep(10 * time.Millisecond)
			held := rec.count()
			Consistently(rec.count, "50ms", "5ms").Should(Equal(held))
			Expect(s.Status()).To(Equal(scheduler.Paused))

			Expect(s.Resume()).To(Succeed())
			Expect(s.Resume()).To(Succeed(), "resume is idempotent")
			Eventually(s.Done()).Should(BeClosed())
			Expect(rec.values()).To(Equal(expected(40)))
		})

		It("applies a new interval from the next tick", func() {
			s := scheduler.New(scheduler.Timed, rec.sink)
			Expect(s.Start(step.NewEmitter(counting(5, released)), time.Hour)).To(Succeed())
			Consistently(rec.count, "30ms").Should(BeZero())

			Expect(s.SetInterval(0)).To(MatchError(scheduler.ErrInterval))
			Expect(s.SetInterval(time.Millisecond)).To(Succeed())
			Expect(s.Interval()).To(Equal(time.Millisecond))
			s.Cancel()
		})
	})

	Describe("cancellation", func() {
		It("discards the rest of the sequence and releases the generator", func() {
			s := scheduler.New(scheduler.Timed, rec.sink)
			Expect(s.Start(step.NewEmitter(counting(10000, released)), time.Millisecond)).To(Succeed())

			Eventually(rec.count).Should(BeNumerically(">=", 2))
			s.Cancel()
			Eventually(s.Done()).Should(BeClosed())
			Eventually(released.Load).Should(BeTrue())

			after := rec.count()
			Consistently(rec.count, "30ms", "5ms").Should(Equal(after))
			Expect(after).To(BeNumerically("<", 10001))
			Expect(s.Status()).To(Equal(scheduler.Cancelled))
		})

		It("is terminal", func() {
			s := scheduler.New(scheduler.Manual, rec.sink)
			s.Cancel()
			s.Cancel()
			em := step.NewEmitter(counting(3, released))
			Expect(s.Start(em, 0)).To(Succeed())
			Expect(em.Closed()).To(BeTrue())
			Expect(s.StepOnce()).To(MatchError(scheduler.ErrCancelled))
			Expect(s.Resume()).To(MatchError(scheduler.ErrNotRunning))
			Expect(rec.count()).To(BeZero())
		})
	})

	Describe("manual mode", func() {
		var s *scheduler.Scheduler

		BeforeEach(func() {
			s = scheduler.New(scheduler.Manual, rec.sink)
		})

		It("needs a start first", func() {
			Expect(s.StepOnce()).To(MatchError(scheduler.ErrNotStarted))
			Expect(s.Pause()).To(MatchError(scheduler.ErrNotRunning))
		})

		It("delivers exactly one step per request", func() {
			Expect(s.Start(step.NewEmitter(counting(2, released)), 0)).To(Succeed())
			Consistently(rec.count, "20ms").Should(BeZero())

			Expect(s.StepOnce()).To(Succeed())
			Expect(rec.values()).To(Equal([]int{0}))
			Expect(s.StepOnce()).To(Succeed())
			Expect(s.StepOnce()).To(Succeed())
			Expect(s.Done()).To(BeClosed())
			Expect(s.StepOnce()).To(MatchError(scheduler.ErrFinished))
			Expect(rec.values()).To(Equal(expected(2)))
		})

		It("rejects steps while paused", func() {
			Expect(s.Start(step.NewEmitter(counting(2, released)), 0)).To(Succeed())
			Expect(s.Pause()).To(Succeed())
			Expect(s.StepOnce()).To(MatchError(scheduler.ErrPaused))
			Expect(s.Resume()).To(Succeed())
			Expect(s.StepOnce()).To(Succeed())
			Expect(rec.count()).To(Equal(1))
		})

		It("is unavailable to timed schedulers", func() {
			timed := scheduler.New(scheduler.Timed, rec.sink)
			Expect(timed.StepOnce()).To(MatchError(scheduler.ErrWrongMode))
		})
	})

	DescribeTable("ParseMode",
		func(in string, want scheduler.Mode, ok bool) {
			got, err := scheduler.ParseMode(in)
			if !ok {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("default", "", scheduler.Timed, true),
		Entry("timed", "timed", scheduler.Timed, true),
		Entry("manual", "Manual", scheduler.Manual, true),
		Entry("unknown", "warp", scheduler.Timed, false),
	)
})
