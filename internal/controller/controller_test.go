package controller_test

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/controller"
	"github.com/san-kum/algoviz/internal/scheduler"
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/validate"
	"github.com/san-kum/algoviz/internal/viz"
)

func mustAlgo(name string) algo.Algorithm {
	a, err := algo.NewRegistry().Get(name)
	Expect(err).NotTo(HaveOccurred())
	return a
}

// reference folds the full step sequence without any controller involved.
func reference(a algo.Algorithm, in validate.Input) viz.State {
	p, err := a.Validate(in)
	Expect(err).NotTo(HaveOccurred())
	final, err := viz.Fold(a.Initial(p), step.Collect(a.Steps(p)))
	Expect(err).NotTo(HaveOccurred())
	return final
}

func reversed(n int) validate.Input {
	vals := make([]string, n)
	for i := range vals {
		vals[i] = strconv.Itoa(n - i)
	}
	return validate.Input{validate.FieldArray: strings.Join(vals, ",")}
}

type stepCounter struct {
	mu sync.Mutex
	n  int
}

func (s *stepCounter) OnStep(step.Step) {
	s.mu.Lock()
	s.n++
	s.mu.Unlock()
}

func (s *stepCounter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

var _ = Describe("Transition table", func() {
	DescribeTable("accepted transitions",
		func(from controller.State, ev controller.Event, to controller.State) {
			got, ok := controller.Next(from, ev)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(to))
		},
		Entry(nil, controller.Idle, controller.EventSubmit, controller.Validating),
		Entry(nil, controller.Validating, controller.EventValid, controller.Running),
		Entry(nil, controller.Validating, controller.EventInvalid, controller.Error),
		Entry(nil, controller.Running, controller.EventPause, controller.Paused),
		Entry(nil, controller.Paused, controller.EventResume, controller.Running),
		Entry(nil, controller.Running, controller.EventFinish, controller.Done),
		Entry(nil, controller.Running, controller.EventFail, controller.Error),
		Entry(nil, controller.Paused, controller.EventFinish, controller.Done),
		Entry(nil, controller.Done, controller.EventReset, controller.Idle),
		Entry(nil, controller.Error, controller.EventReset, controller.Idle),
	)

	DescribeTable("rejected transitions",
		func(from controller.State, ev controller.Event) {
			_, ok := controller.Next(from, ev)
			Expect(ok).To(BeFalse())
		},
		Entry(nil, controller.Idle, controller.EventPause),
		Entry(nil, controller.Idle, controller.EventFinish),
		Entry(nil, controller.Done, controller.EventResume),
		Entry(nil, controller.Error, controller.EventSubmit),
		Entry(nil, controller.Running, controller.EventSubmit),
	)
})

var _ = Describe("Controller", func() {
	var ctx context.Context

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		DeferCleanup(cancel)
	})

	Describe("scenarios", func() {
		It("sorts [3,1,4,1,5,9] to Done", func() {
			c := controller.New(mustAlgo("bubble-sort"), controller.WithMode(scheduler.Manual))
			Expect(c.Submit(validate.Input{validate.FieldArray: "3,1,4,1,5,9"})).To(Succeed())
			Expect(c.State()).To(Equal(controller.Running))

			snap, err := c.Drain(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.State).To(Equal(controller.Done))
			Expect(snap.View.Array).To(Equal([]int{1, 1, 3, 4, 5, 9}))
			Expect(snap.Err).To(BeNil())
			Expect(snap.Metrics["comparisons"]).To(BeNumerically(">", 0))
		})

		It("reaches Done on a timer", func() {
			c := controller.New(mustAlgo("merge-sort"), controller.WithInterval(time.Millisecond))
			Expect(c.Submit(validate.Input{validate.FieldArray: "3,1,4,1,5,9"})).To(Succeed())

			snap, err := c.Wait(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.State).To(Equal(controller.Done))
			Expect(snap.View.Array).To(Equal([]int{1, 1, 3, 4, 5, 9}))
		})

		It("reports a cycle as an algorithm failure", func() {
			c := controller.New(mustAlgo("topological-sort"), controller.WithMode(scheduler.Manual))
			Expect(c.Submit(validate.Input{validate.FieldGraph: `{"A":["B"],"B":["C"],"C":["A"]}`})).To(Succeed())

			snap, err := c.Drain(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.State).To(Equal(controller.Error))
			Expect(snap.Err).NotTo(BeNil())
			Expect(snap.Err.Category).To(Equal(controller.AlgorithmFailure))
			Expect(snap.Err.Message).To(Equal("cycle detected"))
		})

		DescribeTable("rejects bad input without running",
			func(raw string, code validate.Code) {
				obs := &stepCounter{}
				c := controller.New(mustAlgo("quick-sort"), controller.WithObserver(obs))
				err := c.Submit(validate.Input{validate.FieldArray: raw})
				Expect(controller.IsCategory(err, controller.InputError)).To(BeTrue())
				Expect(validate.Is(err, code)).To(BeTrue())

				snap := c.CurrentState()
				Expect(snap.State).To(Equal(controller.Error))
				Expect(snap.View.Array).To(BeEmpty())
				Consistently(obs.count, "20ms").Should(BeZero())
			},
			Entry("empty", "", validate.EmptyInput),
			Entry("non-numeric", "3,one,4", validate.NotANumber),
		)
	})

	Describe("pause and resume", func() {
		in := reversed(12)

		It("gives the same final state wherever a manual run is paused", func() {
			want := reference(mustAlgo("insertion-sort"), in)

			for k := 0; k < 20; k += 3 {
				c := controller.New(mustAlgo("insertion-sort"), controller.WithMode(scheduler.Manual))
				Expect(c.Submit(in)).To(Succeed())
				for i := 0; i < k && c.State() == controller.Running; i++ {
					Expect(c.Step()).To(Succeed())
				}
				Expect(c.Pause()).To(Succeed())
				Expect(c.Pause()).To(Succeed())

				err := c.Step()
				Expect(controller.IsCategory(err, controller.SchedulerMisuse)).To(BeTrue())
				Expect(c.State()).To(Equal(controller.Paused))

				Expect(c.Resume()).To(Succeed())
				snap, err := c.Drain(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(snap.State).To(Equal(controller.Done))
				Expect(snap.View.Array).To(Equal(want.Array))
				Expect(snap.View.Steps).To(Equal(want.Steps))
			}
		})

		It("gives the same final state when a timed run is paused repeatedly", func() {
			want := reference(mustAlgo("selection-sort"), in)
			c := controller.New(mustAlgo("selection-sort"), controller.WithInterval(time.Millisecond))
			Expect(c.Submit(in)).To(Succeed())

			for i := 0; i < 5 && !c.State().Terminal(); i++ {
				time.Sleep(3 * time.Millisecond)
				_ = c.Pause()
				time.Sleep(3 * time.Millisecond)
				_ = c.Resume()
			}

			snap, err := c.Wait(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.State).To(Equal(controller.Done))
			Expect(snap.View.Array).To(Equal(want.Array))
			Expect(snap.View.Steps).To(Equal(want.Steps))
		})
	})

	Describe("resubmission", func() {
		It("never folds steps from a cancelled run", func() {
			c := controller.New(mustAlgo("bubble-sort"), controller.WithInterval(time.Millisecond))
			Expect(c.Submit(reversed(150))).To(Succeed())
			Eventually(func() int { return c.CurrentState().View.Steps }).Should(BeNumerically(">", 3))

			Expect(c.Submit(validate.Input{validate.FieldArray: "2,1"})).To(Succeed())
			snap, err := c.Wait(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.State).To(Equal(controller.Done))
			Expect(snap.View.Array).To(Equal([]int{1, 2}))

			want := reference(mustAlgo("bubble-sort"), validate.Input{validate.FieldArray: "2,1"})
			Expect(snap.View.Steps).To(Equal(want.Steps))
			Consistently(func() uint64 { return c.CurrentState().Version }, "50ms", "5ms").Should(Equal(snap.Version))
		})

		It("passes through Idle when resubmitting", func() {
			c := controller.New(mustAlgo("bubble-sort"), controller.WithMode(scheduler.Manual))
			var mu sync.Mutex
			var seen []controller.State
			cancel := c.Subscribe(func(s controller.Snapshot) {
				mu.Lock()
				defer mu.Unlock()
				if len(seen) == 0 || seen[len(seen)-1] != s.State {
					seen = append(seen, s.State)
				}
			})
			defer cancel()

			Expect(c.Submit(validate.Input{validate.FieldArray: "2,1"})).To(Succeed())
			Expect(c.Submit(validate.Input{validate.FieldArray: "1"})).To(Succeed())

			mu.Lock()
			defer mu.Unlock()
			Expect(seen).To(Equal([]controller.State{
				controller.Validating, controller.Running,
				controller.Idle,
				controller.Validating, controller.Running,
			}))
		})
	})

	Describe("snapshots", func() {
		It("publishes every transition and step with increasing versions", func() {
			c := controller.New(mustAlgo("binary-search"), controller.WithMode(scheduler.Manual))
			var mu sync.Mutex
			var snaps []controller.Snapshot
			c.Subscribe(func(s controller.Snapshot) {
				mu.Lock()
				snaps = append(snaps, s)
				mu.Unlock()
			})

			Expect(c.Submit(validate.Input{validate.FieldArray: "1,2,3,4", validate.FieldTarget: "3"})).To(Succeed())
			final, err := c.Drain(ctx)
			Expect(err).NotTo(HaveOccurred())

			mu.Lock()
			defer mu.Unlock()
			Expect(snaps[0].State).To(Equal(controller.Validating))
			Expect(snaps[len(snaps)-1].State).To(Equal(controller.Done))
			Expect(snaps[len(snaps)-1].Version).To(Equal(final.Version))
			for i := 1; i < len(snaps); i++ {
				Expect(snaps[i].Version).To(BeNumerically(">", snaps[i-1].Version))
			}
			Expect(final.View.Summary).To(Equal("found 3 at index 2"))
		})

		It("hands out copies", func() {
			c := controller.New(mustAlgo("bubble-sort"), controller.WithMode(scheduler.Manual))
			Expect(c.Submit(validate.Input{validate.FieldArray: "2,1"})).To(Succeed())
			snap := c.CurrentState()
			snap.View.Array[0] = 99
			Expect(c.CurrentState().View.Array).To(Equal([]int{2, 1}))
		})

		It("feeds observers every folded step", func() {
			obs := &stepCounter{}
			c := controller.New(mustAlgo("dfs"), controller.WithMode(scheduler.Manual), controller.WithObserver(obs))
			Expect(c.Submit(algo.DFS().Example())).To(Succeed())
			snap, err := c.Drain(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.count()).To(Equal(snap.View.Steps))
			Expect(snap.Metrics["steps"]).To(BeEquivalentTo(snap.View.Steps))
		})
	})

	Describe("misuse", func() {
		var (
			buf bytes.Buffer
			c   *controller.Controller
		)

		BeforeEach(func() {
			buf.Reset()
			c = controller.New(mustAlgo("bubble-sort"), controller.WithLogger(log.New(&buf)))
		})

		It("rejects pause and resume outside a run and keeps the state", func() {
			err := c.Pause()
			Expect(controller.GetCategory(err)).To(Equal(controller.SchedulerMisuse))
			Expect(c.Resume()).To(HaveOccurred())
			Expect(c.State()).To(Equal(controller.Idle))
			Expect(buf.String()).To(ContainSubstring("scheduler misuse"))
		})

		It("rejects manual steps in timed mode", func() {
			Expect(c.Submit(validate.Input{validate.FieldArray: "2,1"})).To(Succeed())
			err := c.Step()
			Expect(controller.IsCategory(err, controller.SchedulerMisuse)).To(BeTrue())
			c.Reset()
		})

		It("rejects a non-positive interval", func() {
			Expect(c.SetInterval(0)).To(HaveOccurred())
			Expect(c.SetInterval(time.Millisecond)).To(Succeed())
			Expect(c.CurrentState().Interval).To(Equal(time.Millisecond))
		})
	})

	Describe("reset", func() {
		It("returns to Idle and releases waiters", func() {
			c := controller.New(mustAlgo("bubble-sort"), controller.WithInterval(time.Hour))
			Expect(c.Submit(reversed(5))).To(Succeed())

			waited := make(chan controller.Snapshot, 1)
			go func() {
				snap, _ := c.Wait(ctx)
				waited <- snap
			}()

			c.Reset()
			Eventually(waited).Should(Receive(HaveField("State", controller.Idle)))
			snap := c.CurrentState()
			Expect(snap.View.Array).To(BeEmpty())
			Expect(snap.Err).To(BeNil())
		})

		It("switches algorithms", func() {
			c := controller.New(mustAlgo("bubble-sort"), controller.WithMode(scheduler.Manual))
			Expect(c.Submit(validate.Input{validate.FieldArray: "2,1"})).To(Succeed())
			c.Select(mustAlgo("lcs"))
			snap := c.CurrentState()
			Expect(snap.State).To(Equal(controller.Idle))
			Expect(snap.Algorithm).To(Equal("lcs"))
		})
	})
})
