package automation

import (
	"context"
	"fmt"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/storage"
	"github.com/san-kum/algoviz/internal/validate"
	"github.com/san-kum/algoviz/internal/viz"
)

// Report is the result of a determinism check.
type Report struct {
	Algorithm string
	Steps     int
	// Diverged is the index of the first differing step, or -1.
	Diverged int
	Detail   string
}

func (r Report) OK() bool { return r.Diverged < 0 && r.Detail == "" }

// CheckDeterminism runs alg twice on in through the controller and compares
// the traces step by step. It then folds the recorded trace offline and
// checks that the result matches the controller's final view.
func CheckDeterminism(ctx context.Context, alg algo.Algorithm, in validate.Input, logger *log.Logger) (Report, error) {
	first, err := Run(ctx, alg, in, logger)
	if err != nil {
		return Report{}, err
	}
	second, err := Run(ctx, alg, in, logger)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Algorithm: alg.Name(), Steps: len(first.Steps), Diverged: Diverge(first.Steps, second.Steps)}
	if rep.Diverged >= 0 {
		rep.Detail = describe(first.Steps, second.Steps, rep.Diverged)
		return rep, nil
	}
	if len(first.Steps) == 0 {
		// rejected input never starts a run
		return rep, nil
	}

	p, err := alg.Validate(in.Clone())
	if err != nil {
		return rep, fmt.Errorf("validate: %w", err)
	}
	folded, err := viz.Fold(alg.Initial(p), first.Steps)
	if err != nil {
		rep.Detail = err.Error()
		return rep, nil
	}
	if !reflect.DeepEqual(folded.Clone(), first.Snapshot.View) {
		rep.Detail = "offline fold differs from controller view"
	}
	return rep, nil
}

// VerifyStored replays a stored run: the algorithm is re-run on the stored
// input and its fresh trace is compared with the recorded one.
func VerifyStored(ctx context.Context, st *storage.Store, registry *algo.Registry, runID string) (Report, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return Report{}, err
	}
	recorded, err := st.LoadSteps(runID)
	if err != nil {
		return Report{}, err
	}
	alg, err := registry.Get(meta.Algorithm)
	if err != nil {
		return Report{}, err
	}

	fresh := step.Collect(func(yield func(step.Step) bool) {
		p, err := alg.Validate(validate.Input(meta.Input).Clone())
		if err != nil {
			return
		}
		for s := range alg.Steps(p) {
			if !yield(s) {
				return
			}
		}
	})
	if len(recorded) == 0 {
		fresh = nil
	}

	rep := Report{Algorithm: alg.Name(), Steps: len(recorded), Diverged: Diverge(recorded, fresh)}
	if rep.Diverged >= 0 {
		rep.Detail = describe(recorded, fresh, rep.Diverged)
	}
	return rep, nil
}

// Diverge returns the index of the first step where a and b differ, or -1
// when they are identical.
func Diverge(a, b []step.Step) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if !a[i].Equal(b[i]) {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

func describe(a, b []step.Step, i int) string {
	at := func(s []step.Step) string {
		if i < len(s) {
			return s[i].String()
		}
		return "<end>"
	}
	return fmt.Sprintf("step %d: %s vs %s", i, at(a), at(b))
}
