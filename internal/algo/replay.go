package algo

import (
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/validate"
)

// Replay wraps alg so that its steps come from a recorded trace instead of
// the generator. Validation and the initial state still come from alg, so a
// trace recorded for different input fails when folded.
func Replay(alg Algorithm, steps []step.Step) Algorithm {
	recorded := make([]step.Step, len(steps))
	for i, s := range steps {
		recorded[i] = s.Clone()
	}
	return &definition{
		name:     alg.Name(),
		family:   alg.Family(),
		fields:   alg.Fields(),
		tieBreak: alg.TieBreak(),
		example:  alg.Example(),
		validate: alg.Validate,
		initial:  alg.Initial,
		steps: func(validate.Params) step.Seq {
			return step.FromSlice(recorded)
		},
	}
}
