// Package automation runs submissions headlessly: scripted scenarios loaded
// from YAML and determinism checks that compare repeated and replayed runs.
package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/controller"
	"github.com/san-kum/algoviz/internal/scheduler"
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/storage"
	"github.com/san-kum/algoviz/internal/validate"
)

// Scenario is a scripted sequence of submissions.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep submits one input and optionally checks the outcome.
// Input takes precedence over Preset when both are set.
type ScenarioStep struct {
	Algorithm string            `yaml:"algorithm"`
	Preset    string            `yaml:"preset"`
	Input     map[string]string `yaml:"input"`
	Expect    Expectation       `yaml:"expect"`
	SaveAs    string            `yaml:"save_as"`
}

// Expectation is matched against the final snapshot. Empty fields are not
// checked; Summary and Reason match by substring.
type Expectation struct {
	State    string `yaml:"state"`
	Summary  string `yaml:"summary"`
	Reason   string `yaml:"reason"`
	Category string `yaml:"category"`
}

// Result is the outcome of one scenario step.
type Result struct {
	Algorithm string
	Snapshot  controller.Snapshot
	Steps     []step.Step
	RunID     string
	Mismatch  []string
}

func (r Result) Passed() bool { return len(r.Mismatch) == 0 }

type Runner struct {
	registry *algo.Registry
	store    *storage.Store
	logger   *log.Logger
}

type RunnerOption func(*Runner)

// WithStore saves the trace of every step that names SaveAs.
func WithStore(s *storage.Store) RunnerOption {
	return func(r *Runner) { r.store = s }
}

func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRunner(registry *algo.Registry, opts ...RunnerOption) *Runner {
	r := &Runner{registry: registry, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// RunScenario executes every step in order. A step whose outcome does not
// match its expectation is reported in its Result; only setup problems
// (unknown algorithm, missing preset, storage failures) stop the run.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenario.Steps))

	for i, st := range scenario.Steps {
		r.logger.Info("running step", "n", fmt.Sprintf("%d/%d", i+1, len(scenario.Steps)), "algorithm", st.Algorithm)

		alg, err := r.registry.Get(st.Algorithm)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		in, err := st.input(alg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res, err := Run(ctx, alg, in, r.logger)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		res.Mismatch = st.Expect.check(res.Snapshot)
		for _, m := range res.Mismatch {
			r.logger.Warn("expectation failed", "step", i+1, "detail", m)
		}

		if st.SaveAs != "" && r.store != nil {
			meta := Metadata(res, in)
			meta.Name = st.SaveAs
			id, err := r.store.Save(meta, res.Steps)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = id
			r.logger.Debug("trace saved", "id", id)
		}

		results = append(results, res)
	}

	return results, nil
}

// input resolves the submission: explicit input, then preset, then the
// algorithm's example.
func (st ScenarioStep) input(alg algo.Algorithm) (validate.Input, error) {
	if len(st.Input) > 0 {
		return validate.Input(st.Input).Clone(), nil
	}
	if st.Preset != "" {
		in := config.GetPreset(st.Algorithm, st.Preset)
		if in == nil {
			return nil, fmt.Errorf("unknown preset %q for %s", st.Preset, st.Algorithm)
		}
		return in, nil
	}
	return alg.Example(), nil
}

func (e Expectation) check(snap controller.Snapshot) []string {
	var out []string
	if e.State != "" && !strings.EqualFold(e.State, snap.State.String()) {
		out = append(out, fmt.Sprintf("state: want %s, got %s", e.State, snap.State))
	}
	if e.Summary != "" && !strings.Contains(snap.View.Summary, e.Summary) {
		out = append(out, fmt.Sprintf("summary: want %q in %q", e.Summary, snap.View.Summary))
	}
	var msg, cat string
	if snap.Err != nil {
		msg = snap.Err.Message
		cat = string(snap.Err.Category)
	}
	if e.Reason != "" && !strings.Contains(msg, e.Reason) {
		out = append(out, fmt.Sprintf("reason: want %q in %q", e.Reason, msg))
	}
	if e.Category != "" && !strings.EqualFold(e.Category, cat) {
		out = append(out, fmt.Sprintf("category: want %s, got %q", e.Category, cat))
	}
	return out
}

// Run submits in to a fresh manual-mode controller, steps it to the end and
// returns the final snapshot with the recorded trace. Invalid input is not an
// error here; it shows up as an Error snapshot.
func Run(ctx context.Context, alg algo.Algorithm, in validate.Input, logger *log.Logger) (Result, error) {
	rec := storage.NewRecorder()
	c := controller.New(alg,
		controller.WithMode(scheduler.Manual),
		controller.WithObserver(rec),
		controller.WithLogger(logger),
	)
	defer c.Reset()

	if err := c.Submit(in); err != nil && !controller.IsCategory(err, controller.InputError) {
		return Result{}, err
	}
	snap, err := c.Drain(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Algorithm: alg.Name(), Snapshot: snap, Steps: rec.Steps()}, nil
}

// Metadata describes a finished run for storage.
func Metadata(res Result, in validate.Input) storage.RunMetadata {
	meta := storage.RunMetadata{
		Algorithm: res.Algorithm,
		Mode:      scheduler.Manual.String(),
		Input:     map[string]string(in.Clone()),
		Outcome:   res.Snapshot.State.String(),
		Summary:   res.Snapshot.View.Summary,
		Metrics:   res.Snapshot.Metrics,
	}
	if res.Snapshot.Err != nil {
		meta.Reason = res.Snapshot.Err.Message
	}
	return meta
}
