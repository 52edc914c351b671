package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/controller"
	"github.com/san-kum/algoviz/internal/export"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/scheduler"
	"github.com/san-kum/algoviz/internal/step"
	"github.com/san-kum/algoviz/internal/storage"
	"github.com/san-kum/algoviz/internal/tui"
	"github.com/san-kum/algoviz/internal/validate"
	"github.com/san-kum/algoviz/internal/viz"
)

// openRun resolves a run ID or unique prefix and loads its trace.
func openRun(id string) (*storage.RunMetadata, []step.Step, error) {
	st := storage.New(dataDir)
	full, err := st.Resolve(id)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(full)
	if err != nil {
		return nil, nil, err
	}
	steps, err := st.LoadSteps(full)
	if err != nil {
		return nil, nil, err
	}
	return meta, steps, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tALGORITHM\tTIME\tMODE\tSTEPS\tOUTCOME\tNAME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(run.ID),
			run.Algorithm,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Steps,
			run.Outcome,
			run.Name,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, steps, err := openRun(args[0])
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return fmt.Errorf("no steps recorded")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("algorithm: %s\n", meta.Algorithm)
	fmt.Printf("outcome: %s\n", meta.Outcome)
	if meta.Summary != "" {
		fmt.Printf("result: %s\n", meta.Summary)
	}
	if meta.Reason != "" {
		fmt.Printf("reason: %s\n", meta.Reason)
	}
	for _, k := range validate.Input(meta.Input).Keys() {
		fmt.Printf("input %s: %s\n", k, meta.Input[k])
	}
	fmt.Printf("steps: %d\n\n", len(steps))

	names, series := workSeries(steps)
	for _, name := range names {
		data := series[name]
		if len(data) < 2 || data[len(data)-1] == 0 {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption(name+" vs step"),
		))
		fmt.Println()
	}

	final, err := finalView(meta, steps)
	if err != nil {
		return err
	}
	fmt.Println(tui.Render(final, tui.NewStyles(tui.GetTheme(theme))))
	return nil
}

// workSeries samples every cumulative counter after each step.
func workSeries(steps []step.Step) ([]string, map[string][]float64) {
	set := metrics.NewSet(metrics.NewComparisons(), metrics.NewSwaps(), metrics.NewWrites(),
		metrics.NewVisits(), metrics.NewRelaxations(), metrics.NewProbes())
	series := make(map[string][]float64)
	for _, s := range steps {
		set.Observe(s)
		for name, v := range set.Values() {
			series[name] = append(series[name], v)
		}
	}
	return set.Names(), series
}

// finalView folds a stored trace over the initial view of its input.
func finalView(meta *storage.RunMetadata, steps []step.Step) (viz.State, error) {
	alg, err := algo.NewRegistry().Get(meta.Algorithm)
	if err != nil {
		return viz.State{}, err
	}
	p, err := alg.Validate(validate.Input(meta.Input).Clone())
	if err != nil {
		return viz.State{}, fmt.Errorf("stored input no longer validates: %w", err)
	}
	return viz.Fold(alg.Initial(p), steps)
}

// replayRun animates a recorded trace through a timed controller, so a
// replay exercises the same pacing and folding as the original run.
func replayRun(cmd *cobra.Command, args []string) error {
	meta, steps, err := openRun(args[0])
	if err != nil {
		return err
	}
	alg, err := algo.NewRegistry().Get(meta.Algorithm)
	if err != nil {
		return err
	}
	in := validate.Input(meta.Input).Clone()
	p, err := alg.Validate(in.Clone())
	if err != nil {
		return fmt.Errorf("stored input no longer validates: %w", err)
	}

	logger := loggerFromContext(cmd.Context())
	printer := tui.NewTracePrinter(os.Stdout, theme).WithFrames(alg.Initial(p), replayFrames)
	c := controller.New(algo.Replay(alg, steps),
		controller.WithMode(scheduler.Timed),
		controller.WithInterval(time.Duration(intervalMs)*time.Millisecond),
		controller.WithLogger(logger),
		controller.WithObserver(printer),
	)

	if err := c.Submit(in); err != nil {
		return err
	}
	snap, err := drain(cmd.Context(), c)
	if err != nil {
		return err
	}

	fmt.Printf("state: %s\n", snap.State)
	if snap.State.String() != meta.Outcome {
		return fmt.Errorf("replay ended %s, recorded run ended %s", snap.State, meta.Outcome)
	}
	if snap.View.Summary != meta.Summary {
		return fmt.Errorf("replay result %q differs from recorded %q", snap.View.Summary, meta.Summary)
	}
	logger.Info("replay matches recording", "steps", printer.Count())
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, steps, err := openRun(args[0])
	if err != nil {
		return err
	}
	if outFile == "" || outFile == "-" {
		return storage.WriteJSON(os.Stdout, *meta, steps)
	}
	if err := storage.ExportJSON(outFile, *meta, steps); err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Info("exported", "run", meta.ID, "file", outFile, "steps", len(steps))
	return nil
}

// exportSVG writes the final array as bars, or the busiest counter as a
// line chart when the algorithm has no array.
func exportSVG(cmd *cobra.Command, args []string) error {
	meta, steps, err := openRun(args[0])
	if err != nil {
		return err
	}
	final, err := finalView(meta, steps)
	if err != nil {
		return err
	}

	svg := export.ArrayToSVG(final, svgWidth, svgHeight)
	if svg == "" {
		names, series := workSeries(steps)
		busiest := ""
		for _, name := range names {
			data := series[name]
			if len(data) > 0 && (busiest == "" || data[len(data)-1] > last(series[busiest])) {
				busiest = name
			}
		}
		if busiest != "" {
			svg = export.SeriesToSVG(series[busiest], svgWidth, svgHeight, "#00ff88")
		}
	}
	if svg == "" {
		return fmt.Errorf("run %s has nothing to draw", shortID(meta.ID))
	}

	if outFile == "" || outFile == "-" {
		_, err := fmt.Fprintln(os.Stdout, svg)
		return err
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Info("exported", "run", meta.ID, "file", outFile)
	return nil
}

func last(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return data[len(data)-1]
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
