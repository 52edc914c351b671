package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/automation"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/controller"
	"github.com/san-kum/algoviz/internal/storage"
	"github.com/san-kum/algoviz/internal/tui"
)

func runAlgorithm(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args)
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())

	rec := storage.NewRecorder()
	opts := []controller.Option{
		controller.WithMode(s.cfg.SchedulerMode()),
		controller.WithInterval(s.cfg.Interval()),
		controller.WithLogger(logger),
		controller.WithObserver(rec),
	}
	if trace || frames > 0 {
		printer := tui.NewTracePrinter(os.Stdout, s.cfg.Theme)
		if frames > 0 {
			if p, err := s.alg.Validate(s.input.Clone()); err == nil {
				printer.WithFrames(s.alg.Initial(p), frames)
			}
		}
		opts = append(opts, controller.WithObserver(printer))
	}
	c := controller.New(s.alg, opts...)

	logger.Info("running", "algorithm", s.alg.Name(), "mode", s.cfg.Mode)
	prog := newProgress(logger)
	if err := c.Submit(s.input); err != nil {
		return err
	}
	snap, err := drain(cmd.Context(), c)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("%s after %d steps", snap.State, snap.View.Steps))

	printSnapshot(snap, s.cfg.Theme)

	if s.cfg.Record {
		id, err := saveRun(s.cfg.DataDir, s.cfg.Mode, snap, s.input, rec)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", id)
	}
	return nil
}

func printSnapshot(snap controller.Snapshot, theme string) {
	styles := tui.NewStyles(tui.GetTheme(theme))
	fmt.Println(tui.Render(snap.View, styles))
	fmt.Println()
	fmt.Printf("state: %s\n", snap.State)
	if snap.View.Summary != "" {
		fmt.Printf("result: %s\n", snap.View.Summary)
	}
	if snap.Err != nil {
		fmt.Printf("error: %s\n", snap.Err)
	}
	printMetrics(snap.Metrics)
}

func printMetrics(metrics map[string]float64) {
	if len(metrics) == 0 {
		return
	}
	names := make([]string, 0, len(metrics))
	for k := range metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, k := range names {
		fmt.Printf("  %s: %g\n", k, metrics[k])
	}
}

func saveRun(dir, mode string, snap controller.Snapshot, in map[string]string, rec *storage.Recorder) (string, error) {
	st := storage.New(dir)
	if err := st.Init(); err != nil {
		return "", err
	}
	meta := automation.Metadata(automation.Result{Algorithm: snap.Algorithm, Snapshot: snap}, in)
	meta.Mode = mode
	return st.Save(meta, rec.Steps())
}

func liveView(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so the controller logs only when verbose,
	// and then to a file.
	var opts []controller.Option
	if verbose {
		f, err := os.Create("algoviz.log")
		if err != nil {
			return err
		}
		defer f.Close()
		opts = append(opts, controller.WithLogger(newLogger(f, log.DebugLevel)))
	}

	opts = append(opts,
		controller.WithMode(s.cfg.SchedulerMode()),
		controller.WithInterval(s.cfg.Interval()),
	)
	c := controller.New(s.alg, opts...)
	if s.cfg.Record {
		loggerFromContext(cmd.Context()).Warn("recording is only supported by run; ignoring")
	}

	m := tui.NewModel(c, s.registry, s.input, s.cfg.Theme)
	if err := c.Submit(s.input); err != nil && !controller.IsCategory(err, controller.InputError) {
		m.Close()
		return err
	}
	return tui.Run(m)
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, nil)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFAMILY\tFIELDS\tTIE-BREAK")
	for _, name := range s.registry.List() {
		alg, err := s.registry.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, alg.Family(), strings.Join(alg.Fields(), ","), alg.TieBreak())
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd, args)
	if err != nil {
		return err
	}
	name := s.alg.Name()

	presets := config.ListPresets(name)
	if len(presets) == 0 {
		fmt.Printf("no presets for %s\n", name)
		return nil
	}

	fmt.Printf("presets for %s:\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, p := range presets {
		in := config.GetPreset(name, p)
		fields := make([]string, 0, len(in))
		for _, k := range in.Keys() {
			fields = append(fields, fmt.Sprintf("%s=%s", k, in[k]))
		}
		fmt.Fprintf(w, "  %s\t%s\n", p, strings.Join(fields, "  "))
	}
	return w.Flush()
}

// drain runs c to completion, stopping early on interrupt.
func drain(ctx context.Context, c *controller.Controller) (controller.Snapshot, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	snap, err := c.Drain(ctx)
	if err != nil {
		c.Reset()
	}
	return snap, err
}
