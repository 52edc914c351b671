package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/automation"
	"github.com/san-kum/algoviz/internal/storage"
)

func runScenario(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if scenario.Name != "" {
		logger.Info("scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	}
	prog := newProgress(logger)
	runner := automation.NewRunner(algo.NewRegistry(), automation.WithStore(st), automation.WithLogger(logger))
	results, err := runner.RunScenario(cmd.Context(), scenario)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("ran %d steps", len(results)))

	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tALGORITHM\tSTATE\tSTEPS\tRESULT\tRUN")
	for i, r := range results {
		status := "ok"
		if !r.Passed() {
			status = "FAIL: " + strings.Join(r.Mismatch, "; ")
			failed++
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n", i+1, r.Algorithm, r.Snapshot.State, len(r.Steps), status, shortID(r.RunID))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenario steps failed", failed, len(results))
	}
	return nil
}

func verify(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(cmd.Context())

	if runID != "" {
		st := storage.New(dataDir)
		id, err := st.Resolve(runID)
		if err != nil {
			return err
		}
		rep, err := automation.VerifyStored(cmd.Context(), st, algo.NewRegistry(), id)
		if err != nil {
			return err
		}
		if !rep.OK() {
			return fmt.Errorf("run %s does not replay: %s", shortID(id), rep.Detail)
		}
		fmt.Printf("run %s replays identically (%d steps)\n", shortID(id), rep.Steps)
		return nil
	}

	var targets []*session
	if len(args) > 0 {
		s, err := loadSession(cmd, args)
		if err != nil {
			return err
		}
		targets = append(targets, s)
	} else {
		registry := algo.NewRegistry()
		for _, name := range registry.List() {
			alg, err := registry.Get(name)
			if err != nil {
				return err
			}
			targets = append(targets, &session{registry: registry, alg: alg, input: alg.Example()})
		}
	}

	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tSTEPS\tRESULT")
	for _, s := range targets {
		rep, err := automation.CheckDeterminism(cmd.Context(), s.alg, s.input, logger)
		if err != nil {
			return err
		}
		status := "deterministic"
		if !rep.OK() {
			status = "FAIL: " + rep.Detail
			failed++
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", rep.Algorithm, rep.Steps, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d algorithms are not deterministic", failed)
	}
	return nil
}
