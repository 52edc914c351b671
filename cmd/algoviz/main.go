package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/validate"
)

var (
	dataDir     string
	configFile  string
	presetsFile string
	verbose     bool
	// Run parameters
	mode       string
	intervalMs int
	preset     string
	inputs     []string
	theme      string
	record     bool
	// Output
	trace        bool
	frames       int
	replayFrames int
	outFile      string
	svgWidth     int
	svgHeight    int
	runID        string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "algoviz",
		Short:        "step-by-step algorithm visualizer",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
			if presetsFile != "" {
				if err := config.LoadPresets(presetsFile); err != nil {
					return fmt.Errorf("failed to load presets: %w", err)
				}
			}
			return nil
		},
		Args: cobra.NoArgs,
		RunE: liveView,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "trace directory")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&presetsFile, "presets", "", "extra presets file (.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "run an algorithm headlessly and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAlgorithm,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&trace, "trace", false, "print every step")
	runCmd.Flags().IntVar(&frames, "frames", 0, "redraw the view every N steps (implies --trace)")

	liveCmd := &cobra.Command{
		Use:   "live [algorithm]",
		Short: "run an algorithm with the interactive view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveView,
	}
	addRunFlags(liveCmd)

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list available algorithms",
		Args:  cobra.NoArgs,
		RunE:  listAlgorithms,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [algorithm]",
		Short: "list input presets for an algorithm",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "animate a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&intervalMs, "interval", config.DefaultIntervalMs, "delay between steps in ms")
	replayCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	replayCmd.Flags().IntVar(&replayFrames, "frames", 1, "redraw the view every N steps")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the final state of a recorded run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	verifyCmd := &cobra.Command{
		Use:   "verify [algorithm]",
		Short: "check that runs are deterministic and replay-stable",
		Args:  cobra.MaximumNArgs(1),
		RunE:  verify,
	}
	verifyCmd.Flags().StringVar(&preset, "preset", "", "input preset")
	verifyCmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "input field as name=value (repeatable)")
	verifyCmd.Flags().StringVar(&runID, "run", "", "verify a recorded run instead")

	rootCmd.AddCommand(runCmd, liveCmd, algorithmsCmd, presetsCmd, listCmd, showCmd,
		replayCmd, exportJSONCmd, exportSVGCmd, scenarioCmd, verifyCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&mode, "mode", "m", config.DefaultMode, "pacing mode (timed, manual)")
	cmd.Flags().IntVar(&intervalMs, "interval", config.DefaultIntervalMs, "delay between steps in ms")
	cmd.Flags().StringVar(&preset, "preset", "", "input preset")
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "input field as name=value (repeatable)")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	cmd.Flags().BoolVar(&record, "record", false, "save the step trace")
}

// session is everything a run command needs, resolved from config, flags
// and arguments.
type session struct {
	cfg      *config.Config
	registry *algo.Registry
	alg      algo.Algorithm
	input    validate.Input
}

// loadSession applies the config file, then flags that were set explicitly,
// then the algorithm argument. Input comes from --input, else --preset, else
// the config, else the algorithm's example.
func loadSession(cmd *cobra.Command, args []string) (*session, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("interval") {
		cfg.IntervalMs = intervalMs
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("record") {
		cfg.Record = record
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if len(args) > 0 && args[0] != cfg.Algorithm {
		cfg.Algorithm = args[0]
		cfg.Input = nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := algo.NewRegistry()
	alg, err := registry.Get(cfg.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w (see 'algoviz algorithms')", err)
	}

	in := cfg.GetInput()
	switch {
	case len(inputs) > 0:
		in, err = parseInputs(inputs)
		if err != nil {
			return nil, err
		}
	case preset != "":
		in = config.GetPreset(alg.Name(), preset)
		if in == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset,
				strings.Join(config.ListPresets(alg.Name()), ", "))
		}
	case len(in) == 0:
		in = alg.Example()
	}

	return &session{cfg: cfg, registry: registry, alg: alg, input: in}, nil
}

// parseInputs turns repeated name=value flags into an input. Values may
// contain commas and further '=' signs.
func parseInputs(pairs []string) (validate.Input, error) {
	in := make(validate.Input, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --input %q, expected name=value", p)
		}
		in[strings.TrimSpace(name)] = value
	}
	return in, nil
}
