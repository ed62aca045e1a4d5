package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/mtjsim/internal/automation"
	"github.com/san-kum/mtjsim/internal/config"
	"github.com/san-kum/mtjsim/internal/experiment"
	"github.com/san-kum/mtjsim/internal/export"
	"github.com/san-kum/mtjsim/internal/logging"
	"github.com/san-kum/mtjsim/internal/sim"
)

var version = "dev"

var (
	configFile string
	preset     string
	logLevel   string
	format     string

	dt         float64
	steps      int
	integrator string
	drive      string
	validate   bool
	window     bool

	sweepLayer int
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	trials       int
	perturbation float64
	seed         int64
)

// main executes the root command and exits with status 1 if it returns an
// error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd registers the commands and their flags.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mtjsim",
		Short:         "magnetic tunnel junction LLG simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset as stack/name (see presets)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error, none")
	viper.SetEnvPrefix("mtjsim")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"config", "preset", "log-level"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate one trajectory and write it to stdout",
		Args:  cobra.NoArgs,
		RunE:  runTrajectory,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the external field and compute PIMM and spin-diode spectra",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")
	sweepCmd.Flags().BoolVar(&window, "window", false, "apply a Hann window to the PIMM signal")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integrators on the configured stack",
		Args:  cobra.NoArgs,
		RunE:  benchIntegrators,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare integrators on the same trajectory",
		Args:  cobra.NoArgs,
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [stack]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stacks := config.ListStacks()
			if len(args) > 0 {
				stacks = args
			}
			for _, stack := range stacks {
				presets := config.ListPresets(stack)
				if len(presets) == 0 {
					fmt.Printf("no presets for stack: %s\n", stack)
					continue
				}
				fmt.Printf("presets for %s:\n", stack)
				for _, p := range presets {
					fmt.Printf("  %s/%s\n", stack, p)
				}
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list integrators and drives",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			registry := experiment.NewRegistry()
			fmt.Printf("integrators: %s\n", strings.Join(registry.ListIntegrators(), ", "))
			fmt.Printf("drives:      %s\n", strings.Join(registry.ListDrives(), ", "))
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of presets and overrides",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	paramCmd := &cobra.Command{
		Use:   "param",
		Short: "sweep one layer constant and report the final state",
		Args:  cobra.NoArgs,
		RunE:  runParamSweep,
	}
	addRunFlags(paramCmd)
	paramCmd.Flags().IntVar(&sweepLayer, "layer", 0, "layer index")
	paramCmd.Flags().StringVar(&sweepParam, "param", "alpha", "layer constant (ms, ku, j, th, alpha, ...)")
	paramCmd.Flags().Float64Var(&sweepMin, "min", 0.005, "first value")
	paramCmd.Flags().Float64Var(&sweepMax, "max", 0.05, "last value")
	paramCmd.Flags().IntVar(&sweepSteps, "n", 10, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run trials from randomly perturbed initial magnetizations",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 0.1, "maximum perturbation per component")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect the resolved configuration",
	}
	configSaveCmd := &cobra.Command{
		Use:   "save [file]",
		Short: "write the configuration resolved from preset, config file and flags as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  saveConfig,
	}
	addRunFlags(configSaveCmd)
	configSaveCmd.Flags().BoolVar(&window, "window", false, "apply a Hann window to the PIMM signal")
	configCmd.AddCommand(configSaveCmd)

	rootCmd.AddCommand(runCmd, sweepCmd, benchCmd, compareCmd, presetsCmd, listCmd, versionCmd,
		scenarioCmd, paramCmd, monteCarloCmd, configCmd)

	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step in seconds")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps per run")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, heun, rk4)")
	cmd.Flags().StringVar(&drive, "drive", config.DefaultDrive, "drive (none, pulse, sine, constant)")
	cmd.Flags().BoolVar(&validate, "validate", false, "stop on NaN or Inf magnetization")
}

// loadConfig resolves the configuration from the preset, then the config
// file, then any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if name := viper.GetString("preset"); name != "" {
		stack, p, ok := strings.Cut(name, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be stack/name, got %q", name)
		}
		cfg = config.GetPreset(stack, p)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets(stack))
		}
	}

	if path := viper.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("drive") {
		cfg.Drive = drive
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validate
	}
	if flags.Changed("window") {
		cfg.Stimulus.Window = window
	}
	return cfg, cfg.Validate()
}

func saveConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func newLogger() (log.Logger, error) {
	return logging.New(os.Stderr, viper.GetString("log-level"))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger = log.With(logger, "run", runID)

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	result, err := experiment.New(cfg, logger).Trajectory(ctx)
	if err != nil {
		if result == nil || result.StepsTaken == 0 {
			return err
		}
		level.Warn(logger).Log("msg", "run stopped early", "steps", result.StepsTaken, "err", err)
	}
	level.Info(logger).Log("msg", "run complete", "steps", result.StepsTaken,
		"elapsed", time.Since(start), "norm_drift", result.Metrics["norm_drift"])

	return writeResult(os.Stdout, runID, cfg, result)
}

func writeResult(w io.Writer, runID string, cfg *config.Config, result *sim.Result) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, result)
	case "json":
		meta := export.Meta{
			RunID:      runID,
			Integrator: cfg.Integrator,
			Drive:      cfg.Drive,
			Dt:         cfg.Dt,
			Layers:     len(cfg.Layers),
			Hext:       cfg.Hext,
		}
		return export.WriteJSON(w, meta, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	var points []experiment.SweepPoint
	err = experiment.New(cfg, logger).Sweep(ctx, func(p experiment.SweepPoint) error {
		points = append(points, p)
		return nil
	})
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "sweep complete", "points", len(points), "elapsed", time.Since(start))

	if format == "json" {
		return export.WriteSweepJSON(os.Stdout, points)
	}
	return export.WriteSweepCSV(os.Stdout, points)
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	stepCounts := []int{500, 2000, 8000}

	fmt.Printf("benchmarking %d layers\n\n", len(base.Layers))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tTIME\tSTEPS/SEC")

	for _, name := range registry.ListIntegrators() {
		for _, n := range stepCounts {
			cfg := base.Clone()
			cfg.Integrator = name
			cfg.Steps = n

			taken := 0
			start := time.Now()
			_, err := experiment.New(cfg, nil).Stream(context.Background(), func(int, sim.State, float64) bool {
				taken++
				return true
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(taken) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\n", name, taken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL M0\tNORM DRIFT\tMEAN MZ")

	for _, name := range registry.ListIntegrators() {
		cfg := base.Clone()
		cfg.Integrator = name

		result, err := experiment.New(cfg, nil).Trajectory(context.Background())
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%.3e\t%.4f\n",
			name, result.Final[0], result.Metrics["norm_drift"], result.Metrics["mean_mz"])
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScenario(ctx, scenario, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTEPS\tPOINTS\tFINAL M0\tNORM DRIFT")
	for _, r := range results {
		if r.Result != nil {
			fmt.Fprintf(w, "%s\t%d\t-\t%s\t%.3e\n",
				r.Name, r.Result.StepsTaken, r.Result.Final[0], r.Result.Metrics["norm_drift"])
			continue
		}
		final := "-"
		if n := len(r.Points); n > 0 {
			final = r.Points[n-1].Final[0].String()
		}
		fmt.Fprintf(w, "%s\t-\t%d\t%s\t-\n", r.Name, len(r.Points), final)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runParamSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:     cfg,
		Layer:    sweepLayer,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL M%d\tRX\tRY\tRZ\tMEAN MZ\n", strings.ToUpper(sweepParam), sweepLayer)
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%s\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.Value, r.Final[sweepLayer], r.Rx, r.Ry, r.Rz, r.Metrics["mean_mz"])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         seed,
	}, logger)
	if err != nil {
		return err
	}

	for layer := range cfg.Layers {
		stable, unstable, mean, std := automation.MonteCarloStats(results, layer)
		fmt.Printf("layer %d: stable %d, unstable %d, final mz %.4f +/- %.4f\n", layer, stable, unstable, mean, std)
	}
	return nil
}
