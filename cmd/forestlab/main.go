package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/ecodyn/forestlab/internal/analysis"
	"github.com/ecodyn/forestlab/internal/config"
	"github.com/ecodyn/forestlab/internal/experiment"
	"github.com/ecodyn/forestlab/internal/forest"
	"github.com/ecodyn/forestlab/internal/report"
	"github.com/ecodyn/forestlab/internal/sobol"
	"github.com/ecodyn/forestlab/internal/storage"
	"github.com/ecodyn/forestlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	c0         float64
	horizon    int
	growthRate float64
	capacity   float64
	logistic   float64
	threshold  float64
	integrator string
	maxStep    float64

	samples    int
	replicates int
	workers    int
	sampler    string
	relSD      float64
	seed       int64
	plotDir    string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "forestlab",
		Short: "forest biomass growth simulation and sensitivity lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".forestlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use a named preset scenario")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate one scenario and report the trajectory",
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)

	sensitivityCmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Saltelli sensitivity analysis of peak biomass",
		RunE:  runSensitivity,
	}
	addScenarioFlags(sensitivityCmd)
	sensitivityCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "base sample count N")
	sensitivityCmd.Flags().IntVar(&replicates, "replicates", config.DefaultReplicates, "bootstrap replicate count")
	sensitivityCmd.Flags().IntVar(&workers, "workers", 0, "evaluation workers (0 = all cores)")
	sensitivityCmd.Flags().StringVar(&sampler, "sampler", "normal", "sampler: normal or lhc")
	sensitivityCmd.Flags().Float64Var(&relSD, "rel-sd", config.DefaultRelSD, "marginal sd as fraction of mean")
	sensitivityCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	sensitivityCmd.Flags().StringVar(&plotDir, "plots", "", "write PNG artifacts to this directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and record peak biomass",
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "thresh", "parameter to sweep (r, K, g, thresh)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "sweep lower bound")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 200, "sweep upper bound")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "sweep step count")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "evaluation workers (0 = all cores)")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the stand grow in the terminal",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSONStdout(args[0])
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	rootCmd.AddCommand(runCmd, sensitivityCmd, sweepCmd, compareCmd, liveCmd, presetsCmd, listCmd, exportCmd, plotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&c0, "c0", config.DefaultInitialBiomass, "initial carbon stock")
	cmd.Flags().IntVar(&horizon, "horizon", config.DefaultHorizon, "horizon in time units")
	cmd.Flags().Float64Var(&growthRate, "r", 0.01, "exponential growth rate")
	cmd.Flags().Float64Var(&capacity, "K", 250, "carrying capacity")
	cmd.Flags().Float64Var(&logistic, "g", 2, "logistic growth rate")
	cmd.Flags().Float64Var(&threshold, "thresh", 50, "regime-switch threshold")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, rk4, rk45)")
	cmd.Flags().Float64Var(&maxStep, "max-step", config.DefaultMaxStep, "internal substep ceiling")
}

// resolveConfig layers preset, config file and explicit flags, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flagOverrides := map[string]func(){
		"c0":       func() { cfg.Stand.InitialBiomass = c0 },
		"horizon":  func() { cfg.Stand.Horizon = horizon },
		"r":        func() { cfg.Stand.GrowthRate = growthRate },
		"K":        func() { cfg.Stand.Capacity = capacity },
		"g":        func() { cfg.Stand.LogisticRate = logistic },
		"thresh":   func() { cfg.Stand.Threshold = threshold },
		"max-step": func() { cfg.Integration.MaxStep = maxStep },
		"integrator": func() {
			cfg.Integration.Method = integrator
			cfg.Integration.Adaptive = integrator == "rk45"
		},
		"samples":    func() { cfg.Sensitivity.Samples = samples },
		"replicates": func() { cfg.Sensitivity.Replicates = replicates },
		"workers":    func() { cfg.Sensitivity.Workers = workers },
		"sampler":    func() { cfg.Sensitivity.Sampler = sampler },
		"rel-sd":     func() { cfg.Sensitivity.RelSD = relSD },
		"seed":       func() { cfg.Sensitivity.Seed = seed },
	}
	for name, apply := range flagOverrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := experiment.FromConfig(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	slog.Info("running scenario", "integrator", scenario.Integrator, "horizon", scenario.Horizon)
	start := time.Now()

	result, err := scenario.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.SaveRun(scenario.Integrator, scenario.Params, scenario.InitialBiomass, scenario.Horizon, cfg.Sensitivity.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%d internal steps)\n", elapsed, result.Steps)
	fmt.Printf("run id: %s\n\n", runID)

	fmt.Println(report.TrajectoryPlot(result.Component(0), scenario.Params.Threshold,
		fmt.Sprintf("biomass C(t), threshold at %.0f", scenario.Params.Threshold)))
	fmt.Println()

	return report.WriteMetricsTable(os.Stdout, result.Metrics)
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := experiment.FromConfig(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	n, k := cfg.Sensitivity.Samples, forest.Dim
	slog.Info("running Saltelli analysis",
		"samples", n,
		"evaluations", n*(2*k+2),
		"replicates", cfg.Sensitivity.Replicates,
		"sampler", cfg.Sensitivity.Sampler,
	)
	start := time.Now()

	result, err := scenario.Sensitivity(context.Background(), cfg.Sensitivity)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.SaveSensitivity(scenario.Integrator, scenario.Params, scenario.InitialBiomass, scenario.Horizon, cfg.Sensitivity.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d evaluations in %v\n", result.Evals, elapsed)
	fmt.Printf("run id: %s\n\n", runID)

	if err := report.WriteIndicesTable(os.Stdout, result); err != nil {
		return err
	}

	fmt.Println("\npeak biomass distribution:")
	if err := report.WriteSummaryTable(os.Stdout, analysis.Summarize(result.Base)); err != nil {
		return err
	}

	if plotDir != "" {
		if err := os.MkdirAll(plotDir, 0755); err != nil {
			return err
		}
		if err := savePlots(plotDir, scenario, result); err != nil {
			return err
		}
		slog.Info("wrote PNG artifacts", "dir", plotDir)
	}

	return nil
}

func savePlots(dir string, scenario *experiment.Scenario, result *sobol.Result) error {
	// Trajectory of the nominal scenario for context.
	run, err := scenario.Run(context.Background())
	if err != nil {
		return err
	}
	if err := report.SaveTrajectoryPNG(filepath.Join(dir, "trajectory.png"),
		run.Times, run.Component(0), scenario.Params.Threshold); err != nil {
		return err
	}

	if err := report.SavePeaksBoxPlot(filepath.Join(dir, "peaks.png"), result.Base); err != nil {
		return err
	}

	names := forest.Names[:]
	est := func(ix []sobol.Index) (e, lo, hi []float64) {
		e = make([]float64, len(ix))
		lo = make([]float64, len(ix))
		hi = make([]float64, len(ix))
		for i, v := range ix {
			e[i], lo[i], hi[i] = v.Estimate, v.Low, v.High
		}
		return e, lo, hi
	}

	s, sLow, sHigh := est(result.FirstOrder)
	if err := report.SaveIndicesPNG(filepath.Join(dir, "first_order.png"), names, s, sLow, sHigh, "First-order Sobol indices"); err != nil {
		return err
	}
	t, tLow, tHigh := est(result.Total)
	return report.SaveIndicesPNG(filepath.Join(dir, "total_effect.png"), names, t, tLow, tHigh, "Total-effect Sobol indices")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := experiment.FromConfig(cfg)
	if err != nil {
		return err
	}

	paramIdx := -1
	for i, name := range forest.Names {
		if name == sweepParam {
			paramIdx = i
		}
	}
	if paramIdx < 0 {
		return fmt.Errorf("unknown parameter: %s (one of %v)", sweepParam, forest.Names)
	}

	slog.Info("sweeping parameter", "param", sweepParam, "min", sweepMin, "max", sweepMax, "steps", sweepSteps)

	ctx := context.Background()
	points, err := analysis.Sweep(ctx, sweepMin, sweepMax, sweepSteps, workers, func(v float64) (float64, error) {
		vec := scenario.Params.Vector()
		vec[paramIdx] = v
		p, err := forest.FromVector(vec)
		if err != nil {
			return 0, err
		}
		res, err := scenario.RunWith(ctx, p)
		if err != nil {
			return 0, err
		}
		return analysis.Peak(res.Component(0)), nil
	})
	if err != nil {
		return err
	}

	peaks := make([]float64, len(points))
	for i, p := range points {
		peaks[i] = p.Peak
	}
	fmt.Println(report.SweepPlot(peaks, fmt.Sprintf("peak biomass vs %s", sweepParam)))
	fmt.Println()

	return report.WriteSweepTable(os.Stdout, sweepParam, points)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (horizon=%d, max-step=%.3f)\n\n", cfg.Stand.Horizon, cfg.Integration.MaxStep)
	fmt.Printf("%-12s  %-14s  %-14s  %-10s  %-10s\n", "integrator", "final_biomass", "peak_biomass", "steps", "time_ms")

	for _, name := range args {
		cfg.Integration.Method = name
		cfg.Integration.Adaptive = name == "rk45"

		scenario, err := experiment.FromConfig(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := scenario.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-12s  %14.6f  %14.6f  %10d  %10.2f\n",
			name, result.Final(0), result.Metrics["peak_biomass"], result.Steps,
			float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := experiment.FromConfig(cfg)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	integ, err := registry.GetIntegrator(scenario.Integrator)
	if err != nil {
		return err
	}

	m := viz.NewModel(forest.New(scenario.Params), integ, scenario.InitialBiomass, cfg.Integration.MaxStep, float64(scenario.Horizon))
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
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

	return report.WriteRunsTable(os.Stdout, runs)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, biomass, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(biomass) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(biomass))

	threshold := meta.Params["thresh"]
	fmt.Println(report.TrajectoryPlot(biomass, threshold,
		fmt.Sprintf("biomass C(t), threshold at %.0f", threshold)))
	return nil
}
