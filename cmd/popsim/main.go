package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/popsim/internal/analysis"
	"github.com/san-kum/popsim/internal/automation"
	"github.com/san-kum/popsim/internal/config"
	"github.com/san-kum/popsim/internal/experiment"
	"github.com/san-kum/popsim/internal/export"
	"github.com/san-kum/popsim/internal/optim"
	"github.com/san-kum/popsim/internal/sim"
	"github.com/san-kum/popsim/internal/viz"
)

var (
	debug     bool
	frameRate int
	// run outputs
	plotOut     bool
	csvOut      string
	jsonOut     string
	svgOut      string
	saveConfig  string
	metricNames []string
	// analyze
	xAxis int
	yAxis int
	// ensemble
	numRuns int
	// sweep
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepPop    int
	sweepRecord int
	// tune
	gridAxes   []string
	tuneMetric string
	maximize   bool
	// plot
	plotSVG string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Level:           log.InfoLevel,
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "popsim",
})

// main registers commands and flags, launches the interactive picker when
// no subcommand is given, and exits with status 1 on error.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not load .env file", "err", err)
	}

	rootCmd := &cobra.Command{
		Use:           "popsim",
		Short:         "multi-population ecological simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			v := viper.New()
			v.SetEnvPrefix(envPrefix)
			_ = v.BindEnv("debug")
			if debug || v.GetBool("debug") {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(frameRate)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.Flags().IntVar(&frameRate, "fps", viz.DefaultFPS, "frame rate")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", viz.DefaultFPS, "frame rate")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation headless",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&plotOut, "plot", false, "plot each population")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "write snapshots to a CSV file")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write the run to a JSON file")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write a chart to an SVG file")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to compute (default all)")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to a YAML file")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare lagged and frozen coupling on the same config",
		Args:  cobra.NoArgs,
		RunE:  compareCouplings,
	}
	addSimFlags(compareCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "cycle length and phase portrait of a run",
		Args:  cobra.NoArgs,
		RunE:  analyzeRun,
	}
	addSimFlags(analyzeCmd)
	analyzeCmd.Flags().IntVar(&xAxis, "x-axis", 0, "population index for x-axis")
	analyzeCmd.Flags().IntVar(&yAxis, "y-axis", 1, "population index for y-axis")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a run over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 10, "number of runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and record where a population settles",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "growth:0", "growth:<i> or coeff:<i>,<j>")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.05, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of values")
	sweepCmd.Flags().IntVar(&sweepPop, "pop", 0, "population to record")
	sweepCmd.Flags().IntVar(&sweepRecord, "record", 50, "snapshots to record at the end of each run")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the best metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridAxes, "grid", nil, "axis as <param>=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "final_total", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	plotCmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "plot a run exported as CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  plotExport,
	}
	plotCmd.Flags().StringVar(&plotSVG, "svg", "", "also write the chart to an SVG file")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPOPULATIONS\tDURATION\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, len(p.Populations), p.Duration, p.Description)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, compareCmd, analyzeCmd, ensembleCmd, sweepCmd, tuneCmd, plotCmd, scenarioCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// loadSim resolves the command's config and converts it for the engine.
func loadSim(cmd *cobra.Command) (*config.Config, *sim.Config, error) {
	cfg, err := resolveConfig(newViper(cmd))
	if err != nil {
		return nil, nil, err
	}
	simCfg, err := cfg.ToSim()
	if err != nil {
		return nil, nil, err
	}
	return cfg, simCfg, nil
}

func runName(cfg *config.Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return "custom"
}

func runOnce(ctx context.Context, name string, simCfg *sim.Config, seed uint64, names []string) (*experiment.Result, error) {
	registry := experiment.NewRegistry()
	ms := registry.DefaultMetrics()
	if len(names) > 0 {
		var err error
		if ms, err = registry.Metrics(names...); err != nil {
			return nil, err
		}
	}

	exp := experiment.New(experiment.Config{Name: name, Sim: simCfg, Seed: seed}, logger)
	if err := exp.Setup(ms...); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, simCfg, err := loadSim(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(simCfg, runName(cfg), cfg.Seed, frameRate)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, simCfg, err := loadSim(cmd)
	if err != nil {
		return err
	}

	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		logger.Info("wrote config", "path", saveConfig)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %d populations, %d days, step %d, %s coupling\n",
		runName(cfg), simCfg.N(), simCfg.Duration, simCfg.Step, simCfg.Coupling)
	result, err := runOnce(ctx, runName(cfg), simCfg, cfg.Seed, metricNames)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("snapshots: %d (last day %d)\n", len(result.Snapshots), final.Day)
	fmt.Printf("total: %.2f\n", final.Total())

	fmt.Println("\nfinal amounts:")
	for i, v := range final.Amounts {
		fmt.Printf("  p%d: %.4f\n", i, v)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if plotOut && len(result.Snapshots) > 1 {
		fmt.Println()
		for i := 0; i < result.Populations(); i++ {
			graph := asciigraph.Plot(result.Series(i),
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("population %d", i)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	if csvOut != "" {
		if err := export.CSVFile(csvOut, result.Snapshots); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		logger.Info("wrote csv", "path", csvOut)
	}
	if jsonOut != "" {
		if err := export.JSONFile(jsonOut, result); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		logger.Info("wrote json", "path", jsonOut)
	}
	if svgOut != "" {
		if err := export.SVGFile(svgOut, result.Snapshots, 800, 400); err != nil {
			return fmt.Errorf("export svg: %w", err)
		}
		logger.Info("wrote svg", "path", svgOut)
	}

	return err
}

func compareCouplings(cmd *cobra.Command, args []string) error {
	cfg, simCfg, err := loadSim(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	registry := experiment.NewRegistry()
	results := make([]*experiment.Result, 0, 2)
	couplings := []string{"lagged", "frozen"}
	for _, name := range couplings {
		coupling, err := registry.GetCoupling(name)
		if err != nil {
			return err
		}
		c := simCfg.Clone()
		c.Coupling = coupling
		res, err := runOnce(ctx, runName(cfg)+"/"+name, c, cfg.Seed, []string{"final_total", "peak_total", "extinctions"})
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	fmt.Printf("comparing couplings on %s (seed %d)\n\n", runName(cfg), cfg.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POPULATION\tLAGGED\tFROZEN\tDIFF")
	lagged, frozen := results[0].Final(), results[1].Final()
	for i := range lagged.Amounts {
		a, b := lagged.Amounts[i], frozen.Amounts[i]
		fmt.Fprintf(w, "p%d\t%.4f\t%.4f\t%+.4f\n", i, a, b, b-a)
	}
	fmt.Fprintf(w, "total\t%.4f\t%.4f\t%+.4f\n", lagged.Total(), frozen.Total(), frozen.Total()-lagged.Total())
	for _, m := range []string{"peak_total", "extinctions"} {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%+.4f\n", m, results[0].Metrics[m], results[1].Metrics[m], results[1].Metrics[m]-results[0].Metrics[m])
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, simCfg, err := loadSim(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := runOnce(ctx, runName(cfg), simCfg, cfg.Seed, nil)
	if err != nil {
		return err
	}
	if len(result.Snapshots) < 4 {
		return fmt.Errorf("run too short to analyze: %d snapshots", len(result.Snapshots))
	}

	fmt.Printf("cycle analysis: %s\n\n", runName(cfg))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POPULATION\tMIN\tMAX\tPERIOD (DAYS)")
	for i := 0; i < result.Populations(); i++ {
		series := result.Series(i)
		lo, hi := series[0], series[0]
		for _, v := range series {
			lo, hi = min(lo, v), max(hi, v)
		}
		period := "-"
		if p := analysis.DominantPeriod(series, simCfg.Step); p > 0 {
			period = fmt.Sprintf("%.1f", p)
		}
		fmt.Fprintf(w, "p%d\t%.2f\t%.2f\t%s\n", i, lo, hi, period)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(result.Series(0))
	if len(ps) > 8 {
		graph := asciigraph.Plot(ps[1:len(ps)/4],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (p0)"),
		)
		fmt.Println()
		fmt.Println(graph)
	}

	if portrait := analysis.PhasePortrait(result.Snapshots, xAxis, yAxis); portrait != nil {
		fmt.Printf("\nphase portrait: p%d (x) vs p%d (y)\n", xAxis, yAxis)
		fmt.Print(analysis.PhasePortraitToASCII(portrait, 60, 20))
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, simCfg, err := loadSim(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	registry := experiment.NewRegistry()
	ens := experiment.NewEnsemble(experiment.Config{Name: runName(cfg), Sim: simCfg}, numRuns, cfg.Seed, logger)
	results, err := ens.Run(ctx, registry.DefaultMetrics)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFINAL TOTAL\tPEAK TOTAL\tEXTINCTIONS\tDOMINANT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.0f\tp%.0f\n", r.Seed, r.Metrics["final_total"], r.Metrics["peak_total"], r.Metrics["extinctions"], r.Metrics["dominant"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s := experiment.Summarize(results)
	fmt.Printf("\nruns: %d\n", s.Runs)
	fmt.Printf("final total: mean %.2f, std %.2f, min %.2f, max %.2f\n", s.MeanFinal, s.StdFinal, s.MinFinal, s.MaxFinal)
	fmt.Printf("collapsed: %d\n", s.Collapsed)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, simCfg, err := loadSim(cmd)
	if err != nil {
		return err
	}
	param, err := analysis.ParseParam(sweepParam)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := &analysis.Sweep{
		Base:   simCfg,
		Param:  param,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Index:  sweepPop,
		Record: sweepRecord,
		Seed:   cfg.Seed,
	}
	points, err := sweep.Run(ctx, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDISTINCT\tFINAL p%d\tFINAL TOTAL\n", strings.ToUpper(param.String()), sweepPop)
	for _, p := range points {
		fmt.Fprintf(w, "%.6f\t%d\t%.2f\t%.2f\n", p.Param, len(p.Values), p.Final.Amounts[sweepPop], p.Final.Total())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ntail values of p%d across %s\n", sweepPop, param)
	fmt.Print(analysis.SweepToASCII(points, 60, 20))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, simCfg, err := loadSim(cmd)
	if err != nil {
		return err
	}

	params := make([]analysis.Param, 0, len(gridAxes))
	ranges := make([][]float64, 0, len(gridAxes))
	for _, axis := range gridAxes {
		p, values, err := optim.ParseAxis(axis)
		if err != nil {
			return err
		}
		params = append(params, p)
		ranges = append(ranges, values)
	}
	search, err := optim.NewGridSearch(params, ranges, tuneMetric, maximize, cfg.Seed)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, err := search.Search(ctx, simCfg, logger)
	if err != nil {
		return err
	}

	goal := "min"
	if maximize {
		goal = "max"
	}
	fmt.Printf("%s %s over %d runs: %.6f\n\n", goal, tuneMetric, best.Runs, best.Score)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE")
	for _, p := range params {
		fmt.Fprintf(w, "%s\t%g\n", p, best.Values[p.String()])
	}
	return w.Flush()
}

// readExport loads snapshots from a file written by run --csv or --json.
func readExport(path string) ([]sim.Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := export.ReadJSON(file)
		if err != nil {
			return nil, err
		}
		return data.Snapshots(), nil
	}
	return export.ReadCSV(file)
}

func plotExport(cmd *cobra.Command, args []string) error {
	snapshots, err := readExport(args[0])
	if err != nil {
		return err
	}
	if len(snapshots) < 2 {
		return fmt.Errorf("%s: need at least 2 snapshots to plot, got %d", args[0], len(snapshots))
	}

	last := snapshots[len(snapshots)-1]
	fmt.Printf("%s: %d snapshots, last day %d, total %.2f\n\n", args[0], len(snapshots), last.Day, last.Total())
	for i := range last.Amounts {
		series := make([]float64, len(snapshots))
		for k, s := range snapshots {
			if i < len(s.Amounts) {
				series[k] = s.Amounts[i]
			}
		}
		graph := asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("population %d", i)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if plotSVG != "" {
		if err := export.SVGFile(plotSVG, snapshots, 800, 400); err != nil {
			return fmt.Errorf("export svg: %w", err)
		}
		logger.Info("wrote svg", "path", plotSVG)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUNS\tLAST DAY\tFINAL TOTAL\tEXTINCTIONS")
	for _, r := range results {
		last := r.Runs[len(r.Runs)-1]
		if r.Summary != nil {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.2f (mean)\t%d collapsed\n", r.Name, len(r.Runs), last.Final().Day, r.Summary.MeanFinal, r.Summary.Collapsed)
			continue
		}
		fmt.Fprintf(w, "%s\t1\t%d\t%.2f\t%.0f\n", r.Name, last.Final().Day, last.Final().Total(), last.Metrics["extinctions"])
	}
	return w.Flush()
}
