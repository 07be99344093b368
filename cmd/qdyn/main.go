package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ravik-m/qdyn/internal/analysis"
	"github.com/ravik-m/qdyn/internal/config"
	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/solve"
	"github.com/ravik-m/qdyn/internal/store"
	"github.com/ravik-m/qdyn/internal/systems"
	"github.com/ravik-m/qdyn/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	logger     = zap.NewNop()
	solver     string
	method     string
	dt         float64
	rtol       float64
	duration   float64
	points     int
	seed       int64
	ntraj      int
	paramFlags []string
	configFile string
	preset     string
	observable string
	outPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qdyn",
		Short: "quantum dynamics simulation lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			} else {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			}
			var err error
			logger, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".qdyn", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "run a simulation and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSolverFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored expectation values",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&observable, "obs", "", "plot a single observable")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "power spectrum of a stored observable",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}
	spectrumCmd.Flags().StringVar(&observable, "obs", "", "observable to analyze (default first)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSONRun,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSVRun,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "evolve a system interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSolverFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [system] [method1] [method2] ...",
		Short: "overlay the same run under different stepping methods",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareMethods,
	}
	addSolverFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench [system]",
		Short: "benchmark solver throughput on a system",
		Args:  cobra.ExactArgs(1),
		RunE:  benchSystem,
	}
	addSolverFlags(benchCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for system: %s\n", args[0])
				return nil
			}
			sort.Strings(names)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list available systems and their parameters",
		RunE:  listSystems,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, spectrumCmd, exportJSONCmd,
		exportCSVCmd, liveCmd, compareCmd, benchCmd, presetsCmd, systemsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&solver, "solver", "", "solver: se, me, sme or mc")
	cmd.Flags().StringVar(&method, "method", "", "stepping method: euler, rk4, dopri5 or propagator")
	cmd.Flags().Float64Var(&dt, "dt", 0, "fixed timestep")
	cmd.Flags().Float64Var(&rtol, "rtol", 0, "relative tolerance (dopri5)")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration")
	cmd.Flags().IntVar(&points, "points", 0, "number of save points")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for trajectories")
	cmd.Flags().IntVar(&ntraj, "ntraj", 0, "number of trajectories (sme, mc)")
	cmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil, "system parameter override, name=value")
}

// buildConfig merges preset, config file and CLI flags, in rising priority.
func buildConfig(cmd *cobra.Command, system string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(system, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)",
				preset, config.ListPresets(system))
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
	if system != "" {
		cfg.System = system
	}

	if cmd.Flags().Changed("solver") {
		cfg.Solver = solver
	}
	if cmd.Flags().Changed("method") {
		cfg.Method = method
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("rtol") {
		cfg.Rtol = rtol
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("points") {
		cfg.Points = points
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("ntraj") {
		cfg.NTraj = ntraj
	}

	params, err := parseParams(paramFlags)
	if err != nil {
		return nil, err
	}
	if cfg.Params == nil {
		cfg.Params = make(map[string]float64)
	}
	for k, v := range params {
		cfg.Params[k] = v
	}

	return cfg, cfg.Validate()
}

func parseParams(flags []string) (map[string]float64, error) {
	params := make(map[string]float64, len(flags))
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("bad param %q, want name=value", f)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad param %q: %w", f, err)
		}
		params[name] = v
	}
	return params, nil
}

// execute builds the system and dispatches to the configured solver.
func execute(ctx context.Context, cfg *config.Config) (store.RunInfo, *solve.Result, error) {
	info := store.RunInfo{
		System: cfg.System,
		Solver: cfg.Solver,
		Method: cfg.Method,
		Seed:   cfg.Seed,
		Dt:     cfg.Dt,
		Params: cfg.Params,
	}

	reg := systems.NewRegistry()
	sys, err := reg.Configure(cfg.System, cfg.Params)
	if err != nil {
		return info, nil, err
	}

	obs := sys.Observables()
	if len(cfg.Observables) > 0 {
		obs, err = selectObservables(sys, cfg.Observables)
		if err != nil {
			return info, nil, err
		}
	}
	names := make([]string, len(obs))
	expOps := make([]*quantum.Matrix, len(obs))
	for i, o := range obs {
		names[i] = o.Name
		expOps[i] = o.Op
	}
	info.Observables = names

	opts := cfg.ToOptions()
	opts.Logger = logger
	tsave := cfg.Tsave()
	h := sys.Hamiltonian()
	psi0 := sys.InitialState()

	var result *solve.Result
	switch cfg.Solver {
	case "se":
		result, err = solve.Sesolve(ctx, h, psi0, tsave, expOps, opts)
	case "me":
		result, err = solve.Mesolve(ctx, h, sys.JumpOps(), psi0, tsave, expOps, opts)
	case "sme":
		info.NTraj = opts.NTraj
		result, err = solve.Smesolve(ctx, h, sys.JumpOps(), sys.Etas(), psi0, tsave, expOps, opts)
	case "mc":
		info.NTraj = opts.NTraj
		result, err = solve.Mcsolve(ctx, h, sys.JumpOps(), psi0, tsave, expOps, opts)
	default:
		err = fmt.Errorf("unknown solver: %s", cfg.Solver)
	}
	return info, result, err
}

func selectObservables(sys systems.System, names []string) ([]systems.Observable, error) {
	all := sys.Observables()
	out := make([]systems.Observable, 0, len(names))
	for _, name := range names {
		found := false
		for _, o := range all {
			if o.Name == name {
				out = append(out, o)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("system %s has no observable %q", sys.Name(), name)
		}
	}
	return out, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	system := ""
	if len(args) > 0 {
		system = args[0]
	}
	cfg, err := buildConfig(cmd, system)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s (%s solver, %s)...\n", cfg.System, cfg.Solver, cfg.Method)
	start := time.Now()

	info, result, err := execute(context.Background(), cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(info, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("save points: %d\n", len(result.Times))
	if result.StepsTaken > 0 {
		fmt.Printf("steps: %d accepted, %d rejected\n", result.StepsTaken, result.StepsRejected)
	}
	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %.3g\n", name, result.Metrics[name])
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tSOLVER\tMETHOD\tTIME\tDURATION\tNTRAJ")
	for _, run := range runs {
		ntrajCol := "-"
		if run.NTraj > 0 {
			ntrajCol = strconv.Itoa(run.NTraj)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			run.ID, run.System, run.Solver, run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration, ntrajCol)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, expects, err := st.LoadExpects(args[0])
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\nsystem: %s\nsamples: %d\n\n", meta.ID, meta.System, len(times))

	for k, name := range meta.Observables {
		if observable != "" && name != observable {
			continue
		}
		series := make([]float64, len(expects[k]))
		for i, v := range expects[k] {
			series[i] = real(v)
		}
		fmt.Println(viz.Plot(series, fmt.Sprintf("⟨%s⟩ vs time", name), 80, 10))
		fmt.Println()
	}
	return nil
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, expects, err := st.LoadExpects(args[0])
	if err != nil {
		return err
	}

	idx := 0
	if observable != "" {
		idx = -1
		for k, name := range meta.Observables {
			if name == observable {
				idx = k
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("run has no observable %q (has %v)", observable, meta.Observables)
		}
	}
	if len(meta.Observables) == 0 {
		return fmt.Errorf("run has no observables")
	}

	series := make([]float64, len(expects[idx]))
	for i, v := range expects[idx] {
		series[i] = real(v)
	}

	spec, err := analysis.PowerSpectrum(times, series)
	if err != nil {
		return err
	}

	fmt.Printf("power spectrum of ⟨%s⟩, run %s\n\n", meta.Observables[idx], meta.ID)
	fmt.Println(viz.Plot(spec.Power, "power vs frequency bin", 80, 12))

	freq, power := spec.Peak()
	if power > 0 {
		fmt.Printf("\ndominant frequency: %.4f cycles per unit time\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.4f\n", 1/freq)
		}
	}
	return nil
}

// loadAsResult rebuilds enough of a Result from disk for the exporters.
func loadAsResult(st *store.Store, runID string) (store.RunInfo, *solve.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return store.RunInfo{}, nil, err
	}
	times, expects, err := st.LoadExpects(runID)
	if err != nil {
		return store.RunInfo{}, nil, err
	}
	info := store.RunInfo{
		System:      meta.System,
		Solver:      meta.Solver,
		Method:      meta.Method,
		Seed:        meta.Seed,
		NTraj:       meta.NTraj,
		Dt:          meta.Dt,
		Observables: meta.Observables,
		Params:      meta.Params,
	}
	result := &solve.Result{
		Times:         times,
		Expects:       expects,
		Metrics:       meta.Metrics,
		StepsTaken:    meta.StepsTaken,
		StepsRejected: meta.StepsRejected,
	}
	return info, result, nil
}

func exportJSONRun(cmd *cobra.Command, args []string) error {
	info, result, err := loadAsResult(store.New(dataDir), args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		return store.ExportJSONFile(outPath, info, result)
	}
	return store.ExportJSON(os.Stdout, info, result)
}

func exportCSVRun(cmd *cobra.Command, args []string) error {
	info, result, err := loadAsResult(store.New(dataDir), args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		return store.ExportCSVFile(outPath, info, result)
	}
	return store.ExportCSV(os.Stdout, info, result)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	reg := systems.NewRegistry()
	sys, err := reg.Configure(cfg.System, cfg.Params)
	if err != nil {
		return err
	}
	opts := cfg.ToOptions()
	opts.Logger = logger
	return viz.Run(sys, opts)
}

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	methods := args[1:]
	series := make([][]float64, 0, len(methods))
	for _, m := range methods {
		run := *cfg
		run.Method = m
		_, result, err := execute(context.Background(), &run)
		if err != nil {
			return fmt.Errorf("method %s: %w", m, err)
		}
		if len(result.Expects) == 0 {
			return fmt.Errorf("system %s has no observables to compare", cfg.System)
		}
		re := make([]float64, len(result.Expects[0]))
		for i, v := range result.Expects[0] {
			re[i] = real(v)
		}
		series = append(series, re)
	}

	reg := systems.NewRegistry()
	sys, err := reg.Get(cfg.System)
	if err != nil {
		return err
	}
	caption := fmt.Sprintf("⟨%s⟩ vs time, %s", sys.Observables()[0].Name, cfg.System)
	fmt.Println(viz.PlotMany(series, methods, caption, 80, 14))
	return nil
}

func benchSystem(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	durations := []float64{1, 5, 10}
	dts := []float64{0.001, 0.01}

	fmt.Printf("benchmarking %s (%s solver)\n\n", cfg.System, cfg.Solver)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tMETHOD\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			run := *cfg
			run.Duration = dur
			run.Dt = step
			run.Method = string(solve.MethodRK4)

			start := time.Now()
			_, result, err := execute(context.Background(), &run)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1f\t%.4f\t%s\t%v\t%.0f\n",
				dur, step, run.Method, elapsed.Round(time.Millisecond), stepsPerSec)
		}
	}
	return w.Flush()
}

func listSystems(cmd *cobra.Command, args []string) error {
	reg := systems.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIM\tCHANNELS\tOBSERVABLES\tPARAMS")
	for _, name := range reg.List() {
		sys, err := reg.Get(name)
		if err != nil {
			return err
		}
		obs := make([]string, 0)
		for _, o := range sys.Observables() {
			obs = append(obs, o.Name)
		}
		params := "-"
		if cfgable, ok := sys.(systems.Configurable); ok {
			keys := make([]string, 0)
			for k := range cfgable.GetParams() {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			params = strings.Join(keys, ",")
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			name, sys.Dim(), len(sys.JumpOps()), strings.Join(obs, ","), params)
	}
	return w.Flush()
}
