package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/reactorsim/internal/chart"
	"github.com/san-kum/reactorsim/internal/config"
	"github.com/san-kum/reactorsim/internal/experiment"
	"github.com/san-kum/reactorsim/internal/logging"
	"github.com/san-kum/reactorsim/internal/prompt"
	"github.com/san-kum/reactorsim/internal/reactor"
	"github.com/san-kum/reactorsim/internal/slots"
	"github.com/san-kum/reactorsim/internal/storage"
	"github.com/san-kum/reactorsim/internal/tui"
)

var (
	dataDir    string
	slotPath   string
	backend    string
	configFile string
	logLevel   string
	verbose    bool

	preset   string
	loadSlot int
	saveSlot int
	svgOut   string
	noStore  bool
	parallel int
	width    int
	height   int
	svgW     int
	svgH     int

	// network flags, copied over the resolved network only when set
	netFlags config.NetworkConfig

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "reactorsim",
		Short:             "transient response of three coupled chemical reactors",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&slotPath, "slots", "", "save slot file (default <data>/savefile.dat or <data>/slots.db)")
	pf.StringVar(&backend, "backend", config.DefaultSlotBackend, "save slot backend (file, sqlite)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a network and plot the concentrations",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "start from a preset network")
	runCmd.Flags().IntVar(&loadSlot, "slot", 0, "start from a saved slot (1-5)")
	addNetworkFlags(runCmd)
	addOutputFlags(runCmd)

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "enter a network at the console, run it and optionally save it",
		Args:  cobra.NoArgs,
		RunE:  newSimulation,
	}
	addOutputFlags(newCmd)

	slotsCmd := &cobra.Command{
		Use:   "slots",
		Short: "list save slots",
		Args:  cobra.NoArgs,
		RunE:  listSlots,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 15, "plot height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgW, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgH, "height", 500, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset networks",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "run every filled slot concurrently",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&parallel, "parallel", 0, "maximum concurrent runs (0 = all)")
	batchCmd.Flags().BoolVar(&noStore, "no-store", false, "do not record runs")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "browse save slots and presets interactively",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, newCmd, slotsCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, presetsCmd, batchCmd, tuiCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func addNetworkFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	n := &netFlags
	f.Float64Var(&n.Volumes.V1, "v1", 0, "volume of reactor 1")
	f.Float64Var(&n.Volumes.V2, "v2", 0, "volume of reactor 2")
	f.Float64Var(&n.Volumes.V3, "v3", 0, "volume of reactor 3")
	f.Float64Var(&n.Flows.Q01, "q01", 0, "feed flow into reactor 1")
	f.Float64Var(&n.Flows.Q03, "q03", 0, "feed flow into reactor 3")
	f.Float64Var(&n.Flows.Q12, "q12", 0, "flow from reactor 1 to 2")
	f.Float64Var(&n.Flows.Q23, "q23", 0, "flow from reactor 2 to 3")
	f.Float64Var(&n.Flows.Q31, "q31", 0, "flow from reactor 3 back to 1")
	f.Float64Var(&n.Flows.Q33, "q33", 0, "outflow from reactor 3")
	f.Float64Var(&n.Inputs.Put1, "put1", 0, "feed concentration on q01")
	f.Float64Var(&n.Inputs.Put2, "put2", 0, "feed concentration on q03")
	f.Float64Var(&n.Initial.C1, "c1", 0, "initial concentration in reactor 1")
	f.Float64Var(&n.Initial.C2, "c2", 0, "initial concentration in reactor 2")
	f.Float64Var(&n.Initial.C3, "c3", 0, "initial concentration in reactor 3")
	f.Float64Var(&n.Dt, "dt", config.DefaultDt, "time step")
	f.Float64Var(&n.TFinal, "t-final", config.DefaultTFinal, "final time")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&saveSlot, "save-slot", 0, "save the network to this slot (1-5)")
	f.StringVar(&svgOut, "svg", "", "also write the chart as SVG to this file")
	f.BoolVar(&noStore, "no-store", false, "do not record the run")
	f.IntVar(&width, "width", 80, "plot width")
	f.IntVar(&height, "height", 15, "plot height")
}

// setup loads the config file, lets explicit flags override it and builds
// the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("backend") || cfg.SlotBackend == "" {
		cfg.SlotBackend = backend
	}
	if flags.Changed("slots") {
		cfg.SlotPath = slotPath
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = logLevel
	}

	var err error
	logger, err = logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return err
	}
	logger.Debug("config resolved",
		zap.String("data_dir", cfg.DataDir),
		zap.String("slot_backend", cfg.SlotBackend),
		zap.String("slot_path", resolveSlotPath()))
	return nil
}

func resolveSlotPath() string {
	p := cfg.SlotPath
	if p == "" || (cfg.SlotBackend == "sqlite" && p == config.DefaultSlotFile) {
		p = config.DefaultSlotFile
		if cfg.SlotBackend == "sqlite" {
			p = "slots.db"
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cfg.DataDir, p)
}

func openSlots() (slots.Repository, error) {
	return slots.Open(cfg.SlotBackend, resolveSlotPath())
}

func openStore() (*storage.Store, error) {
	st := storage.New(filepath.Join(cfg.DataDir, "runs"))
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func newRunner(opts ...experiment.Option) (*experiment.Experiment, error) {
	if noStore {
		return experiment.New(logger, opts...), nil
	}
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	return experiment.New(logger, append(opts, experiment.WithStore(st))...), nil
}

// explain adds the channels to re-enter when err is a flow violation.
func explain(err error) error {
	var cv *reactor.ConstraintViolation
	if errors.As(err, &cv) {
		return fmt.Errorf("%w; adjust %s", err, strings.Join(cv.Check.Channels(), ", "))
	}
	return err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	network := cfg.Network
	name := "config"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		network = *p
		name = preset
	}

	var repo slots.Repository
	if loadSlot != 0 || saveSlot != 0 {
		var err error
		if repo, err = openSlots(); err != nil {
			return err
		}
		defer repo.Close()
	}

	if loadSlot != 0 {
		p, err := repo.Load(ctx, loadSlot)
		if err != nil {
			return err
		}
		network = config.FromParams(p)
		name = fmt.Sprintf("slot %d", loadSlot)
	}

	applyNetworkFlags(cmd, &network)
	return runAndReport(ctx, name, network.Params(), repo)
}

// applyNetworkFlags copies every network flag the user set onto n.
func applyNetworkFlags(cmd *cobra.Command, n *config.NetworkConfig) {
	for _, f := range []struct {
		name     string
		dst, src *float64
	}{
		{"v1", &n.Volumes.V1, &netFlags.Volumes.V1},
		{"v2", &n.Volumes.V2, &netFlags.Volumes.V2},
		{"v3", &n.Volumes.V3, &netFlags.Volumes.V3},
		{"q01", &n.Flows.Q01, &netFlags.Flows.Q01},
		{"q03", &n.Flows.Q03, &netFlags.Flows.Q03},
		{"q12", &n.Flows.Q12, &netFlags.Flows.Q12},
		{"q23", &n.Flows.Q23, &netFlags.Flows.Q23},
		{"q31", &n.Flows.Q31, &netFlags.Flows.Q31},
		{"q33", &n.Flows.Q33, &netFlags.Flows.Q33},
		{"put1", &n.Inputs.Put1, &netFlags.Inputs.Put1},
		{"put2", &n.Inputs.Put2, &netFlags.Inputs.Put2},
		{"c1", &n.Initial.C1, &netFlags.Initial.C1},
		{"c2", &n.Initial.C2, &netFlags.Initial.C2},
		{"c3", &n.Initial.C3, &netFlags.Initial.C3},
		{"dt", &n.Dt, &netFlags.Dt},
		{"t-final", &n.TFinal, &netFlags.TFinal},
	} {
		if cmd.Flags().Changed(f.name) {
			*f.dst = *f.src
		}
	}
}

func runAndReport(ctx context.Context, name string, p reactor.Params, repo slots.Repository) error {
	runner, err := newRunner()
	if err != nil {
		return err
	}

	out, err := runner.Run(ctx, name, p)
	if err != nil {
		return explain(err)
	}
	printOutcome(out)

	if svgOut != "" {
		svg, err := renderSVG(out.Series, p.TFinal, 800, 500)
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("svg: %s\n", svgOut)
	}

	if saveSlot != 0 {
		if err := repo.Store(ctx, saveSlot, p); err != nil {
			return err
		}
		fmt.Printf("saved to slot %d\n", saveSlot)
	}
	return nil
}

func printOutcome(out *experiment.Outcome) {
	ts := out.Series
	fmt.Println(chart.Plot(ts, chart.Height(height), chart.Width(width), chart.Span(out.Params.TFinal)))
	fmt.Println()
	if out.RunID != "" {
		fmt.Printf("run id: %s\n", out.RunID)
	}
	fmt.Printf("samples: %d\n", ts.Len())
	fmt.Printf("scale: %.6f\n", out.Scale)
	last := ts.At(ts.Len() - 1)
	fmt.Printf("final: c1=%.6f c2=%.6f c3=%.6f at t=%.4f\n", last[0], last[1], last[2], ts.Time[ts.Len()-1])
	printMetrics(out.Metrics)
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func newSimulation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repo, err := openSlots()
	if err != nil {
		return err
	}
	defer repo.Close()

	pr := prompt.New(os.Stdin, os.Stdout)
	p, err := pr.CollectParams()
	if err != nil {
		return err
	}

	if err := runAndReport(ctx, "console", p, repo); err != nil {
		return err
	}
	if saveSlot != 0 {
		return nil
	}

	list, err := repo.List(ctx)
	if err != nil {
		return err
	}
	idx, err := pr.ChooseSlot("If you would like to save, select a save file from 1-5.\nTo not save press 0", list, false)
	if err != nil || idx == 0 {
		return err
	}
	if err := repo.Store(ctx, idx, p); err != nil {
		return err
	}
	fmt.Printf("saved to slot %d\n", idx)
	return nil
}

func listSlots(cmd *cobra.Command, args []string) error {
	repo, err := openSlots()
	if err != nil {
		return err
	}
	defer repo.Close()

	list, err := repo.List(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tSAVED\tVOLUMES\tQ01/Q03/Q12/Q23/Q31/Q33\tPUT\tDT\tT_FINAL")
	for _, s := range list {
		if !s.Filled {
			fmt.Fprintf(w, "%d\t-\t\t\t\t\t\n", s.Index)
			continue
		}
		p := s.Params
		fmt.Fprintf(w, "%d\t%s\t%g/%g/%g\t%g/%g/%g/%g/%g/%g\t%g/%g\t%g\t%g\n",
			s.Index,
			s.SavedAt.Format("2006-01-02 15:04:05"),
			p.Volumes.V1, p.Volumes.V2, p.Volumes.V3,
			p.Flows.Q01, p.Flows.Q03, p.Flows.Q12, p.Flows.Q23, p.Flows.Q31, p.Flows.Q33,
			p.Inputs.Put1, p.Inputs.Put2,
			p.DeltaT, p.TFinal,
		)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(filepath.Join(cfg.DataDir, "runs"))
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSAMPLES\tDT\tT_FINAL\tSCALE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%.2f\t%.4f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.Params.DeltaT,
			run.Params.TFinal,
			run.Scale,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *reactor.TimeSeries, error) {
	st := storage.New(filepath.Join(cfg.DataDir, "runs"))
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	ts, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	if ts.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, ts, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, ts, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", ts.Len())
	fmt.Println(chart.Plot(ts, chart.Height(height), chart.Width(width), chart.Span(meta.Params.TFinal)))
	printMetrics(meta.Metrics)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, ts, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, ts)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, ts, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, ts)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, ts, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg, err := renderSVG(ts, meta.Params.TFinal, svgW, svgH)
	if err != nil {
		return err
	}
	if svgOut == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(svgOut, []byte(svg), 0644)
}

// renderSVG refuses runs too short to draw instead of producing an empty
// file.
func renderSVG(ts *reactor.TimeSeries, tFinal float64, w, h int) (string, error) {
	svg := chart.SVG(ts, tFinal, w, h)
	if svg == "" {
		return "", fmt.Errorf("cannot draw svg: run has %d sample(s), need at least 2", ts.Len())
	}
	return svg, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVOLUMES\tQ01/Q03/Q12/Q23/Q31/Q33\tPUT\tSAMPLES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name).Params()
		fmt.Fprintf(w, "%s\t%g/%g/%g\t%g/%g/%g/%g/%g/%g\t%g/%g\t%d\n",
			name,
			p.Volumes.V1, p.Volumes.V2, p.Volumes.V3,
			p.Flows.Q01, p.Flows.Q03, p.Flows.Q12, p.Flows.Q23, p.Flows.Q31, p.Flows.Q33,
			p.Inputs.Put1, p.Inputs.Put2,
			p.StepCount(),
		)
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repo, err := openSlots()
	if err != nil {
		return err
	}
	defer repo.Close()

	list, err := repo.List(ctx)
	if err != nil {
		return err
	}

	var sets []experiment.Named
	for _, s := range list {
		if s.Filled {
			sets = append(sets, experiment.Named{Name: fmt.Sprintf("slot %d", s.Index), Params: s.Params})
		}
	}
	if len(sets) == 0 {
		fmt.Println("no saved slots")
		return nil
	}

	runner, err := newRunner(experiment.WithLimit(parallel))
	if err != nil {
		return err
	}
	outs, err := runner.RunAll(ctx, sets)
	if err != nil {
		return explain(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRUN\tSAMPLES\tSCALE\tC1\tC2\tC3\tELAPSED")
	for _, out := range outs {
		last := out.Series.At(out.Series.Len() - 1)
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%v\n",
			out.Name, out.RunID, out.Series.Len(), out.Scale, last[0], last[1], last[2], out.Elapsed)
	}
	return w.Flush()
}

func runTUI(cmd *cobra.Command, args []string) error {
	repo, err := openSlots()
	if err != nil {
		return err
	}
	defer repo.Close()

	runner, err := newRunner()
	if err != nil {
		return err
	}
	return tui.RunInteractive(cmd.Context(), repo, runner)
}
