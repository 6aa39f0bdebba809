package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/pulsesim/internal/config"
	"github.com/san-kum/pulsesim/internal/logging"
	"github.com/san-kum/pulsesim/internal/roll"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	trials    int
	workers   int
	seed      uint64
	densityIn string
	signalIn  string
	separator string
	trimLen   float64
	left      float64
	right     float64
	center    float64
	offsetMin int
	offsetMax int
	gridTol   float64
	bins      int

	histOut    string
	metricsOut string
	noSave     bool
	noPlot     bool

	batchSize int

	sweepLefts  []float64
	sweepRights []float64

	column   string
	outPath  string
	border   float64
	histSep  string
	showBins int
	normTrim float64
	normSep  string

	overlapAt int
)

// main registers the command tree and exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "pulsesim",
		Short:        "Monte-Carlo pile-up simulator for detector pulses",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pulsesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:       "run [single|double]",
		Short:     "run a batch of trials and store the outcomes",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{roll.KindSingle, roll.KindDouble},
		RunE:      runBatch,
	}
	addBatchFlags(runCmd)
	runCmd.Flags().StringVar(&histOut, "hist-out", "", "write the integral histogram to this file")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write batch metrics in Prometheus text format to this file")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "do not plot the histogram")

	watchCmd := &cobra.Command{
		Use:   "watch [single|double]",
		Short: "run batches continuously with a live histogram",
		Args:  cobra.ExactArgs(1),
		RunE:  watchBatches,
	}
	addBatchFlags(watchCmd)
	watchCmd.Flags().IntVar(&batchSize, "batch", 10_000, "trials per batch")

	sweepCmd := &cobra.Command{
		Use:   "sweep [single|double]",
		Short: "run one batch per window and rank them by relative spread",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepWindows,
	}
	addBatchFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepLefts, "lefts", []float64{1, 2, 3}, "left window extents")
	sweepCmd.Flags().Float64SliceVar(&sweepRights, "rights", []float64{2, 3, 5}, "right window extents")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarize and plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&column, "column", "integral", "outcome column (offset, amp1, amp2, integral)")
	showCmd.Flags().IntVar(&showBins, "bins", 100, "histogram bins")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run outcomes to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the histogram of a run column as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&column, "column", "integral", "outcome column (offset, amp1, amp2, integral)")
	exportSVGCmd.Flags().IntVar(&showBins, "bins", 100, "histogram bins")
	exportSVGCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and outcomes to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	normalizeCmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "print a spectrum file as a normalized density",
		Args:  cobra.ExactArgs(1),
		RunE:  normalizeFile,
	}
	normalizeCmd.Flags().StringVar(&normSep, "sep", "\t", "column separator")
	normalizeCmd.Flags().Float64Var(&normTrim, "trim", 20, "drop points above this energy (<= 0 keeps all)")

	splitCmd := &cobra.Command{
		Use:   "split [hist_file]",
		Short: "sum a histogram file below and above a border",
		Args:  cobra.ExactArgs(1),
		RunE:  splitHistogram,
	}
	splitCmd.Flags().Float64Var(&border, "border", 0, "split position")
	splitCmd.Flags().StringVar(&histSep, "sep", " ", "column separator")
	_ = splitCmd.MarkFlagRequired("border")

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	showSignalCmd := &cobra.Command{
		Use:       "show-signal [single|double]",
		Short:     "plot the pulse template and the integration window",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{roll.KindSingle, roll.KindDouble},
		RunE:      showSignal,
	}
	addBatchFlags(showSignalCmd)
	showSignalCmd.Flags().IntVar(&overlapAt, "overlap", -1, "also plot the template overlapped with itself at this offset (< 0 skips)")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	addBatchFlags(initCmd)

	rootCmd.AddCommand(runCmd, watchCmd, sweepCmd, listCmd, showCmd, exportCSVCmd, exportSVGCmd, exportJSONCmd, normalizeCmd, splitCmd, presetsCmd, showSignalCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&trials, "trials", config.DefaultTrials, "number of trials")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPUs)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = unseeded)")
	cmd.Flags().StringVar(&densityIn, "density", "", "amplitude spectrum file")
	cmd.Flags().StringVar(&signalIn, "signal", "", "pulse template file")
	cmd.Flags().StringVar(&separator, "sep", "\t", "column separator of the input files")
	cmd.Flags().Float64Var(&trimLen, "trim", 20, "drop spectrum points above this energy (<= 0 keeps all)")
	cmd.Flags().Float64Var(&left, "left", 2, "window extent left of the center")
	cmd.Flags().Float64Var(&right, "right", 3, "window extent right of the center")
	cmd.Flags().Float64Var(&center, "center", 9, "window center")
	cmd.Flags().IntVar(&offsetMin, "offset-min", roll.DefaultOffsetMin, "smallest overlap offset")
	cmd.Flags().IntVar(&offsetMax, "offset-max", roll.DefaultOffsetMax, "largest overlap offset")
	cmd.Flags().Float64Var(&gridTol, "grid-tol", 0, "grid alignment tolerance (0 = exact)")
	cmd.Flags().IntVar(&bins, "bins", config.DefaultBins, "histogram bins")
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command, kind string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(kind, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if kind != "" {
		cfg.Kind = kind
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("trials") {
		cfg.Trials = trials
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("density") {
		cfg.Density.Path = densityIn
	}
	if flags.Changed("signal") {
		cfg.Signal.Path = signalIn
	}
	if flags.Changed("sep") {
		cfg.Density.Separator = separator
		cfg.Signal.Separator = separator
	}
	if flags.Changed("trim") {
		cfg.Density.TrimLength = trimLen
	}
	if flags.Changed("left") {
		cfg.Window.Left = left
	}
	if flags.Changed("right") {
		cfg.Window.Right = right
	}
	if flags.Changed("center") {
		cfg.Window.Center = center
	}
	if flags.Changed("offset-min") {
		cfg.Offset.Min = offsetMin
	}
	if flags.Changed("offset-max") {
		cfg.Offset.Max = offsetMax
	}
	if flags.Changed("grid-tol") {
		cfg.GridTolerance = gridTol
	}
	if flags.Changed("bins") {
		cfg.Histogram.Bins = bins
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.LogLevel, os.Stderr)
}
