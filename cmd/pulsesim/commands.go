package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync/atomic"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/pulsesim/internal/analysis"
	"github.com/san-kum/pulsesim/internal/config"
	"github.com/san-kum/pulsesim/internal/dataset"
	"github.com/san-kum/pulsesim/internal/export"
	"github.com/san-kum/pulsesim/internal/logging"
	"github.com/san-kum/pulsesim/internal/metrics"
	"github.com/san-kum/pulsesim/internal/optim"
	"github.com/san-kum/pulsesim/internal/roll"
	pulse "github.com/san-kum/pulsesim/internal/signal"
	"github.com/san-kum/pulsesim/internal/sim"
	"github.com/san-kum/pulsesim/internal/storage"
	"github.com/san-kum/pulsesim/internal/viz"
)

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	params, err := cfg.RollParams()
	if err != nil {
		return err
	}
	r, err := roll.New(params)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := cfg.SimOptions(logger)
	meta := storage.RunMetadata{
		Kind:    cfg.Kind,
		Seed:    cfg.Seed,
		Seeded:  opts.Seeded,
		Workers: effectiveWorkers(cfg.Workers, cfg.Trials),
		Window:  params.Window,
	}
	st := storage.New(dataDir)

	fmt.Printf("running %d %s trials...\n", cfg.Trials, cfg.Kind)
	start := time.Now()

	var (
		integrals []float64
		runID     string
	)
	switch cfg.Kind {
	case roll.KindSingle:
		integrals, err = r.SingleBulk(ctx, cfg.Trials, opts)
		if err != nil {
			return reportBatchError(logger, err)
		}
		if !noSave {
			runID, err = st.SaveIntegrals(meta, integrals)
		}
	default:
		var outcomes []roll.Outcome
		outcomes, err = r.DoubleOverlapBulk(ctx, cfg.Trials, opts)
		if err != nil {
			return reportBatchError(logger, err)
		}
		integrals = roll.Integrals(outcomes)
		if !noSave {
			meta.OffsetMin, meta.OffsetMax = r.OffsetRange()
			runID, err = st.SaveOutcomes(meta, outcomes)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if runID != "" {
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Println(viz.SummaryPanel("integral", analysis.Summarize(integrals)))

	if len(integrals) > 0 && (histOut != "" || !noPlot) {
		h, err := analysis.NewHistogram(integrals, cfg.Histogram.Bins, cfg.Histogram.Density)
		if err != nil {
			return err
		}
		if histOut != "" {
			if err := dataset.SaveHistogram(histOut, h, cfg.Histogram.Separator); err != nil {
				return err
			}
			logger.Info("histogram written", "path", histOut, "bins", h.Bins())
		}
		if !noPlot {
			fmt.Println(viz.Plot(h, "integral"))
		}
	}

	if metricsOut != "" {
		if err := writeMetrics(metricsOut); err != nil {
			return err
		}
		logger.Info("metrics written", "path", metricsOut)
	}
	return nil
}

func effectiveWorkers(n, count int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if count > 0 && n > count {
		n = count
	}
	return n
}

func writeMetrics(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return metrics.WriteText(f)
}

func watchBatches(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if batchSize < 1 {
		return fmt.Errorf("batch must be positive, got %d", batchSize)
	}

	params, err := cfg.RollParams()
	if err != nil {
		return err
	}
	r, err := roll.New(params)
	if err != nil {
		return err
	}
	if cfg.Kind == roll.KindDouble {
		if err := r.CheckGrid(); err != nil {
			return err
		}
	}

	// the TUI owns the terminal, keep only errors on stderr
	logger := logging.NewLogger("error", os.Stderr)
	var batch atomic.Uint64

	run := func(ctx context.Context) ([]float64, error) {
		opts := cfg.SimOptions(logger)
		// advance the seed so seeded batches differ
		opts.Seed += batch.Add(1) - 1
		if cfg.Kind == roll.KindSingle {
			return r.SingleBulk(ctx, batchSize, opts)
		}
		outcomes, err := r.DoubleOverlapBulk(ctx, batchSize, opts)
		if err != nil {
			return nil, err
		}
		return roll.Integrals(outcomes), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bins := cfg.Histogram.Bins
	if !cmd.Flags().Changed("bins") {
		bins = viz.PlotWidth
	}
	m := viz.NewWatchModel(ctx, cfg.Kind, run, bins, cfg.Trials)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if wm, ok := final.(viz.WatchModel); ok {
		fmt.Printf("%d trials in %d batches\n", len(wm.Values()), wm.Batches())
		return wm.Err()
	}
	return nil
}

func sweepWindows(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	params, err := cfg.RollParams()
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch([]string{"left", "right"}, [][]float64{sweepLefts, sweepRights})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := cfg.SimOptions(logger)
	summaries := make([]analysis.Summary, 0, g.Size())
	eval := func(ctx context.Context, p map[string]float64) (float64, error) {
		wp := params
		wp.Window.Left, wp.Window.Right = p["left"], p["right"]
		r, err := roll.New(wp)
		if err != nil {
			return 0, err
		}

		var integrals []float64
		if cfg.Kind == roll.KindSingle {
			integrals, err = r.SingleBulk(ctx, cfg.Trials, opts)
		} else {
			var outcomes []roll.Outcome
			outcomes, err = r.DoubleOverlapBulk(ctx, cfg.Trials, opts)
			integrals = roll.Integrals(outcomes)
		}
		if err != nil {
			return 0, reportBatchError(logger, err)
		}

		s := analysis.Summarize(integrals)
		summaries = append(summaries, s)
		logger.Debug("window evaluated", "left", p["left"], "right", p["right"], "mean", s.Mean)
		if s.Mean == 0 {
			return math.NaN(), nil
		}
		return s.StdDev / math.Abs(s.Mean), nil
	}

	fmt.Printf("sweeping %d windows with %d %s trials each...\n", g.Size(), cfg.Trials, cfg.Kind)
	points, best, err := g.Search(ctx, eval)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tLEFT\tRIGHT\tMEAN\tSTD DEV\tREL SPREAD")
	for i, p := range points {
		mark := ""
		if i == best {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%.6g\t%.6g\t%.6g\n",
			mark, p.Params["left"], p.Params["right"], summaries[i].Mean, summaries[i].StdDev, p.Value)
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tKIND\tTIME\tTRIALS\tWINDOW\tOFFSETS\tMEAN")

	for _, run := range runs {
		from, to := run.Window.Bounds()
		offsets := "-"
		if run.Kind == roll.KindDouble {
			offsets = fmt.Sprintf("%d..%d", run.OffsetMin, run.OffsetMax)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t[%g, %g]\t%s\t%.6g\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Trials,
			from, to,
			offsets,
			run.Summary.Mean,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	outcomes, err := st.LoadOutcomes(runID)
	if err != nil {
		return err
	}
	values, err := roll.Column(outcomes, column)
	if err != nil {
		return err
	}

	from, to := meta.Window.Bounds()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", meta.ID)
	fmt.Fprintf(w, "kind\t%s\n", meta.Kind)
	fmt.Fprintf(w, "time\t%s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "trials\t%d\n", meta.Trials)
	fmt.Fprintf(w, "workers\t%d\n", meta.Workers)
	if meta.Seeded {
		fmt.Fprintf(w, "seed\t%d\n", meta.Seed)
	} else {
		fmt.Fprintln(w, "seed\t-")
	}
	fmt.Fprintf(w, "window\t[%g, %g]\n", from, to)
	if meta.Kind == roll.KindDouble {
		fmt.Fprintf(w, "offsets\t%d..%d\n", meta.OffsetMin, meta.OffsetMax)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println(viz.SummaryPanel(column, analysis.Summarize(values)))
	if len(values) == 0 {
		return nil
	}
	h, err := analysis.NewHistogram(values, columnBins(cmd, values), false)
	if err != nil {
		return err
	}
	fmt.Println(viz.Plot(h, column))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := st.ExportCSV(args[0], out); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	outcomes, err := st.LoadOutcomes(args[0])
	if err != nil {
		return err
	}
	values, err := roll.Column(outcomes, column)
	if err != nil {
		return err
	}
	h, err := analysis.NewHistogram(values, columnBins(cmd, values), false)
	if err != nil {
		return err
	}

	if outPath == "" {
		return export.WriteHistogramSVG(os.Stdout, h, 800, 400, svgColor)
	}
	if err := export.SaveHistogramSVG(outPath, h, 800, 400, svgColor); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	return nil
}

const svgColor = "#00ff88"

// columnBins keeps integer offsets apart unless --bins was given.
func columnBins(cmd *cobra.Command, values []float64) int {
	if column == "offset" && !cmd.Flags().Changed("bins") {
		return analysis.IntegerBins(values)
	}
	return showBins
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
}

func normalizeFile(cmd *cobra.Command, args []string) error {
	d, err := dataset.LoadDensity(args[0], normSep, normTrim)
	if err != nil {
		return err
	}
	for i := range d.E {
		fmt.Printf("%g%s%g\n", d.E[i], normSep, d.P[i])
	}
	return nil
}

func splitHistogram(cmd *cobra.Command, args []string) error {
	h, err := dataset.LoadHistogram(args[0], histSep)
	if err != nil {
		return err
	}

	below, above := h.SplitAt(border)
	total := below + above

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANGE\tSUM\tFRACTION")
	fmt.Fprintf(w, "< %g\t%g\t%.6f\n", border, below, fraction(below, total))
	fmt.Fprintf(w, ">= %g\t%g\t%.6f\n", border, above, fraction(above, total))
	fmt.Fprintf(w, "total\t%g\t%.6f\n", total, fraction(total, total))
	return w.Flush()
}

func fraction(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total
}

func listPresets(cmd *cobra.Command, args []string) error {
	kinds := args
	if len(kinds) == 0 {
		for kind := range config.Presets {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
	}

	for _, kind := range kinds {
		presets := config.ListPresets(kind)
		if len(presets) == 0 {
			fmt.Printf("no presets for kind: %s\n", kind)
			continue
		}
		fmt.Printf("presets for %s:\n", kind)
		for _, name := range presets {
			p := config.GetPreset(kind, name)
			from, to := p.SignalWindow().Bounds()
			fmt.Printf("  %-8s trials=%d window=[%g, %g]\n", name, p.Trials, from, to)
		}
	}
	return nil
}

func showSignal(cmd *cobra.Command, args []string) error {
	kind := ""
	if len(args) == 1 {
		kind = args[0]
	} else if preset != "" {
		kind = config.DefaultKind
	}
	cfg, err := resolveConfig(cmd, kind)
	if err != nil {
		return err
	}
	tmpl, err := cfg.LoadSignal()
	if errors.Is(err, config.ErrNoSignal) {
		x, y := config.DemoPulse()
		tmpl = pulse.Signal{X: x, Y: y}
		fmt.Fprintln(os.Stderr, "no template configured, showing the demo pulse")
	} else if err != nil {
		return err
	}

	w := cfg.SignalWindow()
	fmt.Println(viz.PlotSignal(tmpl, w, "template"))
	if overlapAt < 0 {
		return nil
	}
	pair, err := pulse.ComposeTolerance(tmpl, tmpl, float64(overlapAt), 1, 1, cfg.GridTolerance)
	if err != nil {
		return err
	}
	fmt.Println(viz.PlotSignal(pair, w, fmt.Sprintf("overlap at %d", overlapAt)))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	kind := ""
	if preset != "" {
		kind = config.DefaultKind
	}
	cfg, err := resolveConfig(cmd, kind)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("config written to %s\n", args[0])
	return nil
}

// reportBatchError logs which trial aborted a batch before handing the
// error to cobra.
func reportBatchError(logger *slog.Logger, err error) error {
	var te *sim.TrialError
	if errors.As(err, &te) {
		logger.Error("batch aborted", "trial", te.Index, "err", te.Wrapped)
	}
	return err
}
