package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/stepsim/internal/analysis"
	"github.com/san-kum/stepsim/internal/app"
	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/export"
	"github.com/san-kum/stepsim/internal/logging"
	"github.com/san-kum/stepsim/internal/metrics"
	"github.com/san-kum/stepsim/internal/models"
	"github.com/san-kum/stepsim/internal/response"
	"github.com/san-kum/stepsim/internal/storage"
	"github.com/san-kum/stepsim/internal/sweep"
	"github.com/san-kum/stepsim/internal/viz"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.NewForTUI(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	state := app.NewState(cfg, logger)
	chart := viz.NewChartRenderer(cfg.Render, useColor())
	return viz.Run(state, chart)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	params := cfg.Params.Simulation()
	start := time.Now()
	tr, err := response.Simulate(params)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	values := metrics.Evaluate(tr, metrics.Default()...)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("kp: %g (nominal %g +%g%%)  xi: %g  h: %g  t_end: %g\n",
		params.Kp, cfg.Params.Kp, cfg.Params.Percent, params.Xi, params.H, params.TEnd)
	fmt.Printf("samples: %d\n", tr.Len())
	if metrics.Diverged(tr, metrics.DefaultStabilityBound) {
		fmt.Println("warning: output diverged")
	}
	printMetrics(os.Stdout, values)

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(tr, values)
	if err != nil {
		return err
	}
	logger.Info("run saved", zap.String("run_id", runID), zap.Int("samples", tr.Len()))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printMetrics(w io.Writer, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, formatValue(values[name]))
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", v)
}

// traceFor loads the run named in args, or simulates from the resolved
// parameters when no run id is given.
func traceFor(cmd *cobra.Command, args []string, cfg *config.Config) (*response.Trace, error) {
	if len(args) == 1 {
		return storage.New(dataDir).LoadTrace(args[0])
	}
	return response.Simulate(cfg.Params.Simulation())
}

func selectedSignals(cfg *config.Config) ([]response.Signal, error) {
	if signals == "" {
		return app.TogglesFromConfig(cfg.Toggles).Signals(), nil
	}
	return parseSignals(signals)
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tr, err := traceFor(cmd, args, cfg)
	if err != nil {
		return err
	}
	sigs, err := selectedSignals(cfg)
	if err != nil {
		return err
	}

	chart := viz.NewChartRenderer(cfg.Render, useColor())
	fmt.Println(chart.Plot(tr, sigs))
	fmt.Println()
	fmt.Println(viz.MetricsPanel(metrics.Evaluate(tr, metrics.Default()...)))
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tKP\tXI\tH\tT_END\tSAMPLES\tOVERSHOOT\tSTATUS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.4g\t%.4g\t%g\t%g\t%s\t%s\t%s\n",
			run.ID,
			humanize.Time(run.Timestamp),
			run.Params.Kp,
			run.Params.Xi,
			run.Params.H,
			run.Params.TEnd,
			humanize.Comma(int64(run.Samples)),
			formatPercent(run.Metric("overshoot_pct")),
			runStatus(run.Diverged),
		)
	}

	return w.Flush()
}

func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", v)
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("created: %s (%s)\n", meta.Timestamp.Format("2006-01-02 15:04:05"), humanize.Time(meta.Timestamp))
	fmt.Printf("kp: %g  xi: %g  h: %g  t_end: %g\n", meta.Params.Kp, meta.Params.Xi, meta.Params.H, meta.Params.TEnd)
	loop := models.NewClosedLoop(meta.Params.Kp, meta.Params.Xi)
	fmt.Printf("wn: %.4g rad/s  zeta: %.4g\n", loop.NaturalFrequency(), loop.DampingRatio())
	fmt.Printf("samples: %s\n", humanize.Comma(int64(meta.Samples)))
	fmt.Printf("diverged: %v\n", meta.Diverged)

	values := make(map[string]float64, len(meta.Metrics))
	for name := range meta.Metrics {
		values[name] = meta.Metric(name)
	}
	printMetrics(os.Stdout, values)
	return nil
}

// outputWriter opens outPath, or stdout when it is empty.
func outputWriter() (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	tr, err := storage.New(dataDir).LoadTrace(args[0])
	if err != nil {
		return err
	}
	w, err := outputWriter()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := export.EncodeCSV(w, tr); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "exported %d rows to %s\n", tr.Len(), outPath)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	w, err := outputWriter()
	if err != nil {
		return err
	}
	defer w.Close()

	values := make(map[string]float64, len(meta.Metrics))
	for name := range meta.Metrics {
		values[name] = meta.Metric(name)
	}
	if err := export.EncodeJSON(w, tr, values); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	}
	return nil
}

func writeFigure(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tr, err := traceFor(cmd, args, cfg)
	if err != nil {
		return err
	}
	sigs, err := selectedSignals(cfg)
	if err != nil {
		return err
	}

	opts := export.FigureOptions{
		Signals: sigs,
		YMin:    cfg.Render.YMin,
		YMax:    cfg.Render.YMax,
		Width:   8 * vg.Inch,
		Height:  5 * vg.Inch,
		DPI:     cfg.Render.DPI,
	}
	if err := export.WriteFigure(outPath, tr, opts); err != nil {
		return err
	}
	fmt.Printf("figure written to %s\n", outPath)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	return writeAnalysis(os.Stdout, args[0], tr)
}

// writeAnalysis prints the spectrum, the dominant and expected
// frequencies and the phase portrait of tr. Diverged runs are analysed
// too; their ringing is still measurable.
func writeAnalysis(w io.Writer, id string, tr *response.Trace) error {
	if tr.Len() < 4 {
		return fmt.Errorf("not enough samples for analysis: %d", tr.Len())
	}

	loop := models.NewClosedLoop(tr.Params.Kp, tr.Params.Xi)
	fmt.Fprintf(w, "frequency analysis: %s\n", id)
	fmt.Fprintf(w, "kp: %g  xi: %g  wn: %.4g rad/s  zeta: %.4g\n\n",
		tr.Params.Kp, tr.Params.Xi, loop.NaturalFrequency(), loop.DampingRatio())
	if metrics.Diverged(tr, metrics.DefaultStabilityBound) {
		fmt.Fprintf(w, "warning: run %s diverged; values grow without bound\n\n", id)
	}

	ps := analysis.PowerSpectrum(tr.Y)
	plotData := ps[1:]
	if len(plotData) > 4 {
		plotData = plotData[:len(plotData)/4]
	}
	for i, v := range plotData {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			plotData[i] = math.NaN()
		}
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (y)"),
	)
	fmt.Fprintln(w, graph)
	fmt.Fprintln(w)

	freq := analysis.DominantFrequency(tr)
	fmt.Fprintf(w, "dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Fprintf(w, "period: %.3f s\n", 1.0/freq)
	}
	if wd := loop.DampedFrequency(); wd > 0 {
		fmt.Fprintf(w, "expected damped frequency: %.3f hz\n", wd/(2*math.Pi))
	}

	fmt.Fprintln(w, "\nphase portrait (y vs dy):")
	fmt.Fprintln(w, analysis.NewPhasePortrait(tr).ToASCII(60, 20))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	base := cfg.Params.Simulation()
	base.Kp = cfg.Params.Kp
	if sweepParam != "" {
		return runParamSweep(ctx, base)
	}

	pcts, err := parseList(percents)
	if err != nil {
		return err
	}
	g := &sweep.GainSweep{Base: base, Percents: pcts}
	results, err := g.Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERCENT\tKP\tPEAK\tOVERSHOOT\tIAE\tSTATUS")
	for _, r := range results {
		fmt.Fprintf(w, "%g%%\t%.4g\t%.4g\t%s\t%.4g\t%s\n",
			r.Percent, r.Kp, r.Peak, formatPercent(r.Overshoot), r.IAE, runStatus(r.Diverged))
	}
	return w.Flush()
}

// runParamSweep sets one loop parameter directly, with no gain increase.
func runParamSweep(ctx context.Context, base response.Params) error {
	vals, err := parseList(sweepValues)
	if err != nil {
		return err
	}
	s := &sweep.ParamSweep{Base: base, Param: sweepParam, Values: vals}
	results, err := s.Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK\tOVERSHOOT\tIAE\tSTATUS\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.4g\t%s\t%.4g\t%s\n",
			r.Value, r.Peak, formatPercent(r.Overshoot), r.IAE, runStatus(r.Diverged))
	}
	return w.Flush()
}

func runStatus(diverged bool) string {
	if diverged {
		return "diverged"
	}
	return "ok"
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	hs, err := parseList(steps)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := &sweep.StepScan{Base: cfg.Params.Simulation(), Steps: hs}
	results, err := s.Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "H\tSAMPLES\tPEAK\tFINAL\tSTATUS")
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%s\t%.4g\t%.4g\t%s\n",
			r.H, humanize.Comma(int64(r.Samples)), r.Peak, r.Final, runStatus(r.Diverged))
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sc, err := sweep.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sweep.RunScenario(ctx, sc, logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tKP\tXI\tH\tOVERSHOOT\tSETTLING\tSTATUS\tRUN")
	for _, r := range results {
		runID := "-"
		if !noSave {
			runID, err = st.Save(r.Trace, r.Metrics)
			if err != nil {
				return err
			}
			logger.Debug("case saved", zap.String("case", r.Case.Name), zap.String("run_id", runID))
		}
		fmt.Fprintf(w, "%s\t%.4g\t%g\t%g\t%s\t%s\t%s\t%s\n",
			r.Case.Name,
			r.Trace.Params.Kp,
			r.Case.Xi,
			r.Case.H,
			formatPercent(r.Metrics["overshoot_pct"]),
			formatValue(r.Metrics["settling_time"]),
			runStatus(r.Diverged),
			runID,
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKP\tPERCENT\tEFFECTIVE KP\tXI\tH\tT_END")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%.4g\t%g\t%g\t%g\n",
			name, p.Kp, p.Percent, p.EffectiveKp(), p.Xi, p.H, p.TEnd)
	}
	return w.Flush()
}
