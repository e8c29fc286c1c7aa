package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/stepsim/internal/config"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFile    string
	noColor    bool
	// Step response parameters
	kp      float64
	percent float64
	xi      float64
	h       float64
	tEnd    float64
	preset  string
	// Output
	outPath string
	signals string
	noSave  bool
	// Batch runs
	percents    string
	steps       string
	sweepParam  string
	sweepValues string
)

// main registers the commands and runs the interactive lab when no
// subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "stepsim",
		Short:         "step response lab for a second-order closed loop",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".stepsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	addParamFlags(rootCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive parameter form and chart",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	addParamFlags(tuiCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate the step response and save the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "ascii chart of a stored run, or of a fresh simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	addParamFlags(plotCmd)
	plotCmd.Flags().StringVar(&signals, "signals", "", "signals to draw, e.g. x,y,e,f (default from config)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run parameters and metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export trace to csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export trace and metrics to json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")

	figureCmd := &cobra.Command{
		Use:   "figure [run_id]",
		Short: "render a png/svg/pdf figure of a stored run, or of a fresh simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeFigure,
	}
	addParamFlags(figureCmd)
	figureCmd.Flags().StringVarP(&outPath, "output", "o", "step_response.png", "output file; format from extension")
	figureCmd.Flags().StringVar(&signals, "signals", "", "signals to draw, e.g. x,y,e,f (default from config)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis and phase portrait",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "rerun with several gain increases",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&percents, "percents", "0,10,30,50,100,200", "comma separated gain increases in percent")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "loop parameter to set directly (kp or xi) instead of a gain increase")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "0.1,0.3,0.5,0.7,1,2", "comma separated values for --param")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "rerun with several step sizes and report divergence",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	addParamFlags(scanCmd)
	scanCmd.Flags().StringVar(&steps, "steps", "0.001,0.01,0.02,0.05,0.1,0.2,0.5", "comma separated step sizes")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(tuiCmd, runCmd, plotCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd,
		figureCmd, analyzeCmd, sweepCmd, scanCmd, scenarioCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "nominal proportional gain")
	cmd.Flags().Float64Var(&percent, "percent", config.DefaultPercent, "gain increase in percent")
	cmd.Flags().Float64Var(&xi, "xi", config.DefaultXi, "damping coefficient ξ")
	cmd.Flags().Float64Var(&h, "h", config.DefaultH, "integration step")
	cmd.Flags().Float64Var(&tEnd, "time", config.DefaultTEnd, "simulation horizon")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset parameters")
}
