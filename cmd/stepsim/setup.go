package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/logging"
	"github.com/san-kum/stepsim/internal/response"
)

// loadConfig resolves the configuration with precedence
// flag > config file > preset > defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Params = p
	}

	if configFile != "" {
		if err := config.LoadOver(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	applyFlags(cmd, cfg)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("kp") {
		cfg.Params.Kp = kp
	}
	if flags.Changed("percent") {
		cfg.Params.Percent = percent
	}
	if flags.Changed("xi") {
		cfg.Params.Xi = xi
	}
	if flags.Changed("h") {
		cfg.Params.H = h
	}
	if flags.Changed("time") {
		cfg.Params.TEnd = tEnd
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}

// useColor is true when stdout is a terminal and --no-color is not set.
func useColor() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// parseList parses comma separated floats.
func parseList(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list %q", s)
	}
	return out, nil
}

// parseSignals maps names like "x,y,e,f" (or "reference,output,...") to
// signals in drawing order.
func parseSignals(s string) ([]response.Signal, error) {
	names := map[string]response.Signal{
		"x": response.SignalReference, "ref": response.SignalReference, "reference": response.SignalReference,
		"y": response.SignalOutput, "out": response.SignalOutput, "output": response.SignalOutput,
		"dy": response.SignalRate, "rate": response.SignalRate,
		"e": response.SignalError, "err": response.SignalError, "error": response.SignalError,
		"f": response.SignalFeedback, "fb": response.SignalFeedback, "feedback": response.SignalFeedback,
	}
	var out []response.Signal
	seen := make(map[response.Signal]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		sig, ok := names[part]
		if !ok {
			return nil, fmt.Errorf("unknown signal %q", part)
		}
		if !seen[sig] {
			seen[sig] = true
			out = append(out, sig)
		}
	}
	return out, nil
}
