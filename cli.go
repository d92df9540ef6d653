package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// cliOptions are the persistent flags shared by every subcommand.
type cliOptions struct {
	configPath  string
	verbose     bool
	jsonOut     bool
	workers     int
	traceDepth  int
	metricsFile string
	otelStdout  bool
}

// app is what PersistentPreRunE prepares for the subcommands.
type app struct {
	opts     cliOptions
	cfg      Config
	logger   *slog.Logger
	metrics  *Metrics
	shutdown func(context.Context) error
	stdout   io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout}

	root := &cobra.Command{
		Use:   "geode-optimizer",
		Short: "Find the most geodes a robot-factory blueprint can open",
		Long: `geode-optimizer reads robot blueprints (puzzle text or JSON) and runs an
exhaustive pruned search for the largest number of geodes each one can open.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, stderr)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close(cmd.Context())
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.configPath, "config", "", "YAML config file")
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log search progress at debug level")
	pf.BoolVar(&a.opts.jsonOut, "json", false, "Print results as JSON")
	pf.IntVar(&a.opts.workers, "workers", -1, "Blueprints searched in parallel (0 = GOMAXPROCS)")
	pf.IntVar(&a.opts.traceDepth, "trace-depth", -1, "Trace visited states up to this many elapsed minutes (needs --verbose)")
	pf.StringVar(&a.opts.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics here")
	pf.BoolVar(&a.opts.otelStdout, "otel-stdout", false, "Print OpenTelemetry spans to stderr")

	root.AddCommand(a.solveCmd(), a.qualityCmd(), a.productCmd())
	return root
}

func (a *app) init(cmd *cobra.Command, stderr io.Writer) error {
	cfg, err := LoadConfig(a.opts.configPath)
	if err != nil {
		return err
	}
	if a.opts.workers >= 0 {
		cfg.Workers = a.opts.workers
	}
	if a.opts.traceDepth >= 0 {
		cfg.TraceDepth = a.opts.traceDepth
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg
	a.logger = newLogger(stderr, a.opts.verbose)
	a.metrics = NewMetrics()

	if a.opts.otelStdout {
		shutdown, err := setupStdoutTracing(stderr)
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}
	a.logger.Debug("config loaded",
		"workers", cfg.Workers,
		"fanOutDepth", cfg.FanOutDepth,
		"cache", cfg.Cache.Backend,
		"capacity", cfg.Cache.Capacity)
	return nil
}

func (a *app) close(ctx context.Context) error {
	if err := a.metrics.WriteTextfile(a.opts.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	if a.shutdown != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		return a.shutdown(ctx)
	}
	return nil
}

// newLogger writes human-readable logs to a terminal and JSON lines
// everywhere else.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func (a *app) solveCmd() *cobra.Command {
	var minutes, limit int
	cmd := &cobra.Command{
		Use:   "solve <blueprints-file>",
		Short: "Print the maximum geodes for each blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bps, err := LoadBlueprints(args[0])
			if err != nil {
				return err
			}
			bps = prefix(bps, limit)
			results, err := a.runner().Solve(cmd.Context(), bps, minutes)
			if err != nil {
				return err
			}
			return a.report("solve", bps, TotalQuality(results), results)
		},
	}
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 24, "Search horizon in minutes")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Only search the first n blueprints (0 = all)")
	return cmd
}

func (a *app) qualityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quality <blueprints-file>",
		Short: "Sum of blueprint id times geodes over the quality horizon (24 minutes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bps, err := LoadBlueprints(args[0])
			if err != nil {
				return err
			}
			answer, results, err := a.runner().Quality(cmd.Context(), bps)
			if err != nil {
				return err
			}
			return a.report("quality", bps, answer, results)
		},
	}
}

func (a *app) productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <blueprints-file>",
		Short: "Product of geodes of the first blueprints over the long horizon (32 minutes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bps, err := LoadBlueprints(args[0])
			if err != nil {
				return err
			}
			answer, results, err := a.runner().Product(cmd.Context(), bps)
			if err != nil {
				return err
			}
			return a.report("product", bps, answer, results)
		},
	}
}

func (a *app) runner() *Runner {
	return NewRunner(a.cfg, a.logger, a.metrics)
}

func (a *app) report(mode string, bps []*Blueprint, answer int, results []Result) error {
	if a.opts.jsonOut {
		workers := NewRunner(a.cfg, nil, nil).workers(len(results))
		return writeJSON(a.stdout, newBenchOutput(mode, workers, answer, results))
	}
	if a.opts.verbose {
		byID := make(map[int]*Blueprint, len(bps))
		for _, bp := range bps {
			byID[bp.ID] = bp
		}
		for _, r := range results {
			if bp := byID[r.BlueprintID]; bp != nil {
				fmt.Fprintln(a.stdout, FormatResult(bp, r))
			}
		}
	}
	printTable(a.stdout, mode, answer, results)
	return nil
}
