// Package commands implements CLI command handlers for sqbench.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/squarelist"
	"github.com/hupe1980/squarelist/internal/bench"
	"github.com/hupe1980/squarelist/promcollector"
)

// ErrChecksFailed is returned when a run finishes with failed sanity checks.
var ErrChecksFailed = errors.New("sanity checks failed")

// benchExecutor runs a validated config and returns its report.
type benchExecutor func(ctx context.Context, cfg bench.Config, optFns ...bench.RunnerOption) (*bench.Report, error)

func runBench(ctx context.Context, cfg bench.Config, optFns ...bench.RunnerOption) (*bench.Report, error) {
	runner, err := bench.NewRunner(cfg, optFns...)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}

// RunCommand holds configuration and dependencies for the run command.
type RunCommand struct {
	configPath string
	exec       benchExecutor
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	return newRunCommandWithDeps(runBench)
}

func newRunCommandWithDeps(exec benchExecutor) *cobra.Command {
	rc := &RunCommand{exec: exec}
	def := bench.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark workload",
		Long: `Run the benchmark workload for every size from --start to --max.

Settings are read from flags, SQBENCH_* environment variables and an optional
.sqbench.yaml in the working or home directory, in that order of precedence.`,
		Args: cobra.NoArgs,
		RunE: rc.run,
	}

	cmd.Flags().StringVar(&rc.configPath, "config", "", "Config file path (default: .sqbench.yaml in CWD or $HOME)")
	cmd.Flags().Int("start", def.Start, "First list size")
	cmd.Flags().Int("max", def.Max, "Largest list size")
	cmd.Flags().Int("steps-per-decade", def.StepsPerDecade, "Sizes per factor of ten")
	cmd.Flags().Int("repetitions", def.Repetitions, "Spaced deletes, inserts and lookups per size")
	cmd.Flags().Int("minmax-repetitions", def.MinMaxRepetitions, "Min and Max reads per size")
	cmd.Flags().StringSlice("baseline", nil, "Baselines to compare against: btree, tidwall")
	cmd.Flags().String("format", string(bench.FormatTable), "Output format: table, markdown, csv")
	cmd.Flags().String("memory-limit", "0", "Square list memory budget (e.g. '64MiB'; 0 = unlimited)")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. ':2112')")

	return cmd
}

func (rc *RunCommand) run(cmd *cobra.Command, _ []string) error {
	settings, err := LoadSettings(rc.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	cfg, err := settings.BenchConfig()
	if err != nil {
		return err
	}

	format, err := bench.ParseFormat(settings.Format)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	optFns := []bench.RunnerOption{bench.WithLogger(newLogger(cmd.ErrOrStderr(), verbose, quiet))}

	if settings.MetricsAddr != "" {
		mc, stop, err := serveMetrics(settings.MetricsAddr)
		if err != nil {
			return err
		}
		defer stop()
		optFns = append(optFns, bench.WithMetricsCollector(mc))
	}

	report, err := rc.exec(cmd.Context(), cfg, optFns...)
	if report != nil && len(report.Results) > 0 {
		if renderErr := report.Render(cmd.OutOrStdout(), format); renderErr != nil && err == nil {
			err = renderErr
		}
		if !quiet {
			report.RenderChecks(cmd.ErrOrStderr())
		}
	}
	if err != nil {
		return err
	}

	if failed := report.FailedChecks(); failed > 0 {
		return fmt.Errorf("%w: %d", ErrChecksFailed, failed)
	}
	return nil
}

func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	if quiet {
		return squarelist.NoopLogger().Logger
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// serveMetrics starts a Prometheus endpoint on addr backed by a fresh
// registry and returns the collector feeding it.
func serveMetrics(addr string) (*promcollector.Collector, func(), error) {
	reg := prometheus.NewRegistry()
	mc, err := promcollector.New(reg, "sqbench")
	if err != nil {
		return nil, nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return mc, stop, nil
}
