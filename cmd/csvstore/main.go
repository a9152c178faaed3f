/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command csvstore inspects a registry directory.
//
//	csvstore check --path ./data       load every list, report rejected rows
//	csvstore stats --config store.yaml print record counts per list
//	csvstore version
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/pflag"

	"github.com/suparena/csvstore"
	"github.com/suparena/csvstore/config"
	"github.com/suparena/csvstore/datastore"
	"github.com/suparena/csvstore/errors"
	"github.com/suparena/csvstore/logging"
	"github.com/suparena/csvstore/metrics"
)

const usage = `Usage: csvstore <check|stats|version> [flags]

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	command, args := args[0], args[1:]

	if command == "version" || command == "--version" || command == "-v" {
		printVersion(stdout)
		return 0
	}

	opts := NewOptions()
	fs := pflag.NewFlagSet("csvstore", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	opts.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := opts.Complete()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	verbosity, _ := logging.ParseVerbosity(cfg.Log.Level)
	logger, err := logging.NewLogger(logging.Options{Development: cfg.Log.Development, Verbosity: verbosity})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	metrics.Register(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var code int
	switch command {
	case "check":
		code = check(ctx, cfg, logger, stdout)
	case "stats":
		code = stats(ctx, cfg, logger, stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		fs.Usage()
		return 2
	}

	if opts.DumpMetrics {
		if err := dumpMetrics(prometheus.DefaultGatherer, stdout); err != nil {
			logger.Error(err, "Failed to dump metrics")
		}
	}
	return code
}

func open(ctx context.Context, cfg *config.Config, logger logr.Logger) (*csvstore.Registry, error) {
	reg, err := csvstore.New(cfg.Path,
		csvstore.WithEncoding(cfg.Encoding),
		csvstore.WithDelimiter(cfg.DelimiterRune()),
		csvstore.WithLogger(logger),
		csvstore.WithFlushPolicy(datastore.FlushPolicy{Interval: cfg.Flush.Interval, MinAge: cfg.Flush.MinAge}),
	)
	if err != nil {
		return nil, err
	}
	return reg, reg.Init(ctx)
}

// check loads the registry and lists every rejected row. It exits 1 when any row was rejected.
func check(ctx context.Context, cfg *config.Config, logger logr.Logger, out io.Writer) int {
	reg, err := open(ctx, cfg, logger)
	if reg != nil {
		defer reg.Close(ctx)
	}
	if err == nil {
		fmt.Fprintf(out, "%s: ok\n", cfg.Path)
		return 0
	}

	var agg *errors.AggregateInitError
	if !stderrors.As(err, &agg) {
		logger.Error(err, "Failed to open registry", "path", cfg.Path)
		return 1
	}
	for _, rowErr := range agg.Errors() {
		fmt.Fprintln(out, rowErr)
	}
	fmt.Fprintf(out, "%s: %d rejected row(s)\n", cfg.Path, len(agg.Errors()))
	return 1
}

// stats prints record counts. Rejected rows are logged but do not fail the command.
func stats(ctx context.Context, cfg *config.Config, logger logr.Logger, out io.Writer) int {
	reg, err := open(ctx, cfg, logger)
	if reg == nil {
		logger.Error(err, "Failed to open registry", "path", cfg.Path)
		return 1
	}
	defer reg.Close(ctx)
	if err != nil {
		if !errors.IsInit(err) {
			logger.Error(err, "Failed to open registry", "path", cfg.Path)
			return 1
		}
		logger.V(logging.DEFAULT).Info("Some rows were rejected, run check for details")
	}

	fmt.Fprintf(out, "%-20s %d\n", csvstore.ExchangeFile, reg.Exchanges().Count())
	fmt.Fprintf(out, "%-20s %d\n", csvstore.BoardFile, reg.Boards().Count())
	fmt.Fprintf(out, "%-20s %d\n", csvstore.InstrumentFile, reg.Instruments().Count())
	fmt.Fprintf(out, "%-20s %d\n", csvstore.PortfolioFile, reg.Portfolios().Count())
	fmt.Fprintf(out, "%-20s %d\n", csvstore.PositionFile, reg.Positions().Count())
	return 0
}

func printVersion(out io.Writer) {
	info := csvstore.GetVersionInfo()
	fmt.Fprintf(out, "csvstore version %s\n", info.Version)
	fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
	fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
	fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
}

func dumpMetrics(g prometheus.Gatherer, out io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}
