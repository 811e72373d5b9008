// Command teambalance splits a roster of players into teams with balanced
// average engagement.
//
// Usage:
//
//	teambalance --teams 4 --seed 42 [--debug] [--input players.csv]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/okian/teambalance/internal/adapters/report"
	"github.com/okian/teambalance/internal/app"
	"github.com/okian/teambalance/internal/config"
	"github.com/okian/teambalance/pkg/logger"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options holds the parsed command line.
type options struct {
	teams       int
	seed        string
	debug       bool
	input       string
	delimiter   string
	format      string
	metricsFile string
	workers     int
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("teambalance", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.IntVar(&o.teams, "teams", 0, "number of teams to form (required, positive integer)")
	fs.StringVar(&o.seed, "seed", "", "numeric seed controlling the shuffles (required)")
	fs.BoolVar(&o.debug, "debug", false, "print per-trial statistics before the result")
	fs.StringVar(&o.input, "input", cfg.InputPath, "roster file")
	fs.StringVar(&o.delimiter, "delimiter", cfg.Delimiter, "single-character field separator of the roster")
	fs.StringVar(&o.format, "format", cfg.OutputFormat, "report format: text or json")
	fs.StringVar(&o.metricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile after the run")
	fs.IntVar(&o.workers, "workers", cfg.TrialWorkers, "number of trials to run concurrently")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range []string{"teams", "seed"} {
		if !set[name] {
			return options{}, fmt.Errorf("%w: --%s", ErrMissingArgument, name)
		}
	}
	if utf8.RuneCountInString(o.delimiter) != 1 {
		return options{}, fmt.Errorf("%w: --delimiter must be a single character", app.ErrInvalidConfiguration)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitError
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithJSON(cfg.LogFormat == "json")); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logging: %v\n", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	if opts.debug {
		logger.SetLevel(slog.LevelDebug)
	}

	renderer, err := report.New(opts.format)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	svc := app.New(
		app.WithLogger(log.Named("balancer")),
		app.WithTrials(cfg.Trials),
		app.WithTrialWorkers(opts.workers),
		app.WithDelimiter([]rune(opts.delimiter)[0]),
		app.WithRenderer(renderer),
		app.WithMetricsFile(opts.metricsFile),
	)

	if _, err := svc.Run(ctx, app.Request{
		InputPath: opts.input,
		Teams:     opts.teams,
		Seed:      opts.seed,
		Debug:     opts.debug,
	}, stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}
