// Command gen-roster writes a synthetic roster for the balancer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/okian/teambalance/internal/rostergen"
	"github.com/okian/teambalance/pkg/logger"
)

// Default configuration constants.
const (
	defaultPlayers  = 100
	defaultSeed     = "1"
	outputFilePerms = 0o644
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gen-roster", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		players   = fs.Int("players", defaultPlayers, "number of players to generate")
		seed      = fs.String("seed", defaultSeed, "seed for reproducible output")
		out       = fs.String("out", "", "output file (default: stdout)")
		delimiter = fs.String("delimiter", ";", "field separator")
	)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if utf8.RuneCountInString(*delimiter) != 1 {
		fmt.Fprintf(stderr, "error: delimiter must be a single character, got %q\n", *delimiter)
		return 2
	}

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		fmt.Fprintf(stderr, "failed to initialize logging: %v\n", err)
		return 1
	}

	cfg := rostergen.Config{Players: *players, Seed: *seed, Delimiter: []rune(*delimiter)[0]}
	records, err := rostergen.Generate(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	w := stdout
	if *out != "" {
		f, err := os.OpenFile(*out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePerms)
		if err != nil {
			fmt.Fprintf(stderr, "error: create output file: %v\n", err)
			return 1
		}
		defer f.Close()
		w = f
	}

	if err := rostergen.Write(w, records, cfg.Delimiter); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *out != "" {
		logger.Get().Info(ctx, "roster written", logger.String("path", *out), logger.Int("players", len(records)))
	}
	return 0
}
