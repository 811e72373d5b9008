// Package app wires roster loading, scoring, trial selection and reporting
// into a single balancing run.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/teambalance/internal/adapters/report"
	"github.com/okian/teambalance/internal/adapters/roster"
	"github.com/okian/teambalance/internal/domain/draft"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/domain/scoring"
	"github.com/okian/teambalance/internal/domain/trial"
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Loader supplies the raw roster for a run.
type Loader interface {
	ReadFile(ctx context.Context, path string) ([]model.PlayerRecord, error)
}

// Request describes one balancing run.
type Request struct {
	InputPath string
	Teams     int
	// Seed must parse as a number.
	Seed  string
	Debug bool
}

// Result summarizes a successful run.
type Result struct {
	RunID   string
	Players int
	Seed    string
	Outcome trial.Outcome
}

// Service runs balancing requests.
type Service struct {
	loader      Loader
	scorer      scoring.Scorer
	renderer    report.Renderer
	trials      int
	workers     int
	delimiter   rune
	metricsFile string

	logger  logger.Logger
	metrics *metrics.Manager
}

// New constructs a Service with default collaborators.
func New(opts ...Option) *Service {
	s := &Service{
		scorer:    scoring.NewMinMaxScorer(),
		renderer:  report.TextRenderer{},
		trials:    trial.DefaultTrials,
		workers:   1,
		delimiter: ';',
		logger:    logger.Nop(),
		metrics:   metrics.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.loader == nil {
		s.loader = roster.NewReader(
			roster.WithDelimiter(s.delimiter),
			roster.WithLogger(s.logger.Named("roster")),
			roster.WithMetrics(s.metrics),
		)
	}

	return s
}

// Run executes req and writes the report to w. Nothing is written to w
// unless the whole run succeeds.
func (s *Service) Run(ctx context.Context, req Request, w io.Writer) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))

	s.metrics.RecordRunStarted(req.Teams)
	defer func() {
		s.metrics.RecordRunDuration(float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond)
		s.exportMetrics(ctx, log)
	}()

	res, err := s.run(ctx, log, runID, req, w)
	if err != nil {
		s.metrics.RecordRunFailure(FailureKind(err))
		log.Error(ctx, "run failed", logger.Error(err))
		return nil, err
	}

	log.Info(ctx, "run completed",
		logger.Int("players", res.Players),
		logger.Int("teams", req.Teams),
		logger.Int("best_trial", res.Outcome.BestNumber()),
		logger.Float64("std_dev", res.Outcome.Best.Partition.StdDev),
	)
	return res, nil
}

func (s *Service) run(ctx context.Context, log logger.Logger, runID string, req Request, w io.Writer) (*Result, error) {
	if req.Teams <= 0 {
		return nil, fmt.Errorf("%w: teams must be a positive integer, got %d", ErrInvalidConfiguration, req.Teams)
	}
	seed, err := CanonicalSeed(req.Seed)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "run started",
		logger.String("input", req.InputPath),
		logger.Int("teams", req.Teams),
		logger.String("seed", seed),
	)

	records, err := s.loader.ReadFile(ctx, req.InputPath)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, req.InputPath)
	}
	s.metrics.UpdatePlayersLoaded(len(records))

	players, err := s.scorer.Score(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("score roster: %w", err)
	}

	selector := trial.NewSelector(
		trial.WithTrials(s.trials),
		trial.WithWorkers(s.workers),
		trial.WithLogger(log.Named("trial")),
		trial.WithMetrics(s.metrics),
	)
	outcome, err := selector.Select(ctx, players, req.Teams, seed)
	if err != nil {
		return nil, fmt.Errorf("select partition: %w", err)
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, report.Report{Outcome: outcome, Debug: req.Debug}); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	return &Result{RunID: runID, Players: len(players), Seed: seed, Outcome: outcome}, nil
}

func (s *Service) exportMetrics(ctx context.Context, log logger.Logger) {
	if s.metricsFile == "" {
		return
	}
	if err := s.metrics.WriteTextfile(s.metricsFile); err != nil {
		log.Warn(ctx, "metrics export failed", logger.String("path", s.metricsFile), logger.Error(err))
	}
}

// CanonicalSeed validates that raw is a finite number and returns its
// shortest decimal form, so "42", "42.0" and " 42 " select the same trials.
func CanonicalSeed(raw string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: seed must be a number, got %q", ErrInvalidConfiguration, raw)
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// FailureKind classifies err for metrics labels.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, roster.ErrFileNotFound):
		return "file_not_found"
	case errors.Is(err, roster.ErrParse), errors.Is(err, roster.ErrDuplicatePlayer), errors.Is(err, roster.ErrRead):
		return "parse"
	case errors.Is(err, ErrInvalidConfiguration), errors.Is(err, draft.ErrInvalidTeamCount):
		return "invalid_configuration"
	case errors.Is(err, ErrEmptyInput), errors.Is(err, scoring.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
