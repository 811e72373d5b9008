package app

import (
	"github.com/okian/teambalance/internal/adapters/report"
	"github.com/okian/teambalance/internal/domain/scoring"
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMetricsFile exports metrics to path after every run.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// WithTrials sets the number of trials per run.
func WithTrials(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.trials = n
		}
	}
}

// WithTrialWorkers bounds how many trials run concurrently.
func WithTrialWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDelimiter sets the roster field separator used by the default loader.
func WithDelimiter(r rune) Option {
	return func(s *Service) {
		if r != 0 {
			s.delimiter = r
		}
	}
}

// WithLoader replaces the roster loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithScorer replaces the engagement scorer.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithRenderer sets the report renderer.
func WithRenderer(r report.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}
