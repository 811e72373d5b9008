package trial

import (
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"
)

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithTrials sets how many trials a selection runs.
func WithTrials(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.trials = n
		}
	}
}

// WithWorkers bounds how many trials run at the same time.
func WithWorkers(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets a custom logger for the selector.
func WithLogger(l logger.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records per-trial and selection metrics on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Selector) {
		s.metrics = m
	}
}
