// Package scoring turns raw roster metrics into a composite engagement score.
package scoring

import (
	"context"
	"fmt"
	"slices"

	"github.com/okian/teambalance/internal/domain/model"
)

// Option applies a configuration option to the MinMaxScorer.
type Option func(*MinMaxScorer)

// WithMetrics overrides the metric columns that make up the score.
func WithMetrics(names ...string) Option {
	return func(s *MinMaxScorer) {
		if len(names) > 0 {
			s.metrics = slices.Clone(names)
		}
	}
}

// Scorer computes engagement scores for a whole roster at once.
type Scorer interface {
	// Score returns one ScoredPlayer per record, in input order.
	Score(ctx context.Context, records []model.PlayerRecord) ([]model.ScoredPlayer, error)
}

// MinMaxScorer min-max normalizes each metric across the roster and averages
// the normalized values with equal weight.
type MinMaxScorer struct {
	metrics []string
}

// NewMinMaxScorer creates a scorer over model.MetricNames unless overridden.
func NewMinMaxScorer(opts ...Option) *MinMaxScorer {
	s := &MinMaxScorer{
		metrics: model.MetricNames(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Metrics returns the metric names this scorer averages.
func (s *MinMaxScorer) Metrics() []string {
	return slices.Clone(s.metrics)
}

// bounds holds the observed range of one metric.
type bounds struct {
	min, max float64
}

// normalize maps v into [0,1]. A constant metric contributes 0.
func (b bounds) normalize(v float64) float64 {
	if b.max == b.min {
		return 0
	}
	return (v - b.min) / (b.max - b.min)
}

// Score implements Scorer. The computation is a single batch pass: ranges
// are taken over every record before any record is normalized.
func (s *MinMaxScorer) Score(ctx context.Context, records []model.PlayerRecord) ([]model.ScoredPlayer, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}

	ranges := make([]bounds, len(s.metrics))
	for m, name := range s.metrics {
		for i, rec := range records {
			v, ok := rec.Metric(name)
			if !ok {
				return nil, fmt.Errorf("%w: player %q has no %q", ErrMissingMetric, rec.PlayerID, name)
			}
			if i == 0 {
				ranges[m] = bounds{min: v, max: v}
				continue
			}
			ranges[m].min = min(ranges[m].min, v)
			ranges[m].max = max(ranges[m].max, v)
		}
	}

	out := make([]model.ScoredPlayer, len(records))
	for i, rec := range records {
		var sum float64
		for m, name := range s.metrics {
			v, _ := rec.Metric(name)
			sum += ranges[m].normalize(v)
		}
		out[i] = model.ScoredPlayer{
			PlayerRecord:    rec,
			EngagementScore: sum / float64(len(s.metrics)),
		}
	}
	return out, nil
}
