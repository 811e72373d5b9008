// Package trial runs independent shuffle+assign trials and keeps the one with
// the lowest dispersion of team averages.
package trial

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/teambalance/internal/domain/draft"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/domain/shuffle"
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"
)

// DefaultTrials is the number of trials run per selection.
const DefaultTrials = 10

const nanosecondsPerMillisecond = 1e6

// Outcome is the result of a selection.
type Outcome struct {
	// Best is the retained trial.
	Best model.TrialResult
	// Trials holds every trial in increasing index order.
	Trials []model.TrialResult
}

// BestNumber is the 1-based number of the winning trial.
func (o Outcome) BestNumber() int {
	return o.Best.Index + 1
}

// Selector runs trials and picks the best partition.
type Selector struct {
	trials  int
	workers int
	logger  logger.Logger
	metrics *metrics.Manager
}

// NewSelector creates a selector running DefaultTrials sequentially.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		trials:  DefaultTrials,
		workers: 1,
		logger:  logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Seed derives the seed of trial index from the master seed by appending the
// decimal index.
func Seed(master string, index int) string {
	return master + strconv.Itoa(index)
}

// Run executes a single trial: shuffle a copy of players under seed and
// deal them onto teamCount teams.
func Run(players []model.ScoredPlayer, teamCount int, seed string) (model.Partition, error) {
	order := shuffle.Shuffle(players, seed)
	teams, err := draft.Assign(order, teamCount)
	if err != nil {
		return model.Partition{}, err
	}
	return model.NewPartition(teams), nil
}

// Select runs every trial and returns the one whose team averages have the
// smallest population standard deviation. On equal dispersion the earlier
// trial wins.
//
// Trials may run concurrently when more than one worker is configured. Each
// trial owns its teams; the reduction is a sequential pass over the results
// in index order, so the outcome does not depend on scheduling.
func (s *Selector) Select(ctx context.Context, players []model.ScoredPlayer, teamCount int, masterSeed string) (Outcome, error) {
	if teamCount <= 0 {
		return Outcome{}, fmt.Errorf("%w: %d", draft.ErrInvalidTeamCount, teamCount)
	}

	results := make([]model.TrialResult, s.trials)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := 0; i < s.trials; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("trial %d: %w", i+1, err)
			}
			start := time.Now()
			seed := Seed(masterSeed, i)
			partition, err := Run(players, teamCount, seed)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i+1, err)
			}
			results[i] = model.TrialResult{Index: i, Seed: seed, Partition: partition}
			if s.metrics != nil {
				s.metrics.RecordTrial(partition.StdDev, float64(time.Since(start).Nanoseconds())/nanosecondsPerMillisecond)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	best := 0
	for i, r := range results {
		s.logger.Debug(ctx, "trial finished",
			logger.Int("trial", i+1),
			logger.Float64("std_dev", r.Partition.StdDev),
			logger.Any("averages", r.Partition.Averages),
		)
		if r.Partition.StdDev < results[best].Partition.StdDev {
			best = i
		}
	}

	out := Outcome{Best: results[best], Trials: results}
	s.logger.Info(ctx, "best trial selected",
		logger.Int("trial", out.BestNumber()),
		logger.Float64("std_dev", out.Best.Partition.StdDev),
	)
	if s.metrics != nil {
		sizes := make([]int, len(out.Best.Partition.Teams))
		for i, t := range out.Best.Partition.Teams {
			sizes[i] = t.Size()
		}
		s.metrics.RecordSelection(out.BestNumber(), out.Best.Partition.StdDev, sizes, out.Best.Partition.Averages)
	}
	return out, nil
}
