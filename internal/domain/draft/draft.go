// Package draft distributes players across teams with a greedy snake draft:
// every player goes to the team whose running total is currently lowest.
package draft

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/okian/teambalance/internal/domain/model"
)

// Pick describes one assignment step. Totals are the team totals, indexed by
// team id - 1, as they were immediately before the player was added.
type Pick struct {
	Step   int
	Player model.ScoredPlayer
	TeamID int
	Totals []float64
}

// Option applies a configuration option to an assignment.
type Option func(*assigner)

// WithPickObserver calls fn on every step, just before the player is added.
func WithPickObserver(fn func(Pick)) Option {
	return func(a *assigner) {
		a.observe = fn
	}
}

type assigner struct {
	observe func(Pick)
}

// Assign deals players, in the given order, onto teamCount new teams.
//
// Before every pick the current team order is stable-sorted by total score
// and the first team receives the player. Equal-total teams therefore keep
// the relative order they had after the previous pick, not their id order.
// The returned teams are ordered by id.
func Assign(players []model.ScoredPlayer, teamCount int, opts ...Option) ([]*model.Team, error) {
	if teamCount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTeamCount, teamCount)
	}

	a := assigner{}
	for _, opt := range opts {
		opt(&a)
	}

	teams := model.NewTeams(teamCount)
	order := slices.Clone(teams)

	for step, p := range players {
		slices.SortStableFunc(order, func(x, y *model.Team) int {
			return cmp.Compare(x.TotalEngagementScore, y.TotalEngagementScore)
		})

		target := order[0]
		if a.observe != nil {
			a.observe(Pick{Step: step, Player: p, TeamID: target.ID, Totals: totals(teams)})
		}
		target.Add(p)
	}

	return teams, nil
}

func totals(teams []*model.Team) []float64 {
	out := make([]float64, len(teams))
	for i, t := range teams {
		out[i] = t.TotalEngagementScore
	}
	return out
}
