package model

import "math"

// Team accumulates players during one trial.
type Team struct {
	ID                   int
	Players              []ScoredPlayer
	TotalEngagementScore float64
}

// NewTeams returns count empty teams with ids 1..count.
func NewTeams(count int) []*Team {
	teams := make([]*Team, count)
	for i := range teams {
		teams[i] = &Team{ID: i + 1}
	}
	return teams
}

// Add appends p and adds its score to the running total.
func (t *Team) Add(p ScoredPlayer) {
	t.Players = append(t.Players, p)
	t.TotalEngagementScore += p.EngagementScore
}

// Size is the number of players on the team.
func (t *Team) Size() int {
	return len(t.Players)
}

// Average is the mean engagement score. An empty team averages 0.
func (t *Team) Average() float64 {
	return t.TotalEngagementScore / float64(max(1, len(t.Players)))
}

// Partition is the set of teams produced by one trial with its statistics.
type Partition struct {
	// Teams ordered by id ascending.
	Teams []*Team
	// Averages[i] is the average score of Teams[i].
	Averages []float64
	// StdDev is the population standard deviation of Averages.
	StdDev float64
}

// NewPartition derives averages and dispersion for teams.
func NewPartition(teams []*Team) Partition {
	averages := make([]float64, len(teams))
	for i, t := range teams {
		averages[i] = t.Average()
	}
	return Partition{
		Teams:    teams,
		Averages: averages,
		StdDev:   PopulationStdDev(averages),
	}
}

// PlayerCount is the number of players across all teams.
func (p Partition) PlayerCount() int {
	n := 0
	for _, t := range p.Teams {
		n += t.Size()
	}
	return n
}

// PopulationStdDev returns the standard deviation of values dividing by N.
// It is 0 for fewer than two values.
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// TrialResult is the outcome of one shuffle+assign trial.
type TrialResult struct {
	// Index is 0-based.
	Index     int
	Seed      string
	Partition Partition
}
