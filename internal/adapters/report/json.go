package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONRenderer writes the report as a single JSON document.
type JSONRenderer struct {
	Indent string
}

type jsonAssignment struct {
	PlayerID        string  `json:"player_id"`
	Team            string  `json:"team"`
	TeamID          int     `json:"team_id"`
	EngagementScore float64 `json:"engagement_score"`
}

type jsonTeam struct {
	TeamID       int      `json:"team_id"`
	Name         string   `json:"name"`
	Size         int      `json:"size"`
	AverageScore float64  `json:"avg_score"`
	TotalScore   float64  `json:"total_score"`
	Players      []string `json:"players"`
}

type jsonTrial struct {
	Trial    int       `json:"trial"`
	Seed     string    `json:"seed"`
	StdDev   float64   `json:"std_dev"`
	Averages []float64 `json:"averages"`
}

type jsonReport struct {
	BestTrial     int              `json:"best_trial"`
	StdDev        float64          `json:"std_dev"`
	Assignments   []jsonAssignment `json:"assignments"`
	Teams         []jsonTeam       `json:"teams"`
	Trials        []jsonTrial      `json:"trials,omitempty"`
	Justification string           `json:"justification"`
}

// Render implements Renderer.
func (j JSONRenderer) Render(w io.Writer, r Report) error {
	best := r.Outcome.Best.Partition
	if !sortedTeams(best) {
		return ErrUnsorted
	}

	doc := jsonReport{
		BestTrial:     r.Outcome.BestNumber(),
		StdDev:        best.StdDev,
		Assignments:   make([]jsonAssignment, 0, best.PlayerCount()),
		Teams:         make([]jsonTeam, 0, len(best.Teams)),
		Justification: Justification,
	}

	for i, team := range best.Teams {
		jt := jsonTeam{
			TeamID:       team.ID,
			Name:         TeamName(team.ID),
			Size:         team.Size(),
			AverageScore: best.Averages[i],
			TotalScore:   team.TotalEngagementScore,
			Players:      make([]string, 0, team.Size()),
		}
		for _, p := range team.Players {
			jt.Players = append(jt.Players, p.PlayerID)
			doc.Assignments = append(doc.Assignments, jsonAssignment{
				PlayerID:        p.PlayerID,
				Team:            jt.Name,
				TeamID:          team.ID,
				EngagementScore: p.EngagementScore,
			})
		}
		doc.Teams = append(doc.Teams, jt)
	}

	if r.Debug {
		for _, t := range r.Outcome.Trials {
			doc.Trials = append(doc.Trials, jsonTrial{
				Trial:    t.Index + 1,
				Seed:     t.Seed,
				StdDev:   t.Partition.StdDev,
				Averages: t.Partition.Averages,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", j.Indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
