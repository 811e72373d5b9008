// Package report renders a selected partition for people and for machines.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/domain/trial"
)

// Justification closes every text report.
const Justification = "Justification: each player's engagement score is the equal-weighted mean of " +
	"their min-max normalized event engagements, messages sent and days active in the last 30 days. " +
	"Players were dealt in a seeded random order, each to the team with the lowest running total, " +
	"and of several independently seeded trials the one with the smallest standard deviation of " +
	"team average scores was kept. The same roster, team count and seed always reproduce these teams."

// Report is everything a renderer needs.
type Report struct {
	Outcome trial.Outcome
	// Debug adds per-trial statistics.
	Debug bool
}

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, r Report) error
}

// New returns the renderer for format ("text" or "json").
func New(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return TextRenderer{}, nil
	case "json":
		return JSONRenderer{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// TeamName is the label a team is reported under.
func TeamName(id int) string {
	return fmt.Sprintf("new_team_%d", id)
}

// TextRenderer writes the line-oriented console report.
type TextRenderer struct{}

// Render implements Renderer.
func (TextRenderer) Render(w io.Writer, r Report) error {
	best := r.Outcome.Best.Partition
	if !sortedTeams(best) {
		return ErrUnsorted
	}
	ew := &errWriter{w: w}

	if r.Debug {
		for _, t := range r.Outcome.Trials {
			ew.printf("trial %d: std_dev=%.4f averages=[%s]\n",
				t.Index+1, t.Partition.StdDev, joinFixed(t.Partition.Averages))
		}
		ew.printf("best trial: %d (std_dev=%.4f)\n\n", r.Outcome.BestNumber(), best.StdDev)
	}

	for _, team := range best.Teams {
		for _, p := range team.Players {
			ew.printf("%s -> %s\n", p.PlayerID, TeamName(team.ID))
		}
	}

	ew.printf("\n")
	for i, team := range best.Teams {
		ew.printf("%s: size=%d avg_score=%.4f\n", TeamName(team.ID), team.Size(), best.Averages[i])
	}

	ew.printf("\n%s\n", Justification)
	return ew.err
}

func joinFixed(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return strings.Join(parts, ", ")
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// sortedTeams reports whether teams are listed by ascending id.
func sortedTeams(p model.Partition) bool {
	for i := 1; i < len(p.Teams); i++ {
		if p.Teams[i-1].ID > p.Teams[i].ID {
			return false
		}
	}
	return true
}
