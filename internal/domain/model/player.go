// Package model contains domain models passed between layers.
package model

// Metric column names of the roster. Their order is the order in which the
// scorer averages normalized values.
const (
	MetricEventEngagements = "historical_event_engagements"
	MetricMessagesSent     = "historical_messages_sent"
	MetricDaysActive       = "days_active_last_30"

	// ColumnPlayerID is the identifier column of the roster.
	ColumnPlayerID = "player_id"
)

// MetricNames returns the fixed list of engagement metrics.
func MetricNames() []string {
	return []string{MetricEventEngagements, MetricMessagesSent, MetricDaysActive}
}

// PlayerRecord is one raw roster row. It is treated as immutable once read.
type PlayerRecord struct {
	PlayerID string
	Metrics  map[string]float64
}

// Metric returns the named raw metric and whether it is present.
func (p PlayerRecord) Metric(name string) (float64, bool) {
	v, ok := p.Metrics[name]
	return v, ok
}

// ScoredPlayer is a PlayerRecord with its composite engagement score in [0,1].
type ScoredPlayer struct {
	PlayerRecord
	EngagementScore float64
}
