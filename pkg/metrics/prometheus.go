// Package metrics provides Prometheus metrics for team balancing runs.
//
// A run is a one-shot batch, so metrics are not scraped; they are exported
// once per run to a node-exporter textfile via WriteTextfile.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default bucket layouts.
var (
	// Dispersion of team averages lives in [0, 0.5] for scores in [0, 1].
	dispersionBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}
	durationBuckets   = []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// Manager owns the Prometheus collectors for the balancer.
type Manager struct {
	namespace         string
	subsystem         string
	dispersionBuckets []float64
	durationBuckets   []float64
	enabled           bool
	customLabels      map[string]string
	registry          *prometheus.Registry

	// Run metrics
	runsTotal      prometheus.Counter
	runFailures    *prometheus.CounterVec
	runDurationMs  prometheus.Histogram
	playersLoaded  prometheus.Gauge
	teamsRequested prometheus.Gauge

	// Roster metrics
	rosterRowsRead    prometheus.Counter
	rosterRowsSkipped prometheus.Counter

	// Trial metrics
	trialsTotal      prometheus.Counter
	trialDispersion  prometheus.Histogram
	trialDurationMs  prometheus.Histogram
	bestDispersion   prometheus.Gauge
	bestTrialIndex   prometheus.Gauge
	teamSize         *prometheus.GaugeVec
	teamAverageScore *prometheus.GaugeVec
}

var globalManager = NewManager() //nolint:gochecknoglobals // process-wide default manager

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}

// NewManager creates a manager with its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:         "teambalance",
		subsystem:         "balancer",
		dispersionBuckets: dispersionBuckets,
		durationBuckets:   durationBuckets,
		enabled:           true,
		customLabels:      make(map[string]string),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collector definitions
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Total number of balancing runs started",
		ConstLabels: labels,
	})

	m.runFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_failures_total",
		Help:        "Total number of failed runs by error kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.runDurationMs = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_milliseconds",
		Help:        "Wall time of a full run (load, score, trials, report) in milliseconds",
		Buckets:     m.durationBuckets,
		ConstLabels: labels,
	})

	m.playersLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "players_loaded",
		Help:        "Number of players in the last loaded roster",
		ConstLabels: labels,
	})

	m.teamsRequested = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "teams_requested",
		Help:        "Number of teams requested for the last run",
		ConstLabels: labels,
	})

	m.rosterRowsRead = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_rows_read_total",
		Help:        "Total number of roster data rows parsed",
		ConstLabels: labels,
	})

	m.rosterRowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "roster_rows_skipped_total",
		Help:        "Total number of empty roster lines skipped",
		ConstLabels: labels,
	})

	m.trialsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "trials_total",
		Help:        "Total number of shuffle+assign trials executed",
		ConstLabels: labels,
	})

	m.trialDispersion = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "trial_std_dev",
		Help:        "Standard deviation of team average scores per trial",
		Buckets:     m.dispersionBuckets,
		ConstLabels: labels,
	})

	m.trialDurationMs = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "trial_duration_milliseconds",
		Help:        "Duration of a single trial in milliseconds",
		Buckets:     m.durationBuckets,
		ConstLabels: labels,
	})

	m.bestDispersion = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "best_std_dev",
		Help:        "Standard deviation of the selected partition",
		ConstLabels: labels,
	})

	m.bestTrialIndex = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "best_trial_index",
		Help:        "1-based index of the selected trial",
		ConstLabels: labels,
	})

	m.teamSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "team_size",
		Help:        "Number of players on each team of the selected partition",
		ConstLabels: labels,
	}, []string{"team"})

	m.teamAverageScore = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "team_average_score",
		Help:        "Average engagement score of each team of the selected partition",
		ConstLabels: labels,
	}, []string{"team"})
}

// RecordRunStarted counts a new run and the requested team count.
func (m *Manager) RecordRunStarted(teams int) {
	if !m.enabled {
		return
	}
	m.runsTotal.Inc()
	m.teamsRequested.Set(float64(teams))
}

// RecordRunFailure counts a failed run under kind.
func (m *Manager) RecordRunFailure(kind string) {
	if !m.enabled {
		return
	}
	m.runFailures.WithLabelValues(kind).Inc()
}

// RecordRunDuration observes the wall time of a run.
func (m *Manager) RecordRunDuration(ms float64) {
	if !m.enabled {
		return
	}
	m.runDurationMs.Observe(ms)
}

// UpdatePlayersLoaded sets the roster size gauge.
func (m *Manager) UpdatePlayersLoaded(count int) {
	if !m.enabled {
		return
	}
	m.playersLoaded.Set(float64(count))
}

// RecordRosterRow counts one parsed data row.
func (m *Manager) RecordRosterRow() {
	if !m.enabled {
		return
	}
	m.rosterRowsRead.Inc()
}

// RecordRosterSkip counts one skipped empty line.
func (m *Manager) RecordRosterSkip() {
	if !m.enabled {
		return
	}
	m.rosterRowsSkipped.Inc()
}

// RecordTrial observes the dispersion and duration of one trial.
func (m *Manager) RecordTrial(stdDev, durationMs float64) {
	if !m.enabled {
		return
	}
	m.trialsTotal.Inc()
	m.trialDispersion.Observe(stdDev)
	m.trialDurationMs.Observe(durationMs)
}

// RecordSelection stores the winning trial and its per-team figures.
// index is 1-based.
func (m *Manager) RecordSelection(index int, stdDev float64, sizes []int, averages []float64) {
	if !m.enabled {
		return
	}
	m.bestTrialIndex.Set(float64(index))
	m.bestDispersion.Set(stdDev)
	m.teamSize.Reset()
	m.teamAverageScore.Reset()
	for i, size := range sizes {
		team := strconv.Itoa(i + 1)
		m.teamSize.WithLabelValues(team).Set(float64(size))
		if i < len(averages) {
			m.teamAverageScore.WithLabelValues(team).Set(averages[i])
		}
	}
}

// Registry returns the registry holding this manager's collectors.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current state of all collectors to path in the
// Prometheus text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	return nil
}
