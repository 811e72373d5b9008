package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should own a private registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
				So(manager.Registry(), ShouldNotEqual, Default().Registry())
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithDispersionBuckets([]float64{0.1, 0.5}),
				WithDurationBuckets([]float64{1, 10}),
				WithMetricsEnabled(true),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors should be registered on the supplied registry", func() {
				So(manager.Registry(), ShouldEqual, registry)
				manager.RecordRunStarted(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_runs_total")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a fresh manager", t, func() {
		manager := NewManager()

		Convey("When recording run metrics", func() {
			manager.RecordRunStarted(4)
			manager.RecordRunStarted(2)
			manager.RecordRunFailure("parse")
			manager.UpdatePlayersLoaded(17)
			manager.RecordRunDuration(12.5)

			Convey("Then counters and gauges should reflect the calls", func() {
				So(testutil.ToFloat64(manager.runsTotal), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.teamsRequested), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.runFailures.WithLabelValues("parse")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.playersLoaded), ShouldEqual, 17)
			})
		})

		Convey("When recording roster rows", func() {
			manager.RecordRosterRow()
			manager.RecordRosterRow()
			manager.RecordRosterSkip()

			Convey("Then read and skipped rows are counted separately", func() {
				So(testutil.ToFloat64(manager.rosterRowsRead), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.rosterRowsSkipped), ShouldEqual, 1)
			})
		})

		Convey("When recording trials and a selection", func() {
			for i := 0; i < 10; i++ {
				manager.RecordTrial(0.01*float64(i), 0.2)
			}
			manager.RecordSelection(3, 0.02, []int{2, 2, 1}, []float64{0.5, 0.4, 0.45})

			Convey("Then trial and selection metrics should be set", func() {
				So(testutil.ToFloat64(manager.trialsTotal), ShouldEqual, 10)
				So(testutil.ToFloat64(manager.bestTrialIndex), ShouldEqual, 3)
				So(testutil.ToFloat64(manager.bestDispersion), ShouldEqual, 0.02)
				So(testutil.ToFloat64(manager.teamSize.WithLabelValues("3")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.teamAverageScore.WithLabelValues("1")), ShouldEqual, 0.5)
			})

			Convey("And a later selection replaces the per-team series", func() {
				manager.RecordSelection(1, 0, []int{5}, []float64{0.3})
				So(testutil.CollectAndCount(manager.teamSize), ShouldEqual, 1)
			})
		})
	})
}

func TestMetricsDisabled(t *testing.T) {
	Convey("Given a disabled manager", t, func() {
		manager := NewManager(WithMetricsEnabled(false))

		Convey("When recording anything", func() {
			manager.RecordRunStarted(2)
			manager.RecordTrial(0.1, 1)

			Convey("Then nothing is counted", func() {
				So(testutil.ToFloat64(manager.runsTotal), ShouldEqual, 0)
				So(testutil.ToFloat64(manager.trialsTotal), ShouldEqual, 0)
			})
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a manager with recorded values", t, func() {
		manager := NewManager()
		manager.RecordRunStarted(2)
		dir := t.TempDir()

		Convey("When exporting to a textfile", func() {
			path := filepath.Join(dir, "teambalance.prom")
			err := manager.WriteTextfile(path)

			Convey("Then the file should contain the exposition text", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "teambalance_balancer_runs_total 1")
			})
		})

		Convey("When exporting to an unwritable location", func() {
			err := manager.WriteTextfile(filepath.Join(dir, "missing", "out.prom"))

			Convey("Then it should return an export error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrExport), ShouldBeTrue)
			})
		})
	})
}
