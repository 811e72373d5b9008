package scoring_test

import (
	"context"
	"errors"
	"testing"

	model "github.com/okian/teambalance/internal/domain/model"
	scoring "github.com/okian/teambalance/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func record(id string, events, messages, days float64) model.PlayerRecord {
	return model.PlayerRecord{
		PlayerID: id,
		Metrics: map[string]float64{
			model.MetricEventEngagements: events,
			model.MetricMessagesSent:     messages,
			model.MetricDaysActive:       days,
		},
	}
}

func TestMinMaxScorer_Score(t *testing.T) {
	Convey("Given a default min-max scorer", t, func() {
		scorer := scoring.NewMinMaxScorer()
		ctx := context.Background()

		Convey("When scoring a roster with distinct values", func() {
			records := []model.PlayerRecord{
				record("p1", 0, 10, 0),
				record("p2", 5, 20, 15),
				record("p3", 10, 30, 30),
			}

			scored, err := scorer.Score(ctx, records)

			Convey("Then each score is the mean of the normalized metrics", func() {
				So(err, ShouldBeNil)
				So(len(scored), ShouldEqual, 3)
				So(scored[0].EngagementScore, ShouldEqual, 0)
				So(scored[1].EngagementScore, ShouldAlmostEqual, 0.5, 1e-12)
				So(scored[2].EngagementScore, ShouldEqual, 1)
			})

			Convey("And input order and ids are preserved", func() {
				for i := range records {
					So(scored[i].PlayerID, ShouldEqual, records[i].PlayerID)
				}
			})
		})

		Convey("When one metric is constant across all players", func() {
			records := []model.PlayerRecord{
				record("p1", 0, 7, 0),
				record("p2", 10, 7, 30),
			}

			scored, err := scorer.Score(ctx, records)

			Convey("Then that metric contributes exactly 0", func() {
				So(err, ShouldBeNil)
				So(scored[0].EngagementScore, ShouldEqual, 0)
				// (1 + 0 + 1) / 3
				So(scored[1].EngagementScore, ShouldAlmostEqual, 2.0/3.0, 1e-12)
			})
		})

		Convey("When every metric is constant", func() {
			records := []model.PlayerRecord{
				record("p1", 3, 3, 3),
				record("p2", 3, 3, 3),
			}

			scored, err := scorer.Score(ctx, records)

			Convey("Then every score is 0", func() {
				So(err, ShouldBeNil)
				So(scored[0].EngagementScore, ShouldEqual, 0)
				So(scored[1].EngagementScore, ShouldEqual, 0)
			})
		})

		Convey("When scoring a single player", func() {
			scored, err := scorer.Score(ctx, []model.PlayerRecord{record("solo", 9, 9, 9)})

			Convey("Then the degenerate range yields 0", func() {
				So(err, ShouldBeNil)
				So(scored[0].EngagementScore, ShouldEqual, 0)
			})
		})

		Convey("When the input is empty", func() {
			scored, err := scorer.Score(ctx, nil)

			Convey("Then it should fail with ErrEmptyInput", func() {
				So(errors.Is(err, scoring.ErrEmptyInput), ShouldBeTrue)
				So(scored, ShouldBeNil)
			})
		})

		Convey("When a record lacks a metric", func() {
			records := []model.PlayerRecord{
				record("p1", 1, 2, 3),
				{PlayerID: "p2", Metrics: map[string]float64{model.MetricEventEngagements: 1}},
			}

			_, err := scorer.Score(ctx, records)

			Convey("Then it should fail with ErrMissingMetric", func() {
				So(errors.Is(err, scoring.ErrMissingMetric), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "p2")
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := scorer.Score(cctx, []model.PlayerRecord{record("p1", 1, 2, 3)})

			Convey("Then it should return the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestMinMaxScorer_Properties(t *testing.T) {
	Convey("Given a roster with spread-out metrics", t, func() {
		scorer := scoring.NewMinMaxScorer()
		records := make([]model.PlayerRecord, 0, 50)
		for i := 0; i < 50; i++ {
			f := float64(i)
			records = append(records, record(string(rune('A'+i%26))+string(rune('a'+i/26)), f*f, float64((i*37)%11), float64(i%31)))
		}

		scored, err := scorer.Score(context.Background(), records)
		So(err, ShouldBeNil)

		Convey("Then every score lies in [0,1]", func() {
			for _, p := range scored {
				So(p.EngagementScore, ShouldBeGreaterThanOrEqualTo, 0)
				So(p.EngagementScore, ShouldBeLessThanOrEqualTo, 1)
			}
		})

		Convey("Then the input records are not mutated", func() {
			So(records[3].Metrics[model.MetricEventEngagements], ShouldEqual, 9)
		})

		Convey("Then scoring is order independent", func() {
			reversed := make([]model.PlayerRecord, len(records))
			for i, r := range records {
				reversed[len(records)-1-i] = r
			}
			again, err := scorer.Score(context.Background(), reversed)
			So(err, ShouldBeNil)
			for i := range scored {
				So(again[len(scored)-1-i].EngagementScore, ShouldEqual, scored[i].EngagementScore)
			}
		})
	})
}

func TestMinMaxScorer_Options(t *testing.T) {
	Convey("Given a scorer restricted to one metric", t, func() {
		scorer := scoring.NewMinMaxScorer(scoring.WithMetrics(model.MetricDaysActive))

		Convey("Then only that metric drives the score", func() {
			So(scorer.Metrics(), ShouldResemble, []string{model.MetricDaysActive})
			scored, err := scorer.Score(context.Background(), []model.PlayerRecord{
				record("p1", 100, 100, 0),
				record("p2", 0, 0, 30),
			})
			So(err, ShouldBeNil)
			So(scored[0].EngagementScore, ShouldEqual, 0)
			So(scored[1].EngagementScore, ShouldEqual, 1)
		})

		Convey("And an empty override keeps the defaults", func() {
			So(scoring.NewMinMaxScorer(scoring.WithMetrics()).Metrics(), ShouldResemble, model.MetricNames())
		})
	})
}
