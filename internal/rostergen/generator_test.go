package rostergen

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/teambalance/internal/adapters/roster"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/pkg/logger"
)

func TestGenerate(t *testing.T) {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	Convey("Given a generator config", t, func() {
		ctx := context.Background()
		cfg := Config{Players: 25, Seed: "42", Delimiter: ';'}

		Convey("Generate is reproducible for the same seed", func() {
			a, err := Generate(ctx, cfg)
			So(err, ShouldBeNil)
			b, err := Generate(ctx, cfg)
			So(err, ShouldBeNil)

			So(a, ShouldResemble, b)
			So(len(a), ShouldEqual, 25)
		})

		Convey("Different seeds give different rosters", func() {
			a, _ := Generate(ctx, cfg)
			cfg.Seed = "43"
			b, _ := Generate(ctx, cfg)

			So(a[0].PlayerID, ShouldNotEqual, b[0].PlayerID)
		})

		Convey("Player ids are unique and metrics are within range", func() {
			records, err := Generate(ctx, cfg)
			So(err, ShouldBeNil)

			seen := map[string]bool{}
			for _, r := range records {
				So(seen[r.PlayerID], ShouldBeFalse)
				seen[r.PlayerID] = true

				for _, name := range model.MetricNames() {
					v, ok := r.Metric(name)
					So(ok, ShouldBeTrue)
					So(v, ShouldBeGreaterThanOrEqualTo, 0.0)
				}
				days, _ := r.Metric(model.MetricDaysActive)
				So(days, ShouldBeLessThanOrEqualTo, float64(maxDaysActive))
			}
		})

		Convey("A non-positive player count is rejected", func() {
			cfg.Players = 0
			_, err := Generate(ctx, cfg)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("A cancelled context stops generation", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Generate(cctx, cfg)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestWriteRoundTrip(t *testing.T) {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	Convey("Given a generated roster", t, func() {
		ctx := context.Background()
		records, err := Generate(ctx, Config{Players: 12, Seed: "7"})
		So(err, ShouldBeNil)

		for _, delim := range []rune{';', ','} {
			Convey("the roster reader accepts the output with delimiter "+string(delim), func() {
				var buf bytes.Buffer
				So(Write(&buf, records, delim), ShouldBeNil)

				got, err := roster.NewReader(roster.WithDelimiter(delim)).Read(ctx, &buf)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, records)
			})
		}
	})
}
