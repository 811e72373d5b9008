package config_test

import (
	"errors"
	"testing"

	"github.com/okian/teambalance/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.InputPath, convey.ShouldEqual, "players.csv")
			convey.So(cfg.Delimiter, convey.ShouldEqual, ";")
			convey.So(cfg.Trials, convey.ShouldEqual, 10)
			convey.So(cfg.TrialWorkers, convey.ShouldEqual, 1)
			convey.So(cfg.OutputFormat, convey.ShouldEqual, "text")
			convey.So(cfg.MetricsFile, convey.ShouldBeEmpty)
			convey.So(cfg.DelimiterRune(), convey.ShouldEqual, ';')
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the delimiter has more than one character", func() {
			cfg.Delimiter = ";;"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the delimiter is a multi-byte single character", func() {
			cfg.Delimiter = "¦"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.DelimiterRune(), convey.ShouldEqual, '¦')
		})

		convey.Convey("When trials is zero", func() {
			cfg.Trials = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When trial_workers is negative", func() {
			cfg.TrialWorkers = -1
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the output format is unknown", func() {
			cfg.OutputFormat = "xml"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the log format is unknown", func() {
			cfg.LogFormat = "logfmt"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
