package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/apexstats/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		t.Setenv("XDG_DATA_HOME", "/xdg/data")
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Backend, convey.ShouldEqual, "csv")
			convey.So(cfg.LogFile, convey.ShouldEqual, "log.csv")
			convey.So(cfg.DataDir, convey.ShouldEqual, "/xdg/data/apex-stats")
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "apexstats")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "recorder")
			convey.So(cfg.MetricsBuckets, convey.ShouldBeEmpty)
		})

		convey.Convey("Then the data path should join dir and file", func() {
			convey.So(cfg.DataPath(), convey.ShouldEqual, "/xdg/data/apex-stats/log.csv")
		})
	})
}

func TestConfig_EnsureDataDir(t *testing.T) {
	convey.Convey("Given a config pointing at a nested missing directory", t, func() {
		cfg := config.New()
		cfg.DataDir = filepath.Join(t.TempDir(), "a", "b")

		convey.Convey("When ensuring it exists", func() {
			err := cfg.EnsureDataDir(context.Background())

			convey.Convey("Then the directory should be created", func() {
				convey.So(err, convey.ShouldBeNil)
				info, statErr := os.Stat(cfg.DataDir)
				convey.So(statErr, convey.ShouldBeNil)
				convey.So(info.IsDir(), convey.ShouldBeTrue)
			})

			convey.Convey("And calling it again should be harmless", func() {
				convey.So(cfg.EnsureDataDir(context.Background()), convey.ShouldBeNil)
			})
		})
	})
}
