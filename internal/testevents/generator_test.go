package testevents

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/malcolmgaynor/MLB-ELO/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func smallConfig(dir string) *Config {
	cfg := DefaultConfig()
	cfg.NumBatters = 12
	cfg.NumPitchers = 6
	cfg.NumGames = 20
	cfg.AtBatsPerGame = 30
	cfg.Workers = 3
	cfg.OutputDir = dir
	return cfg
}

func TestGenerateSeason(t *testing.T) {
	convey.Convey("Given a small synthetic season", t, func() {
		ctx := context.Background()
		cfg := smallConfig(t.TempDir())
		stats := &Stats{}

		convey.Convey("When generating", func() {
			events, err := generateSeason(ctx, cfg, stats)

			convey.Convey("Then every game contributes its plate appearances", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, cfg.NumGames*cfg.AtBatsPerGame)
				convey.So(stats.EventsGenerated, convey.ShouldEqual, len(events))
			})

			convey.Convey("Then events come back in chronological order", func() {
				convey.So(err, convey.ShouldBeNil)
				for i := 1; i < len(events); i++ {
					convey.So(events[i].Before(events[i-1]), convey.ShouldBeFalse)
				}
			})

			convey.Convey("Then every event validates and plays in a known park", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, ev := range events {
					convey.So(ev.Validate(), convey.ShouldBeNil)
					_, ok := ParkTable[ev.HomeTeam]
					convey.So(ok, convey.ShouldBeTrue)
				}
			})

			convey.Convey("Then no two events share an identity", func() {
				convey.So(err, convey.ShouldBeNil)
				seen := make(map[string]bool, len(events))
				for _, ev := range events {
					convey.So(seen[ev.Key()], convey.ShouldBeFalse)
					seen[ev.Key()] = true
				}
			})
		})

		convey.Convey("When the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := generateSeason(cancelled, cfg, stats)

			convey.Convey("Then generation stops with the context error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestDrawOutcome(t *testing.T) {
	convey.Convey("Given the outcome distribution", t, func() {
		convey.Convey("When drawing many outcomes", func() {
			known := make(map[string]float64, len(outcomeTable))
			for _, ow := range outcomeTable {
				known[ow.label] = ow.metric
			}

			convey.Convey("Then every draw is a known outcome with its metric", func() {
				for i := 0; i < 1000; i++ {
					label, metric := drawOutcome(0)
					want, ok := known[label]
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(metric, convey.ShouldEqual, want)
				}
			})

			convey.Convey("Then extreme skews still land in the table", func() {
				for _, skew := range []float64{-2, -0.5, 0.5, 2} {
					label, _ := drawOutcome(skew)
					_, ok := known[label]
					convey.So(ok, convey.ShouldBeTrue)
				}
			})
		})
	})
}

func TestRunWritesSeason(t *testing.T) {
	convey.Convey("Given a generator run", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		dir := t.TempDir()
		cfg := smallConfig(dir)

		convey.Convey("When the full run completes", func() {
			err := Run(ctx, cfg)

			convey.Convey("Then the event files and reference tables are on disk", func() {
				convey.So(err, convey.ShouldBeNil)
				matches, globErr := filepath.Glob(filepath.Join(dir, "events_*.csv"))
				convey.So(globErr, convey.ShouldBeNil)
				convey.So(len(matches), convey.ShouldBeGreaterThan, 0)
				for _, name := range []string{"park_factors.csv", "playerid_map.csv", "wrc_plus.csv", "era_minus.csv"} {
					_, statErr := os.Stat(filepath.Join(dir, name))
					convey.So(statErr, convey.ShouldBeNil)
				}
			})
		})
	})
}
