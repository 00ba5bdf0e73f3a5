package statcast_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/malcolmgaynor/MLB-ELO/internal/adapters/statcast"
	"github.com/smartystreets/goconvey/convey"
)

const eventHeader = "game_date,at_bat_number,batter,pitcher,events,woba_value,home_team\n"

func writeEventFile(dir, name, rows string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(eventHeader+rows), 0o644); err != nil {
		panic(err)
	}
	return path
}

func TestLoadEvents(t *testing.T) {
	convey.Convey("Given a directory of event files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		convey.Convey("When loading a single well-formed file", func() {
			writeEventFile(dir, "april.csv",
				"2024-04-02,5,B2,P1,single,0.9,NYY\n"+
					"2024-04-01,3,B1,P1,home_run,2.0,BOS\n"+
					"2024-04-01,7,B2,P2,strikeout,0.0,BOS\n")

			events, stats, err := statcast.LoadEvents(ctx, filepath.Join(dir, "*.csv"))

			convey.Convey("Then events come back sorted by date then at-bat number", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, 3)
				convey.So(events[0].Batter, convey.ShouldEqual, "B1")
				convey.So(events[0].AtBatNumber, convey.ShouldEqual, 3)
				convey.So(events[1].Outcome, convey.ShouldEqual, "strikeout")
				convey.So(events[2].GameDate.Format("2006-01-02"), convey.ShouldEqual, "2024-04-02")
				convey.So(stats.Files, convey.ShouldEqual, 1)
				convey.So(stats.Rows, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When files contain pitch-level rows without an outcome", func() {
			writeEventFile(dir, "april.csv",
				"2024-04-01,1,B1,P1,home_run,2.0,BOS\n"+
					"2024-04-01,1,B1,P1,,,BOS\n"+
					"2024-04-01,1,B1,P1,,,BOS\n")

			events, stats, err := statcast.LoadEvents(ctx, filepath.Join(dir, "*.csv"))

			convey.Convey("Then outcome-less rows are dropped and counted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, 1)
				convey.So(stats.DroppedNull, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the same event appears in two files", func() {
			writeEventFile(dir, "a.csv",
				"2024-04-01,1,B1,P1,home_run,2.0,BOS\n"+
					"2024-04-01,2,B2,P1,single,0.9,BOS\n")
			writeEventFile(dir, "b.csv",
				"2024-04-01,1,B1,P1,home_run,2.0,BOS\n"+
					"2024-04-02,1,B1,P2,field_out,0.0,NYY\n")

			events, stats, err := statcast.LoadEvents(ctx, filepath.Join(dir, "*.csv"))

			convey.Convey("Then exact duplicates collapse to one occurrence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, 3)
				convey.So(stats.Files, convey.ShouldEqual, 2)
				convey.So(stats.Duplicates, convey.ShouldEqual, 1)
			})

			convey.Convey("Then rows differing in any column both survive", func() {
				convey.So(err, convey.ShouldBeNil)
				seen := map[string]bool{}
				for _, ev := range events {
					seen[ev.Pitcher] = true
				}
				convey.So(seen["P1"], convey.ShouldBeTrue)
				convey.So(seen["P2"], convey.ShouldBeTrue)
			})
		})

		convey.Convey("When ids carry a spreadsheet float suffix", func() {
			writeEventFile(dir, "april.csv",
				"2024-04-01,1,660271.0,543037.0,home_run,2.0,BOS\n")

			events, _, err := statcast.LoadEvents(ctx, filepath.Join(dir, "*.csv"))

			convey.Convey("Then ids normalize to plain integers", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, 1)
				convey.So(events[0].Batter, convey.ShouldEqual, "660271")
				convey.So(events[0].Pitcher, convey.ShouldEqual, "543037")
			})
		})

		convey.Convey("When the glob matches no files", func() {
			_, _, err := statcast.LoadEvents(ctx, filepath.Join(dir, "*.csv"))

			convey.Convey("Then it should report the missing input", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, statcast.ErrNoFiles)
			})
		})

		convey.Convey("When a file is missing a required column", func() {
			path := filepath.Join(dir, "broken.csv")
			content := "game_date,batter,pitcher,events,woba_value,home_team\n" +
				"2024-04-01,B1,P1,single,0.9,BOS\n"
			convey.So(os.WriteFile(path, []byte(content), 0o644), convey.ShouldBeNil)

			_, _, err := statcast.LoadEvents(ctx, filepath.Join(dir, "*.csv"))

			convey.Convey("Then it should name the missing column", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, statcast.ErrMissingColumn)
				convey.So(err.Error(), convey.ShouldContainSubstring, "at_bat_number")
			})
		})

		convey.Convey("When a row carries a non-finite metric", func() {
			writeEventFile(dir, "april.csv",
				"2024-04-01,1,B1,P1,home_run,2.0,BOS\n"+
					"2024-04-01,2,B2,P1,single,NaN,BOS\n")

			_, _, err := statcast.LoadEvents(ctx, filepath.Join(dir, "*.csv"))

			convey.Convey("Then the load rejects the row", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "woba_value")
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			writeEventFile(dir, "april.csv",
				"2024-04-01,1,B1,P1,home_run,2.0,BOS\n")
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, _, err := statcast.LoadEvents(cancelled, filepath.Join(dir, "*.csv"))

			convey.Convey("Then the load stops with the context error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, context.Canceled)
			})
		})

		convey.Convey("When loading many files with bounded concurrency", func() {
			for i := 0; i < 6; i++ {
				writeEventFile(dir, string(rune('a'+i))+".csv",
					"2024-04-0"+string(rune('1'+i))+",1,B1,P1,single,0.9,BOS\n")
			}

			events, stats, err := statcast.LoadEvents(ctx, filepath.Join(dir, "*.csv"),
				statcast.WithConcurrency(2))

			convey.Convey("Then every file contributes one event", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, 6)
				convey.So(stats.Files, convey.ShouldEqual, 6)
				for i := 1; i < len(events); i++ {
					convey.So(events[i-1].GameDate.Before(events[i].GameDate), convey.ShouldBeTrue)
				}
			})
		})
	})
}
