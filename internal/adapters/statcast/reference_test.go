package statcast_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/malcolmgaynor/MLB-ELO/internal/adapters/statcast"
	"github.com/smartystreets/goconvey/convey"
)

func writeCSV(dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		panic(err)
	}
	return path
}

func TestLoadParkFactors(t *testing.T) {
	convey.Convey("Given a park factor table", t, func() {
		dir := t.TempDir()

		convey.Convey("When the table is well formed", func() {
			path := writeCSV(dir, "parks.csv",
				"Team,Park Factor\nBOS,104\nNYY,100\nSEA,97\n")

			parks, err := statcast.LoadParkFactors(path)

			convey.Convey("Then percentages become multipliers", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(parks, convey.ShouldHaveLength, 3)
				convey.So(parks["BOS"], convey.ShouldAlmostEqual, 1.04)
				convey.So(parks["NYY"], convey.ShouldAlmostEqual, 1.0)
				convey.So(parks["SEA"], convey.ShouldAlmostEqual, 0.97)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := statcast.LoadParkFactors(filepath.Join(dir, "missing.csv"))

			convey.Convey("Then it should report missing reference data", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, statcast.ErrMissingReferenceData)
			})
		})

		convey.Convey("When the factor column is absent", func() {
			path := writeCSV(dir, "parks.csv", "Team,Factor\nBOS,104\n")

			_, err := statcast.LoadParkFactors(path)

			convey.Convey("Then it should name the missing column", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, statcast.ErrMissingColumn)
			})
		})

		convey.Convey("When a factor is not numeric", func() {
			path := writeCSV(dir, "parks.csv", "Team,Park Factor\nBOS,high\n")

			_, err := statcast.LoadParkFactors(path)

			convey.Convey("Then it should fail rather than guess", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the table has a header but no rows", func() {
			path := writeCSV(dir, "parks.csv", "Team,Park Factor\n")

			_, err := statcast.LoadParkFactors(path)

			convey.Convey("Then it should report missing reference data", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, statcast.ErrMissingReferenceData)
			})
		})
	})
}

func TestLoadPlayerIDMap(t *testing.T) {
	convey.Convey("Given a player id map", t, func() {
		dir := t.TempDir()

		convey.Convey("When rows are complete", func() {
			path := writeCSV(dir, "idmap.csv",
				"MLBID,MLBNAME,TEAM,FANGRAPHSNAME\n"+
					"660271,Shohei Ohtani,LAD,Shohei Ohtani\n"+
					"545361.0,Mike Trout,LAA,Mike Trout\n")

			players, err := statcast.LoadPlayerIDMap(path)

			convey.Convey("Then ids key the map, floats normalized", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(players, convey.ShouldHaveLength, 2)
				convey.So(players["660271"].Name, convey.ShouldEqual, "Shohei Ohtani")
				convey.So(players["545361"].Team, convey.ShouldEqual, "LAA")
				convey.So(players["545361"].FangraphsName, convey.ShouldEqual, "Mike Trout")
			})
		})

		convey.Convey("When a row lacks an id or a Fangraphs name", func() {
			path := writeCSV(dir, "idmap.csv",
				"MLBID,MLBNAME,TEAM,FANGRAPHSNAME\n"+
					",Nameless,BOS,Nameless\n"+
					"123,Joinless,BOS,\n"+
					"456,Kept,BOS,Kept\n")

			players, err := statcast.LoadPlayerIDMap(path)

			convey.Convey("Then incomplete rows are skipped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(players, convey.ShouldHaveLength, 1)
				convey.So(players["456"].Name, convey.ShouldEqual, "Kept")
			})
		})
	})
}

func TestLoadBenchmarks(t *testing.T) {
	convey.Convey("Given external benchmark tables", t, func() {
		dir := t.TempDir()

		convey.Convey("When loading a batter table", func() {
			path := writeCSV(dir, "wrc.csv",
				"Name,WRC+,PA\n"+
					"Shohei Ohtani,180,650\n"+
					"Part Timer,95,120\n"+
					"No Value,,300\n")

			marks, err := statcast.LoadBatterBenchmarks(path)

			convey.Convey("Then rows with missing values are skipped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(marks, convey.ShouldHaveLength, 2)
				convey.So(marks["Shohei Ohtani"].Value, convey.ShouldAlmostEqual, 180)
				convey.So(marks["Shohei Ohtani"].Volume, convey.ShouldAlmostEqual, 650)
				convey.So(marks["Part Timer"].Volume, convey.ShouldAlmostEqual, 120)
			})
		})

		convey.Convey("When loading a pitcher table", func() {
			path := writeCSV(dir, "era.csv",
				"Name,ERA-,IP\n"+
					"Ace Arm,70,190.1\n"+
					"Swing Man,110,60.2\n")

			marks, err := statcast.LoadPitcherBenchmarks(path)

			convey.Convey("Then value and volume carry through", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(marks["Ace Arm"].Value, convey.ShouldAlmostEqual, 70)
				convey.So(marks["Ace Arm"].Volume, convey.ShouldAlmostEqual, 190.1)
				convey.So(marks["Swing Man"].Volume, convey.ShouldAlmostEqual, 60.2)
			})
		})

		convey.Convey("When the table is a batter table but pitcher columns are requested", func() {
			path := writeCSV(dir, "wrc.csv", "Name,WRC+,PA\nSomeone,100,400\n")

			_, err := statcast.LoadPitcherBenchmarks(path)

			convey.Convey("Then the missing column is reported", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, statcast.ErrMissingColumn)
			})
		})
	})
}
