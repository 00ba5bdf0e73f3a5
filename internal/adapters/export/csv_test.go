package export_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/malcolmgaynor/MLB-ELO/internal/adapters/export"
	"github.com/malcolmgaynor/MLB-ELO/internal/adapters/statcast"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/normalize"
	"github.com/smartystreets/goconvey/convey"
)

func readCSV(path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		panic(err)
	}
	return records
}

func TestWriteRatings(t *testing.T) {
	convey.Convey("Given a normalized rating table", t, func() {
		dir := t.TempDir()
		result := &normalize.Result{
			Rows: []normalize.Row{
				{
					PlayerID: "B1", Rating: 1490, Appearances: 10,
					RatingAdjusted: 1490, Index: 99.3333,
					MinShifted: 0, MinShiftedIndex: 0,
				},
				{
					PlayerID: "B3", Rating: 1520, Appearances: 3,
					RatingAdjusted: 1520, Index: 101.3333,
					MinShifted: 30, MinShiftedIndex: 385.7142,
					AnchoredIndex: 160, HasAnchor: true, Qualified: true,
				},
				{
					PlayerID: "B2", Rating: 1500, Appearances: 5,
					RatingAdjusted: 1500, Index: 100,
					MinShifted: 10, MinShiftedIndex: 128.5714,
				},
			},
		}

		convey.Convey("When writing with a player info join", func() {
			path := filepath.Join(dir, "out", "batters.csv")
			players := map[string]statcast.PlayerInfo{
				"B3": {Name: "Slugger", Team: "BOS"},
			}

			err := export.WriteRatings(path, result, export.WithPlayerInfo(players))

			convey.Convey("Then rows are sorted by rating descending", func() {
				convey.So(err, convey.ShouldBeNil)
				records := readCSV(path)
				convey.So(records, convey.ShouldHaveLength, 4)
				convey.So(records[1][0], convey.ShouldEqual, "B3")
				convey.So(records[2][0], convey.ShouldEqual, "B2")
				convey.So(records[3][0], convey.ShouldEqual, "B1")
			})

			convey.Convey("Then mapped players carry name and team", func() {
				convey.So(err, convey.ShouldBeNil)
				records := readCSV(path)
				convey.So(records[1][1], convey.ShouldEqual, "Slugger")
				convey.So(records[1][2], convey.ShouldEqual, "BOS")
				convey.So(records[2][1], convey.ShouldEqual, "")
			})

			convey.Convey("Then anchored index is blank without an anchor", func() {
				convey.So(err, convey.ShouldBeNil)
				records := readCSV(path)
				convey.So(records[1][9], convey.ShouldEqual, "160.0000")
				convey.So(records[2][9], convey.ShouldEqual, "")
			})

			convey.Convey("Then the original row order is untouched", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(result.Rows[0].PlayerID, convey.ShouldEqual, "B1")
			})
		})

		convey.Convey("When writing without a player info join", func() {
			path := filepath.Join(dir, "plain.csv")

			err := export.WriteRatings(path, result)

			convey.Convey("Then id and numeric columns still export", func() {
				convey.So(err, convey.ShouldBeNil)
				records := readCSV(path)
				convey.So(records[1][0], convey.ShouldEqual, "B3")
				convey.So(records[1][3], convey.ShouldEqual, "1520.0000")
				convey.So(records[1][4], convey.ShouldEqual, "3")
				convey.So(records[3][7], convey.ShouldEqual, "0.0000")
			})
		})

		convey.Convey("When the result is empty", func() {
			err := export.WriteRatings(filepath.Join(dir, "empty.csv"), &normalize.Result{})

			convey.Convey("Then it should refuse to write", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, export.ErrNoRows)
			})
		})

		convey.Convey("When two players share a rating", func() {
			tied := &normalize.Result{
				Rows: []normalize.Row{
					{PlayerID: "Z", Rating: 1500},
					{PlayerID: "A", Rating: 1500},
				},
			}
			path := filepath.Join(dir, "tied.csv")

			err := export.WriteRatings(path, tied)

			convey.Convey("Then the id breaks the tie", func() {
				convey.So(err, convey.ShouldBeNil)
				records := readCSV(path)
				convey.So(records[1][0], convey.ShouldEqual, "A")
				convey.So(records[2][0], convey.ShouldEqual, "Z")
			})
		})
	})
}
