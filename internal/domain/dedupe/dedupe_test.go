package dedupe_test

import (
	"context"
	"sync"
	"testing"

	"github.com/malcolmgaynor/MLB-ELO/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When a key is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "2025-04-01|12|b|p|single|0.9|NYY")

			Convey("Then it reports newly recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the same key again reports already seen", func() {
				So(d.SeenAndRecord(ctx, "2025-04-01|12|b|p|single|0.9|NYY"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When keys differ on any column", func() {
			So(d.SeenAndRecord(ctx, "2025-04-01|12|b|p|single|0.9|NYY"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "2025-04-01|12|b|p|single|0.9|BOS"), ShouldBeFalse)

			Convey("Then both are recorded", func() {
				So(d.Size(), ShouldEqual, 2)
			})
		})
	})
}

func TestSizeHint(t *testing.T) {
	Convey("Given a deduper with a size hint", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithSizeHint(100_000))

		Convey("Then it behaves identically", func() {
			So(d.SeenAndRecord(context.Background(), "k"), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), "k"), ShouldBeTrue)
		})
	})
}

func TestConcurrentAccess(t *testing.T) {
	Convey("Given concurrent recorders hitting overlapping keys", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		const workers = 8
		const keys = 500

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < keys; i++ {
					d.SeenAndRecord(ctx, string(rune('a'+i%26))+"-key")
				}
			}()
		}
		wg.Wait()

		Convey("Then each distinct key is recorded exactly once", func() {
			So(d.Size(), ShouldEqual, 26)
		})
	})
}
