package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/teambalance/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithSizeHint(8))

		Convey("When recording a new id", func() {
			pos, seen := d.SeenAndRecord(ctx, "player-1", 2)

			Convey("Then it is reported as new at its own position", func() {
				So(seen, ShouldBeFalse)
				So(pos, ShouldEqual, 2)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports the first position", func() {
				first, again := d.SeenAndRecord(ctx, "player-1", 9)
				So(again, ShouldBeTrue)
				So(first, ShouldEqual, 2)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When ids differ only by case", func() {
			_, a := d.SeenAndRecord(ctx, "Player", 1)
			_, b := d.SeenAndRecord(ctx, "player", 2)

			Convey("Then they are distinct", func() {
				So(a, ShouldBeFalse)
				So(b, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When recording concurrently", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			newCount := 0
			for i := 0; i < 100; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, seen := d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i%10), i); !seen {
						mu.Lock()
						newCount++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then each id is new exactly once", func() {
				So(newCount, ShouldEqual, 10)
				So(d.Size(), ShouldEqual, 10)
			})
		})
	})
}
