package history

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cadence-player/cadence/filesystem"
)

// reset gives every branch a fresh in-memory store: the in-memory
// filesystem and the lazily-built cacher over it.
func reset() {
	filesystem.SetMemMapFs()
	cacher = nil
}

func TestHistory(t *testing.T) {
	Convey("History", t, func() {
		reset()

		Convey("starts empty", func() {
			records, err := Get()
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})

		Convey("accumulates play counts per path", func() {
			So(Save("Artist - Song", "/music/song.mp3", 120, 200), ShouldBeNil)
			So(Save("Artist - Song", "/music/song.mp3", 200, 200), ShouldBeNil)

			records, err := Get()
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)

			record := records["/music/song.mp3"]
			So(record.PlayCount, ShouldEqual, 2)
			So(record.LastOffset, ShouldEqual, 200)
			So(record.Length, ShouldEqual, 200)
			So(record.LastPlayed.IsZero(), ShouldBeFalse)
		})

		Convey("keeps separate records per path", func() {
			So(Save("A", "/music/a.mp3", 10, 100), ShouldBeNil)
			So(Save("B", "/music/b.mp3", 20, 100), ShouldBeNil)

			records, err := Get()
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 2)
		})

		Convey("removes records", func() {
			So(Save("A", "/music/a.mp3", 10, 100), ShouldBeNil)
			So(Remove("/music/a.mp3"), ShouldBeNil)

			records, err := Get()
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})
	})
}
