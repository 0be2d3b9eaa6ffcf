package mixer

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cadence-player/cadence/config"
	"github.com/cadence-player/cadence/filesystem"
)

func testMixer() (*Mixer, *[][]string) {
	filesystem.SetMemMapFs()
	_ = config.Setup()

	var calls [][]string
	m := New()
	m.run = func(argv []string) error {
		calls = append(calls, argv)
		return nil
	}
	return m, &calls
}

func TestMixer(t *testing.T) {
	Convey("Mixer", t, func() {
		m, calls := testMixer()

		Convey("renders the command template", func() {
			So(m.Set(75), ShouldBeNil)
			So(*calls, ShouldResemble, [][]string{
				{"amixer", "-q", "set", "Master", "75%"},
			})
			So(m.Level(), ShouldEqual, 75)
		})

		Convey("clamps the level to 0-100", func() {
			So(m.Set(150), ShouldBeNil)
			So(m.Level(), ShouldEqual, 100)

			So(m.Set(-20), ShouldBeNil)
			So(m.Level(), ShouldEqual, 0)
		})

		Convey("cues relative to the current level", func() {
			So(m.Set(50), ShouldBeNil)
			So(m.Cue(CueStep), ShouldBeNil)
			So(m.Level(), ShouldEqual, 55)
			So(m.Cue(-2*CueStep), ShouldBeNil)
			So(m.Level(), ShouldEqual, 45)
		})

		Convey("cycles through configured channels and wraps", func() {
			So(m.Channel(), ShouldEqual, "Master")
			So(m.Cycle(), ShouldEqual, "PCM")
			So(m.Cycle(), ShouldEqual, "Master")
		})

		Convey("keeps one level per channel", func() {
			So(m.Set(80), ShouldBeNil)
			m.Cycle()
			So(m.Level(), ShouldEqual, 50)
			So(m.Set(30), ShouldBeNil)
			m.Cycle()
			So(m.Level(), ShouldEqual, 80)
		})

		Convey("rejects unknown channel indexes", func() {
			So(m.SetChannel(7, 50), ShouldNotBeNil)
			So(*calls, ShouldBeEmpty)
		})
	})
}
