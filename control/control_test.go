package control

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cadence-player/cadence/input"
)

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		Convey("decodes bare verbs", func() {
			So(Parse("pause").Action, ShouldEqual, input.ActionPause)
			So(Parse("next").Action, ShouldEqual, input.ActionNext)
			So(Parse("prev").Action, ShouldEqual, input.ActionPrev)
			So(Parse("forward").Action, ShouldEqual, input.ActionSeekForward)
			So(Parse("backward").Action, ShouldEqual, input.ActionSeekBackward)
			So(Parse("play").Action, ShouldEqual, input.ActionPlay)
			So(Parse("stop").Action, ShouldEqual, input.ActionStop)
			So(Parse("empty").Action, ShouldEqual, input.ActionClear)
			So(Parse("quit").Action, ShouldEqual, input.ActionQuit)
		})

		Convey("decodes volume with channel and percent", func() {
			cmd := Parse("volume 0 75")
			So(cmd.Err, ShouldBeNil)
			So(cmd.Action, ShouldEqual, input.ActionVolumeSet)
			So(cmd.Channel, ShouldEqual, 0)
			So(cmd.Percent, ShouldEqual, 75)
		})

		Convey("rejects non-numeric volume arguments without panicking", func() {
			cmd := Parse("volume 0 fifty")
			So(cmd.Err, ShouldNotBeNil)
			So(cmd.Action, ShouldEqual, input.ActionNone)
		})

		Convey("rejects out-of-range volume", func() {
			So(Parse("volume 0 150").Err, ShouldNotBeNil)
			So(Parse("volume 0 -5").Err, ShouldNotBeNil)
		})

		Convey("keeps spaces inside add arguments", func() {
			cmd := Parse("add /music/My Favorite Things.mp3")
			So(cmd.Err, ShouldBeNil)
			So(cmd.Action, ShouldEqual, input.ActionAdd)
			So(cmd.Arg, ShouldEqual, "/music/My Favorite Things.mp3")
		})

		Convey("requires an argument for add", func() {
			So(Parse("add").Err, ShouldNotBeNil)
		})

		Convey("decodes macro names", func() {
			cmd := Parse("macro chill")
			So(cmd.Err, ShouldBeNil)
			So(cmd.Action, ShouldEqual, input.ActionMacro)
			So(cmd.Arg, ShouldEqual, "chill")
		})

		Convey("ignores unknown verbs silently", func() {
			cmd := Parse("teleport home")
			So(cmd.Err, ShouldBeNil)
			So(cmd.Action, ShouldEqual, input.ActionNone)
		})

		Convey("ignores blank lines", func() {
			So(Parse("   ").Action, ShouldEqual, input.ActionNone)
		})
	})
}
