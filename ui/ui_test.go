package ui

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cadence-player/cadence/backend"
)

func TestProgress(t *testing.T) {
	Convey("Progress", t, func() {
		Convey("is the elapsed fraction", func() {
			So(Progress(backend.Position{Elapsed: 50, Total: 200}), ShouldEqual, 0.25)
		})

		Convey("never reaches completion", func() {
			So(Progress(backend.Position{Elapsed: 200, Total: 200}), ShouldEqual, 0.99)
			So(Progress(backend.Position{Elapsed: 500, Total: 200}), ShouldEqual, 0.99)
		})

		Convey("is zero without a known length", func() {
			So(Progress(backend.Position{Elapsed: 10}), ShouldEqual, 0)
		})
	})
}

func TestView(t *testing.T) {
	Convey("View", t, func() {
		v := New(&strings.Builder{})

		Convey("counts elapsed time by default", func() {
			c := v.Counter(backend.Position{Elapsed: 83, Total: 200})
			So(c, ShouldEqual, "00:01:23 / 00:03:20")
		})

		Convey("counts remaining time after a toggle", func() {
			So(v.ToggleCounter(), ShouldBeTrue)
			c := v.Counter(backend.Position{Elapsed: 83, Total: 200})
			So(c, ShouldEqual, "-00:01:57 / 00:03:20")

			Convey("and toggles back", func() {
				So(v.ToggleCounter(), ShouldBeFalse)
			})
		})

		Convey("status line names the transport state", func() {
			So(v.StatusLine(Playing, "song"), ShouldContainSubstring, "Playing: song")
			So(v.StatusLine(Paused, "song"), ShouldContainSubstring, "Paused: song")
			So(v.StatusLine(Stopped, "song"), ShouldContainSubstring, "Stopped: song")
		})

		Convey("draw repaints in place, println advances", func() {
			var out strings.Builder
			v := New(&out)

			v.Draw("position")
			So(out.String(), ShouldEqual, "\r\x1b[Kposition")

			out.Reset()
			v.Println("status")
			So(out.String(), ShouldEqual, "\r\x1b[Kstatus\r\n")
		})
	})
}
