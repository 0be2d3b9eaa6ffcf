package input

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTranslate(t *testing.T) {
	Convey("Translate", t, func() {
		Convey("maps the transport row", func() {
			So(Translate('z').Action, ShouldEqual, ActionPrev)
			So(Translate('x').Action, ShouldEqual, ActionPlay)
			So(Translate('c').Action, ShouldEqual, ActionPause)
			So(Translate('v').Action, ShouldEqual, ActionStop)
			So(Translate('b').Action, ShouldEqual, ActionNext)
		})

		Convey("maps arrows to seeks and volume", func() {
			So(Translate(KeyLeft).Action, ShouldEqual, ActionSeekBackward)
			So(Translate(KeyRight).Action, ShouldEqual, ActionSeekForward)
			So(Translate(KeyUp).Action, ShouldEqual, ActionVolumeUp)
			So(Translate(KeyDown).Action, ShouldEqual, ActionVolumeDown)
		})

		Convey("maps digits to volume levels", func() {
			So(Translate('3'), ShouldResemble, Event{Action: ActionVolumeSet, Value: 30})
			So(Translate('9'), ShouldResemble, Event{Action: ActionVolumeSet, Value: 90})
			So(Translate('0'), ShouldResemble, Event{Action: ActionVolumeSet, Value: 100})
		})

		Convey("quits on q and on a raw-mode interrupt", func() {
			So(Translate('q').Action, ShouldEqual, ActionQuit)
			So(Translate('\x03').Action, ShouldEqual, ActionQuit)
		})

		Convey("leaves unbound keys inert", func() {
			So(Translate('~').Action, ShouldEqual, ActionNone)
		})
	})
}

func TestKeys(t *testing.T) {
	Convey("Keys", t, func() {
		Convey("decodes plain bytes and escape sequences", func() {
			ch := Keys(strings.NewReader("q\x1b[Cx"))

			var got []Key
			for k := range ch {
				got = append(got, k)
			}
			So(got, ShouldResemble, []Key{'q', KeyRight, 'x'})
		})

		Convey("closes on EOF", func() {
			ch := Keys(strings.NewReader(""))
			_, open := <-ch
			So(open, ShouldBeFalse)
		})
	})
}
