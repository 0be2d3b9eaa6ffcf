//go:build !windows

package proc

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSupervisor(t *testing.T) {
	Convey("Supervisor", t, func() {
		s, err := NewSupervisor()
		So(err, ShouldBeNil)
		defer s.Close()

		Convey("rejects executables that are not on PATH", func() {
			err := s.Spawn([]string{"cadence-no-such-player-xyzzy"})
			So(errors.Is(err, ErrPlayerNotFound), ShouldBeTrue)
			So(s.Running(), ShouldBeFalse)
		})

		Convey("relays child output through its long lived pipe", func() {
			So(s.Spawn([]string{"sh", "-c", "echo marker"}), ShouldBeNil)

			buf := make([]byte, 64)
			n, err := s.Stdout().Read(buf)
			So(err, ShouldBeNil)
			So(string(buf[:n]), ShouldEqual, "marker\n")
		})

		Convey("observes the child exiting on its own", func() {
			So(s.Spawn([]string{"true"}), ShouldBeNil)

			deadline := time.Now().Add(2 * time.Second)
			for s.Running() && time.Now().Before(deadline) {
				time.Sleep(10 * time.Millisecond)
			}
			So(s.Running(), ShouldBeFalse)
		})

		Convey("stops a long running child", func() {
			So(s.Spawn([]string{"sleep", "60"}), ShouldBeNil)
			So(s.Running(), ShouldBeTrue)

			s.Stop()
			So(s.Running(), ShouldBeFalse)

			Convey("and a second stop is harmless", func() {
				s.Stop()
				So(s.Running(), ShouldBeFalse)
			})
		})

		Convey("toggles suspension of the child group", func() {
			So(s.Spawn([]string{"sleep", "60"}), ShouldBeNil)

			So(s.TogglePause(), ShouldBeTrue)
			So(s.Paused(), ShouldBeTrue)
			So(s.Running(), ShouldBeTrue)

			So(s.TogglePause(), ShouldBeFalse)
			So(s.Paused(), ShouldBeFalse)

			s.Stop()
		})

		Convey("pause without a player is a no-op", func() {
			So(s.TogglePause(), ShouldBeFalse)
		})

		Convey("spawning replaces the previous child", func() {
			So(s.Spawn([]string{"sleep", "60"}), ShouldBeNil)
			first := s.StartedAt()

			So(s.Spawn([]string{"sleep", "60"}), ShouldBeNil)
			So(s.StartedAt().After(first) || s.StartedAt().Equal(first), ShouldBeTrue)
			So(s.Running(), ShouldBeTrue)

			s.Stop()
		})
	})
}
