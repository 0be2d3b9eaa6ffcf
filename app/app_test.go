package app

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/cadence-player/cadence/backend"
	"github.com/cadence-player/cadence/config"
	"github.com/cadence-player/cadence/control"
	"github.com/cadence-player/cadence/filesystem"
	"github.com/cadence-player/cadence/input"
	"github.com/cadence-player/cadence/key"
	"github.com/cadence-player/cadence/ui"
)

// fakeRunner records spawns instead of forking players.
type fakeRunner struct {
	spawns  [][]string
	running bool
	started time.Time
}

func (f *fakeRunner) Spawn(argv []string) error {
	f.spawns = append(f.spawns, argv)
	f.running = true
	f.started = time.Now()
	return nil
}

func (f *fakeRunner) Stop() { f.running = false }

func (f *fakeRunner) TogglePause() bool { return false }

func (f *fakeRunner) Paused() bool { return false }

func (f *fakeRunner) Running() bool { return f.running }

func (f *fakeRunner) StartedAt() time.Time { return f.started }

func newTestPlayer() (*Player, *fakeRunner) {
	filesystem.SetMemMapFs()
	So(config.Setup(), ShouldBeNil)
	viper.Set(key.PlaybackBackends, []string{
		`mpg123 -q -v -k {offset} {file} :: \.mp3$ :: frame :: 1`,
	})

	fs := filesystem.API()
	So(fs.WriteFile("/music/a.mp3", []byte("a"), 0o644), ShouldBeNil)
	So(fs.WriteFile("/music/b.mp3", []byte("b"), 0o644), ShouldBeNil)

	runner := &fakeRunner{}
	p := New(runner)

	_, err := p.AddPath("/music/a.mp3")
	So(err, ShouldBeNil)
	_, err = p.AddPath("/music/b.mp3")
	So(err, ShouldBeNil)
	return p, runner
}

func TestPlayback(t *testing.T) {
	Convey("playing", t, func() {
		p, runner := newTestPlayer()

		Convey("spawns the matching backend from the start", func() {
			p.play()
			So(runner.spawns, ShouldHaveLength, 1)
			So(runner.spawns[0], ShouldResemble,
				[]string{"mpg123", "-q", "-v", "-k", "0", "/music/a.mp3"})
			So(p.Playlist.Active().Path, ShouldEqual, "/music/a.mp3")
		})

		Convey("reports a missing backend as a transient status", func() {
			var messages []string
			p.Callbacks.OnStatusChanged = func(_ ui.State, msg string, transient bool) {
				if transient {
					messages = append(messages, msg)
				}
			}
			p.Playlist.Add("/music/c.xyz")
			p.playTrack(p.Playlist.Tracks()[2])
			So(messages, ShouldNotBeEmpty)
			So(runner.spawns, ShouldBeEmpty)
		})
	})

	Convey("a track finishing", t, func() {
		p, runner := newTestPlayer()
		p.play()

		finish := func() {
			runner.running = false
			runner.started = time.Now().Add(-time.Minute)
			p.pollPlayer()
		}

		Convey("advances to the next track", func() {
			finish()
			So(runner.spawns, ShouldHaveLength, 2)
			So(p.Playlist.Active().Path, ShouldEqual, "/music/b.mp3")
		})

		Convey("stops at the end of the playlist", func() {
			finish()
			finish()
			So(runner.spawns, ShouldHaveLength, 2)
			So(p.playing(), ShouldBeFalse)
		})

		Convey("stops after each track when the flag is set", func() {
			p.Playlist.ToggleStopAfter()
			finish()
			So(runner.spawns, ShouldHaveLength, 1)
			So(p.playing(), ShouldBeFalse)
		})

		Convey("inside the grace window it respawns instead", func() {
			runner.running = false
			p.pollPlayer()
			So(runner.spawns, ShouldHaveLength, 2)
			So(p.Playlist.Active().Path, ShouldEqual, "/music/a.mp3")
		})

		Convey("zeroes the displayed position", func() {
			last := backend.Position{Elapsed: -1}
			p.Callbacks.OnPositionChanged = func(pos backend.Position) { last = pos }
			So(p.session.Consume([]byte("Time: 01:00.00 [03:20.00]")), ShouldBeTrue)

			finish()
			So(last, ShouldResemble, backend.Position{})
		})
	})

	Convey("stopping", t, func() {
		p, _ := newTestPlayer()
		p.play()
		p.session.Consume([]byte("Time: 01:00.00 [03:20.00]"))

		Convey("zeroes the displayed position", func() {
			last := backend.Position{Elapsed: -1}
			p.Callbacks.OnPositionChanged = func(pos backend.Position) { last = pos }
			p.stop()
			So(last, ShouldResemble, backend.Position{})
		})
	})
}

func TestQuietBackendProgress(t *testing.T) {
	Convey("a backend that prints nothing", t, func() {
		filesystem.SetMemMapFs()
		So(config.Setup(), ShouldBeNil)
		viper.Set(key.PlaybackBackends, []string{
			`mikmod -q -p0 {file} :: \.mod$ :: none :: 1`,
		})
		So(filesystem.API().WriteFile("/music/chip.mod", []byte("m"), 0o644), ShouldBeNil)

		runner := &fakeRunner{}
		p := New(runner)
		_, err := p.AddPath("/music/chip.mod")
		So(err, ShouldBeNil)

		var last backend.Position
		p.Callbacks.OnPositionChanged = func(pos backend.Position) { last = pos }
		p.play()
		So(runner.spawns, ShouldHaveLength, 1)

		Convey("still animates one tick per second", func() {
			now := time.Now()
			p.Scheduler.Tick(now.Add(progressEvery + time.Millisecond))
			So(last.Elapsed, ShouldEqual, 1)

			p.Scheduler.Tick(now.Add(2*progressEvery + time.Millisecond))
			So(last.Elapsed, ShouldEqual, 2)
			So(last.Total, ShouldEqual, 4)
		})

		Convey("stops ticking once the session is replaced", func() {
			p.stop()
			last = backend.Position{Elapsed: -1}
			p.Scheduler.Tick(time.Now().Add(progressEvery + time.Millisecond))
			So(last.Elapsed, ShouldEqual, -1)
		})
	})
}

func TestWaitPriority(t *testing.T) {
	Convey("a wake with several ready sources", t, func() {
		p, runner := newTestPlayer()

		keys := make(chan input.Key, 1)
		remote := make(chan control.Command, 1)
		p.SetKeySource(keys)
		p.SetRemoteSource(remote)

		// A stop keystroke racing a remote play: the keystroke must win,
		// leaving the remote play as the last word.
		keys <- 'v'
		remote <- control.Parse("play")

		Convey("services the keystroke first no matter which source won", func() {
			p.wait()
			p.drain()
			So(runner.spawns, ShouldHaveLength, 1)
			So(p.playing(), ShouldBeTrue)
		})
	})
}

func TestSeekDebounce(t *testing.T) {
	Convey("held seek keys", t, func() {
		p, runner := newTestPlayer()
		p.play()
		p.session.Consume([]byte("Time: 00:00.00 [03:20.00]"))

		Convey("respawn once, at the final offset", func() {
			p.seek(1)
			p.seek(1)
			p.seek(1)
			So(runner.spawns, ShouldHaveLength, 1)

			p.Scheduler.Tick(time.Now().Add(p.seekDebounce + time.Millisecond))
			So(runner.spawns, ShouldHaveLength, 2)
			// Steps of 0.4, 0.8 and 1.2 seconds land at 2.4.
			So(runner.spawns[1], ShouldResemble,
				[]string{"mpg123", "-q", "-v", "-k", "2", "/music/a.mp3"})
		})

		Convey("keep re-arming while keys arrive", func() {
			p.seek(1)
			p.Scheduler.Tick(time.Now().Add(p.seekDebounce / 2))
			p.seek(1)
			So(runner.spawns, ShouldHaveLength, 1)

			p.Scheduler.Tick(time.Now().Add(2 * p.seekDebounce))
			So(runner.spawns, ShouldHaveLength, 2)
		})

		Convey("do nothing for a session replaced before the timer fired", func() {
			p.seek(1)
			p.advance(1)
			So(runner.spawns, ShouldHaveLength, 2)

			p.Scheduler.Tick(time.Now().Add(2 * p.seekDebounce))
			So(runner.spawns, ShouldHaveLength, 2)
		})
	})
}

func TestRestricted(t *testing.T) {
	Convey("restricted mode", t, func() {
		p, _ := newTestPlayer()
		p.SetRestricted(true)

		var messages []string
		p.Callbacks.OnStatusChanged = func(_ ui.State, msg string, transient bool) {
			if transient {
				messages = append(messages, msg)
			}
		}

		Convey("blocks the mixer", func() {
			p.Do(input.Event{Action: input.ActionVolumeUp}, "", -1, 0)
			So(messages, ShouldContain, "Restricted mode")
		})

		Convey("blocks playlist writes", func() {
			p.Do(input.Event{Action: input.ActionSavePlaylist}, "", -1, 0)
			So(messages, ShouldContain, "Restricted mode")
			exists, _ := filesystem.API().Exists("cadence.m3u")
			So(exists, ShouldBeFalse)
		})
	})
}

func TestRemoteAndMacros(t *testing.T) {
	Convey("remote commands", t, func() {
		p, runner := newTestPlayer()

		Convey("drive the transport", func() {
			p.sourceRemote(control.Parse("play"), true)
			So(runner.spawns, ShouldHaveLength, 1)

			p.sourceRemote(control.Parse("next"), true)
			So(p.Playlist.Active().Path, ShouldEqual, "/music/b.mp3")
		})

		Convey("surface malformed arguments without failing", func() {
			var messages []string
			p.Callbacks.OnStatusChanged = func(_ ui.State, msg string, transient bool) {
				if transient {
					messages = append(messages, msg)
				}
			}
			p.sourceRemote(control.Parse("volume 0 fifty"), true)
			So(messages, ShouldHaveLength, 1)
			So(p.quit, ShouldBeFalse)
		})
	})

	Convey("macros", t, func() {
		p, runner := newTestPlayer()
		viper.Set("macros.launch", "play; next")

		Convey("expand to their command sequence", func() {
			p.runMacro("launch")
			So(runner.spawns, ShouldHaveLength, 2)
			So(p.Playlist.Active().Path, ShouldEqual, "/music/b.mp3")
		})

		Convey("unknown names yield a transient status", func() {
			var messages []string
			p.Callbacks.OnStatusChanged = func(_ ui.State, msg string, transient bool) {
				if transient {
					messages = append(messages, msg)
				}
			}
			p.runMacro("nope")
			So(messages, ShouldContain, "No macro named nope")
		})
	})
}

func TestAddPath(t *testing.T) {
	Convey("AddPath", t, func() {
		p, _ := newTestPlayer()
		base := p.Playlist.Len()

		Convey("adds URLs verbatim without a stat", func() {
			n, err := p.AddPath("http://radio.example/stream.mp3")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})

		Convey("walks directories and keeps only playable files", func() {
			fs := filesystem.API()
			So(fs.WriteFile("/albums/x/1.mp3", []byte("x"), 0o644), ShouldBeNil)
			So(fs.WriteFile("/albums/x/2.mp3", []byte("x"), 0o644), ShouldBeNil)
			So(fs.WriteFile("/albums/x/cover.jpg", []byte("x"), 0o644), ShouldBeNil)

			n, err := p.AddPath("/albums")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			So(p.Playlist.Len(), ShouldEqual, base+2)
		})

		Convey("loads playlist files and remembers them for saving", func() {
			fs := filesystem.API()
			So(fs.WriteFile("/lists/mix.m3u", []byte("/music/a.mp3\n/music/b.mp3\n"), 0o644), ShouldBeNil)

			n, err := p.AddPath("/lists/mix.m3u")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			So(p.savePath, ShouldEqual, "/lists/mix.m3u")
		})

		Convey("rejects files no backend claims", func() {
			fs := filesystem.API()
			So(fs.WriteFile("/music/notes.txt", []byte("x"), 0o644), ShouldBeNil)
			_, err := p.AddPath("/music/notes.txt")
			So(err, ShouldNotBeNil)
		})
	})
}
