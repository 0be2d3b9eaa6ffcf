package playlist

import (
	"testing"

	"github.com/cadence-player/cadence/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestLoadM3u(t *testing.T) {
	Convey("Given an m3u file with comments and relative entries", t, func() {
		content := "# playlist\n\nsong one.mp3\n/music/two.ogg\nhttp://radio.example/stream\n"
		So(filesystem.API().WriteFile("/lists/mix.m3u", []byte(content), 0644), ShouldBeNil)

		p := New()
		So(p.Load("/lists/mix.m3u"), ShouldBeNil)

		Convey("Entries resolve against the playlist directory", func() {
			So(p.Len(), ShouldEqual, 3)
			So(p.Tracks()[0].Path, ShouldEqual, "/lists/song one.mp3")
			So(p.Tracks()[1].Path, ShouldEqual, "/music/two.ogg")
			So(p.Tracks()[2].Path, ShouldEqual, "http://radio.example/stream")
		})
	})
}

func TestLoadPls(t *testing.T) {
	Convey("Given a pls file", t, func() {
		content := "[playlist]\nNumberOfEntries=2\nFile1=/music/a.mp3\nTitle1=A\nFile2=b.mp3\n"
		So(filesystem.API().WriteFile("/lists/set.pls", []byte(content), 0644), ShouldBeNil)

		p := New()
		So(p.Load("/lists/set.pls"), ShouldBeNil)

		Convey("Only File<N> lines become tracks", func() {
			So(p.Len(), ShouldEqual, 2)
			So(p.Tracks()[0].Path, ShouldEqual, "/music/a.mp3")
			So(p.Tracks()[1].Path, ShouldEqual, "/lists/b.mp3")
		})
	})
}

func TestSaveRoundTrip(t *testing.T) {
	Convey("Save writes one path per line that Load reads back", t, func() {
		p := New()
		p.Add("/music/a.mp3")
		p.Add("/music/b.ogg")
		So(p.Save("/lists/out.m3u"), ShouldBeNil)

		reloaded := New()
		So(reloaded.Load("/lists/out.m3u"), ShouldBeNil)
		So(reloaded.Len(), ShouldEqual, 2)
		So(reloaded.Tracks()[1].Path, ShouldEqual, "/music/b.ogg")
	})
}

func TestIsPlaylistFile(t *testing.T) {
	Convey("IsPlaylistFile recognizes m3u and pls, case-insensitively", t, func() {
		So(IsPlaylistFile("a.m3u"), ShouldBeTrue)
		So(IsPlaylistFile("a.PLS"), ShouldBeTrue)
		So(IsPlaylistFile("a.mp3"), ShouldBeFalse)
	})
}
