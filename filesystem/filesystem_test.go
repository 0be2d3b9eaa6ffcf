package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackendSwapping(t *testing.T) {
	Convey("Filesystem backends", t, func() {
		Convey("SetMemMapFs should install an in-memory backend", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")

			err := API().WriteFile("/probe.txt", []byte("x"), 0644)
			So(err, ShouldBeNil)

			exists, err := API().Exists("/probe.txt")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Convey("SetOsFs should restore the OS backend", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
			SetMemMapFs()
		})
	})
}
