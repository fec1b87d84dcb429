package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestWriteAtomic(t *testing.T) {
	Convey("Given an in-memory backend", t, func() {
		SetMemMapFs()

		Convey("WriteAtomic replaces the file and leaves no temporary behind", func() {
			So(WriteAtomic("/state.json", []byte("one")), ShouldBeNil)
			So(WriteAtomic("/state.json", []byte("two")), ShouldBeNil)

			data, err := API().ReadFile("/state.json")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "two")

			exists, _ := API().Exists("/state.json.tmp")
			So(exists, ShouldBeFalse)
		})
	})
}
