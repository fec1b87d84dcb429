package where

import (
	"path/filepath"
	"testing"

	"github.com/pitchplay/pitchplay/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours the override variable", func() {
			t.Setenv(EnvConfigPath, filepath.Join("custom", "pitchplay"))
			So(Config(), ShouldEqual, filepath.Join("custom", "pitchplay"))
		})

		Convey("Logs() lives under Config()", func() {
			path := Logs()
			So(filepath.Dir(path), ShouldEqual, Config())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("History() is a file path", func() {
			So(filepath.Base(History()), ShouldEqual, "history.json")
		})
	})
}
