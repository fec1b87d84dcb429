package log

import (
	"bytes"
	"testing"

	"github.com/pitchplay/pitchplay/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestLog(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		enabled = false

		Convey("WithFields returns a usable entry", func() {
			entry := WithFields(Fields{"session": 1})
			So(entry, ShouldNotBeNil)
			So(func() { entry.Info("dropped") }, ShouldNotPanic)
		})
	})

	Convey("Given logging to a buffer", t, func() {
		viper.Set(key.LogsLevel, "debug")
		viper.Set(key.LogsJson, false)
		var buf bytes.Buffer
		So(SetOutput(&buf), ShouldBeNil)
		Reset(func() { enabled = false })

		Convey("Structured fields are written", func() {
			WithFields(Fields{"retry": 2}).Warn("fatal network error")
			So(buf.String(), ShouldContainSubstring, "retry=2")
			So(buf.String(), ShouldContainSubstring, "fatal network error")
		})

		Convey("Debug messages pass the configured level", func() {
			Debugf("segment %d appended", 7)
			So(buf.String(), ShouldContainSubstring, "segment 7 appended")
		})
	})
}
