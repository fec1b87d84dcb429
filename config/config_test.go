package config

import (
	"testing"
	"time"

	"github.com/pitchplay/pitchplay/filesystem"
	"github.com/pitchplay/pitchplay/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Should expose playback defaults", func() {
			_ = Setup()
			So(viper.GetInt(key.PlayerMaxRetries), ShouldEqual, 4)
			So(viper.GetDuration(key.PlayerRetryDelay), ShouldEqual, 4*time.Second)
			So(viper.GetDuration(key.ControlsHideDelay), ShouldEqual, 2*time.Second)
			So(viper.GetInt(key.PlayerAutoplayAttempts), ShouldEqual, 2)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("controls.hide_delay")
			So(result, ShouldEqual, "controls_hide_delay")
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		So(Setup(), ShouldBeNil)
		Reset(func() {
			viper.Set(key.APIEndpoint, "")
			viper.Set(key.PlayerMaxRetries, 4)
			viper.Set(key.ControlsHideDelay, 2*time.Second)
		})

		Convey("An https endpoint is accepted", func() {
			viper.Set(key.APIEndpoint, "https://api.example.com")
			So(Validate(), ShouldBeNil)
		})

		Convey("A non-http endpoint is rejected", func() {
			viper.Set(key.APIEndpoint, "ftp://api.example.com")
			So(Validate(), ShouldNotBeNil)
		})

		Convey("Zero retries are rejected", func() {
			viper.Set(key.PlayerMaxRetries, 0)
			So(Validate(), ShouldNotBeNil)
		})

		Convey("A zero hide delay is rejected", func() {
			viper.Set(key.ControlsHideDelay, time.Duration(0))
			So(Validate(), ShouldNotBeNil)
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.APIEndpoint]

		Convey("Its env name carries the application prefix", func() {
			So(field.Env(), ShouldEqual, "PITCHPLAY_API_ENDPOINT")
		})

		Convey("Durations report their type", func() {
			f := Default[key.ControlsHideDelay]
			So(f.typeName(), ShouldEqual, "duration")
		})
	})
}
