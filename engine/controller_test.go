package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/pitchplay/pitchplay/hls"
	"github.com/pitchplay/pitchplay/player"
	. "github.com/smartystreets/goconvey/convey"
)

func TestController(t *testing.T) {
	Convey("Given a loaded stream", t, func() {
		h := newHarness()
		e := h.engine
		e.Mount()
		h.surface.duration = 120
		h.surface.emit(player.EventLoadedMetadata)
		c := e.Controller()

		Convey("Seeking keeps a muted surface muted", func() {
			c.ToggleMute()
			So(e.Snapshot().IsMuted, ShouldBeTrue)

			for _, at := range []float64{0, 10, 59.5, 120} {
				c.Seek(at)
				So(e.Snapshot().IsMuted, ShouldBeTrue)
				So(h.surface.muted, ShouldBeTrue)
			}
		})

		Convey("Seeking is clamped to the duration", func() {
			c.Seek(500)
			So(h.surface.time, ShouldEqual, 120)
			c.Seek(-3)
			So(h.surface.time, ShouldEqual, 0)
			c.SeekBy(5)
			So(e.Snapshot().CurrentTime, ShouldEqual, 5)
		})

		Convey("Volume zero mutes and a positive volume unmutes", func() {
			c.SetVolume(0)
			vm := e.Snapshot()
			So(vm.IsMuted, ShouldBeTrue)
			So(vm.VolumePercent(), ShouldEqual, 0)

			c.SetVolume(0.5)
			vm = e.Snapshot()
			So(vm.IsMuted, ShouldBeFalse)
			So(vm.VolumePercent(), ShouldEqual, 50)
			So(h.surface.volume, ShouldEqual, 0.5)
		})

		Convey("Volume is clamped", func() {
			c.SetVolume(3)
			So(e.Snapshot().Volume, ShouldEqual, 1)
			c.AdjustVolume(-0.25)
			So(e.Snapshot().Volume, ShouldEqual, 0.75)
		})

		Convey("Surface feedback is ignored until a seek settles", func() {
			c.Seek(30)
			h.surface.time = 12
			h.surface.emit(player.EventTimeUpdate)
			So(e.Snapshot().CurrentTime, ShouldEqual, 30)

			h.surface.volume = 0.2
			h.surface.emit(player.EventVolumeChange)
			So(e.Snapshot().Volume, ShouldEqual, 1)

			h.sched.Advance(settleDelay)
			h.surface.time = 31
			h.surface.emit(player.EventTimeUpdate)
			So(e.Snapshot().CurrentTime, ShouldEqual, 31)
			So(e.Snapshot().Volume, ShouldEqual, 0.2)
		})

		Convey("TogglePlay plays and pauses", func() {
			c.TogglePlay()
			So(e.Snapshot().IsPlaying, ShouldBeTrue)
			c.TogglePlay()
			So(e.Snapshot().IsPlaying, ShouldBeFalse)
		})

		Convey("A play blocked by policy is silent", func() {
			h.surface.playErr = player.ErrPlayNotAllowed
			c.TogglePlay()
			So(e.Snapshot().Err, ShouldBeNil)
		})

		Convey("A broken play is shown to the user", func() {
			h.surface.playErr = errors.New("decoder crashed")
			c.TogglePlay()
			vm := e.Snapshot()
			So(errors.Is(vm.Err, ErrPlaybackFailed), ShouldBeTrue)
			So(vm.ErrorMessage, ShouldContainSubstring, "decoder crashed")
			So(vm.CanRetry(), ShouldBeTrue)
		})

		Convey("A failed play is cleared once the surface plays", func() {
			h.surface.playErr = errors.New("decoder crashed")
			c.TogglePlay()
			So(e.Snapshot().Err, ShouldNotBeNil)

			h.surface.playErr = nil
			c.TogglePlay()
			vm := e.Snapshot()
			So(vm.Err, ShouldBeNil)
			So(vm.IsPlaying, ShouldBeTrue)
		})

		Convey("Fullscreen follows the container", func() {
			c.ToggleFullscreen()
			So(e.Snapshot().IsFullscreen, ShouldBeTrue)
			c.ToggleFullscreen()
			So(e.Snapshot().IsFullscreen, ShouldBeFalse)
		})

		Convey("A fullscreen failure raises a dismissible notice and nothing else", func() {
			h.container.err = player.ErrFullscreenUnsupported
			h.factory.last().onManifest(hls.Manifest{})
			c.ToggleFullscreen()

			vm := e.Snapshot()
			So(vm.Notice, ShouldEqual, NoticeFullscreenUnsupported)
			So(vm.Err, ShouldBeNil)
			So(vm.IsPlaying, ShouldBeTrue)

			c.DismissNotice()
			So(e.Snapshot().Notice, ShouldBeEmpty)
		})
	})
}

func TestPlayBeforeReady(t *testing.T) {
	Convey("Given a surface with nothing loaded yet", t, func() {
		h := newHarness()
		e := h.engine
		h.surface.playErr = player.ErrNoMedia
		e.Mount()
		c := e.Controller()

		Convey("Pressing play while loading is not an error", func() {
			c.TogglePlay()
			So(e.Snapshot().Err, ShouldBeNil)
			So(c.playRequested, ShouldBeTrue)

			Convey("And playback starts once the stream can play", func() {
				h.factory.last().onManifest(hls.Manifest{})
				So(e.Snapshot().Err, ShouldBeNil)

				h.surface.playErr = nil
				h.surface.emit(player.EventCanPlay)

				vm := e.Snapshot()
				So(vm.Err, ShouldBeNil)
				So(vm.IsPlaying, ShouldBeTrue)
				So(vm.IsLoading, ShouldBeFalse)
				So(c.playRequested, ShouldBeFalse)
			})
		})

		Convey("Autoplay at the manifest does not spend an attempt", func() {
			h.factory.last().onManifest(hls.Manifest{})
			So(h.surface.plays, ShouldEqual, 1)
			So(e.autoplay.Attempts(), ShouldEqual, 0)

			h.surface.playErr = nil
			h.surface.emit(player.EventCanPlay)
			So(e.Snapshot().IsPlaying, ShouldBeTrue)
			So(e.Snapshot().Err, ShouldBeNil)
		})
	})
}

func TestViewModel(t *testing.T) {
	Convey("Derived values", t, func() {
		So(ViewModel{CurrentTime: 30, Duration: 120}.ProgressPercent(), ShouldEqual, 25)
		So(ViewModel{CurrentTime: 30}.ProgressPercent(), ShouldEqual, 0)
		So(ViewModel{CurrentTime: 30, Duration: math.NaN()}.ProgressPercent(), ShouldEqual, 0)
		So(ViewModel{Volume: 0.4, IsMuted: true}.VolumePercent(), ShouldEqual, 0)
		So(ViewModel{Volume: 0.4}.VolumePercent(), ShouldAlmostEqual, 40, 0.0001)
	})

	Convey("FormatTime", t, func() {
		So(FormatTime(0), ShouldEqual, "0:00")
		So(FormatTime(5), ShouldEqual, "0:05")
		So(FormatTime(65.9), ShouldEqual, "1:05")
		So(FormatTime(3600), ShouldEqual, "60:00")
		So(FormatTime(math.NaN()), ShouldEqual, "0:00")
		So(FormatTime(math.Inf(1)), ShouldEqual, "0:00")
		So(FormatTime(-4), ShouldEqual, "0:00")
	})
}
