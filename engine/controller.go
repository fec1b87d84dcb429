package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/pitchplay/pitchplay/log"
	"github.com/pitchplay/pitchplay/util"
)

const settleDelay = 250 * time.Millisecond

// NoticeFullscreenUnsupported is shown when the container refuses to change fullscreen state.
const NoticeFullscreenUnsupported = "fullscreen not supported"

// ViewModel is the state the front-end renders.
type ViewModel struct {
	CurrentTime float64
	Duration    float64
	// Volume is in [0, 1].
	Volume       float64
	IsMuted      bool
	IsPlaying    bool
	IsFullscreen bool
	IsLoading    bool

	// Err is the terminal error, if any. ErrorMessage is its text.
	Err          error
	ErrorMessage string

	// Notice is a dismissible, non-fatal message.
	Notice string

	Retries         int
	ControlsVisible bool
}

// ProgressPercent is 0 while the duration is unknown.
func (vm ViewModel) ProgressPercent() float64 {
	if vm.Duration <= 0 || math.IsNaN(vm.Duration) || math.IsInf(vm.Duration, 0) {
		return 0
	}
	return util.Clamp(vm.CurrentTime/vm.Duration*100, 0, 100)
}

func (vm ViewModel) VolumePercent() float64 {
	if vm.IsMuted {
		return 0
	}
	return vm.Volume * 100
}

// CanRetry reports whether a manual retry should be offered.
func (vm ViewModel) CanRetry() bool {
	return Retryable(vm.Err)
}

// FormatTime renders seconds as M:SS.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Controller is the only writer of the surface's volume, mute and position.
type Controller struct {
	e         *Engine
	seeking   bool
	adjusting bool
	settle    timerSlot
	// playRequested is set when the user pressed play before the stream could play.
	playRequested bool
}

// settling reports whether surface feedback should be ignored.
func (c *Controller) settling() bool {
	return c.seeking || c.adjusting
}

func (c *Controller) armSettle() {
	c.settle.arm(settleDelay, func() {
		c.seeking = false
		c.adjusting = false
		c.e.syncFromSurface()
	})
}

func (c *Controller) cancelSettle() {
	c.settle.cancel()
	c.seeking = false
	c.adjusting = false
}

// TogglePlay plays a paused surface and pauses a playing one.
func (c *Controller) TogglePlay() {
	surface, ok := c.e.surface.Get()
	if !ok {
		return
	}

	if !surface.Paused() {
		c.playRequested = false
		if err := surface.Pause(); err != nil {
			log.Warnf("pause: %s", err)
		}
		return
	}

	c.e.play(surface, func(outcome playOutcome) {
		switch outcome.kind {
		case playNotReady:
			log.Debug("play requested before the stream is ready")
			c.playRequested = true
		case playFailed:
			log.Errorf("play: %s", outcome.err)
			c.e.setError(fmt.Errorf("%w: %w", ErrPlaybackFailed, outcome.err))
		}
	})
}

// resumeRequested plays a play request that arrived too early. It reports whether there was one.
func (c *Controller) resumeRequested() bool {
	if !c.playRequested {
		return false
	}
	c.playRequested = false

	if surface, ok := c.e.surface.Get(); ok && surface.Paused() {
		c.TogglePlay()
	}
	return true
}

func (c *Controller) ToggleMute() {
	surface, ok := c.e.surface.Get()
	if !ok {
		return
	}

	muted := !surface.Muted()
	if err := surface.SetMuted(muted); err != nil {
		log.Warnf("mute: %s", err)
		return
	}
	c.e.vm.IsMuted = muted
	c.e.notify()
}

// SetVolume sets the volume in [0, 1]. Zero mutes, anything else unmutes.
func (c *Controller) SetVolume(volume float64) {
	surface, ok := c.e.surface.Get()
	if !ok {
		return
	}

	volume = util.Clamp(volume, 0, 1)
	muted := volume == 0

	c.adjusting = true
	c.armSettle()

	if err := surface.SetVolume(volume); err != nil {
		log.Warnf("volume: %s", err)
	}
	if err := surface.SetMuted(muted); err != nil {
		log.Warnf("mute: %s", err)
	}

	c.e.vm.Volume = volume
	c.e.vm.IsMuted = muted
	c.e.notify()
}

// AdjustVolume changes the volume by delta.
func (c *Controller) AdjustVolume(delta float64) {
	c.SetVolume(c.e.vm.Volume + delta)
}

// Seek moves to seconds, clamped to the known duration. The mute flag is left as it was.
func (c *Controller) Seek(seconds float64) {
	surface, ok := c.e.surface.Get()
	if !ok {
		return
	}

	if math.IsNaN(seconds) {
		return
	}
	seconds = math.Max(seconds, 0)
	if d := c.e.vm.Duration; d > 0 {
		seconds = math.Min(seconds, d)
	}

	muted := c.e.vm.IsMuted

	c.seeking = true
	c.armSettle()

	if err := surface.SetCurrentTime(seconds); err != nil {
		log.Warnf("seek: %s", err)
	}
	if surface.Muted() != muted {
		if err := surface.SetMuted(muted); err != nil {
			log.Warnf("mute: %s", err)
		}
	}

	c.e.vm.CurrentTime = seconds
	c.e.vm.IsMuted = muted
	c.e.notify()
}

// SeekBy seeks relative to the current position.
func (c *Controller) SeekBy(delta float64) {
	c.Seek(c.e.vm.CurrentTime + delta)
}

// ToggleFullscreen enters or leaves fullscreen. Failures only raise a notice.
func (c *Controller) ToggleFullscreen() {
	container, ok := c.e.container.Get()
	if !ok {
		c.notice(NoticeFullscreenUnsupported)
		return
	}

	var err error
	if container.IsFullscreen() {
		err = container.ExitFullscreen()
	} else {
		err = container.RequestFullscreen()
	}

	if err != nil {
		log.Warnf("fullscreen: %s", err)
		c.notice(NoticeFullscreenUnsupported)
	}
}

func (c *Controller) DismissNotice() {
	c.notice("")
}

func (c *Controller) notice(msg string) {
	c.e.vm.Notice = msg
	c.e.notify()
}
