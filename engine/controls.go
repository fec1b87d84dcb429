package engine

import "time"

const DefaultHideDelay = 2000 * time.Millisecond

// ControlsState is the visibility of the control overlay.
type ControlsState int

const (
	VisibleIdle ControlsState = iota
	VisibleInteracting
	Hidden
)

func (s ControlsState) String() string {
	switch s {
	case VisibleIdle:
		return "visible-idle"
	case VisibleInteracting:
		return "visible-interacting"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Controls hides the overlay after a period without activity during playback.
// It does not look at streaming health.
type Controls struct {
	state ControlsState
	// interacting is set between Enter and Leave, whatever the state.
	interacting bool
	playing     bool
	delay       time.Duration
	hide        timerSlot
	changed     func()
}

func newControls(sched Scheduler, delay time.Duration, changed func()) *Controls {
	return &Controls{
		delay:   delay,
		hide:    timerSlot{sched: sched},
		changed: changed,
	}
}

func (c *Controls) State() ControlsState {
	return c.state
}

func (c *Controls) Visible() bool {
	return c.state != Hidden
}

// Activity records pointer or key activity outside the overlay.
func (c *Controls) Activity() {
	if c.interacting {
		c.set(VisibleInteracting)
		return
	}
	c.set(VisibleIdle)
	c.armIfPlaying()
}

// Enter records the pointer or focus moving onto the overlay.
func (c *Controls) Enter() {
	c.interacting = true
	c.hide.cancel()
	c.set(VisibleInteracting)
}

// Leave records the pointer or focus leaving the overlay.
// stillInside is true when focus moved to another element of the overlay.
func (c *Controls) Leave(stillInside bool) {
	if stillInside || !c.interacting {
		return
	}
	c.interacting = false
	c.set(VisibleIdle)
	c.armIfPlaying()
}

// SetPlaying follows the playing flag. Stopping always shows the overlay.
func (c *Controls) SetPlaying(playing bool) {
	c.playing = playing

	if !playing {
		c.hide.cancel()
		c.set(VisibleIdle)
		return
	}

	if c.interacting {
		c.set(VisibleInteracting)
		return
	}
	if c.state == VisibleIdle && !c.hide.pending() {
		c.armIfPlaying()
	}
}

// Close cancels the hide timer.
func (c *Controls) Close() {
	c.hide.cancel()
}

func (c *Controls) HidePending() bool {
	return c.hide.pending()
}

func (c *Controls) armIfPlaying() {
	if !c.playing || c.interacting {
		c.hide.cancel()
		return
	}
	c.hide.arm(c.delay, func() {
		if c.state == VisibleIdle && c.playing && !c.interacting {
			c.set(Hidden)
		}
	})
}

func (c *Controls) set(state ControlsState) {
	if c.state == state {
		return
	}
	c.state = state
	if c.changed != nil {
		c.changed()
	}
}
