package engine

import (
	"errors"

	"github.com/pitchplay/pitchplay/log"
	"github.com/pitchplay/pitchplay/player"
)

const DefaultAutoplayAttempts = 2

// Autoplay starts playback on its own once a session is ready, a bounded number of times.
// The count is reset only by a real play event.
type Autoplay struct {
	e        *Engine
	max      int
	attempts int
}

// Attempt tries to start a paused surface.
func (a *Autoplay) Attempt() {
	surface, ok := a.e.surface.Get()
	if !ok || !surface.Paused() || a.attempts >= a.max {
		return
	}

	a.attempts++
	if err := surface.SetMuted(false); err != nil {
		log.Warnf("autoplay: unmute: %s", err)
	}
	a.e.vm.IsMuted = false

	a.e.play(surface, func(outcome playOutcome) {
		switch outcome.kind {
		case playBlocked:
			log.Debug("autoplay blocked until the user starts playback")
		case playNotReady:
			// Nothing was loaded yet, so the attempt does not count.
			if a.attempts > 0 {
				a.attempts--
			}
		case playFailed:
			log.Warnf("autoplay: %s", outcome.err)
		}
	})
}

// Reset allows new attempts.
func (a *Autoplay) Reset() {
	a.attempts = 0
}

func (a *Autoplay) Attempts() int {
	return a.attempts
}

type playKind int

const (
	playOK playKind = iota
	playBlocked
	playNotReady
	playFailed
)

// playOutcome tells a policy rejection or a surface that has nothing loaded yet apart from a real failure.
type playOutcome struct {
	kind playKind
	err  error
}

func classifyPlay(err error) playOutcome {
	switch {
	case err == nil:
		return playOutcome{kind: playOK}
	case errors.Is(err, player.ErrPlayNotAllowed):
		return playOutcome{kind: playBlocked, err: err}
	case errors.Is(err, player.ErrNoMedia):
		return playOutcome{kind: playNotReady, err: err}
	default:
		return playOutcome{kind: playFailed, err: err}
	}
}
