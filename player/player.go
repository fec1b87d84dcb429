// Package player defines the media surface abstraction the playback engine drives.
// The primary implementation targets 'mpv' via its JSON-IPC interface.
package player

import "errors"

// Event names a media surface notification.
type Event string

const (
	EventTimeUpdate       Event = "timeupdate"
	EventLoadedMetadata   Event = "loadedmetadata"
	EventCanPlay          Event = "canplay"
	EventVolumeChange     Event = "volumechange"
	EventPlay             Event = "play"
	EventPause            Event = "pause"
	EventEnded            Event = "ended"
	EventError            Event = "error"
	EventFullscreenChange Event = "fullscreenchange"
)

var (
	// ErrPlayNotAllowed is returned by Play when playback requires an explicit user action.
	ErrPlayNotAllowed = errors.New("play not allowed without user interaction")

	// ErrNoMedia is returned by Play when nothing is loaded.
	ErrNoMedia = errors.New("no media loaded")

	// ErrFullscreenUnsupported is returned by containers that cannot change fullscreen state.
	ErrFullscreenUnsupported = errors.New("fullscreen not supported")
)

// Surface is a playable media element.
// Getters report the last known state and never block on the backend.
type Surface interface {
	Paused() bool
	// Play requests playback. It may block until the backend answers and
	// must not be called from the engine loop directly.
	Play() error
	Pause() error

	Muted() bool
	SetMuted(muted bool) error

	// Volume is in [0, 1].
	Volume() float64
	SetVolume(volume float64) error

	// CurrentTime and Duration are in seconds. Duration is 0 while unknown.
	CurrentTime() float64
	SetCurrentTime(seconds float64) error
	Duration() float64

	// CanPlayType returns "", "maybe" or "probably", like its browser namesake.
	CanPlayType(mime string) string

	// SetSource loads url natively, sending headers with every request.
	SetSource(url string, headers map[string]string) error

	// On registers fn for ev. Handlers may run on any goroutine.
	// The returned function removes the handler and is safe to call more than once.
	On(ev Event, fn func()) (off func())
}

// Container hosts a surface and can take it fullscreen.
type Container interface {
	RequestFullscreen() error
	ExitFullscreen() error
	IsFullscreen() bool
	OnFullscreenChange(fn func(fullscreen bool)) (off func())
}
