package engine

import "errors"

var (
	ErrSourceMissing     = errors.New("source missing")
	ErrPlayerUnavailable = errors.New("player unavailable")
	ErrNotSupported      = errors.New("playback not supported")
	ErrRetriesExhausted  = errors.New("video failed to load")
	ErrPlaybackFailed    = errors.New("playback failed")
)

// Retryable reports whether a manual retry can help after err.
func Retryable(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, ErrSourceMissing),
		errors.Is(err, ErrPlayerUnavailable),
		errors.Is(err, ErrNotSupported):
		return false
	default:
		return true
	}
}
