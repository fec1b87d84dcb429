package hls

import (
	"errors"
	"fmt"
)

// ErrorType classifies a streaming failure.
type ErrorType string

const (
	NetworkError ErrorType = "networkError"
	MediaError   ErrorType = "mediaError"
	OtherError   ErrorType = "otherError"
)

// Error details.
const (
	ManifestLoadError    = "manifestLoadError"
	ManifestParsingError = "manifestParsingError"
	LevelLoadError       = "levelLoadError"
	LevelEmptyError      = "levelEmptyError"
	FragLoadError        = "fragLoadError"
	BufferAppendError    = "bufferAppendError"
	AttachMediaError     = "attachMediaError"
)

// ErrorData is passed to error listeners.
// Fatal errors stop loading; the client recovers from the rest on its own.
type ErrorData struct {
	Type    ErrorType
	Details string
	Fatal   bool
	Err     error
}

func (e ErrorData) Error() string {
	kind := "non-fatal"
	if e.Fatal {
		kind = "fatal"
	}
	return fmt.Sprintf("%s %s (%s): %v", kind, e.Type, e.Details, e.Err)
}

func (e ErrorData) Unwrap() error {
	return e.Err
}

var (
	ErrNoMedia   = errors.New("no media attached")
	ErrDestroyed = errors.New("client destroyed")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}
