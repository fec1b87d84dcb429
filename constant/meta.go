// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Pitchplay is the canonical application identifier used for filesystem paths and CLI branding.
	Pitchplay = "pitchplay"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the default HTTP User-Agent string used for requests to the stream backend.
	UserAgent = "pitchplay/" + Version
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
