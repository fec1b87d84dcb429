package hls

// Sink receives media bytes in playback order.
type Sink interface {
	// AcceptsSegments reports whether the sink can take raw segment data.
	AcceptsSegments() bool
	AppendSegment(data []byte) error
	// ResetBuffer discards partially demuxed data so appending can restart cleanly.
	ResetBuffer() error
}

// BackBuffer is implemented by sinks that can bound the media kept behind the playhead.
type BackBuffer interface {
	// RetainBack limits the back buffer to about n bytes.
	RetainBack(n int64) error
}

// IsSupported reports whether v can be driven by a Client.
func IsSupported(v any) bool {
	sink, ok := v.(Sink)
	return ok && sink.AcceptsSegments()
}
