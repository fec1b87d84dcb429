package constant

// Stream endpoint layout - the backend publishes each pitch video as an HLS manifest under this path.
const (
	StreamPath = "elevator-pitch/stream"

	// HLSMimeType is the MIME type probed on media surfaces for native HLS support.
	HLSMimeType = "application/vnd.apple.mpegurl"
)
