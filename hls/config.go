package hls

import (
	"net/http"
	"time"

	"github.com/samber/mo"
)

// Config tunes a Client.
type Config struct {
	// EnableWorker fetches segments on background workers ahead of the append position.
	EnableWorker bool

	// Workers bounds concurrent segment downloads when EnableWorker is set.
	Workers int

	// LowLatencyMode reloads live playlists at half the target duration.
	LowLatencyMode bool

	// BackBufferLength is how much already appended media is retained, in seconds.
	BackBufferLength float64

	// RequestHook is called on every manifest, init section and segment request before it is sent.
	RequestHook func(*http.Request)

	HTTPClient *http.Client

	// MaxSegmentRetries is how many times a failed segment download is retried before it becomes fatal.
	MaxSegmentRetries int

	// ManifestTimeout bounds each playlist request.
	ManifestTimeout time.Duration

	// RequestsPerSecond limits requests toward the origin. Zero disables limiting.
	RequestsPerSecond float64

	// StartSequence is the media sequence number loading starts at.
	// When empty, VOD starts at the first segment and live a few segments behind the edge.
	StartSequence mo.Option[uint64]
}

// DefaultConfig returns the configuration the player uses unless overridden.
func DefaultConfig() Config {
	return Config{
		EnableWorker:      true,
		Workers:           3,
		LowLatencyMode:    true,
		BackBufferLength:  90,
		HTTPClient:        http.DefaultClient,
		MaxSegmentRetries: 2,
		ManifestTimeout:   10 * time.Second,
		RequestsPerSecond: 20,
	}
}

func (c Config) workers() int {
	if !c.EnableWorker || c.Workers < 1 {
		return 1
	}
	return c.Workers
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}
