// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Backend API - these keys locate the stream backend.
const (
	APIEndpoint = "api.endpoint"
)

// Media Playback - these keys tune the playback engine's recovery and autoplay behavior.
const (
	PlayerMaxRetries       = "player.max_retries"
	PlayerRetryDelay       = "player.retry_delay"
	PlayerAutoplayAttempts = "player.autoplay_attempts"
	PlayerAdaptive         = "player.adaptive"
	PlayerMPVPath          = "player.mpv_path"
)

// Controls Overlay - these keys configure the idle-timeout visibility of transport controls.
const (
	ControlsHideDelay = "controls.hide_delay"
)

// Adaptive Streaming - these keys configure the built-in HLS client.
const (
	HLSWorkers           = "hls.workers"
	HLSLowLatency        = "hls.low_latency"
	HLSBackBuffer        = "hls.back_buffer"
	HLSSegmentRetries    = "hls.segment_retries"
	HLSRequestsPerSecond = "hls.requests_per_second"
)

// Network - these keys tune the shared HTTP client.
const (
	NetworkImpersonateTLS = "network.impersonate_tls"
)

// History Tracking - these keys configure the persistence of recently played pitches.
const (
	HistorySave = "history.save"
)

// Search Interaction - these keys define the identifier prompt behavior.
const (
	SearchShowSuggestions = "search.show_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
