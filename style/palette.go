// Package style provides a functional API for composing and applying lipgloss-based TUI styles.
package style

import "github.com/charmbracelet/lipgloss"

// Palette defines the application's color scheme.
var (
	Text     = lipgloss.Color("#cdd6f4")
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Sapphire = lipgloss.Color("#74c7ec")
	Blue     = lipgloss.Color("#89b4fa")

	AccentColor = Mauve
	HiRed       = Red
)

// Player bars. The seek bar fades from SeekFrom at the start to SeekTo at the playhead.
var (
	SeekFrom   = string(Sapphire)
	SeekTo     = string(Mauve)
	VolumeFill = string(Blue)
	MutedFill  = string(Peach)
)
