// Package style provides a functional API for composing and applying lipgloss-based TUI styles.
package style

import (
	"github.com/pitchplay/pitchplay/color"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// New returns an empty lipgloss.Style used as a foundation for visual composition.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored initializes a new style with the specified foreground and background colors.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a stateless rendering function that applies the specified foreground color to a string.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate cuts a rendered line to max columns, keeping escape sequences intact.
func Truncate(max int) func(string) string {
	return func(s string) string {
		if max <= 0 {
			return s
		}
		return truncate.StringWithTail(s, uint(max), "…")
	}
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a view heading.
var Title = func(s string) string {
	return Colored(color.New("230"), color.New("62")).Padding(0, 1).Render(s)
}

// ErrorTitle renders the heading of the failure view.
var ErrorTitle = func(s string) string {
	return Colored(color.New("230"), color.Red).Padding(0, 1).Render(s)
}
