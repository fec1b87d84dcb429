// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts playback right away when an identifier was given, otherwise it waits for one.
func (b *statefulBubble) Init() tea.Cmd {
	if id := b.options.ID; id != "" {
		return b.start(id)
	}

	return textinput.Blink
}
