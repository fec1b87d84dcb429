// Package ui provides state management and rendering for dismissible terminal notices.
package ui

import (
	"strings"
	"time"

	"github.com/pitchplay/pitchplay/color"
	"github.com/pitchplay/pitchplay/style"
	tea "github.com/charmbracelet/bubbletea"
)

// Lifetime is how long a notice stays on screen before it expires.
const Lifetime = 3 * time.Second

// Model holds at most one notice.
type Model struct {
	text string
	seq  int
}

// ExpiredMsg is sent when a notice outlives Lifetime.
// It carries the sequence of the notice it belongs to so a replaced notice never clears its successor.
type ExpiredMsg struct {
	seq int
}

// Show replaces the current notice and returns the command that expires it.
func (m *Model) Show(text string) tea.Cmd {
	m.seq++
	m.text = text
	seq := m.seq
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ExpiredMsg{seq: seq}
	})
}

// Dismiss clears the notice.
func (m *Model) Dismiss() {
	m.text = ""
}

// Text returns the notice shown, or an empty string.
func (m *Model) Text() string {
	return m.text
}

// Update clears the notice when msg is its expiry. It reports whether the notice was cleared.
func (m *Model) Update(msg tea.Msg) bool {
	expired, ok := msg.(ExpiredMsg)
	if !ok || expired.seq != m.seq || m.text == "" {
		return false
	}
	m.Dismiss()
	return true
}

// View appends the notice to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.text == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	notice := style.Fg(color.Yellow)(m.text)
	lines[len(lines)-1] = lines[len(lines)-1] + "  " + notice
	return strings.Join(lines, "\n")
}
