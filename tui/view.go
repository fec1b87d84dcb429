// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/pitchplay/pitchplay/color"
	"github.com/pitchplay/pitchplay/engine"
	"github.com/pitchplay/pitchplay/icon"
	"github.com/pitchplay/pitchplay/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

// Layout of the player view. Mouse clicks are resolved against these rows.
const (
	paddingTop  = 1
	paddingLeft = 2

	seekLine       = 4
	volumeLine     = 7
	volumeBarWidth = 30
)

var paddingStyle = lipgloss.NewStyle().Padding(paddingTop, paddingLeft)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case inputState:
		output = b.viewInput()
	case loadingState:
		output = b.viewLoading()
	case playingState:
		output = b.viewPlaying()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewInput() string {
	lines := []string{
		style.Title("Play Pitch"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.suggestion.Get(); ok {
		lines = append(lines, "", style.Faint(fmt.Sprintf("%s %s", icon.Get(icon.Question), suggestion)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " Starting mpv...",
		},
	)
}

func (b *statefulBubble) viewPlaying() string {
	vm := b.vm

	status := icon.Get(icon.Pause) + " Paused"
	if vm.IsPlaying {
		status = icon.Get(icon.Play) + " Playing"
	}
	if vm.IsLoading {
		status = b.spinnerC.View() + " Loading"
		if vm.Retries > 0 {
			status += style.Faint(fmt.Sprintf(" (attempt %d)", vm.Retries+1))
		}
	}

	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(fmt.Sprintf("%s %s", style.Fg(color.Purple)(b.playerID()), status)),
		"",
	}

	if !vm.ControlsVisible {
		lines = append(lines, style.Faint("Move the mouse or press a key to show the controls"))
		return b.renderLines(true, lines)
	}

	volumeIcon := icon.Get(icon.Volume)
	if vm.IsMuted {
		volumeIcon = icon.Get(icon.Muted)
	}

	position := fmt.Sprintf("%s / %s", engine.FormatTime(vm.CurrentTime), engine.FormatTime(vm.Duration))
	if vm.IsFullscreen {
		position += "  " + icon.Get(icon.Fullscreen)
	}

	lines = append(lines,
		b.seekC.ViewAs(vm.ProgressPercent()/100),
		style.Faint(position),
		"",
		b.volumeC.ViewAs(vm.Volume),
		fmt.Sprintf("%s %3.0f%%", volumeIcon, vm.VolumePercent()),
	)

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	message := "unknown error"
	if b.lastError != nil {
		message = b.lastError.Error()
	}
	if b.player != nil && b.vm.ErrorMessage != "" {
		message = b.vm.ErrorMessage
	}

	errorStyle := lipgloss.NewStyle().Foreground(color.Red).Bold(true)
	body := wrap.String(errorStyle.Render(message), b.width)

	lines := []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Playback failed:",
		"",
		body,
	}

	if b.keymap.retry.Enabled() {
		lines = append(lines, "", icon.Get(icon.Retry)+" Press r to try again")
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) playerID() string {
	if b.player == nil {
		return ""
	}
	return b.player.ID
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
