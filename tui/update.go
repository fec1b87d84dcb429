// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"strings"

	"github.com/pitchplay/pitchplay/internal/ui"
	"github.com/pitchplay/pitchplay/query"
	"github.com/pitchplay/pitchplay/util"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

const (
	seekStep   = 5.0
	volumeStep = 0.05
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case spinner.TickMsg:
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case ui.ExpiredMsg:
		if b.notifier.Update(msg) && b.player != nil {
			b.player.Engine.Controller().DismissNotice()
			return b, b.afterEngine()
		}
		return b, nil
	case startedMsg:
		if msg.err != nil {
			b.raiseError(msg.err)
			return b, nil
		}
		return b, tea.Batch(b.attach(msg.player), b.afterEngine())
	case loopMsg:
		if msg.player != b.player {
			return b, nil
		}
		msg.fn()
		return b, tea.Batch(b.waitForLoop(), b.afterEngine())
	case mpvExitedMsg:
		if msg.player != b.player {
			return b, nil
		}
		return b, b.reset()
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			b.stop()
			return b, tea.Quit
		}
	}

	switch b.state {
	case inputState:
		return b.updateInput(msg)
	case playingState:
		return b.updatePlaying(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, nil
}

// afterEngine brings the view in line with the view-model after the engine ran.
func (b *statefulBubble) afterEngine() tea.Cmd {
	b.syncState()

	notice := b.vm.Notice
	switch {
	case notice == "" && b.notifier.Text() != "":
		b.notifier.Dismiss()
	case notice != "" && notice != b.notifier.Text():
		return b.notifier.Show(notice)
	}

	return nil
}

// reset stops playback and returns to the identifier prompt.
func (b *statefulBubble) reset() tea.Cmd {
	b.stop()
	b.lastError = nil
	b.setState(inputState)
	b.inputC.Focus()
	return textinput.Blink
}

func (b *statefulBubble) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && strings.TrimSpace(b.inputC.Value()) != "":
			id := strings.TrimSpace(b.inputC.Value())
			b.inputC.SetValue("")
			b.inputC.Blur()
			b.suggestion = mo.None[string]()
			return b, b.start(id)
		case bubblesKey.Matches(msg, b.keymap.acceptSuggestion) && b.suggestion.IsPresent():
			b.inputC.SetValue(b.suggestion.MustGet())
			b.suggestion = mo.None[string]()
			b.inputC.CursorEnd()
			return b, nil
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if b.inputC.Value() != "" {
		if suggestion, ok := query.Suggest(b.inputC.Value()).Get(); ok && suggestion != b.inputC.Value() {
			b.suggestion = mo.Some(suggestion)
		} else {
			b.suggestion = mo.None[string]()
		}
	} else if b.suggestion.IsPresent() {
		b.suggestion = mo.None[string]()
	}

	return b, cmd
}

func (b *statefulBubble) updatePlaying(msg tea.Msg) (tea.Model, tea.Cmd) {
	controller := b.player.Engine.Controller()
	controls := b.player.Engine.Controls()

	switch msg := msg.(type) {
	case tea.FocusMsg:
		controls.Enter()
	case tea.BlurMsg:
		controls.Leave(false)
	case tea.MouseMsg:
		controls.Activity()
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && b.vm.ControlsVisible {
			b.click(msg.X, msg.Y)
		}
	case tea.KeyMsg:
		controls.Activity()

		switch {
		case bubblesKey.Matches(msg, b.keymap.playPause):
			controller.TogglePlay()
		case bubblesKey.Matches(msg, b.keymap.seekBack):
			controller.SeekBy(-seekStep)
		case bubblesKey.Matches(msg, b.keymap.seekForward):
			controller.SeekBy(seekStep)
		case bubblesKey.Matches(msg, b.keymap.volumeUp):
			controller.AdjustVolume(volumeStep)
		case bubblesKey.Matches(msg, b.keymap.volumeDown):
			controller.AdjustVolume(-volumeStep)
		case bubblesKey.Matches(msg, b.keymap.mute):
			controller.ToggleMute()
		case bubblesKey.Matches(msg, b.keymap.fullscreen):
			controller.ToggleFullscreen()
		case bubblesKey.Matches(msg, b.keymap.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
		case bubblesKey.Matches(msg, b.keymap.back):
			return b, b.reset()
		case bubblesKey.Matches(msg, b.keymap.quit):
			b.stop()
			return b, tea.Quit
		}
	default:
		return b, nil
	}

	return b, b.afterEngine()
}

// click seeks or sets the volume when a bar was hit.
func (b *statefulBubble) click(x, y int) {
	controller := b.player.Engine.Controller()

	switch y {
	case paddingTop + seekLine:
		if ratio, ok := barRatio(x, b.seekC.Width); ok && b.vm.Duration > 0 {
			controller.Seek(ratio * b.vm.Duration)
		}
	case paddingTop + volumeLine:
		if ratio, ok := barRatio(x, b.volumeC.Width); ok {
			controller.SetVolume(ratio)
		}
	}
}

// barRatio maps a column to a position along a bar drawn at the left padding.
func barRatio(x, width int) (float64, bool) {
	if width <= 0 || x < paddingLeft || x >= paddingLeft+width {
		return 0, false
	}
	if width == 1 {
		return 0, true
	}
	return util.Clamp(float64(x-paddingLeft)/float64(width-1), 0, 1), true
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.retry) && b.player != nil:
			b.player.Engine.Retry()
			return b, b.afterEngine()
		case bubblesKey.Matches(msg, b.keymap.back):
			return b, b.reset()
		case bubblesKey.Matches(msg, b.keymap.quit):
			b.stop()
			return b, tea.Quit
		}
	}
	return b, nil
}
