// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"fmt"

	"github.com/pitchplay/pitchplay/constant"
	"github.com/pitchplay/pitchplay/engine"
	"github.com/pitchplay/pitchplay/internal/ui"
	"github.com/pitchplay/pitchplay/launch"
	"github.com/pitchplay/pitchplay/style"
	"github.com/pitchplay/pitchplay/util"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
)

// statefulBubble owns the running player. Functions posted to the player's loop run inside Update,
// so the engine is only touched from the Bubble Tea goroutine.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	seekC     progress.Model
	volumeC   progress.Model
	helpC     help.Model
	notifier  *ui.Model
	lastError error

	player *launch.Player
	ctx    context.Context
	cancel context.CancelFunc
	vm     engine.ViewModel

	width, height int
	suggestion    mo.Option[string]

	options *Options
}

// raiseError dispatches an error that happened outside the engine and shows the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.keymap.retry.SetEnabled(false)
	b.setState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// syncState follows the view-model: a terminal error shows the failure view, anything else the player.
func (b *statefulBubble) syncState() {
	if b.player == nil {
		return
	}

	b.keymap.retry.SetEnabled(b.vm.CanRetry())
	if b.vm.IsMuted {
		b.volumeC.FullColor = style.MutedFill
	} else {
		b.volumeC.FullColor = style.VolumeFill
	}
	if b.vm.Err != nil {
		b.lastError = b.vm.Err
		b.setState(errorState)
	} else {
		b.setState(playingState)
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	b.seekC.Width = b.width
	b.volumeC.Width = min(b.width, volumeBarWidth)
	b.inputC.Width = b.width
	b.helpC.Width = b.width
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options) *statefulBubble {
	bubble := statefulBubble{
		keymap:   newStatefulKeymap(),
		notifier: &ui.Model{},
		options:  options,
		vm:       engine.ViewModel{Volume: 1},
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Pitch ID (v%s)", constant.Version)
	bubble.inputC.CharLimit = 120
	bubble.inputC.Prompt = "> "

	bubble.seekC = progress.New(progress.WithGradient(style.SeekFrom, style.SeekTo), progress.WithoutPercentage())
	bubble.volumeC = progress.New(progress.WithSolidFill(style.VolumeFill), progress.WithoutPercentage())

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(inputState)
	bubble.inputC.Focus()

	return &bubble
}
