// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"

	"github.com/pitchplay/pitchplay/engine"
	"github.com/pitchplay/pitchplay/launch"
	"github.com/pitchplay/pitchplay/log"
	tea "github.com/charmbracelet/bubbletea"
)

type startedMsg struct {
	player *launch.Player
	err    error
}

// loopMsg carries one function taken off the player's loop.
type loopMsg struct {
	player *launch.Player
	fn     func()
}

type mpvExitedMsg struct {
	player *launch.Player
}

// start launches mpv for id off the Bubble Tea goroutine.
func (b *statefulBubble) start(id string) tea.Cmd {
	b.setState(loadingState)
	b.lastError = nil

	launchCmd := func() tea.Msg {
		p, err := launch.New(id)
		return startedMsg{player: p, err: err}
	}

	return tea.Batch(launchCmd, b.spinnerC.Tick)
}

// attach adopts a started player and mounts its engine.
func (b *statefulBubble) attach(p *launch.Player) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	b.player = p
	b.ctx = ctx
	b.cancel = cancel
	b.vm = p.Engine.Snapshot()

	p.Engine.OnChange(func(vm engine.ViewModel) {
		b.vm = vm
	})
	p.Engine.Mount()
	b.syncState()

	return tea.Batch(b.waitForLoop(), b.waitForExit(p))
}

func (b *statefulBubble) waitForLoop() tea.Cmd {
	ctx, p := b.ctx, b.player
	return func() tea.Msg {
		fn, err := p.Loop.Next(ctx)
		if err != nil {
			return nil
		}
		return loopMsg{player: p, fn: fn}
	}
}

func (b *statefulBubble) waitForExit(p *launch.Player) tea.Cmd {
	return func() tea.Msg {
		<-p.Surface.Wait()
		return mpvExitedMsg{player: p}
	}
}

// stop tears the player down and records it in history.
func (b *statefulBubble) stop() {
	if b.player == nil {
		return
	}

	b.cancel()
	if err := b.player.Close(); err != nil {
		log.Warnf("saving history: %s", err)
	}

	b.player = nil
	b.ctx = nil
	b.cancel = nil
	b.vm = engine.ViewModel{Volume: 1}
	b.notifier.Dismiss()
}
