package tui

import (
	"errors"
	"testing"

	"github.com/pitchplay/pitchplay/engine"
	"github.com/pitchplay/pitchplay/launch"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBarRatio(t *testing.T) {
	Convey("Given a bar ten columns wide", t, func() {
		Convey("The first column is the start", func() {
			ratio, ok := barRatio(paddingLeft, 10)
			So(ok, ShouldBeTrue)
			So(ratio, ShouldEqual, 0)
		})

		Convey("The last column is the end", func() {
			ratio, ok := barRatio(paddingLeft+9, 10)
			So(ok, ShouldBeTrue)
			So(ratio, ShouldEqual, 1)
		})

		Convey("Columns outside the bar miss it", func() {
			_, ok := barRatio(paddingLeft-1, 10)
			So(ok, ShouldBeFalse)
			_, ok = barRatio(paddingLeft+10, 10)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestKeymap(t *testing.T) {
	Convey("Given the keymap", t, func() {
		k := newStatefulKeymap()

		Convey("The prompt offers play and suggestions", func() {
			k.setState(inputState)
			So(k.ShortHelp(), ShouldContain, k.confirm)
			So(k.ShortHelp(), ShouldContain, k.acceptSuggestion)
		})

		Convey("The player lists every transport control in full help", func() {
			k.setState(playingState)
			full := k.FullHelp()[0]
			So(full, ShouldContain, k.playPause)
			So(full, ShouldContain, k.volumeUp)
			So(full, ShouldContain, k.fullscreen)
		})

		Convey("The failure view offers retry", func() {
			k.setState(errorState)
			So(k.ShortHelp(), ShouldContain, k.retry)
		})
	})
}

func TestBubble(t *testing.T) {
	Convey("Given a fresh bubble", t, func() {
		b := newBubble(&Options{})

		Convey("It starts at the prompt", func() {
			So(b.state, ShouldEqual, inputState)
			So(b.View(), ShouldContainSubstring, "Play Pitch")
		})

		Convey("A failed launch shows the failure view without retry", func() {
			_, _ = b.Update(startedMsg{err: errors.New("mpv not found")})
			So(b.state, ShouldEqual, errorState)
			So(b.keymap.retry.Enabled(), ShouldBeFalse)
			So(b.View(), ShouldContainSubstring, "mpv not found")

			Convey("Esc goes back to the prompt", func() {
				_, _ = b.Update(tea.KeyMsg{Type: tea.KeyEsc})
				So(b.state, ShouldEqual, inputState)
			})
		})

		Convey("A notice on the view-model is shown and cleared", func() {
			b.vm = engine.ViewModel{Notice: engine.NoticeFullscreenUnsupported}
			So(b.afterEngine(), ShouldNotBeNil)
			So(b.notifier.Text(), ShouldEqual, engine.NoticeFullscreenUnsupported)

			b.vm.Notice = ""
			So(b.afterEngine(), ShouldBeNil)
			So(b.notifier.Text(), ShouldBeEmpty)
		})

		Convey("Messages from a stopped player are ignored", func() {
			ran := false
			stale := &launch.Player{ID: "p1"}
			_, cmd := b.Update(loopMsg{fn: func() { ran = true }, player: stale})
			So(ran, ShouldBeFalse)
			So(cmd, ShouldBeNil)

			_, cmd = b.Update(mpvExitedMsg{player: stale})
			So(cmd, ShouldBeNil)
			So(b.state, ShouldEqual, inputState)
		})
	})
}
