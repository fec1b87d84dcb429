// Package cmd implements the command-line interface for pitchplay.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pitchplay/pitchplay/engine"
	"github.com/pitchplay/pitchplay/filesystem"
	"github.com/pitchplay/pitchplay/icon"
	"github.com/pitchplay/pitchplay/launch"
	"github.com/pitchplay/pitchplay/log"
	"github.com/pitchplay/pitchplay/query"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// playStatus is the machine readable playback state written by the play command.
type playStatus struct {
	ID          string  `json:"id" jsonschema:"description=Pitch identifier"`
	Source      string  `json:"source" jsonschema:"description=Resolved stream URL"`
	CurrentTime float64 `json:"current_time" jsonschema:"description=Playback position in seconds"`
	Duration    float64 `json:"duration" jsonschema:"description=Media duration in seconds or 0 while unknown"`
	Volume      float64 `json:"volume" jsonschema:"minimum=0,maximum=1"`
	Muted       bool    `json:"muted"`
	Playing     bool    `json:"playing"`
	Fullscreen  bool    `json:"fullscreen"`
	Loading     bool    `json:"loading"`
	Retries     int     `json:"retries" jsonschema:"description=Automatic reloads of the current source"`
	Error       string  `json:"error,omitempty"`
	Notice      string  `json:"notice,omitempty"`
}

func newPlayStatus(id, source string, vm engine.ViewModel) playStatus {
	return playStatus{
		ID:          id,
		Source:      source,
		CurrentTime: vm.CurrentTime,
		Duration:    vm.Duration,
		Volume:      vm.Volume,
		Muted:       vm.IsMuted,
		Playing:     vm.IsPlaying,
		Fullscreen:  vm.IsFullscreen,
		Loading:     vm.IsLoading,
		Retries:     vm.Retries,
		Error:       vm.ErrorMessage,
		Notice:      vm.Notice,
	}
}

// phase is the part of the status that is reported without throttling.
func (s playStatus) phase() string {
	return fmt.Sprintf("%t|%t|%t|%t|%d|%s|%s", s.Playing, s.Loading, s.Muted, s.Fullscreen, s.Retries, s.Error, s.Notice)
}

// statusWriter reports status changes. Position-only changes are throttled.
type statusWriter struct {
	out       io.Writer
	json      bool
	sometimes rate.Sometimes
	last      string
}

func newStatusWriter(out io.Writer, asJSON bool) *statusWriter {
	return &statusWriter{
		out:       out,
		json:      asJSON,
		sometimes: rate.Sometimes{Interval: time.Second},
	}
}

func (w *statusWriter) write(status playStatus) {
	phase := status.phase()
	changed := phase != w.last
	w.last = phase

	emit := func() {
		if w.json {
			lo.Must0(json.NewEncoder(w.out).Encode(status))
			return
		}
		_, _ = fmt.Fprintln(w.out, w.line(status))
	}

	switch {
	case changed:
		emit()
	case w.json:
		w.sometimes.Do(emit)
	}
}

func (w *statusWriter) line(s playStatus) string {
	switch {
	case s.Error != "":
		return fmt.Sprintf("%s %s", icon.Get(icon.Fail), s.Error)
	case s.Notice != "":
		return fmt.Sprintf("%s %s", icon.Get(icon.Mark), s.Notice)
	case s.Loading && s.Retries > 0:
		return fmt.Sprintf("%s loading %s (attempt %d)", icon.Get(icon.Retry), s.ID, s.Retries+1)
	case s.Loading:
		return fmt.Sprintf("%s loading %s", icon.Get(icon.Progress), s.ID)
	case s.Playing:
		return fmt.Sprintf("%s playing %s", icon.Get(icon.Play), s.ID)
	default:
		return fmt.Sprintf("%s paused %s", icon.Get(icon.Pause), s.ID)
	}
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("json", "j", false, "Stream playback state as JSON lines")
	playCmd.Flags().StringP("output", "o", "", "Write the final playback state to a file")

	playCmd.SetOut(os.Stdout)
}

// playCmd plays a pitch in mpv without the terminal interface.
var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Play a pitch in mpv without the terminal interface",
	Long: `Play a pitch in mpv and report its state on standard output.
The command returns when the mpv window is closed or on interrupt.`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			asJSON = lo.Must(cmd.Flags().GetBool("json"))
			output = lo.Must(cmd.Flags().GetString("output"))
		)

		requireMPV()

		p, err := launch.New(args[0])
		handleErr(err)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		writer := newStatusWriter(cmd.OutOrStdout(), asJSON)
		p.Engine.OnChange(func(vm engine.ViewModel) {
			writer.write(newPlayStatus(p.ID, p.Engine.Source(), vm))
		})

		go func() {
			<-p.Surface.Wait()
			cancel()
		}()

		p.Loop.Post(p.Engine.Mount)
		if err := p.Loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error(err)
		}

		final := newPlayStatus(p.ID, p.Engine.Source(), p.Engine.Snapshot())
		if err := p.Close(); err != nil {
			log.Warnf("saving history: %s", err)
		}

		if output != "" {
			data, err := json.MarshalIndent(final, "", "  ")
			handleErr(err)
			handleErr(filesystem.WriteAtomic(output, data))
		}
	},
}

func init() {
	playCmd.AddCommand(playSchemaCmd)
}

// playSchemaCmd prints the JSON schema of the playback state.
var playSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the playback state",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.DoNotReference = true

		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect(&playStatus{})))
	},
}
