// Package cmd implements the command-line interface for pitchplay.
package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/pitchplay/pitchplay/auth"
	"github.com/pitchplay/pitchplay/icon"
	"github.com/pitchplay/pitchplay/key"
	"github.com/pitchplay/pitchplay/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

// checkResult is one line of the check report. Optional checks never fail the command.
type checkResult struct {
	name     string
	detail   string
	ok       bool
	optional bool
}

// runChecks inspects everything a playback needs before mpv is started.
func runChecks() []checkResult {
	results := make([]checkResult, 0, 4)

	mpv := viper.GetString(key.PlayerMPVPath)
	if path, err := exec.LookPath(mpv); err != nil {
		results = append(results, checkResult{name: "mpv", detail: fmt.Sprintf("%q not found", mpv)})
	} else {
		results = append(results, checkResult{name: "mpv", detail: fmt.Sprintf("%s (%s)", path, mpvVersion()), ok: true})
	}

	endpoint := viper.GetString(key.APIEndpoint)
	if u, err := url.Parse(endpoint); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		results = append(results, checkResult{name: "endpoint", detail: fmt.Sprintf("%q is not an http(s) URL", endpoint)})
	} else {
		results = append(results, checkResult{name: "endpoint", detail: endpoint, ok: true})
	}

	token, err := auth.Credentials()
	switch {
	case err != nil:
		results = append(results, checkResult{name: "credential", detail: err.Error(), optional: true})
	case token == "":
		results = append(results, checkResult{name: "credential", detail: "none, only public pitches will play", ok: true, optional: true})
	default:
		results = append(results, checkResult{name: "credential", detail: mask(token), ok: true, optional: true})
	}

	mode := "adaptive (segments piped to mpv)"
	if !viper.GetBool(key.PlayerAdaptive) {
		mode = "native (mpv loads the stream)"
	}
	results = append(results, checkResult{name: "mode", detail: mode, ok: true, optional: true})

	return results
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that mpv, the endpoint and the credential are ready for playback",
	Run: func(cmd *cobra.Command, args []string) {
		results := runChecks()
		width := lo.Max(lo.Map(results, func(r checkResult, _ int) int { return len(r.name) }))

		for _, r := range results {
			mark := style.Fg(style.Sapphire)(icon.Get(icon.Success))
			if !r.ok {
				mark = style.Fg(style.HiRed)(icon.Get(icon.Fail))
			}
			cmd.Printf("%s %-*s  %s\n", mark, width, r.name, style.Faint(r.detail))
		}

		if lo.ContainsBy(results, func(r checkResult) bool { return !r.ok && !r.optional }) {
			handleErr(errors.New("pitchplay is not ready to play"))
		}
	},
}

// requireMPV exits with install hints when the configured mpv cannot be found.
func requireMPV() {
	mpv := viper.GetString(key.PlayerMPVPath)
	if _, err := exec.LookPath(mpv); err == nil {
		return
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	lines := []string{
		style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s mpv not found", icon.Get(icon.Fail))),
		"",
		fmt.Sprintf("pitchplay plays through mpv, configured as %q.", mpv),
	}
	if hint := installHint(runtime.GOOS); hint != "" {
		lines = append(lines, "", "Install it with "+style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}
	lines = append(lines, "or point "+style.Bold(key.PlayerMPVPath)+" at an existing binary.")

	fmt.Fprintln(os.Stderr, box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	os.Exit(1)
}

func installHint(goos string) string {
	switch goos {
	case "darwin":
		return "brew install mpv"
	case "linux":
		return "sudo apt install mpv"
	case "windows":
		return "scoop install mpv"
	default:
		return ""
	}
}
