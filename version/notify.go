// Package version provides unified mechanisms for application version tracking, update discovery, and compatibility validation.
package version

import (
	"fmt"
	"os"

	"github.com/pitchplay/pitchplay/color"
	"github.com/pitchplay/pitchplay/constant"
	"github.com/pitchplay/pitchplay/icon"
	"github.com/pitchplay/pitchplay/key"
	"github.com/pitchplay/pitchplay/log"
	"github.com/pitchplay/pitchplay/style"
	"github.com/pitchplay/pitchplay/util"
	"github.com/spf13/viper"
)

const releaseTagURL = "https://github.com/pitchplay/pitchplay/releases/tag/v"

// Notify prints a notice to stderr when a newer release exists.
// Nothing is printed when the check is disabled, output is not a terminal, or the check fails.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) || !util.IsTerminal() {
		return
	}

	erase := util.PrintErasable(os.Stderr, fmt.Sprintf("%s Checking for a newer release...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		log.Debugf("version check: %s", err)
		return
	}

	if newer, err := Compare(latest, constant.Version); err != nil || newer <= 0 {
		return
	}

	_, _ = fmt.Fprintf(os.Stderr, "\n%s %s %s\n%s\n\n",
		style.Fg(color.Green)(icon.Get(icon.Mark)),
		style.Bold("pitchplay "+latest+" is available"),
		style.Faint(fmt.Sprintf("(you have %s)", constant.Version)),
		style.Faint(releaseTagURL+latest),
	)
}
