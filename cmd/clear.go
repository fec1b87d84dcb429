// Package cmd implements the command-line interface for pitchplay.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pitchplay/pitchplay/icon"
	"github.com/pitchplay/pitchplay/util"
	"github.com/pitchplay/pitchplay/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is a file or directory the clear command can remove.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"watch history", "history", mo.Some("s"), where.History},
	{"identifier suggestions", "queries", mo.Some("q"), where.Queries},
	{"temporary files", "temp", mo.Some("t"), where.Temp},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}

	clearCmd.Flags().BoolP("all", "a", false, "clear everything above")
}

// clearCmd removes cached and generated files.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached and generated files",
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))

		selected := lo.Filter(clearTargets, func(target clearTarget, _ int) bool {
			return all || lo.Must(cmd.Flags().GetBool(target.argLong))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range selected {
			erase := util.PrintErasable(os.Stdout, fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := util.Delete(target.location())
			erase()
			if !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}

			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}
	},
}
