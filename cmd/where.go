// Package cmd implements the command-line interface for pitchplay.
package cmd

import (
	"encoding/json"
	"os"

	"github.com/pitchplay/pitchplay/color"
	"github.com/pitchplay/pitchplay/style"
	"github.com/pitchplay/pitchplay/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// location is a path pitchplay reads or writes. Internal locations are only printed on request.
type location struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	flag     string
	short    string
	internal bool
	resolve  func() string
}

func locations() []location {
	return []location{
		{Name: "Config", flag: "config", short: "c", resolve: where.Config},
		{Name: "History", flag: "history", short: "H", resolve: where.History},
		{Name: "Logs", flag: "logs", short: "l", resolve: where.Logs},
		{Name: "Cache", flag: "cache", internal: true, resolve: where.Cache},
		{Name: "Queries", flag: "queries", internal: true, resolve: where.Queries},
		{Name: "Temp", flag: "temp", internal: true, resolve: where.Temp},
	}
}

func init() {
	rootCmd.AddCommand(whereCmd)
	whereCmd.SetOut(os.Stdout)

	flags := make([]string, 0, len(locations()))
	for _, l := range locations() {
		whereCmd.Flags().BoolP(l.flag, l.short, false, "print only the "+l.flag+" path")
		if l.internal {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
		flags = append(flags, l.flag)
	}
	whereCmd.MarkFlagsMutuallyExclusive(flags...)

	whereCmd.Flags().BoolP("json", "j", false, "print every location as JSON")
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where pitchplay keeps its config, history and logs",
	Run: func(cmd *cobra.Command, args []string) {
		all := locations()

		if l, ok := lo.Find(all, func(l location) bool { return lo.Must(cmd.Flags().GetBool(l.flag)) }); ok {
			cmd.Println(l.resolve())
			return
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			resolved := lo.Map(all, func(l location, _ int) location {
				l.Path = l.resolve()
				return l
			})
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(resolved))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(all, func(l location, _ int) bool { return l.internal })
		for i, l := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n%s\n", header(l.Name), style.Fg(color.Yellow)("--"+l.flag), l.resolve())
		}
	},
}
