// Package cmd implements the command-line interface for pitchplay.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pitchplay/pitchplay/color"
	"github.com/pitchplay/pitchplay/filesystem"
	"github.com/pitchplay/pitchplay/history"
	"github.com/pitchplay/pitchplay/icon"
	"github.com/pitchplay/pitchplay/style"
	"github.com/pitchplay/pitchplay/util"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

// historyCmd manages the local watch history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the local watch history",
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyListCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	historyListCmd.Flags().IntP("limit", "n", 0, "Show at most this many entries")
	historyListCmd.SetOut(os.Stdout)
}

// historyListCmd prints watched pitches, most recent first.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched pitches, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.List()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println("No history yet")
			return
		}

		width, _, err := util.TerminalSize()
		if err != nil || width <= 0 {
			width = 80
		}

		for _, entry := range entries {
			line := fmt.Sprintf("%s %s", style.Faint(entry.PlayedAt.Format("2006-01-02 15:04")), entry.String())
			cmd.Println(truncate.StringWithTail(line, uint(width), "…"))
		}
	},
}

func init() {
	historyCmd.AddCommand(historyExportCmd)
}

// historyExportCmd writes the history to a JSON file.
var historyExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the watch history to a JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.List()
		handleErr(err)

		data, err := json.MarshalIndent(entries, "", "  ")
		handleErr(err)
		handleErr(filesystem.WriteAtomic(args[0], data))

		fmt.Printf(
			"%s exported %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(len(entries), "entry", "entries"),
			args[0],
		)
	},
}

func init() {
	historyCmd.AddCommand(historyRemoveCmd)
}

// historyRemoveCmd forgets every entry of a pitch.
var historyRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a pitch from the watch history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.List()
		handleErr(err)

		removed := 0
		for _, entry := range entries {
			if entry.ID == args[0] {
				handleErr(history.Remove(entry))
				removed++
			}
		}

		fmt.Printf("%s removed %s\n", icon.Get(icon.Success), util.Quantify(removed, "entry", "entries"))
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

// historyClearCmd deletes the whole watch history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole watch history",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(history.Clear())
		fmt.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
