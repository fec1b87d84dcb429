// Package cmd implements the command-line interface for pitchplay.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pitchplay/pitchplay/color"
	"github.com/pitchplay/pitchplay/constant"
	"github.com/pitchplay/pitchplay/icon"
	"github.com/pitchplay/pitchplay/key"
	"github.com/pitchplay/pitchplay/log"
	"github.com/pitchplay/pitchplay/style"
	"github.com/pitchplay/pitchplay/tui"
	"github.com/pitchplay/pitchplay/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Persist watch progress to the local history")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().StringP("endpoint", "e", "", "Base URL of the pitch backend")
	lo.Must0(viper.BindPFlag(key.APIEndpoint, rootCmd.PersistentFlags().Lookup("endpoint")))

	rootCmd.PersistentFlags().Bool("native", false, "Hand the stream URL to mpv instead of the built-in HLS client")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd defines the entry point for the pitchplay application.
var rootCmd = &cobra.Command{
	Use:   constant.Pitchplay + " [id]",
	Short: "A terminal player for elevator pitch videos",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal player for elevator pitch videos"),
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("native")) {
			viper.Set(key.PlayerAdaptive, false)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		requireMPV()

		options := tui.Options{}
		if len(args) == 1 {
			options.ID = args[0]
		}
		handleErr(tui.Run(&options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
