// Package cmd implements the command-line interface for pitchplay.
package cmd

import (
	"os"
	"strings"

	"github.com/pitchplay/pitchplay/color"
	"github.com/pitchplay/pitchplay/config"
	"github.com/pitchplay/pitchplay/style"
	"github.com/pitchplay/pitchplay/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")
	envCmd.Flags().BoolP("describe", "d", false, "Print the description of each variable")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envVariable is an environment variable the application reads.
type envVariable struct {
	name, description string
}

func envVariables() []envVariable {
	variables := lo.MapToSlice(config.Default, func(_ string, field config.Field) envVariable {
		return envVariable{name: field.Env(), description: field.Description}
	})
	variables = append(variables, envVariable{
		name:        where.EnvConfigPath,
		description: "Directory holding the configuration file",
	})

	slices.SortFunc(variables, func(a, b envVariable) int {
		return strings.Compare(a.name, b.name)
	})
	return variables
}

// envCmd displays the current process values for all supported environment variables.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the collection of supported environment variables",
	Long:  `Display the environment variables that override configuration, and their current process values.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
			describe  = lo.Must(cmd.Flags().GetBool("describe"))
		)

		for _, variable := range envVariables() {
			value, present := os.LookupEnv(variable.name)

			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			if describe {
				cmd.Println(style.Faint(variable.description))
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(variable.name))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
