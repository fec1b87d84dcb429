// Package cmd implements the command-line interface for pitchplay.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pitchplay/pitchplay/auth"
	"github.com/pitchplay/pitchplay/color"
	"github.com/pitchplay/pitchplay/icon"
	"github.com/pitchplay/pitchplay/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages the bearer token sent to the backend.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API token used for private pitches",
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authLoginCmd.Flags().StringP("token", "t", "", "The API token to store instead of prompting for it")
}

// authLoginCmd stores a token in the system keyring.
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		token := lo.Must(cmd.Flags().GetString("token"))

		if token == "" {
			prompt := survey.Password{
				Message: "API token:",
				Help:    "The token is sent as a bearer token with every stream request",
			}
			handleErr(survey.AskOne(&prompt, &token, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.SetToken(strings.TrimSpace(token)))
		fmt.Printf("%s token saved\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authLogoutCmd)
}

// authLogoutCmd removes the stored token.
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the API token from the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		err := auth.DeleteToken()
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("%s no token stored\n", icon.Get(icon.Mark))
			return
		}

		handleErr(err)
		fmt.Printf("%s token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}

// authStatusCmd reports whether a token is stored.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an API token is stored",
	Run: func(cmd *cobra.Command, args []string) {
		token, err := auth.Credentials()
		handleErr(err)

		if token == "" {
			fmt.Printf("%s not logged in, only public pitches will play\n", icon.Get(icon.Key))
			return
		}

		fmt.Printf("%s logged in with token %s\n", style.Fg(color.Green)(icon.Get(icon.Key)), style.Faint(mask(token)))
	},
}

// mask hides all but the last four characters of token.
func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
