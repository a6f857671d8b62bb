package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a session token",
		Long: `Sign in with email and password. The password is read from
AEGISCTL_PASSWORD or, with --password-stdin, from the first line of stdin.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := os.Getenv("AEGISCTL_PASSWORD")
			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("no password supplied")
			}

			res, err := a.client().SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			a.printer.Success("signed in as %s", res.User.Email)
			a.printer.Info("export AEGISCTL_AUTH_SESSION_TOKEN=%s", res.SessionToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the state of the configured session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := a.client().Session(cmd.Context())
			if err != nil {
				return err
			}
			if state.User == nil {
				a.printer.Info("not signed in (screen: %s)", state.Screen)
				return nil
			}
			a.printer.Info("%s (%s)", state.User.Email, state.User.ID)
			a.printer.Info("screen: %s, therapist: %t", state.Screen, state.IsTherapist)
			return nil
		},
	}
}
