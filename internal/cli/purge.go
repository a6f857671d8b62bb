package cli

import (
	"bufio"
	"fmt"
	"strings"

	"aegis-dashboard/internal/usecase"

	"github.com/spf13/cobra"
)

func newPurgeCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every stored summary (admin)",
		Long: `Deletes all summaries for all patients. Requires auth.admin_secret.
Without --force the confirmation phrase must be typed on stdin.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Auth.AdminSecret == "" {
				return fmt.Errorf("auth.admin_secret is not configured")
			}

			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Type %q to confirm: ", usecase.PurgeConfirmationPhrase)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimRight(line, "\r\n") != usecase.PurgeConfirmationPhrase {
					return fmt.Errorf("confirmation did not match; nothing deleted")
				}
			}

			n, err := a.client().PurgeSummaries(cmd.Context(), usecase.PurgeConfirmationPhrase)
			if err != nil {
				return err
			}
			a.printer.Success("deleted %d summaries", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "skip the interactive confirmation")
	return cmd
}
