package cli

import (
	"encoding/json"

	"aegis-dashboard/internal/output"

	"github.com/spf13/cobra"
)

func newPatientsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "patients",
		Aliases: []string{"ls"},
		Short:   "List patients assigned to you",
		RunE: func(cmd *cobra.Command, _ []string) error {
			patients, err := a.client().Patients(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.printer.Out())
				enc.SetIndent("", "  ")
				return enc.Encode(patients)
			}

			if len(patients) == 0 {
				a.printer.Info("No patients are assigned to you.")
				return nil
			}

			a.printer.Header("Assigned Patients")
			table := output.NewTable(a.printer.Out(), []string{"DISPLAY ID", "PATIENT ID", "CONSENT"})
			for _, p := range patients {
				table.AddRow([]string{a.printer.Bold(p.UniqueDisplayID), p.ID, a.printer.Consent(p.ConsentToShare)})
			}
			return table.Render()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
