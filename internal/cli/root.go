// Package cli implements the aegisctl command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"aegis-dashboard/internal/apiclient"
	"aegis-dashboard/internal/cliconfig"
	"aegis-dashboard/internal/output"

	"github.com/spf13/cobra"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	verbose bool
	noColor bool
	version string

	cfg     *cliconfig.Config
	printer *output.Printer
	logger  *slog.Logger
}

// NewRootCmd builds the aegisctl command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "aegisctl",
		Short: "Therapist dashboard CLI",
		Long: `aegisctl reviews patient summaries from the terminal.

Example usage:
  aegisctl login --email dr@example.org       # Obtain a session token
  aegisctl patients                           # List assigned patients
  aegisctl sessions <patient-id> --tz UTC     # Summaries grouped into sessions
  aegisctl group --file export.json           # Group an exported file offline`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .aegisctl.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newLoginCmd(a),
		newWhoamiCmd(a),
		newPatientsCmd(a),
		newSessionsCmd(a),
		newGroupCmd(a),
		newPurgeCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) init(out, errOut io.Writer) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	cfg, err := cliconfig.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.printer = output.NewPrinterWithWriters(out, errOut, !a.noColor && output.ResolveColors(cfg.Output.Colors))

	a.logger.Debug("configuration loaded", "server", cfg.Server.URL, "gap_minutes", cfg.Grouping.GapMinutes)
	return nil
}

func (a *app) client() *apiclient.Client {
	return apiclient.New(a.cfg.Server.URL, a.cfg.Server.Timeout, a.cfg.Auth.SessionToken, a.cfg.Auth.AdminSecret)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the aegisctl version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.printer.Info("aegisctl %s", a.version)
			return nil
		},
	}
}
