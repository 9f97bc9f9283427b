package app

import (
	"github.com/spf13/cobra"

	"github.com/bolinasrbc/spotcheck/cmd/spotcheck/cmd/applicants"
	"github.com/bolinasrbc/spotcheck/cmd/spotcheck/cmd/check"
	"github.com/bolinasrbc/spotcheck/cmd/spotcheck/cmd/fees"
	"github.com/bolinasrbc/spotcheck/cmd/spotcheck/cmd/version"
)

// registerCommands wires every subcommand to the app.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(check.NewCommand(a))

	rootCmd.AddCommand(fees.NewCommand(a))
	rootCmd.AddCommand(applicants.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
}
