// Package applicants provides the applicants command, which lists the
// applicant ledger by derived status.
package applicants

import (
	"github.com/spf13/cobra"

	"github.com/bolinasrbc/spotcheck/cmd/application"
	"github.com/bolinasrbc/spotcheck/internal/cmd/globals"
	"github.com/bolinasrbc/spotcheck/internal/cmd/output"
	"github.com/bolinasrbc/spotcheck/internal/cmd/table"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// Flags holds the applicants command's flags.
type Flags struct {
	Sources *globals.SourceFlags
	Expired   bool
	Graduated bool
	Bad       bool
}

// NewCommand creates the applicants command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "applicants",
		GroupID: "data",
		Aliases: []string{"apps"},
		Short:   "List applicants by status",
		Long: `Applicants lists everyone in the applicant ledger with the status
derived from the number of dates recorded on their line.

Expired applications, graduates and lines that could not be read are
left out of the listing; --expired, --graduated and --bad show them
instead.`,
		Example: `  spotcheck applicants                     # Current applicants by status
  spotcheck applicants --expired           # Lapsed applications
  spotcheck applicants --graduated         # Completed applications
  spotcheck applicants --bad               # Unreadable lines`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	flags.Sources = globals.AddSourceFlags(cmd, sources.ApplicantsID)
	cmd.Flags().BoolVar(&flags.Expired, "expired", false,
		"List expired applications")
	cmd.Flags().BoolVar(&flags.Graduated, "graduated", false,
		"List applicants who completed the process")
	cmd.Flags().BoolVar(&flags.Bad, "bad", false,
		"List lines that could not be read")
	cmd.MarkFlagsMutuallyExclusive("expired", "graduated", "bad")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())),
		output.FormatTable, output.FormatJSON, output.FormatYAML)
	if err != nil {
		return errors.NewValidationError("output", app.OutputFormat(), err.Error())
	}

	client, err := app.ClientWithOptions(flags.Sources.Options()...)
	if err != nil {
		return err
	}
	ds, err := client.Applicants(logging.WithLogger(cmd.Context(), app.Logger()))
	if err != nil {
		return err
	}

	var tableData table.Data
	var data any
	switch {
	case flags.Expired:
		tableData = table.NamesToTableData("expired", ds.Expired)
		data = nonNil(ds.Expired)
	case flags.Graduated:
		tableData = table.NamesToTableData("graduated", ds.Graduated)
		data = nonNil(ds.Graduated)
	case flags.Bad:
		tableData = table.MalformedToTableData(ds.BadLines)
		data = nonNil(ds.BadLines)
	default:
		tableData = table.ApplicantsToTableData(ds.Applicants)
		data = ds.ByStatusListing()
	}

	if format == output.FormatTable {
		data = tableData
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
}

// nonNil keeps empty listings as [] rather than null in JSON.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
