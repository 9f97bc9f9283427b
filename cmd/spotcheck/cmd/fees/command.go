// Package fees provides the fees command, which lists the extra fees
// ledger and exports it as JSON.
package fees

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/bolinasrbc/spotcheck/cmd/application"
	"github.com/bolinasrbc/spotcheck/internal/cmd/alerts"
	"github.com/bolinasrbc/spotcheck/internal/cmd/globals"
	"github.com/bolinasrbc/spotcheck/internal/cmd/output"
	"github.com/bolinasrbc/spotcheck/internal/cmd/table"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/members"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// Grouping values for --by.
const (
	ByName     = "name"
	ByCategory = "category"
)

// Flags holds the fees command's flags.
type Flags struct {
	Sources *globals.SourceFlags
	By      string
	JSON    string
	Save    bool
}

// NewCommand creates the fees command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "fees",
		GroupID: "data",
		Short:   "List the extra fees ledger",
		Long: `Fees lists the dock, kayak and mooring charges recorded in the extra
fees ledger, one per row or summarized by category. In the table view
each amount is marked against the standard fee schedule.

With --json or --save the mapping of each name to its charges is
written as JSON instead.`,
		Example: `  spotcheck fees                           # One row per charge
  spotcheck fees --by category             # Payers and totals per category
  spotcheck fees --json fees.json          # Export name -> ["Mooring 500"]
  spotcheck fees --save                    # Export to the configured fees_json path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	flags.Sources = globals.AddSourceFlags(cmd, sources.FeesID)
	cmd.Flags().StringVar(&flags.By, "by", ByName,
		"Group fees by: name, category")
	cmd.Flags().StringVar(&flags.JSON, "json", "",
		"Write the name -> charges mapping to this file")
	cmd.Flags().BoolVar(&flags.Save, "save", false,
		"Write the name -> charges mapping to the configured fees_json path")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	if flags.By != ByName && flags.By != ByCategory {
		return errors.NewValidationError("by", flags.By, "must be one of: name, category")
	}

	client, err := app.ClientWithOptions(flags.Sources.Options()...)
	if err != nil {
		return err
	}
	ctx := logging.WithLogger(cmd.Context(), app.Logger())

	if path := exportPath(app, flags); path != "" {
		if err := client.ExportFees(ctx, path); err != nil {
			return err
		}
		if app.Quiet() {
			return nil
		}
		if err := alerts.NewWriterTo(cmd.ErrOrStderr()).WriteAlert(alerts.NewSuccess("Wrote fee mapping to " + path)); err != nil {
			app.Logger().Debug().Err(err).Msg("writing export alert")
		}
		return nil
	}

	ds, err := client.Fees(ctx)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())),
		output.FormatTable, output.FormatJSON, output.FormatYAML)
	if err != nil {
		return errors.NewValidationError("output", app.OutputFormat(), err.Error())
	}

	var data any
	switch {
	case format == output.FormatTable && flags.By == ByCategory:
		data = table.FeesByCategoryToTableData(ds.ByCategory)
	case format == output.FormatTable:
		data = table.FeesToTableData(sortedFees(ds.Fees), app.Config().Schedule.Standard)
	case flags.By == ByCategory:
		data = byCategory(ds.ByCategory)
	default:
		data = ds.ChargesByName()
	}

	app.Logger().Debug().Int("fees", len(ds.Fees)).Int("payers", len(ds.ByName)).Msg("listing fees")
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
}

func exportPath(app application.Application, flags *Flags) string {
	if flags.JSON != "" {
		return flags.JSON
	}
	if flags.Save {
		return app.Config().FeesJSON
	}
	return ""
}

func sortedFees(fees []members.Fee) []members.Fee {
	sorted := slices.Clone(fees)
	members.SortFees(sorted)
	return sorted
}

// byCategory renders category -> ["Last, First: amount"] in name order.
func byCategory(in map[members.Category][]members.Fee) map[members.Category][]string {
	out := make(map[members.Category][]string, len(in))
	for c, fees := range in {
		fees = sortedFees(fees)
		lines := make([]string, len(fees))
		for i, f := range fees {
			lines[i] = f.Name + ": " + f.Amount.String()
		}
		out[c] = lines
	}
	return out
}
