// Package check provides the check command, which runs every
// cross-source comparison and writes the integrity report.
package check

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bolinasrbc/spotcheck"
	"github.com/bolinasrbc/spotcheck/cmd/application"
	"github.com/bolinasrbc/spotcheck/internal/cmd/alerts"
	"github.com/bolinasrbc/spotcheck/internal/cmd/globals"
	"github.com/bolinasrbc/spotcheck/internal/cmd/output"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
	"github.com/bolinasrbc/spotcheck/pkg/report"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// Flags holds the check command's own flags.
type Flags struct {
	Sources  *globals.SourceFlags
	Detail   bool
	NoStatus bool
	Title    string
	Outfile  string
	Format   string
}

// NewCommand creates the check command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "check",
		GroupID: "core",
		Aliases: []string{"ck"},
		Short:   "Cross-check the member data sources",
		Long: `Check reads the member ledger, the contacts export, the applicant
ledger and the extra fees ledger, compares them and writes a report of
every disagreement.

Findings are reported, not failures: the command exits non-zero only
when a source is missing or cannot be parsed at all.`,
		Example: `  spotcheck check                          # Report on the configured sources
  spotcheck check -d                       # Include per-member fee disparities
  spotcheck check -i memlist.csv -o report.txt
  spotcheck check --format markdown        # Markdown report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	flags.Sources = globals.AddSourceFlags(cmd, sources.IDs()...)
	cmd.Flags().BoolVarP(&flags.Detail, "detail", "d", false,
		"List each member whose fee amounts differ")
	cmd.Flags().BoolVar(&flags.NoStatus, "no-status", false,
		"Leave out the listing of members by status")
	cmd.Flags().StringVar(&flags.Title, "title", "",
		"Title line for the report")
	cmd.Flags().StringVarP(&flags.Outfile, "outfile", "o", "",
		"Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&flags.Format, "format", "",
		"Report format: text, markdown, json, yaml")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	format, err := reportFormat(flags.Format, app.OutputFormat())
	if err != nil {
		return err
	}

	client, err := app.ClientWithOptions(clientOptions(cmd, flags)...)
	if err != nil {
		return err
	}

	logger := app.Logger()
	client.OnProblem(func(f reconcile.Finding) {
		logger.Debug().
			Str("check", string(f.Check)).
			Str("severity", string(f.Severity)).
			Msg(f.Title)
	})

	ctx := logging.WithLogger(cmd.Context(), logger)
	result, err := client.Check(ctx)
	if err != nil {
		return err
	}

	title := flags.Title
	if title == "" {
		title = app.Config().Title
	}

	if err := writeReport(cmd, flags.Outfile, format, result, report.Options{Title: title}); err != nil {
		return err
	}

	if app.Quiet() {
		return nil
	}
	writer := alerts.NewFormatWriter(cmd.ErrOrStderr(), output.FormatText)
	return alerts.WriteAll(writer, alerts.FromResult(result))
}

// reportFormat resolves --format, falling back to a structured global
// --output and then to the text report.
func reportFormat(explicit, global string) (output.Format, error) {
	allowed := []output.Format{output.FormatText, output.FormatMarkdown, output.FormatJSON, output.FormatYAML}
	format, err := output.ParseFormat(explicit, allowed...)
	if err != nil {
		return "", errors.NewValidationError("format", explicit, err.Error())
	}
	if format != "" {
		return format, nil
	}
	switch g := output.Format(global); g {
	case output.FormatJSON, output.FormatYAML:
		return g, nil
	}
	return output.FormatText, nil
}

// clientOptions turns the flags that were set into client options.
// Unset flags leave the configured values in place.
func clientOptions(cmd *cobra.Command, flags *Flags) []spotcheck.Option {
	opts := flags.Sources.Options()
	if cmd.Flags().Changed("detail") {
		opts = append(opts, spotcheck.WithDetail(flags.Detail))
	}
	if flags.NoStatus {
		opts = append(opts, spotcheck.WithStatusListing(false))
	}
	return opts
}

func writeReport(cmd *cobra.Command, outfile string, format output.Format, result *reconcile.Result, opts report.Options) (err error) {
	var w io.Writer = cmd.OutOrStdout()
	if outfile != "" {
		f, createErr := os.Create(outfile) // #nosec G304 - path is supplied by the user
		if createErr != nil {
			return errors.WrapIO("create", outfile, createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = errors.WrapIO("close", outfile, closeErr)
			}
		}()
		w = f
	}

	switch format {
	case output.FormatMarkdown:
		return report.WriteMarkdown(w, result, opts)
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(w, result)
	default:
		return report.Write(w, result, opts)
	}
}
