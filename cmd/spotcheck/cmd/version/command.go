// Package version provides the version command.
package version

import (
	"github.com/spf13/cobra"

	"github.com/bolinasrbc/spotcheck/cmd/application"
	"github.com/bolinasrbc/spotcheck/internal/cmd/output"
	"github.com/bolinasrbc/spotcheck/pkg/constants"
)

// Info is the build information printed by the command.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version: app.Version(),
				Commit:  app.Commit(),
				Date:    app.Date(),
				BuiltBy: app.BuiltBy(),
			}

			switch format := output.Format(app.OutputFormat()); format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), info)
			}

			cmd.Printf("%s %s\n", constants.AppName, info.Version)
			if verbose {
				cmd.Printf("  commit:   %s\n", info.Commit)
				cmd.Printf("  built:    %s\n", info.Date)
				cmd.Printf("  built by: %s\n", info.BuiltBy)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "long", "l", false, "Include commit and build details")
	return cmd
}
