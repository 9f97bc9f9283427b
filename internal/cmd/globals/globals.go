// Package globals provides flag structures shared by CLI commands.
package globals

import (
	"github.com/spf13/cobra"

	"github.com/bolinasrbc/spotcheck"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// SourceFlags holds per-command overrides of the source file paths.
// Empty values leave the configured path in place.
type SourceFlags struct {
	sources.Paths
}

// AddSourceFlags adds a path flag for each of ids to cmd.
func AddSourceFlags(cmd *cobra.Command, ids ...sources.ID) *SourceFlags {
	flags := &SourceFlags{}
	for _, id := range ids {
		switch id {
		case sources.LedgerID:
			cmd.Flags().StringVarP(&flags.Ledger, "ledger", "i", "",
				"Member ledger CSV")
		case sources.ContactsID:
			cmd.Flags().StringVarP(&flags.Contacts, "contacts", "C", "",
				"Contacts export CSV")
		case sources.ApplicantsID:
			cmd.Flags().StringVarP(&flags.Applicants, "applicants", "A", "",
				"Applicant ledger")
		case sources.FeesID:
			cmd.Flags().StringVarP(&flags.Fees, "fees", "X", "",
				"Extra fees ledger")
		}
	}
	return flags
}

// Options returns client options for the paths that were given.
func (f *SourceFlags) Options() []spotcheck.Option {
	return []spotcheck.Option{spotcheck.WithPaths(f.Paths)}
}
