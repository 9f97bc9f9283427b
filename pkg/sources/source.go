// Package sources reads the club's four single-point-of-truth files into
// typed, normalized datasets: the member ledger, the contacts export, the
// applicant ledger and the extra fees ledger.
//
// Each gatherer opens its file, reads it fully and closes it before
// returning. A gatherer returns either a complete dataset or an error, never
// both. Records that do not fit the expected shape are collected on the
// dataset rather than returned as errors; only an unreadable file or a lost
// parse context aborts.
//
// Example usage:
//
//	ledger, err := sources.GatherLedger(ctx, "Data/memlist.csv")
//	if err != nil {
//	    return err
//	}
//	if err := ledger.Err(); err != nil {
//	    log.Warn().Err(err).Msg("ledger has malformed rows")
//	}
package sources

import (
	"context"
	"io"
	"os"

	"github.com/bolinasrbc/spotcheck/pkg/constants"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/members"
)

// ID represents the identifier of a data source.
type ID string

// String returns the string representation of a source name.
func (id ID) String() string {
	return string(id)
}

// Source identifiers.
const (
	LedgerID     ID = "ledger"
	ContactsID   ID = "contacts"
	ApplicantsID ID = "applicants"
	FeesID       ID = "fees"
)

// IDs returns all sources in gathering order.
func IDs() []ID {
	return []ID{LedgerID, ContactsID, ApplicantsID, FeesID}
}

// Paths locates the four source files.
type Paths struct {
	Ledger     string `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	Contacts   string `json:"contacts" yaml:"contacts" mapstructure:"contacts"`
	Applicants string `json:"applicants" yaml:"applicants" mapstructure:"applicants"`
	Fees       string `json:"fees" yaml:"fees" mapstructure:"fees"`
}

// DefaultPaths returns the club's customary file locations.
func DefaultPaths() Paths {
	return Paths{
		Ledger:     constants.DefaultLedgerPath,
		Contacts:   constants.DefaultContactsPath,
		Applicants: constants.DefaultApplicantsPath,
		Fees:       constants.DefaultFeesPath,
	}
}

// Path returns the configured path for id.
func (p Paths) Path(id ID) string {
	switch id {
	case LedgerID:
		return p.Ledger
	case ContactsID:
		return p.Contacts
	case ApplicantsID:
		return p.Applicants
	case FeesID:
		return p.Fees
	}
	return ""
}

// Set replaces the path for id. Unknown ids are ignored.
func (p *Paths) Set(id ID, path string) {
	switch id {
	case LedgerID:
		p.Ledger = path
	case ContactsID:
		p.Contacts = path
	case ApplicantsID:
		p.Applicants = path
	case FeesID:
		p.Fees = path
	}
}

// readSource opens path, hands it to read and closes it again.
func readSource(ctx context.Context, id ID, path string, read func(r io.Reader, name string) error) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapSource(id.String(), "gather", errors.ErrCanceled)
	}

	expanded, err := ExpandPath(path)
	if err != nil {
		return errors.WrapSource(id.String(), "expand path", err)
	}

	log := logging.FromContext(ctx)
	log.Debug().Str("source", id.String()).Str("path", expanded).Msg("Reading source")

	f, err := os.Open(expanded)
	if err != nil {
		return errors.WrapSource(id.String(), "open", errors.WrapIO("open", expanded, err))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("path", expanded).Msg("Closing source")
		}
	}()

	if err := read(f, expanded); err != nil {
		return errors.WrapSource(id.String(), "read", err)
	}
	return nil
}

// malformedErr summarizes diverted records as a non-fatal error.
func malformedErr(id ID, entries []members.Malformed) error {
	if len(entries) == 0 {
		return nil
	}
	return &errors.MalformedError{Source: id.String(), Count: len(entries)}
}
