package spotcheck

import (
	"context"

	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// Compile-time interface check to ensure proper implementation.
var _ Gatherer = (*client)(nil)

// Gatherer reads the configured sources one at a time.
type Gatherer interface {
	Ledger(ctx context.Context) (*sources.LedgerDataset, error)
	Contacts(ctx context.Context) (*sources.ContactsDataset, error)
	Applicants(ctx context.Context) (*sources.ApplicantsDataset, error)
	Fees(ctx context.Context) (*sources.FeesDataset, error)

	// Gather reads all four sources in turn and stops at the first
	// fatal error. Malformed records are logged and kept in the datasets.
	Gather(ctx context.Context) (reconcile.Input, error)
}

// Ledger reads the member ledger.
func (c *client) Ledger(ctx context.Context) (*sources.LedgerDataset, error) {
	ds, err := sources.GatherLedger(ctx, c.options.paths.Ledger)
	if err != nil {
		return nil, err
	}
	warnMalformed(ctx, sources.LedgerID, ds.Err())
	return ds, nil
}

// Contacts reads the contacts export.
func (c *client) Contacts(ctx context.Context) (*sources.ContactsDataset, error) {
	ds, err := sources.GatherContacts(ctx, c.options.paths.Contacts)
	if err != nil {
		return nil, err
	}
	warnMalformed(ctx, sources.ContactsID, ds.Err())
	return ds, nil
}

// Applicants reads the applicant ledger.
func (c *client) Applicants(ctx context.Context) (*sources.ApplicantsDataset, error) {
	ds, err := sources.GatherApplicants(ctx, c.options.paths.Applicants)
	if err != nil {
		return nil, err
	}
	warnMalformed(ctx, sources.ApplicantsID, ds.Err())
	return ds, nil
}

// Fees reads the extra fees ledger.
func (c *client) Fees(ctx context.Context) (*sources.FeesDataset, error) {
	ds, err := sources.GatherFees(ctx, c.options.paths.Fees)
	if err != nil {
		return nil, err
	}
	warnMalformed(ctx, sources.FeesID, ds.Err())
	return ds, nil
}

// Gather implements Gatherer.
func (c *client) Gather(ctx context.Context) (reconcile.Input, error) {
	var (
		in  reconcile.Input
		err error
	)
	if in.Ledger, err = c.Ledger(ctx); err != nil {
		return reconcile.Input{}, err
	}
	if in.Contacts, err = c.Contacts(ctx); err != nil {
		return reconcile.Input{}, err
	}
	if in.Applicants, err = c.Applicants(ctx); err != nil {
		return reconcile.Input{}, err
	}
	if in.Fees, err = c.Fees(ctx); err != nil {
		return reconcile.Input{}, err
	}
	return in, nil
}

func warnMalformed(ctx context.Context, id sources.ID, err error) {
	if err == nil {
		return
	}
	logging.FromContext(logging.WithSource(ctx, id.String())).Warn().
		Err(err).
		Msg("Source has malformed records")
}
