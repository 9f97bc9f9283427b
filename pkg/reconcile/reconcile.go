// Package reconcile compares the gathered sources against each other and
// collects every disagreement as a Finding. Absence of a key is itself the
// finding; no comparison fails because one side lacks a key.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/identity"
	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/members"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// Comparator runs the cross-source checks.
type Comparator interface {
	// Compare checks every source against the others. The datasets are
	// read but never modified.
	Compare(ctx context.Context, in Input) (*Result, error)
}

// Input holds one dataset per source.
type Input struct {
	Ledger     *sources.LedgerDataset
	Contacts   *sources.ContactsDataset
	Applicants *sources.ApplicantsDataset
	Fees       *sources.FeesDataset
}

func (in Input) validate() error {
	switch {
	case in.Ledger == nil:
		return &errors.ValidationError{Field: "ledger", Message: "dataset is required"}
	case in.Contacts == nil:
		return &errors.ValidationError{Field: "contacts", Message: "dataset is required"}
	case in.Applicants == nil:
		return &errors.ValidationError{Field: "applicants", Message: "dataset is required"}
	case in.Fees == nil:
		return &errors.ValidationError{Field: "fees", Message: "dataset is required"}
	}
	return nil
}

// comparator is the default implementation of Comparator.
type comparator struct {
	detail         bool
	statusListing  bool
	applicantGroup string
	feeGroups      map[members.Category]string
}

// New creates a new Comparator with options.
func New(opts ...Option) (Comparator, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &comparator{
		detail:         options.detail,
		statusListing:  options.statusListing,
		applicantGroup: options.applicantGroup,
		feeGroups:      options.feeGroups,
	}, nil
}

// run holds the state of one Compare call.
type run struct {
	*comparator

	in      Input
	builder *ResultBuilder
	logger  *zerolog.Logger

	ledger   identity.Resolution
	contacts identity.Resolution
}

// step is one named check.
type step struct {
	check Check
	fn    func(*run)
}

// steps returns the checks in report order.
func (c *comparator) steps() []step {
	steps := []step{
		{CheckMalformed, (*run).checkMalformed},
		{CheckIdentity, (*run).checkIdentity},
		{CheckEmailCoverage, (*run).checkEmailCoverage},
		{CheckNonMembers, (*run).checkNonMembers},
		{CheckEmailNames, (*run).checkEmailNames},
		{CheckWithoutEmail, (*run).checkWithoutEmail},
		{CheckApplicantGroup, (*run).checkApplicantGroup},
		{CheckApplicantMap, (*run).checkApplicantMap},
		{CheckGraduates, (*run).checkGraduates},
		{CheckFeeName, (*run).checkFees},
	}
	if len(c.feeGroups) > 0 {
		steps = append(steps, step{CheckFeeGroups, (*run).checkFeeGroups})
	}
	return steps
}

// Compare implements Comparator.
func (c *comparator) Compare(ctx context.Context, in Input) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapSource("reconcile", "compare", err)
	}

	ctx = logging.WithOperation(ctx, "reconcile")
	logger := logging.FromContext(ctx)

	r := &run{
		comparator: c,
		in:         in,
		builder:    NewResultBuilder().WithDetail(c.detail),
		logger:     logger,
		ledger:     identity.Resolve(in.Ledger.ByEmail),
		contacts:   identity.Resolve(in.Contacts.ByEmail),
	}
	r.builder.
		WithSource(sources.LedgerID, in.Ledger.File).
		WithSource(sources.ContactsID, in.Contacts.File).
		WithSource(sources.ApplicantsID, in.Applicants.File).
		WithSource(sources.FeesID, in.Fees.File).
		WithIdentity(identity.Compare(r.ledger, r.contacts))

	for _, s := range c.steps() {
		before := len(r.builder.result.Findings)
		s.fn(r)
		logging.FromContext(logging.WithCheck(ctx, string(s.check))).Debug().
			Int("findings", len(r.builder.result.Findings)-before).
			Msg("Check complete")
	}

	if c.statusListing {
		r.builder.WithStatusListing(statusListing(in.Ledger))
	}

	result := r.builder.
		WithStatistics(ResultStatistics{
			Members:    len(in.Ledger.Members),
			Contacts:   len(in.Contacts.Contacts),
			Applicants: len(in.Applicants.Applicants),
			Fees:       len(in.Fees.Fees),
		}).
		Build()

	logger.Info().
		Int("problems", result.Metadata.Stats.Problems).
		Int("notices", result.Metadata.Stats.Notices).
		Int("passed", result.Metadata.Stats.Passed).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation complete")

	return result, nil
}
