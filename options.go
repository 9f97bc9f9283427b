package spotcheck

import (
	"maps"

	"github.com/bolinasrbc/spotcheck/pkg/constants"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/members"
	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// options holds the client configuration.
type options struct {
	paths          sources.Paths
	detail         bool
	statusListing  bool
	applicantGroup string
	feeGroups      map[members.Category]string
}

// defaults returns the default client options.
func defaults() *options {
	return &options{
		paths:          sources.DefaultPaths(),
		statusListing:  true,
		applicantGroup: constants.ApplicantGroup,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *options) comparatorOptions() []reconcile.Option {
	opts := []reconcile.Option{
		reconcile.WithDetail(o.detail),
		reconcile.WithStatusListing(o.statusListing),
		reconcile.WithApplicantGroup(o.applicantGroup),
	}
	if len(o.feeGroups) > 0 {
		opts = append(opts, reconcile.WithFeeGroups(o.feeGroups))
	}
	return opts
}

// Option is a function that configures a Client.
type Option func(*options) error

func pathOption(field, path string, set func(*sources.Paths)) Option {
	return func(o *options) error {
		if path == "" {
			return &errors.ValidationError{Field: field, Message: "path cannot be empty"}
		}
		set(&o.paths)
		return nil
	}
}

// WithPaths replaces every source path at once. Empty entries keep
// their current value.
func WithPaths(paths sources.Paths) Option {
	return func(o *options) error {
		for _, id := range sources.IDs() {
			if p := paths.Path(id); p != "" {
				o.paths.Set(id, p)
			}
		}
		return nil
	}
}

// WithLedgerPath sets the member ledger CSV path.
func WithLedgerPath(path string) Option {
	return pathOption("ledger", path, func(p *sources.Paths) { p.Ledger = path })
}

// WithContactsPath sets the contacts export path.
func WithContactsPath(path string) Option {
	return pathOption("contacts", path, func(p *sources.Paths) { p.Contacts = path })
}

// WithApplicantsPath sets the applicant ledger path.
func WithApplicantsPath(path string) Option {
	return pathOption("applicants", path, func(p *sources.Paths) { p.Applicants = path })
}

// WithFeesPath sets the extra fees ledger path.
func WithFeesPath(path string) Option {
	return pathOption("fees", path, func(p *sources.Paths) { p.Fees = path })
}

// WithDetail configures whether fee drift is itemized per member.
func WithDetail(enabled bool) Option {
	return func(o *options) error {
		o.detail = enabled
		return nil
	}
}

// WithStatusListing configures whether the result lists members by status.
func WithStatusListing(enabled bool) Option {
	return func(o *options) error {
		o.statusListing = enabled
		return nil
	}
}

// WithApplicantGroup sets the contacts group that tags applicants.
func WithApplicantGroup(group string) Option {
	return func(o *options) error {
		if group == "" {
			return &errors.ValidationError{Field: "applicant_group", Message: "cannot be empty"}
		}
		o.applicantGroup = group
		return nil
	}
}

// WithFeeGroups maps fee categories to the contacts groups that should
// hold exactly the members paying them.
func WithFeeGroups(groups map[members.Category]string) Option {
	return func(o *options) error {
		o.feeGroups = maps.Clone(groups)
		return nil
	}
}
