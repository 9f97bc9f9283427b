package reconcile

import (
	"maps"

	"github.com/bolinasrbc/spotcheck/pkg/constants"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/members"
)

// options configures a comparator.
type options struct {
	detail         bool
	statusListing  bool
	applicantGroup string
	feeGroups      map[members.Category]string
}

func defaultOptions() *options {
	return &options{
		applicantGroup: constants.ApplicantGroup,
	}
}

// Option is a function that configures a Comparator.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns comparator options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithDetail itemizes fee amount drift per member.
func WithDetail(enabled bool) Option {
	return func(o *options) error {
		o.detail = enabled
		return nil
	}
}

// WithStatusListing adds the per-status member listing to the result.
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
			return &errors.ValidationError{
				Field:   "applicant_group",
				Message: "cannot be empty",
			}
		}
		o.applicantGroup = group
		return nil
	}
}

// WithFeeGroups enables the contacts fee group check. Each category maps
// to the contacts group whose members should carry that fee.
func WithFeeGroups(groups map[members.Category]string) Option {
	return func(o *options) error {
		for c, g := range groups {
			if _, ok := members.ParseCategory(string(c)); !ok {
				return &errors.ValidationError{
					Field:   "fee_groups",
					Value:   c,
					Message: "unknown fee category",
				}
			}
			if g == "" {
				return &errors.ValidationError{
					Field:   "fee_groups",
					Value:   c,
					Message: "group name cannot be empty",
				}
			}
		}
		o.feeGroups = maps.Clone(groups)
		return nil
	}
}
