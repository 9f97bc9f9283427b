package reconcile

import (
	"fmt"
	"time"

	"github.com/bolinasrbc/spotcheck/pkg/identity"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// Result represents the outcome of one reconciliation run. It is not
// modified after Build.
type Result struct {
	// Findings in the order they were produced; the report orders them by Section.
	Findings []Finding `json:"findings" yaml:"findings"`

	// StatusListing lists ledger members per status when requested.
	StatusListing []Block `json:"status_listing,omitempty" yaml:"status_listing,omitempty"`

	// OK names every check that passed cleanly.
	OK []string `json:"ok" yaml:"ok"`

	// Identity carries the cross-source email anomalies.
	Identity identity.Anomalies `json:"identity" yaml:"identity"`

	// Metadata about the run
	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// ResultMetadata contains metadata about the reconciliation run
type ResultMetadata struct {
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	// Sources that were reconciled, with the file each came from
	Sources map[sources.ID]string `json:"sources" yaml:"sources"`

	// Detail indicates whether fee drift was itemized
	Detail bool `json:"detail" yaml:"detail"`

	Stats ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics counts what was read and found.
type ResultStatistics struct {
	Members    int `json:"members" yaml:"members"`
	Contacts   int `json:"contacts" yaml:"contacts"`
	Applicants int `json:"applicants" yaml:"applicants"`
	Fees       int `json:"fees" yaml:"fees"`

	Problems int `json:"problems" yaml:"problems"`
	Notices  int `json:"notices" yaml:"notices"`
	Passed   int `json:"passed" yaml:"passed"`
}

// HasProblems returns true if any finding calls for a correction.
func (r *Result) HasProblems() bool {
	return r.Metadata.Stats.Problems > 0
}

// Section returns the findings filed under s, in production order.
func (r *Result) Section(s Section) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Section == s {
			out = append(out, f)
		}
	}
	return out
}

// Finding returns the first finding produced by check.
func (r *Result) Finding(check Check) (Finding, bool) {
	for _, f := range r.Findings {
		if f.Check == check {
			return f, true
		}
	}
	return Finding{}, false
}

// Summary returns a human-readable one-line summary of the result
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	if s.Problems == 0 && s.Notices == 0 {
		return fmt.Sprintf("All %d checks passed.", s.Passed)
	}
	return fmt.Sprintf("%d problem(s), %d notice(s), %d check(s) passed.", s.Problems, s.Notices, s.Passed)
}

// ResultBuilder helps construct Result objects
type ResultBuilder struct {
	result *Result
}

// NewResultBuilder creates a new ResultBuilder
func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{
		result: &Result{
			Findings: []Finding{},
			OK:       []string{},
			Metadata: ResultMetadata{
				StartTime: time.Now(),
				Sources:   make(map[sources.ID]string),
			},
		},
	}
}

// WithFinding adds a finding
func (b *ResultBuilder) WithFinding(f Finding) *ResultBuilder {
	b.result.Findings = append(b.result.Findings, f)
	return b
}

// WithOK records a check that passed
func (b *ResultBuilder) WithOK(line string) *ResultBuilder {
	b.result.OK = append(b.result.OK, line)
	return b
}

// WithStatusListing sets the per-status member listing
func (b *ResultBuilder) WithStatusListing(blocks []Block) *ResultBuilder {
	b.result.StatusListing = blocks
	return b
}

// WithIdentity sets the identity anomalies
func (b *ResultBuilder) WithIdentity(a identity.Anomalies) *ResultBuilder {
	b.result.Identity = a
	return b
}

// WithSource records the file a source was read from
func (b *ResultBuilder) WithSource(id sources.ID, file string) *ResultBuilder {
	b.result.Metadata.Sources[id] = file
	return b
}

// WithDetail records whether fee drift was itemized
func (b *ResultBuilder) WithDetail(detail bool) *ResultBuilder {
	b.result.Metadata.Detail = detail
	return b
}

// WithStatistics sets the input counts
func (b *ResultBuilder) WithStatistics(stats ResultStatistics) *ResultBuilder {
	b.result.Metadata.Stats = stats
	return b
}

// Build finalizes and returns the Result
func (b *ResultBuilder) Build() *Result {
	r := b.result
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)

	r.Metadata.Stats.Problems, r.Metadata.Stats.Notices = 0, 0
	for _, f := range r.Findings {
		if f.IsProblem() {
			r.Metadata.Stats.Problems++
		} else {
			r.Metadata.Stats.Notices++
		}
	}
	r.Metadata.Stats.Passed = len(r.OK)
	return r
}
