// Package spotcheck checks the club's membership sources against each other.
//
// The club keeps its membership data in four independently maintained
// files: the member ledger, the Google contacts export, the applicant
// ledger and the extra fees ledger. A Client gathers all four, resolves
// member identities by email and reports every inconsistency it finds.
//
// Example usage:
//
//	sc, err := spotcheck.New(
//	    spotcheck.WithLedgerPath("Data/memlist.csv"),
//	    spotcheck.WithDetail(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sc.OnFinding(func(f reconcile.Finding) {
//	    log.Printf("%s: %s", f.Severity, f.Title)
//	})
//
//	result, err := sc.Check(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.Write(os.Stdout, result, report.Options{})
package spotcheck

import (
	"context"

	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

// Client runs reconciliation passes over the configured sources.
type Client interface {
	// Gatherer reads the individual sources
	Gatherer

	// Checker runs the full reconciliation
	Checker

	// Exporter writes derived files
	Exporter

	// Hooks provides access to finding callbacks
	Hooks

	// Paths returns the configured source paths
	Paths() sources.Paths
}

// Checker runs one reconciliation pass.
type Checker interface {
	Check(ctx context.Context) (*reconcile.Result, error)
}

// client is the internal implementation of the Client interface.
type client struct {
	options    *options
	comparator reconcile.Comparator
	hooks      *hooks
}

// New creates a new Client with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	comparator, err := reconcile.New(o.comparatorOptions()...)
	if err != nil {
		return nil, err
	}

	return &client{
		options:    o,
		comparator: comparator,
		hooks:      newHooks(),
	}, nil
}

// Paths returns the configured source paths.
func (c *client) Paths() sources.Paths {
	return c.options.paths
}
