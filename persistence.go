package spotcheck

import (
	"context"

	"github.com/bolinasrbc/spotcheck/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ Exporter = (*client)(nil)

// Exporter writes files derived from the sources.
type Exporter interface {
	// ExportFees writes the name -> ["Category amount"] mapping of the
	// extra fees ledger as JSON to path.
	ExportFees(ctx context.Context, path string) error
}

// ExportFees implements Exporter.
func (c *client) ExportFees(ctx context.Context, path string) error {
	if path == "" {
		return &errors.ValidationError{Field: "fees_json", Message: "path cannot be empty"}
	}
	fees, err := c.Fees(ctx)
	if err != nil {
		return err
	}
	return fees.SaveJSON(path)
}
