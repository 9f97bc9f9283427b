package sources

import (
	"bufio"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bolinasrbc/spotcheck/pkg/constants"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/members"
)

// FeesDataset is the extra fees ledger indexed by name and by category.
type FeesDataset struct {
	File string
	Fees []members.Fee

	ByName     map[string][]members.Fee
	ByCategory map[members.Category][]members.Fee

	// BadLines lists charges set aside: a name with more than two words,
	// or a repeated charge. Only the first charge for a name and category
	// is indexed.
	BadLines []members.Malformed
}

// Err reports set-aside charges as a non-fatal *errors.MalformedError.
func (d *FeesDataset) Err() error {
	return malformedErr(FeesID, d.BadLines)
}

// GatherFees reads the extra fees ledger at path.
func GatherFees(ctx context.Context, path string) (*FeesDataset, error) {
	var ds *FeesDataset
	err := readSource(ctx, FeesID, path, func(r io.Reader, name string) error {
		var err error
		ds, err = ReadFees(ctx, r, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// ReadFees parses the fees ledger. Category headers end in ":" and name
// one of the fee categories; every other non-blank line must read
// "First Last: amount". Anything else loses the category context and
// is a fatal *errors.ParseError. Ambiguous names and repeated charges
// keep the shape and go to BadLines instead.
func ReadFees(ctx context.Context, r io.Reader, name string) (*FeesDataset, error) {
	ds := &FeesDataset{
		File:       name,
		ByName:     make(map[string][]members.Fee),
		ByCategory: make(map[members.Category][]members.Fee),
	}

	var category members.Category
	seen := make(map[members.FeeKey]int)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if strings.HasSuffix(text, ":") {
			c, ok := headerCategory(strings.TrimSuffix(text, ":"))
			if !ok {
				return nil, errors.NewParseError("fees", name, line, "header names no fee category: "+text)
			}
			category = c
			continue
		}

		if category == "" {
			return nil, errors.NewParseError("fees", name, line, "fee listed before any category header: "+text)
		}
		fee, err := parseFeeLine(text, category)
		if stderrors.Is(err, members.ErrAmbiguousName) {
			ds.BadLines = append(ds.BadLines, members.Malformed{Line: line, Reason: err.Error()})
			continue
		}
		if err != nil {
			return nil, errors.NewParseError("fees", name, line, err.Error())
		}
		if first, dup := seen[fee.Key()]; dup {
			ds.BadLines = append(ds.BadLines, members.Malformed{
				Line:   line,
				Name:   fee.Name,
				Reason: fmt.Sprintf("second %s charge %s, first on line %d", fee.Category, fee.Amount, first),
			})
			continue
		}
		seen[fee.Key()] = line
		ds.add(fee)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	logging.FromContext(ctx).Debug().
		Str("source", FeesID.String()).
		Int("fees", len(ds.Fees)).
		Int("payers", len(ds.ByName)).
		Int("bad_lines", len(ds.BadLines)).
		Msg("Gathered fees")

	return ds, nil
}

func (d *FeesDataset) add(fee members.Fee) {
	d.Fees = append(d.Fees, fee)
	d.ByName[fee.Name] = append(d.ByName[fee.Name], fee)
	d.ByCategory[fee.Category] = append(d.ByCategory[fee.Category], fee)
}

func headerCategory(text string) (members.Category, bool) {
	for _, word := range strings.Fields(text) {
		if c, ok := members.ParseCategory(strings.Trim(word, "()[],.")); ok {
			return c, true
		}
	}
	return "", false
}

func parseFeeLine(text string, category members.Category) (members.Fee, error) {
	i := strings.LastIndex(text, ":")
	if i < 0 {
		return members.Fee{}, errors.NewValidationError("line", text, `expected "First Last: amount"`)
	}
	name, err := members.ParseName(text[:i])
	if err != nil {
		return members.Fee{}, err
	}
	amount, err := members.ParseAmount(text[i+1:])
	if err != nil {
		return members.Fee{}, err
	}
	return members.Fee{Name: name.Key(), Category: category, Amount: amount}, nil
}

// ChargesByName renders name -> ["Mooring 500", ...], each list in
// category order.
func (d *FeesDataset) ChargesByName() map[string][]string {
	out := make(map[string][]string, len(d.ByName))
	for name, fees := range d.ByName {
		sorted := append([]members.Fee(nil), fees...)
		members.SortFees(sorted)
		out[name] = members.Charges(sorted)
	}
	return out
}

// WriteJSON writes ChargesByName as indented JSON to w.
func (d *FeesDataset) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d.ChargesByName())
}

// SaveJSON writes ChargesByName to path, creating its directory if needed.
func (d *FeesDataset) SaveJSON(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", filepath.Dir(expanded), err)
	}
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", expanded, err)
	}
	if err := d.WriteJSON(f); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", expanded, err)
	}
	return errors.WrapIO("close", expanded, f.Close())
}
