package sources

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/members"
)

// Ledger column names.
const (
	colFirst   = "first"
	colLast    = "last"
	colEmail   = "email"
	colStatus  = "status"
	colDues    = "dues"
	colDock    = "dock"
	colKayak   = "kayak"
	colMooring = "mooring"
)

var ledgerColumns = []string{colFirst, colLast, colEmail, colStatus, colDues, colDock, colKayak, colMooring}

// LedgerDataset is the member ledger with every index built in one pass.
type LedgerDataset struct {
	File    string
	Members []members.Member

	// ByEmail collects names per email as a set; a well formed ledger has
	// exactly one name per email.
	ByEmail  members.Index
	ByStatus members.Index

	FeesByName     map[string][]members.Fee
	FeesByCategory map[members.Category][]members.Fee

	// WithoutEmail lists members with no email on record.
	WithoutEmail []string

	// Malformed lists rows that were set aside, and notes on rows that
	// were kept with a bad field.
	Malformed []members.Malformed
}

// Err reports diverted rows as a non-fatal *errors.MalformedError.
func (d *LedgerDataset) Err() error {
	return malformedErr(LedgerID, d.Malformed)
}

// Member looks up a member by name key.
func (d *LedgerDataset) Member(key string) (members.Member, bool) {
	for _, m := range d.Members {
		if m.Key() == key {
			return m, true
		}
	}
	return members.Member{}, false
}

// GatherLedger reads the member ledger at path.
func GatherLedger(ctx context.Context, path string) (*LedgerDataset, error) {
	var ds *LedgerDataset
	err := readSource(ctx, LedgerID, path, func(r io.Reader, name string) error {
		var err error
		ds, err = ReadLedger(ctx, r, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// ReadLedger parses ledger CSV from r. name is used in errors and reports.
func ReadLedger(ctx context.Context, r io.Reader, name string) (*LedgerDataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewParseError("csv", name, 0, "missing header row")
		}
		return nil, errors.WrapParse("csv", name, err)
	}
	cols, err := columnIndex(header, ledgerColumns, name)
	if err != nil {
		return nil, err
	}

	ds := &LedgerDataset{
		File:           name,
		ByEmail:        members.Index{},
		ByStatus:       members.Index{},
		FeesByName:     make(map[string][]members.Fee),
		FeesByCategory: make(map[members.Category][]members.Fee),
	}
	seen := make(map[string]int)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if stderrors.As(err, &pe) {
				ds.Malformed = append(ds.Malformed, members.Malformed{Line: pe.StartLine, Reason: pe.Err.Error()})
				continue
			}
			return nil, errors.WrapParse("csv", name, err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) != len(header) {
			ds.Malformed = append(ds.Malformed, members.Malformed{
				Line:   line,
				Name:   rowName(record, cols),
				Reason: fmt.Sprintf("expected %d fields, found %d", len(header), len(record)),
			})
			continue
		}

		m, notes, err := parseMember(record, cols, line)
		if err != nil {
			ds.Malformed = append(ds.Malformed, members.Malformed{Line: line, Name: rowName(record, cols), Reason: err.Error()})
			continue
		}
		if first, dup := seen[m.Key()]; dup {
			ds.Malformed = append(ds.Malformed, members.Malformed{
				Line:   line,
				Name:   m.Key(),
				Reason: fmt.Sprintf("duplicate of line %d", first),
			})
			continue
		}
		seen[m.Key()] = line
		for _, note := range notes {
			ds.Malformed = append(ds.Malformed, members.Malformed{Line: line, Name: m.Key(), Reason: note})
		}
		ds.add(m)
	}

	logging.FromContext(ctx).Debug().
		Str("source", LedgerID.String()).
		Int("members", len(ds.Members)).
		Int("malformed", len(ds.Malformed)).
		Msg("Gathered ledger")

	return ds, nil
}

// add files m in every index.
func (d *LedgerDataset) add(m members.Member) {
	key := m.Key()
	d.Members = append(d.Members, m)

	if m.Email != "" {
		d.ByEmail.Add(m.Email, key)
	} else {
		d.WithoutEmail = append(d.WithoutEmail, key)
	}
	for _, s := range m.Statuses {
		d.ByStatus.Add(s.String(), key)
	}
	for _, fee := range m.Fees() {
		d.FeesByName[key] = append(d.FeesByName[key], fee)
		d.FeesByCategory[fee.Category] = append(d.FeesByCategory[fee.Category], fee)
	}
}

// parseMember builds a member from a row. Only a missing first or last
// name rejects the row. Other bad fields come back as notes: an invalid
// email is kept as recorded, while an unknown status code or an
// unreadable amount is left out.
func parseMember(record []string, cols map[string]int, line int) (members.Member, []string, error) {
	field := func(col string) string {
		return strings.TrimSpace(record[cols[col]])
	}

	m := members.Member{
		Name:  members.NewName(field(colFirst), field(colLast)),
		Email: members.NormalizeEmail(field(colEmail)),
		Line:  line,
	}
	if err := members.Validate(m.Name); err != nil {
		return m, nil, err
	}

	var notes []string
	if err := members.Validate(m); err != nil {
		notes = append(notes, err.Error())
	}

	statuses, unknown := members.ParseStatuses(field(colStatus))
	m.Statuses = statuses
	for _, code := range unknown {
		notes = append(notes, fmt.Sprintf("unknown status code %q ignored", code))
	}

	amounts := []struct {
		col string
		dst **members.Amount
	}{
		{colDues, &m.Dues},
		{colDock, &m.Dock},
		{colKayak, &m.Kayak},
		{colMooring, &m.Mooring},
	}
	for _, a := range amounts {
		v, err := members.ParseOptionalAmount(field(a.col))
		if err != nil {
			notes = append(notes, fmt.Sprintf("%s: %q is not an amount, ignored", a.col, field(a.col)))
			continue
		}
		*a.dst = v
	}
	return m, notes, nil
}

// rowName best-effort names a row for a malformed entry.
func rowName(record []string, cols map[string]int) string {
	get := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	first, last := get(colFirst), get(colLast)
	if first == "" && last == "" {
		return ""
	}
	return members.NewName(first, last).Key()
}

// columnIndex maps required column names to positions, matching headers
// case-insensitively. A missing column is a structural parse error.
func columnIndex(header, required []string, file string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	out := make(map[string]int, len(required))
	for _, col := range required {
		i, ok := cols[strings.ToLower(col)]
		if !ok {
			return nil, errors.NewParseError("csv", file, 1, fmt.Sprintf("missing required column %q", col))
		}
		out[col] = i
	}
	return out, nil
}
