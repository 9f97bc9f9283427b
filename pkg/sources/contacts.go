package sources

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/bolinasrbc/spotcheck/pkg/constants"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/logging"
	"github.com/bolinasrbc/spotcheck/pkg/members"
)

// Contacts export column names.
const (
	colGivenName      = "Given Name"
	colAdditionalName = "Additional Name"
	colFamilyName     = "Family Name"
	colNameSuffix     = "Name Suffix"
	colContactEmail   = "E-mail 1 - Value"
	colGroups         = "Group Membership"
)

var contactColumns = []string{colGivenName, colAdditionalName, colFamilyName, colNameSuffix, colContactEmail, colGroups}

// ContactsDataset is the contacts export indexed the same way as the ledger.
type ContactsDataset struct {
	File     string
	Contacts []members.Contact

	ByEmail members.Index
	ByGroup members.Index

	// WithoutEmail lists contacts with no primary email.
	WithoutEmail []string

	Malformed []members.Malformed
}

// Err reports diverted rows as a non-fatal *errors.MalformedError.
func (d *ContactsDataset) Err() error {
	return malformedErr(ContactsID, d.Malformed)
}

// Group returns the names tagged with group; an unknown group is empty.
func (d *ContactsDataset) Group(group string) members.NameSet {
	return d.ByGroup.Get(group)
}

// GatherContacts reads the contacts export at path.
func GatherContacts(ctx context.Context, path string) (*ContactsDataset, error) {
	var ds *ContactsDataset
	err := readSource(ctx, ContactsID, path, func(r io.Reader, name string) error {
		var err error
		ds, err = ReadContacts(ctx, r, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// ReadContacts parses a contacts CSV export from r.
func ReadContacts(ctx context.Context, r io.Reader, name string) (*ContactsDataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewParseError("csv", name, 0, "missing header row")
		}
		return nil, errors.WrapParse("csv", name, err)
	}
	cols, err := columnIndex(header, contactColumns, name)
	if err != nil {
		return nil, err
	}

	ds := &ContactsDataset{
		File:    name,
		ByEmail: members.Index{},
		ByGroup: members.Index{},
	}
	log := logging.FromContext(ctx)

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

		if len(record) < len(header) {
			ds.Malformed = append(ds.Malformed, members.Malformed{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, found %d", len(header), len(record)),
			})
			continue
		}

		c := parseContact(record, cols, line)
		key := c.Key()
		if c.Name.First == "" && c.Name.Last == "" {
			if c.Email == "" {
				log.Debug().Int("line", line).Msg("Skipping contact with neither name nor email")
				continue
			}
			// An unnamed contact is still an inbox that can be compared.
			key = c.Email
		}
		ds.add(c, key)
	}

	log.Debug().
		Str("source", ContactsID.String()).
		Int("contacts", len(ds.Contacts)).
		Int("groups", len(ds.ByGroup)).
		Msg("Gathered contacts")

	return ds, nil
}

func (d *ContactsDataset) add(c members.Contact, key string) {
	d.Contacts = append(d.Contacts, c)
	if c.Email != "" {
		d.ByEmail.Add(c.Email, key)
	} else {
		d.WithoutEmail = append(d.WithoutEmail, key)
	}
	for _, g := range c.Groups {
		d.ByGroup.Add(g, key)
	}
}

func parseContact(record []string, cols map[string]int, line int) members.Contact {
	field := func(col string) string {
		return strings.TrimSpace(record[cols[col]])
	}
	return members.Contact{
		Name: members.NewName(
			field(colGivenName)+" "+field(colAdditionalName),
			field(colFamilyName)+" "+field(colNameSuffix),
		),
		Email:  members.NormalizeEmail(field(colContactEmail)),
		Groups: ParseGroups(field(colGroups)),
		Line:   line,
	}
}

// ParseGroups splits a group membership field and drops the trailing
// default contact list marker.
func ParseGroups(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, constants.GroupSeparator)
	if n := len(parts); n > 0 && strings.TrimSpace(parts[n-1]) == constants.DefaultContactsGroup {
		parts = parts[:n-1]
	}
	groups := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			groups = append(groups, p)
		}
	}
	return groups
}
