// Package identity resolves the email -> names indexes built by the
// gatherers into one name per email, setting aside the emails that
// cannot take part in a one-to-one comparison.
package identity

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/bolinasrbc/spotcheck/pkg/constants"
	"github.com/bolinasrbc/spotcheck/pkg/members"
)

// SharedEmail is an email filed under more than one name.
type SharedEmail struct {
	Email string   `json:"email" yaml:"email"`
	Names []string `json:"names" yaml:"names"`
}

// String renders "x@example.com <== [Smith, Ann; Smyth, Ann]".
func (s SharedEmail) String() string {
	return fmt.Sprintf("%s <== [%s]", s.Email, strings.Join(s.Names, constants.SharedNamesSeparator))
}

// Resolution is one source's email index after resolution.
type Resolution struct {
	// Resolved maps every unambiguous email to its single name.
	Resolved map[string]string `json:"resolved" yaml:"resolved"`

	// Dangling lists emails filed under no name at all.
	Dangling []string `json:"dangling,omitempty" yaml:"dangling,omitempty"`

	// Shared lists emails filed under two or more names.
	Shared []SharedEmail `json:"shared,omitempty" yaml:"shared,omitempty"`
}

// Resolve classifies every email in index by how many names it carries.
// The index is not modified. Dangling and shared emails are left out of
// Resolved; every list is sorted so the result depends only on the input.
func Resolve(index members.Index) Resolution {
	r := Resolution{Resolved: make(map[string]string, len(index))}

	for _, email := range slices.Sorted(maps.Keys(index)) {
		names := index[email]
		switch names.Len() {
		case 0:
			r.Dangling = append(r.Dangling, email)
		case 1:
			r.Resolved[email] = names.Sorted()[0]
		default:
			r.Shared = append(r.Shared, SharedEmail{Email: email, Names: names.Sorted()})
		}
	}
	return r
}

// SharedStrings renders Shared in report form.
func (r Resolution) SharedStrings() []string {
	out := make([]string, len(r.Shared))
	for i, s := range r.Shared {
		out[i] = s.String()
	}
	return out
}

// Emails returns the resolved emails in ascending order.
func (r Resolution) Emails() []string {
	return slices.Sorted(maps.Keys(r.Resolved))
}

// Anomalies is the second pass over the ledger and contacts resolutions.
type Anomalies struct {
	DanglingLedger   []string `json:"dangling_ledger,omitempty" yaml:"dangling_ledger,omitempty"`
	DanglingContacts []string `json:"dangling_contacts,omitempty" yaml:"dangling_contacts,omitempty"`

	// SharedInBoth holds the shared emails when both sources agree on them
	// exactly. Such sharing is expected, e.g. a couple with one inbox.
	SharedInBoth []string `json:"shared_in_both,omitempty" yaml:"shared_in_both,omitempty"`

	// SharedLedger and SharedContacts are set when the sources disagree.
	SharedLedger   []string `json:"shared_ledger,omitempty" yaml:"shared_ledger,omitempty"`
	SharedContacts []string `json:"shared_contacts,omitempty" yaml:"shared_contacts,omitempty"`
}

// Compare relates the ledger and contacts resolutions.
func Compare(ledger, contacts Resolution) Anomalies {
	a := Anomalies{
		DanglingLedger:   ledger.Dangling,
		DanglingContacts: contacts.Dangling,
	}

	ls, cs := ledger.SharedStrings(), contacts.SharedStrings()
	switch {
	case len(ls) == 0 && len(cs) == 0:
	case slices.Equal(ls, cs):
		a.SharedInBoth = ls
	default:
		a.SharedLedger = ls
		a.SharedContacts = cs
	}
	return a
}

// Empty reports whether no anomaly of any kind was found.
func (a Anomalies) Empty() bool {
	return len(a.DanglingLedger) == 0 && len(a.DanglingContacts) == 0 &&
		len(a.SharedInBoth) == 0 && len(a.SharedLedger) == 0 && len(a.SharedContacts) == 0
}
