package members

import "fmt"

// Member is one row of the primary ledger. It is never mutated after
// the ledger gatherer builds it.
type Member struct {
	Name     Name     `json:"name" yaml:"name" validate:"required"`
	Email    string   `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Statuses []Status `json:"statuses,omitempty" yaml:"statuses,omitempty"`
	Dues     *Amount  `json:"dues,omitempty" yaml:"dues,omitempty"`
	Dock     *Amount  `json:"dock,omitempty" yaml:"dock,omitempty"`
	Kayak    *Amount  `json:"kayak,omitempty" yaml:"kayak,omitempty"`
	Mooring  *Amount  `json:"mooring,omitempty" yaml:"mooring,omitempty"`
	Line     int      `json:"line" yaml:"line"`
}

// Key returns the member's "Last, First" key.
func (m Member) Key() string {
	return m.Name.Key()
}

// Fees returns the extra fees that apply to m in category order.
// A zero balance is a fee; an empty ledger field is not.
func (m Member) Fees() []Fee {
	var fees []Fee
	for _, c := range Categories() {
		if a := m.FeeFor(c); a != nil {
			fees = append(fees, Fee{Name: m.Key(), Category: c, Amount: *a})
		}
	}
	return fees
}

// FeeFor returns the ledger amount for c or nil when not applicable.
func (m Member) FeeFor(c Category) *Amount {
	switch c {
	case Dock:
		return m.Dock
	case Kayak:
		return m.Kayak
	case Mooring:
		return m.Mooring
	}
	return nil
}

// HasStatus reports whether s is among m's statuses.
func (m Member) HasStatus(s Status) bool {
	for _, have := range m.Statuses {
		if have == s {
			return true
		}
	}
	return false
}

// Contact is one row of the contacts export.
type Contact struct {
	Name   Name     `json:"name" yaml:"name"`
	Email  string   `json:"email,omitempty" yaml:"email,omitempty"`
	Groups []string `json:"groups,omitempty" yaml:"groups,omitempty"`
	Line   int      `json:"line" yaml:"line"`
}

// Key returns the contact's "Last, First" key.
func (c Contact) Key() string {
	return c.Name.Key()
}

// Applicant is one line of the applicant ledger.
type Applicant struct {
	Name    Name     `json:"name" yaml:"name"`
	Status  Status   `json:"status,omitempty" yaml:"status,omitempty"`
	Fields  []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Expired bool     `json:"expired,omitempty" yaml:"expired,omitempty"`
	Line    int      `json:"line" yaml:"line"`
}

// Key returns the applicant's "Last, First" key.
func (a Applicant) Key() string {
	return a.Name.Key()
}

// Malformed describes a record that was diverted instead of indexed.
type Malformed struct {
	Line   int    `json:"line" yaml:"line"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Reason string `json:"reason" yaml:"reason"`
}

// String renders "line 4: Jones, Bob: reason".
func (m Malformed) String() string {
	if m.Name != "" {
		return fmt.Sprintf("line %d: %s: %s", m.Line, m.Name, m.Reason)
	}
	return fmt.Sprintf("line %d: %s", m.Line, m.Reason)
}
