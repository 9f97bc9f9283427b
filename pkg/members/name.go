package members

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/bolinasrbc/spotcheck/pkg/constants"
	"github.com/bolinasrbc/spotcheck/pkg/errors"
)

// Name is a person's first and last name as recorded in a source.
type Name struct {
	First string `json:"first" yaml:"first" validate:"required"`
	Last  string `json:"last" yaml:"last" validate:"required"`
}

// NewName normalizes both parts.
func NewName(first, last string) Name {
	return Name{First: NormalizeName(first), Last: NormalizeName(last)}
}

// ErrAmbiguousName is returned by ParseName for text with more than two
// words, where "Mary Ann Smith" and "Anne Van Dyke" cannot be told apart.
var ErrAmbiguousName = errors.New("ambiguous name")

// ParseName splits "First Last" text from the applicant and fee ledgers.
// Exactly two words are accepted. Fewer is a *errors.ValidationError and
// more wraps ErrAmbiguousName.
func ParseName(text string) (Name, error) {
	tokens := strings.Fields(text)
	switch {
	case len(tokens) < 2:
		return Name{}, errors.NewValidationError("name", text, "expected first and last name")
	case len(tokens) > 2:
		return Name{}, fmt.Errorf("%w: %q has more than two words", ErrAmbiguousName, strings.Join(tokens, " "))
	}
	return NewName(tokens[0], tokens[1]), nil
}

// Key returns the canonical "Last, First" key used by every index.
func (n Name) Key() string {
	return n.Last + constants.NameKeySeparator + n.First
}

// String implements fmt.Stringer.
func (n Name) String() string {
	return n.Key()
}

// NormalizeName collapses runs of whitespace and applies Unicode NFC so that
// names typed on different systems produce identical keys.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
