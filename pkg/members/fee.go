package members

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bolinasrbc/spotcheck/pkg/errors"
)

// Category is one of the fixed extra fee categories.
type Category string

// Extra fee categories in ledger column order.
const (
	Dock    Category = "Dock"
	Kayak   Category = "Kayak"
	Mooring Category = "Mooring"
)

// Categories returns the fixed categories in display order.
func Categories() []Category {
	return []Category{Dock, Kayak, Mooring}
}

// ParseCategory matches a word against the categories, case-insensitively.
func ParseCategory(word string) (Category, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(word, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Amount is a dollar amount. It wraps decimal.Decimal so that "75" and
// "75.00" compare equal.
type Amount struct {
	decimal.Decimal
}

// NewAmount returns an amount of whole dollars.
func NewAmount(dollars int64) Amount {
	return Amount{decimal.NewFromInt(dollars)}
}

// ParseAmount parses a plain or "$"-prefixed decimal number.
func ParseAmount(s string) (Amount, error) {
	clean := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Amount{}, errors.NewValidationError("amount", s, "not a number")
	}
	return Amount{d}, nil
}

// ParseOptionalAmount returns nil for an empty field: not applicable,
// which is different from a zero balance.
func ParseOptionalAmount(s string) (*Amount, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	a, err := ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Equal compares by value.
func (a Amount) Equal(other Amount) bool {
	return a.Decimal.Equal(other.Decimal)
}

// String renders the amount without trailing zeros.
func (a Amount) String() string {
	return a.Decimal.String()
}

// Fee is one extra charge against one person.
type Fee struct {
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	Amount   Amount   `json:"amount" yaml:"amount"`
}

// Key identifies the charge independent of its amount.
func (f Fee) Key() FeeKey {
	return FeeKey{Name: f.Name, Category: f.Category}
}

// Charge renders "Mooring 500", the form used in listings and JSON export.
func (f Fee) Charge() string {
	return fmt.Sprintf("%s %s", f.Category, f.Amount)
}

// FeeKey is the (name, category) pair whose presence both fee sources must agree on.
type FeeKey struct {
	Name     string
	Category Category
}

// String implements fmt.Stringer.
func (k FeeKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Name, k.Category)
}

// SortFees orders fees by name, then category order.
func SortFees(fees []Fee) {
	slices.SortFunc(fees, func(a, b Fee) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return categoryRank(a.Category) - categoryRank(b.Category)
	})
}

// Charges renders a list of fees as "Dock 75, Mooring 500" strings.
func Charges(fees []Fee) []string {
	out := make([]string, len(fees))
	for i, f := range fees {
		out[i] = f.Charge()
	}
	return out
}

func categoryRank(c Category) int {
	return slices.Index(Categories(), c)
}
