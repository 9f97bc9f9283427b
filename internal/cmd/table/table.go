// Package table converts spotcheck data into rows for the table formatter.
package table

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/bolinasrbc/spotcheck/internal/cmd/emoji"
	"github.com/bolinasrbc/spotcheck/pkg/members"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ScheduleFunc returns the scheduled amount for a category, if any.
type ScheduleFunc func(members.Category) (members.Amount, bool)

// FeesToTableData lists fees one per row. When schedule is not nil a
// column marks whether each amount is the scheduled one.
func FeesToTableData(fees []members.Fee, schedule ScheduleFunc) Data {
	headers := []string{"name", "category", "amount"}
	align := []Align{AlignLeft, AlignLeft, AlignRight}
	if schedule != nil {
		headers = append(headers, "scheduled")
		align = append(align, AlignCenter)
	}

	rows := make([][]string, 0, len(fees))
	for _, f := range fees {
		row := []string{f.Name, string(f.Category), f.Amount.String()}
		if schedule != nil {
			row = append(row, scheduledMark(f, schedule))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

func scheduledMark(f members.Fee, schedule ScheduleFunc) string {
	standard, ok := schedule(f.Category)
	switch {
	case !ok:
		return emoji.Optional
	case standard.Equal(f.Amount):
		return emoji.Success
	default:
		return emoji.Warning
	}
}

// FeesByCategoryToTableData summarizes fees per category in category order.
func FeesByCategoryToTableData(byCategory map[members.Category][]members.Fee) Data {
	rows := make([][]string, 0, len(byCategory))
	for _, c := range members.Categories() {
		fees := byCategory[c]
		if len(fees) == 0 {
			continue
		}
		total := members.NewAmount(0)
		for _, f := range fees {
			total = members.Amount{Decimal: total.Add(f.Amount.Decimal)}
		}
		rows = append(rows, []string{string(c), strconv.Itoa(len(fees)), total.String()})
	}
	return Data{
		Headers:         []string{"category", "payers", "total"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight},
	}
}

// ApplicantsToTableData lists applicants ordered by status, then name.
func ApplicantsToTableData(applicants []members.Applicant) Data {
	sorted := slices.Clone(applicants)
	slices.SortFunc(sorted, func(a, b members.Applicant) int {
		return cmp.Or(cmp.Compare(a.Status, b.Status), cmp.Compare(a.Key(), b.Key()))
	})

	rows := make([][]string, 0, len(sorted))
	for _, a := range sorted {
		if a.Expired {
			continue
		}
		rows = append(rows, []string{string(a.Status), a.Status.Description(), a.Key(), strconv.Itoa(a.Line)})
	}
	return Data{
		Headers:         []string{"status", "description", "name", "line"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignRight},
	}
}

// MalformedToTableData lists diverted lines.
func MalformedToTableData(entries []members.Malformed) Data {
	rows := make([][]string, 0, len(entries))
	for _, m := range entries {
		rows = append(rows, []string{strconv.Itoa(m.Line), m.Name, m.Reason})
	}
	return Data{
		Headers:         []string{"line", "name", "reason"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
}

// NamesToTableData lists names in a single column.
func NamesToTableData(header string, names []string) Data {
	rows := make([][]string, len(names))
	for i, n := range names {
		rows[i] = []string{n}
	}
	return Data{Headers: []string{header}, Rows: rows}
}
