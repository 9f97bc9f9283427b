package reconcile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bolinasrbc/spotcheck/pkg/differ"
	"github.com/bolinasrbc/spotcheck/pkg/members"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

func (r *run) ok(line string) {
	r.builder.WithOK(line)
}

func (r *run) report(f Finding) {
	r.builder.WithFinding(f)
}

func malformedLines(entries []members.Malformed) []string {
	out := make([]string, len(entries))
	for i, m := range entries {
		out[i] = m.String()
	}
	return out
}

func (r *run) checkMalformed() {
	var parts []Block
	add := func(title, file string, entries []members.Malformed) {
		if len(entries) > 0 {
			parts = append(parts, Block{Title: fmt.Sprintf("%s (%s)", title, file), Lines: malformedLines(entries)})
		}
	}
	add("Member ledger", r.in.Ledger.File, r.in.Ledger.Malformed)
	add("Contacts", r.in.Contacts.File, r.in.Contacts.Malformed)
	add("Applicant file", r.in.Applicants.File, r.in.Applicants.BadLines)
	add("Fee ledger", r.in.Fees.File, r.in.Fees.BadLines)

	if len(parts) == 0 {
		r.ok("No malformed records found.")
		return
	}
	r.report(Finding{
		Check:    CheckMalformed,
		Section:  SectionMalformed,
		Severity: SeverityRecord,
		Title:    "Malformed Records",
		Parts:    parts,
	})
}

func (r *run) checkIdentity() {
	a := r.builder.result.Identity
	if a.Empty() {
		r.ok("No dangling or shared emails.")
		return
	}
	add := func(title string, severity Severity, lines []string) {
		if len(lines) > 0 {
			r.report(Finding{
				Check:    CheckIdentity,
				Section:  SectionIdentity,
				Severity: severity,
				Title:    title,
				Lines:    lines,
			})
		}
	}
	add("Dangling Member Email(s)", SeverityAnomaly, a.DanglingLedger)
	add("Dangling Contact Email(s)", SeverityAnomaly, a.DanglingContacts)
	add("Shared Emails (in both Membership Data & Contacts)", SeverityNotice, a.SharedInBoth)
	add("Shared Member Email(s)", SeverityAnomaly, a.SharedLedger)
	add("Shared Contact Email(s)", SeverityAnomaly, a.SharedContacts)
}

// checkEmailCoverage lists resolved member emails the contacts export
// lacks. Emails the contacts set aside as shared or dangling are still
// present there and so are not reported again.
func (r *run) checkEmailCoverage() {
	var missing []string
	for _, email := range r.ledger.Emails() {
		if _, ok := r.in.Contacts.ByEmail[email]; !ok {
			missing = append(missing, fmt.Sprintf("%s (%s)", email, r.ledger.Resolved[email]))
		}
	}
	if len(missing) == 0 {
		r.ok("No emails missing from contacts.")
		return
	}
	r.report(Finding{
		Check:    CheckEmailCoverage,
		Section:  SectionEmail,
		Severity: SeverityStructural,
		Title:    "Emails Missing from Contacts",
		Lines:    missing,
	})
}

func (r *run) checkNonMembers() {
	var extra []string
	for _, email := range r.contacts.Emails() {
		if _, ok := r.in.Ledger.ByEmail[email]; !ok {
			extra = append(extra, fmt.Sprintf("%s (%s)", email, r.contacts.Resolved[email]))
		}
	}
	if len(extra) == 0 {
		r.ok("No contacts that are not members.")
		return
	}
	r.report(Finding{
		Check:    CheckNonMembers,
		Section:  SectionEmail,
		Severity: SeverityNotice,
		Title:    "Contacts that are Not Members",
		Lines:    extra,
	})
}

func (r *run) checkEmailNames() {
	var lines []string
	for _, email := range r.ledger.Emails() {
		contact, ok := r.contacts.Resolved[email]
		if !ok {
			continue
		}
		if member := r.ledger.Resolved[email]; member != contact {
			lines = append(lines, fmt.Sprintf("%s: %s != %s", email, member, contact))
		}
	}
	if len(lines) == 0 {
		r.ok("Names agree for every email in both sources.")
		return
	}
	r.report(Finding{
		Check:    CheckEmailNames,
		Section:  SectionEmail,
		Severity: SeverityNotice,
		Title:    "Email Name Mismatches",
		Lines:    lines,
	})
}

// checkWithoutEmail lists members with no email in the ledger, and
// members whose contact entry has none.
func (r *run) checkWithoutEmail() {
	var contacts []string
	for _, key := range r.in.Contacts.WithoutEmail {
		if _, ok := r.in.Ledger.Member(key); ok {
			contacts = append(contacts, key)
		}
	}
	ledger := slices.Clone(r.in.Ledger.WithoutEmail)
	slices.Sort(ledger)
	slices.Sort(contacts)

	if len(ledger) == 0 && len(contacts) == 0 {
		r.ok("Every member has an email on record.")
		return
	}
	var parts []Block
	if len(ledger) > 0 {
		parts = append(parts, Block{Title: "No email in member ledger", Lines: ledger})
	}
	if len(contacts) > 0 {
		parts = append(parts, Block{Title: "No email in contacts", Lines: contacts})
	}
	r.report(Finding{
		Check:    CheckWithoutEmail,
		Section:  SectionEmail,
		Severity: SeverityNotice,
		Title:    "Members without Email",
		Parts:    parts,
	})
}

// applicantIndex restricts the ledger status index to applicant codes.
func applicantIndex(ledger *sources.LedgerDataset) members.Index {
	out := make(members.Index)
	for code, names := range ledger.ByStatus {
		if !members.Status(code).IsApplicant() {
			continue
		}
		for _, name := range names.Sorted() {
			out.Add(code, name)
		}
	}
	return out
}

func (r *run) checkApplicantGroup() {
	group := r.in.Contacts.Group(r.applicantGroup)
	club := members.NewNameSet()
	for _, names := range applicantIndex(r.in.Ledger) {
		club = club.Union(names)
	}

	if group.Equal(club) {
		r.ok("Contacts groups match Club data.")
		return
	}
	r.report(Finding{
		Check:    CheckApplicantGroup,
		Section:  SectionGroups,
		Severity: SeverityStructural,
		Title:    "Mismatch: Contacts groups vs Club data",
		Parts: []Block{
			{Title: fmt.Sprintf("Contacts group %q", r.applicantGroup), Lines: group.Sorted()},
			{Title: "Club status", Lines: club.Sorted()},
			{Title: "Only in contacts", Lines: group.Minus(club)},
			{Title: "Only in club data", Lines: club.Minus(group)},
		},
	})
}

func indexLines(ix members.Index) []string {
	var out []string
	for _, key := range ix.Keys() {
		out = append(out, fmt.Sprintf("%s: %s", key, strings.Join(ix[key].Sorted(), "; ")))
	}
	return out
}

func (r *run) checkApplicantMap() {
	file := r.in.Applicants.ByStatus
	club := applicantIndex(r.in.Ledger)
	if file.Equal(club) {
		r.ok("No applicant problem.")
		return
	}

	var diffs []string
	keys := append(file.Keys(), club.Keys()...)
	slices.Sort(keys)
	for _, key := range slices.Compact(keys) {
		f, c := file.Get(key), club.Get(key)
		if only := f.Minus(c); len(only) > 0 {
			diffs = append(diffs, fmt.Sprintf("%s only in applicant file: %s", key, strings.Join(only, "; ")))
		}
		if only := c.Minus(f); len(only) > 0 {
			diffs = append(diffs, fmt.Sprintf("%s only in club data: %s", key, strings.Join(only, "; ")))
		}
	}
	r.report(Finding{
		Check:    CheckApplicantMap,
		Section:  SectionStatus,
		Severity: SeverityStructural,
		Title:    "Applicant problem",
		Parts: []Block{
			{Title: "Applicant file", Lines: indexLines(file)},
			{Title: "Club data", Lines: indexLines(club)},
			{Title: "Differences", Lines: diffs},
		},
	})
}

// checkGraduates expects every applicant who completed the process to be
// a ledger member who no longer carries an applicant status.
func (r *run) checkGraduates() {
	var missing, pending []string
	for _, key := range r.in.Applicants.Graduated {
		m, ok := r.in.Ledger.Member(key)
		if !ok {
			missing = append(missing, key)
			continue
		}
		for _, s := range m.Statuses {
			if s.IsApplicant() {
				pending = append(pending, fmt.Sprintf("%s: %s", key, s))
			}
		}
	}
	if len(missing) == 0 && len(pending) == 0 {
		r.ok("No graduated applicant problem.")
		return
	}
	slices.Sort(missing)
	slices.Sort(pending)
	r.report(Finding{
		Check:    CheckGraduates,
		Section:  SectionStatus,
		Severity: SeverityStructural,
		Title:    "Graduated applicant problem",
		Parts: []Block{
			{Title: "Not in member ledger", Lines: missing},
			{Title: "Still carrying an applicant status", Lines: pending},
		},
	})
}

func compareCategory(a, b members.Category) int {
	cats := members.Categories()
	return slices.Index(cats, a) - slices.Index(cats, b)
}

func compareFeeKey(a, b members.FeeKey) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return compareCategory(a.Category, b.Category)
}

func amountEqual(a, b members.Amount) bool {
	return a.Equal(b)
}

func feeKeyMap(fees []members.Fee) map[members.FeeKey]members.Amount {
	out := make(map[members.FeeKey]members.Amount, len(fees))
	for _, f := range fees {
		out[f.Key()] = f.Amount
	}
	return out
}

func categoryMap(byCategory map[members.Category][]members.Fee) map[members.Category]map[members.FeeKey]members.Amount {
	out := make(map[members.Category]map[members.FeeKey]members.Amount, len(byCategory))
	for c, fees := range byCategory {
		out[c] = feeKeyMap(fees)
	}
	return out
}

func ledgerFees(ledger *sources.LedgerDataset) []members.Fee {
	var out []members.Fee
	for _, fees := range ledger.FeesByName {
		out = append(out, fees...)
	}
	return out
}

func feeLine(k members.FeeKey, a members.Amount) string {
	f := members.Fee{Name: k.Name, Category: k.Category, Amount: a}
	return fmt.Sprintf("%s: %s", k.Name, f.Charge())
}

// checkFees compares the fee ledger (left) with the member ledger (right)
// first by category, then by (name, category). Differing key sets are
// structural; equal keys with different amounts are soft drift.
func (r *run) checkFees() {
	byCategory := differ.Maps(
		categoryMap(r.in.Fees.ByCategory),
		categoryMap(r.in.Ledger.FeesByCategory),
		compareCategory,
		func(a, b map[members.FeeKey]members.Amount) bool {
			return !differ.Maps(a, b, compareFeeKey, amountEqual).HasChanges()
		},
	)
	left, right := feeKeyMap(r.in.Fees.Fees), feeKeyMap(ledgerFees(r.in.Ledger))
	byName := differ.Maps(left, right, compareFeeKey, amountEqual)
	r.logger.Debug().
		Stringer("by_category", byCategory).
		Stringer("by_name", byName).
		Msg("Compared fees")

	if byCategory.KeysDiffer() {
		r.report(Finding{
			Check:    CheckFeeCategory,
			Section:  SectionFees,
			Severity: SeverityStructural,
			Title:    "Fees problem (by fee category)",
			Parts: []Block{
				{Title: "Only in fee ledger", Lines: differ.Format(byCategory.OnlyLeft)},
				{Title: "Only in member ledger", Lines: differ.Format(byCategory.OnlyRight)},
			},
		})
	} else {
		r.ok("No fees by category problem.")
	}

	if byName.KeysDiffer() {
		only := func(keys []members.FeeKey, amounts map[members.FeeKey]members.Amount) []string {
			out := make([]string, len(keys))
			for i, k := range keys {
				out[i] = feeLine(k, amounts[k])
			}
			return out
		}
		r.report(Finding{
			Check:    CheckFeeName,
			Section:  SectionFees,
			Severity: SeverityStructural,
			Title:    "Fees problem (by name)",
			Parts: []Block{
				{Title: "Only in fee ledger", Lines: only(byName.OnlyLeft, left)},
				{Title: "Only in member ledger", Lines: only(byName.OnlyRight, right)},
			},
		})
	} else {
		r.ok("No fees by name problem.")
	}

	var drift []string
	// Name-level key differences already explain any category value drift.
	if len(byCategory.Changed) > 0 && !byName.KeysDiffer() {
		drift = append(drift, "Fee amounts (by category) don't match")
	}
	if len(byName.Changed) > 0 {
		if r.detail {
			drift = append(drift, "Fee amounts don't match")
		} else {
			drift = append(drift, "Fee amounts don't match (try --detail for details)")
		}
	}
	if len(drift) == 0 {
		return
	}
	finding := Finding{
		Check:    CheckFeeDrift,
		Section:  SectionDrift,
		Severity: SeveritySoft,
		Title:    "Acceptable Inconsistency",
		Lines:    drift,
	}
	if r.detail && len(byName.Changed) > 0 {
		finding.Parts = []Block{{
			Title: "Fee Disparities: probably some have paid",
			Lines: r.disparities(byName.Changed),
		}}
	}
	r.report(finding)
}

// disparities renders "Jones, Bob: [Mooring 500] != [Mooring 250]" once
// per member with drifting amounts, fee ledger first.
func (r *run) disparities(changed []differ.Change[members.FeeKey, members.Amount]) []string {
	charges := func(fees []members.Fee) string {
		sorted := slices.Clone(fees)
		members.SortFees(sorted)
		return "[" + strings.Join(members.Charges(sorted), ", ") + "]"
	}

	var out []string
	seen := make(map[string]bool)
	for _, c := range changed {
		name := c.Key.Name
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, fmt.Sprintf("%s: %s != %s",
			name, charges(r.in.Fees.ByName[name]), charges(r.in.Ledger.FeesByName[name])))
	}
	return out
}

// checkFeeGroups compares each configured contacts fee group with the
// ledger members carrying that fee. A zero balance still counts.
func (r *run) checkFeeGroups() {
	var parts []Block
	for _, c := range members.Categories() {
		group, ok := r.feeGroups[c]
		if !ok {
			continue
		}
		club := members.NewNameSet()
		for _, m := range r.in.Ledger.Members {
			if m.FeeFor(c) != nil {
				club.Add(m.Key())
			}
		}
		contacts := r.in.Contacts.Group(group)
		if contacts.Equal(club) {
			continue
		}
		if only := contacts.Minus(club); len(only) > 0 {
			parts = append(parts, Block{Title: fmt.Sprintf("%s (%s): only in contacts", c, group), Lines: only})
		}
		if only := club.Minus(contacts); len(only) > 0 {
			parts = append(parts, Block{Title: fmt.Sprintf("%s (%s): only in club fees", c, group), Lines: only})
		}
	}
	if len(parts) == 0 {
		r.ok("Contacts fee groups match Club fees.")
		return
	}
	r.report(Finding{
		Check:    CheckFeeGroups,
		Section:  SectionGroups,
		Severity: SeverityStructural,
		Title:    "Mismatch: Contacts fee groups vs Club fees",
		Parts:    parts,
	})
}

// statusListing renders one block per ledger status in code order.
func statusListing(ledger *sources.LedgerDataset) []Block {
	var blocks []Block
	for _, code := range ledger.ByStatus.Keys() {
		blocks = append(blocks, Block{
			Title: members.Status(code).Label(),
			Lines: ledger.ByStatus[code].Sorted(),
		})
	}
	return blocks
}
