package reconcile_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/members"
	"github.com/bolinasrbc/spotcheck/pkg/reconcile"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

const (
	ledgerHeader   = "first,last,email,status,dues,dock,kayak,mooring\n"
	contactsHeader = "Given Name,Additional Name,Family Name,Name Suffix,Group Membership,E-mail 1 - Value\n"
)

// fixture holds the raw text of the four sources.
type fixture struct {
	ledger     string
	contacts   string
	applicants string
	fees       string
}

func (f fixture) input(t *testing.T) reconcile.Input {
	t.Helper()
	ctx := context.Background()

	ledger, err := sources.ReadLedger(ctx, strings.NewReader(ledgerHeader+f.ledger), "memlist.csv")
	require.NoError(t, err)
	contacts, err := sources.ReadContacts(ctx, strings.NewReader(contactsHeader+f.contacts), "contacts.csv")
	require.NoError(t, err)
	applicants, err := sources.ReadApplicants(ctx, strings.NewReader(f.applicants), "applicants.txt")
	require.NoError(t, err)
	fees, err := sources.ReadFees(ctx, strings.NewReader(f.fees), "extra_fees.txt")
	require.NoError(t, err)

	return reconcile.Input{Ledger: ledger, Contacts: contacts, Applicants: applicants, Fees: fees}
}

func compare(t *testing.T, f fixture, opts ...reconcile.Option) *reconcile.Result {
	t.Helper()
	c, err := reconcile.New(opts...)
	require.NoError(t, err)
	result, err := c.Compare(context.Background(), f.input(t))
	require.NoError(t, err)
	return result
}

// jones is an applicant at two meetings in every source.
var jones = fixture{
	ledger:     "Bob,Jones,bob@example.com,a2,100,,,\n",
	contacts:   "Bob,,Jones,,applicant ::: * myContacts,bob@example.com\n",
	applicants: "Bob Jones | 2024-01-05 | 2024-01-10 | 2024-02-01 | 2024-03-07\n",
}

func TestCompareAllOK(t *testing.T) {
	result := compare(t, jones)

	assert.False(t, result.HasProblems())
	assert.Empty(t, result.Findings)
	assert.Contains(t, result.OK, "Contacts groups match Club data.")
	assert.Contains(t, result.OK, "No applicant problem.")
	assert.Contains(t, result.OK, "No emails missing from contacts.")
	assert.Contains(t, result.OK, "No malformed records found.")
	assert.Contains(t, result.OK, "No dangling or shared emails.")
	assert.Equal(t, 1, result.Metadata.Stats.Members)
	assert.Equal(t, len(result.OK), result.Metadata.Stats.Passed)
	assert.Equal(t, "memlist.csv", result.Metadata.Sources[sources.LedgerID])
	assert.True(t, strings.HasPrefix(result.Summary(), "All "))
}

func TestCompareFeeOnlyInFeeLedgerIsStructural(t *testing.T) {
	f := jones
	f.fees = "Mooring:\nBob Jones: 500\n"

	result := compare(t, f)

	byName, ok := result.Finding(reconcile.CheckFeeName)
	require.True(t, ok)
	assert.Equal(t, reconcile.SeverityStructural, byName.Severity)
	require.Len(t, byName.Parts, 2)
	assert.Equal(t, []string{"Jones, Bob: Mooring 500"}, byName.Parts[0].Lines)
	assert.Empty(t, byName.Parts[1].Lines)

	byCategory, ok := result.Finding(reconcile.CheckFeeCategory)
	require.True(t, ok, "a category in one source only is structural")
	assert.Equal(t, []string{"Mooring"}, byCategory.Parts[0].Lines)

	_, drift := result.Finding(reconcile.CheckFeeDrift)
	assert.False(t, drift, "missing keys are not soft drift")
	assert.True(t, result.HasProblems())
}

func TestCompareSharedContactEmail(t *testing.T) {
	f := fixture{
		ledger: "Ann,Smith,x@example.com,m,100,,,\n",
		contacts: "Ann,,Smith,,LIST ::: * myContacts,x@example.com\n" +
			"Ann,,Smyth,,LIST ::: * myContacts,x@example.com\n",
	}

	result := compare(t, f)

	assert.Equal(t, []string{"x@example.com <== [Smith, Ann; Smyth, Ann]"}, result.Identity.SharedContacts)
	shared, ok := result.Finding(reconcile.CheckIdentity)
	require.True(t, ok)
	assert.Equal(t, "Shared Contact Email(s)", shared.Title)
	assert.Equal(t, reconcile.SeverityAnomaly, shared.Severity)

	assert.Contains(t, result.OK, "No emails missing from contacts.")
	assert.Contains(t, result.OK, "No contacts that are not members.")
}

func TestCompareSharedInBothIsNotice(t *testing.T) {
	f := fixture{
		ledger: "Ann,Smith,x@example.com,m,100,,,\nBen,Smith,x@example.com,m,100,,,\n",
		contacts: "Ann,,Smith,,LIST,x@example.com\n" +
			"Ben,,Smith,,LIST,x@example.com\n",
	}

	result := compare(t, f)

	require.Len(t, result.Findings, 1)
	assert.Equal(t, reconcile.SeverityNotice, result.Findings[0].Severity)
	assert.False(t, result.HasProblems())
}

func TestCompareEmailCoverage(t *testing.T) {
	f := fixture{
		ledger:   "Ann,Smith,ann@example.com,m,100,,,\nKim,Lee,kim@example.com,m,100,,,\n",
		contacts: "Ann,,Smyth,,LIST,ann@example.com\nPat,,Doe,,,pat@example.com\n",
	}

	result := compare(t, f)

	missing, ok := result.Finding(reconcile.CheckEmailCoverage)
	require.True(t, ok)
	assert.Equal(t, []string{"kim@example.com (Lee, Kim)"}, missing.Lines)

	extra, ok := result.Finding(reconcile.CheckNonMembers)
	require.True(t, ok)
	assert.Equal(t, reconcile.SeverityNotice, extra.Severity)
	assert.Equal(t, []string{"pat@example.com (Doe, Pat)"}, extra.Lines)

	names, ok := result.Finding(reconcile.CheckEmailNames)
	require.True(t, ok)
	assert.Equal(t, []string{"ann@example.com: Smith, Ann != Smyth, Ann"}, names.Lines)
}

func TestCompareIdenticalMappingsHaveNoCoverageMismatch(t *testing.T) {
	var ledger, contacts strings.Builder
	for i := range 5 {
		fmt.Fprintf(&ledger, "Pat%d,Doe,p%d@example.com,m,100,,,\n", i, i)
		fmt.Fprintf(&contacts, "Pat%d,,Doe,,,p%d@example.com\n", i, i)
	}

	result := compare(t, fixture{ledger: ledger.String(), contacts: contacts.String()})

	for _, check := range []reconcile.Check{reconcile.CheckEmailCoverage, reconcile.CheckNonMembers, reconcile.CheckEmailNames} {
		_, found := result.Finding(check)
		assert.False(t, found, check)
	}
}

func TestCompareApplicantMismatch(t *testing.T) {
	f := jones
	f.ledger = "Bob,Jones,bob@example.com,a1,100,,,\n"
	f.contacts = "Bob,,Jones,,LIST,bob@example.com\n"

	result := compare(t, f)

	group, ok := result.Finding(reconcile.CheckApplicantGroup)
	require.True(t, ok)
	assert.Equal(t, reconcile.SectionGroups, group.Section)
	require.Len(t, group.Parts, 4)
	assert.Empty(t, group.Parts[2].Lines)
	assert.Equal(t, []string{"Jones, Bob"}, group.Parts[3].Lines)

	status, ok := result.Finding(reconcile.CheckApplicantMap)
	require.True(t, ok)
	require.Len(t, status.Parts, 3)
	assert.Equal(t, []string{"a2: Jones, Bob"}, status.Parts[0].Lines)
	assert.Equal(t, []string{"a1: Jones, Bob"}, status.Parts[1].Lines)
	assert.Equal(t, []string{
		"a1 only in club data: Jones, Bob",
		"a2 only in applicant file: Jones, Bob",
	}, status.Parts[2].Lines)
}

func TestCompareExpiredApplicantIgnored(t *testing.T) {
	f := jones
	f.applicants += "Sue Old | 2019-01-01 | 2019-01-02 | Application expired 2020\n"

	result := compare(t, f)

	assert.Contains(t, result.OK, "No applicant problem.")
	assert.False(t, result.HasProblems())
}

func TestCompareFeeDrift(t *testing.T) {
	f := fixture{
		ledger:   "Bob,Jones,bob@example.com,m,100,,,250\n",
		contacts: "Bob,,Jones,,LIST,bob@example.com\n",
		fees:     "Mooring:\nBob Jones: 500\n",
	}

	t.Run("summary", func(t *testing.T) {
		result := compare(t, f)

		drift, ok := result.Finding(reconcile.CheckFeeDrift)
		require.True(t, ok)
		assert.Equal(t, reconcile.SeveritySoft, drift.Severity)
		assert.Equal(t, "Acceptable Inconsistency", drift.Title)
		assert.Equal(t, []string{
			"Fee amounts (by category) don't match",
			"Fee amounts don't match (try --detail for details)",
		}, drift.Lines)
		assert.Len(t, result.Section(reconcile.SectionDrift), 1)
		assert.False(t, result.HasProblems())
		assert.Contains(t, result.OK, "No fees by name problem.")
	})

	t.Run("detail", func(t *testing.T) {
		result := compare(t, f, reconcile.WithDetail(true))

		drift, ok := result.Finding(reconcile.CheckFeeDrift)
		require.True(t, ok)
		assert.Contains(t, drift.Lines, "Fee amounts don't match")
		require.Len(t, drift.Parts, 1)
		assert.Equal(t, "Fee Disparities: probably some have paid", drift.Parts[0].Title)
		assert.Equal(t, []string{"Jones, Bob: [Mooring 500] != [Mooring 250]"}, drift.Parts[0].Lines)
		assert.True(t, result.Metadata.Detail)
	})
}

func TestCompareFeeRoundTrip(t *testing.T) {
	f := fixture{
		ledger: "Ann,Smith,ann@example.com,m,0,75,,500\n" +
			"Kim,Lee,kim@example.com,m,100,,70,\n" +
			"Tom,Brown,tom@example.com,m,100,0,,\n",
		contacts: "Ann,,Smith,,LIST,ann@example.com\nKim,,Lee,,LIST,kim@example.com\nTom,,Brown,,LIST,tom@example.com\n",
	}
	in := f.input(t)

	// Write the ledger's own fees out in fee ledger form.
	var text strings.Builder
	for _, c := range members.Categories() {
		fees := in.Ledger.FeesByCategory[c]
		if len(fees) == 0 {
			continue
		}
		fmt.Fprintf(&text, "%s:\n", c)
		for _, fee := range fees {
			m, ok := in.Ledger.Member(fee.Name)
			require.True(t, ok)
			fmt.Fprintf(&text, "%s %s: %s\n", m.Name.First, m.Name.Last, fee.Amount)
		}
	}
	f.fees = text.String()

	result := compare(t, f)

	assert.Contains(t, result.OK, "No fees by category problem.")
	assert.Contains(t, result.OK, "No fees by name problem.")
	assert.Empty(t, result.Section(reconcile.SectionFees))
	assert.Empty(t, result.Section(reconcile.SectionDrift))
}

func TestCompareFeeGroups(t *testing.T) {
	f := fixture{
		ledger:   "Ann,Smith,ann@example.com,m,0,75,,\nKim,Lee,kim@example.com,m,100,,70,\n",
		contacts: "Ann,,Smith,,LIST ::: DockUsers,ann@example.com\nKim,,Lee,,LIST ::: DockUsers,kim@example.com\n",
		fees:     "Dock:\nAnn Smith: 75\n\nKayak:\nKim Lee: 70\n",
	}
	groups := map[members.Category]string{members.Dock: "DockUsers", members.Kayak: "Kayak"}

	result := compare(t, f, reconcile.WithFeeGroups(groups))

	finding, ok := result.Finding(reconcile.CheckFeeGroups)
	require.True(t, ok)
	assert.Equal(t, []reconcile.Block{
		{Title: "Dock (DockUsers): only in contacts", Lines: []string{"Lee, Kim"}},
		{Title: "Kayak (Kayak): only in club fees", Lines: []string{"Lee, Kim"}},
	}, finding.Parts)

	t.Run("disabled by default", func(t *testing.T) {
		result := compare(t, f)
		_, ok := result.Finding(reconcile.CheckFeeGroups)
		assert.False(t, ok)
		assert.NotContains(t, result.OK, "Contacts fee groups match Club fees.")
	})
}

func TestCompareMalformed(t *testing.T) {
	f := jones
	f.ledger += "Ann,Smith,not-an-email,m,100,,,\n"
	f.applicants += "Pat Doe | 1 | 2 | 3 | 4 | 5 | 6 | 7 | 8\n"

	result := compare(t, f)

	malformed, ok := result.Finding(reconcile.CheckMalformed)
	require.True(t, ok)
	assert.Equal(t, reconcile.SeverityRecord, malformed.Severity)
	require.Len(t, malformed.Parts, 2)
	assert.Equal(t, "Member ledger (memlist.csv)", malformed.Parts[0].Title)
	assert.Equal(t, "Applicant file (applicants.txt)", malformed.Parts[1].Title)
}

func TestCompareStatusListing(t *testing.T) {
	result := compare(t, jones, reconcile.WithStatusListing(true))
	assert.Equal(t, []reconcile.Block{{Title: "a2: Attended two meetings", Lines: []string{"Jones, Bob"}}}, result.StatusListing)

	result = compare(t, jones)
	assert.Nil(t, result.StatusListing)
}

func TestNewValidation(t *testing.T) {
	_, err := reconcile.New(reconcile.WithApplicantGroup(""))
	assert.True(t, errors.IsValidationError(err))

	_, err = reconcile.New(reconcile.WithFeeGroups(map[members.Category]string{"Boat": "Boats"}))
	assert.True(t, errors.IsValidationError(err))

	c, err := reconcile.New()
	require.NoError(t, err)
	_, err = c.Compare(context.Background(), reconcile.Input{})
	assert.True(t, errors.IsValidationError(err))
}

func TestCompareCanceled(t *testing.T) {
	in := jones.input(t)
	c, err := reconcile.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Compare(ctx, in)
	assert.Error(t, err)
}

func TestCompareRepeatedFeeCharge(t *testing.T) {
	f := fixture{
		ledger:   "Ann,Smith,ann@example.com,m,100,,,250\n",
		contacts: "Ann,,Smith,,LIST,ann@example.com\n",
		fees:     "Mooring:\nAnn Smith: 500\nAnn Smith: 250\n",
	}

	result := compare(t, f)

	assert.True(t, result.HasProblems())
	malformed, ok := result.Finding(reconcile.CheckMalformed)
	require.True(t, ok)
	require.Len(t, malformed.Parts, 1)
	assert.Equal(t, "Fee ledger (extra_fees.txt)", malformed.Parts[0].Title)
	assert.Equal(t, []string{"line 3: Smith, Ann: second Mooring charge 250, first on line 2"}, malformed.Parts[0].Lines)

	_, drift := result.Finding(reconcile.CheckFeeDrift)
	assert.True(t, drift, "the first charge is compared with the ledger")
}

func TestCompareUnknownStatusKeepsMember(t *testing.T) {
	f := fixture{
		ledger:   "Ann,Smith,ann@example.com,active,100,,,500\n",
		contacts: "Ann,,Smith,,LIST,ann@example.com\n",
		fees:     "Mooring:\nAnn Smith: 500\n",
	}

	result := compare(t, f)

	malformed, ok := result.Finding(reconcile.CheckMalformed)
	require.True(t, ok)
	assert.Equal(t, []string{`line 2: Smith, Ann: unknown status code "active" ignored`}, malformed.Parts[0].Lines)

	require.Len(t, result.Findings, 1, "one bad status code is one finding")
	assert.Contains(t, result.OK, "No contacts that are not members.")
	assert.Contains(t, result.OK, "No fees by category problem.")
	assert.Contains(t, result.OK, "No fees by name problem.")
}

func TestCompareGraduates(t *testing.T) {
	graduate := "Bob Jones | " + strings.Repeat("2024-01-01 | ", 6) + "2024-06-01\n"

	t.Run("member without applicant status", func(t *testing.T) {
		f := fixture{
			ledger:     "Bob,Jones,bob@example.com,m,100,,,\n",
			contacts:   "Bob,,Jones,,LIST,bob@example.com\n",
			applicants: graduate,
		}
		result := compare(t, f)
		assert.Contains(t, result.OK, "No graduated applicant problem.")
		assert.False(t, result.HasProblems())
	})

	t.Run("still an applicant or not a member", func(t *testing.T) {
		f := fixture{
			ledger:     "Bob,Jones,bob@example.com,ai,100,,,\n",
			contacts:   "Bob,,Jones,,applicant,bob@example.com\n",
			applicants: graduate + "Kim Lee | " + strings.Repeat("2024-01-01 | ", 6) + "2024-06-01\n",
		}
		result := compare(t, f)

		finding, ok := result.Finding(reconcile.CheckGraduates)
		require.True(t, ok)
		assert.Equal(t, reconcile.SeverityStructural, finding.Severity)
		assert.Equal(t, reconcile.SectionStatus, finding.Section)
		assert.Equal(t, []reconcile.Block{
			{Title: "Not in member ledger", Lines: []string{"Lee, Kim"}},
			{Title: "Still carrying an applicant status", Lines: []string{"Jones, Bob: ai"}},
		}, finding.Parts)
	})
}

func TestCompareMembersWithoutEmail(t *testing.T) {
	f := fixture{
		ledger:   "Bob,Jones,,m,100,,,\nAnn,Smith,ann@example.com,m,100,,,\n",
		contacts: "Bob,,Jones,,LIST,\nAnn,,Smith,,LIST,\nPat,,Doe,,LIST,\n",
	}

	result := compare(t, f)

	finding, ok := result.Finding(reconcile.CheckWithoutEmail)
	require.True(t, ok)
	assert.Equal(t, reconcile.SeverityNotice, finding.Severity)
	assert.Equal(t, []reconcile.Block{
		{Title: "No email in member ledger", Lines: []string{"Jones, Bob"}},
		{Title: "No email in contacts", Lines: []string{"Jones, Bob", "Smith, Ann"}},
	}, finding.Parts)

	result = compare(t, jones)
	assert.Contains(t, result.OK, "Every member has an email on record.")
}
