package sources_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolinasrbc/spotcheck/pkg/errors"
	"github.com/bolinasrbc/spotcheck/pkg/members"
	"github.com/bolinasrbc/spotcheck/pkg/sources"
)

const ledgerHeader = "first,last,email,dues,dock,kayak,mooring,status\n"

func readLedger(t *testing.T, body string) *sources.LedgerDataset {
	t.Helper()
	ds, err := sources.ReadLedger(context.Background(), strings.NewReader(ledgerHeader+body), "memlist.csv")
	require.NoError(t, err)
	return ds
}

func TestGatherLedger(t *testing.T) {
	ds, err := sources.GatherLedger(context.Background(), filepath.Join("testdata", "memlist.csv"))
	require.NoError(t, err)
	require.NoError(t, ds.Err())

	assert.Len(t, ds.Members, 4)
	assert.Equal(t, []string{"Jones, Bob"}, ds.ByEmail.Get("bob@example.com").Sorted())
	assert.Equal(t, []string{"Brown, Tom"}, ds.ByStatus.Get("a0").Sorted())
	assert.Equal(t, []string{"Dock 75", "Mooring 500"}, members.Charges(ds.FeesByName["Smith, Ann"]))
	assert.Len(t, ds.FeesByCategory[members.Kayak], 1)
	assert.NotContains(t, ds.FeesByName, "Jones, Bob")
}

func TestReadLedgerEmptyIsNotZero(t *testing.T) {
	ds := readLedger(t, "Bob,Jones,bob@example.com,100,0,,,\n")
	require.Len(t, ds.Members, 1)

	m := ds.Members[0]
	require.NotNil(t, m.Dock)
	assert.True(t, m.Dock.IsZero())
	assert.Nil(t, m.Kayak)
	assert.Nil(t, m.Mooring)
	assert.Equal(t, []string{"Dock 0"}, members.Charges(ds.FeesByName["Jones, Bob"]))
}

func TestReadLedgerMalformedRows(t *testing.T) {
	ds := readLedger(t, strings.Join([]string{
		"Bob,Jones,bob@example.com,100,,,,a2",
		",Smith,ann@example.com,100,,,,",
		"Kim,Lee,kim@,100,,,,",
		"Tom,Brown,tom@example.com,100,lots,,,",
		"Sue,Old,sue@example.com,100,,,,zz",
		"Too,Short,x@example.com",
		"Bob,Jones,other@example.com,100,,,,",
	}, "\n")+"\n")

	require.Len(t, ds.Members, 4)
	require.Len(t, ds.Malformed, 6)
	assert.True(t, errors.IsMalformed(ds.Err()))
	assert.False(t, errors.IsFatal(ds.Err()))

	reasons := make([]string, len(ds.Malformed))
	for i, m := range ds.Malformed {
		reasons[i] = m.String()
	}
	assert.Contains(t, reasons[0], "line 3")
	assert.Contains(t, reasons[0], "first")
	assert.Contains(t, reasons[1], "Lee, Kim")
	assert.Contains(t, reasons[1], "email")
	assert.Contains(t, reasons[2], `dock: "lots" is not an amount, ignored`)
	assert.Contains(t, reasons[3], `unknown status code "zz" ignored`)
	assert.Contains(t, reasons[4], "expected 8 fields, found 3")
	assert.Contains(t, reasons[5], "duplicate of line 2")

	// Rows without a full name, short rows and duplicates never reach the indexes.
	assert.Equal(t, 0, ds.ByEmail.Get("ann@example.com").Len())
	assert.Equal(t, 0, ds.ByEmail.Get("other@example.com").Len())

	// Rows with a bad field are kept without it.
	assert.True(t, ds.ByEmail.Get("kim@").Has("Lee, Kim"))
	tom, ok := ds.Member("Brown, Tom")
	require.True(t, ok)
	assert.Nil(t, tom.Dock)
	assert.NotNil(t, tom.Dues)
	sue, ok := ds.Member("Old, Sue")
	require.True(t, ok)
	assert.Empty(t, sue.Statuses)
	assert.True(t, ds.ByEmail.Get("sue@example.com").Has("Old, Sue"))
}

func TestReadLedgerSharedEmailCollectsNames(t *testing.T) {
	ds := readLedger(t, "Ann,Smith,x@example.com,100,,,,\nAnn,Smyth,X@Example.com,100,,,,\n")
	assert.Equal(t, []string{"Smith, Ann", "Smyth, Ann"}, ds.ByEmail.Get("x@example.com").Sorted())
}

func TestReadLedgerWithoutEmailAndMultipleStatuses(t *testing.T) {
	ds := readLedger(t, "Bob,Jones,,100,,,,m|w\n")
	assert.Equal(t, []string{"Jones, Bob"}, ds.WithoutEmail)
	assert.True(t, ds.ByStatus.Get("m").Has("Jones, Bob"))
	assert.True(t, ds.ByStatus.Get("w").Has("Jones, Bob"))

	m, ok := ds.Member("Jones, Bob")
	require.True(t, ok)
	assert.True(t, m.HasStatus(members.StatusFeesWaived))
}

func TestReadLedgerMissingColumnIsFatal(t *testing.T) {
	_, err := sources.ReadLedger(context.Background(), strings.NewReader("first,last,email\nBob,Jones,bob@example.com\n"), "memlist.csv")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))

	var pe *errors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, `"status"`)

	_, err = sources.ReadLedger(context.Background(), strings.NewReader(""), "memlist.csv")
	assert.ErrorIs(t, err, errors.ErrParse)
}

func TestGatherMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	_, err := sources.GatherLedger(context.Background(), missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, errors.ErrSourceUnavailable)

	var se *errors.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ledger", se.Source)
}

func TestGatherCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sources.GatherFees(ctx, filepath.Join("testdata", "extra_fees.txt"))
	assert.True(t, errors.IsCanceled(err))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := sources.ExpandPath("~/Downloads/contacts.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads", "contacts.csv"), got)

	t.Setenv("SPOTCHECK_DATA", "/srv/club")
	got, err = sources.ExpandPath("$SPOTCHECK_DATA/memlist.csv")
	require.NoError(t, err)
	assert.Equal(t, "/srv/club/memlist.csv", got)

	_, err = sources.ExpandPath("")
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	p := sources.DefaultPaths()
	for _, id := range sources.IDs() {
		assert.NotEmpty(t, p.Path(id), id)
	}
	assert.Equal(t, "Data/memlist.csv", p.Path(sources.LedgerID))
}
