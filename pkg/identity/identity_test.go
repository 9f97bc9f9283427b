package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolinasrbc/spotcheck/pkg/identity"
	"github.com/bolinasrbc/spotcheck/pkg/members"
)

func index(pairs ...string) members.Index {
	ix := members.Index{}
	for i := 0; i+1 < len(pairs); i += 2 {
		ix.Add(pairs[i], pairs[i+1])
	}
	return ix
}

func TestResolve(t *testing.T) {
	ix := index(
		"bob@example.com", "Jones, Bob",
		"x@example.com", "Smyth, Ann",
		"x@example.com", "Smith, Ann",
	)
	ix["ghost@example.com"] = members.NameSet{}

	r := identity.Resolve(ix)

	assert.Equal(t, map[string]string{"bob@example.com": "Jones, Bob"}, r.Resolved)
	assert.Equal(t, []string{"ghost@example.com"}, r.Dangling)
	require.Len(t, r.Shared, 1)
	assert.Equal(t, "x@example.com <== [Smith, Ann; Smyth, Ann]", r.Shared[0].String())

	// The input keeps its sets.
	assert.Equal(t, 2, ix.Get("x@example.com").Len())
	assert.Contains(t, ix, "ghost@example.com")
}

func TestResolveIsDeterministic(t *testing.T) {
	ix := index(
		"a@example.com", "A, One",
		"b@example.com", "B, Two",
		"b@example.com", "B, Three",
		"c@example.com", "C, Four",
		"d@example.com", "D, Five",
		"d@example.com", "D, Six",
	)
	first := identity.Resolve(ix)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, identity.Resolve(ix))
	}
	assert.Equal(t, []string{"a@example.com", "c@example.com"}, first.Emails())
}

func TestCompareShared(t *testing.T) {
	shared := index("x@example.com", "Smith, Ann", "x@example.com", "Smyth, Ann")

	t.Run("identical lists are reported once", func(t *testing.T) {
		a := identity.Compare(identity.Resolve(shared), identity.Resolve(shared))
		assert.Equal(t, []string{"x@example.com <== [Smith, Ann; Smyth, Ann]"}, a.SharedInBoth)
		assert.Empty(t, a.SharedLedger)
		assert.Empty(t, a.SharedContacts)
		assert.False(t, a.Empty())
	})

	t.Run("differing lists are reported per source", func(t *testing.T) {
		ledger := index("x@example.com", "Smith, Ann")
		a := identity.Compare(identity.Resolve(ledger), identity.Resolve(shared))
		assert.Empty(t, a.SharedInBoth)
		assert.Empty(t, a.SharedLedger)
		assert.Equal(t, []string{"x@example.com <== [Smith, Ann; Smyth, Ann]"}, a.SharedContacts)
	})

	t.Run("nothing shared", func(t *testing.T) {
		clean := index("bob@example.com", "Jones, Bob")
		assert.True(t, identity.Compare(identity.Resolve(clean), identity.Resolve(clean)).Empty())
	})
}
