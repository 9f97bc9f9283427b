// Package differ compares two keyed collections, one per source, and
// reports which keys only one side has and which shared keys carry
// different values.
package differ

import (
	"fmt"
	"slices"
	"strings"
)

// Change is a key whose values differ between the two sides.
type Change[K comparable, V any] struct {
	Key   K
	Left  V
	Right V
}

// Changeset holds every difference between two collections.
type Changeset[K comparable, V any] struct {
	OnlyLeft  []K            // keys present only on the left
	OnlyRight []K            // keys present only on the right
	Changed   []Change[K, V] // shared keys whose values differ
}

// Maps compares left against right. compare orders keys so the result is
// stable; equal decides whether two values match.
func Maps[K comparable, V any](left, right map[K]V, compare func(a, b K) int, equal func(a, b V) bool) *Changeset[K, V] {
	cs := &Changeset[K, V]{}

	for k, lv := range left {
		rv, ok := right[k]
		switch {
		case !ok:
			cs.OnlyLeft = append(cs.OnlyLeft, k)
		case !equal(lv, rv):
			cs.Changed = append(cs.Changed, Change[K, V]{Key: k, Left: lv, Right: rv})
		}
	}
	for k := range right {
		if _, ok := left[k]; !ok {
			cs.OnlyRight = append(cs.OnlyRight, k)
		}
	}

	slices.SortFunc(cs.OnlyLeft, compare)
	slices.SortFunc(cs.OnlyRight, compare)
	slices.SortFunc(cs.Changed, func(a, b Change[K, V]) int {
		return compare(a.Key, b.Key)
	})
	return cs
}

// HasChanges returns true if the collections differ at all.
func (c *Changeset[K, V]) HasChanges() bool {
	return c.KeysDiffer() || len(c.Changed) > 0
}

// KeysDiffer returns true if the key sets differ.
func (c *Changeset[K, V]) KeysDiffer() bool {
	return len(c.OnlyLeft) > 0 || len(c.OnlyRight) > 0
}

// String returns a one-line summary.
func (c *Changeset[K, V]) String() string {
	if !c.HasChanges() {
		return "no differences"
	}
	var parts []string
	if n := len(c.OnlyLeft); n > 0 {
		parts = append(parts, fmt.Sprintf("%d only left", n))
	}
	if n := len(c.OnlyRight); n > 0 {
		parts = append(parts, fmt.Sprintf("%d only right", n))
	}
	if n := len(c.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	return strings.Join(parts, ", ")
}

// Format renders keys with fmt's %v.
func Format[K any](keys []K) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprint(k)
	}
	return out
}
