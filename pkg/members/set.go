package members

import (
	"maps"
	"slices"
)

// NameSet is a set of name keys.
type NameSet map[string]struct{}

// NewNameSet builds a set holding keys.
func NewNameSet(keys ...string) NameSet {
	s := make(NameSet, len(keys))
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts key.
func (s NameSet) Add(key string) {
	s[key] = struct{}{}
}

// Has reports whether key is present.
func (s NameSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Len returns the number of keys.
func (s NameSet) Len() int {
	return len(s)
}

// Sorted returns the keys in ascending order.
func (s NameSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Equal reports whether both sets hold the same keys.
func (s NameSet) Equal(other NameSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Union returns a new set holding the keys of both.
func (s NameSet) Union(other NameSet) NameSet {
	out := make(NameSet, len(s)+len(other))
	for k := range s {
		out.Add(k)
	}
	for k := range other {
		out.Add(k)
	}
	return out
}

// Minus returns the keys of s absent from other, sorted.
func (s NameSet) Minus(other NameSet) []string {
	var out []string
	for k := range s {
		if !other.Has(k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Index maps a string key (email, status, group) to the names filed under it.
type Index map[string]NameSet

// Add files name under key, creating the set on first use.
func (ix Index) Add(key, name string) {
	set, ok := ix[key]
	if !ok {
		set = NameSet{}
		ix[key] = set
	}
	set.Add(name)
}

// Get returns the names filed under key; an absent key yields an empty set.
func (ix Index) Get(key string) NameSet {
	if set, ok := ix[key]; ok {
		return set
	}
	return NameSet{}
}

// Keys returns the index keys in ascending order.
func (ix Index) Keys() []string {
	return slices.Sorted(maps.Keys(ix))
}

// Equal reports whether both indexes file the same names under the same keys.
func (ix Index) Equal(other Index) bool {
	if len(ix) != len(other) {
		return false
	}
	for k, set := range ix {
		o, ok := other[k]
		if !ok || !set.Equal(o) {
			return false
		}
	}
	return true
}

// Listing renders the index as key -> sorted names for reports and output.
func (ix Index) Listing() map[string][]string {
	out := make(map[string][]string, len(ix))
	for k, set := range ix {
		out[k] = set.Sorted()
	}
	return out
}
