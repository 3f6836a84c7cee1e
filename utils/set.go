package utils

import "sort"

// StringSet is a small membership set for fixed vocabularies.
type StringSet map[string]bool

// NewStringSet builds a set from values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = true
	}
	return s
}

// Has reports whether v is a member.
func (s StringSet) Has(v string) bool {
	return s[v]
}

// Sorted returns the members in ascending order, for error messages.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
