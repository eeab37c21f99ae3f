package ecs

import "strings"

// Filter is the predicate a Family maintains: every required kind, at least
// one any-of kind (when any are given) and none of the excluded kinds.
type Filter struct {
	required Bitset
	anyOf    Bitset
	excluded Bitset
}

// Require starts a Filter with the given required kinds.
func Require(kinds ...KindID) Filter {
	return Filter{}.Require(kinds...)
}

// Require adds required kinds.
func (f Filter) Require(kinds ...KindID) Filter {
	for _, k := range kinds {
		f.required.Set(k)
	}
	return f
}

// Any adds kinds of which at least one must be present.
func (f Filter) Any(kinds ...KindID) Filter {
	for _, k := range kinds {
		f.anyOf.Set(k)
	}
	return f
}

// Exclude adds kinds that must all be absent.
func (f Filter) Exclude(kinds ...KindID) Filter {
	for _, k := range kinds {
		f.excluded.Set(k)
	}
	return f
}

// Merge returns a filter holding the kinds of both f and other.
func (f Filter) Merge(other Filter) Filter {
	f.required = f.required.Or(other.required)
	f.anyOf = f.anyOf.Or(other.anyOf)
	f.excluded = f.excluded.Or(other.excluded)
	return f
}

// Required returns the required kinds.
func (f Filter) Required() Bitset { return f.required }

// AnyOf returns the any-of kinds.
func (f Filter) AnyOf() Bitset { return f.anyOf }

// Excluded returns the excluded kinds.
func (f Filter) Excluded() Bitset { return f.excluded }

// Matches tests a component bitset against the filter.
func (f Filter) Matches(bits Bitset) bool {
	if !bits.ContainsAll(f.required) {
		return false
	}
	if !f.anyOf.IsZero() && !bits.ContainsAny(f.anyOf) {
		return false
	}
	return !bits.ContainsAny(f.excluded)
}

// MatchesEmpty reports whether an entity with no components matches.
func (f Filter) MatchesEmpty() bool {
	return f.required.IsZero() && f.anyOf.IsZero()
}

// interest is the set of kinds whose addition or removal can change a match.
func (f Filter) interest() Bitset {
	return f.required.Or(f.anyOf).Or(f.excluded)
}

// Describe renders the filter with kind names, e.g. "all(A,B) any(C) none(D)".
func (f Filter) Describe(r *ComponentRegistry) string {
	var parts []string
	if !f.required.IsZero() {
		parts = append(parts, "all("+strings.Join(r.Names(f.required), ",")+")")
	}
	if !f.anyOf.IsZero() {
		parts = append(parts, "any("+strings.Join(r.Names(f.anyOf), ",")+")")
	}
	if !f.excluded.IsZero() {
		parts = append(parts, "none("+strings.Join(r.Names(f.excluded), ",")+")")
	}
	if len(parts) == 0 {
		return "all()"
	}
	return strings.Join(parts, " ")
}
