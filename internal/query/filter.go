package query

import (
	"cmp"
	"maps"
	"slices"

	"github.com/calvinalkan/pm/internal/item"
)

// Predicate reports whether an item passes every active constraint of a spec.
type Predicate func(it *item.Item) bool

type fieldFilter struct {
	field Field
	value string
}

// Compile turns spec into a Predicate. Parsing of the spec happens once here,
// so evaluating the predicate per item allocates only to lower-case the
// searched text.
func Compile(spec Spec) Predicate {
	var search string
	if spec.Search != "" {
		search = lower(spec.Search)
	}

	var filters []fieldFilter

	for f, v := range spec.Filters {
		if v, ok := activeFilter(v); ok {
			filters = append(filters, fieldFilter{field: f, value: v})
		}
	}

	// Cheap equality checks run before search; field order keeps evaluation stable.
	slices.SortFunc(filters, func(a, b fieldFilter) int { return cmp.Compare(a.field, b.field) })

	minVotes, hasMinVotes := parseMinVotes(spec.MinVotes)
	from, to := spec.CreatedFrom, spec.CreatedTo

	return func(it *item.Item) bool {
		if hasMinVotes && it.Votes < minVotes {
			return false
		}

		for _, f := range filters {
			if !fieldMatches(it, f.field, f.value) {
				return false
			}
		}

		if !from.IsZero() && it.CreatedAt.Before(from) {
			return false
		}

		if !to.IsZero() && it.CreatedAt.After(to) {
			return false
		}

		if search != "" && !matchesSearch(it, search) {
			return false
		}

		return true
	}
}

// Matches reports whether it passes spec. Prefer Compile when testing many items.
func Matches(it item.Item, spec Spec) bool {
	return Compile(spec)(&it)
}

// activeFields lists the fields spec actively constrains, sorted.
func activeFields(spec Spec) []Field {
	var out []Field

	for _, f := range slices.Sorted(maps.Keys(spec.Filters)) {
		if _, ok := activeFilter(spec.Filters[f]); ok {
			out = append(out, f)
		}
	}

	return out
}
