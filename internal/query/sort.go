package query

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/calvinalkan/pm/internal/item"
)

// sortValue is the normalized key of one item. Numeric keys use num, string
// keys use str; the other half is left zero.
type sortValue struct {
	num float64
	str string
}

// missing is the minimum used for absent dates and NaN scores.
var missing = math.Inf(-1)

func valueOf(it *item.Item, key SortKey) sortValue {
	switch key {
	case SortVotes:
		return sortValue{num: float64(it.Votes)}
	case SortCreatedAt:
		if it.CreatedAt.IsZero() {
			return sortValue{num: missing}
		}

		return sortValue{num: float64(it.CreatedAt.UnixMilli())}
	case SortTitle:
		return sortValue{str: lower(it.Title)}
	case SortStatus:
		return sortValue{str: lower(string(it.Status))}
	case SortPriority:
		return sortValue{num: float64(it.Priority.Rank())}
	case SortRICE:
		score, _ := RICEOf(*it)

		return sortValue{num: normalize(score)}
	case SortValue:
		return sortValue{num: normalize(it.ValueScore)}
	case SortEffort:
		if it.Scores == nil {
			return sortValue{}
		}

		return sortValue{num: float64(it.Scores.Effort)}
	default:
		return sortValue{num: float64(it.Votes)}
	}
}

func normalize(f float64) float64 {
	if math.IsNaN(f) {
		return missing
	}

	return f
}

func compareValues(a, b sortValue) int {
	if c := cmp.Compare(a.num, b.num); c != 0 {
		return c
	}

	return strings.Compare(a.str, b.str)
}

// Compare orders a and b by key in the given direction. An empty or unknown
// order means descending, as in ResolveSort. Items with equal keys are ordered
// by ID ascending regardless of direction, so the result is a total order over
// items with distinct IDs.
func Compare(a, b *item.Item, key SortKey, order Order) int {
	return compareKeyed(a, b, valueOf(a, key), valueOf(b, key), resolveOrder(order))
}

func compareKeyed(a, b *item.Item, av, bv sortValue, order Order) int {
	c := compareValues(av, bv)
	if order == Desc {
		c = -c
	}

	if c != 0 {
		return c
	}

	return strings.Compare(a.ID, b.ID)
}

// Sort orders items in place by key and order, resolving order like Compare.
// Keys are computed once per item, not per comparison.
func Sort(items []item.Item, key SortKey, order Order) {
	if len(items) < 2 {
		return
	}

	type entry struct {
		it  item.Item
		val sortValue
	}

	order = resolveOrder(order)

	entries := make([]entry, len(items))
	for i := range items {
		entries[i] = entry{it: items[i], val: valueOf(&items[i], key)}
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return compareKeyed(&a.it, &b.it, a.val, b.val, order)
	})

	for i := range entries {
		items[i] = entries[i].it
	}
}
