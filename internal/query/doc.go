// Package query filters, sorts and scores collections of product items.
//
// The engine is a pure function of (items, [Spec]): [Run] never mutates its
// input, keeps no state between calls and is safe to call from multiple
// goroutines. Callers own both the item collection and the spec and pass them
// in explicitly.
//
// Filtering is conjunctive: an item is kept only when it satisfies the search
// text, every active field filter, the minimum-votes threshold and the
// optional creation date range. Sorting is total: items with equal sort keys
// are ordered by ID ascending, independent of the sort direction.
//
// Malformed user input never fails [Run]. An unknown sort key falls back to
// votes descending, an unparsable minimum-votes value disables that filter.
// Callers that want to reject such input use [RunStrict] or [Spec.Validate],
// which return a [*MalformedQueryError].
//
// RICE scores are derived with [ComputeRICE], which rejects out-of-domain
// inputs (effort of zero in particular) with an [*InvalidInputError] instead
// of producing Inf or NaN.
package query
