package query

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/calvinalkan/pm/internal/item"
)

// AllValue is the filter value meaning "no constraint", as is the empty string.
const AllValue = "all"

// Order is a sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder parses a sort direction, case-insensitively.
func ParseOrder(s string) (Order, bool) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	default:
		return "", false
	}
}

// SortKey names the attribute results are ordered by.
type SortKey string

// Sort keys.
const (
	SortVotes     SortKey = "votes"
	SortCreatedAt SortKey = "createdAt"
	SortTitle     SortKey = "title"
	SortStatus    SortKey = "status"
	SortPriority  SortKey = "priority"
	SortRICE      SortKey = "riceScore"
	SortValue     SortKey = "valueScore"
	SortEffort    SortKey = "effort"
)

// Defaults used when a spec names no sort key or an unsupported one.
const (
	DefaultSortKey = SortVotes
	DefaultOrder   = Desc
)

var sortKeys = []SortKey{SortVotes, SortCreatedAt, SortTitle, SortStatus, SortPriority, SortRICE, SortValue, SortEffort}

// Feedback carries no scoring inputs, so score-based keys are not offered for it.
var feedbackSortKeys = []SortKey{SortVotes, SortCreatedAt, SortTitle, SortStatus, SortPriority}

// Keys are matched after lowercasing.
var sortKeyAliases = map[string]SortKey{
	"votes":       SortVotes,
	"createdat":   SortCreatedAt,
	"created_at":  SortCreatedAt,
	"created":     SortCreatedAt,
	"date":        SortCreatedAt,
	"title":       SortTitle,
	"status":      SortStatus,
	"priority":    SortPriority,
	"ricescore":   SortRICE,
	"rice_score":  SortRICE,
	"rice":        SortRICE,
	"valuescore":  SortValue,
	"value_score": SortValue,
	"value":       SortValue,
	"effort":      SortEffort,
}

// ParseSortKey resolves a sort key name or alias such as "date" or "rice".
func ParseSortKey(s string) (SortKey, bool) {
	key, ok := sortKeyAliases[strings.ToLower(strings.TrimSpace(s))]

	return key, ok
}

// SortKeys returns the sort keys supported for kind. An empty kind returns
// every key.
func SortKeys(kind item.Kind) []SortKey {
	if kind == item.KindFeedback {
		return slices.Clone(feedbackSortKeys)
	}

	return slices.Clone(sortKeys)
}

// Spec describes a query: what to keep and how to order it.
//
// The zero Spec matches every item and sorts by votes descending.
type Spec struct {
	// Search is matched case-insensitively against title, description and tags.
	Search string
	// Filters maps a field to the single value it must equal. Empty values and
	// AllValue impose no constraint.
	Filters map[Field]string
	// MinVotes is raw user input. Values that do not parse as a non-negative
	// integer impose no constraint.
	MinVotes string
	SortBy   SortKey
	// SortOrder defaults to descending when empty or unknown.
	SortOrder Order
	// CreatedFrom and CreatedTo bound CreatedAt inclusively. Zero means open.
	CreatedFrom time.Time
	CreatedTo   time.Time
}

// WithFilter returns a copy of s with field f constrained to value.
func (s Spec) WithFilter(f Field, value string) Spec {
	filters := make(map[Field]string, len(s.Filters)+1)
	maps.Copy(filters, s.Filters)
	filters[f] = value
	s.Filters = filters

	return s
}

// Kind returns the kind the spec is restricted to, or "" when it spans kinds.
func (s Spec) Kind() item.Kind {
	v, ok := activeFilter(s.Filters[FieldKind])
	if !ok {
		return ""
	}

	return item.Kind(v)
}

// Validate reports structurally invalid parameters as a *MalformedQueryError.
//
// Run tolerates everything Validate rejects. MinVotes is never rejected since
// unparsable input is defined as no constraint.
func (s Spec) Validate() error {
	for _, f := range slices.Sorted(maps.Keys(s.Filters)) {
		if !f.Valid() {
			return &MalformedQueryError{Param: string(f), Value: s.Filters[f], Reason: "unknown filter field"}
		}
	}

	if v, ok := activeFilter(s.Filters[FieldKind]); ok && !item.Kind(v).Valid() {
		return &MalformedQueryError{Param: string(FieldKind), Value: v, Reason: "unknown kind"}
	}

	if s.SortOrder != "" {
		if _, ok := ParseOrder(string(s.SortOrder)); !ok {
			return &MalformedQueryError{Param: ParamOrder, Value: string(s.SortOrder), Reason: "must be asc or desc"}
		}
	}

	if s.SortBy != "" {
		key, ok := ParseSortKey(string(s.SortBy))
		if !ok {
			return &MalformedQueryError{Param: ParamSort, Value: string(s.SortBy), Reason: "unknown sort key"}
		}

		if kind := s.Kind(); kind != "" && !slices.Contains(SortKeys(kind), key) {
			return &MalformedQueryError{Param: ParamSort, Value: string(s.SortBy), Reason: "not supported for " + string(kind)}
		}
	}

	if !s.CreatedFrom.IsZero() && !s.CreatedTo.IsZero() && s.CreatedFrom.After(s.CreatedTo) {
		return &MalformedQueryError{Param: ParamFrom, Value: s.CreatedFrom.Format(time.RFC3339), Reason: "after " + ParamTo}
	}

	return nil
}

// ResolveSort returns the effective sort key and direction for s.
//
// Unknown keys and keys not supported by the filtered kind fall back to
// votes descending. An empty or unknown direction is descending.
func ResolveSort(s Spec) (SortKey, Order) {
	if s.SortBy == "" {
		return DefaultSortKey, resolveOrder(s.SortOrder)
	}

	key, ok := ParseSortKey(string(s.SortBy))
	if !ok {
		return DefaultSortKey, DefaultOrder
	}

	if kind := s.Kind(); kind.Valid() && !slices.Contains(SortKeys(kind), key) {
		return DefaultSortKey, DefaultOrder
	}

	return key, resolveOrder(s.SortOrder)
}

func resolveOrder(o Order) Order {
	order, ok := ParseOrder(string(o))
	if !ok {
		return DefaultOrder
	}

	return order
}

// activeFilter reports whether a filter value constrains results.
func activeFilter(v string) (string, bool) {
	if v == "" || v == AllValue {
		return "", false
	}

	return v, true
}

// parseMinVotes parses raw min-votes input. ok is false when the input
// imposes no constraint.
func parseMinVotes(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}
