package query

import (
	"maps"
	"net/url"
	"slices"
	"time"
)

// Parameter names of the flat encoding. Filter fields use their Field name.
const (
	ParamSearch   = "q"
	ParamSort     = "sort"
	ParamOrder    = "order"
	ParamMinVotes = "min_votes"
	ParamFrom     = "from"
	ParamTo       = "to"
)

const dateLayout = time.DateOnly

const endOfDay = 24*time.Hour - time.Nanosecond

// Encode renders spec as flat key/value parameters suitable for a shareable
// query string. Empty parameters and inactive filters are omitted.
//
// Dates at midnight UTC (or, for the upper bound, the last instant of a UTC
// day) are written as plain dates; other instants use RFC 3339.
func Encode(spec Spec) url.Values {
	v := url.Values{}

	if spec.Search != "" {
		v.Set(ParamSearch, spec.Search)
	}

	for _, f := range activeFields(spec) {
		v.Set(string(f), spec.Filters[f])
	}

	if spec.MinVotes != "" {
		v.Set(ParamMinVotes, spec.MinVotes)
	}

	if spec.SortBy != "" {
		v.Set(ParamSort, string(spec.SortBy))
	}

	if spec.SortOrder != "" {
		v.Set(ParamOrder, string(spec.SortOrder))
	}

	if !spec.CreatedFrom.IsZero() {
		v.Set(ParamFrom, formatBound(spec.CreatedFrom, 0))
	}

	if !spec.CreatedTo.IsZero() {
		v.Set(ParamTo, formatBound(spec.CreatedTo, endOfDay))
	}

	return v
}

// Decode parses parameters produced by Encode or typed by hand.
//
// Unknown parameters, repeated parameters and unparsable dates return a
// *MalformedQueryError. Sort key, order and min-votes values are kept as
// given; Run resolves them leniently and Spec.Validate checks them strictly.
func Decode(v url.Values) (Spec, error) {
	var spec Spec

	for _, key := range slices.Sorted(maps.Keys(v)) {
		values := v[key]
		if len(values) > 1 {
			return Spec{}, &MalformedQueryError{Param: key, Value: values[1], Reason: "repeated parameter"}
		}

		value := ""
		if len(values) == 1 {
			value = values[0]
		}

		switch key {
		case ParamSearch:
			spec.Search = value
		case ParamSort:
			spec.SortBy = SortKey(value)
		case ParamOrder:
			spec.SortOrder = Order(value)
		case ParamMinVotes:
			spec.MinVotes = value
		case ParamFrom, ParamTo:
			if value == "" {
				continue
			}

			t, err := ParseBound(value, key == ParamTo)
			if err != nil {
				return Spec{}, &MalformedQueryError{Param: key, Value: value, Reason: "expected YYYY-MM-DD or RFC 3339 time"}
			}

			if key == ParamFrom {
				spec.CreatedFrom = t
			} else {
				spec.CreatedTo = t
			}
		default:
			f := Field(key)
			if !f.Valid() {
				return Spec{}, &MalformedQueryError{Param: key, Value: value, Reason: "unknown parameter"}
			}

			spec = spec.WithFilter(f, value)
		}
	}

	return spec, nil
}

// ParseQuery decodes a raw query string such as "q=dark&status=approved".
func ParseQuery(raw string) (Spec, error) {
	v, err := url.ParseQuery(raw)
	if err != nil {
		return Spec{}, &MalformedQueryError{Param: "query", Value: raw, Reason: err.Error()}
	}

	return Decode(v)
}

// ParseBound parses a date-range bound. A plain date is the start of that UTC
// day, or its last instant when upper is true, so both bounds include the day.
func ParseBound(s string, upper bool) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		if upper {
			return t.Add(endOfDay), nil
		}

		return t, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}

	return t.UTC(), nil
}

func formatBound(t time.Time, dayOffset time.Duration) string {
	t = t.UTC()

	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if t.Equal(day.Add(dayOffset)) {
		return day.Format(dateLayout)
	}

	return t.Format(time.RFC3339Nano)
}
