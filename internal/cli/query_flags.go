package cli

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/query"
)

// filterFlags maps flag names to the field they filter on.
var filterFlags = []struct {
	name  string
	field query.Field
	usage string
}{
	{"kind", query.FieldKind, "Filter by kind (idea|feature|feedback)"},
	{"status", query.FieldStatus, "Filter by status"},
	{"priority", query.FieldPriority, "Filter by priority (low|medium|high|critical)"},
	{"category", query.FieldCategory, "Filter by category"},
	{"owner", query.FieldOwner, "Filter by owner"},
	{"tag", query.FieldTag, "Filter by tag"},
}

// addQueryFlags registers the flags that describe a query.
func addQueryFlags(fs *flag.FlagSet) {
	fs.StringP("search", "s", "", "Case-insensitive search in title, description and tags")

	for _, f := range filterFlags {
		fs.String(f.name, "", f.usage)
	}

	fs.String("min-votes", "", "Only items with at least `N` votes")
	fs.String("sort", "", "Sort by votes|createdAt|title|status|priority|riceScore|valueScore|effort")
	fs.String("order", "", "Sort order (asc|desc)")
	fs.String("from", "", "Only items created on or after `date` (YYYY-MM-DD or RFC 3339)")
	fs.String("to", "", "Only items created on or before `date` (YYYY-MM-DD or RFC 3339)")
}

// specFromFlags applies the query flags that were set on top of base.
func specFromFlags(fs *flag.FlagSet, base query.Spec) (query.Spec, error) {
	spec := base

	if fs.Changed("search") {
		spec.Search, _ = fs.GetString("search")
	}

	for _, f := range filterFlags {
		if !fs.Changed(f.name) {
			continue
		}

		value, _ := fs.GetString(f.name)

		// Accept plural kind names; anything else is passed through and
		// simply matches nothing.
		if f.field == query.FieldKind {
			if kind, err := item.ParseKind(value); err == nil {
				value = string(kind)
			}
		}

		spec = spec.WithFilter(f.field, value)
	}

	if fs.Changed("min-votes") {
		spec.MinVotes, _ = fs.GetString("min-votes")
	}

	if fs.Changed("sort") {
		sortBy, _ := fs.GetString("sort")
		spec.SortBy = query.SortKey(sortBy)
	}

	if fs.Changed("order") {
		order, _ := fs.GetString("order")
		spec.SortOrder = query.Order(order)
	}

	if fs.Changed("from") {
		from, err := boundFlag(fs, "from", false)
		if err != nil {
			return query.Spec{}, err
		}

		spec.CreatedFrom = from
	}

	if fs.Changed("to") {
		to, err := boundFlag(fs, "to", true)
		if err != nil {
			return query.Spec{}, err
		}

		spec.CreatedTo = to
	}

	return spec, nil
}

func boundFlag(fs *flag.FlagSet, name string, upper bool) (time.Time, error) {
	raw, _ := fs.GetString(name)

	t, err := query.ParseBound(raw, upper)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD or RFC 3339 time", name, raw)
	}

	return t, nil
}
