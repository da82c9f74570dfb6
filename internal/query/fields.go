package query

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/calvinalkan/pm/internal/item"
)

// Field names an item attribute that can be filtered on.
type Field string

// Filterable fields.
const (
	FieldKind     Field = "kind"
	FieldStatus   Field = "status"
	FieldPriority Field = "priority"
	FieldCategory Field = "category"
	FieldOwner    Field = "owner"
	// FieldTag matches when any of the item's tags equals the value.
	FieldTag Field = "tag"
)

var fields = []Field{FieldKind, FieldStatus, FieldPriority, FieldCategory, FieldOwner, FieldTag}

// Fields returns all filterable fields.
func Fields() []Field {
	return slices.Clone(fields)
}

// Valid reports whether f is a filterable field.
func (f Field) Valid() bool {
	return slices.Contains(fields, f)
}

// fieldMatches reports whether the item's value for f equals value.
// Unknown fields never match.
func fieldMatches(it *item.Item, f Field, value string) bool {
	switch f {
	case FieldKind:
		return string(it.Kind) == value
	case FieldStatus:
		return string(it.Status) == value
	case FieldPriority:
		return string(it.Priority) == value
	case FieldCategory:
		return it.Category == value
	case FieldOwner:
		return it.Owner == value
	case FieldTag:
		return slices.Contains(it.Tags, value)
	default:
		return false
	}
}

// A cases.Caser keeps state between calls, so each goroutine borrows its own.
var lowerers = sync.Pool{
	New: func() any {
		c := cases.Lower(language.Und)

		return &c
	},
}

// lower returns the lower-cased form of s used for search and string sort
// keys. Unlike case folding it leaves "ß" alone, so "ss" does not match it.
func lower(s string) string {
	c := lowerers.Get().(*cases.Caser)
	defer lowerers.Put(c)

	return c.String(s)
}

// matchesSearch reports whether the lower-cased needle occurs in the item's title,
// description or any tag.
func matchesSearch(it *item.Item, needle string) bool {
	if strings.Contains(lower(it.Title), needle) {
		return true
	}

	if strings.Contains(lower(it.Description), needle) {
		return true
	}

	for _, tag := range it.Tags {
		if strings.Contains(lower(tag), needle) {
			return true
		}
	}

	return false
}
