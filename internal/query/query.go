package query

import (
	"fmt"

	"github.com/calvinalkan/pm/internal/item"
)

// Run filters items by spec and returns the survivors in sorted order.
//
// The result is a new slice of deep-copied items; items is never modified.
// Run never fails: malformed spec parameters degrade to their documented
// defaults. An empty input yields an empty, non-nil slice.
func Run(items []item.Item, spec Spec) []item.Item {
	match := Compile(spec)

	out := make([]item.Item, 0, len(items))

	for i := range items {
		if match(&items[i]) {
			out = append(out, items[i].Clone())
		}
	}

	key, order := ResolveSort(spec)
	Sort(out, key, order)

	return out
}

// RunStrict is Run after spec.Validate succeeds.
func RunStrict(items []item.Item, spec Spec) ([]item.Item, error) {
	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	return Run(items, spec), nil
}

// Page returns the window [offset, offset+limit) of items. A limit of 0 means
// no limit. An offset past the end of a non-empty window is an error.
func Page(items []item.Item, offset, limit int) ([]item.Item, error) {
	if offset < 0 || limit < 0 {
		return nil, ErrInvalidPage
	}

	if offset > 0 && offset >= len(items) {
		return nil, fmt.Errorf("%w: offset %d, %d results", ErrOffsetOutOfBounds, offset, len(items))
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return items[offset:end], nil
}
