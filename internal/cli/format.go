package cli

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/query"
)

// formatItemLine renders one ls line:
//
//	ID-01 [idea] [approved] [high] 42 votes - Dark mode (RICE 128.0)
func formatItemLine(it *item.Item) string {
	var builder strings.Builder

	builder.WriteString(it.ID)
	builder.WriteString(" [")
	builder.WriteString(string(it.Kind))
	builder.WriteString("] [")
	builder.WriteString(string(it.Status))
	builder.WriteString("] [")
	builder.WriteString(string(it.Priority))
	builder.WriteString("] ")
	builder.WriteString(pluralVotes(it.Votes))
	builder.WriteString(" - ")
	builder.WriteString(it.Title)

	if score, ok := query.RICEOf(*it); ok {
		fmt.Fprintf(&builder, " (RICE %.1f)", score)
	}

	return builder.String()
}

func pluralVotes(n int) string {
	if n == 1 {
		return "1 vote"
	}

	return fmt.Sprintf("%d votes", n)
}

// jsonItem is an item plus its derived RICE score.
type jsonItem struct {
	item.Item

	RICE *float64 `json:"rice,omitempty"`
}

func toJSONItems(items []item.Item) []jsonItem {
	out := make([]jsonItem, 0, len(items))

	for _, it := range items {
		ji := jsonItem{Item: it}

		if score, ok := query.RICEOf(it); ok {
			ji.RICE = &score
		}

		out = append(out, ji)
	}

	return out
}
