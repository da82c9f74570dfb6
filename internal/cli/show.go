package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/query"
)

// ShowCmd returns the show command.
func ShowCmd(a *app) *Command {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.Bool("json", false, "Print the item as JSON")

	return &Command{
		Flags: fs,
		Usage: "show <id>",
		Short: "Show item details",
		Long:  "Show all fields of an item, including its RICE score breakdown when scored.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return item.ErrIDRequired
			}

			it, err := a.store.Get(args[0])
			if err != nil {
				return err
			}

			asJSON, _ := fs.GetBool("json")
			if asJSON {
				return printJSON(o, toJSONItems([]item.Item{it})[0])
			}

			printItem(o, &it)

			return nil
		},
	}
}

func printItem(o *IO, it *item.Item) {
	o.Println("id:", it.ID)
	o.Println("kind:", it.Kind)
	o.Println("title:", it.Title)
	o.Println("status:", it.Status)
	o.Println("priority:", it.Priority)
	o.Println("votes:", it.Votes)
	o.Println("created:", it.CreatedAt.UTC().Format(time.RFC3339))

	if it.Category != "" {
		o.Println("category:", it.Category)
	}

	if it.Owner != "" {
		o.Println("owner:", it.Owner)
	}

	if len(it.Tags) > 0 {
		o.Println("tags:", strings.Join(it.Tags, ", "))
	}

	if it.ValueScore != 0 {
		o.Println("value_score:", strconv.FormatFloat(it.ValueScore, 'f', -1, 64))
	}

	if it.Scores != nil {
		b, err := query.Explain(*it.Scores)
		if err != nil {
			o.Println("rice: invalid scores:", err)
		} else {
			o.Println("rice:", formatBreakdown(b))
		}
	}

	if it.Description != "" {
		o.Println()
		o.Println(it.Description)
	}
}

// formatBreakdown renders "128.0 = (8 × 6 × 8) / 3".
func formatBreakdown(b query.Breakdown) string {
	return strconv.FormatFloat(b.Score, 'f', 1, 64) + " = (" +
		strconv.Itoa(b.Reach) + " × " + strconv.Itoa(b.Impact) + " × " + strconv.Itoa(b.Confidence) +
		") / " + strconv.Itoa(b.Effort)
}
