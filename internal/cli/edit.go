package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/state"
)

// EditCmd returns the edit command.
func EditCmd(a *app) *Command {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.String("title", "", "New title")
	fs.StringP("description", "d", "", "New description")
	fs.StringP("priority", "p", "", "New priority (low|medium|high|critical)")
	fs.String("category", "", "New category")
	fs.String("owner", "", "New owner")
	fs.StringSlice("tag", nil, "Replace tags (repeatable or comma separated)")

	return &Command{
		Flags: fs,
		Usage: "edit <id> [flags]",
		Short: "Edit item fields",
		Long: `Change the given fields of an item. Fields without a flag are kept.

Votes, status and RICE inputs have their own commands.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return item.ErrIDRequired
			}

			patch, err := patchFromFlags(fs)
			if err != nil {
				return err
			}

			updated, err := a.store.Edit(args[0], patch)
			if err != nil {
				return err
			}

			o.Println(updated.ID)

			return nil
		},
	}
}

func patchFromFlags(fs *flag.FlagSet) (state.Patch, error) {
	var patch state.Patch

	str := func(name string) *string {
		if !fs.Changed(name) {
			return nil
		}

		v, _ := fs.GetString(name)

		return &v
	}

	patch.Title = str("title")
	patch.Description = str("description")
	patch.Category = str("category")
	patch.Owner = str("owner")

	if raw := str("priority"); raw != nil {
		p, err := item.ParsePriority(*raw)
		if err != nil {
			return state.Patch{}, err
		}

		patch.Priority = &p
	}

	if fs.Changed("tag") {
		tags, _ := fs.GetStringSlice("tag")
		patch.Tags = &tags
	}

	return patch, nil
}
