package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
)

// RmCmd returns the rm command.
func RmCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <id>...",
		Short: "Delete items",
		Long:  "Delete items by ID. Unknown IDs are skipped with a warning and make the command exit 1.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return item.ErrIDRequired
			}

			for _, id := range args {
				removed, err := a.store.Delete(id)
				if errors.Is(err, item.ErrNotFound) {
					o.Warn(err.Error(), "skipped")

					continue
				}

				if err != nil {
					return err
				}

				o.Println(removed.ID)
			}

			return nil
		},
	}
}
