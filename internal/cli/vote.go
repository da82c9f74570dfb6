package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
)

// VoteCmd returns the vote command.
func VoteCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("vote", flag.ContinueOnError),
		Usage: "vote <id>...",
		Short: "Add a vote to items",
		Long:  "Add one vote to each given item. Unknown IDs are skipped with a warning and make the command exit 1.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return item.ErrIDRequired
			}

			for _, id := range args {
				updated, err := a.store.Vote(id)
				if errors.Is(err, item.ErrNotFound) {
					o.Warn(err.Error(), "skipped")

					continue
				}

				if err != nil {
					return err
				}

				o.Println(updated.ID, pluralVotes(updated.Votes))
			}

			return nil
		},
	}
}
