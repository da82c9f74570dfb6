package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
)

var errStatusRequired = errors.New("status is required")

// StatusCmd returns the status command.
func StatusCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("status", flag.ContinueOnError),
		Usage: "status <id> <status>",
		Short: "Move an item to another status",
		Long:  "Move an item to another status of its kind.\n\n" + statusTable(),
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return item.ErrIDRequired
			}

			if len(args) < 2 {
				return errStatusRequired
			}

			status := item.Status(strings.ToLower(strings.TrimSpace(args[1])))

			updated, err := a.store.SetStatus(args[0], status)
			if err != nil {
				return err
			}

			o.Println(updated.ID, updated.Status)

			return nil
		},
	}
}

// statusTable lists the statuses of each kind, initial status first.
func statusTable() string {
	var b strings.Builder

	for i, kind := range item.Kinds() {
		if i > 0 {
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "  %-10s %s", string(kind)+":", joinStatuses(item.Statuses(kind)))
	}

	return b.String()
}

func joinStatuses(statuses []item.Status) string {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}

	return strings.Join(names, ", ")
}
