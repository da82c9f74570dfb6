package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/query"
)

var (
	errViewSubcommand = errors.New("expected subcommand: save, ls, show or rm")
	errViewName       = errors.New("view name is required")
)

// ViewCmd returns the view command.
func ViewCmd(a *app) *Command {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	addQueryFlags(fs)
	fs.String("query", "", "Start from a query `string` such as \"status=approved&sort=votes\"")

	return &Command{
		Flags: fs,
		Usage: "view <save|ls|show|rm> [name] [flags]",
		Short: "Manage saved views",
		Long: `Manage named queries.

  view save <name> [query flags]   save the query given by flags or --query
  view ls                          list saved views
  view show <name>                 print the query of a view
  view rm <name>                   delete a view

Run a view with "pm ls --view <name>".`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errViewSubcommand
			}

			sub, rest := args[0], args[1:]

			switch sub {
			case "ls", "list":
				return execViewList(o, a)
			case "save", "show", "rm":
			default:
				return fmt.Errorf("%w: %s", errViewSubcommand, sub)
			}

			if len(rest) == 0 {
				return errViewName
			}

			name := rest[0]

			switch sub {
			case "save":
				return execViewSave(o, a, fs, name)
			case "show":
				v, err := a.views.Get(name)
				if err != nil {
					return err
				}

				o.Println(v.Query)

				return nil
			default:
				err := a.views.Delete(name)
				if err != nil {
					return err
				}

				o.Println("deleted", name)

				return nil
			}
		},
	}
}

func execViewSave(o *IO, a *app, fs *flag.FlagSet, name string) error {
	var base query.Spec

	if fs.Changed("query") {
		raw, _ := fs.GetString("query")

		parsed, err := query.ParseQuery(raw)
		if err != nil {
			return err
		}

		base = parsed
	}

	spec, err := specFromFlags(fs, base)
	if err != nil {
		return err
	}

	v, err := a.views.Save(name, spec)
	if err != nil {
		return err
	}

	a.log.Debug().Str("view", v.Name).Str("file", a.views.Path()).Msg("view saved")
	o.Println(v.Name, v.Query)

	return nil
}

func execViewList(o *IO, a *app) error {
	list, err := a.views.List()
	if err != nil {
		return err
	}

	for _, v := range list {
		o.Println(v.Name, v.Query)
	}

	return nil
}
