package cli

import (
	"context"
	"errors"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/state"
)

var (
	errKindRequired  = errors.New("kind is required (idea|feature|feedback)")
	errTitleRequired = errors.New("title is required")
)

// AddCmd returns the add command.
func AddCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("description", "d", "", "Description")
	fs.StringP("priority", "p", string(item.DefaultPriority), "Priority (low|medium|high|critical)")
	fs.String("category", "", "Category")
	fs.String("owner", "", "Owner")
	fs.StringSlice("tag", nil, "Tag (repeatable or comma separated)")
	fs.Float64("value", 0, "Value score")
	addScoreFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "add <kind> <title> [flags]",
		Short: "Add an idea, feature or feedback",
		Long: `Add a new item and print its ID.

New items start in the first status of their kind (see "pm status --help").
RICE inputs may be given for ideas and features. All four are then required.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execAdd(o, a, fs, args)
		},
	}
}

func execAdd(o *IO, a *app, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errKindRequired
	}

	kind, err := item.ParseKind(args[0])
	if err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		return errTitleRequired
	}

	rawPriority, _ := fs.GetString("priority")

	priority, err := item.ParsePriority(rawPriority)
	if err != nil {
		return err
	}

	draft := state.Draft{Title: title, Priority: priority}
	draft.Description, _ = fs.GetString("description")
	draft.Category, _ = fs.GetString("category")
	draft.Owner, _ = fs.GetString("owner")
	draft.Tags, _ = fs.GetStringSlice("tag")
	draft.ValueScore, _ = fs.GetFloat64("value")

	scores, set, err := scoresFromFlags(fs, nil)
	if err != nil {
		return err
	}

	if set {
		draft.Scores = &scores
	}

	created, err := a.store.Add(kind, draft)
	if err != nil {
		return err
	}

	o.Println(created.ID)

	return nil
}
