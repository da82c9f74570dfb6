package cli

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/query"
)

const defaultLimit = 100

// LsCmd returns the ls command.
func LsCmd(a *app) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	addQueryFlags(fs)
	fs.String("view", "", "Start from the saved view `name`; other flags refine it")
	fs.Int("limit", defaultLimit, "Maximum items to show (0 = no limit)")
	fs.Int("offset", 0, "Skip first N items")
	fs.Bool("strict", false, "Reject unknown sort keys, orders and filter fields instead of ignoring them")
	fs.Bool("json", false, "Print items as JSON")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List and filter items",
		Long: `List ideas, features and feedback matching all given filters.

Items are sorted by the configured default (votes, descending) unless --sort
and --order say otherwise. Items with equal sort values are ordered by ID.
Unknown sort keys fall back to votes descending unless --strict is given.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execLs(o, a, fs, args)
		},
	}
}

var errUnexpectedArgs = errors.New("unexpected arguments")

func execLs(o *IO, a *app, fs *flag.FlagSet, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %v", errUnexpectedArgs, args)
	}

	limit, _ := fs.GetInt("limit")
	if limit < 0 {
		return errors.New("--limit must be non-negative")
	}

	offset, _ := fs.GetInt("offset")
	if offset < 0 {
		return errors.New("--offset must be non-negative")
	}

	base := a.cfg.BaseSpec()

	if fs.Changed("view") {
		name, _ := fs.GetString("view")

		v, err := a.views.Get(name)
		if err != nil {
			return err
		}

		base = mergeViewSpec(base, v.Spec)
	}

	spec, err := specFromFlags(fs, base)
	if err != nil {
		return err
	}

	strict, _ := fs.GetBool("strict")

	var results []item.Item

	if strict || a.cfg.Strict {
		results, err = a.store.QueryStrict(spec)
		if err != nil {
			return err
		}
	} else {
		if validateErr := spec.Validate(); validateErr != nil {
			a.log.Debug().Err(validateErr).Msg("lenient query")
		}

		results = a.store.Query(spec)
	}

	a.log.Debug().Int("matches", len(results)).Str("query", query.Encode(spec).Encode()).Msg("query ran")

	page, err := query.Page(results, offset, limit)
	if err != nil {
		return err
	}

	asJSON, _ := fs.GetBool("json")
	if asJSON {
		return printJSON(o, toJSONItems(page))
	}

	for i := range page {
		o.Println(formatItemLine(&page[i]))
	}

	return nil
}

// mergeViewSpec overlays a saved view on the configured defaults. A view
// without a sort key keeps the configured sort.
func mergeViewSpec(base, view query.Spec) query.Spec {
	out := view

	if out.SortBy == "" {
		out.SortBy = base.SortBy
	}

	if out.SortOrder == "" {
		out.SortOrder = base.SortOrder
	}

	return out
}

func printJSON(o *IO, v any) error {
	data, err := json.MarshalIndentWithOption(v, "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	o.Println(string(data))

	return nil
}
