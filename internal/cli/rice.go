package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/query"
)

var errRiceArgs = errors.New("expected 4 arguments: <reach> <impact> <confidence> <effort>")

// RiceCmd returns the rice command.
func RiceCmd() *Command {
	fs := flag.NewFlagSet("rice", flag.ContinueOnError)
	fs.Bool("json", false, "Print the breakdown as JSON")

	return &Command{
		Flags: fs,
		Usage: "rice <reach> <impact> <confidence> <effort>",
		Short: "Compute a RICE score",
		Long: `Compute (reach × impact × confidence) / effort.

Every input must be an integer from 1 to 10.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 4 {
				return errRiceArgs
			}

			values := make([]int, len(args))

			for i, raw := range args {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("%w: %q is not an integer", query.ErrInvalidInput, raw)
				}

				values[i] = n
			}

			b, err := query.Explain(item.ScoreInputs{
				Reach:      values[0],
				Impact:     values[1],
				Confidence: values[2],
				Effort:     values[3],
			})
			if err != nil {
				return err
			}

			asJSON, _ := fs.GetBool("json")
			if asJSON {
				return printJSON(o, b)
			}

			o.Println(formatBreakdown(b))

			return nil
		},
	}
}
