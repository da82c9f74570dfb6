package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/query"
	"github.com/calvinalkan/pm/internal/state"
)

var scoreFlagNames = []string{"reach", "impact", "confidence", "effort"}

var (
	errScoresIncomplete = errors.New("--reach, --impact, --confidence and --effort must be given together")
	errNoScores         = errors.New("nothing to change: give at least one of --reach, --impact, --confidence, --effort")
)

func addScoreFlags(fs *flag.FlagSet) {
	fs.Int("reach", 0, "RICE reach (1-10)")
	fs.Int("impact", 0, "RICE impact (1-10)")
	fs.Int("confidence", 0, "RICE confidence (1-10)")
	fs.Int("effort", 0, "RICE effort (1-10)")
}

// scoresFromFlags reads the RICE flags. Without current, all four flags are
// required once any is set. With current, unset flags keep their current
// value.
func scoresFromFlags(fs *flag.FlagSet, current *item.ScoreInputs) (item.ScoreInputs, bool, error) {
	changed := 0

	for _, name := range scoreFlagNames {
		if fs.Changed(name) {
			changed++
		}
	}

	if changed == 0 {
		return item.ScoreInputs{}, false, nil
	}

	var scores item.ScoreInputs
	if current != nil {
		scores = *current
	} else if changed < len(scoreFlagNames) {
		return item.ScoreInputs{}, false, errScoresIncomplete
	}

	targets := map[string]*int{
		"reach":      &scores.Reach,
		"impact":     &scores.Impact,
		"confidence": &scores.Confidence,
		"effort":     &scores.Effort,
	}

	for _, name := range scoreFlagNames {
		if fs.Changed(name) {
			*targets[name], _ = fs.GetInt(name)
		}
	}

	err := scores.Validate()
	if err != nil {
		return item.ScoreInputs{}, false, err
	}

	return scores, true, nil
}

// ScoreCmd returns the score command.
func ScoreCmd(a *app) *Command {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	addScoreFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "score <id> [flags]",
		Short: "Set RICE inputs of an idea or feature",
		Long: `Set the RICE inputs of an idea or feature and print the new score.

An unscored item needs all four inputs. A scored item keeps the inputs
that are not given.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return item.ErrIDRequired
			}

			current, err := a.store.Get(args[0])
			if err != nil {
				return err
			}

			if current.Kind == item.KindFeedback {
				return state.ErrScoresNotSupported
			}

			scores, set, err := scoresFromFlags(fs, current.Scores)
			if err != nil {
				return err
			}

			if !set {
				return errNoScores
			}

			updated, err := a.store.SetScores(current.ID, scores)
			if err != nil {
				return err
			}

			b, err := query.Explain(*updated.Scores)
			if err != nil {
				return fmt.Errorf("scoring %s: %w", updated.ID, err)
			}

			o.Println(updated.ID, "RICE", formatBreakdown(b))

			return nil
		},
	}
}
