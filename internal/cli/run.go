// Package cli implements the pm command line: a product dashboard over an
// in-memory item collection seeded at startup.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/config"
	"github.com/calvinalkan/pm/internal/item"
	"github.com/calvinalkan/pm/internal/logging"
	"github.com/calvinalkan/pm/internal/notify"
	"github.com/calvinalkan/pm/internal/seed"
	"github.com/calvinalkan/pm/internal/state"
	"github.com/calvinalkan/pm/internal/views"
)

// EnvNow fixes the clock when set to an RFC 3339 time. The built-in demo
// dataset is dated relative to it, which makes output reproducible.
const EnvNow = "PM_NOW"

var errUnknownCommand = errors.New("unknown command")

// app is the state shared by all commands of one Run.
type app struct {
	cfg       config.Config
	store     *state.Store
	views     *views.Store
	notifier  *notify.Broadcaster
	log       zerolog.Logger
	now       func() time.Time
	env       map[string]string
	seedLabel string
}

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("pm", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	seedPath := globals.String("seed", "", "Load items from a YAML or JSON seed `file`")
	verbose := globals.BoolP("verbose", "v", false, "Log debug output to stderr")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	err := globals.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, globals, nil)

		return 1
	}

	rest := globals.Args()

	if *help || len(rest) == 0 {
		printUsage(out, globals, nil)

		return 0
	}

	input := config.LoadInput{
		WorkDirOverride:  *workDir,
		ConfigPath:       *configPath,
		SeedFileOverride: *seedPath,
		Env:              env,
	}
	if *verbose {
		input.LogLevelOverride = zerolog.DebugLevel.String()
	}

	cfg, err := config.Load(input)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	a, err := newApp(cfg, env, errOut)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	a.notifier.Subscribe(notify.NewWriterSink(errOut, notify.FormatToast))

	commands := a.commands(in, out, errOut)

	return a.dispatch(ctx, commands, rest, out, errOut, globals)
}

func newApp(cfg config.Config, env map[string]string, logOut io.Writer) (*app, error) {
	now := time.Now

	if raw := env[EnvNow]; raw != "" {
		fixed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvNow, err)
		}

		now = func() time.Time { return fixed }
	}

	log := logging.New(logOut, logging.Options{Level: cfg.Level(), NoColor: true, NoTimestamp: env[EnvNow] != ""})

	items, label, err := loadItems(cfg, now)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewBroadcaster(log)

	store, err := state.New(items,
		state.WithLogger(log),
		state.WithNotifier(notifier),
		state.WithClock(now),
	)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", label, err)
	}

	log.Debug().Int("items", store.Len()).Str("source", label).Msg("items loaded")

	return &app{
		cfg:       cfg,
		store:     store,
		views:     views.NewStore(cfg.ViewsFileAbs),
		notifier:  notifier,
		log:       log,
		now:       now,
		env:       env,
		seedLabel: label,
	}, nil
}

// loadItems returns the seed file items, or the demo dataset when no seed
// file is configured.
func loadItems(cfg config.Config, now func() time.Time) ([]item.Item, string, error) {
	if cfg.SeedFileAbs == "" {
		return seed.Default(now()), "demo data", nil
	}

	items, err := seed.Load(cfg.SeedFileAbs)
	if err != nil {
		return nil, "", err
	}

	return items, cfg.SeedFileAbs, nil
}

func (a *app) commands(in io.Reader, out, errOut io.Writer) []*Command {
	return []*Command{
		LsCmd(a),
		ShowCmd(a),
		AddCmd(a),
		EditCmd(a),
		VoteCmd(a),
		StatusCmd(a),
		ScoreCmd(a),
		RmCmd(a),
		RiceCmd(),
		ViewCmd(a),
		PrintConfigCmd(&a.cfg),
		ShellCmd(a, in, out, errOut),
	}
}

func (a *app) dispatch(ctx context.Context, commands []*Command, args []string, out, errOut io.Writer, globals *flag.FlagSet) int {
	name := args[0]

	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd.Run(ctx, NewIO(out, errOut), args[1:])
		}
	}

	fprintln(errOut, "error:", fmt.Errorf("%w: %s", errUnknownCommand, name))
	printUsage(errOut, globals, commands)

	return 1
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet, commands []*Command) {
	fprintln(w, `pm - product ideas, features and feedback

Usage: pm [options] <command> [args]

Options:`)

	var buf strings.Builder
	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})
	_, _ = fmt.Fprint(w, buf.String())

	fprintln(w)
	fprintln(w, "Commands:")

	if commands == nil {
		commands = (&app{}).commands(nil, nil, nil)
	}

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
}
