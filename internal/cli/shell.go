package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/seed"
	"github.com/calvinalkan/pm/internal/watch"
)

const shellPrompt = "pm> "

var (
	errWatchNeedsSeed = errors.New("--watch needs a seed file (--seed or seed_file in config)")
	errUnclosedQuote  = errors.New("unclosed quote")
)

// lineReader is the input side of the shell.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// ShellCmd returns the shell command.
func ShellCmd(a *app, in io.Reader, out, errOut io.Writer) *Command {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.Bool("watch", false, "Reload items when the seed file changes")

	return &Command{
		Flags: fs,
		Usage: "shell [--watch]",
		Short: "Interactive session over one item collection",
		Long: `Run commands against one in-memory collection, so changes made by add,
vote, status and the others stay visible until the shell exits.

Type "help" for commands and "exit" to quit. With --watch the seed file is
reloaded whenever it changes on disk, replacing the session's items.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", errUnexpectedArgs, args)
			}

			watchSeed, _ := fs.GetBool("watch")

			return execShell(ctx, o, a, in, out, errOut, watchSeed)
		},
	}
}

func execShell(ctx context.Context, o *IO, a *app, in io.Reader, out, errOut io.Writer, watchSeed bool) error {
	if watchSeed {
		w, err := startSeedWatch(ctx, a)
		if err != nil {
			return err
		}

		defer func() { _ = w.Close() }()
	}

	var commands []*Command

	for _, cmd := range a.commands(in, out, errOut) {
		if cmd.Name() != "shell" {
			commands = append(commands, cmd)
		}
	}

	r := newLineReader(in, a.env, commands)
	defer func() { _ = r.Close() }()

	o.Println("pm shell:", a.store.Len(), "items from", a.seedLabel+`. Type "help" for commands.`)

	for ctx.Err() == nil {
		line, err := r.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r.AppendHistory(line)

		args, err := splitArgs(line)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		switch args[0] {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			for _, cmd := range commands {
				o.Println(cmd.HelpLine())
			}

			o.Printf("  %-30s %s\n", "exit", "Leave the shell")

			continue
		}

		cmd := findCommand(commands, args[0])
		if cmd == nil {
			o.ErrPrintln("error:", fmt.Errorf("%w: %s", errUnknownCommand, args[0]))

			continue
		}

		cmd.resetFlags()
		cmd.Run(ctx, NewIO(out, errOut), args[1:])
	}

	return nil
}

func findCommand(commands []*Command, name string) *Command {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

// startSeedWatch reloads the store from the seed file on every change. A
// file that fails to parse leaves the current items in place.
func startSeedWatch(ctx context.Context, a *app) (*watch.Watcher, error) {
	path := a.cfg.SeedFileAbs
	if path == "" {
		return nil, errWatchNeedsSeed
	}

	reload := func() {
		items, err := seed.Load(path)
		if err == nil {
			err = a.store.Replace(items, path)
		}

		if err != nil {
			a.log.Warn().Err(err).Str("path", path).Msg("reload failed, keeping current items")
		}
	}

	w, err := watch.New(path, reload, a.log)
	if err != nil {
		return nil, err
	}

	err = w.Start(ctx)
	if err != nil {
		return nil, err
	}

	a.log.Debug().Str("path", w.Path()).Msg("watching seed file")

	return w, nil
}

func newLineReader(in io.Reader, env map[string]string, commands []*Command) lineReader {
	if f, ok := in.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		return newTerminalReader(env, commands)
	}

	return &scanReader{scanner: bufio.NewScanner(in)}
}

// terminalReader is a lineReader with line editing, history and completion.
type terminalReader struct {
	state       *liner.State
	historyPath string
}

func newTerminalReader(env map[string]string, commands []*Command) *terminalReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	names := []string{"help", "exit"}
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	state.SetCompleter(func(line string) []string {
		var completions []string

		for _, name := range names {
			if strings.HasPrefix(name, strings.ToLower(line)) {
				completions = append(completions, name)
			}
		}

		return completions
	})

	r := &terminalReader{state: state}

	if home := env["HOME"]; home != "" {
		r.historyPath = filepath.Join(home, ".pm_history")

		if f, err := os.Open(r.historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}

	return r
}

func (r *terminalReader) Prompt(prompt string) (string, error) { return r.state.Prompt(prompt) }

func (r *terminalReader) AppendHistory(line string) { r.state.AppendHistory(line) }

func (r *terminalReader) Close() error {
	if r.historyPath != "" {
		if f, err := os.Create(r.historyPath); err == nil {
			_, _ = r.state.WriteHistory(f)
			_ = f.Close()
		}
	}

	return r.state.Close()
}

// scanReader reads commands from a pipe or file without echoing a prompt.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}

	if err := r.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }

// splitArgs splits a shell line on whitespace. Single or double quotes group
// words, and a backslash escapes the next character outside single quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)

			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, current.String())
				current.Reset()

				inWord = false
			}
		default:
			current.WriteRune(r)

			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, errUnclosedQuote
	}

	if inWord {
		args = append(args, current.String())
	}

	return args, nil
}
