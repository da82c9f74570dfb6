package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one pm subcommand.
type Command struct {
	// Flags holds the command's flags. Its name is unused; the command is
	// named by the first word of Usage.
	Flags *flag.FlagSet

	// Usage follows "pm" in help output, e.g. "add <kind> <title> [flags]".
	Usage string

	// Short is the one-line summary in the command list.
	Short string

	// Long is the description in "pm <cmd> --help". Short is used when empty.
	Long string

	// Exec runs with the arguments left after flag parsing.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name is the first word of Usage.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine is the command's row in the command list.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-30s %s", c.Usage, c.Short)
}

// help renders "pm <cmd> --help".
func (c *Command) help() string {
	var sb strings.Builder

	sb.WriteString("Usage: pm " + c.Usage + "\n\n")

	if c.Long != "" {
		sb.WriteString(c.Long)
	} else {
		sb.WriteString(c.Short)
	}

	sb.WriteString("\n")

	if c.Flags.HasFlags() {
		sb.WriteString("\nFlags:\n")
		sb.WriteString(c.Flags.FlagUsages())
	}

	return sb.String()
}

// Run parses args and executes the command, returning the exit code. Errors
// are printed here so they always follow the command's own output.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{})

	err := c.Flags.Parse(args)

	switch {
	case errors.Is(err, flag.ErrHelp):
		o.Printf("%s", c.help())

		return 0
	case err != nil:
		o.ErrPrintln("error:", err)
		o.ErrPrintln("Usage: pm", c.Usage)
		o.ErrPrintf("Run 'pm %s --help' for the list of flags.\n", c.Name())

		return 1
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}

// resetFlags puts every flag back to its default and clears Changed, so the
// shell can run the same Command again.
func (c *Command) resetFlags() {
	c.Flags.VisitAll(func(f *flag.Flag) {
		f.Changed = false

		if sv, ok := f.Value.(flag.SliceValue); ok {
			_ = sv.Replace(nil)

			return
		}

		_ = f.Value.Set(f.DefValue)
	})
}
