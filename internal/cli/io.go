package cli

import (
	"fmt"
	"io"
)

// IO is the output side of one command run.
//
// Warnings are collected while the command runs. They are echoed to stderr
// just before the first line of stdout and again when the command finishes,
// so they survive `| head` as well as `| tail`. A command that warned exits 1
// even though its regular output was printed.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
	echoed   bool
}

// NewIO returns an IO writing to out and errOut.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records a problem the command worked around, e.g. an unknown ID in
// a bulk vote, and what was done about it.
func (o *IO) Warn(problem, outcome string) {
	o.warnings = append(o.warnings, problem+": "+outcome)
}

// Println writes a line to stdout.
func (o *IO) Println(a ...any) {
	o.echoWarnings()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	o.echoWarnings()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes a line to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// ErrPrintf writes formatted output to stderr.
func (o *IO) ErrPrintf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.errOut, format, a...)
}

// Out returns stdout for encoders that write directly.
func (o *IO) Out() io.Writer {
	o.echoWarnings()

	return o.out
}

// Finish repeats the warnings and returns the exit code: 1 if the command
// warned, else 0.
func (o *IO) Finish() int {
	if len(o.warnings) == 0 {
		return 0
	}

	o.echoed = false
	o.echoWarnings()

	return 1
}

func (o *IO) echoWarnings() {
	if o.echoed || len(o.warnings) == 0 {
		return
	}

	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}

	o.echoed = true
}
