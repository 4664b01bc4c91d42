package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Console is the user-facing output sink. Info goes to out, errors and
// verbose traces go to errOut. Colours are disabled automatically when the
// stream is not a terminal or NO_COLOR is set.
type Console struct {
	out    io.Writer
	errOut io.Writer

	info  *color.Color
	err   *color.Color
	faint *color.Color
}

// NewConsole creates a Console writing to out and errOut.
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{
		out:    out,
		errOut: errOut,
		info:   color.New(color.FgGreen),
		err:    color.New(color.FgRed, color.Bold),
		faint:  color.New(color.Faint),
	}
}

// Info prints a progress message. With --json it goes to errOut so that
// stdout carries only the JSON document.
func (c *Console) Info(message string) {
	if jsonOutput {
		c.info.Fprintln(c.errOut, message)
		return
	}
	c.info.Fprintln(c.out, message)
}

// Error prints an error message with the "Error:" prefix.
func (c *Console) Error(message string) {
	fmt.Fprintf(c.errOut, "%s %s\n", c.err.Sprint("Error:"), message)
}

// Hint prints a secondary line under an error.
func (c *Console) Hint(message string) {
	c.faint.Fprintln(c.errOut, "  "+message)
}

// Verbosef prints a trace line when --verbose is set.
func (c *Console) Verbosef(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(c.errOut, "[verbose] "+format+"\n", args...)
	}
}
