package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Color functions for terminal output
var (
	Yellow = colorize("\033[33m%s\033[0m")
	Red    = colorize("\033[31m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// Terminal writes user-facing diagnostics, in color when attached to a tty
type Terminal struct {
	out   io.Writer
	color bool
}

// NewTerminal creates a Terminal writing to out
func NewTerminal(out io.Writer) *Terminal {
	f, ok := out.(*os.File)
	return &Terminal{
		out:   out,
		color: ok && term.IsTerminal(int(f.Fd())),
	}
}

// PrintError prints an error message in red
func (t *Terminal) PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	t.println(Red, msg)
}

// PrintWarning prints a warning message in yellow
func (t *Terminal) PrintWarning(msg string) {
	t.println(Yellow, msg)
}

func (t *Terminal) println(paint func(string) string, msg string) {
	if t.color {
		msg = paint(msg)
	}
	fmt.Fprintln(t.out, msg)
}
