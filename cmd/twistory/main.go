package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	errs "twistory/pkg/errors"
	"twistory/pkg/ui"
)

const (
	exitSuccess = 0
	exitError   = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, runFetch)
	stop()
	os.Exit(code)
}

// execute runs the command line and maps the outcome onto an exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, run runFunc) int {
	cmd := newRootCmd(stdout, stderr, run)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}

	var usage *usageError
	switch {
	case errors.As(err, &usage):
		if usage.err != nil {
			fmt.Fprintln(stderr, usage.err)
		}
		fmt.Fprint(stderr, usageText(cmd.Name()))
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		// interrupted; nothing to add
	default:
		printError(stderr, err)
	}
	return exitError
}

// printError shows err without its type prefix when it is one of ours
func printError(stderr io.Writer, err error) {
	term := ui.NewTerminal(stderr)
	if e, ok := errs.As(err); ok {
		if e.Err != nil {
			term.PrintError(e.Message, e.Err)
			return
		}
		term.PrintError(e.Message)
		return
	}
	term.PrintError(err.Error())
}
