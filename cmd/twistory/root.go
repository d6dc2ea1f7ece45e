package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"twistory/pkg/config"
)

var version = "2.0.0"

// runFunc performs a fetch with validated options
type runFunc func(ctx context.Context, opts config.Options, configPath string, stdout, stderr io.Writer) error

// usageError asks for the usage text on standard error
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	if e.err == nil {
		return "usage error"
	}
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// usageText is the synopsis shown for -h and for bad invocations
func usageText(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [-hlrv] [-[ab] id] -u user\n", name)
	b.WriteString("\t-a after   get history since this message\n")
	b.WriteString("\t-b before  get history prior to this message\n")
	b.WriteString("\t-h         print this message and exit\n")
	b.WriteString("\t-l         print each message on a single line\n")
	b.WriteString("\t-r         print messages that were retweeted\n")
	b.WriteString("\t-u user    get history of this user\n")
	b.WriteString("\t-v         increase verbosity\n")
	b.WriteString("\t--config f read settings from this file\n")
	return b.String()
}

// newRootCmd builds the twistory command
func newRootCmd(stdout, stderr io.Writer, run runFunc) *cobra.Command {
	var (
		opts       config.Options
		after      int64
		before     int64
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "twistory",
		Short: "Print a Twitter user's history",
		Long: `twistory prints the tweets of one user, newest first, one per line.

An id range given with -a and -b limits the output. Shortened t.co links
are replaced with their destinations.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{err: fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.After = changedInt64(cmd.Flags(), "after", after)
			opts.Before = changedInt64(cmd.Flags(), "before", before)
			if err := opts.Validate(); err != nil {
				return &usageError{}
			}
			return run(cmd.Context(), opts, configPath, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.Int64VarP(&after, "after", "a", 0, "get history since this message")
	flags.Int64VarP(&before, "before", "b", 0, "get history prior to this message")
	flags.BoolVarP(&opts.Lineify, "lineify", "l", false, "print each message on a single line")
	flags.BoolVarP(&opts.Retweets, "retweets", "r", false, "print messages that were retweeted")
	flags.StringVarP(&opts.User, "user", "u", "", "get history of this user")
	flags.CountVarP(&opts.Verbosity, "verbose", "v", "increase verbosity")
	flags.StringVar(&configPath, "config", "", "read settings from this file")

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), usageText(cmd.Name()))
	})
	cmd.SetVersionTemplate("twistory {{.Version}}\n")

	return cmd
}

// changedInt64 returns v only when the named flag was given
func changedInt64(flags *pflag.FlagSet, name string, v int64) *int64 {
	if !flags.Changed(name) {
		return nil
	}
	return config.Int64(v)
}
