package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stackhand/go-sdk/pkg/cmdutil"
	"github.com/stackhand/go-sdk/pkg/executil"
	"github.com/stackhand/go-sdk/pkg/flagutil"
	"github.com/stackhand/go-sdk/pkg/logutil"
)

var terminateSignals = map[string]syscall.Signal{
	"HUP":  syscall.SIGHUP,
	"INT":  syscall.SIGINT,
	"QUIT": syscall.SIGQUIT,
	"KILL": syscall.SIGKILL,
	"TERM": syscall.SIGTERM,
	"USR1": syscall.SIGUSR1,
	"USR2": syscall.SIGUSR2,
}

func signalNames() []string {
	names := make([]string, 0, len(terminateSignals))
	for name := range terminateSignals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Runner struct {
	timeout   time.Duration
	grace     time.Duration
	filters   []string
	terminate string
	noGuard   bool
	quiet     bool
}

func (r *Runner) Bind(cmd *cobra.Command) error {
	parser := flagutil.Wrap(cmd.PersistentFlags())
	group := parser.Group("execution", flagutil.WithEnvPrefix("SAFERUN"))

	group.DurationVar(&r.timeout, flagutil.Spec{Name: "timeout"}, 0,
		"Terminate the command if it runs longer than this. Zero disables the timeout.")
	group.DurationVar(&r.grace, flagutil.Spec{Name: "grace-period"}, 5*time.Second,
		"How long a timed-out command may linger after the terminate signal before it gets killed.")
	group.StringSliceVar(&r.filters, flagutil.Spec{Name: "filter"}, nil,
		"Regular expression for output lines to drop. Can be repeated.")
	group.StringVar(&r.terminate, flagutil.Spec{
		Name:    "terminate-signal",
		Choices: signalNames(),
	}, "TERM", "Signal sent to the command on timeout.")
	group.BoolVar(&r.noGuard, flagutil.Spec{Name: "no-guard", NoEnv: true}, false,
		"Disable the injection guard. Only use this for trusted commands that legitimately contain guard characters.")
	group.BoolVar(&r.quiet, flagutil.Spec{Name: "quiet", Shorthand: "q", NoEnv: true}, false,
		"Do not echo the captured output of the command.")

	cmd.Args = cobra.MinimumNArgs(1)

	return parser.Err()
}

func (r *Runner) Run(ctx context.Context, args []string) error {
	ctx = logutil.Start(ctx, "saferun")

	sig, ok := terminateSignals[strings.ToUpper(r.terminate)]
	if !ok {
		return errors.Errorf("invalid terminate signal %q (choose from: %s)",
			r.terminate, strings.Join(signalNames(), ", "))
	}

	filters := make([]*regexp.Regexp, 0, len(r.filters))
	for _, pattern := range r.filters {
		filter, err := regexp.Compile(pattern)
		if err != nil {
			return errors.Wrapf(err, "invalid filter %q", pattern)
		}
		filters = append(filters, filter)
	}

	runner := executil.New(
		executil.WithStats(cmdutil.Stats()),
		executil.WithGracePeriod(r.grace),
	)

	res := runner.Run(ctx, executil.Spec{
		Command:         args,
		Filters:         filters,
		Timeout:         r.timeout,
		TerminateSignal: sig,
		NoGuard:         r.noGuard,
	})

	ctx = logutil.WithFields(ctx, logutil.FromStruct(res))
	logutil.Get(ctx).Info("command finished")

	if !r.quiet {
		for _, line := range res.Stdout {
			fmt.Fprintln(os.Stdout, line)
		}
		for _, line := range res.Stderr {
			fmt.Fprintln(os.Stderr, line)
		}
	}

	if !res.Succeeded {
		// Pass real exit codes through; the sentinel for commands that never
		// ran is out of the valid range and maps to a general failure.
		if res.ExitCode > 0 && res.ExitCode < executil.ExitCodeNeverRan {
			cmdutil.Exit(res.ExitCode)
		}
		cmdutil.Exit(cmdutil.ExitCodeGeneralError)
	}

	return nil
}
