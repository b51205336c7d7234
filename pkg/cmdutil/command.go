package cmdutil

import (
	"context"

	"github.com/spf13/cobra"
)

// Option configures the command created by New. Options may set PreRun and
// PersistentPreRun hooks; New chains them so every option gets to run.
type Option func(*cobra.Command) error

// New creates a ready-to-use root command. The options wire up the standard
// application behavior, eg WithLogging, WithStats, WithLockfile and
// WithRunner.
func New(use, short string, options ...Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	var (
		preRuns           = make([]func(*cobra.Command, []string), 0)
		persistentPreRuns = make([]func(*cobra.Command, []string), 0)
	)

	for _, o := range options {
		err := o(cmd)
		Must(err)

		if cmd.PreRun != nil {
			preRuns = append(preRuns, cmd.PreRun)
		}
		cmd.PreRun = nil

		if cmd.PersistentPreRun != nil {
			persistentPreRuns = append(persistentPreRuns, cmd.PersistentPreRun)
		}
		cmd.PersistentPreRun = nil
	}

	if len(persistentPreRuns) > 0 {
		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			for _, run := range persistentPreRuns {
				run(cmd, args)
			}
		}
	}

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		for _, run := range preRuns {
			run(cmd, args)
		}
	}

	return cmd
}

// WithSubCommand attaches a sub command.
func WithSubCommand(sub *cobra.Command) Option {
	return func(parent *cobra.Command) error {
		parent.AddCommand(sub)
		return nil
	}
}

// WithRun sets the main function of the command. The context gets cancelled
// on SIGINT and SIGTERM.
func WithRun(run func(ctx context.Context, cmd *cobra.Command, args []string)) Option {
	return func(cmd *cobra.Command) error {
		cmd.Run = func(cmd *cobra.Command, args []string) {
			run(SignalRootContext(), cmd, args)
		}
		return nil
	}
}

// Runner is a struct that binds command line flags and runs the actual
// application code. Splitting Bind and Run keeps flag definitions next to the
// fields they fill and gives e2e tests a proper entry point.
type Runner interface {
	Bind(cmd *cobra.Command) error
	Run(ctx context.Context, args []string) error
}

// WithRunner binds the runner's flags and installs its Run function as the
// command's main. The context gets cancelled on SIGINT and SIGTERM.
func WithRunner(runner Runner) Option {
	return func(cmd *cobra.Command) error {
		err := runner.Bind(cmd)
		if err != nil {
			return err
		}

		cmd.Run = func(cmd *cobra.Command, args []string) {
			ctx := SignalRootContext()
			Must(runner.Run(ctx, args))
		}
		return nil
	}
}
