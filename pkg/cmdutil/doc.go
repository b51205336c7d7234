// Package cmdutil contains helper utilities for setting up a CLI with Go,
// providing basic application behavior and for reducing boilerplate code.
//
// Many independent command line tools within an organization should share
// consistent flag names, logging behavior and operational metrics. This
// package composes the other SDK packages (flagutil, logutil, statsutil,
// lockutil) into two ready-to-use bootstrap surfaces.
//
// # Command Bootstrap
//
// New creates a cobra command with the standard application behavior wired
// up via functional options:
//
//	func main() {
//	    defer cmdutil.HandleExit()
//
//	    cmd := cmdutil.New(
//	        "myapp", "an example app",
//	        cmdutil.WithLogging(true),
//	        cmdutil.WithStats(),
//	        cmdutil.WithLockfile(),
//	        cmdutil.WithVersionCommand(),
//	        cmdutil.WithRunner(new(Runner)),
//	    )
//
//	    if err := cmd.Execute(); err != nil {
//	        cmdutil.Exit(cmdutil.ExitCodeUsage)
//	    }
//	}
//
// Runners are structs that define command line flags in Bind and run the
// application code in Run:
//
//	type Runner struct {
//	    name string
//	}
//
//	func (r *Runner) Bind(cmd *cobra.Command) error {
//	    cmd.PersistentFlags().StringVar(
//	        &r.name, "name", "world", `Your name.`)
//	    return nil
//	}
//
//	func (r *Runner) Run(ctx context.Context, args []string) error {
//	    slog.Info("hello", "name", r.name)
//	    return nil
//	}
//
// # Application Bootstrap
//
// NewApplication is the cobra-less alternative for small tools. It owns a
// flagutil parser with the standard groups and constructs the collaborators
// from the parsed options; see Application.
//
// # Graceful Application Exits
//
// In many command line applications it is desired to exit the process
// immediately, if it is clear that the application cannot recover. With
// os.Exit the process terminates immediately, but deferred cleanup does not
// run. A plain panic respects defers, but gives no exit code and confuses
// the user with a stack trace.
//
// The package provides an alternative, which panics with a known struct and
// catches it right before the application exit:
//
//	func main() {
//	  defer cmdutil.HandleExit()
//	  run()
//	}
//
//	func run() {
//	  defer fmt.Println("important cleanup")
//	  err := doSomething()
//	  if err != nil {
//	    slog.Error(err.Error())
//	    cmdutil.Exit(2)
//	  }
//	}
//
// This is designed for actual applications, not libraries: only the
// application itself should decide when to exit. Libraries should always
// return errors.
package cmdutil
