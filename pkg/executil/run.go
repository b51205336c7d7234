package executil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/google/shlex"
	"github.com/pkg/errors"

	"github.com/stackhand/go-sdk/pkg/logutil"
	"github.com/stackhand/go-sdk/pkg/statsutil"
)

var (
	// ErrRejected indicates that the injection guard refused to execute the
	// command. The process was never created.
	ErrRejected = errors.New("command rejected by injection guard")

	// ErrTimeout indicates that the command did not finish within the
	// configured timeout and was signalled.
	ErrTimeout = errors.New("command timed out")
)

// guardPattern matches characters associated with nested command execution,
// like `sudo cat $(which sh)`. The set is deliberately narrow and must stay
// stable for compatibility; it is a heuristic, not a complete shell
// metacharacter list.
var guardPattern = regexp.MustCompile("[`$()]")

const defaultGracePeriod = 5 * time.Second

// Runner executes external commands. The zero-configuration runner logs via
// the context logger and discards metrics; see the options.
type Runner struct {
	log   *slog.Logger
	stats statsutil.Client
	grace time.Duration
}

// Option modifies a Runner on construction.
type Option func(*Runner)

// WithLogger pins the runner to a logger instead of using the context logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithStats sets the metrics client that counts failed executions.
func WithStats(stats statsutil.Client) Option {
	return func(r *Runner) {
		r.stats = stats
	}
}

// WithGracePeriod bounds the drain wait between sending the terminate signal
// and giving up on a timed-out process.
func WithGracePeriod(d time.Duration) Option {
	return func(r *Runner) {
		r.grace = d
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		stats: statsutil.Noop(),
		grace: defaultGracePeriod,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Spec describes one command invocation.
type Spec struct {
	// Command is the argument vector. It is executed directly, never through
	// a shell. Use Split to turn a command string into a vector.
	Command []string

	// Filters drop matching output lines from the captured stdout/stderr.
	Filters []*regexp.Regexp

	// Timeout bounds the execution. Zero means no timeout.
	Timeout time.Duration

	// TerminateSignal is sent to the process on timeout or cancellation.
	// Defaults to SIGTERM.
	TerminateSignal os.Signal

	// NoGuard disables the injection guard. Only set this for commands that
	// legitimately contain guard characters and never carry user input.
	NoGuard bool
}

// Split splits a command string into an argument vector using shell-lexical
// quoting rules, so `cat "/var/log/foo bar.log"` yields two tokens.
func Split(command string) ([]string, error) {
	args, err := shlex.Split(command)
	return args, errors.Wrapf(err, "failed to split command %q", command)
}

// Filters compiles literal pattern strings for Spec.Filters. It panics on
// invalid patterns, mirroring regexp.MustCompile.
func Filters(patterns ...string) []*regexp.Regexp {
	filters := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		filters = append(filters, regexp.MustCompile(pattern))
	}
	return filters
}

// RunString is a convenience wrapper around Run for plain command strings.
func (r *Runner) RunString(ctx context.Context, command string) *Result {
	args, err := Split(command)
	if err != nil {
		return &Result{
			Command:  []string{command},
			ExitCode: ExitCodeNeverRan,
			Err:      err,
		}
	}

	return r.Run(ctx, Spec{Command: args})
}

// Run executes the command to completion and reports the outcome as data. It
// never returns an error; failures of any kind are represented on the Result
// and callers opt into errors via Result.AsError.
//
// Run blocks until the process exits, the timeout elapses or the context gets
// cancelled. On timeout the terminate signal is sent and the process gets one
// bounded grace period to die before it is killed.
func (r *Runner) Run(ctx context.Context, spec Spec) *Result {
	log := r.logger(ctx)
	res := &Result{Command: spec.Command}

	if len(spec.Command) == 0 {
		res.ExitCode = ExitCodeNeverRan
		res.Err = errors.New("empty command")
		return res
	}

	commandline := strings.Join(spec.Command, " ")
	log.Debug("running command", "command", commandline)

	for _, filter := range spec.Filters {
		log.Debug("applying output filter", "pattern", filter.String())
	}

	if !spec.NoGuard && guardPattern.MatchString(commandline) {
		log.Error("command looks like it might be trying to spawn another command, not executing",
			"command", commandline)
		res.ExitCode = ExitCodeNeverRan
		res.Err = errors.WithStack(ErrRejected)
		return res
	}

	terminateSignal := spec.TerminateSignal
	if terminateSignal == nil {
		terminateSignal = syscall.SIGTERM
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(spec.Command[0], spec.Command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Start()
	if err != nil {
		r.fail(ctx, log, res, errors.Wrapf(err, "failed to start `%s`", commandline))
		return res
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var timeout <-chan time.Time
	if spec.Timeout > 0 {
		timer := time.NewTimer(spec.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case err = <-done:
		// completed on its own

	case <-timeout:
		r.terminate(log, cmd, terminateSignal, commandline, done)
		r.fail(ctx, log, res, errors.Wrapf(ErrTimeout,
			"command `%s` did not finish within %s", commandline, spec.Timeout))
		return res

	case <-ctx.Done():
		r.terminate(log, cmd, terminateSignal, commandline, done)
		r.fail(ctx, log, res, errors.Wrapf(ctx.Err(), "command `%s` cancelled", commandline))
		return res
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() < 0 {
			r.fail(ctx, log, res, errors.Wrapf(err, "failed to run `%s`", commandline))
			return res
		}

		res.ExitCode = exitErr.ExitCode()
	}

	res.Succeeded = res.ExitCode == 0
	r.capture(log, res, spec.Filters, &stdout, &stderr)
	return res
}

func (r *Runner) logger(ctx context.Context) *slog.Logger {
	if r.log != nil {
		return r.log
	}
	return logutil.Get(ctx)
}

// terminate signals the process and drains it for one bounded grace period.
// Sending a terminate signal does not guarantee immediate death, so a kill
// follows if the process does not exit in time.
func (r *Runner) terminate(log *slog.Logger, cmd *exec.Cmd, sig os.Signal, commandline string, done <-chan error) {
	log.Debug("sending terminate signal", "command", commandline, "signal", sig.String())

	// Signalling is best-effort; the process may already be gone.
	_ = cmd.Process.Signal(sig)

	select {
	case <-done:
	case <-time.After(r.grace):
		log.Debug("process did not exit after terminate signal, killing it",
			"command", commandline)
		_ = cmd.Process.Kill()
		<-done
	}
}

// fail marks the run as failed via the internal error path: the exit code is
// preserved if a real one was observed, otherwise it becomes the sentinel.
func (r *Runner) fail(ctx context.Context, log *slog.Logger, res *Result, err error) {
	r.stats.Incr("error.run_cmd")
	log.Log(ctx, logutil.LevelCritical, "command failed", "error", err.Error())

	res.Err = err
	res.Succeeded = false
	if res.ExitCode == 0 {
		res.ExitCode = ExitCodeNeverRan
	}
}

func (r *Runner) capture(log *slog.Logger, res *Result, filters []*regexp.Regexp, stdout, stderr *bytes.Buffer) {
	res.Stdout = filterLines(log, filters, stdout.String())
	if len(res.Stdout) > 0 {
		log.Info("command output", "output", strings.Join(res.Stdout, "\n"))
	}

	res.Stderr = filterLines(log, filters, stderr.String())
	if len(res.Stderr) > 0 {
		log.Warn("command errors", "output", strings.Join(res.Stderr, "\n"))
	}
}

// filterLines drops every line that matches at least one filter and keeps the
// rest in encounter order.
func filterLines(log *slog.Logger, filters []*regexp.Regexp, output string) []string {
	if output == "" {
		return nil
	}

	var kept []string

	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		ignore := false

		for _, filter := range filters {
			if filter.MatchString(line) {
				log.Debug("output line matched filter",
					"line", line, "pattern", filter.String())
				ignore = true
			}
		}

		if !ignore {
			kept = append(kept, line)
		}
	}

	return kept
}
