package executil

import (
	"fmt"
	"strings"
)

// ExitCodeNeverRan is the sentinel exit code for commands that never properly
// started or completed. Real processes exit with 0-255.
const ExitCodeNeverRan = 256

// Result describes one finished command execution. It is fully populated
// before Run returns and not modified afterwards.
type Result struct {
	// Command is the argument vector that was (or would have been) executed.
	Command []string `logfield:"command"`

	// ExitCode is the process exit code, or ExitCodeNeverRan if the process
	// never properly completed.
	ExitCode int `logfield:"exit-code"`

	// Succeeded is true if the process completed with exit code zero.
	Succeeded bool `logfield:"succeeded"`

	// Stdout and Stderr contain the captured output lines that survived
	// filtering, in encounter order.
	Stdout []string `logfield:"-"`
	Stderr []string `logfield:"-"`

	// Err carries the captured failure for runs that never completed
	// normally: guard rejections, timeouts and launch errors. It stays nil
	// for processes that merely exited non-zero.
	Err error `logfield:"-"`
}

// AsError converts a failed result into a *CommandFailedError. It returns nil
// for successful runs, so callers that prefer an error over inspecting the
// result can opt in:
//
//	if err := runner.Run(ctx, spec).AsError(); err != nil {
//	    return err
//	}
func (r *Result) AsError() error {
	if r.Succeeded {
		return nil
	}

	return &CommandFailedError{
		Command:  r.Command,
		ExitCode: r.ExitCode,
		Stderr:   r.Stderr,
	}
}

// CommandFailedError reports a command run that did not succeed.
type CommandFailedError struct {
	Command  []string
	ExitCode int
	Stderr   []string
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("command `%s` failed (%d): %s",
		strings.Join(e.Command, " "), e.ExitCode, strings.Join(e.Stderr, " "))
}
