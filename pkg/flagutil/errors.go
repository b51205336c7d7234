package flagutil

import "fmt"

// ConfigurationError reports invalid flag wiring, like requesting environment
// fallback for a flag without a long name. It is a developer error that
// surfaces at registration time, never at parse time.
type ConfigurationError struct {
	Flag   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Flag == "" {
		return fmt.Sprintf("invalid flag configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration for flag --%s: %s", e.Flag, e.Reason)
}

// UsageError reports malformed command line input. The surrounding CLI entry
// point is expected to print usage and terminate the process with
// cmdutil.ExitCodeUsage.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
