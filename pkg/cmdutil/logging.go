package cmdutil

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stackhand/go-sdk/pkg/flagutil"
	"github.com/stackhand/go-sdk/pkg/logutil"
)

// WithLogging adds the standard logging flags and installs the configured
// logger as the slog default before the command runs.
//
// The stdoutDefault parameter decides the polarity of the stdout flag: if
// logging to stdout is the default, the command gets a --no-log-to-stdout
// flag to suppress it; otherwise it gets a --log-to-stdout flag to enable it.
// The latter is useful for monitoring scripts whose stdout is ingested by the
// monitoring system.
func WithLogging(stdoutDefault bool) Option {
	var (
		cfg      logutil.Config
		noStdout bool
		noSyslog bool
	)

	return func(cmd *cobra.Command) error {
		parser := flagutil.Wrap(cmd.PersistentFlags())
		group := parser.Group("logging", flagutil.WithoutEnvPrefix())

		group.StringVar(&cfg.Level, flagutil.Spec{
			Name:    "log-level",
			EnvVar:  "LOG_LEVEL",
			Choices: logutil.LevelNames(),
		}, logutil.DefaultLevel, "Verbosity of logging.")

		group.StringVar(&cfg.File, flagutil.Spec{
			Name:   "log-file",
			EnvVar: "LOG_FILE",
		}, "", "Full-qualified path to the log file.")

		group.StringVar(&cfg.SyslogFacility, flagutil.Spec{
			Name:   "syslog-facility",
			EnvVar: "SYSLOG_FACILITY",
		}, logutil.DefaultFacility, "Syslog facility to use.")

		group.BoolVar(&noSyslog, flagutil.Spec{
			Name:          "no-syslog-facility",
			NoEnv:         true,
			NoDefaultHelp: true,
		}, false, "Disable the syslog facility.")

		if stdoutDefault {
			group.BoolVar(&noStdout, flagutil.Spec{
				Name:  "no-log-to-stdout",
				NoEnv: true,
			}, false, "Suppress logging to stdout/stderr.")
		} else {
			group.BoolVar(&cfg.ToStdout, flagutil.Spec{
				Name:  "log-to-stdout",
				NoEnv: true,
			}, false, "Log to stdout/stderr, useful for debugging.")
		}

		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			Must(parser.Err())
			Must(parser.Validate())

			if stdoutDefault {
				cfg.ToStdout = !noStdout
			}
			if noSyslog {
				cfg.SyslogFacility = ""
			}

			logger, err := logutil.New(cmd.Root().Name(), cfg)
			Must(err)

			slog.SetDefault(logger)
		}

		return nil
	}
}
