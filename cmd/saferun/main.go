package main

import (
	"log/slog"

	"github.com/stackhand/go-sdk/pkg/cmdutil"
)

func main() {
	defer cmdutil.HandleExit()

	cmd := cmdutil.New(
		"saferun [flags] -- command [args...]",
		"Runs a single instance of a command with timeout handling and output filtering",
		cmdutil.WithLogging(true),
		cmdutil.WithStats(),
		cmdutil.WithLockfile(),
		cmdutil.WithVersionCommand(),
		cmdutil.WithRunner(new(Runner)),
	)

	if err := cmd.Execute(); err != nil {
		slog.Error(err.Error())
		cmdutil.Exit(cmdutil.ExitCodeUsage)
	}
}
