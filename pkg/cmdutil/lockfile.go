package cmdutil

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stackhand/go-sdk/pkg/flagutil"
	"github.com/stackhand/go-sdk/pkg/lockutil"
)

// WithLockfile adds the standard lockfile flags and makes the command hold an
// exclusive lock named after the application while it runs. A second instance
// fails to start while the lock is held.
func WithLockfile() Option {
	var (
		lockDir string
		lock    *lockutil.Lock
	)

	return func(cmd *cobra.Command) error {
		parser := flagutil.Wrap(cmd.PersistentFlags())
		group := parser.Group("lockfile", flagutil.WithoutEnvPrefix())

		group.StringVar(&lockDir, flagutil.Spec{
			Name:   "lock-dir",
			EnvVar: "LOCK_DIR",
		}, lockutil.DefaultDir, "Dir where lock files are stored.")

		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			Must(parser.Err())

			var err error
			lock, err = lockutil.Acquire(lockDir, cmd.Root().Name(), lockutil.DefaultTimeout)
			Must(err)

			slog.Debug("acquired lock", "path", lock.Path())
		}

		cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
			if lock == nil {
				return
			}

			slog.Debug("releasing lock", "path", lock.Path())
			err := lock.Release()
			if err != nil {
				slog.Error("failed to release lock", "error", err.Error())
			}
		}

		return nil
	}
}
