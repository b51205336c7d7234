package cmdutil

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/stackhand/go-sdk/pkg/flagutil"
	"github.com/stackhand/go-sdk/pkg/statsutil"
)

var (
	statsMux    sync.RWMutex
	statsClient = statsutil.Noop()
)

// Stats returns the metrics client configured by WithStats. It returns a
// no-op client until the command actually runs, so libraries can grab it
// unconditionally.
func Stats() statsutil.Client {
	statsMux.RLock()
	defer statsMux.RUnlock()
	return statsClient
}

// WithStats adds the standard stats flags and configures the package metrics
// client before the command runs. Stats stay disabled unless --stats (or the
// STATS environment variable) turns them on.
func WithStats() Option {
	var cfg statsutil.Config

	return func(cmd *cobra.Command) error {
		parser := flagutil.Wrap(cmd.PersistentFlags())
		group := parser.Group("stats", flagutil.WithoutEnvPrefix())

		group.BoolVar(&cfg.Enabled, flagutil.Spec{
			Name:   "stats",
			EnvVar: "STATS",
		}, false, "Enable sending statistics to statsd.")

		group.StringVar(&cfg.Host, flagutil.Spec{
			Name:   "stats-host",
			EnvVar: "STATS_HOST",
		}, statsutil.DefaultHost, "Statsd host to send statistics to.")

		group.IntVar(&cfg.Port, flagutil.Spec{
			Name:   "stats-port",
			EnvVar: "STATS_PORT",
		}, statsutil.DefaultPort, "Statsd port to send statistics to.")

		group.StringVar(&cfg.Environment, flagutil.Spec{
			Name:   "stats-environment",
			EnvVar: "STATS_ENVIRONMENT",
		}, statsutil.DefaultEnvironment, "Statsd environment.")

		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			Must(parser.Err())

			cfg.Prefix = "cli." + cmd.Root().Name()

			client, err := statsutil.New(cfg)
			Must(err)

			statsMux.Lock()
			statsClient = client
			statsMux.Unlock()
		}

		return nil
	}
}
