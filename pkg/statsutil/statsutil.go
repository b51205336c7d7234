// Package statsutil provides a small metrics client abstraction for CLI
// applications. Applications count events with Incr and measure durations
// with Timing or Timer; whether that ends up in statsd, Prometheus or nowhere
// is decided by flags at startup.
package statsutil

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultHost        = "localhost"
	DefaultPort        = 8125
	DefaultEnvironment = "dev"
)

// Client counts events and measures durations. Implementations must be safe
// for concurrent use.
type Client interface {
	// Incr increments the counter with the given name by one.
	Incr(name string)

	// Timing records a single duration measurement.
	Timing(name string, d time.Duration)

	// Timer starts a measurement and returns a function that stops it:
	//
	//	defer stats.Timer("index.rebuild")()
	Timer(name string) func()

	// Close flushes and releases the underlying connection, if any.
	Close() error
}

// Config describes the metrics backend. It mirrors the standard stats flags
// (--stats, --stats-host, --stats-port, --stats-environment).
type Config struct {
	Enabled     bool
	Host        string
	Port        int
	Environment string

	// Prefix names the application inside the metric namespace, eg
	// "cli.myapp".
	Prefix string
}

// New creates a statsd-backed client, or a no-op client if stats are
// disabled. Metric names get prefixed with "<environment>.<hostname>.<prefix>.".
func New(cfg Config) (Client, error) {
	if !cfg.Enabled {
		return Noop(), nil
	}

	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Environment == "" {
		cfg.Environment = Environment()
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	return newStatsd(addr, namespace(cfg))
}

func namespace(cfg Config) string {
	parts := []string{cfg.Environment, shortHostname()}
	if cfg.Prefix != "" {
		parts = append(parts, cfg.Prefix)
	}
	return strings.Join(parts, ".") + "."
}

// Environment determines the stats environment from the process environment.
// It checks STATS_ENVIRONMENT and STATSD_ENVIRONMENT in order and falls back
// to DefaultEnvironment.
func Environment() string {
	for _, key := range []string{"STATS_ENVIRONMENT", "STATSD_ENVIRONMENT"} {
		if env := os.Getenv(key); env != "" {
			return env
		}
	}
	return DefaultEnvironment
}

func shortHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return strings.SplitN(hostname, ".", 2)[0]
}

// Noop returns a client that discards all measurements. It is the default
// wherever no real client got injected.
func Noop() Client {
	return noopClient{}
}

type noopClient struct{}

func (noopClient) Incr(string)                  {}
func (noopClient) Timing(string, time.Duration) {}
func (noopClient) Timer(string) func()          { return func() {} }
func (noopClient) Close() error                 { return nil }
