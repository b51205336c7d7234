package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/stackhand/go-sdk/pkg/flagutil"
	"github.com/stackhand/go-sdk/pkg/lockutil"
	"github.com/stackhand/go-sdk/pkg/logutil"
	"github.com/stackhand/go-sdk/pkg/statsutil"
)

// Application is the object-oriented bootstrap surface for applications that
// do not want a cobra command tree. It owns the argument parser with the
// standard flag groups and constructs the logger, the stats client and the
// optional lock from the parsed options.
//
//	app := cmdutil.NewApplication("myapp")
//	if err := app.Bootstrap(os.Args[1:]); err != nil {
//	    cmdutil.Must(err)
//	}
//	defer app.Exit(cmdutil.ExitCodeOK)
type Application struct {
	Name    string
	Parser  *flagutil.Parser
	Options *flagutil.Options
	Log     *slog.Logger
	Stats   statsutil.Client
	Lock    *lockutil.Lock

	cfg       applicationConfig
	logCfg    logutil.Config
	noStdout  bool
	noSyslog  bool
	statsCfg  statsutil.Config
	lockDir   string
	exitHooks []func()
}

type applicationConfig struct {
	stdoutDefault bool
	acquireLock   bool
	logging       bool
	stats         bool
	lockfile      bool
	parserOpts    []flagutil.Option
}

// ApplicationOption modifies the application on construction.
type ApplicationOption func(*applicationConfig)

// WithoutLogging skips the standard logging flags. The application logs to
// the slog default logger.
func WithoutLogging() ApplicationOption {
	return func(cfg *applicationConfig) {
		cfg.logging = false
	}
}

// WithoutStats skips the standard stats flags. The application gets a no-op
// stats client.
func WithoutStats() ApplicationOption {
	return func(cfg *applicationConfig) {
		cfg.stats = false
	}
}

// WithoutLockfileFlags skips the standard lockfile flags.
func WithoutLockfileFlags() ApplicationOption {
	return func(cfg *applicationConfig) {
		cfg.lockfile = false
	}
}

// WithStdoutDefault decides the polarity of the stdout logging flag; see
// WithLogging.
func WithStdoutDefault(enabled bool) ApplicationOption {
	return func(cfg *applicationConfig) {
		cfg.stdoutDefault = enabled
	}
}

// WithLock makes Bootstrap acquire the application lock.
func WithLock() ApplicationOption {
	return func(cfg *applicationConfig) {
		cfg.acquireLock = true
	}
}

// WithEnvLookup replaces the environment lookup of the parser; see
// flagutil.WithEnv.
func WithEnvLookup(env flagutil.EnvFunc) ApplicationOption {
	return func(cfg *applicationConfig) {
		cfg.parserOpts = append(cfg.parserOpts, flagutil.WithEnv(env))
	}
}

// NewApplication creates an Application and registers the standard flag
// groups on its parser. Additional flags can be added to the parser before
// calling Bootstrap.
func NewApplication(name string, opts ...ApplicationOption) *Application {
	cfg := applicationConfig{
		stdoutDefault: true,
		logging:       true,
		stats:         true,
		lockfile:      true,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	app := &Application{
		Name:   name,
		Parser: flagutil.New(name, cfg.parserOpts...),
		Log:    slog.Default(),
		Stats:  statsutil.Noop(),
		cfg:    cfg,
	}

	if cfg.logging {
		app.bindLoggingFlags()
	}
	if cfg.stats {
		app.bindStatsFlags()
	}
	if cfg.lockfile {
		app.bindLockfileFlags()
	}

	return app
}

func (app *Application) bindLoggingFlags() {
	group := app.Parser.Group("logging", flagutil.WithoutEnvPrefix())

	group.StringVar(&app.logCfg.Level, flagutil.Spec{
		Name:    "log-level",
		EnvVar:  "LOG_LEVEL",
		Choices: logutil.LevelNames(),
	}, logutil.DefaultLevel, "Verbosity of logging.")

	group.StringVar(&app.logCfg.File, flagutil.Spec{
		Name:   "log-file",
		EnvVar: "LOG_FILE",
	}, "", "Full-qualified path to the log file.")

	group.StringVar(&app.logCfg.SyslogFacility, flagutil.Spec{
		Name:   "syslog-facility",
		EnvVar: "SYSLOG_FACILITY",
	}, logutil.DefaultFacility, "Syslog facility to use.")

	group.BoolVar(&app.noSyslog, flagutil.Spec{
		Name:          "no-syslog-facility",
		NoEnv:         true,
		NoDefaultHelp: true,
	}, false, "Disable the syslog facility.")

	if app.cfg.stdoutDefault {
		group.BoolVar(&app.noStdout, flagutil.Spec{
			Name:  "no-log-to-stdout",
			NoEnv: true,
		}, false, "Suppress logging to stdout/stderr.")
	} else {
		group.BoolVar(&app.logCfg.ToStdout, flagutil.Spec{
			Name:  "log-to-stdout",
			NoEnv: true,
		}, false, "Log to stdout/stderr, useful for debugging.")
	}
}

func (app *Application) bindStatsFlags() {
	group := app.Parser.Group("stats", flagutil.WithoutEnvPrefix())

	group.BoolVar(&app.statsCfg.Enabled, flagutil.Spec{
		Name:   "stats",
		EnvVar: "STATS",
	}, false, "Enable sending statistics to statsd.")

	group.StringVar(&app.statsCfg.Host, flagutil.Spec{
		Name:   "stats-host",
		EnvVar: "STATS_HOST",
	}, statsutil.DefaultHost, "Statsd host to send statistics to.")

	group.IntVar(&app.statsCfg.Port, flagutil.Spec{
		Name:   "stats-port",
		EnvVar: "STATS_PORT",
	}, statsutil.DefaultPort, "Statsd port to send statistics to.")

	group.StringVar(&app.statsCfg.Environment, flagutil.Spec{
		Name:   "stats-environment",
		EnvVar: "STATS_ENVIRONMENT",
	}, statsutil.DefaultEnvironment, "Statsd environment.")
}

func (app *Application) bindLockfileFlags() {
	group := app.Parser.Group("lockfile", flagutil.WithoutEnvPrefix())

	group.StringVar(&app.lockDir, flagutil.Spec{
		Name:   "lock-dir",
		EnvVar: "LOCK_DIR",
	}, lockutil.DefaultDir, "Dir where lock files are stored.")
}

// Bootstrap parses the given argument vector and constructs the logger, the
// stats client and the optional lock. Passing nil parses the live process
// arguments.
func (app *Application) Bootstrap(argv []string) error {
	options, err := app.Parser.Parse(argv)
	if err != nil {
		return err
	}
	app.Options = options

	if app.cfg.logging {
		if app.cfg.stdoutDefault {
			app.logCfg.ToStdout = !app.noStdout
		}
		if app.noSyslog {
			app.logCfg.SyslogFacility = ""
		}

		app.Log, err = logutil.New(app.Name, app.logCfg)
		if err != nil {
			return err
		}
	}

	if app.cfg.stats {
		app.statsCfg.Prefix = "cli." + app.Name

		app.Stats, err = statsutil.New(app.statsCfg)
		if err != nil {
			return err
		}
	}

	if app.cfg.acquireLock {
		err = app.AcquireLock()
		if err != nil {
			return err
		}
	}

	return nil
}

// AcquireLock takes the application lock and registers an exit hook that
// releases it again.
func (app *Application) AcquireLock() error {
	dir := app.lockDir
	if dir == "" {
		dir = lockutil.DefaultDir
	}

	lock, err := lockutil.Acquire(dir, app.Name, lockutil.DefaultTimeout)
	if err != nil {
		return err
	}

	app.Lock = lock
	app.Log.Debug("acquired lock", "path", lock.Path())

	app.AddExitHook(func() {
		app.Log.Debug("releasing lock", "path", lock.Path())
		err := lock.Release()
		if err != nil {
			app.Log.Error("failed to release lock", "error", err.Error())
		}
	})

	return nil
}

// AddExitHook registers a function that runs when Exit is called. Hooks run
// in registration order; a panicking hook is logged and does not prevent the
// remaining hooks from running.
func (app *Application) AddExitHook(hook func()) {
	app.exitHooks = append(app.exitHooks, hook)
}

// Exit shuts the application down: it runs all exit hooks and terminates the
// process with the given code via Exit. It requires HandleExit to be deferred
// in the main function.
func (app *Application) Exit(code int) {
	app.Log.Debug("explicitly exiting application", "code", code)
	app.runExitHooks()
	Exit(code)
}

// RunExitHooks runs the registered exit hooks without terminating. It is
// useful for error paths that return instead of exiting.
func (app *Application) RunExitHooks() {
	app.runExitHooks()
}

func (app *Application) runExitHooks() {
	for _, hook := range app.exitHooks {
		app.runExitHook(hook)
	}
}

func (app *Application) runExitHook(hook func()) {
	defer func() {
		if r := recover(); r != nil {
			app.Log.Error("exit hook failed", "error", fmt.Sprint(r))
		}
	}()

	hook()
}
