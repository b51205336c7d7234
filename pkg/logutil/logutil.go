package logutil

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	slogmulti "github.com/samber/slog-multi"
)

// Config describes the log destinations of an application. The zero value
// logs nowhere; cmdutil fills it from the standard logging flags.
type Config struct {
	// Level is one of LevelNames. Empty means DefaultLevel.
	Level string

	// File is an optional path to a log file. The file gets appended to and
	// receives JSON-formatted records.
	File string

	// SyslogFacility enables the syslog sink. Empty disables syslog.
	SyslogFacility string

	// ToStdout enables the human-readable console sink on stderr.
	ToStdout bool
}

// New builds a logger that fans out to the sinks enabled in the config. The
// name is used as the syslog tag and gets attached to every record.
func New(name string, cfg Config) (*slog.Logger, error) {
	levelName := cfg.Level
	if levelName == "" {
		levelName = DefaultLevel
	}

	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	handlers := []slog.Handler{}

	if cfg.ToStdout {
		handlers = append(handlers, tint.NewHandler(os.Stderr, &tint.Options{
			Level:       level,
			TimeFormat:  time.DateTime,
			ReplaceAttr: replaceLevelName,
		}))
	}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open log file")
		}

		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceLevelName,
		}))
	}

	if cfg.SyslogFacility != "" {
		handler, err := newSyslogHandler(name, cfg.SyslogFacility, level)
		if err != nil {
			return nil, err
		}

		handlers = append(handlers, handler)
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.DiscardHandler
	case 1:
		handler = handlers[0]
	default:
		handler = slogmulti.Fanout(handlers...)
	}

	return slog.New(handler).With("app", name), nil
}
