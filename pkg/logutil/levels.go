package logutil

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// LevelCritical is one step above slog.LevelError. It is reserved for
// conditions where the application determined that it cannot continue to
// function.
const LevelCritical = slog.LevelError + 4

const (
	DefaultLevel = "warning"

	// local7 is chosen because a typical default syslog configuration does
	// not log it anywhere.
	DefaultFacility = "local7"
)

var levelNames = []string{"critical", "error", "warning", "info", "debug"}

var levels = map[string]slog.Level{
	"critical": LevelCritical,
	"error":    slog.LevelError,
	"warning":  slog.LevelWarn,
	"info":     slog.LevelInfo,
	"debug":    slog.LevelDebug,
}

// LevelNames returns the accepted log level names, most severe first.
func LevelNames() []string {
	names := make([]string, len(levelNames))
	copy(names, levelNames)
	return names
}

// ParseLevel converts a human-friendly level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	level, ok := levels[strings.ToLower(name)]
	if !ok {
		return 0, errors.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// replaceLevelName renames the level attribute so LevelCritical does not show
// up as "ERROR+4".
func replaceLevelName(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	level, ok := a.Value.Any().(slog.Level)
	if ok && level >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}

	return a
}
