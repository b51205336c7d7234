//go:build windows

package logutil

import (
	"log/slog"

	"github.com/pkg/errors"
)

func newSyslogHandler(name, facilityName string, level slog.Level) (slog.Handler, error) {
	return nil, errors.New("syslog logging is not supported on windows")
}
