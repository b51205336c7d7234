//go:build !windows

package logutil

import (
	"log/slog"
	"log/syslog"
	"strings"

	"github.com/pkg/errors"
	slogsyslog "github.com/samber/slog-syslog/v2"
)

var facilities = map[string]syslog.Priority{
	"kern":     syslog.LOG_KERN,
	"user":     syslog.LOG_USER,
	"mail":     syslog.LOG_MAIL,
	"daemon":   syslog.LOG_DAEMON,
	"auth":     syslog.LOG_AUTH,
	"syslog":   syslog.LOG_SYSLOG,
	"lpr":      syslog.LOG_LPR,
	"news":     syslog.LOG_NEWS,
	"uucp":     syslog.LOG_UUCP,
	"cron":     syslog.LOG_CRON,
	"authpriv": syslog.LOG_AUTHPRIV,
	"ftp":      syslog.LOG_FTP,
	"local0":   syslog.LOG_LOCAL0,
	"local1":   syslog.LOG_LOCAL1,
	"local2":   syslog.LOG_LOCAL2,
	"local3":   syslog.LOG_LOCAL3,
	"local4":   syslog.LOG_LOCAL4,
	"local5":   syslog.LOG_LOCAL5,
	"local6":   syslog.LOG_LOCAL6,
	"local7":   syslog.LOG_LOCAL7,
}

// Facility resolves a facility name like "local7" into a syslog priority.
func Facility(name string) (syslog.Priority, error) {
	facility, ok := facilities[strings.ToLower(name)]
	if !ok {
		return 0, errors.Errorf("invalid syslog facility %q", name)
	}
	return facility, nil
}

func newSyslogHandler(name, facilityName string, level slog.Level) (slog.Handler, error) {
	facility, err := Facility(facilityName)
	if err != nil {
		return nil, err
	}

	w, err := syslog.New(facility|syslog.LOG_INFO, name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to syslog")
	}

	return slogsyslog.Option{
		Level:  level,
		Writer: w,
	}.NewSyslogHandler(), nil
}
