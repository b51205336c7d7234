package logutil

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

type contextKey string

const contextKeyLogger contextKey = "logger"

// Get extracts the current logger from the given context. It returns the
// default logger, if there is no logger in the context.
func Get(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(contextKeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// Start creates a new logger for the given subsystem and stores it in the
// returned context. The logger carries the subsystem name and a fresh trace
// ID, so log lines of one invocation can be correlated.
func Start(ctx context.Context, subsystem string) context.Context {
	logger := Get(ctx).With(
		"subsystem", subsystem,
		"trace-id", traceID(),
	)
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithField returns a copy of the context whose logger has the given field
// attached.
func WithField(ctx context.Context, key string, value any) context.Context {
	return WithFields(ctx, map[string]any{key: value})
}

// WithFields returns a copy of the context whose logger has the given fields
// attached.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	attrs := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	return context.WithValue(ctx, contextKeyLogger, Get(ctx).With(attrs...))
}

// FromStruct converts any struct into a map for use as log fields. It can be
// customized with the logfield annotation:
//
//	type Result struct {
//	    ExitCode  int  `logfield:"exit-code"`
//	    Succeeded bool `logfield:"succeeded"`
//	}
//
// See mapstructure docs for more information:
// https://pkg.go.dev/github.com/mitchellh/mapstructure
func FromStruct(s any) map[string]any {
	fields := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "logfield",
		Result:  &fields,
	})
	if err != nil {
		return map[string]any{"logfield-error": err}
	}

	err = dec.Decode(s)
	if err != nil {
		return map[string]any{"logfield-error": err}
	}

	return fields
}

func traceID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
