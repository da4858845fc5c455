package logging

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attrs into the variadic form slog.Logger methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(nopHandler{})
}

// NewComponentLogger tags logger with a component name. A nil logger
// becomes a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// HasAttrKey reports whether attrs contains key.
func HasAttrKey(attrs []Attr, key string) bool {
	return slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == key })
}

type eventDefaults struct {
	level  slog.Level
	hint   string
	impact string
}

var (
	warnDefaults  = eventDefaults{level: slog.LevelWarn, hint: "check logs for details", impact: "conversion continued with warnings"}
	errorDefaults = eventDefaults{level: slog.LevelError, hint: "check logs for details"}
)

func logEvent(logger *slog.Logger, defaults eventDefaults, msg, eventType string, attrs []Attr) {
	if logger == nil {
		return
	}
	fill := func(key, value string) {
		if value != "" && !HasAttrKey(attrs, key) {
			attrs = append(attrs, String(key, value))
		}
	}
	fill(FieldEventType, eventType)
	fill(FieldErrorHint, defaults.hint)
	fill(FieldImpact, defaults.impact)
	logger.LogAttrs(context.Background(), defaults.level, msg, attrs...)
}

// WarnWithContext logs a warning that always carries event_type, error_hint,
// and impact. Attributes supplied by the caller win over the defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	logEvent(logger, warnDefaults, msg, eventType, attrs)
}

// ErrorWithContext logs an error that always carries event_type and
// error_hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	logEvent(logger, errorDefaults, msg, eventType, attrs)
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (nopHandler) Handle(context.Context, slog.Record) error { return nil }

func (nopHandler) WithAttrs([]slog.Attr) slog.Handler { return nopHandler{} }

func (nopHandler) WithGroup(string) slog.Handler { return nopHandler{} }
