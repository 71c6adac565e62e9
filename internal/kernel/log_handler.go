package kernel

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"ex-console/pkg/console"
)

// HostLogHandler is a slog.Handler that turns host log records into
// HOST-tagged console lines.
type HostLogHandler struct {
	emit   func(text string)
	level  slog.Leveler
	attrs  string
	prefix string
}

// NewHostLogHandler creates a handler passing each formatted line to emit.
//
// emit must append on the console's loop; frontends running their own loop
// marshal the line there first.
func NewHostLogHandler(emit func(text string), level slog.Leveler) *HostLogHandler {
	if level == nil {
		level = slog.LevelInfo
	}

	return &HostLogHandler{emit: emit, level: level}
}

// Enabled reports whether records at level are forwarded.
func (h *HostLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats one record as `[HOST][LEVEL]: message key=value ...`.
func (h *HostLogHandler) Handle(_ context.Context, record slog.Record) error {
	if h.emit == nil {
		return nil
	}

	var builder strings.Builder
	builder.WriteString(record.Message)
	builder.WriteString(h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&builder, h.prefix, attr)
		return true
	})

	tag := console.HostTag
	h.emit(console.FormatLine(&tag, consoleLevel(record.Level), builder.String()))

	return nil
}

// WithAttrs returns a handler that appends attrs to every record.
func (h *HostLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var builder strings.Builder
	builder.WriteString(h.attrs)
	for _, attr := range attrs {
		writeAttr(&builder, h.prefix, attr)
	}
	cloned := *h
	cloned.attrs = builder.String()

	return &cloned
}

// WithGroup returns a handler qualifying subsequent attribute keys with name.
func (h *HostLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cloned := *h
	cloned.prefix = h.prefix + name + "."

	return &cloned
}

func writeAttr(builder *strings.Builder, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if attr.Key != "" {
			groupPrefix = prefix + attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			writeAttr(builder, groupPrefix, member)
		}
		return
	}

	value := attr.Value.String()
	if strings.ContainsAny(value, " \t\n\"=") || value == "" {
		value = strconv.Quote(value)
	}
	builder.WriteByte(' ')
	builder.WriteString(prefix + attr.Key)
	builder.WriteByte('=')
	builder.WriteString(value)
}

func consoleLevel(level slog.Level) console.Level {
	switch {
	case level >= slog.LevelError:
		return console.LevelError
	case level >= slog.LevelWarn:
		return console.LevelWarning
	default:
		return console.LevelLog
	}
}

var _ slog.Handler = (*HostLogHandler)(nil)
