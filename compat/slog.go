// FILE: compat/slog.go
package compat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/micrococo/logbus"
)

// LevelFatal is the slog level that triggers the emergency drain. Records at
// or above this level are submitted at fatal severity and then abort the
// process through the bus's fatal path.
const LevelFatal = slog.LevelError + 4

// SlogHandler routes log/slog records into a logbus instance with a fixed
// source prefix, so a framework's own diagnostics land in the same stream as
// application lines:
//
//	slog.SetDefault(slog.New(compat.NewSlogHandler(bus)))
type SlogHandler struct {
	logger   *logbus.Logger
	prefix   string
	minLevel slog.Level
	attrs    []slog.Attr
	groups   []string
}

var _ slog.Handler = (*SlogHandler)(nil)

// NewSlogHandler creates a slog.Handler backed by the given bus
func NewSlogHandler(logger *logbus.Logger, opts ...SlogOption) *SlogHandler {
	h := &SlogHandler{
		logger:   logger,
		prefix:   "slog",
		minLevel: slog.LevelDebug,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// SlogOption allows customizing handler behavior
type SlogOption func(*SlogHandler)

// WithSlogPrefix sets the source prefix used for submitted records
func WithSlogPrefix(prefix string) SlogOption {
	return func(h *SlogHandler) {
		h.prefix = prefix
	}
}

// WithMinLevel sets the minimum record level the handler accepts
func WithMinLevel(level slog.Level) SlogOption {
	return func(h *SlogHandler) {
		h.minLevel = level
	}
}

// Enabled implements slog.Handler
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

// Handle implements slog.Handler. The record message and attributes are
// flattened into one line; records at LevelFatal or above additionally
// trigger the fatal drain after submission.
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)

	appendAttr := func(key string, a slog.Attr) {
		sb.WriteByte(' ')
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(fmt.Sprintf("%v", a.Value.Resolve().Any()))
	}

	// Handler attrs were qualified when they were attached; only the record's
	// own attrs pick up the currently open groups
	for _, a := range h.attrs {
		appendAttr(a.Key, a)
	}
	record.Attrs(func(a slog.Attr) bool {
		appendAttr(h.attrKey(a.Key), a)
		return true
	})

	h.logger.LogLeveled(h.prefix, severityFromSlog(record.Level), sb.String())

	if record.Level >= LevelFatal {
		h.logger.Fatal()
	}

	return nil
}

// WithAttrs implements slog.Handler. Keys are qualified with the groups open
// at attachment time.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)
	for _, a := range attrs {
		a.Key = h.attrKey(a.Key)
		qualified = append(qualified, a)
	}
	clone.attrs = qualified
	return &clone
}

// WithGroup implements slog.Handler
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

// attrKey qualifies an attribute key with any open groups
func (h *SlogHandler) attrKey(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

// severityFromSlog maps slog levels onto the bus severity names
func severityFromSlog(level slog.Level) string {
	switch {
	case level >= LevelFatal:
		return logbus.SeverityFatal
	case level >= slog.LevelError:
		return logbus.SeverityCrit
	case level >= slog.LevelWarn:
		return logbus.SeverityWarn
	case level >= slog.LevelInfo:
		return logbus.SeverityInfo
	default:
		return logbus.SeverityDebug
	}
}
