// FILE: compat/gnet.go
package compat

import (
	"fmt"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/micrococo/logbus"
)

// GnetAdapter routes gnet's internal diagnostics into a logbus instance,
// implementing gnet's logging.Logger interface. Each message is submitted
// with a fixed "gnet" source prefix and the mapped severity; Fatalf
// additionally triggers the emergency drain after the message is submitted.
type GnetAdapter struct {
	logger       *logbus.Logger
	prefix       string
	fatalHandler func(msg string) // Customizable fatal behavior
}

var _ logging.Logger = (*GnetAdapter)(nil)

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *logbus.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		prefix: "gnet",
		fatalHandler: func(msg string) {
			logger.Fatal()
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithGnetPrefix sets the source prefix used for submitted messages
func WithGnetPrefix(prefix string) GnetOption {
	return func(a *GnetAdapter) {
		a.prefix = prefix
	}
}

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug severity with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.LogLeveled(a.prefix, logbus.SeverityDebug, fmt.Sprintf(format, args...))
}

// Infof logs at info severity with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.LogLeveled(a.prefix, logbus.SeverityInfo, fmt.Sprintf(format, args...))
}

// Warnf logs at warn severity with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.LogLeveled(a.prefix, logbus.SeverityWarn, fmt.Sprintf(format, args...))
}

// Errorf logs at crit severity with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.LogLeveled(a.prefix, logbus.SeverityCrit, fmt.Sprintf(format, args...))
}

// Fatalf submits the message at fatal severity, then hands control to the
// fatal handler, which by default drains pending lines to stderr and
// terminates the process
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.LogLeveled(a.prefix, logbus.SeverityFatal, msg)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
