// FILE: compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/micrococo/logbus"
)

// FastHTTPAdapter routes fasthttp server diagnostics into a logbus instance,
// implementing fasthttp's Logger interface. fasthttp only exposes Printf, so
// the severity is inferred from message content.
type FastHTTPAdapter struct {
	logger        *logbus.Logger
	prefix        string
	defaultLevel  string
	levelDetector func(string) string // Function to detect severity from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *logbus.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		prefix:        "fasthttp",
		defaultLevel:  logbus.SeverityInfo,
		levelDetector: DetectSeverity, // Default detection
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the default severity for Printf calls
func WithDefaultLevel(level string) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect severity from message content
func WithLevelDetector(detector func(string) string) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != "" {
			level = detected
		}
	}

	a.logger.LogLeveled(a.prefix, level, msg)
}

// DetectSeverity attempts to detect a severity from message content
func DetectSeverity(msg string) string {
	msgLower := strings.ToLower(msg)

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return logbus.SeverityCrit
	}

	// Check for warning indicators
	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "warning") ||
		strings.Contains(msgLower, "deprecated") {
		return logbus.SeverityWarn
	}

	// Check for debug indicators
	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return logbus.SeverityDebug
	}

	return logbus.SeverityInfo
}
