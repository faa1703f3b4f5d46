// FILE: default.go
package logbus

import (
	"os"
	"sync"
	"time"
)

// The process-wide default instance. Creation is one-shot for the lifetime
// of the process: once the default bus has existed, it is never recreated,
// and constructing it a second time through Install is a programming error
// that aborts rather than silently reinitializing.
var (
	defaultMu          sync.Mutex
	defaultInstance    *Logger
	defaultEverCreated bool
)

// Default returns the process-wide bus, creating and starting it with the
// default configuration on first use. After CloseDefault it returns nil
// forever; package-level log calls are then silently dropped.
func Default() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultInstance == nil && !defaultEverCreated {
		l := NewLogger()
		if err := l.ApplyConfig(DefaultConfig()); err != nil {
			return nil
		}
		if err := l.Start(); err != nil {
			return nil
		}
		defaultInstance = l
		defaultEverCreated = true
	}
	return defaultInstance
}

// Install creates and starts the process-wide bus from cfg. One-shot:
// calling Install after the default instance has ever existed, even after
// CloseDefault, is a fatal configuration error and aborts the process.
func Install(cfg *Config) (*Logger, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultEverCreated {
		fprintfStderr("logbus: default bus constructed twice\n")
		os.Exit(1)
	}

	l := NewLogger()
	if err := l.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	if err := l.Start(); err != nil {
		return nil, err
	}

	defaultInstance = l
	defaultEverCreated = true
	return l, nil
}

// CloseDefault shuts down the process-wide bus. Idempotent. The default
// instance is gone for good afterwards; it is never lazily recreated.
func CloseDefault(timeout ...time.Duration) error {
	defaultMu.Lock()
	l := defaultInstance
	defaultInstance = nil
	defaultMu.Unlock()

	if l == nil {
		return nil
	}
	return l.Shutdown(timeout...)
}

// Package-level functions that delegate to the default bus. All are safe to
// call from any goroutine and become silent no-ops once the default bus has
// been closed.

// Log submits one already-formatted line.
func Log(line string) {
	if l := Default(); l != nil {
		l.Log(line)
	}
}

// LogPrefixed submits a message decorated as "[prefix] message".
func LogPrefixed(prefix, message string) {
	if l := Default(); l != nil {
		l.LogPrefixed(prefix, message)
	}
}

// LogLeveled submits a message decorated as "[prefix] level: message".
func LogLeveled(prefix, level, message string) {
	if l := Default(); l != nil {
		l.LogLeveled(prefix, level, message)
	}
}

// Logs joins tokens with single spaces and submits the result as one line.
func Logs(parts ...string) {
	if l := Default(); l != nil {
		l.Logs(parts...)
	}
}

// LogsPrefixed joins tokens with single spaces and submits them prefixed.
func LogsPrefixed(prefix string, parts ...string) {
	if l := Default(); l != nil {
		l.LogsPrefixed(prefix, parts...)
	}
}

// LogsLeveled joins tokens with single spaces and submits them with prefix and level.
func LogsLeveled(prefix, level string, parts ...string) {
	if l := Default(); l != nil {
		l.LogsLeveled(prefix, level, parts...)
	}
}

// SetSink reconfigures the default bus's file sink.
func SetSink(path string) {
	if l := Default(); l != nil {
		l.SetSink(path)
	}
}

// SetLoggingEnabled turns acceptance of log calls on or off.
func SetLoggingEnabled(enabled bool) {
	if l := Default(); l != nil {
		l.SetLoggingEnabled(enabled)
	}
}

// SetFlushInterval changes the default bus's flush policy.
func SetFlushInterval(msec int64) {
	if l := Default(); l != nil {
		l.SetFlushInterval(msec)
	}
}

// Subscribe registers a subscription on the default bus. Returns nil once
// the default bus has been closed.
func Subscribe() *Subscription {
	if l := Default(); l != nil {
		return l.Subscribe()
	}
	return nil
}

// Flush forces a drain of the default bus's pending buffer.
func Flush(timeout time.Duration) error {
	if l := Default(); l != nil {
		return l.Flush(timeout)
	}
	return fmtErrorf("no default bus")
}

// NewStream creates a line builder that submits to the default bus on Close.
func NewStream(prefix, level string) *Stream {
	return &Stream{prefix: prefix, level: level}
}

// Fatal drains whatever the default bus has pending straight to stderr and
// terminates the process. Reads the instance pointer without locking: this
// path runs when invariants may already be broken.
func Fatal() {
	if l := defaultInstance; l != nil {
		l.fatalDrain()
	}
	os.Exit(1)
}
