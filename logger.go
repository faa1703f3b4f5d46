// FILE: logger.go
package logbus

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is an asynchronous log relay. Producers on any goroutine hand lines
// to the bus through the delivery channel; a single processor goroutine owns
// the pending buffer, the flush timer, the file sink and the subscriber
// broadcast.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex

	publisher *Publisher

	// Processor-owned fields. Mutated only by the processor goroutine; the
	// fatal drain reads pending without synchronization, see Fatal.
	pending     []string
	enabled     bool
	immediate   bool
	interval    time.Duration
	flushTicker *time.Ticker
	tickC       <-chan time.Time
	sinkPath    string
	sinkFile    *os.File
}

// NewLogger creates a new Logger instance with default settings
func NewLogger() *Logger {
	l := &Logger{
		publisher: newPublisher(int(defaultConfig.SubscriberBufferSize)),
	}

	// Set default configuration
	l.currentConfig.Store(DefaultConfig())

	l.state.IsInitialized.Store(false)
	l.state.ShutdownCalled.Store(false)
	l.state.ProcessorExited.Store(true)
	l.state.DroppedPosts.Store(0)

	// Create a closed channel initially to prevent nil pointer issues
	initialChan := make(chan request)
	close(initialChan)
	l.state.ActiveChannel.Store(initialChan)

	l.interval = time.Duration(defaultConfig.FlushIntervalMs) * time.Millisecond

	return l
}

// ApplyConfig applies a validated configuration to the bus.
// This is the primary way applications should configure it.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.validate(); err != nil {
		return err
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg)
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// applyConfig is the internal implementation for applying configuration, assuming initMu is held
func (l *Logger) applyConfig(cfg *Config) error {
	oldCfg := l.getConfig()
	l.currentConfig.Store(cfg)

	l.publisher.setBufferSize(int(cfg.SubscriberBufferSize))

	wasStarted := l.state.Started.Load()
	needsRestart := wasStarted && configRequiresRestart(oldCfg, cfg)

	if needsRestart {
		if err := l.Stop(); err != nil {
			l.currentConfig.Store(oldCfg) // Rollback
			return fmtErrorf("failed to stop processor for restart: %w", err)
		}
	}

	l.state.IsInitialized.Store(true)
	l.state.ShutdownCalled.Store(false)

	if needsRestart {
		return l.start()
	}

	// Reconcile a running processor with the new settings. The control
	// requests are serialized through the delivery channel like any other
	// request, so they cannot race an in-flight flush.
	if l.state.Started.Load() {
		l.post(request{kind: reqSetInterval, msec: cfg.FlushIntervalMs})
		l.post(request{kind: reqSetEnabled, enabled: cfg.Enabled})
		l.post(request{kind: reqSetSink, path: cfg.FilePath})
	}

	return nil
}

// Start begins request processing. Safe to call multiple times.
// Returns error if the bus is not initialized.
func (l *Logger) Start() error {
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("bus not initialized, call ApplyConfig first")
	}
	return l.start()
}

func (l *Logger) start() error {
	// Check if processor didn't exit cleanly last time
	if l.state.Started.Load() && !l.state.ProcessorExited.Load() {
		l.internalLog("warning - processor still running from previous start, forcing stop\n")
		if err := l.Stop(); err != nil {
			return fmtErrorf("failed to stop hung processor: %w", err)
		}
	}

	// Only start if not already started
	if l.state.Started.CompareAndSwap(false, true) {
		cfg := l.getConfig()

		ch := make(chan request, cfg.BufferSize)
		l.state.ActiveChannel.Store(ch)

		l.state.ProcessorExited.Store(false)
		go l.process(ch)
	}

	return nil
}

// Stop halts request processing. Pending lines are flushed on the way out.
// Can be restarted with Start(). Returns nil if already stopped.
func (l *Logger) Stop(timeout ...time.Duration) error {
	if !l.state.Started.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		effectiveTimeout = 2 * l.currentFlushTimeout()
	}

	// Get current channel and close it
	ch := l.getCurrentChannel()
	if ch != nil {
		// Create closed channel for immediate replacement
		closedChan := make(chan request)
		close(closedChan)
		l.state.ActiveChannel.Store(closedChan)

		// Close the actual channel to signal the processor
		if ch != closedChan {
			close(ch)
		}
	}

	// Wait for processor to exit (with timeout)
	deadline := time.Now().Add(effectiveTimeout)
	for time.Now().Before(deadline) {
		if l.state.ProcessorExited.Load() {
			break
		}
		time.Sleep(minWaitTime)
	}

	if !l.state.ProcessorExited.Load() {
		return fmtErrorf("processor did not exit within timeout (%v)", effectiveTimeout)
	}

	return nil
}

// Shutdown gracefully closes the bus, flushing pending lines, closing the
// file sink and ending all subscriptions. Terminal: the bus cannot be
// restarted afterwards.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	if !l.state.IsInitialized.Load() {
		l.state.ProcessorExited.Store(true)
		l.publisher.Close()
		return nil
	}

	var stopErr error
	if l.state.Started.Load() {
		stopErr = l.Stop(timeout...)
	}

	l.state.IsInitialized.Store(false)

	// The processor has exited (or timed out); releasing its resources from
	// here is safe only in the former case, best-effort in the latter.
	var finalErr error
	if l.sinkFile != nil {
		if err := l.sinkFile.Sync(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to sync log file '%s' during shutdown: %w", l.sinkFile.Name(), err))
		}
		if err := l.sinkFile.Close(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to close log file '%s' during shutdown: %w", l.sinkFile.Name(), err))
		}
		l.sinkFile = nil
	}

	l.publisher.Close()

	if stopErr != nil {
		finalErr = combineErrors(finalErr, stopErr)
	}

	return finalErr
}

// Flush forces a drain of the pending buffer and waits for completion or
// timeout. The flush request travels through the delivery channel, so every
// line posted before Flush from the same goroutine is part of the drained
// batch.
func (l *Logger) Flush(timeout time.Duration) (err error) {
	l.state.flushMutex.Lock()
	defer l.state.flushMutex.Unlock()

	defer func() {
		if r := recover(); r != nil { // Channel closed by a concurrent Stop
			err = fmtErrorf("bus stopped during flush")
		}
	}()

	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		return fmtErrorf("bus not initialized or already shut down")
	}
	if !l.state.Started.Load() {
		return fmtErrorf("bus not started")
	}

	deadline := time.Now().Add(timeout)
	confirm := make(chan struct{})
	ch := l.getCurrentChannel()

	select {
	case ch <- request{kind: reqFlush, confirm: confirm}:
		// Request sent
	case <-time.After(timeout):
		return fmtErrorf("failed to send flush request to processor (possible deadlock or high load)")
	}

	select {
	case <-confirm:
		return nil
	case <-time.After(time.Until(deadline)):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Log submits one already-formatted line.
func (l *Logger) Log(line string) {
	l.post(request{kind: reqLine, line: line})
}

// LogPrefixed submits a message decorated as "[prefix] message".
func (l *Logger) LogPrefixed(prefix, message string) {
	l.post(request{kind: reqPrefixed, prefix: prefix, message: message})
}

// LogLeveled submits a message decorated as "[prefix] level: message".
func (l *Logger) LogLeveled(prefix, level, message string) {
	l.post(request{kind: reqLeveled, prefix: prefix, level: level, message: message})
}

// Logs joins tokens with single spaces and submits the result as one line.
func (l *Logger) Logs(parts ...string) {
	l.Log(strings.Join(parts, " "))
}

// LogsPrefixed joins tokens with single spaces and submits them prefixed.
func (l *Logger) LogsPrefixed(prefix string, parts ...string) {
	l.LogPrefixed(prefix, strings.Join(parts, " "))
}

// LogsLeveled joins tokens with single spaces and submits them with prefix and level.
func (l *Logger) LogsLeveled(prefix, level string, parts ...string) {
	l.LogLeveled(prefix, level, strings.Join(parts, " "))
}

// SetSink reconfigures the file sink. An empty path closes the current sink;
// a new path opens a write-truncate stream with a UTF-8 byte-order marker.
// Executed on the processor goroutine.
func (l *Logger) SetSink(path string) {
	l.post(request{kind: reqSetSink, path: path})
}

// SetLoggingEnabled turns acceptance of log calls on or off. Disabling
// flushes everything already accepted. Idempotent.
func (l *Logger) SetLoggingEnabled(enabled bool) {
	l.post(request{kind: reqSetEnabled, enabled: enabled})
}

// SetFlushInterval changes the flush policy. msec <= 0 flushes pending
// content and switches to immediate mode; positive values are clamped to a
// 100ms floor and (re)start the periodic flush timer.
func (l *Logger) SetFlushInterval(msec int64) {
	l.post(request{kind: reqSetInterval, msec: msec})
}

// Subscribe registers a new subscription for line and batch events.
func (l *Logger) Subscribe() *Subscription {
	return l.publisher.Subscribe()
}

// currentFlushTimeout derives a reasonable wait from the flush interval
func (l *Logger) currentFlushTimeout() time.Duration {
	cfg := l.getConfig()
	if cfg.FlushIntervalMs <= 0 {
		return minFlushInterval
	}
	return time.Duration(cfg.FlushIntervalMs) * time.Millisecond
}

// internalLog handles writing internal diagnostics to stderr, if enabled.
func (l *Logger) internalLog(format string, args ...any) {
	cfg := l.getConfig()
	if !cfg.InternalErrorsToStderr {
		return
	}

	if !strings.HasPrefix(format, "logbus: ") {
		format = "logbus: " + format
	}

	fprintfStderr(format, args...)
}
