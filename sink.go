// FILE: sink.go
package logbus

import (
	"os"
	"strings"
)

// handleSetSink reconfigures the file sink. Runs on the processor goroutine.
// A path equal to the current one is a no-op. An empty path logs the closure
// through the normal pipeline, flushes so the closure line reaches the file,
// and releases the stream. A new path replaces any open sink with a
// write-truncate stream; open failure leaves no sink configured and is not
// surfaced to anyone.
func (l *Logger) handleSetSink(path string) {
	if l.sinkPath == path {
		return
	}
	l.sinkPath = path

	if path == "" {
		l.makeLogPrefixed(internalPrefix, "log file closed")
		l.flushPending()
		l.closeSink()
		return
	}

	l.closeSink()

	file, err := os.Create(path)
	if err != nil {
		l.internalLog("failed to open log file '%s': %v\n", path, err)
		return
	}
	if _, err := file.Write(utf8BOM); err != nil {
		l.internalLog("failed to write byte-order marker to '%s': %v\n", path, err)
		_ = file.Close()
		return
	}
	l.sinkFile = file

	l.makeLogPrefixed(internalPrefix, strings.Join([]string{"log file", path, "opened for writing"}, " "))
}

// closeSink syncs and releases the current file stream, if any
func (l *Logger) closeSink() {
	if l.sinkFile == nil {
		return
	}
	if err := l.sinkFile.Sync(); err != nil {
		l.internalLog("failed to sync log file '%s': %v\n", l.sinkFile.Name(), err)
	}
	if err := l.sinkFile.Close(); err != nil {
		l.internalLog("failed to close log file '%s': %v\n", l.sinkFile.Name(), err)
	}
	l.sinkFile = nil
}

// sinkWriteLine writes a single immediate-mode line followed by a newline
func (l *Logger) sinkWriteLine(line string) {
	if l.sinkFile == nil {
		return
	}
	if _, err := l.sinkFile.WriteString(line + "\n"); err != nil {
		l.internalLog("failed to write to log file: %v\n", err)
		return
	}
	l.syncSink()
}

// sinkWriteBatch writes a flushed batch as newline-joined lines with a
// trailing newline, then forces the stream to durable state
func (l *Logger) sinkWriteBatch(batch []string) {
	if l.sinkFile == nil {
		return
	}
	if _, err := l.sinkFile.WriteString(strings.Join(batch, "\n") + "\n"); err != nil {
		l.internalLog("failed to write to log file: %v\n", err)
		return
	}
	l.syncSink()
}

// syncSink forces the underlying stream to durable state
func (l *Logger) syncSink() {
	if l.sinkFile == nil {
		return
	}
	if err := l.sinkFile.Sync(); err != nil {
		l.internalLog("failed to sync log file '%s': %v\n", l.sinkFile.Name(), err)
	}
}
