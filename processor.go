// FILE: processor.go
package logbus

import (
	"strings"
	"time"
)

// process is the main request processing loop running in a separate
// goroutine. It is the only code that touches the pending buffer, the flush
// timer and the file sink, which is what makes them safe without locks. The
// flush timer channel is nil unless the scheduler is in the buffered-active
// state, so timer ticks are simply unreachable in the other states.
func (l *Logger) process(ch <-chan request) {
	defer l.state.ProcessorExited.Store(true)

	// Reconcile processor state with the current configuration. All three
	// handlers are idempotent, so a restart after Stop() does not repeat
	// lifecycle lines or reopen an already-open sink. Enable precedes the
	// sink so the opened announcement is accepted.
	cfg := l.getConfig()
	l.handleSetInterval(cfg.FlushIntervalMs)
	l.handleSetEnabled(cfg.Enabled)
	l.handleSetSink(cfg.FilePath)

	defer l.stopTimer()

	for {
		select {
		case req, ok := <-ch:
			if !ok {
				// Channel closed: drain what was accepted and exit
				l.flushPending()
				l.syncSink()
				return
			}
			l.handle(req)

		case <-l.tickC:
			l.flushPending()
		}
	}
}

// handle dispatches one delivered request to its handler
func (l *Logger) handle(req request) {
	switch req.kind {
	case reqLine:
		l.makeLog(req.line)
	case reqPrefixed:
		l.makeLogPrefixed(req.prefix, req.message)
	case reqLeveled:
		l.makeLogLeveled(req.prefix, req.level, req.message)
	case reqSetSink:
		l.handleSetSink(req.path)
	case reqSetEnabled:
		l.handleSetEnabled(req.enabled)
	case reqSetInterval:
		l.handleSetInterval(req.msec)
	case reqFlush:
		l.flushPending()
		close(req.confirm)
	}
}

// makeLog accepts one formatted line. Discarded while logging is disabled.
// In immediate mode the line goes straight to the subscribers and the file;
// in buffered mode it joins the pending buffer until the next flush.
func (l *Logger) makeLog(line string) {
	if !l.enabled {
		return
	}
	line = strings.TrimSpace(line)
	if l.immediate {
		l.publisher.publishLine(line)
		l.sinkWriteLine(line)
	} else {
		l.pending = append(l.pending, line)
	}
}

func (l *Logger) makeLogPrefixed(prefix, message string) {
	l.makeLog("[" + prefix + "] " + message)
}

func (l *Logger) makeLogLeveled(prefix, level, message string) {
	l.makeLog("[" + prefix + "] " + level + ": " + message)
}

// flushPending drains the pending buffer: file first, then one batch event
// to the subscribers. No-op when nothing is pending.
func (l *Logger) flushPending() {
	if len(l.pending) == 0 {
		return
	}
	batch := l.pending
	l.pending = nil
	l.sinkWriteBatch(batch)
	l.publisher.publishBatch(batch)
}

// handleSetEnabled performs the enable/disable transition. Enabling while
// enabled or disabling while disabled is a no-op, so lifecycle lines are
// never duplicated.
func (l *Logger) handleSetEnabled(enabled bool) {
	if enabled && !l.enabled {
		l.enabled = true
		l.makeLogPrefixed(internalPrefix, "enabling logging")
		if !l.immediate {
			l.startTimer()
		}
	} else if !enabled && l.enabled {
		l.makeLogPrefixed(internalPrefix, "disabling logging")
		l.flushPending()
		l.stopTimer()
		l.enabled = false
	}
}

// handleSetInterval applies a flush-policy change. Nothing pending is ever
// dropped by a mode switch: entering immediate mode flushes first.
func (l *Logger) handleSetInterval(msec int64) {
	if msec <= 0 {
		l.stopTimer()
		if !l.immediate {
			l.flushPending()
		}
		l.immediate = true
		return
	}
	l.immediate = false
	l.interval = time.Duration(msec) * time.Millisecond
	if l.interval < minFlushInterval {
		l.interval = minFlushInterval
	}
	l.startTimer()
}

// startTimer arms the periodic flush timer at the current interval
func (l *Logger) startTimer() {
	if l.flushTicker == nil {
		l.flushTicker = time.NewTicker(l.interval)
	} else {
		l.flushTicker.Reset(l.interval)
	}
	l.tickC = l.flushTicker.C
}

// stopTimer disarms the flush timer; a nil tick channel parks that select arm
func (l *Logger) stopTimer() {
	if l.flushTicker != nil {
		l.flushTicker.Stop()
	}
	l.tickC = nil
}
