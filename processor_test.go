// FILE: processor_test.go
package logbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createImmediateLogger creates a started bus in immediate mode
func createImmediateLogger(t *testing.T) (*Logger, *Subscription) {
	logger := NewLogger()

	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.FlushIntervalMs = 0
	cfg.BufferSize = 256

	require.NoError(t, logger.ApplyConfig(cfg))
	sub := logger.Subscribe()
	require.NoError(t, logger.Start())

	// Consume the enabling lifecycle line so tests start clean
	assert.Equal(t, "[logger] enabling logging", requireLine(t, sub))

	return logger, sub
}

// TestImmediateModeDeliversLines verifies each accepted line becomes its own
// event, with no batches involved
func TestImmediateModeDeliversLines(t *testing.T) {
	logger, sub := createImmediateLogger(t)
	defer logger.Shutdown()

	logger.Log("one")
	logger.LogLeveled("net", SeverityCrit, "two")

	assert.Equal(t, "one", requireLine(t, sub))
	assert.Equal(t, "[net] crit: two", requireLine(t, sub))

	// Nothing pends in immediate mode, so Flush emits no batch
	require.NoError(t, logger.Flush(time.Second))
	select {
	case batch := <-sub.Batches():
		t.Fatalf("unexpected batch in immediate mode: %v", batch)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestLineTrimming verifies surrounding whitespace is stripped on acceptance
func TestLineTrimming(t *testing.T) {
	logger, sub := createImmediateLogger(t)
	defer logger.Shutdown()

	logger.Log("  padded line\t\n")
	assert.Equal(t, "padded line", requireLine(t, sub))
}

// TestSwitchToImmediateFlushesPending verifies no accepted line is lost when
// the flush policy changes mid-stream
func TestSwitchToImmediateFlushesPending(t *testing.T) {
	logger, sub := createTestLogger(t)
	defer logger.Shutdown()

	logger.Log("buffered line")
	logger.SetFlushInterval(0)

	batch := requireBatch(t, sub)
	assert.Equal(t, []string{"[logger] enabling logging", "buffered line"}, batch)

	logger.Log("immediate line")
	assert.Equal(t, "immediate line", requireLine(t, sub))
}

// TestSwitchToBufferedAccumulates verifies the opposite transition
func TestSwitchToBufferedAccumulates(t *testing.T) {
	logger, sub := createImmediateLogger(t)
	defer logger.Shutdown()

	logger.SetFlushInterval(10000)
	logger.Log("held back")

	select {
	case line := <-sub.Lines():
		t.Fatalf("unexpected immediate line after switch to buffered: %q", line)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, logger.Flush(time.Second))
	assert.Equal(t, []string{"held back"}, requireBatch(t, sub))
}

// TestPeriodicFlushClampsInterval verifies sub-minimum intervals still flush
// on the 100ms floor rather than never or instantly
func TestPeriodicFlushClampsInterval(t *testing.T) {
	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.FlushIntervalMs = 50 // Below the floor, clamped to 100ms
	require.NoError(t, logger.ApplyConfig(cfg))
	sub := logger.Subscribe()
	require.NoError(t, logger.Start())
	defer logger.Shutdown()

	start := time.Now()
	logger.Log("timed line")

	select {
	case batch := <-sub.Batches():
		elapsed := time.Since(start)
		assert.Contains(t, batch, "timed line")
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "flushed before the clamped interval")
	case <-time.After(2 * time.Second):
		t.Fatal("periodic flush never fired")
	}
}

// TestDisabledBusDropsLines verifies a bus that starts disabled accepts
// nothing and emits no lifecycle line
func TestDisabledBusDropsLines(t *testing.T) {
	logger := NewLogger()
	cfg := DefaultConfig()
	cfg.FlushIntervalMs = 10000
	require.NoError(t, logger.ApplyConfig(cfg))
	sub := logger.Subscribe()
	require.NoError(t, logger.Start())
	defer logger.Shutdown()

	logger.Log("discarded")
	require.NoError(t, logger.Flush(time.Second))

	select {
	case batch := <-sub.Batches():
		t.Fatalf("disabled bus flushed a batch: %v", batch)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestDisableFlushesWithoutReplay verifies disabling drains what was already
// accepted, and re-enabling does not replay it
func TestDisableFlushesWithoutReplay(t *testing.T) {
	logger, sub := createTestLogger(t)
	defer logger.Shutdown()

	logger.Log("accepted before disable")
	logger.SetLoggingEnabled(false)

	batch := requireBatch(t, sub)
	assert.Equal(t, []string{
		"[logger] enabling logging",
		"accepted before disable",
		"[logger] disabling logging",
	}, batch)

	// Accepted-then-disabled content is gone; new content while disabled too
	logger.Log("while disabled")
	logger.SetLoggingEnabled(true)
	logger.Log("after re-enable")
	require.NoError(t, logger.Flush(time.Second))

	batch = requireBatch(t, sub)
	assert.Equal(t, []string{"[logger] enabling logging", "after re-enable"}, batch)
}

// TestEnableIdempotent verifies repeated enables emit one lifecycle line
func TestEnableIdempotent(t *testing.T) {
	logger, sub := createTestLogger(t)
	defer logger.Shutdown()

	logger.SetLoggingEnabled(true)
	logger.SetLoggingEnabled(true)
	require.NoError(t, logger.Flush(time.Second))

	batch := requireBatch(t, sub)
	assert.Equal(t, []string{"[logger] enabling logging"}, batch)
}

// TestDecorationForms verifies the three entry points produce the documented
// line shapes
func TestDecorationForms(t *testing.T) {
	logger, sub := createTestLogger(t)
	defer logger.Shutdown()

	logger.Log("plain")
	logger.LogPrefixed("playback", "paused")
	logger.LogLeveled("playback", SeverityDebug, "frame drop")
	logger.LogsLeveled("av", SeverityWarn, "sync", "offset", "high")
	require.NoError(t, logger.Flush(time.Second))

	batch := requireBatch(t, sub)
	assert.Equal(t, []string{
		"[logger] enabling logging",
		"plain",
		"[playback] paused",
		"[playback] debug: frame drop",
		"[av] warn: sync offset high",
	}, batch)
}
