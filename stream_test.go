// FILE: stream_test.go
package logbus

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStreamStructuredFixture verifies the compact rendering of a nested
// map: sorted keys, quoted nested strings, bare numbers
func TestStreamStructuredFixture(t *testing.T) {
	s := &Stream{}
	s.Append(map[string]any{
		"b": 2,
		"a": []any{1, "x"},
	})

	assert.Equal(t, `{"a":[1, "x"], "b":2}`, s.buf.String())
}

// TestStreamTopLevelString verifies top-level strings append verbatim,
// without the quoting applied to nested leaves
func TestStreamTopLevelString(t *testing.T) {
	s := &Stream{}
	s.Str("geometry ").Append("1280x720")

	assert.Equal(t, "geometry 1280x720", s.buf.String())
}

// TestStreamScalars covers the leaf rendering rules
func TestStreamScalars(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"uint", uint(9), "9"},
		{"float", 2.5, "2.5"},
		{"float integral", 3.0, "3"},
		{"bool", true, "true"},
		{"nil", nil, "null"},
		{"time", ts, "2024-03-01T12:30:00Z"},
		{"error", errors.New("boom"), "boom"},
		{"stringer", net.IPv4(127, 0, 0, 1), "127.0.0.1"},
		{"opaque struct", struct{ X int }{1}, "(unserializable)"},
		{"channel", make(chan int), "(unserializable)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{}
			s.Append(tt.value)
			assert.Equal(t, tt.want, s.buf.String())
		})
	}
}

// TestStreamNestedQuoting verifies string-formed leaves are quoted inside
// containers
func TestStreamNestedQuoting(t *testing.T) {
	s := &Stream{}
	s.Append([]any{"x", errors.New("bad state"), nil, []any{"deep"}})

	assert.Equal(t, `["x", "bad state", null, ["deep"]]`, s.buf.String())
}

// TestStreamSubmitsOnClose verifies the decorated forms a seeded stream
// submits through the bus
func TestStreamSubmitsOnClose(t *testing.T) {
	logger, sub := createTestLogger(t)
	defer logger.Shutdown()

	logger.Stream("", "").Str("raw line").Close()
	logger.Stream("playback", "").Str("paused").Close()
	logger.Stream("playback", SeverityDebug).Str("pos ").Append(12.25).Close()
	require.NoError(t, logger.Flush(time.Second))

	batch := requireBatch(t, sub)
	assert.Equal(t, []string{
		"[logger] enabling logging",
		"raw line",
		"[playback] paused",
		"[playback] debug: pos 12.25",
	}, batch)
}

// TestStreamEmptySubmitsNothing verifies a fragment-free stream is silent
func TestStreamEmptySubmitsNothing(t *testing.T) {
	logger, sub := createTestLogger(t)
	defer logger.Shutdown()

	logger.Stream("playback", SeverityDebug).Close()
	require.NoError(t, logger.Flush(time.Second))

	batch := requireBatch(t, sub)
	assert.Equal(t, []string{"[logger] enabling logging"}, batch)
}

// TestStreamDoubleClose verifies the second Close is a no-op
func TestStreamDoubleClose(t *testing.T) {
	logger, sub := createTestLogger(t)
	defer logger.Shutdown()

	s := logger.Stream("ui", "")
	s.Str("once")
	s.Close()
	s.Close()
	require.NoError(t, logger.Flush(time.Second))

	batch := requireBatch(t, sub)
	assert.Equal(t, []string{"[logger] enabling logging", "[ui] once"}, batch)
}

// TestStreamDump verifies the exhaustive dump path renders something useful
// for values the compact renderer refuses
func TestStreamDump(t *testing.T) {
	type inner struct {
		Name  string
		Count int
	}

	s := &Stream{}
	s.Dump(inner{Name: "track", Count: 3})

	out := s.buf.String()
	assert.Contains(t, out, "track")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "inner")
}
