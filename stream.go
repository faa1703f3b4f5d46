// FILE: stream.go
package logbus

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// Stream accumulates fragments of one log line and submits the result when
// closed. A stream seeded with a prefix (and optionally a level) submits a
// decorated line; an unseeded stream submits the raw text. A stream that
// never received a fragment submits nothing.
//
// Typical use defers Close so the line is submitted on every exit path:
//
//	s := bus.Stream("playback", logbus.SeverityDebug)
//	defer s.Close()
//	s.Str("window geometry ").Append(geometry)
type Stream struct {
	logger *Logger // nil targets the process-wide default instance
	prefix string
	level  string
	buf    strings.Builder
}

// Stream creates a line builder bound to this bus. Empty prefix and level
// produce an undecorated line.
func (l *Logger) Stream(prefix, level string) *Stream {
	return &Stream{logger: l, prefix: prefix, level: level}
}

// Close submits the accumulated line, choosing the entry point by which of
// prefix/level were seeded. Empty streams submit nothing. Safe to call on
// every exit path; a second Close is a no-op because the buffer is spent.
func (s *Stream) Close() {
	if s.buf.Len() == 0 {
		return
	}
	line := s.buf.String()
	s.buf.Reset()

	target := s.logger
	if target == nil {
		target = Default()
	}
	if target == nil {
		return
	}

	switch {
	case s.prefix == "" && s.level == "":
		target.Log(line)
	case s.level == "":
		target.LogPrefixed(s.prefix, line)
	default:
		target.LogLeveled(s.prefix, s.level, line)
	}
}

// Str appends a string fragment verbatim.
func (s *Stream) Str(v string) *Stream {
	s.buf.WriteString(v)
	return s
}

// Append renders a value into the line. Strings are appended verbatim;
// map[string]any and []any render recursively in their compact textual form;
// other values follow the scalar rules of renderValue.
func (s *Stream) Append(v any) *Stream {
	switch val := v.(type) {
	case string:
		s.buf.WriteString(val)
	default:
		s.renderValue(&s.buf, v)
	}
	return s
}

// Dump appends an exhaustive dump of an arbitrary Go value, for debugging
// values the compact renderer cannot represent.
func (s *Stream) Dump(v any) *Stream {
	dumper := &spew.ConfigState{
		Indent:                  " ",
		MaxDepth:                10,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	s.buf.WriteString(strings.TrimSpace(dumper.Sdump(v)))
	return s
}

// renderValue writes the compact textual form of a structured value.
// Precedence: map form, then list form, then string form; anything else
// renders as the placeholder token. Map keys are emitted in sorted order so
// output is deterministic.
func (s *Stream) renderValue(b *strings.Builder, v any) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('"')
			b.WriteString(k)
			b.WriteString(`":`)
			s.renderNested(b, val[k])
		}
		b.WriteByte('}')

	case []any:
		b.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			s.renderNested(b, elem)
		}
		b.WriteByte(']')

	default:
		s.renderScalar(b, v, false)
	}
}

// renderNested renders an element inside a map or list. String leaves are
// quoted here, unlike top-level fragments.
func (s *Stream) renderNested(b *strings.Builder, v any) {
	switch v.(type) {
	case map[string]any, []any:
		s.renderValue(b, v)
	default:
		s.renderScalar(b, v, true)
	}
}

// renderScalar writes a leaf value. quoted controls whether string-formed
// values get surrounding double quotes.
func (s *Stream) renderScalar(b *strings.Builder, v any, quoted bool) {
	writeStr := func(str string) {
		if quoted {
			b.WriteByte('"')
			b.WriteString(str)
			b.WriteByte('"')
		} else {
			b.WriteString(str)
		}
	}

	switch val := v.(type) {
	case string:
		writeStr(val)
	case int:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case int8:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case int16:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case int32:
		b.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		b.WriteString(strconv.FormatInt(val, 10))
	case uint:
		b.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint8:
		b.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint16:
		b.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint64:
		b.WriteString(strconv.FormatUint(val, 10))
	case float32:
		b.WriteString(strconv.FormatFloat(float64(val), 'f', -1, 32))
	case float64:
		b.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case nil:
		b.WriteString("null")
	case time.Time:
		writeStr(val.Format(time.RFC3339Nano))
	case error:
		writeStr(val.Error())
	case fmt.Stringer:
		writeStr(val.String())
	default:
		b.WriteString(unserializable)
	}
}
