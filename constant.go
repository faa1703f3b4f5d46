// FILE: constant.go
package logbus

import (
	"time"
)

// Severity names accepted by the three-argument log entry point and used by
// the framework adapters in compat/
const (
	SeverityDebug = "debug"
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityCrit  = "crit"
	SeverityFatal = "fatal"
)

// internalPrefix tags lifecycle lines emitted by the bus itself
const internalPrefix = "logger"

// unserializable is the placeholder for values with no renderable form
const unserializable = "(unserializable)"

// Timers
const (
	// Floor for the periodic flush interval
	minFlushInterval = 100 * time.Millisecond
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
)

// utf8BOM is written at the start of a freshly opened file sink
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}
