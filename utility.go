// FILE: utility.go
package logbus

import (
	"fmt"
	"os"
	"strings"
)

// fprintfStderr writes directly to the process standard error stream
func fprintfStderr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "logbus: ") {
		format = "logbus: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// Severity normalizes a severity string to one of the canonical names.
func Severity(severityStr string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(severityStr)) {
	case "debug":
		return SeverityDebug, nil
	case "info":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "crit", "critical", "error":
		return SeverityCrit, nil
	case "fatal":
		return SeverityFatal, nil
	default:
		return "", fmtErrorf("invalid severity string: '%s' (use debug, info, warn, crit, fatal)", severityStr)
	}
}
