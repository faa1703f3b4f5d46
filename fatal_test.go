// FILE: fatal_test.go
package logbus

import (
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fatal path and the one-shot default bus both terminate the process, so
// these tests re-exec the test binary and inspect the child's stderr and
// exit code.

// runChild re-executes the named test with the marker env var set and
// returns the child's stderr and exit code
func runChild(t *testing.T, testName, marker string) (string, int) {
	t.Helper()

	cmd := exec.Command(os.Args[0], "-test.run=^"+testName+"$")
	cmd.Env = append(os.Environ(), marker+"=1")

	var stderr strings.Builder
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stderr.String(), 0
	}
	exitErr, ok := err.(*exec.ExitError)
	require.True(t, ok, "child failed without an exit code: %v", err)
	return stderr.String(), exitErr.ExitCode()
}

// TestFatalDrainsPendingToStderr verifies the emergency path: pending lines
// reach stderr verbatim and the process dies nonzero
func TestFatalDrainsPendingToStderr(t *testing.T) {
	if os.Getenv("LOGBUS_TEST_FATAL") == "1" {
		logger := NewLogger()
		cfg := DefaultConfig()
		cfg.Enabled = true
		cfg.FlushIntervalMs = 10000
		if err := logger.ApplyConfig(cfg); err != nil {
			os.Exit(42)
		}
		if err := logger.Start(); err != nil {
			os.Exit(42)
		}

		// Drain the enabling lifecycle line so only m1 and m2 are pending
		if err := logger.Flush(time.Second); err != nil {
			os.Exit(42)
		}

		logger.Log("m1")
		logger.Log("m2")

		// Allow the processor to move the lines into the pending buffer;
		// Flush would drain it, which is exactly what must not happen here
		time.Sleep(200 * time.Millisecond)

		logger.Fatal()
		os.Exit(42) // Unreachable
	}

	stderr, code := runChild(t, "TestFatalDrainsPendingToStderr", "LOGBUS_TEST_FATAL")

	assert.Equal(t, 1, code)
	assert.Equal(t, "m1\nm2\n", stderr)
}

// TestFatalWithNothingPending verifies the drain is harmless when empty
func TestFatalWithNothingPending(t *testing.T) {
	if os.Getenv("LOGBUS_TEST_FATAL_EMPTY") == "1" {
		logger := NewLogger()
		logger.Fatal()
		os.Exit(42)
	}

	stderr, code := runChild(t, "TestFatalWithNothingPending", "LOGBUS_TEST_FATAL_EMPTY")

	assert.Equal(t, 1, code)
	assert.Empty(t, stderr)
}

// TestInstallTwiceAborts verifies constructing the process-wide bus a second
// time is fatal rather than a silent reinitialization
func TestInstallTwiceAborts(t *testing.T) {
	if os.Getenv("LOGBUS_TEST_INSTALL_TWICE") == "1" {
		if _, err := Install(DefaultConfig()); err != nil {
			os.Exit(42)
		}
		_, _ = Install(DefaultConfig())
		os.Exit(42) // Unreachable
	}

	stderr, code := runChild(t, "TestInstallTwiceAborts", "LOGBUS_TEST_INSTALL_TWICE")

	assert.Equal(t, 1, code)
	assert.Equal(t, "logbus: default bus constructed twice\n", stderr)
}

// TestInstallAfterCloseAborts verifies the one-shot rule outlives the
// default bus itself
func TestInstallAfterCloseAborts(t *testing.T) {
	if os.Getenv("LOGBUS_TEST_INSTALL_AFTER_CLOSE") == "1" {
		if _, err := Install(DefaultConfig()); err != nil {
			os.Exit(42)
		}
		if err := CloseDefault(time.Second); err != nil {
			os.Exit(42)
		}
		_, _ = Install(DefaultConfig())
		os.Exit(42) // Unreachable
	}

	stderr, code := runChild(t, "TestInstallAfterCloseAborts", "LOGBUS_TEST_INSTALL_AFTER_CLOSE")

	assert.Equal(t, 1, code)
	assert.Equal(t, "logbus: default bus constructed twice\n", stderr)
}

// TestPackageFatalUsesDefaultBus verifies the package-level drain reads the
// default instance's pending buffer
func TestPackageFatalUsesDefaultBus(t *testing.T) {
	if os.Getenv("LOGBUS_TEST_PKG_FATAL") == "1" {
		cfg := DefaultConfig()
		cfg.Enabled = true
		cfg.FlushIntervalMs = 10000
		if _, err := Install(cfg); err != nil {
			os.Exit(42)
		}

		Log("package level line")
		time.Sleep(200 * time.Millisecond)

		Fatal()
		os.Exit(42) // Unreachable
	}

	stderr, code := runChild(t, "TestPackageFatalUsesDefaultBus", "LOGBUS_TEST_PKG_FATAL")

	assert.Equal(t, 1, code)
	assert.Equal(t, "[logger] enabling logging\npackage level line\n", stderr)
}
