// FILE: fatal.go
package logbus

import (
	"os"
)

// Fatal is the emergency drain for unrecoverable conditions. It bypasses the
// delivery channel, the file sink and the subscribers entirely: the pending
// buffer is read without any synchronization, each line is written straight
// to standard error, and the process terminates. Getting something out
// matters more than correctness here, since the condition that brought us
// here may have violated the normal invariants already.
func (l *Logger) Fatal() {
	l.fatalDrain()
	os.Exit(1)
}

// fatalDrain writes every pending line to stderr, best effort
func (l *Logger) fatalDrain() {
	for _, line := range l.pending {
		fprintfStderr("%s\n", line)
	}
}
