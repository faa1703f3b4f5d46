// FILE: state.go
package logbus

import (
	"sync"
	"sync/atomic"
)

// State encapsulates the runtime state of the bus
type State struct {
	IsInitialized   atomic.Bool
	Started         atomic.Bool
	ShutdownCalled  atomic.Bool
	ProcessorExited atomic.Bool // Tracks if the processor goroutine is running or has exited

	ActiveChannel atomic.Value  // stores chan request
	DroppedPosts  atomic.Uint64 // Counter for requests dropped on a full channel

	flushMutex sync.Mutex // Protect concurrent Flush calls
}
