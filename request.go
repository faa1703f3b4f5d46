// FILE: request.go
package logbus

// requestKind tags a delivery-channel request with the handler it targets
type requestKind int

const (
	reqLine requestKind = iota
	reqPrefixed
	reqLeveled
	reqSetSink
	reqSetEnabled
	reqSetInterval
	reqFlush
)

// request is one unit of work handed to the processor goroutine. Log
// requests carry text; control requests carry the new setting. Flush
// requests carry a confirmation channel closed by the processor.
type request struct {
	kind    requestKind
	line    string
	prefix  string
	level   string
	message string
	path    string
	enabled bool
	msec    int64
	confirm chan struct{}
}

// getCurrentChannel safely retrieves the current delivery channel
func (l *Logger) getCurrentChannel() chan request {
	chVal := l.state.ActiveChannel.Load()
	return chVal.(chan request)
}

// post hands a request to the processor goroutine. Callable from any
// goroutine; never blocks and never reports failure to the caller. Requests
// posted from the same goroutine are processed in the order they were
// posted. A post that cannot be delivered (full channel, stopped bus) is
// dropped and counted.
func (l *Logger) post(req request) {
	defer func() {
		if r := recover(); r != nil { // Catch panic on send to closed channel
			l.state.DroppedPosts.Add(1)
		}
	}()

	if l.state.ShutdownCalled.Load() {
		l.state.DroppedPosts.Add(1)
		return
	}

	ch := l.getCurrentChannel()

	// Non-blocking send
	select {
	case ch <- req:
	default:
		l.state.DroppedPosts.Add(1)
	}
}

// Dropped returns the number of requests dropped since the bus was created.
func (l *Logger) Dropped() uint64 {
	return l.state.DroppedPosts.Load()
}
