// FILE: publisher.go
package logbus

import (
	"sync"
	"sync/atomic"
)

// Publisher fans out accepted lines and flushed batches to subscribers.
//
// Delivery uses buffered channels with ring-buffer semantics: when a
// subscriber's channel is full the oldest entry is dropped so the processor
// never blocks on a slow consumer. Safe for concurrent use.
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	mu          sync.Mutex
	closed      bool
}

// newPublisher creates a Publisher whose future subscriptions get channels
// of the given capacity
func newPublisher(bufSize int) *Publisher {
	if bufSize < 1 {
		bufSize = 1
	}
	return &Publisher{bufSize: bufSize}
}

// setBufferSize changes the channel capacity used for new subscriptions
func (p *Publisher) setBufferSize(n int) {
	if n < 1 {
		n = 1
	}
	p.mu.Lock()
	p.bufSize = n
	p.mu.Unlock()
}

// Subscribe creates and registers a new Subscription. If the Publisher is
// already closed the returned subscription's channels are immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		lines:   make(chan string, p.bufSize),
		batches: make(chan []string, p.bufSize),
	}

	if p.closed {
		close(sub.lines)
		close(sub.batches)
		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// publishLine delivers one immediate-mode line to all active subscribers
func (p *Publisher) publishLine(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.lines)
			close(sub.batches)
			continue
		}
		// Ring-buffer: drop oldest if full. Both steps are non-blocking
		// because a consumer may race the drain.
		select {
		case sub.lines <- line:
		default:
			select {
			case <-sub.lines:
			default:
			}
			select {
			case sub.lines <- line:
			default:
			}
		}
		alive = append(alive, sub)
	}
	p.compact(alive)
}

// publishBatch delivers one flushed batch, in order, as a single event.
// Subscribers must not modify the received slice.
func (p *Publisher) publishBatch(batch []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.lines)
			close(sub.batches)
			continue
		}
		select {
		case sub.batches <- batch:
		default:
			select {
			case <-sub.batches:
			default:
			}
			select {
			case sub.batches <- batch:
			default:
			}
		}
		alive = append(alive, sub)
	}
	p.compact(alive)
}

// compact installs the surviving subscriber list, clearing trailing
// references for GC
func (p *Publisher) compact(alive []*Subscription) {
	for i := len(alive); i < len(p.subscribers); i++ {
		p.subscribers[i] = nil
	}
	p.subscribers = alive
}

// Close marks the Publisher as closed, closes all subscription channels,
// and releases the subscriber list. Idempotent.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.lines)
		close(sub.batches)
	}
	p.subscribers = nil
}

// Subscription receives line and batch events from a Publisher.
type Subscription struct {
	lines   chan string
	batches chan []string
	closed  atomic.Bool
}

// Lines returns the channel delivering immediate-mode single-line events.
func (s *Subscription) Lines() <-chan string {
	return s.lines
}

// Batches returns the channel delivering flush batches. The slices are
// shared between subscribers and must not be modified.
func (s *Subscription) Batches() <-chan []string {
	return s.batches
}

// Close marks the subscription as closed. The Publisher closes the
// underlying channels on its next publish or Close call. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}
