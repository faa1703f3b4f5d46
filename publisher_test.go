// FILE: publisher_test.go
package logbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublisherFanOut verifies every active subscriber receives every event
func TestPublisherFanOut(t *testing.T) {
	p := newPublisher(8)
	a := p.Subscribe()
	b := p.Subscribe()

	p.publishLine("line one")
	p.publishBatch([]string{"b1", "b2"})

	assert.Equal(t, "line one", <-a.Lines())
	assert.Equal(t, "line one", <-b.Lines())
	assert.Equal(t, []string{"b1", "b2"}, <-a.Batches())
	assert.Equal(t, []string{"b1", "b2"}, <-b.Batches())
}

// TestPublisherDropOldest verifies a full subscriber loses its oldest entry,
// never the newest, and never blocks the publisher
func TestPublisherDropOldest(t *testing.T) {
	p := newPublisher(2)
	sub := p.Subscribe()

	p.publishLine("one")
	p.publishLine("two")
	p.publishLine("three") // Displaces "one"

	assert.Equal(t, "two", <-sub.Lines())
	assert.Equal(t, "three", <-sub.Lines())
	select {
	case line := <-sub.Lines():
		t.Fatalf("unexpected extra line: %q", line)
	default:
	}
}

// TestPublisherMinimumCapacity verifies degenerate sizes are clamped to one
func TestPublisherMinimumCapacity(t *testing.T) {
	p := newPublisher(0)
	sub := p.Subscribe()

	p.publishLine("one")
	p.publishLine("two")

	assert.Equal(t, "two", <-sub.Lines())
}

// TestPublisherSubscriberClose verifies a closed subscription is pruned on
// the next publish and its channels end
func TestPublisherSubscriberClose(t *testing.T) {
	p := newPublisher(4)
	gone := p.Subscribe()
	stay := p.Subscribe()

	gone.Close()
	gone.Close() // Idempotent

	p.publishLine("survivor")

	assert.Equal(t, "survivor", <-stay.Lines())
	_, ok := <-gone.Lines()
	assert.False(t, ok)
	_, ok = <-gone.Batches()
	assert.False(t, ok)
}

// TestPublisherClose verifies closing ends all subscriptions and later
// publishes are silently ignored
func TestPublisherClose(t *testing.T) {
	p := newPublisher(4)
	sub := p.Subscribe()

	p.publishLine("before close")
	p.Close()
	p.Close() // Idempotent
	p.publishLine("after close")

	// Buffered content is still readable, then the channel ends
	assert.Equal(t, "before close", <-sub.Lines())
	_, ok := <-sub.Lines()
	assert.False(t, ok)
}

// TestPublisherSubscribeAfterClose verifies late subscribers get immediately
// ended channels instead of a hang
func TestPublisherSubscribeAfterClose(t *testing.T) {
	p := newPublisher(4)
	p.Close()

	sub := p.Subscribe()
	require.NotNil(t, sub)

	_, ok := <-sub.Lines()
	assert.False(t, ok)
	_, ok = <-sub.Batches()
	assert.False(t, ok)
}

// TestPublisherBatchSharing verifies one underlying slice serves all
// subscribers for a flushed batch
func TestPublisherBatchSharing(t *testing.T) {
	p := newPublisher(4)
	a := p.Subscribe()
	b := p.Subscribe()

	batch := []string{"x", "y"}
	p.publishBatch(batch)

	got1 := <-a.Batches()
	got2 := <-b.Batches()
	assert.Same(t, &got1[0], &got2[0], "subscribers should share the batch backing array")
}
