package otel

import (
	"maps"
	"sync"
)

// DefaultRingSize is used when NewRingBuffer gets a non-positive size.
const DefaultRingSize = 512

// RingBuffer keeps the last N events. Safe for concurrent use.
type RingBuffer struct {
	mu    sync.Mutex
	buf   []Event
	size  int
	head  int // next write slot
	count int
}

// NewRingBuffer creates a ring holding up to size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{buf: make([]Event, size), size: size}
}

// Push stores e, evicting the oldest event when full. Extra is cloned so
// callers may keep mutating their map.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		e.Extra = maps.Clone(e.Extra)
	}
	r.mu.Lock()
	r.buf[r.head] = e
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
	r.mu.Unlock()
}

// Snapshot returns every buffered event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastLocked(r.count)
}

// Last returns the n newest events, oldest first.
func (r *RingBuffer) Last(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastLocked(n)
}

func (r *RingBuffer) lastLocked(n int) []Event {
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]Event, n)
	start := (r.head - n + r.size) % r.size
	for i := 0; i < n; i++ {
		out[i] = r.buf[(start+i)%r.size]
	}
	return out
}

// Len returns the number of buffered events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the ring capacity.
func (r *RingBuffer) Cap() int {
	return r.size
}

// Stats counts buffered events by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[EventKind]int)
	for _, e := range r.lastLocked(r.count) {
		counts[e.Kind]++
	}
	return counts
}
