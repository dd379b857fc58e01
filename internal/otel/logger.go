package otel

// Goroutine safety:
// drain is the only reader of l.ch and the only writer to l.w.
// l.mu guards the ring pointer alone; the ring has its own lock and is
// pushed to after l.mu is released.

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// queueSize bounds the async write channel (~200 bytes per event).
const queueSize = 4096

type pendingWrite struct {
	line []byte
	ev   Event // kept unserialized for the ring so Dur survives
}

// Logger writes events as JSONL from a background goroutine.
// Emit never blocks: when the channel is full the event is dropped and
// counted.
type Logger struct {
	mu        sync.Mutex
	ring      *RingBuffer
	sessionID string
	ch        chan pendingWrite
	w         io.Writer
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger starts a Logger writing to w. Close flushes and stops it.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{
		sessionID: uuid.NewString(),
		ch:        make(chan pendingWrite, queueSize),
		w:         w,
		done:      make(chan struct{}),
	}
	go l.drain()
	return l
}

// NewNullLogger returns a Logger that discards its output but still feeds
// an attached ring buffer.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

func (l *Logger) drain() {
	defer close(l.done)
	for p := range l.ch {
		if _, err := l.w.Write(p.line); err != nil {
			l.dropped.Add(1)
		}

		l.mu.Lock()
		ring := l.ring
		l.mu.Unlock()

		if ring != nil {
			ring.Push(p.ev)
		}
	}
}

// Emit stamps e with the time (if unset) and session ID and queues it.
// Safe for concurrent use, including concurrently with Close.
func (l *Logger) Emit(e Event) {
	defer func() {
		// send on a channel closed between the check and the send
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	line = append(line, '\n')

	select {
	case l.ch <- pendingWrite{line: line, ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info-level event.
func (l *Logger) Info(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn-level event.
func (l *Logger) Warn(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error-level event. A nil err is logged with an empty Err.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	var msg string
	if err != nil {
		msg = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: msg})
}

// SetRingBuffer attaches ring for live inspection.
func (l *Logger) SetRingBuffer(ring *RingBuffer) {
	l.mu.Lock()
	l.ring = ring
	l.mu.Unlock()
}

// SessionID returns the ID stamped on every event of this run.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// Dropped returns how many events were lost.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close drains pending events and stops the writer. Idempotent.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done

		if n := l.dropped.Load(); n > 0 {
			fmt.Fprintf(os.Stderr, "duo: %d events dropped in session %s\n", n, l.sessionID)
		}
	})
}
