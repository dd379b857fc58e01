// Package otel is the structured event trail for duo.
//
// Every interesting transition (a drag cancelled, a card decided, a match
// shown, a roster loaded) becomes a typed Event written as one JSONL line by
// an asynchronous Logger. A RingBuffer keeps the most recent events in
// memory for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level is event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is "<subsystem>.<action>".
type EventKind string

const (
	// Swipe
	KindDragStart  EventKind = "swipe.drag_start"
	KindDragCancel EventKind = "swipe.drag_cancel"
	KindDecision   EventKind = "swipe.decision"
	KindSettle     EventKind = "swipe.settle"
	KindStale      EventKind = "swipe.stale"
	KindRestart    EventKind = "swipe.restart"

	// Match modal
	KindMatchShow    EventKind = "match.show"
	KindMatchCopy    EventKind = "match.copy"
	KindMatchDismiss EventKind = "match.dismiss"

	// Roster
	KindRosterLoad  EventKind = "roster.load"
	KindRosterError EventKind = "roster.error"

	// Store
	KindStoreError EventKind = "store.error"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace (DUO_TRACE)
	KindPhase       EventKind = "trace.phase"
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is one observability record. Kind is required; Time is filled in by
// the Logger when zero.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "ui", "swipe", "match", "roster", "main"
	SessionID string         `json:"session_id,omitempty"`
	Candidate string         `json:"candidate,omitempty"` // candidate ID
	Decision  string         `json:"decision,omitempty"`  // "duo" or "skip"
	Phase     string         `json:"phase,omitempty"`
	Token     uint64         `json:"token,omitempty"` // settle ticket token
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"`
	Count     int            `json:"count,omitempty"`
	Source    string         `json:"source,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON writes Dur as dur_ms.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
