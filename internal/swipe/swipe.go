// Package swipe implements the per-card resolution state machine.
//
// A card moves Idle → Dragging → Settling → Done and back to Idle for the
// next candidate. Dragging converts pointer motion into an offset; releasing
// past the threshold (or a discrete accept/reject) produces a Decision and
// enters Settling, where input is locked until the host delivers the settle
// Ticket. Settling → Done advances the queue exactly once and, for Accept,
// emits a MatchEvent carrying the candidate captured at decision time.
//
// The Resolver holds no timers. It hands the host a Ticket describing the
// settle task; the host schedules it (tea.Tick in the UI) and returns it via
// Settle. Tickets are single-use and die with Close, which is how scheduled
// callbacks are cancelled.
package swipe

import (
	"time"

	"github.com/abelbrown/duo/internal/candidate"
)

// Design values.
const (
	DefaultThreshold = 80.0
	DefaultSettle    = 400 * time.Millisecond
)

// Phase is the resolution phase of the current card.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Settling
	Done
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Settling:
		return "settling"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Decision is the resolved outcome for a candidate. The zero value means
// no decision.
type Decision int

const (
	Accept Decision = iota + 1
	Reject
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "duo"
	case Reject:
		return "skip"
	default:
		return "none"
	}
}

// Valid reports whether d is Accept or Reject.
func (d Decision) Valid() bool {
	return d == Accept || d == Reject
}

// Direction is the exit direction for d: +1 for Accept, -1 for Reject.
func (d Decision) Direction() int {
	switch d {
	case Accept:
		return 1
	case Reject:
		return -1
	default:
		return 0
	}
}

// Gesture is the transient state of a single drag.
type Gesture struct {
	Origin float64
	Offset float64
	Active bool
}

// Ticket identifies one in-flight settle task. Token is unique for the
// process lifetime; CandidateID pins the task to the card it was issued for.
type Ticket struct {
	Token       uint64
	CandidateID string
	After       time.Duration
}

// MatchEvent is emitted once per Accept. Candidate is a copy taken when the
// decision was made, never re-read from the queue.
type MatchEvent struct {
	ID        string
	Candidate candidate.Candidate
	DecidedAt time.Time
}

// Resolution is the (candidate, decision) outcome delivered when a card
// finishes settling. Match is non-nil only for Accept.
type Resolution struct {
	CandidateID string
	Candidate   candidate.Candidate
	Decision    Decision
	Match       *MatchEvent
}

// Snapshot is a read-only view of the resolver used for presentation.
type Snapshot struct {
	Phase     Phase
	Gesture   Gesture
	Pending   Decision
	Threshold float64
}
