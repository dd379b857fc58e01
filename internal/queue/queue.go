// Package queue holds the ordered candidate roster and its cursor.
package queue

import "github.com/abelbrown/duo/internal/candidate"

// Queue is an ordered candidate list plus a zero-based cursor.
// Invariant: 0 <= index <= len(items). index == len(items) means exhausted.
//
// Not goroutine-safe. It is owned by the UI model and mutated only from
// Bubble Tea's Update loop.
type Queue struct {
	items []candidate.Candidate
	index int
}

// New creates a queue over items. The slice is copied so later changes by
// the loader cannot shift candidates under the cursor.
func New(items []candidate.Candidate) *Queue {
	cp := make([]candidate.Candidate, len(items))
	copy(cp, items)
	return &Queue{items: cp}
}

// Current returns the candidate at the cursor. ok is false when exhausted.
func (q *Queue) Current() (candidate.Candidate, bool) {
	return q.at(q.index)
}

// Peek returns the candidate k positions past the cursor without moving it.
// Used for the stacked-card lookahead (k = 1, 2).
func (q *Queue) Peek(k int) (candidate.Candidate, bool) {
	if k < 0 {
		return candidate.Candidate{}, false
	}
	return q.at(q.index + k)
}

func (q *Queue) at(i int) (candidate.Candidate, bool) {
	if i < 0 || i >= len(q.items) {
		return candidate.Candidate{}, false
	}
	return q.items[i], true
}

// Advance moves the cursor forward by one. Reaching len is the exhausted
// terminal state; advancing an exhausted queue does nothing.
func (q *Queue) Advance() {
	if q.index < len(q.items) {
		q.index++
	}
}

// Reset moves the cursor back to the first candidate.
func (q *Queue) Reset() {
	q.index = 0
}

// Index returns the cursor position.
func (q *Queue) Index() int {
	return q.index
}

// Len returns the number of candidates.
func (q *Queue) Len() int {
	return len(q.items)
}

// Exhausted reports whether every candidate has been resolved.
func (q *Queue) Exhausted() bool {
	return q.index >= len(q.items)
}

// Slot describes one position in the progress indicator.
type Slot int

const (
	SlotPast Slot = iota
	SlotCurrent
	SlotUpcoming
)

// Progress returns one Slot per candidate relative to the cursor.
func (q *Queue) Progress() []Slot {
	slots := make([]Slot, len(q.items))
	for i := range q.items {
		switch {
		case i < q.index:
			slots[i] = SlotPast
		case i == q.index:
			slots[i] = SlotCurrent
		default:
			slots[i] = SlotUpcoming
		}
	}
	return slots
}
