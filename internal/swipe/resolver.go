package swipe

import (
	"sync/atomic"
	"time"

	"github.com/abelbrown/duo/internal/candidate"
	"github.com/abelbrown/duo/internal/queue"
	"github.com/google/uuid"
)

// tokens is shared by every Resolver so a ticket issued by a torn-down
// resolver can never collide with one issued by its replacement.
var tokens atomic.Uint64

// settling is the decision captured for the current card.
type settling struct {
	ticket    Ticket
	candidate candidate.Candidate
	decision  Decision
	decidedAt time.Time
}

// Resolver is the swipe state machine for the queue's current card.
//
// Not goroutine-safe: all methods are called from the Bubble Tea Update
// loop. Events that arrive in a phase that forbids them are ignored and
// reported by a false return, never by an error.
type Resolver struct {
	queue       *queue.Queue
	threshold   float64
	settleAfter time.Duration
	now         func() time.Time
	newID       func() string
	onPhase     func(from, to Phase)

	phase   Phase
	gesture Gesture
	pending *settling
	closed  bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold sets the drag distance that must be exceeded to decide.
// Non-positive values are ignored.
func WithThreshold(t float64) Option {
	return func(r *Resolver) {
		if t > 0 {
			r.threshold = t
		}
	}
}

// WithSettle sets the exit animation duration carried by issued tickets.
func WithSettle(d time.Duration) Option {
	return func(r *Resolver) {
		if d >= 0 {
			r.settleAfter = d
		}
	}
}

// WithClock overrides time.Now for DecidedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithIDFunc overrides the MatchEvent ID generator.
func WithIDFunc(fn func() string) Option {
	return func(r *Resolver) { r.newID = fn }
}

// WithPhaseHook registers fn to observe every phase change, Done included.
func WithPhaseHook(fn func(from, to Phase)) Option {
	return func(r *Resolver) { r.onPhase = fn }
}

// New creates a Resolver driving q.
func New(q *queue.Queue, opts ...Option) *Resolver {
	r := &Resolver{
		queue:       q,
		threshold:   DefaultThreshold,
		settleAfter: DefaultSettle,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Phase returns the current phase.
func (r *Resolver) Phase() Phase { return r.phase }

// Gesture returns the in-flight gesture state.
func (r *Resolver) Gesture() Gesture { return r.gesture }

// Threshold returns the decision threshold.
func (r *Resolver) Threshold() float64 { return r.threshold }

// Pending returns the decision awaiting settle, if any.
func (r *Resolver) Pending() (Decision, bool) {
	if r.pending == nil {
		return 0, false
	}
	return r.pending.decision, true
}

// Snapshot returns the state consumed by Present.
func (r *Resolver) Snapshot() Snapshot {
	s := Snapshot{Phase: r.phase, Gesture: r.gesture, Threshold: r.threshold}
	if r.pending != nil {
		s.Pending = r.pending.decision
	}
	return s
}

// Begin starts a drag at pointer position x.
// Only valid while Idle with a current candidate.
func (r *Resolver) Begin(x float64) bool {
	if r.closed || r.phase != Idle || r.queue.Exhausted() {
		return false
	}
	r.gesture = Gesture{Origin: x, Active: true}
	r.setPhase(Dragging)
	return true
}

// Move updates the drag offset from pointer position x.
func (r *Resolver) Move(x float64) bool {
	if r.closed || r.phase != Dragging {
		return false
	}
	r.gesture.Offset = x - r.gesture.Origin
	return true
}

// End releases the drag. An offset strictly beyond ±threshold produces a
// decision and returns its settle ticket; anything else cancels the drag
// and returns to Idle. Ignored when not dragging.
func (r *Resolver) End() (Ticket, bool) {
	if r.closed || r.phase != Dragging {
		return Ticket{}, false
	}
	switch off := r.gesture.Offset; {
	case off > r.threshold:
		return r.decide(Accept)
	case off < -r.threshold:
		return r.decide(Reject)
	}
	r.gesture = Gesture{}
	r.setPhase(Idle)
	return Ticket{}, false
}

// Decide is the discrete accept/reject action. It is equivalent to a drag
// released past the threshold. Ignored while a decision is pending.
func (r *Resolver) Decide(d Decision) (Ticket, bool) {
	if r.closed || !d.Valid() || r.pending != nil {
		return Ticket{}, false
	}
	if r.phase != Idle && r.phase != Dragging {
		return Ticket{}, false
	}
	return r.decide(d)
}

func (r *Resolver) decide(d Decision) (Ticket, bool) {
	cur, ok := r.queue.Current()
	if !ok {
		r.gesture = Gesture{}
		r.setPhase(Idle)
		return Ticket{}, false
	}

	t := Ticket{
		Token:       tokens.Add(1),
		CandidateID: cur.ID,
		After:       r.settleAfter,
	}
	r.pending = &settling{
		ticket:    t,
		candidate: cur,
		decision:  d,
		decidedAt: r.now(),
	}
	// The offset survives until Done so the exit animation starts where
	// the finger let go.
	r.gesture.Active = false
	r.gesture.Origin = 0
	r.setPhase(Settling)
	return t, true
}

// Settle completes the in-flight decision named by t. Side effects fire
// exactly once: the queue advances and, for Accept, a MatchEvent is
// attached to the returned Resolution. Stale, duplicate or foreign
// tickets are ignored.
func (r *Resolver) Settle(t Ticket) (Resolution, bool) {
	if r.closed || r.pending == nil {
		return Resolution{}, false
	}
	p := r.pending
	if t.Token != p.ticket.Token || t.CandidateID != p.ticket.CandidateID {
		return Resolution{}, false
	}

	r.pending = nil
	r.setPhase(Done)

	res := Resolution{
		CandidateID: p.candidate.ID,
		Candidate:   p.candidate,
		Decision:    p.decision,
	}
	if p.decision == Accept {
		res.Match = &MatchEvent{
			ID:        r.newID(),
			Candidate: p.candidate,
			DecidedAt: p.decidedAt,
		}
	}
	r.queue.Advance()

	r.gesture = Gesture{}
	r.setPhase(Idle)
	return res, true
}

// Restart rewinds the queue to the first candidate. Refused while a
// decision is settling.
func (r *Resolver) Restart() bool {
	if r.closed || r.pending != nil {
		return false
	}
	r.queue.Reset()
	r.gesture = Gesture{}
	r.setPhase(Idle)
	return true
}

// Close tears the resolver down. Any outstanding ticket is invalidated so
// a settle timer firing later cannot touch the queue, and every further
// event is ignored.
func (r *Resolver) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.pending = nil
	r.gesture = Gesture{}
	r.setPhase(Idle)
}

// Closed reports whether Close has been called.
func (r *Resolver) Closed() bool { return r.closed }

func (r *Resolver) setPhase(p Phase) {
	if r.phase == p {
		return
	}
	from := r.phase
	r.phase = p
	if r.onPhase != nil {
		r.onPhase(from, p)
	}
}
