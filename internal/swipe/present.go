package swipe

// tiltPerUnit converts offset into card rotation (degrees per unit).
const tiltPerUnit = 0.04

// Presentation is everything the view needs to draw the current card.
// It is derived from a Snapshot and never stored.
type Presentation struct {
	Offset        float64 // displacement to draw the card at
	Tilt          float64 // rotation hint in degrees
	AcceptOpacity float64 // 0..1 strength of the "DUO!" stamp
	RejectOpacity float64 // 0..1 strength of the "SKIP" stamp
	Exit          int     // +1 exiting right, -1 exiting left, 0 not exiting
	Dragging      bool
	Locked        bool // input is ignored until the card settles
}

// Present maps resolver state to a presentation descriptor.
func Present(s Snapshot) Presentation {
	t := s.Threshold
	if t <= 0 {
		t = DefaultThreshold
	}
	off := s.Gesture.Offset

	p := Presentation{
		Offset:        off,
		Tilt:          off * tiltPerUnit,
		AcceptOpacity: clamp01(off / t),
		RejectOpacity: clamp01(-off / t),
		Dragging:      s.Phase == Dragging,
	}

	if s.Phase == Settling || s.Phase == Done {
		p.Locked = true
		p.Exit = s.Pending.Direction()
		switch s.Pending {
		case Accept:
			p.AcceptOpacity, p.RejectOpacity = 1, 0
		case Reject:
			p.AcceptOpacity, p.RejectOpacity = 0, 1
		}
	}
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
