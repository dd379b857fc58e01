package swipe

import "testing"

func TestPresentOpacity(t *testing.T) {
	tests := []struct {
		name       string
		offset     float64
		wantAccept float64
		wantReject float64
	}{
		{"rest", 0, 0, 0},
		{"half right", 40, 0.5, 0},
		{"half left", -40, 0, 0.5},
		{"at threshold", 80, 1, 0},
		{"past threshold clamps", 200, 1, 0},
		{"far left clamps", -500, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Present(Snapshot{
				Phase:     Dragging,
				Gesture:   Gesture{Offset: tt.offset, Active: true},
				Threshold: 80,
			})
			if p.AcceptOpacity != tt.wantAccept {
				t.Errorf("AcceptOpacity = %v, want %v", p.AcceptOpacity, tt.wantAccept)
			}
			if p.RejectOpacity != tt.wantReject {
				t.Errorf("RejectOpacity = %v, want %v", p.RejectOpacity, tt.wantReject)
			}
			if !p.Dragging || p.Locked {
				t.Errorf("dragging card should be unlocked, got %+v", p)
			}
		})
	}
}

func TestPresentSettling(t *testing.T) {
	p := Present(Snapshot{Phase: Settling, Pending: Reject, Threshold: 80})
	if !p.Locked {
		t.Error("settling card should be locked")
	}
	if p.Exit != -1 {
		t.Errorf("reject should exit left, got %d", p.Exit)
	}
	if p.RejectOpacity != 1 || p.AcceptOpacity != 0 {
		t.Errorf("reject stamp should be fully shown, got %+v", p)
	}

	p = Present(Snapshot{Phase: Settling, Pending: Accept, Threshold: 80})
	if p.Exit != 1 || p.AcceptOpacity != 1 {
		t.Errorf("accept should exit right with full stamp, got %+v", p)
	}
}

func TestPresentZeroThresholdFallsBack(t *testing.T) {
	p := Present(Snapshot{Phase: Dragging, Gesture: Gesture{Offset: 40}})
	if p.AcceptOpacity != 0.5 {
		t.Errorf("expected default threshold to apply, got %v", p.AcceptOpacity)
	}
}

func TestPresentTilt(t *testing.T) {
	p := Present(Snapshot{Phase: Dragging, Gesture: Gesture{Offset: 100}, Threshold: 80})
	if p.Tilt != 4 {
		t.Errorf("Tilt = %v, want 4", p.Tilt)
	}
}
