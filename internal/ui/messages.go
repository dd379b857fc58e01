// Package ui provides the Bubble Tea TUI for duo.
package ui

import (
	"time"

	"github.com/abelbrown/duo/internal/candidate"
	"github.com/abelbrown/duo/internal/swipe"
)

// RosterLoaded is sent when the roster loader finishes.
type RosterLoaded struct {
	Candidates []candidate.Candidate
	Source     string
	Took       time.Duration
	Err        error
}

// SettleMsg is delivered when a settle timer fires. The resolver ignores
// it if Ticket is no longer current.
type SettleMsg struct {
	Ticket swipe.Ticket
}

// frameMsg drives the card spring animation.
type frameMsg struct{}
