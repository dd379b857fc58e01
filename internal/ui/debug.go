package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/duo/internal/otel"
	"github.com/abelbrown/duo/internal/swipe"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing swipe stats, the live
// resolver state and recent events. Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, snap swipe.Snapshot, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)
	pres := swipe.Present(snap)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Swipe Stats"))
	lines = append(lines, fmt.Sprintf("  Drags:      %d started, %d cancelled",
		stats[otel.KindDragStart], stats[otel.KindDragCancel]))
	lines = append(lines, fmt.Sprintf("  Decisions:  %d decided, %d settled, %d stale",
		stats[otel.KindDecision], stats[otel.KindSettle], stats[otel.KindStale]))
	lines = append(lines, fmt.Sprintf("  Matches:    %d shown, %d copied, %d dismissed",
		stats[otel.KindMatchShow], stats[otel.KindMatchCopy], stats[otel.KindMatchDismiss]))
	lines = append(lines, fmt.Sprintf("  Roster:     %d loads, %d errors",
		stats[otel.KindRosterLoad], stats[otel.KindRosterError]))
	lines = append(lines, fmt.Sprintf("  Resolver:   %s  offset %.0f  tilt %.1f°  pending %s",
		snap.Phase, pres.Offset, pres.Tilt, snap.Pending))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		age := time.Since(e.Time)
		ageStr := formatAge(age)

		line := fmt.Sprintf("  %6s  %-18s", ageStr, string(e.Kind))
		if e.Candidate != "" {
			line += "  " + truncateRunes(e.Candidate, 12)
		}
		if e.Decision != "" {
			line += "  " + e.Decision
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		if e.Token != 0 {
			line += fmt.Sprintf("  t:%d", e.Token)
		}
		lines = append(lines, line)
	}

	// Truncate to fit terminal height (subtract chrome added by DebugPanel border/padding)
	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 76
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	content := strings.Join(lines, "\n")
	return DebugPanel.Width(panelWidth).Render(content)
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// truncateRunes shortens s to n runes, adding "…" when cut.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("D") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
