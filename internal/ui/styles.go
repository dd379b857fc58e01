package ui

import (
	"github.com/abelbrown/duo/internal/candidate"
	"github.com/charmbracelet/lipgloss"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorDanger    = lipgloss.Color("203") // Red
	colorCardBg    = "#1c1c1c"
)

// Stamp base colors, blended toward the card background by opacity.
const (
	stampAcceptHex = "#22c55e"
	stampRejectHex = "#ef4444"
)

// tierColors mirrors the in-game rank palette.
var tierColors = map[candidate.Tier]lipgloss.Color{
	candidate.TierIron:        lipgloss.Color("#6b6b6b"),
	candidate.TierBronze:      lipgloss.Color("#a0522d"),
	candidate.TierSilver:      lipgloss.Color("#c0c0c0"),
	candidate.TierGold:        lipgloss.Color("#ffd700"),
	candidate.TierPlatinum:    lipgloss.Color("#00ced1"),
	candidate.TierEmerald:     lipgloss.Color("#50c878"),
	candidate.TierDiamond:     lipgloss.Color("#b9f2ff"),
	candidate.TierMaster:      lipgloss.Color("#9d4dc9"),
	candidate.TierGrandmaster: lipgloss.Color("#e63946"),
	candidate.TierChallenger:  lipgloss.Color("#f4c430"),
}

// tierColor returns the tier's color, gray for unranked or unknown tiers.
func tierColor(t candidate.Tier) lipgloss.Color {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return colorSecondary
}

var roleIcons = map[candidate.Role]string{
	candidate.RoleTop:     "🛡",
	candidate.RoleJungle:  "🌲",
	candidate.RoleMid:     "⚡",
	candidate.RoleADC:     "🏹",
	candidate.RoleSupport: "💖",
	candidate.RoleFill:    "🔄",
}

func roleIcon(r candidate.Role) string {
	if icon, ok := roleIcons[r]; ok {
		return icon
	}
	return "·"
}

// winRateStyle is green at 50% and above.
func winRateStyle(wr float64) lipgloss.Style {
	if wr >= 50 {
		return lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
}

// Card is the main profile card frame.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// CardLocked is the frame while the card is leaving.
var CardLocked = Card.BorderForeground(colorMuted)

// CardName style for the summoner name.
var CardName = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// CardTag style for the #tag and region.
var CardTag = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Chip style for play style tags.
var Chip = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// MasteryBadge style for champion mastery.
var MasteryBadge = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// Stamp is the base style for the DUO!/SKIP overlays.
var Stamp = lipgloss.NewStyle().
	Bold(true).
	Border(lipgloss.ThickBorder()).
	Padding(0, 1)

// PeekCard style for the cards stacked behind the current one.
var PeekCard = lipgloss.NewStyle().
	Foreground(colorMuted).
	Border(lipgloss.RoundedBorder(), false, true, true, true).
	BorderForeground(colorMuted).
	Align(lipgloss.Center)

// DetailPanel style for the side panel on wide terminals.
var DetailPanel = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1).
	MarginLeft(2)

// DetailHeader style for detail panel section titles.
var DetailHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// Dot styles for the progress row.
var (
	DotPast     = lipgloss.NewStyle().Foreground(colorMuted)
	DotCurrent  = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	DotUpcoming = lipgloss.NewStyle().Foreground(colorSecondary)
)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// Title style for full-screen state messages.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// DebugPanel style for the debug overlay container.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers in the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
