package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/abelbrown/duo/internal/candidate"
	"github.com/abelbrown/duo/internal/queue"
	"github.com/abelbrown/duo/internal/swipe"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	maxCardWidth = 52
	minCardWidth = 28
	maxDots      = 40 // beyond this only the counter is shown
	detailMinW   = 100
)

// cardWidth returns the card's outer width for a terminal width.
func cardWidth(termWidth int) int {
	w := termWidth - 4
	if w > maxCardWidth {
		w = maxCardWidth
	}
	if w < minCardWidth {
		w = minCardWidth
	}
	return w
}

// stampColor fades base toward the card background as opacity drops.
func stampColor(baseHex string, opacity float64) lipgloss.Color {
	fg, err := colorful.Hex(baseHex)
	if err != nil {
		return lipgloss.Color(baseHex)
	}
	bg, _ := colorful.Hex(colorCardBg)
	switch {
	case opacity >= 1:
		return lipgloss.Color(fg.Hex())
	case opacity <= 0:
		return lipgloss.Color(bg.Hex())
	}
	return lipgloss.Color(bg.BlendLab(fg, opacity).Hex())
}

func renderStamp(label, baseHex string, opacity float64) string {
	c := stampColor(baseHex, opacity)
	return Stamp.Foreground(c).BorderForeground(c).Render(label)
}

// stampRow is always three lines tall so the card doesn't jump while
// the stamps fade in.
func stampRow(p swipe.Presentation, inner int) string {
	var left, right string
	if p.AcceptOpacity > 0 {
		left = renderStamp("DUO!", stampAcceptHex, p.AcceptOpacity)
	}
	if p.RejectOpacity > 0 {
		right = renderStamp("SKIP", stampRejectHex, p.RejectOpacity)
	}
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right)
	return lipgloss.NewStyle().Height(3).Render(row)
}

// renderCard draws one candidate with the drag presentation applied to
// its stamps and frame. Horizontal displacement is applied by placeCard.
func renderCard(c candidate.Candidate, p swipe.Presentation, bar progress.Model, width int) string {
	frame := Card
	if p.Locked {
		frame = CardLocked
	}
	// border (2) + padding (4)
	inner := width - 6

	var b strings.Builder
	b.WriteString(stampRow(p, inner))
	b.WriteString("\n")

	b.WriteString(roleIcon(c.MainRole) + " " + CardName.Render(c.SummonerName))
	if c.TagLine != "" {
		b.WriteString(CardTag.Render(" #" + c.TagLine))
	}
	if c.Region != "" {
		b.WriteString(CardTag.Render(" · " + c.Region))
	}
	b.WriteString("\n")

	rank := lipgloss.NewStyle().Foreground(tierColor(c.Rank.Tier)).Bold(true).Render(c.Rank.String())
	b.WriteString(rank + CardTag.Render(" · "+string(c.MainRole)))
	b.WriteString("\n\n")

	wr := winRateStyle(c.WinRate).Render(fmt.Sprintf("%.0f%%", c.WinRate))
	bar.Width = inner - 6
	if bar.Width < 8 {
		bar.Width = 8
	}
	b.WriteString(bar.ViewAs(c.WinRate/100) + " " + wr + "\n")
	b.WriteString(CardTag.Render(fmt.Sprintf("win rate · %d games analyzed", c.GamesAnalyzed)))
	b.WriteString("\n\n")

	if len(c.PlayStyles) > 0 {
		chips := make([]string, 0, len(c.PlayStyles))
		for _, s := range c.PlayStyles {
			chips = append(chips, Chip.Render(s))
		}
		b.WriteString(lipgloss.NewStyle().Width(inner).Render(strings.Join(chips, "")))
		b.WriteString("\n")
	}

	if len(c.TopChampions) > 0 {
		champs := make([]string, 0, len(c.TopChampions))
		for _, ch := range c.TopChampions {
			s := ch.Name
			if ch.Mastery != "" {
				s += " " + MasteryBadge.Render(ch.Mastery)
			}
			champs = append(champs, s)
		}
		b.WriteString(strings.Join(champs, "  "))
		b.WriteString("\n")
	}

	if c.SplashURL == "" && c.AvatarURL == "" {
		b.WriteString(CardTag.Render("(no profile art)") + "\n")
	}
	if c.LookingForDuo {
		b.WriteString(lipgloss.NewStyle().Foreground(colorSuccess).Render("● looking for duo"))
	}

	return frame.Width(width - 2).Render(strings.TrimRight(b.String(), "\n"))
}

// placeCard shifts a rendered card horizontally by offset columns from
// the center of a region of the given width, clamped to the region.
func placeCard(card string, width int, offset float64) string {
	w := lipgloss.Width(card)
	left := (width-w)/2 + int(math.Round(offset))
	if limit := width - w; left > limit {
		left = limit
	}
	if left < 0 {
		left = 0
	}
	return lipgloss.NewStyle().MarginLeft(left).Render(card)
}

// renderPeek draws the edges of the next two cards under the current one.
func renderPeek(q *queue.Queue, width int) string {
	var rows []string
	for k := 1; k <= 2; k++ {
		c, ok := q.Peek(k)
		if !ok {
			break
		}
		w := width - 4*k
		if w < 8 {
			break
		}
		label := c.SummonerName
		if k > 1 {
			label = ""
		}
		rows = append(rows, PeekCard.Width(w-2).Render(label))
	}
	if len(rows) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

// progressDots renders past/current/upcoming markers and an n/len counter.
func progressDots(q *queue.Queue) string {
	n := q.Index() + 1
	if n > q.Len() {
		n = q.Len()
	}
	counter := StatusBarText.Render(fmt.Sprintf("%d/%d", n, q.Len()))

	slots := q.Progress()
	if len(slots) == 0 || len(slots) > maxDots {
		return counter
	}

	var b strings.Builder
	for _, s := range slots {
		switch s {
		case queue.SlotPast:
			b.WriteString(DotPast.Render("•"))
		case queue.SlotCurrent:
			b.WriteString(DotCurrent.Render("●"))
		default:
			b.WriteString(DotUpcoming.Render("○"))
		}
	}
	return b.String() + "  " + counter
}

// renderDetail is the side panel shown on wide terminals.
func renderDetail(c candidate.Candidate) string {
	var lines []string
	lines = append(lines, DetailHeader.Render("Season"))
	lines = append(lines,
		fmt.Sprintf("  Wins    %s", lipgloss.NewStyle().Foreground(colorSuccess).Render(fmt.Sprint(c.Wins))),
		fmt.Sprintf("  Losses  %s", lipgloss.NewStyle().Foreground(colorDanger).Render(fmt.Sprint(c.Losses))),
		fmt.Sprintf("  Total   %d", c.Games()),
		"",
	)

	if len(c.PlayStyles) > 0 {
		lines = append(lines, DetailHeader.Render("Play styles"))
		for _, s := range c.PlayStyles {
			lines = append(lines, "  • "+s)
		}
		lines = append(lines, "")
	}

	if len(c.TopChampions) > 0 {
		lines = append(lines, DetailHeader.Render("Champions"))
		for _, ch := range c.TopChampions {
			line := "  " + ch.Name
			if ch.Mastery != "" {
				line += "  " + MasteryBadge.Render(ch.Mastery)
			}
			lines = append(lines, line)
		}
	}

	return DetailPanel.Render(strings.TrimRight(strings.Join(lines, "\n"), "\n"))
}
