// Package match is the "It's a duo!" modal shown after an accept.
//
// The modal only displays and copies; it never touches the candidate queue.
// Dismissing it emits DismissedMsg so the host can log the close.
package match

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/duo/internal/swipe"
	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultCopiedFlash is how long the "copied" confirmation stays visible.
const DefaultCopiedFlash = 2000 * time.Millisecond

// Clipboard writes text to wherever the user can paste it from.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard uses the OS clipboard and falls back to an OSC52 escape
// sequence when none is available (SSH sessions, headless terminals).
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if !clipboard.Unsupported {
		if err := clipboard.WriteAll(text); err == nil {
			return nil
		}
	}
	_, err := osc52.New(text).WriteTo(os.Stderr)
	return err
}

// DismissedMsg is sent once when an active modal is closed.
type DismissedMsg struct {
	EventID string
}

// CopiedMsg reports a copy attempt. Err is nil on success.
// The host must pass it back through Update to show the result.
type CopiedMsg struct {
	EventID string
	Handle  string
	Err     error

	token uint64
}

// copiedExpiredMsg clears the "copied" flag if Token is still current.
type copiedExpiredMsg struct {
	Token uint64
}

// KeyMap are the modal bindings.
type KeyMap struct {
	Copy    key.Binding
	Dismiss key.Binding
}

// DefaultKeyMap returns c/y to copy and enter/esc/q to close.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Copy:    key.NewBinding(key.WithKeys("c", "y"), key.WithHelp("c", "copy name#tag")),
		Dismiss: key.NewBinding(key.WithKeys("enter", "esc", "q"), key.WithHelp("enter", "keep swiping")),
	}
}

// Model is the match modal. The zero value is inactive; use New.
type Model struct {
	Keys  KeyMap
	Flash time.Duration

	clip   Clipboard
	event  swipe.MatchEvent
	active bool
	copied bool
	err    error
	token  uint64 // bumped on every copy and teardown
}

// New returns an inactive modal writing to clip. A nil clip uses the
// system clipboard.
func New(clip Clipboard) Model {
	if clip == nil {
		clip = SystemClipboard{}
	}
	return Model{
		Keys:  DefaultKeyMap(),
		Flash: DefaultCopiedFlash,
		clip:  clip,
	}
}

// Show activates the modal for ev, replacing any previous state.
func (m Model) Show(ev swipe.MatchEvent) Model {
	m.event = ev
	m.active = true
	m.copied = false
	m.err = nil
	m.token++
	return m
}

// Active reports whether the modal is showing.
func (m Model) Active() bool { return m.active }

// Copied reports whether the "copied" confirmation is showing.
func (m Model) Copied() bool { return m.copied }

// Event returns the match being shown.
func (m Model) Event() swipe.MatchEvent { return m.event }

// Teardown closes the modal without emitting DismissedMsg and invalidates
// any pending flash timer.
func (m Model) Teardown() Model {
	m.active = false
	m.copied = false
	m.token++
	return m
}

// Update handles keys while active and the flash expiry timer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case copiedExpiredMsg:
		if msg.Token == m.token {
			m.copied = false
		}
		return m, nil

	case CopiedMsg:
		return m.finishCopy(msg)

	case tea.KeyMsg:
		if !m.active {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.Keys.Copy):
			return m.copy()
		case key.Matches(msg, m.Keys.Dismiss):
			return m.dismiss()
		}
	}
	return m, nil
}

// copy starts the clipboard write. It runs inside the returned command
// since the system clipboard may shell out to xclip or pbcopy.
func (m Model) copy() (Model, tea.Cmd) {
	handle := m.event.Candidate.Handle()
	id := m.event.ID
	clip := m.clip

	m.token++
	token := m.token
	return m, func() tea.Msg {
		return CopiedMsg{EventID: id, Handle: handle, Err: clip.WriteAll(handle), token: token}
	}
}

// finishCopy records a finished write and arms the flash timer. Results for
// a torn-down modal or a superseded copy are dropped.
func (m Model) finishCopy(msg CopiedMsg) (Model, tea.Cmd) {
	if !m.active || msg.token != m.token {
		return m, nil
	}
	if msg.Err != nil {
		m.copied = false
		m.err = msg.Err
		return m, nil
	}
	m.copied = true
	m.err = nil

	token := m.token
	return m, tea.Tick(m.Flash, func(time.Time) tea.Msg { return copiedExpiredMsg{Token: token} })
}

func (m Model) dismiss() (Model, tea.Cmd) {
	id := m.event.ID
	m = m.Teardown()
	return m, func() tea.Msg { return DismissedMsg{EventID: id} }
}

var (
	colorAccent = lipgloss.Color("212")
	colorGold   = lipgloss.Color("220")
	colorMuted  = lipgloss.Color("241")
	colorOK     = lipgloss.Color("78")
	colorErr    = lipgloss.Color("196")

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 4).
			Align(lipgloss.Center)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	handleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGold)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	okStyle     = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(colorErr)
)

// View renders the modal, or "" when inactive.
func (m Model) View() string {
	if !m.active {
		return ""
	}
	c := m.event.Candidate

	var b strings.Builder
	b.WriteString(titleStyle.Render("♥  It's a duo!  ♥"))
	b.WriteString("\n\n")
	b.WriteString("You and " + handleStyle.Render(c.SummonerName) + " could climb together.\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s · %s", c.Rank, c.MainRole)))
	b.WriteString("\n\n")
	b.WriteString(handleStyle.Render(c.Handle()))
	b.WriteString("\n")

	switch {
	case m.copied:
		b.WriteString(okStyle.Render("✓ copied"))
	case m.err != nil:
		b.WriteString(errStyle.Render("copy failed: " + m.err.Error()))
	default:
		b.WriteString(mutedStyle.Render(" "))
	}
	b.WriteString("\n\n")

	hint := fmt.Sprintf("%s %s   %s %s",
		m.Keys.Copy.Help().Key, m.Keys.Copy.Help().Desc,
		m.Keys.Dismiss.Help().Key, m.Keys.Dismiss.Help().Desc)
	b.WriteString(mutedStyle.Render(hint))

	return modalStyle.Render(b.String())
}
