package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abelbrown/duo/internal/logging"
	"github.com/abelbrown/duo/internal/otel"
	"github.com/abelbrown/duo/internal/queue"
	"github.com/abelbrown/duo/internal/swipe"
	"github.com/abelbrown/duo/internal/ui/match"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

// AppConfig wires the App to its collaborators. Zero values fall back to
// the defaults in NewApp.
type AppConfig struct {
	// LoadRoster returns a Cmd producing RosterLoaded. Called at start and
	// on reload.
	LoadRoster func() tea.Cmd

	Logger    *otel.Logger
	Ring      *otel.RingBuffer // debug overlay source; nil disables it
	Clipboard match.Clipboard

	Threshold    float64       // swipe distance units
	Settle       time.Duration // exit animation
	CopiedFlash  time.Duration
	CellUnits    float64 // distance units per column dragged
	ExitDistance int     // columns the card travels when leaving
	ShowDetail   bool
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold *store.Store. It receives candidates via
// RosterLoaded.
type App struct {
	cfg     AppConfig
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	bar     progress.Model
	logger  *otel.Logger

	queue    *queue.Queue
	resolver *swipe.Resolver
	match    match.Model

	// Displayed card offset in columns. Follows the finger while dragging
	// and is sprung toward 0 or the exit position otherwise.
	spring    harmonica.Spring
	pos       float64
	vel       float64
	animating bool

	last    string // outcome of the previous card
	err     error
	width   int
	height  int
	ready   bool
	loading bool
	debug   bool
}

// NewApp creates an App. The queue starts empty until RosterLoaded arrives.
func NewApp(cfg AppConfig) App {
	if cfg.Threshold <= 0 {
		cfg.Threshold = swipe.DefaultThreshold
	}
	if cfg.Settle <= 0 {
		cfg.Settle = swipe.DefaultSettle
	}
	if cfg.CellUnits <= 0 {
		cfg.CellUnits = 10
	}
	if cfg.ExitDistance <= 0 {
		cfg.ExitDistance = 60
	}

	logger := cfg.Logger
	if logger == nil {
		logger = otel.NewNullLogger()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	m := match.New(cfg.Clipboard)
	if cfg.CopiedFlash > 0 {
		m.Flash = cfg.CopiedFlash
	}

	a := App{
		cfg:     cfg,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: s,
		bar:     progress.New(progress.WithSolidFill(stampAcceptHex), progress.WithoutPercentage()),
		logger:  logger,
		match:   m,
		spring:  harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.8),
		loading: cfg.LoadRoster != nil,
	}
	a.queue = queue.New(nil)
	a.resolver = a.newResolver(a.queue)
	return a
}

func (a *App) newResolver(q *queue.Queue) *swipe.Resolver {
	logger := a.logger
	return swipe.New(q,
		swipe.WithThreshold(a.cfg.Threshold),
		swipe.WithSettle(a.cfg.Settle),
		swipe.WithPhaseHook(func(from, to swipe.Phase) {
			if otel.TraceEnabled() {
				logger.Emit(otel.Event{
					Level: otel.LevelDebug,
					Kind:  otel.KindPhase,
					Comp:  "swipe",
					Phase: to.String(),
					Msg:   from.String() + " -> " + to.String(),
				})
			}
		}),
	)
}

// Init starts the roster load.
func (a App) Init() tea.Cmd {
	if a.cfg.LoadRoster == nil {
		return nil
	}
	return tea.Batch(a.spinner.Tick, a.cfg.LoadRoster())
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		switch msg.(type) {
		case frameMsg, spinner.TickMsg:
		default:
			a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		return a.handleMouseMsg(msg)

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case RosterLoaded:
		return a.handleRoster(msg)

	case SettleMsg:
		return a.handleSettle(msg)

	case frameMsg:
		return a.handleFrame()

	case match.DismissedMsg:
		// The cursor already moved when the card settled.
		a.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindMatchDismiss, Comp: "match", Msg: msg.EventID})
		return a, nil

	case match.CopiedMsg:
		if msg.Err != nil {
			a.logger.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindMatchCopy, Comp: "match", Msg: msg.Handle, Err: msg.Err.Error()})
			logging.Warn("clipboard write failed", "err", msg.Err)
		} else {
			a.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindMatchCopy, Comp: "match", Msg: msg.Handle})
		}
	}

	// The modal also sees copy results and its flash timer.
	var cmd tea.Cmd
	a.match, cmd = a.match.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input. The match modal, when open,
// captures every key except ctrl+c.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.Shutdown()
		return a, tea.Quit
	}

	if a.match.Active() {
		var cmd tea.Cmd
		a.match, cmd = a.match.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.Shutdown()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Debug):
		a.debug = !a.debug
		return a, nil
	}

	if a.debug || a.loading {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Reload):
		if a.cfg.LoadRoster == nil {
			return a, nil
		}
		// Wait for the card to settle; its match must reach the modal.
		if _, pending := a.resolver.Pending(); pending {
			return a, nil
		}
		a.loading = true
		a.err = nil
		return a, tea.Batch(a.spinner.Tick, a.cfg.LoadRoster())

	case key.Matches(msg, a.keys.Restart):
		if !a.queue.Exhausted() {
			return a, nil
		}
		if a.resolver.Restart() {
			a.pos, a.vel, a.last = 0, 0, ""
			a.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindRestart, Comp: "swipe", Count: a.queue.Len()})
		}
		return a, nil

	case key.Matches(msg, a.keys.Skip):
		return a, a.decide(swipe.Reject)

	case key.Matches(msg, a.keys.Duo):
		return a, a.decide(swipe.Accept)
	}

	return a, nil
}

// handleMouseMsg turns left-button drags into resolver gestures.
// Columns are scaled by CellUnits into swipe distance units.
func (a App) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.match.Active() || a.loading || a.debug {
		return a, nil
	}
	x := float64(msg.X) * a.cfg.CellUnits

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return a, nil
		}
		if a.resolver.Begin(x) {
			a.vel = 0
			cur, _ := a.queue.Current()
			a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindDragStart, Comp: "swipe", Candidate: cur.ID})
		}

	case tea.MouseActionMotion:
		if a.resolver.Move(x) {
			a.pos = a.resolver.Gesture().Offset / a.cfg.CellUnits
		}

	case tea.MouseActionRelease:
		if a.resolver.Phase() != swipe.Dragging {
			return a, nil
		}
		cur, _ := a.queue.Current()
		offset := a.resolver.Gesture().Offset
		if t, ok := a.resolver.End(); ok {
			d, _ := a.resolver.Pending()
			return a, a.onDecided(t, d)
		}
		a.logger.Emit(otel.Event{
			Level:     otel.LevelDebug,
			Kind:      otel.KindDragCancel,
			Comp:      "swipe",
			Candidate: cur.ID,
			Extra:     map[string]any{"offset": offset},
		})
		return a, a.animate()
	}
	return a, nil
}

func (a *App) decide(d swipe.Decision) tea.Cmd {
	t, ok := a.resolver.Decide(d)
	if !ok {
		return nil
	}
	return a.onDecided(t, d)
}

// onDecided schedules the settle timer and starts the exit animation.
func (a *App) onDecided(t swipe.Ticket, d swipe.Decision) tea.Cmd {
	a.logger.Emit(otel.Event{
		Level:     otel.LevelInfo,
		Kind:      otel.KindDecision,
		Comp:      "swipe",
		Candidate: t.CandidateID,
		Decision:  d.String(),
		Token:     t.Token,
	})
	return tea.Batch(settleAfter(t), a.animate())
}

func settleAfter(t swipe.Ticket) tea.Cmd {
	return tea.Tick(t.After, func(time.Time) tea.Msg {
		return SettleMsg{Ticket: t}
	})
}

func (a App) handleSettle(msg SettleMsg) (tea.Model, tea.Cmd) {
	res, ok := a.resolver.Settle(msg.Ticket)
	if !ok {
		a.logger.Emit(otel.Event{
			Level:     otel.LevelDebug,
			Kind:      otel.KindStale,
			Comp:      "swipe",
			Candidate: msg.Ticket.CandidateID,
			Token:     msg.Ticket.Token,
		})
		return a, nil
	}

	a.pos, a.vel = 0, 0
	a.logger.Emit(otel.Event{
		Level:     otel.LevelInfo,
		Kind:      otel.KindSettle,
		Comp:      "swipe",
		Candidate: res.CandidateID,
		Decision:  res.Decision.String(),
		Token:     msg.Ticket.Token,
	})
	logging.Debug("card settled", "candidate", res.CandidateID, "decision", res.Decision)

	name := res.Candidate.SummonerName
	if res.Decision == swipe.Accept {
		a.last = "duo with " + name
	} else {
		a.last = "skipped " + name
	}

	if res.Match != nil {
		a.match = a.match.Show(*res.Match)
		a.logger.Emit(otel.Event{
			Level:     otel.LevelInfo,
			Kind:      otel.KindMatchShow,
			Comp:      "match",
			Candidate: res.CandidateID,
			Msg:       res.Match.ID,
		})
	}
	return a, nil
}

// handleRoster swaps in a new queue. The old resolver is closed so
// settle timers it issued are ignored when they fire. An open match modal
// stays up; only the user closes it.
func (a App) handleRoster(msg RosterLoaded) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.Err != nil {
		a.err = msg.Err
		a.logger.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindRosterError, Comp: "roster", Source: msg.Source, Err: msg.Err.Error()})
		logging.Error("roster load failed", "source", msg.Source, "err", msg.Err)
		return a, nil
	}

	a.err = nil
	a.resolver.Close()
	a.queue = queue.New(msg.Candidates)
	a.resolver = a.newResolver(a.queue)
	a.pos, a.vel, a.last = 0, 0, ""

	a.logger.Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindRosterLoad,
		Comp:   "roster",
		Source: msg.Source,
		Count:  len(msg.Candidates),
		Dur:    msg.Took,
	})
	logging.Info("roster loaded", "source", msg.Source, "count", len(msg.Candidates))
	return a, nil
}

// animate starts the frame loop unless one is already running.
func (a *App) animate() tea.Cmd {
	if a.animating {
		return nil
	}
	a.animating = true
	return frame()
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg { return frameMsg{} })
}

func (a App) handleFrame() (tea.Model, tea.Cmd) {
	// The pointer owns the card while dragging.
	if a.resolver.Phase() == swipe.Dragging {
		a.animating = false
		return a, nil
	}

	target := a.displayTarget()
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, target)
	if math.Abs(a.pos-target) < 0.05 && math.Abs(a.vel) < 0.05 {
		a.pos, a.vel = target, 0
		a.animating = false
		return a, nil
	}
	return a, frame()
}

// displayTarget is where the spring pulls the card: off-screen while
// settling, center otherwise.
func (a App) displayTarget() float64 {
	p := swipe.Present(a.resolver.Snapshot())
	return float64(p.Exit * a.cfg.ExitDistance)
}

// Shutdown closes the resolver and the match modal, invalidating every
// outstanding timer. Idempotent.
func (a *App) Shutdown() {
	a.resolver.Close()
	a.match = a.match.Teardown()
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	contentHeight := a.height - 1

	if a.debug {
		overlay := debugOverlay(a.cfg.Ring, a.resolver.Snapshot(), a.width, contentHeight)
		if overlay == "" {
			overlay = HelpStyle.Render("event buffer not attached")
		}
		return lipgloss.Place(a.width, contentHeight, lipgloss.Center, lipgloss.Center, overlay) +
			"\n" + debugStatusBar(a.width)
	}

	var body string
	if a.match.Active() {
		body = lipgloss.Place(a.width, contentHeight, lipgloss.Center, lipgloss.Center, a.match.View())
	} else {
		body = a.renderBody(contentHeight)
	}
	return body + "\n" + a.renderStatusBar()
}

func (a App) renderBody(height int) string {
	center := func(s string) string {
		return lipgloss.Place(a.width, height, lipgloss.Center, lipgloss.Center, s)
	}

	switch {
	case a.loading:
		return center(a.spinner.View() + " Loading summoners...")

	case a.err != nil:
		return center(lipgloss.JoinVertical(lipgloss.Center,
			ErrorStyle.Render("Couldn't load summoners"),
			StatusBarText.Render(a.err.Error()),
			HelpStyle.Render("R retry · q quit"),
		))

	case a.queue.Exhausted():
		return center(lipgloss.JoinVertical(lipgloss.Center,
			Title.Render("No more summoners"),
			StatusBarText.Render(fmt.Sprintf("You've seen all %d profiles.", a.queue.Len())),
			HelpStyle.Render("r start over · R reload"),
		))
	}

	c, _ := a.queue.Current()
	pres := swipe.Present(a.resolver.Snapshot())
	w := cardWidth(a.width)
	stage := lipgloss.JoinVertical(lipgloss.Center,
		renderCard(c, pres, a.bar, w),
		renderPeek(a.queue, w),
	)

	region := a.width
	var detail string
	if a.cfg.ShowDetail && a.width >= detailMinW {
		detail = renderDetail(c)
		region -= lipgloss.Width(detail)
	}
	placed := lipgloss.PlaceHorizontal(region, lipgloss.Left, placeCard(stage, region, a.pos))
	row := lipgloss.JoinHorizontal(lipgloss.Top, placed, detail)

	dots := lipgloss.PlaceHorizontal(a.width, lipgloss.Center, progressDots(a.queue))
	return lipgloss.Place(a.width, height, lipgloss.Left, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, dots, "", row))
}

func (a App) renderStatusBar() string {
	left := " " + a.last + " "
	if a.match.Active() {
		left = " It's a duo! "
	}
	hints := a.help.ShortHelpView(a.keys.ShortHelp())

	padding := a.width - lipgloss.Width(left) - lipgloss.Width(hints) - 2
	if padding < 0 {
		padding = 0
	}
	return StatusBar.Width(a.width).Render(left + strings.Repeat(" ", padding) + hints)
}

// Queue returns the current candidate queue (for testing).
func (a App) Queue() *queue.Queue { return a.queue }

// Resolver returns the current resolver.
func (a App) Resolver() *swipe.Resolver { return a.resolver }

// Match returns the match modal (for testing).
func (a App) Match() match.Model { return a.match }

// Offset returns the displayed card offset in columns (for testing).
func (a App) Offset() float64 { return a.pos }

// Loading reports whether a roster load is in flight.
func (a App) Loading() bool { return a.loading }

// Err returns the last roster error.
func (a App) Err() error { return a.err }
