package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/duo/internal/candidate"
	"github.com/abelbrown/duo/internal/otel"
	"github.com/abelbrown/duo/internal/swipe"
	"github.com/abelbrown/duo/internal/ui/match"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeClipboard struct {
	writes []string
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.writes = append(f.writes, text)
	return nil
}

func roster() []candidate.Candidate {
	return []candidate.Candidate{
		{ID: "p1", SummonerName: "Faker", TagLine: "KR1", MainRole: candidate.RoleMid, WinRate: 61},
		{ID: "p2", SummonerName: "Caps", TagLine: "EUW", MainRole: candidate.RoleMid, WinRate: 48},
		{ID: "p3", SummonerName: "Keria", TagLine: "KR1", MainRole: candidate.RoleSupport, WinRate: 55},
	}
}

// newTestApp returns a sized App with the roster loaded and a 1ms settle.
func newTestApp(t *testing.T) (App, *fakeClipboard) {
	t.Helper()
	clip := &fakeClipboard{}
	app := NewApp(AppConfig{
		Clipboard: clip,
		Settle:    time.Millisecond,
		Threshold: 80,
		CellUnits: 10,
	})
	app = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
	app = update(t, app, RosterLoaded{Candidates: roster(), Source: "test"})
	return app, clip
}

func update(t *testing.T, app App, msg tea.Msg) App {
	t.Helper()
	m, _ := app.Update(msg)
	return m.(App)
}

func updateCmd(t *testing.T, app App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := app.Update(msg)
	return m.(App), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and returns the messages it produces, flattening batches.
// Commands that take longer than 50ms (long timers) are dropped.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, drain(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func settleMsgs(msgs []tea.Msg) []SettleMsg {
	var out []SettleMsg
	for _, m := range msgs {
		if s, ok := m.(SettleMsg); ok {
			out = append(out, s)
		}
	}
	return out
}

// decideAndSettle presses k and delivers the resulting settle message.
func decideAndSettle(t *testing.T, app App, k string) (App, tea.Cmd) {
	t.Helper()
	app, cmd := updateCmd(t, app, keyMsg(k))
	settles := settleMsgs(drain(cmd))
	if len(settles) != 1 {
		t.Fatalf("key %q: expected one settle message, got %d", k, len(settles))
	}
	return updateCmd(t, app, settles[0])
}

func TestAppInitLoadsRoster(t *testing.T) {
	called := false
	app := NewApp(AppConfig{LoadRoster: func() tea.Cmd {
		called = true
		return func() tea.Msg { return RosterLoaded{Candidates: roster()} }
	}})

	if !app.Loading() {
		t.Error("app should start loading when a loader is configured")
	}
	if cmd := app.Init(); cmd == nil {
		t.Fatal("Init should return a command")
	}
	if !called {
		t.Error("Init should call LoadRoster")
	}
}

func TestAppInitNilLoader(t *testing.T) {
	app := NewApp(AppConfig{})
	if cmd := app.Init(); cmd != nil {
		t.Error("Init should return nil without a loader")
	}
	if app.Loading() {
		t.Error("no loader means not loading")
	}
}

func TestRosterError(t *testing.T) {
	app := NewApp(AppConfig{LoadRoster: func() tea.Cmd { return nil }})
	app = update(t, app, tea.WindowSizeMsg{Width: 80, Height: 24})
	app = update(t, app, RosterLoaded{Err: errors.New("connection refused")})

	if app.Loading() || app.Err() == nil {
		t.Fatal("error should end loading and be kept")
	}
	if !strings.Contains(app.View(), "connection refused") {
		t.Errorf("view should show the error:\n%s", app.View())
	}
}

func TestRejectAdvancesWithoutMatch(t *testing.T) {
	app, _ := newTestApp(t)

	app, _ = decideAndSettle(t, app, "left")
	if app.Queue().Index() != 1 {
		t.Errorf("index = %d, want 1", app.Queue().Index())
	}
	if app.Match().Active() {
		t.Error("reject must not open the match modal")
	}
	if app.Resolver().Phase() != swipe.Idle {
		t.Errorf("phase = %v, want idle", app.Resolver().Phase())
	}
}

func TestAcceptShowsMatch(t *testing.T) {
	app, _ := newTestApp(t)

	app, _ = decideAndSettle(t, app, "right")
	if !app.Match().Active() {
		t.Fatal("accept should open the match modal")
	}
	if got := app.Match().Event().Candidate.ID; got != "p1" {
		t.Errorf("match candidate = %q, want p1", got)
	}
	if app.Queue().Index() != 1 {
		t.Errorf("index = %d, want 1", app.Queue().Index())
	}
	if !strings.Contains(app.View(), "It's a duo!") {
		t.Error("view should render the modal")
	}
}

func TestDismissMatchDoesNotAdvanceAgain(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = decideAndSettle(t, app, "right")

	app, cmd := updateCmd(t, app, keyMsg("enter"))
	if app.Match().Active() {
		t.Fatal("enter should dismiss the modal")
	}
	for _, msg := range drain(cmd) {
		app = update(t, app, msg)
	}
	if app.Queue().Index() != 1 {
		t.Errorf("index = %d after dismiss, want 1", app.Queue().Index())
	}
	cur, _ := app.Queue().Current()
	if cur.ID != "p2" {
		t.Errorf("current = %q, want p2", cur.ID)
	}

	// A second dismiss is a no-op
	app = update(t, app, keyMsg("esc"))
	if app.Queue().Index() != 1 {
		t.Errorf("index = %d after second dismiss, want 1", app.Queue().Index())
	}
}

func TestModalCapturesKeys(t *testing.T) {
	app, clip := newTestApp(t)
	app, _ = decideAndSettle(t, app, "right")

	// Arrow keys must not decide the next card while the modal is up
	app, cmd := updateCmd(t, app, keyMsg("left"))
	if len(settleMsgs(drain(cmd))) != 0 {
		t.Error("keys should go to the modal, not the resolver")
	}
	if app.Resolver().Phase() != swipe.Idle {
		t.Errorf("phase = %v, want idle", app.Resolver().Phase())
	}

	app, cmd = updateCmd(t, app, keyMsg("c"))
	for _, msg := range drain(cmd) {
		app = update(t, app, msg)
	}
	if len(clip.writes) != 1 || clip.writes[0] != "Faker#KR1" {
		t.Errorf("clipboard = %v", clip.writes)
	}
	if !app.Match().Copied() {
		t.Error("copied flag should show")
	}
}

func TestInputLockedWhileSettling(t *testing.T) {
	app, _ := newTestApp(t)

	app, first := updateCmd(t, app, keyMsg("right"))
	app, second := updateCmd(t, app, keyMsg("left"))
	if len(settleMsgs(drain(second))) != 0 {
		t.Error("second decision during settle should be ignored")
	}
	if d, _ := app.Resolver().Pending(); d != swipe.Accept {
		t.Errorf("pending = %v, want duo", d)
	}

	settles := settleMsgs(drain(first))
	app = update(t, app, settles[0])
	// Delivering the same ticket again is stale
	app = update(t, app, settles[0])
	if app.Queue().Index() != 1 {
		t.Errorf("index = %d, want 1", app.Queue().Index())
	}
}

func TestMouseDragPastThresholdDecides(t *testing.T) {
	app, _ := newTestApp(t)

	app = update(t, app, tea.MouseMsg{X: 40, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if app.Resolver().Phase() != swipe.Dragging {
		t.Fatalf("press should start a drag, phase = %v", app.Resolver().Phase())
	}
	// 9 columns * 10 units = 90 > 80
	app = update(t, app, tea.MouseMsg{X: 49, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if app.Offset() != 9 {
		t.Errorf("displayed offset = %v, want 9 columns", app.Offset())
	}
	app, cmd := updateCmd(t, app, tea.MouseMsg{X: 49, Action: tea.MouseActionRelease})
	if app.Resolver().Phase() != swipe.Settling {
		t.Fatalf("release past threshold should settle, phase = %v", app.Resolver().Phase())
	}

	settles := settleMsgs(drain(cmd))
	if len(settles) != 1 {
		t.Fatalf("expected a settle message, got %d", len(settles))
	}
	app = update(t, app, settles[0])
	if !app.Match().Active() {
		t.Error("right drag should be an accept")
	}
}

func TestMouseDragShortCancels(t *testing.T) {
	app, _ := newTestApp(t)

	app = update(t, app, tea.MouseMsg{X: 40, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	// Exactly the threshold is not enough
	app = update(t, app, tea.MouseMsg{X: 32, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	app, cmd := updateCmd(t, app, tea.MouseMsg{X: 32, Action: tea.MouseActionRelease})

	if app.Resolver().Phase() != swipe.Idle {
		t.Errorf("phase = %v, want idle", app.Resolver().Phase())
	}
	if app.Queue().Index() != 0 {
		t.Errorf("cancelled drag moved the queue to %d", app.Queue().Index())
	}
	if len(settleMsgs(drain(cmd))) != 0 {
		t.Error("cancelled drag should not schedule a settle")
	}
}

func TestSnapBackAnimation(t *testing.T) {
	app, _ := newTestApp(t)
	app = update(t, app, tea.MouseMsg{X: 40, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	app = update(t, app, tea.MouseMsg{X: 45, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	app = update(t, app, tea.MouseMsg{X: 45, Action: tea.MouseActionRelease})

	for i := 0; i < 600 && app.Offset() != 0; i++ {
		app = update(t, app, frameMsg{})
	}
	if app.Offset() != 0 {
		t.Errorf("card should spring back to center, offset = %v", app.Offset())
	}
}

func TestExhaustedAndRestart(t *testing.T) {
	app, _ := newTestApp(t)
	for i := 0; i < 3; i++ {
		app, _ = decideAndSettle(t, app, "left")
	}
	if !app.Queue().Exhausted() {
		t.Fatal("queue should be exhausted")
	}
	if !strings.Contains(app.View(), "No more summoners") {
		t.Errorf("view should show exhausted state:\n%s", app.View())
	}

	// Decisions are ignored when nothing is left
	app, cmd := updateCmd(t, app, keyMsg("right"))
	if len(settleMsgs(drain(cmd))) != 0 {
		t.Error("no decision without a candidate")
	}

	app = update(t, app, keyMsg("r"))
	if app.Queue().Index() != 0 {
		t.Errorf("restart should rewind, index = %d", app.Queue().Index())
	}
}

func TestRestartIgnoredBeforeExhausted(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = decideAndSettle(t, app, "left")
	app = update(t, app, keyMsg("r"))
	if app.Queue().Index() != 1 {
		t.Errorf("r should only restart an exhausted queue, index = %d", app.Queue().Index())
	}
}

func TestReloadInvalidatesPendingSettle(t *testing.T) {
	app, _ := newTestApp(t)

	app, cmd := updateCmd(t, app, keyMsg("right"))
	settles := settleMsgs(drain(cmd))

	// A new roster arrives before the timer fires
	app = update(t, app, RosterLoaded{Candidates: roster()[1:], Source: "reload"})
	app = update(t, app, settles[0])

	if app.Queue().Index() != 0 {
		t.Errorf("stale settle advanced the new queue to %d", app.Queue().Index())
	}
	if app.Match().Active() {
		t.Error("stale settle must not show a match")
	}
}

func TestReloadRefusedWhileSettling(t *testing.T) {
	app, _ := newTestApp(t)
	var loads int
	app.cfg.LoadRoster = func() tea.Cmd {
		loads++
		return func() tea.Msg { return RosterLoaded{Candidates: roster(), Source: "reload"} }
	}

	app, cmd := updateCmd(t, app, keyMsg("right"))
	settles := settleMsgs(drain(cmd))

	app, reload := updateCmd(t, app, keyMsg("R"))
	if reload != nil || app.Loading() || loads != 0 {
		t.Fatal("R should be ignored while a card is settling")
	}

	app = update(t, app, settles[0])
	if !app.Match().Active() {
		t.Fatal("settle should show the match")
	}

	// The modal holds R; once closed, a reload goes ahead
	app = update(t, app, keyMsg("R"))
	if loads != 0 {
		t.Error("R should go to the modal while it is open")
	}
	app = update(t, app, keyMsg("enter"))
	app, reload = updateCmd(t, app, keyMsg("R"))
	if reload == nil || !app.Loading() || loads != 1 {
		t.Error("R should reload once the card has settled")
	}
}

func TestRosterLoadKeepsOpenMatch(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = decideAndSettle(t, app, "right")

	app = update(t, app, RosterLoaded{Candidates: roster(), Source: "reload"})
	if !app.Match().Active() {
		t.Fatal("a roster load must not close the match modal")
	}
	if got := app.Match().Event().Candidate.ID; got != "p1" {
		t.Errorf("match candidate = %q, want p1", got)
	}
	if app.Queue().Index() != 0 {
		t.Errorf("new queue index = %d, want 0", app.Queue().Index())
	}

	app, cmd := updateCmd(t, app, keyMsg("enter"))
	var dismissed bool
	for _, msg := range drain(cmd) {
		if _, ok := msg.(match.DismissedMsg); ok {
			dismissed = true
		}
	}
	if !dismissed || app.Match().Active() {
		t.Error("closing the modal should still emit DismissedMsg")
	}
}

func TestCtrlCQuitsWithMatchOpen(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = decideAndSettle(t, app, "right")

	app, cmd := updateCmd(t, app, keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c should quit even with the modal open")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !app.Resolver().Closed() || app.Match().Active() {
		t.Error("quit should close the resolver and the modal")
	}
}

func TestQuitClosesResolver(t *testing.T) {
	app, _ := newTestApp(t)
	app, first := updateCmd(t, app, keyMsg("right"))
	settles := settleMsgs(drain(first))

	app, cmd := updateCmd(t, app, keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !app.Resolver().Closed() {
		t.Error("quit should close the resolver")
	}

	app = update(t, app, settles[0])
	if app.Queue().Index() != 0 {
		t.Error("settle after quit must not advance")
	}
}

func TestEventsRecorded(t *testing.T) {
	ring := otel.NewRingBuffer(64)
	logger := otel.NewNullLogger()
	logger.SetRingBuffer(ring)

	app := NewApp(AppConfig{Logger: logger, Ring: ring, Settle: time.Millisecond})
	app = update(t, app, tea.WindowSizeMsg{Width: 100, Height: 30})
	app = update(t, app, RosterLoaded{Candidates: roster(), Source: "test"})
	app, _ = decideAndSettle(t, app, "right")
	logger.Close()

	stats := ring.Stats()
	for _, kind := range []otel.EventKind{otel.KindRosterLoad, otel.KindDecision, otel.KindSettle, otel.KindMatchShow} {
		if stats[kind] != 1 {
			t.Errorf("%s count = %d, want 1", kind, stats[kind])
		}
	}
}

func TestViewStates(t *testing.T) {
	app := NewApp(AppConfig{LoadRoster: func() tea.Cmd { return nil }})
	if app.View() != "Loading..." {
		t.Errorf("unsized view = %q", app.View())
	}

	app = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})
	if !strings.Contains(app.View(), "Loading summoners") {
		t.Error("loading view should say so")
	}

	app = update(t, app, RosterLoaded{Candidates: roster()})
	view := app.View()
	for _, want := range []string{"Faker", "#KR1", "1/3"} {
		if !strings.Contains(view, want) {
			t.Errorf("card view missing %q:\n%s", want, view)
		}
	}
}

func TestMatchDismissedMsgIsLoggedOnly(t *testing.T) {
	app, _ := newTestApp(t)
	app = update(t, app, match.DismissedMsg{EventID: "x"})
	if app.Queue().Index() != 0 {
		t.Error("DismissedMsg must never move the queue")
	}
}
