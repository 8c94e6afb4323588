package tui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/enablehub/internal/catalog"
	"github.com/altinukshini/enablehub/internal/debounce"
	"github.com/altinukshini/enablehub/internal/tui/confirm"
	"github.com/altinukshini/enablehub/internal/ui"
)

type fakeBrowser struct {
	urls []string
	err  error
}

func (b *fakeBrowser) Browse(url string) error {
	b.urls = append(b.urls, url)
	return b.err
}

type testApp struct {
	app     App
	clock   *debounce.ManualClock
	browser *fakeBrowser
	copied  []string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	ta := &testApp{
		clock:   debounce.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		browser: &fakeBrowser{},
	}
	ta.app = NewApp(Options{
		Catalog:      cat,
		Source:       "built-in",
		Clock:        ta.clock,
		Browser:      ta.browser,
		Clipboard:    func(s string) error { ta.copied = append(ta.copied, s); return nil },
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		NewSessionID: func() string { return "session-test" },
	})
	t.Cleanup(ta.app.Close)
	ta.update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return ta
}

func (ta *testApp) update(msg tea.Msg) tea.Cmd {
	m, cmd := ta.app.Update(msg)
	ta.app = *m.(*App)
	return cmd
}

// run executes cmd and feeds its message back into the app. Only use it
// for commands known not to sleep (focus, navigation, actions).
func (ta *testApp) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg := cmd()
	ta.update(msg)
	return msg
}

func (ta *testApp) openPalette(t *testing.T) {
	t.Helper()
	cmd := ta.update(tea.KeyMsg{Type: tea.KeyCtrlK})
	if !ta.app.Palette().IsOpen() {
		t.Fatal("ctrl+k should open the palette")
	}
	msg := ta.run(t, cmd)
	if _, ok := msg.(ui.FocusInputMsg); !ok {
		t.Fatalf("expected FocusInputMsg after opening, got %T", msg)
	}
	if !ta.app.paletteView.Focused() {
		t.Fatal("palette input should be focused after mount")
	}
}

func (ta *testApp) typeText(s string) {
	for _, r := range s {
		ta.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestCtrlKOpensPaletteWithSuggestions(t *testing.T) {
	ta := newTestApp(t)
	ta.openPalette(t)

	state := ta.app.Palette().State()
	if len(state.Actions) != 6 {
		t.Errorf("suggestions = %d, want all 6 quick actions", len(state.Actions))
	}
	if len(state.Results) != 0 {
		t.Errorf("results = %d, want 0 for empty query", len(state.Results))
	}

	view := ta.app.View()
	if !strings.Contains(view, "Suggestions") {
		t.Error("empty palette should show the Suggestions heading")
	}
	if !strings.Contains(view, "Calculate ROI") {
		t.Error("palette should list quick actions")
	}
}

func TestTypingIsDebounced(t *testing.T) {
	ta := newTestApp(t)
	ta.openPalette(t)

	ta.typeText("r")
	ta.clock.Advance(50 * time.Millisecond)
	ta.typeText("o")
	ta.clock.Advance(50 * time.Millisecond)
	ta.typeText("i")

	state := ta.app.Palette().State()
	if state.RawQuery != "roi" {
		t.Fatalf("RawQuery = %q, want %q", state.RawQuery, "roi")
	}
	if state.Query != "" {
		t.Fatalf("Query = %q before the pause, want empty", state.Query)
	}

	ta.clock.Advance(149 * time.Millisecond)
	if got := ta.app.Palette().DebouncedQuery(); got != "" {
		t.Fatalf("Query = %q 149ms after last key, want empty", got)
	}

	ta.clock.Advance(time.Millisecond)
	state = ta.app.Palette().State()
	if state.Query != "roi" {
		t.Fatalf("Query = %q after the pause, want %q", state.Query, "roi")
	}
	if len(state.Results) != 1 || state.Results[0].Title != "ROI Calculator" {
		t.Fatalf("results = %+v, want only ROI Calculator", state.Results)
	}

	// The recompute happened off the event loop; the app is told through
	// the update channel.
	msg := waitForPaletteUpdate(ta.app.updates)()
	if _, ok := msg.(ui.PaletteUpdatedMsg); !ok {
		t.Fatalf("expected PaletteUpdatedMsg, got %T", msg)
	}
	if cmd := ta.update(msg); cmd == nil {
		t.Error("PaletteUpdatedMsg should re-arm the update listener")
	}

	view := ta.app.View()
	if !strings.Contains(view, "Tools") {
		t.Error("results should be grouped under a category header")
	}
}

func TestEnterNavigatesAndClosesPalette(t *testing.T) {
	ta := newTestApp(t)
	ta.openPalette(t)
	ta.typeText("roi")
	ta.clock.Advance(debounce.DefaultDelay)

	cmd := ta.update(tea.KeyMsg{Type: tea.KeyEnter})
	if ta.app.Palette().IsOpen() {
		t.Error("palette should close after a selection")
	}
	if got := ta.app.Router().Current(); got != "/tools/roi" {
		t.Fatalf("route = %q, want /tools/roi", got)
	}

	msg := ta.run(t, cmd)
	if nav, ok := msg.(ui.NavigatedMsg); !ok || nav.Path != "/tools/roi" {
		t.Fatalf("expected NavigatedMsg for /tools/roi, got %#v", msg)
	}
	if !strings.Contains(ta.app.pageView.Content(), "ROI Calculator") {
		t.Error("page view should show the ROI Calculator page")
	}

	// Back on the page, esc returns to the previous route.
	ta.run(t, ta.update(tea.KeyMsg{Type: tea.KeyEsc}))
	if got := ta.app.Router().Current(); got != "/" {
		t.Errorf("route after back = %q, want /", got)
	}
}

func TestEscapeDropsPendingQuery(t *testing.T) {
	ta := newTestApp(t)
	ta.openPalette(t)
	ta.typeText("dash")

	ta.update(tea.KeyMsg{Type: tea.KeyEsc})
	if ta.app.Palette().IsOpen() {
		t.Fatal("esc should close the palette")
	}
	ta.clock.Advance(time.Second)

	state := ta.app.Palette().State()
	if state.Query != "" || state.RawQuery != "" {
		t.Errorf("queries after close = %q/%q, want empty", state.RawQuery, state.Query)
	}
	if ta.app.paletteView.Value() != "" {
		t.Errorf("input after close = %q, want empty", ta.app.paletteView.Value())
	}

	select {
	case <-ta.app.updates:
		t.Error("a closed palette should not recompute")
	default:
	}
}

func TestStaleFocusIsIgnored(t *testing.T) {
	ta := newTestApp(t)

	cmd := ta.update(tea.KeyMsg{Type: tea.KeyCtrlK})
	stale := cmd()
	ta.update(tea.KeyMsg{Type: tea.KeyEsc})
	ta.update(stale)

	if ta.app.paletteView.Focused() {
		t.Error("focus from a closed session should be ignored")
	}
}

func TestTypedLettersDoNotTriggerShortcuts(t *testing.T) {
	ta := newTestApp(t)
	ta.openPalette(t)
	ta.typeText("q?j")

	if !ta.app.Palette().IsOpen() {
		t.Fatal("typing should not close the palette")
	}
	if got := ta.app.Palette().RawQuery(); got != "q?j" {
		t.Errorf("RawQuery = %q, want %q", got, "q?j")
	}
	if ta.app.showHelp {
		t.Error("? inside the palette should be typed, not open help")
	}
}

func TestOpenURLAsksFirst(t *testing.T) {
	ta := newTestApp(t)
	ta.openPalette(t)

	// Suggestions: calculate-roi, view-battle-cards, open-pricing-sheet, ...
	ta.update(tea.KeyMsg{Type: tea.KeyDown})
	ta.update(tea.KeyMsg{Type: tea.KeyDown})
	cmd := ta.update(tea.KeyMsg{Type: tea.KeyEnter})

	msg := ta.run(t, cmd)
	if _, ok := msg.(ui.ConfirmOpenURLMsg); !ok {
		t.Fatalf("expected ConfirmOpenURLMsg, got %T", msg)
	}
	if !ta.app.confirmDialog.IsActive() {
		t.Fatal("confirm dialog should be shown before opening a browser")
	}
	if len(ta.browser.urls) != 0 {
		t.Fatal("browser opened before confirmation")
	}

	res := ta.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})()
	if r, ok := res.(confirm.ResultMsg); !ok || !r.Confirmed {
		t.Fatalf("expected confirmed ResultMsg, got %#v", res)
	}
	ta.run(t, ta.update(res))

	if len(ta.browser.urls) != 1 || ta.browser.urls[0] != "https://enablement.example.com/docs/pricing" {
		t.Errorf("browser urls = %v", ta.browser.urls)
	}
	if ta.app.statusErr {
		t.Errorf("unexpected error status %q", ta.app.status)
	}
}

func TestOpenURLDeclined(t *testing.T) {
	ta := newTestApp(t)
	ta.update(ui.ConfirmOpenURLMsg{Title: "Pricing", URL: "https://example.com"})

	res := ta.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})()
	if cmd := ta.update(res); cmd != nil {
		t.Error("declining should not run anything")
	}
	if len(ta.browser.urls) != 0 {
		t.Errorf("browser opened after decline: %v", ta.browser.urls)
	}
}

func TestBrowserErrorShowsInStatus(t *testing.T) {
	ta := newTestApp(t)
	ta.browser.err = errors.New("no display")

	ta.update(ui.ActionResultMsg{Action: "open-url", Err: ta.browser.err})
	if !ta.app.statusErr || !strings.Contains(ta.app.status, "no display") {
		t.Errorf("status = %q (err=%v), want the browser error", ta.app.status, ta.app.statusErr)
	}
}

func TestCopyLinkAction(t *testing.T) {
	ta := newTestApp(t)
	ta.update(ui.NavigatedMsg{Path: "/battle-cards"})
	ta.app.Router().Navigate("/battle-cards")

	ta.openPalette(t)
	for i := 0; i < 3; i++ {
		ta.update(tea.KeyMsg{Type: tea.KeyDown})
	}
	ta.run(t, ta.update(tea.KeyMsg{Type: tea.KeyEnter}))

	if len(ta.copied) != 1 || ta.copied[0] != "https://enablement.example.com/battle-cards" {
		t.Errorf("copied = %v", ta.copied)
	}
	if !strings.Contains(ta.app.status, "Link copied") {
		t.Errorf("status = %q", ta.app.status)
	}
}

func TestCursorWrapsToLastAction(t *testing.T) {
	ta := newTestApp(t)
	ta.openPalette(t)

	ta.update(tea.KeyMsg{Type: tea.KeyUp})
	if got := ta.app.Palette().State().Cursor; got != 5 {
		t.Errorf("cursor after up from 0 = %d, want 5", got)
	}
	ta.run(t, ta.update(tea.KeyMsg{Type: tea.KeyEnter}))
	if !ta.app.showHelp {
		t.Error("show-help action should open the help overlay")
	}
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	ta := newTestApp(t)
	ta.update(ui.NavigatedMsg{Path: "/nowhere"})

	if !strings.Contains(ta.app.pageView.Content(), "Page not found") {
		t.Error("unknown route should render the not-found page")
	}
}

func TestHelpOverlay(t *testing.T) {
	ta := newTestApp(t)
	ta.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !ta.app.showHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(ta.app.View(), "Command palette") {
		t.Error("help should describe the palette")
	}

	ta.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if ta.app.showHelp {
		t.Error("any key should close help")
	}
}

func TestQuitKey(t *testing.T) {
	ta := newTestApp(t)
	cmd := ta.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce tea.QuitMsg")
	}
}

func TestItemWithoutPageKeepsRoute(t *testing.T) {
	ta := newTestApp(t)
	ta.openPalette(t)
	ta.typeText("deal review")
	ta.clock.Advance(debounce.DefaultDelay)

	state := ta.app.Palette().State()
	if len(state.Actions) != 0 || len(state.Results) != 1 {
		t.Fatalf("actions=%d results=%d, want 0 and 1", len(state.Actions), len(state.Results))
	}

	msg := ta.run(t, ta.update(tea.KeyMsg{Type: tea.KeyEnter}))
	if _, ok := msg.(ui.StatusMsg); !ok {
		t.Fatalf("expected StatusMsg, got %T", msg)
	}
	if ta.app.Router().Current() != "/" {
		t.Errorf("route = %q, want unchanged /", ta.app.Router().Current())
	}
	if ta.app.Palette().IsOpen() {
		t.Error("palette should close after selection")
	}
}

func TestRouterHistory(t *testing.T) {
	r := NewRouter("")
	if r.Current() != "/" {
		t.Fatalf("Current() = %q, want /", r.Current())
	}
	r.Navigate("/docs")
	r.Navigate("/docs")
	r.Navigate("/tools/roi")
	if !r.Back() || r.Current() != "/docs" {
		t.Errorf("after back Current() = %q, want /docs", r.Current())
	}
	if !r.Back() || r.Current() != "/" {
		t.Errorf("after second back Current() = %q, want /", r.Current())
	}
	if r.Back() {
		t.Error("Back() at start should report false")
	}
}
