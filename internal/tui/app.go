package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/altinukshini/enablehub/internal/catalog"
	"github.com/altinukshini/enablehub/internal/debounce"
	"github.com/altinukshini/enablehub/internal/palette"
	"github.com/altinukshini/enablehub/internal/search"
	"github.com/altinukshini/enablehub/internal/tui/confirm"
	"github.com/altinukshini/enablehub/internal/tui/pageview"
	"github.com/altinukshini/enablehub/internal/tui/paletteview"
	"github.com/altinukshini/enablehub/internal/ui"
)

const maxPaletteWidth = 80

type Options struct {
	Catalog *catalog.Catalog
	// Source describes where the catalog came from, for the header.
	Source   string
	Debounce time.Duration
	Clock    debounce.Clock
	// Keys is the process-wide key source. A private hub is used when nil.
	Keys      *palette.KeyHub
	Browser   Browser
	Clipboard func(string) error
	Logger    *slog.Logger
	// NewSessionID names each palette session in the log.
	NewSessionID func() string
}

type App struct {
	host       *host
	ctrl       *palette.Controller
	keys       *palette.KeyHub
	updates    chan struct{}
	newSession func() string
	source     string

	paletteView   paletteview.Model
	pageView      pageview.Model
	confirmDialog confirm.Model

	width     int
	height    int
	status    string
	statusErr bool
	showHelp  bool
}

func NewApp(opts Options) App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.NewSessionID == nil {
		opts.NewSessionID = uuid.NewString
	}
	if opts.Keys == nil {
		opts.Keys = palette.NewKeyHub()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = debounce.DefaultDelay
	}

	h := &host{
		router:    NewRouter("/"),
		catalog:   opts.Catalog,
		browser:   opts.Browser,
		clipboard: opts.Clipboard,
		logger:    opts.Logger,
	}

	// One slot is enough: the view always reads the latest state.
	updates := make(chan struct{}, 1)
	notify := func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	}

	p := palette.New(search.New(), opts.Catalog.Items, h.bindActions(opts.Catalog.Actions), h, h.selected)
	ctrl := palette.NewController(p, debounce.New(opts.Debounce, opts.Clock), palette.WithOnChange(notify))
	h.palette = ctrl
	ctrl.Mount(opts.Keys)

	a := App{
		host:        h,
		ctrl:        ctrl,
		keys:        opts.Keys,
		updates:     updates,
		newSession:  opts.NewSessionID,
		source:      opts.Source,
		paletteView: paletteview.New(),
		pageView:    pageview.New(),
		status:      "Press ctrl+k to search",
	}
	a.showPage(h.router.Current())
	return a
}

func (a App) Init() tea.Cmd {
	return waitForPaletteUpdate(a.updates)
}

// waitForPaletteUpdate turns debounced recomputes, which fire off the
// event loop, into messages.
func waitForPaletteUpdate(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return ui.PaletteUpdatedMsg{}
	}
}

// Palette exposes the controller, mainly for tests and embedding hosts.
func (a App) Palette() *palette.Controller {
	return a.ctrl
}

func (a App) Router() *Router {
	return a.host.router
}

// Close detaches the palette from the key source.
func (a App) Close() {
	a.ctrl.Unmount()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return &a, nil

	case ui.PaletteUpdatedMsg:
		return &a, waitForPaletteUpdate(a.updates)

	case ui.FocusInputMsg:
		if a.ctrl.IsOpen() && msg.Session == a.ctrl.Session() {
			return &a, a.paletteView.Focus()
		}
		return &a, nil

	case ui.NavigatedMsg:
		a.showPage(msg.Path)
		return &a, nil

	case ui.ShowHelpMsg:
		a.showHelp = true
		return &a, nil

	case ui.ConfirmOpenURLMsg:
		a.confirmDialog = confirm.New(msg.Title, fmt.Sprintf("Open %s in your browser?", msg.URL), "open-url", msg.URL)
		return &a, nil

	// Arrives after the dialog has deactivated itself.
	case confirm.ResultMsg:
		if msg.Confirmed && msg.Action == "open-url" {
			a.setStatus("Opening "+msg.Data+"...", false)
			return &a, a.host.openURL(msg.Data)
		}
		a.setStatus("Cancelled", false)
		return &a, nil

	case ui.ActionResultMsg:
		if msg.Err != nil {
			a.host.logger.Warn("action failed", "action", msg.Action, "error", msg.Err)
			a.setStatus(fmt.Sprintf("%s failed: %v", msg.Action, msg.Err), true)
			return &a, nil
		}
		switch msg.Action {
		case "copy-link":
			a.setStatus("Link copied: "+a.host.currentURL(), false)
		case "open-url":
			a.setStatus("Opened in browser", false)
		default:
			a.setStatus(msg.Action+" done", false)
		}
		return &a, nil

	case ui.StatusMsg:
		a.setStatus(msg.Text, false)
		return &a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return &a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return &a, tea.Quit
	}

	// The confirm dialog is modal.
	if a.confirmDialog.IsActive() {
		var cmd tea.Cmd
		a.confirmDialog, cmd = a.confirmDialog.Update(msg)
		return &a, cmd
	}

	// Help overlay dismisses on any key other than the palette shortcut.
	if a.showHelp {
		a.showHelp = false
		if !key.Matches(msg, ui.Keys.Palette) {
			return &a, nil
		}
	}

	// Every key goes to the key source before any focused component.
	wasOpen := a.ctrl.IsOpen()
	if a.keys.Dispatch(paletteKey(msg, wasOpen)) {
		cmds := []tea.Cmd{a.syncPalette(wasOpen)}
		cmds = append(cmds, a.host.drain()...)
		return &a, tea.Batch(cmds...)
	}

	if wasOpen {
		var cmd tea.Cmd
		a.paletteView, cmd = a.paletteView.Update(msg)
		a.ctrl.Input(a.paletteView.Value())
		return &a, cmd
	}

	switch {
	case key.Matches(msg, ui.Keys.Quit):
		return &a, tea.Quit
	case key.Matches(msg, ui.Keys.Help):
		a.showHelp = true
		return &a, nil
	case key.Matches(msg, ui.Keys.Back):
		a.host.back()
		return &a, tea.Batch(a.host.drain()...)
	}

	var cmd tea.Cmd
	a.pageView, cmd = a.pageView.Update(msg)
	return &a, cmd
}

// paletteKey maps a terminal key to a palette key. While the palette is
// closed only the open shortcut means anything to it.
func paletteKey(msg tea.KeyMsg, open bool) palette.Key {
	switch {
	case key.Matches(msg, ui.Keys.Palette):
		return palette.KeyOpen
	case !open:
		return palette.KeyNone
	case msg.Type == tea.KeyEsc:
		return palette.KeyEscape
	case key.Matches(msg, ui.Keys.PaletteUp):
		return palette.KeyUp
	case key.Matches(msg, ui.Keys.PaletteDown):
		return palette.KeyDown
	case key.Matches(msg, ui.Keys.Enter):
		return palette.KeyEnter
	}
	return palette.KeyNone
}

// syncPalette reacts to the dialog opening or closing during a key press.
// Focus moves into the input only after the dialog is on screen, so it is
// requested with a message tagged with the new session.
func (a *App) syncPalette(wasOpen bool) tea.Cmd {
	open := a.ctrl.IsOpen()
	switch {
	case !wasOpen && open:
		a.host.sessionID = a.newSession()
		a.paletteView.Reset()
		a.host.logger.Debug("palette opened", "session", a.host.sessionID)
		session := a.ctrl.Session()
		return func() tea.Msg { return ui.FocusInputMsg{Session: session} }
	case wasOpen && !open:
		a.paletteView.Reset()
		a.host.logger.Debug("palette closed", "session", a.host.sessionID)
	}
	return nil
}

func (a *App) showPage(path string) {
	if it, ok := a.host.catalog.Lookup(path); ok {
		a.pageView.SetPage(path, &it)
		return
	}
	a.pageView.SetPage(path, nil)
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

func (a *App) contentHeight() int {
	// header(1) + status(1) + pane border(2)
	contentH := a.height - 4
	if contentH < 1 {
		contentH = 1
	}
	return contentH
}

func (a *App) paletteWidth() int {
	w := a.width - 4
	if w > maxPaletteWidth {
		w = maxPaletteWidth
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (a *App) propagateSize() {
	contentH := a.contentHeight()
	a.pageView, _ = a.pageView.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.paletteView.SetSize(a.paletteWidth(), contentH-2)
}

// --- View ---

func (a App) View() string {
	cat := a.host.catalog
	header := RenderHeader(cat.Name, a.source, len(cat.Items), a.width)

	contentH := a.contentHeight()
	content := ui.StylePane.Width(a.width - 2).Height(contentH).Render(a.pageView.View())

	state := a.ctrl.State()
	switch {
	case a.showHelp:
		content = a.renderHelp()
	case a.confirmDialog.IsActive():
		content = lipgloss.Place(a.width, contentH+2, lipgloss.Center, lipgloss.Center, a.confirmDialog.View())
	case state.Open:
		box := ui.StylePaneFocused.Width(a.paletteWidth()).Render(a.paletteView.View(state))
		content = lipgloss.Place(a.width, contentH+2, lipgloss.Center, lipgloss.Top, box)
	}

	statusBar := RenderStatusBar(a.status, a.statusErr, a.contextHints(state), a.width)

	// Hard clamp: header(1) + statusbar(1) lines of chrome.
	maxContentLines := a.height - 2
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
			content = strings.Join(lines, "\n")
		}
	}

	return header + "\n" + content + "\n" + statusBar
}

func (a App) contextHints(state palette.State) string {
	switch {
	case a.showHelp:
		return "any key:close"
	case a.confirmDialog.IsActive():
		return "y/n:confirm  tab:toggle  esc:cancel"
	case state.Open:
		return "↑/↓:navigate  enter:select  esc:close"
	}
	hints := "ctrl+k:search  j/k:scroll  ?:help  q:quit"
	if a.host.router.CanGoBack() {
		hints = "esc:back  " + hints
	}
	return hints
}

func (a App) renderHelp() string {
	bold := lipgloss.NewStyle().Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + keyStyle.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Command palette") + "\n\n")
	b.WriteString(row("ctrl+k", "Open the palette"))
	b.WriteString(row("up / down", "Move selection (wraps around)"))
	b.WriteString(row("enter", "Run action or open result"))
	b.WriteString(row("esc", "Close the palette"))

	b.WriteString("\n" + bold.Render("  Pages") + "\n\n")
	b.WriteString(row("esc / bksp", "Back to previous page"))
	b.WriteString(row("j / k", "Scroll down / up"))
	b.WriteString(row("PgUp/PgDn", "Page up / page down"))
	b.WriteString(row("g / G", "Go to top / bottom"))
	b.WriteString(row("?", "This help"))
	b.WriteString(row("q", "Quit"))

	if actions := a.host.catalog.Actions; len(actions) > 0 {
		b.WriteString("\n" + bold.Render("  Quick actions") + "\n\n")
		for _, qa := range actions {
			k := qa.Shortcut
			if k == "" {
				k = "-"
			}
			b.WriteString(row(k, qa.Title))
		}
	}

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close") + "\n")

	style := ui.StylePaneFocused.Width(a.width - 2).Height(a.contentHeight())
	return style.Render(b.String())
}
