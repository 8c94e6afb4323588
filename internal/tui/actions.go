package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altinukshini/enablehub/internal/catalog"
	"github.com/altinukshini/enablehub/internal/model"
	"github.com/altinukshini/enablehub/internal/palette"
	"github.com/altinukshini/enablehub/internal/ui"
)

// Browser opens URLs outside the terminal.
type Browser interface {
	Browse(url string) error
}

// host is the side of the app that palette callbacks talk to. Callbacks run
// synchronously inside Update, so they only record follow-up commands; the
// app drains them once the key has been handled.
type host struct {
	router    *Router
	catalog   *catalog.Catalog
	palette   *palette.Controller
	browser   Browser
	clipboard func(string) error
	logger    *slog.Logger
	sessionID string
	pending   []tea.Cmd
}

func (h *host) queue(cmd tea.Cmd) {
	if cmd != nil {
		h.pending = append(h.pending, cmd)
	}
}

func (h *host) drain() []tea.Cmd {
	cmds := h.pending
	h.pending = nil
	return cmds
}

// Navigate implements palette.Navigator.
func (h *host) Navigate(path string) {
	h.router.Navigate(path)
	h.queue(navigated(h.router.Current()))
}

func (h *host) back() {
	if !h.router.Back() {
		h.queue(status("Already at the start"))
		return
	}
	h.queue(navigated(h.router.Current()))
}

// currentURL is the shareable link for the current route, or the bare
// route when the catalog has no base URL.
func (h *host) currentURL() string {
	if u := h.catalog.URL(h.router.Current()); u != "" {
		return u
	}
	return h.router.Current()
}

func (h *host) copyLink() {
	link := h.currentURL()
	write := h.clipboard
	h.queue(func() tea.Msg {
		if err := write(link); err != nil {
			return ui.ActionResultMsg{Action: "copy-link", Err: err}
		}
		return ui.ActionResultMsg{Action: "copy-link", Success: true}
	})
}

// openURL runs the browser. Callers show a confirmation first.
func (h *host) openURL(url string) tea.Cmd {
	b := h.browser
	return func() tea.Msg {
		if b == nil {
			return ui.ActionResultMsg{Action: "open-url", Err: fmt.Errorf("no browser configured")}
		}
		if err := b.Browse(url); err != nil {
			return ui.ActionResultMsg{Action: "open-url", Err: err}
		}
		return ui.ActionResultMsg{Action: "open-url", Success: true}
	}
}

// selected is the palette's onSelect hook. Any selection closes the dialog.
func (h *host) selected(e palette.Entry) {
	kind := "result"
	if e.Kind == palette.EntryAction {
		kind = "action"
	}
	h.logger.Info("palette selection",
		"session", h.sessionID,
		"kind", kind,
		"id", e.ID(),
		"title", e.Title(),
	)
	if e.Kind == palette.EntryResult && !e.Item.Navigable() {
		h.queue(status(e.Item.Title + " has no page to open"))
	}
	if h.palette != nil {
		h.palette.Close()
	}
}

// bindActions turns catalog action specs into palette quick actions.
func (h *host) bindActions(specs []catalog.ActionSpec) []model.QuickAction {
	actions := make([]model.QuickAction, 0, len(specs))
	for _, spec := range specs {
		qa := model.QuickAction{
			ID:          spec.ID,
			Title:       spec.Title,
			Description: spec.Description,
			Icon:        spec.Icon,
			Shortcut:    spec.Shortcut,
		}
		qa.Action = h.actionFunc(spec)
		actions = append(actions, qa)
	}
	return actions
}

func (h *host) actionFunc(spec catalog.ActionSpec) func() {
	switch spec.Kind {
	case catalog.ActionNavigate:
		target := spec.Target
		return func() { h.Navigate(target) }
	case catalog.ActionOpenURL:
		msg := ui.ConfirmOpenURLMsg{Title: spec.Title, URL: spec.Target}
		return func() { h.queue(func() tea.Msg { return msg }) }
	case catalog.ActionCopyLink:
		return h.copyLink
	case catalog.ActionBack:
		return h.back
	case catalog.ActionHelp:
		return func() { h.queue(func() tea.Msg { return ui.ShowHelpMsg{} }) }
	case catalog.ActionQuit:
		return func() { h.queue(tea.Quit) }
	}
	return nil
}

func navigated(path string) tea.Cmd {
	return func() tea.Msg { return ui.NavigatedMsg{Path: path} }
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return ui.StatusMsg{Text: text} }
}
