package pageview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/enablehub/internal/model"
	"github.com/altinukshini/enablehub/internal/ui"
)

const NotFound = "Page not found"

// Model shows the routed page in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	item     *model.SearchableItem
	path     string
	width    int
	height   int
	ready    bool
}

func New() Model {
	return Model{}
}

// SetPage shows item at path. A nil item renders the not-found page.
func (m *Model) SetPage(path string, item *model.SearchableItem) {
	m.path = path
	m.item = item
	if m.ready {
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()
	}
}

func (m Model) Path() string {
	return m.path
}

func (m Model) Item() *model.SearchableItem {
	return m.item
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height
		}
		m.viewport.SetContent(m.render())
		return m, nil

	case tea.KeyMsg:
		if !m.ready {
			return m, nil
		}
		switch {
		case key.Matches(msg, ui.Keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, ui.Keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) render() string {
	if m.item == nil {
		return "\n  " + ui.StyleFailure.Bold(true).Render(NotFound) + "\n\n  " +
			ui.StyleMuted.Render(fmt.Sprintf("Nothing lives at %s. Press ctrl+k to search.", m.path))
	}

	it := m.item
	info := ui.Category(it.Category)
	wrap := lipgloss.NewStyle().Width(max(m.width-4, 20))

	var b strings.Builder
	b.WriteString("\n  " + lipgloss.NewStyle().Bold(true).Render(ui.Glyph(it.Icon, it.Category)+" "+it.Title) + "\n")
	b.WriteString("  " + info.Style.Render(info.Label) + ui.StyleMuted.Render("  "+m.path) + "\n\n")
	if it.Description != "" {
		b.WriteString(indent(wrap.Render(it.Description)) + "\n\n")
	}
	if body := strings.TrimSpace(it.Body); body != "" {
		b.WriteString(indent(wrap.Render(body)) + "\n\n")
	}
	if len(it.Keywords) > 0 {
		b.WriteString("  " + ui.StyleMuted.Render("Keywords: "+strings.Join(it.Keywords, ", ")) + "\n")
	}
	return b.String()
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return m.viewport.View()
}

// Content returns the unscrolled page text.
func (m Model) Content() string {
	return m.render()
}
