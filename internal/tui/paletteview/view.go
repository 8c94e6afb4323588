package paletteview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/altinukshini/enablehub/internal/model"
	"github.com/altinukshini/enablehub/internal/palette"
	"github.com/altinukshini/enablehub/internal/ui"
)

const (
	minWidth   = 30
	chromeRows = 4 // input, blank line, footer hint, blank line
)

// Model draws the palette dialog. It owns only the text box; everything
// else comes from the controller state passed to View.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search pages, documents, tools..."
	ti.Prompt = "⌕ "
	ti.CharLimit = 256

	return Model{input: ti}
}

func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

func (m Model) Focused() bool {
	return m.input.Focused()
}

// Reset clears the text box for a fresh session.
func (m *Model) Reset() {
	m.input.Reset()
	m.input.Blur()
}

func (m Model) Value() string {
	return m.input.Value()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

type line struct {
	text   string
	cursor bool
}

func (m Model) View(s palette.State) string {
	if !s.Open {
		return ""
	}

	width := m.width
	if width < minWidth {
		width = minWidth
	}

	lines := m.renderEntries(s, width)

	var b strings.Builder
	b.WriteString(" " + m.input.View() + "\n\n")

	for _, l := range window(lines, m.height-chromeRows) {
		b.WriteString(l.text + "\n")
	}

	hint := "↑/↓ navigate  enter select  esc close"
	if s.Pending {
		hint = "searching...  " + hint
	}
	b.WriteString("\n" + ui.StyleMuted.Render(" "+hint))
	return b.String()
}

func (m Model) renderEntries(s palette.State, width int) []line {
	var lines []line
	idx := 0

	if len(s.Actions) > 0 {
		heading := "Actions"
		if !s.Searching() {
			heading = "Suggestions"
		}
		lines = append(lines, line{text: " " + ui.StyleSection.Render(heading)})
		for _, a := range s.Actions {
			lines = append(lines, line{
				text:   renderAction(a, s.Query, idx == s.Cursor, s.Pending, width),
				cursor: idx == s.Cursor,
			})
			idx++
		}
	}

	var current model.Category
	for i, it := range s.Results {
		if i == 0 || it.Category != current {
			current = it.Category
			info := ui.Category(current)
			if len(lines) > 0 {
				lines = append(lines, line{})
			}
			lines = append(lines, line{text: " " + info.Style.Bold(true).Render(info.Glyph+" "+info.Label)})
		}
		lines = append(lines, line{
			text:   renderItem(it, s.Query, idx == s.Cursor, s.Pending, width),
			cursor: idx == s.Cursor,
		})
		idx++
	}

	if idx == 0 && s.Searching() {
		lines = append(lines, line{text: ui.StyleMuted.Render(fmt.Sprintf("  No results for %q", s.Query))})
	}
	return lines
}

func renderAction(a model.QuickAction, query string, selected, stale bool, width int) string {
	shortcut := ""
	if a.Shortcut != "" {
		shortcut = ui.StyleShortcut.Render(a.Shortcut)
	}
	return renderRow(ui.Glyph(a.Icon, model.CategoryAction), a.Title, a.Description, shortcut, query, selected, stale, width)
}

func renderItem(it model.SearchableItem, query string, selected, stale bool, width int) string {
	return renderRow(ui.Glyph(it.Icon, it.Category), it.Title, it.Description, "", query, selected, stale, width)
}

// renderRow draws one entry. Stale rows belong to the previous query while a
// new one is still debouncing, so they are dimmed and not highlighted.
func renderRow(glyph, title, desc, suffix, query string, selected, stale bool, width int) string {
	marker := "  "
	if selected {
		marker = "> "
	}

	// Leave room for the marker, glyph, separators and suffix.
	avail := width - 6 - lipgloss.Width(suffix)
	if avail < 10 {
		avail = 10
	}
	title = runewidth.Truncate(title, avail, "…")
	rest := avail - runewidth.StringWidth(title) - 2
	if rest > 3 && desc != "" {
		desc = runewidth.Truncate(desc, rest, "…")
	} else {
		desc = ""
	}

	if stale {
		title = ui.StyleMuted.Render(title)
	} else {
		title = ui.Highlight(title, query, ui.StyleMatch)
	}
	row := marker + glyph + " " + title
	if desc != "" {
		row += "  " + ui.StyleMuted.Render(desc)
	}
	if suffix != "" {
		gap := width - lipgloss.Width(row) - lipgloss.Width(suffix) - 1
		if gap < 1 {
			gap = 1
		}
		row += strings.Repeat(" ", gap) + suffix
	}
	if selected {
		row = ui.StyleSelected.Render(row)
	}
	return row
}

// window returns at most height lines, scrolled so the cursor line stays
// visible.
func window(lines []line, height int) []line {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	cursor := 0
	for i, l := range lines {
		if l.cursor {
			cursor = i
			break
		}
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	return lines[start : start+height]
}
