package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/enablehub/internal/model"
)

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleMatch = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FCD34D")).
			Background(lipgloss.Color("#78350F"))

	StyleSelected = lipgloss.NewStyle().Background(ColorHighlight).Bold(true)

	StyleSection = lipgloss.NewStyle().Bold(true).Foreground(ColorMuted)

	StyleShortcut = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB")).
			Background(ColorBorder).
			Padding(0, 1)
)

// CategoryInfo is how a category is presented.
type CategoryInfo struct {
	Label string
	Glyph string
	Style lipgloss.Style
}

var categories = map[model.Category]CategoryInfo{
	model.CategoryPage:     {Label: "Pages", Glyph: "◧", Style: StyleInfo},
	model.CategoryDocument: {Label: "Documents", Glyph: "▤", Style: StyleSuccess},
	model.CategoryTool:     {Label: "Tools", Glyph: "⚙", Style: StyleWarning},
	model.CategoryAction:   {Label: "Actions", Glyph: "➤", Style: lipgloss.NewStyle().Foreground(ColorPrimary)},
}

// Category returns the presentation for c. Unknown categories fall back
// to a muted generic entry.
func Category(c model.Category) CategoryInfo {
	if info, ok := categories[c]; ok {
		return info
	}
	return CategoryInfo{Label: "Other", Glyph: "•", Style: StyleMuted}
}

var glyphs = map[model.Icon]string{
	"home":        "⌂",
	"target":      "◎",
	"book":        "▥",
	"shield":      "⛨",
	"swords":      "⚔",
	"file":        "▤",
	"tag":         "$",
	"graduation":  "✎",
	"calculator":  "∑",
	"gauge":       "◔",
	"checklist":   "☑",
	"inbox":       "✉",
	"external":    "↗",
	"link":        "⧉",
	"arrow-left":  "←",
	"keyboard":    "⌨",
	"quit":        "⏻",
	"search":      "⌕",
	"arrow-right": "→",
}

// Glyph resolves an icon key, falling back to the category glyph.
func Glyph(icon model.Icon, c model.Category) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return Category(c).Glyph
}
