package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/enablehub/internal/ui"
)

func RenderHeader(title, source string, items int, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" enablehub | %s", title))

	right := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(fmt.Sprintf("%s · %d items ", source, items))

	return fill(left, right, ui.ColorHighlight, width)
}

// RenderStatusBar shows the last status on the left and key hints on the
// right. Errors are shown in the failure color.
func RenderStatusBar(status string, isErr bool, hints string, width int) string {
	statusStyle := ui.StyleMuted
	if isErr {
		statusStyle = ui.StyleFailure
	}
	left := statusStyle.Render("  " + status)
	help := ui.StyleMuted.Render(hints + " ")

	return fill(left, help, lipgloss.Color("#111827"), width)
}

func fill(left, right string, bg lipgloss.Color, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(bg).
		Width(width).
		Render(left + padding + right)
}
