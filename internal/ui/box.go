package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderTitledBox renders content in a box with the title embedded in the top
// border: ┌─── Title ───┐. Focused boxes use BorderFocus and FocusBg.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	inner := max(0, width-2)
	title = truncate(title, max(0, inner-4))
	titleWidth := lipgloss.Width(title) + 2
	left := max(0, (inner-titleWidth)/2)
	right := max(0, inner-titleWidth-left)

	top := bg.Render("┌"+strings.Repeat("─", left), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", right)+"┐", borderStyle)
	bottom := bg.Render("└"+strings.Repeat("─", inner)+"┘", borderStyle)

	fill := lipgloss.NewStyle().Width(inner).MaxWidth(inner).Background(lipgloss.Color(bgColor))
	lines := strings.Split(content, "\n")
	rows := max(0, height-2)
	out := make([]string, 0, rows+2)
	out = append(out, top)
	for i := range rows {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		out = append(out, bg.Render("│", borderStyle)+fill.Render(line)+bg.Render("│", borderStyle))
	}
	out = append(out, bottom)
	return strings.Join(out, "\n")
}
