package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizly/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for cards and lists so
// stacked sections line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 70 {
		w = 70
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(0, 1).
		Render(content)
}
