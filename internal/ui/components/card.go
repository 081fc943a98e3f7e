package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/privcheck/internal/ui/theme"
)

// ContentWidth returns the uniform inner width for boxed sections, so
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Card wraps content in a rounded-border box at the given content width.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw).
		Render(content)
}

// Centered places a block in the middle of the content area.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}
