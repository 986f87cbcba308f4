package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered sections.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Centered places content in the middle of a width x height area.
func Centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 2).
		Render(content)
}

// SectionTitle renders a bold heading with a dim subtitle beneath it.
func SectionTitle(title, subtitle string, cw int) string {
	head := theme.Title.Width(cw).Render(title)
	if subtitle == "" {
		return head
	}
	return head + "\n" + theme.Subtitle.Width(cw).Render(subtitle)
}
