package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnpath/internal/ui/theme"
)

// ProgressBar displays a horizontal completion bar for a 0-100 percentage.
type ProgressBar struct {
	Label      string
	LabelWidth int // pad labels to this width so bars line up; 0 = no padding
	Percent    int
	Width      int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	const percentWidth = 6 // "  100%"

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	percent := min(max(p.Percent, 0), 100)
	filled := barWidth * percent / 100
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	if percent == 100 {
		style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	}
	result += style.Render(fmt.Sprintf("  %3d%%", percent))

	return result
}
