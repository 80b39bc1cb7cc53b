package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63"))

	progressBarEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	progressPercentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true)
)

// ProgressBar renders a bar of width cells filled to percent.
func ProgressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	bar := progressBarStyle.Render("[" + strings.Repeat("█", filled))
	bar += progressBarEmptyStyle.Render(strings.Repeat("░", empty) + "]")
	return bar
}

// ProgressLine is a bar followed by its percentage.
func ProgressLine(percent float64, width int) string {
	return ProgressBar(percent, width) + " " + progressPercentStyle.Render(fmt.Sprintf("%d%%", int(percent)))
}

// BarWidth picks a bar width for the terminal width.
func BarWidth(termWidth int) int {
	barWidth := 40
	if termWidth > 60 {
		barWidth = termWidth / 2
		if barWidth > 60 {
			barWidth = 60
		}
	}
	return barWidth
}
