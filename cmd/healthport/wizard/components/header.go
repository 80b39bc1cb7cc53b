package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	brandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("63")).
			Padding(0, 1).
			Bold(true)

	stepCounterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	stepDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	stepPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Header renders the kiosk banner, the step counter and one dot per step.
func Header(brand, counter string, index, total int) string {
	var dots strings.Builder
	for i := 0; i < total; i++ {
		if i <= index {
			dots.WriteString(stepDoneStyle.Render("●"))
		} else {
			dots.WriteString(stepPendingStyle.Render("○"))
		}
	}

	top := lipgloss.JoinHorizontal(lipgloss.Center,
		brandStyle.Render(brand),
		"  ",
		stepCounterStyle.Render(counter),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, dots.String())
}

// Footer renders key hints separated by pipes.
func Footer(hints ...string) string {
	return HintStyle.Render(strings.Join(hints, " | "))
}
