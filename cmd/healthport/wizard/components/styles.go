package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/help"
	"github.com/healthport/kiosk/internal/vitals"
)

const minHelpWidth = 30

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)

	ButtonStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("33")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 2).
			Bold(true)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	// LargeTextStyle wraps the screen body when the patient asked for large text.
	LargeTextStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4)
)

// StatusStyle colours a status band: green when normal, amber when outside
// the normal range, red when critical.
func StatusStyle(s vitals.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch s {
	case vitals.StatusNone:
		return base.Foreground(lipgloss.Color("240"))
	case vitals.StatusNormal, vitals.OverallGood:
		return base.Foreground(lipgloss.Color("42"))
	case vitals.StatusCritical, vitals.StatusObese, vitals.OverallNeedsAttention:
		return base.Foreground(lipgloss.Color("196"))
	default:
		return base.Foreground(lipgloss.Color("214"))
	}
}

// RenderStatus renders s in its colour, or a dash when unmeasured.
func RenderStatus(s vitals.Status) string {
	if s == vitals.StatusNone {
		return StatusStyle(s).Render("-")
	}
	return StatusStyle(s).Render(s.String())
}

// HelpCard renders the F1 help for screen across the terminal width, one
// details line per bullet. It returns "" for screens without help.
func HelpCard(screen string, width int, large bool) string {
	text, ok := help.Texts[screen]
	if !ok {
		return ""
	}

	card := CardStyle.BorderForeground(lipgloss.Color("63")).Padding(1, 2)
	if large {
		card = card.Padding(2, 4)
	}
	if width > 0 {
		card = card.Width(max(width-4, minHelpWidth))
	}

	lines := []string{SelectedStyle.Render("? " + text.Title), "", ValueStyle.Render(text.Description), ""}
	for _, d := range strings.Split(text.Details, "\n") {
		lines = append(lines, LabelStyle.Render("• "+strings.TrimSpace(d)))
	}
	lines = append(lines, "", HintStyle.Render("F1: close help"))
	return card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
