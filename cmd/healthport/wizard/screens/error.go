package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
)

var (
	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	errorHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)
)

// ErrorScreen displays an error that interrupted the visit
type ErrorScreen struct {
	base
	title string
	err   error
}

// NewErrorScreen creates a new error screen
func NewErrorScreen(title string, err error) *ErrorScreen {
	return &ErrorScreen{
		title: title,
		err:   err,
	}
}

// Init implements tea.Model
func (s *ErrorScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *ErrorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "enter", "q":
			s.finish(ActionBack)
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *ErrorScreen) View() string {
	var sb strings.Builder

	sb.WriteString(errorTitleStyle.Render("✗ " + s.title))
	sb.WriteString("\n\n")

	sb.WriteString(components.TitleStyle.Render("Error:"))
	sb.WriteString("\n")
	sb.WriteString("  ")
	sb.WriteString(errorMessageStyle.Render(s.err.Error()))
	sb.WriteString("\n\n")

	sb.WriteString(errorHintStyle.Render("Press Enter to go back"))

	return sb.String()
}

// Error returns the error
func (s *ErrorScreen) Error() error {
	return s.err
}
