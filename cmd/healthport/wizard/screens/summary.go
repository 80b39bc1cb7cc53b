package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/session"
)

var (
	severityStyles = map[session.Severity]lipgloss.Style{
		session.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		session.SeverityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		session.SeverityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	summarySectionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true).
				MarginTop(1)
)

// NextStepChoices are the outcomes the patient can pick, in display order.
var NextStepChoices = []session.NextStep{
	session.NextStepMedication,
	session.NextStepConsultation,
	session.NextStepReferral,
}

var nextStepDescriptions = map[session.NextStep]string{
	session.NextStepMedication:   "Receive medication recommendations and prescription",
	session.NextStepConsultation: "Speak with a healthcare provider",
	session.NextStepReferral:     "Visit a nearby clinic for further evaluation",
}

// SummaryScreen presents the assessment and asks for the next step.
type SummaryScreen struct {
	base
	store *session.Store
	text  *i18n.Localizer
	form  *huh.Form
	next  session.NextStep
}

// NewSummaryScreen creates the summary, preselecting the assessed next step
// when it is one of the choices.
func NewSummaryScreen(scope Scope, store *session.Store, text *i18n.Localizer) *SummaryScreen {
	s := &SummaryScreen{
		base:  base{scope: scope},
		store: store,
		text:  text,
		next:  session.NextStepMedication,
	}
	current := store.Get().Diagnosis.NextStep
	for _, n := range NextStepChoices {
		if n == current {
			s.next = current
		}
	}

	options := make([]huh.Option[session.NextStep], 0, len(NextStepChoices))
	for _, n := range NextStepChoices {
		options = append(options, huh.NewOption(fmt.Sprintf("%s - %s", n.Label(), nextStepDescriptions[n]), n))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[session.NextStep]().
				Key("next_step").
				Title("What would you like to do next?").
				Options(options...).
				Value(&s.next),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *SummaryScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SummaryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		s.finish(ActionBack)
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted && !s.done {
		s.store.SetNextStep(s.next)
		s.finish(ActionNext)
	}
	return s, cmd
}

// View implements tea.Model
func (s *SummaryScreen) View() string {
	st := s.store.Get()
	d := st.Diagnosis

	sevStyle, ok := severityStyles[d.Severity]
	if !ok {
		sevStyle = components.ValueStyle
	}

	condition := d.Condition
	if condition == "" {
		condition = "No condition identified"
	}

	lines := []string{
		components.ValueStyle.Render(condition) + "  " + sevStyle.Render(d.Severity.Label()),
	}
	if st.Conversation.Summary != "" {
		lines = append(lines, "", st.Conversation.Summary)
	}
	if len(st.Conversation.Recommendations) > 0 {
		lines = append(lines, summarySectionStyle.Render("Recommendations"))
		for i, r := range st.Conversation.Recommendations {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, r))
		}
	}
	if len(st.Symptoms.PainAreas) > 0 {
		names := make([]string, 0, len(st.Symptoms.PainAreas))
		for _, id := range st.Symptoms.PainAreas {
			names = append(names, AreaName(id))
		}
		lines = append(lines, summarySectionStyle.Render("Pain areas"), "  "+strings.Join(names, ", "))
	}

	lines = append(lines, "", s.form.View(), "",
		components.Footer("Enter: "+s.text.T("ActionContinue"), "↑/↓: Choose", "Esc: "+s.text.T("ActionBack")))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
