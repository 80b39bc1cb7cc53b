package screens

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/report"
)

const (
	// ConsultationWait is how long the patient waits for a doctor.
	ConsultationWait = 60 * time.Second
	// DispenseDuration is how long the dispenser runs.
	DispenseDuration = 2 * time.Second
)

type waitTickMsg struct {
	scoped
}

type dispensedMsg struct {
	scoped
}

var toggleOff = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

// ConsultationScreen queues the patient for a video call with a doctor.
type ConsultationScreen struct {
	base
	text      *i18n.Localizer
	remaining time.Duration
	connected bool
	micOn     bool
	videoOn   bool
}

// NewConsultationScreen creates the screen with the full wait ahead.
func NewConsultationScreen(scope Scope, text *i18n.Localizer) *ConsultationScreen {
	return &ConsultationScreen{
		base:      base{scope: scope},
		text:      text,
		remaining: ConsultationWait,
		micOn:     true,
		videoOn:   true,
	}
}

// Init implements tea.Model
func (s *ConsultationScreen) Init() tea.Cmd {
	return after(time.Second, waitTickMsg{scoped: s.tag()})
}

// Update implements tea.Model
func (s *ConsultationScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	switch msg := msg.(type) {
	case waitTickMsg:
		if s.connected {
			return s, nil
		}
		s.remaining -= time.Second
		if s.remaining <= 0 {
			s.remaining = 0
			s.connected = true
			return s, nil
		}
		return s, after(time.Second, waitTickMsg{scoped: s.tag()})

	case tea.KeyMsg:
		switch msg.String() {
		case "m":
			s.micOn = !s.micOn
		case "v":
			s.videoOn = !s.videoOn
		case "enter":
			if s.connected {
				s.finish(ActionNext)
			}
		case "esc":
			s.finish(ActionBack)
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *ConsultationScreen) View() string {
	var body string
	if s.connected {
		body = lipgloss.JoinVertical(lipgloss.Left,
			components.SuccessStyle.Render("● Connected"),
			"",
			components.CardStyle.Render(components.ValueStyle.Render(report.ConsultingDoctor)+"\n"+components.LabelStyle.Render("General Practitioner")),
		)
	} else {
		secs := int(s.remaining.Seconds())
		body = lipgloss.JoinVertical(lipgloss.Left,
			"Waiting for a doctor to join...",
			"",
			components.ValueStyle.Render(fmt.Sprintf("Estimated wait %d:%02d", secs/60, secs%60)),
			components.ProgressBar(100-s.remaining.Seconds()*100/ConsultationWait.Seconds(), components.BarWidth(s.width)),
		)
	}

	controls := fmt.Sprintf("Microphone: %s   Video: %s", onOff(s.micOn), onOff(s.videoOn))

	hints := []string{"m: Microphone", "v: Video", "Esc: " + s.text.T("ActionBack")}
	if s.connected {
		hints = append([]string{"Enter: End call"}, hints...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", controls, "", components.Footer(hints...))
}

func onOff(on bool) string {
	if on {
		return components.SuccessStyle.Render("on")
	}
	return toggleOff.Render("off")
}

// MedicationScreen shows the prescribed medication and dispenses it.
type MedicationScreen struct {
	base
	text       *i18n.Localizer
	med        report.Medication
	dispensing bool
	dispensed  bool
}

// NewMedicationScreen creates the medication screen.
func NewMedicationScreen(scope Scope, text *i18n.Localizer) *MedicationScreen {
	return &MedicationScreen{
		base: base{scope: scope},
		text: text,
		med:  report.DispensedMedication,
	}
}

// Init implements tea.Model
func (s *MedicationScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *MedicationScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	switch msg := msg.(type) {
	case dispensedMsg:
		s.dispensing = false
		s.dispensed = true
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			switch {
			case s.dispensed:
				s.finish(ActionNext)
			case !s.dispensing:
				s.dispensing = true
				return s, after(DispenseDuration, dispensedMsg{scoped: s.tag()})
			}
		case "esc":
			if !s.dispensing {
				s.finish(ActionBack)
			}
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *MedicationScreen) View() string {
	m := s.med
	lines := []string{
		components.ValueStyle.Render(fmt.Sprintf("%s %s", m.Name, m.Dosage)) + "  " + components.LabelStyle.Render(m.Quantity),
		"",
		m.Instructions,
		"",
		components.LabelStyle.Render("Possible side effects: ") + strings.Join(m.SideEffects, ", "),
		"",
		components.ErrorStyle.Render("Warnings"),
	}
	for _, w := range m.Warnings {
		lines = append(lines, "  • "+w)
	}
	lines = append(lines, "")

	var hints []string
	switch {
	case s.dispensed:
		lines = append(lines, components.SuccessStyle.Render("✓ Please collect your medication from the tray below."))
		hints = []string{"Enter: " + s.text.T("ActionContinue")}
	case s.dispensing:
		lines = append(lines, components.SelectedStyle.Render("Dispensing..."))
	default:
		hints = []string{"Enter: Dispense", "Esc: " + s.text.T("ActionBack")}
	}

	lines = append(lines, "", components.Footer(hints...))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// ReferralScreen lists the nearby clinics.
type ReferralScreen struct {
	base
	text    *i18n.Localizer
	clinics []report.Clinic
	cursor  int
}

// NewReferralScreen creates the referral screen.
func NewReferralScreen(scope Scope, text *i18n.Localizer) *ReferralScreen {
	return &ReferralScreen{
		base:    base{scope: scope},
		text:    text,
		clinics: report.NearbyClinics,
	}
}

// Init implements tea.Model
func (s *ReferralScreen) Init() tea.Cmd {
	return nil
}

// Selected returns the highlighted clinic.
func (s *ReferralScreen) Selected() report.Clinic {
	return s.clinics[s.cursor]
}

// Update implements tea.Model
func (s *ReferralScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.clinics)-1 {
				s.cursor++
			}
		case "enter":
			s.finish(ActionNext)
		case "esc":
			s.finish(ActionBack)
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *ReferralScreen) View() string {
	cards := make([]string, 0, len(s.clinics))
	for i, c := range s.clinics {
		style := components.CardStyle
		if i == s.cursor {
			style = style.BorderForeground(lipgloss.Color("63"))
		}
		cards = append(cards, style.Render(lipgloss.JoinVertical(lipgloss.Left,
			components.ValueStyle.Render(c.Name)+"  "+components.LabelStyle.Render(c.Distance),
			c.Address,
			c.Phone,
			components.LabelStyle.Render(c.Hours),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"Show your receipt at any of these clinics:",
		"",
		lipgloss.JoinVertical(lipgloss.Left, cards...),
		"",
		components.Footer("↑/↓: Choose", "Enter: "+s.text.T("ActionContinue"), "Esc: "+s.text.T("ActionBack")),
	)
}
