package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/session"
	"github.com/healthport/kiosk/internal/vitals"
)

var (
	dashboardLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Width(18)

	dashboardValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true).
				Width(16)

	overallStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 2)
)

// DashboardScreen shows every reading with its status band and the overall
// health rating.
type DashboardScreen struct {
	base
	store *session.Store
	text  *i18n.Localizer
}

// NewDashboardScreen creates the dashboard. Status bands are re-derived on
// entry so a resumed visit shows fresh ratings.
func NewDashboardScreen(scope Scope, store *session.Store, text *i18n.Localizer) *DashboardScreen {
	store.RefreshHealthMetrics()
	return &DashboardScreen{
		base:  base{scope: scope},
		store: store,
		text:  text,
	}
}

// Init implements tea.Model
func (s *DashboardScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *DashboardScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			s.finish(ActionNext)
		case "esc":
			s.finish(ActionBack)
		}
	}
	return s, nil
}

// DashboardRow is one line of the dashboard.
type DashboardRow struct {
	Label  string
	Value  string
	Status vitals.Status
}

// DashboardRows lays out the readings in st. Unmeasured readings show a dash.
func DashboardRows(st session.State) []DashboardRow {
	b, m := st.Biometrics, st.HealthMetrics
	value := func(ok bool, format string, args ...interface{}) string {
		if !ok {
			return "-"
		}
		return fmt.Sprintf(format, args...)
	}
	return []DashboardRow{
		{"Height", value(b.Height > 0, "%.1f %s", b.Height, vitals.UnitHeight), vitals.StatusNone},
		{"Weight", value(b.Weight > 0, "%.1f %s", b.Weight, vitals.UnitWeight), vitals.StatusNone},
		{"BMI", value(b.BMI > 0, "%.1f", b.BMI), m.BMICategory},
		{"Temperature", value(b.Temperature > 0, "%.1f %s", b.Temperature, vitals.UnitTemperature), m.TemperatureStatus},
		{"SpO2", value(b.SpO2 > 0, "%d%s", b.SpO2, vitals.UnitSpO2), m.SpO2Status},
		{"Heart rate", value(b.HeartRate > 0, "%d %s", b.HeartRate, vitals.UnitHeartRate), m.HeartRateStatus},
		{"Blood pressure", value(b.BloodPressure.Systolic > 0, "%d/%d %s", b.BloodPressure.Systolic, b.BloodPressure.Diastolic, vitals.UnitPressure), m.BloodPressureStatus},
	}
}

// View implements tea.Model
func (s *DashboardScreen) View() string {
	st := s.store.Get()

	var sb strings.Builder
	if st.Identity.Name != "" {
		sb.WriteString(components.SubtitleStyle.Render(st.Identity.Name))
		sb.WriteString("\n")
	}
	for _, row := range DashboardRows(st) {
		sb.WriteString(dashboardLabelStyle.Render(row.Label))
		sb.WriteString(dashboardValueStyle.Render(row.Value))
		if row.Status != vitals.StatusNone {
			sb.WriteString(components.RenderStatus(row.Status))
		}
		sb.WriteString("\n")
	}

	overall := st.HealthMetrics.OverallHealth
	badge := overallStyle.
		BorderForeground(components.StatusStyle(overall).GetForeground()).
		Render(s.text.T("OverallHealth") + ": " + components.RenderStatus(overall))

	return lipgloss.JoinVertical(lipgloss.Left,
		sb.String(),
		badge,
		"",
		components.Footer("Enter: "+s.text.T("ActionContinue"), "Esc: "+s.text.T("ActionBack")),
	)
}
