package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/session"
)

// BodyArea is a selectable region of the body figure.
type BodyArea struct {
	ID   string
	Name string
}

// FrontAreas are the regions on the front view, head to feet.
var FrontAreas = []BodyArea{
	{"head", "Head"},
	{"face", "Face"},
	{"neck", "Neck"},
	{"leftShoulder", "Left Shoulder"},
	{"rightShoulder", "Right Shoulder"},
	{"chest", "Chest"},
	{"leftArm", "Left Arm"},
	{"rightArm", "Right Arm"},
	{"abdomen", "Abdomen"},
	{"leftHand", "Left Hand"},
	{"rightHand", "Right Hand"},
	{"pelvis", "Pelvis"},
	{"leftThigh", "Left Thigh"},
	{"rightThigh", "Right Thigh"},
	{"leftKnee", "Left Knee"},
	{"rightKnee", "Right Knee"},
	{"leftLeg", "Left Leg"},
	{"rightLeg", "Right Leg"},
	{"leftFoot", "Left Foot"},
	{"rightFoot", "Right Foot"},
}

// BackAreas are the regions on the back view.
var BackAreas = []BodyArea{
	{"backHead", "Back of Head"},
	{"upperBack", "Upper Back"},
	{"leftUpperBack", "Left Upper Back"},
	{"rightUpperBack", "Right Upper Back"},
	{"midBack", "Mid Back"},
	{"leftBackArm", "Left Back Arm"},
	{"rightBackArm", "Right Back Arm"},
	{"lowerBack", "Lower Back"},
	{"leftBackHand", "Left Back Hand"},
	{"rightBackHand", "Right Back Hand"},
	{"buttocks", "Buttocks"},
	{"leftBackThigh", "Left Back Thigh"},
	{"rightBackThigh", "Right Back Thigh"},
	{"leftBackKnee", "Left Back Knee"},
	{"rightBackKnee", "Right Back Knee"},
	{"leftBackLeg", "Left Back Leg"},
	{"rightBackLeg", "Right Back Leg"},
	{"leftBackFoot", "Left Back Foot"},
	{"rightBackFoot", "Right Back Foot"},
}

// AreaName returns the display name for an area ID.
func AreaName(id string) string {
	for _, areas := range [][]BodyArea{FrontAreas, BackAreas} {
		for _, a := range areas {
			if a.ID == id {
				return a.Name
			}
		}
	}
	return id
}

var (
	painListStyle = lipgloss.NewStyle().
			Width(28)

	painSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true)
)

// PainScreen lets the patient mark painful body areas on a front or back
// view and describe their symptoms.
type PainScreen struct {
	base
	store *session.Store
	text  *i18n.Localizer

	back        bool
	female      bool
	cursor      int
	description textinput.Model
}

// NewPainScreen creates the pain screen. The figure follows the stored
// gender, defaulting to male.
func NewPainScreen(scope Scope, store *session.Store, text *i18n.Localizer) *PainScreen {
	st := store.Get()

	ti := textinput.New()
	ti.Placeholder = "Describe your symptoms (optional)"
	ti.CharLimit = 500
	ti.Width = 50
	ti.SetValue(st.Symptoms.Description)

	return &PainScreen{
		base:        base{scope: scope},
		store:       store,
		text:        text,
		female:      strings.EqualFold(st.Identity.Gender, "female"),
		description: ti,
	}
}

// Init implements tea.Model
func (s *PainScreen) Init() tea.Cmd {
	return nil
}

func (s *PainScreen) areas() []BodyArea {
	if s.back {
		return BackAreas
	}
	return FrontAreas
}

// Update implements tea.Model
func (s *PainScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.description.Focused() {
			var cmd tea.Cmd
			s.description, cmd = s.description.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.description.Focused() {
		switch key.String() {
		case "tab", "esc":
			s.description.Blur()
			return s, nil
		case "enter":
			return s, s.submit()
		}
		var cmd tea.Cmd
		s.description, cmd = s.description.Update(msg)
		return s, cmd
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.areas())-1 {
			s.cursor++
		}
	case " ", "x":
		s.store.TogglePainArea(s.areas()[s.cursor].ID)
	case "v":
		s.back = !s.back
		s.cursor = 0
	case "g":
		s.female = !s.female
	case "tab":
		return s, s.description.Focus()
	case "s":
		s.store.ClearPainAreas()
		s.finish(ActionNext)
	case "enter":
		return s, s.submit()
	case "esc":
		s.finish(ActionBack)
	}
	return s, nil
}

func (s *PainScreen) submit() tea.Cmd {
	desc := strings.TrimSpace(s.description.Value())
	s.store.UpdateSymptoms(func(sy *session.Symptoms) {
		sy.Description = desc
		sy.Reported = true
		if sy.PainAreas == nil {
			sy.PainAreas = []string{}
		}
	})
	s.finish(ActionNext)
	return nil
}

// View implements tea.Model
func (s *PainScreen) View() string {
	selected := map[string]bool{}
	chosen := s.store.Get().Symptoms.PainAreas
	for _, id := range chosen {
		selected[id] = true
	}

	view, figure := "Front", "Male"
	if s.back {
		view = "Back"
	}
	if s.female {
		figure = "Female"
	}

	var list strings.Builder
	for i, a := range s.areas() {
		cursor := "  "
		if i == s.cursor && !s.description.Focused() {
			cursor = components.SelectedStyle.Render("> ")
		}
		box := "[ ] "
		name := a.Name
		if selected[a.ID] {
			box = painSelectedStyle.Render("[x] ")
			name = painSelectedStyle.Render(name)
		}
		list.WriteString(cursor + box + name + "\n")
	}

	var picked []string
	for _, id := range chosen {
		picked = append(picked, AreaName(id))
	}
	summary := components.HintStyle.Render("No areas selected")
	if len(picked) > 0 {
		summary = components.ValueStyle.Render(strings.Join(picked, ", "))
	}

	side := lipgloss.JoinVertical(lipgloss.Left,
		components.LabelStyle.Render("View: ")+components.ValueStyle.Render(view),
		components.LabelStyle.Render("Figure: ")+components.ValueStyle.Render(figure),
		"",
		components.LabelStyle.Render("Selected:"),
		summary,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		"Where does it hurt?",
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, painListStyle.Render(list.String()), side),
		s.description.View(),
		"",
		components.Footer("Space: Select", "v: Front/Back", "g: Figure", "Tab: Symptoms", "s: "+s.text.T("ActionSkip"), "Enter: "+s.text.T("ActionContinue"), "Esc: "+s.text.T("ActionBack")),
	)
}
