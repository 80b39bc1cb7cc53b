package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/session"
)

// WelcomeScreen asks for the kiosk language and accessibility options.
type WelcomeScreen struct {
	base
	store *session.Store
	text  *i18n.Localizer
	form  *huh.Form

	language  session.Language
	voice     bool
	largeText bool
}

// NewWelcomeScreen creates the welcome screen, preselecting the stored choices.
func NewWelcomeScreen(scope Scope, store *session.Store, text *i18n.Localizer) *WelcomeScreen {
	id := store.Get().Identity
	s := &WelcomeScreen{
		base:      base{scope: scope},
		store:     store,
		text:      text,
		language:  id.Language,
		voice:     id.Accessibility.Voice,
		largeText: id.Accessibility.LargeText,
	}

	options := make([]huh.Option[session.Language], 0, len(session.Languages))
	for _, l := range session.Languages {
		options = append(options, huh.NewOption(l.Label(), l))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[session.Language]().
				Key("language").
				Title("Language / Kasa / Langue").
				Options(options...).
				Value(&s.language),

			huh.NewConfirm().
				Key("voice").
				Title("Voice guidance").
				Affirmative("On").
				Negative("Off").
				Value(&s.voice),

			huh.NewConfirm().
				Key("large_text").
				Title("Large text").
				Affirmative("On").
				Negative("Off").
				Value(&s.largeText),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *WelcomeScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *WelcomeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted && !s.done {
		s.store.UpdateIdentity(func(id *session.Identity) {
			id.Language = s.language
			id.Accessibility.Voice = s.voice
			id.Accessibility.LargeText = s.largeText
		})
		s.finish(ActionNext)
	}

	return s, cmd
}

// View implements tea.Model
func (s *WelcomeScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render(s.text.T("Greeting")),
		components.SubtitleStyle.Render(s.text.T("Tagline")),
		s.form.View(),
		"",
		components.Footer("Enter: "+s.text.T("ActionContinue"), "Tab: Next field", "F1: Help", "Ctrl+C: "+s.text.T("ActionQuit")),
	)
}
