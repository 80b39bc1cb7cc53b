package screens

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/logger"
	"github.com/healthport/kiosk/internal/notify"
	"github.com/healthport/kiosk/internal/session"
)

type publishedMsg struct {
	scoped
	err error
}

const publishTimeout = 5 * time.Second

var starStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

// ExitScreen collects a 1-5 rating and comments, announces the completed
// visit and offers a new session.
type ExitScreen struct {
	base
	store     *session.Store
	publisher notify.Publisher
	text      *i18n.Localizer
	log       logger.ILogger
	receipts  []string

	rating    int
	comments  textinput.Model
	submitted bool
	warning   string
}

// NewExitScreen creates the exit screen. receipts lists the saved receipt
// files, if any.
func NewExitScreen(scope Scope, store *session.Store, publisher notify.Publisher, receipts []string, text *i18n.Localizer, log logger.ILogger) *ExitScreen {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	if log == nil {
		log = logger.Nop{}
	}

	ti := textinput.New()
	ti.Placeholder = "Any comments? (optional)"
	ti.CharLimit = 300
	ti.Width = 50

	return &ExitScreen{
		base:      base{scope: scope},
		store:     store,
		publisher: publisher,
		text:      text,
		log:       log,
		receipts:  receipts,
		comments:  ti,
	}
}

// Init implements tea.Model
func (s *ExitScreen) Init() tea.Cmd {
	return nil
}

// Rating returns the chosen rating, 0 when unrated.
func (s *ExitScreen) Rating() int {
	return s.rating
}

// Submitted reports whether feedback was accepted.
func (s *ExitScreen) Submitted() bool {
	return s.submitted
}

// Update implements tea.Model
func (s *ExitScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	switch msg := msg.(type) {
	case publishedMsg:
		if msg.err != nil {
			s.log.Error("exit", "visit event not published", map[string]interface{}{"error": msg.err.Error()})
		}
		return s, nil

	case tea.KeyMsg:
		if s.submitted {
			switch msg.String() {
			case "n", "enter":
				s.finish(ActionRestart)
			case "q":
				s.finish(ActionQuit)
			}
			return s, nil
		}

		if s.comments.Focused() {
			switch msg.String() {
			case "tab", "esc":
				s.comments.Blur()
				return s, nil
			case "enter":
				return s, s.submit()
			}
			var cmd tea.Cmd
			s.comments, cmd = s.comments.Update(msg)
			return s, cmd
		}

		switch key := msg.String(); key {
		case "1", "2", "3", "4", "5":
			s.rating = int(key[0] - '0')
			s.warning = ""
		case "left", "h":
			if s.rating > 1 {
				s.rating--
			}
		case "right", "l":
			if s.rating < 5 {
				s.rating++
			}
		case "tab":
			return s, s.comments.Focus()
		case "enter":
			return s, s.submit()
		case "esc":
			s.finish(ActionBack)
		}
		return s, nil
	}

	if s.comments.Focused() {
		var cmd tea.Cmd
		s.comments, cmd = s.comments.Update(msg)
		return s, cmd
	}
	return s, nil
}

// submit records the feedback. It is refused while the visit is unrated.
func (s *ExitScreen) submit() tea.Cmd {
	if s.rating == 0 {
		s.warning = "Please choose a rating from 1 to 5 first."
		return nil
	}

	s.submitted = true
	s.comments.Blur()
	comments := strings.TrimSpace(s.comments.Value())
	s.store.UpdateFeedback(func(f *session.Feedback) {
		f.Rating = s.rating
		f.Comments = comments
	})

	ev := notify.NewVisitCompleted(s.store.Get(), time.Now())
	tag, publisher := s.tag(), s.publisher
	return func() tea.Msg {
		// Outlives the screen scope.
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		return publishedMsg{scoped: tag, err: publisher.Publish(ctx, ev)}
	}
}

// View implements tea.Model
func (s *ExitScreen) View() string {
	if s.submitted {
		lines := []string{components.SuccessStyle.Render("✓ " + s.text.T("Farewell"))}
		for _, path := range s.receipts {
			lines = append(lines, components.LabelStyle.Render("Receipt: ")+path)
		}
		lines = append(lines, "", components.Footer("Enter: Start a new session", "q: "+s.text.T("ActionQuit")))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	stars := starStyle.Render(strings.Repeat("★", s.rating)) + strings.Repeat("☆", 5-s.rating)

	lines := []string{
		"How was your visit today?",
		"",
		stars,
		"",
		s.comments.View(),
	}
	if s.warning != "" {
		lines = append(lines, "", components.ErrorStyle.Render(s.warning))
	}
	lines = append(lines, "", components.Footer("1-5: Rate", "Tab: Comments", "Enter: Submit", "Esc: "+s.text.T("ActionBack")))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
