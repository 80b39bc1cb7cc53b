package screens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/identity"
	"github.com/healthport/kiosk/internal/logger"
	"github.com/healthport/kiosk/internal/ocr"
	"github.com/healthport/kiosk/internal/session"
)

const (
	identCountdownFrom = 3
	identAnalyzeTick   = 100 * time.Millisecond
	identAnalyzeStep   = 0.5
	// Progress is held here until the reader answers.
	identAnalyzeHold = 99.5
)

type identStage int

const (
	identCountdown identStage = iota
	identAnalyzing
	identSuccess
	identFailed
	identMalformed
	identNoCamera
	identManual
)

type identCountdownMsg struct {
	scoped
	attempt int
}

type identAnalyzeMsg struct {
	scoped
	attempt int
}

type identResultMsg struct {
	scoped
	attempt int
	person  identity.Person
	err     error
}

// IdentificationScreen photographs the patient's ID card and reads it,
// with manual entry as the fallback.
type IdentificationScreen struct {
	base
	store  *session.Store
	reader identity.Reader
	text   *i18n.Localizer
	log    logger.ILogger

	stage     identStage
	attempt   int
	countdown int
	progress  float64
	person    identity.Person
	lastErr   error
	cancelRun context.CancelFunc

	form       *huh.Form
	name       string
	ageStr     string
	gender     string
	nationalID string
}

// NewIdentificationScreen creates the screen. A nil reader sends the
// patient straight to manual entry.
func NewIdentificationScreen(scope Scope, store *session.Store, reader identity.Reader, text *i18n.Localizer, log logger.ILogger) *IdentificationScreen {
	if log == nil {
		log = logger.Nop{}
	}
	return &IdentificationScreen{
		base:   base{scope: scope},
		store:  store,
		reader: reader,
		text:   text,
		log:    log,
	}
}

// Init implements tea.Model
func (s *IdentificationScreen) Init() tea.Cmd {
	if s.reader == nil {
		s.stage = identNoCamera
		return nil
	}
	return s.startCountdown()
}

func (s *IdentificationScreen) startCountdown() tea.Cmd {
	s.stopRun()
	s.attempt++
	s.stage = identCountdown
	s.countdown = identCountdownFrom
	s.progress = 0
	s.lastErr = nil
	return after(time.Second, identCountdownMsg{scoped: s.tag(), attempt: s.attempt})
}

func (s *IdentificationScreen) startReading() tea.Cmd {
	s.stage = identAnalyzing
	ctx, cancel := context.WithCancel(s.scope.Ctx)
	s.cancelRun = cancel

	attempt, tag, reader := s.attempt, s.tag(), s.reader
	read := func() tea.Msg {
		p, err := reader.Read(ctx)
		return identResultMsg{scoped: tag, attempt: attempt, person: p, err: err}
	}
	return tea.Batch(read, after(identAnalyzeTick, identAnalyzeMsg{scoped: tag, attempt: attempt}))
}

func (s *IdentificationScreen) stopRun() {
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
}

// Close abandons any card read in flight.
func (s *IdentificationScreen) Close() {
	s.stopRun()
}

// Update implements tea.Model
func (s *IdentificationScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	if s.stage == identManual {
		return s.updateManual(msg)
	}

	switch msg := msg.(type) {
	case identCountdownMsg:
		if msg.attempt != s.attempt || s.stage != identCountdown {
			return s, nil
		}
		s.countdown--
		if s.countdown > 0 {
			return s, after(time.Second, identCountdownMsg{scoped: s.tag(), attempt: s.attempt})
		}
		return s, s.startReading()

	case identAnalyzeMsg:
		if msg.attempt != s.attempt || s.stage != identAnalyzing {
			return s, nil
		}
		if s.progress < identAnalyzeHold {
			s.progress += identAnalyzeStep
		}
		return s, after(identAnalyzeTick, identAnalyzeMsg{scoped: s.tag(), attempt: s.attempt})

	case identResultMsg:
		if msg.attempt != s.attempt || s.stage != identAnalyzing {
			return s, nil
		}
		s.cancelRun = nil
		s.handleResult(msg.person, msg.err)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *IdentificationScreen) handleResult(p identity.Person, err error) {
	switch {
	case err == nil:
		s.progress = 100
		s.person = p
		s.stage = identSuccess
		s.store.UpdateIdentity(func(id *session.Identity) {
			id.Name = p.Name
			id.Age = p.Age
			id.Gender = p.Gender
			id.NationalID = p.IDNumber
		})
		s.log.Info("identification", "card read", map[string]interface{}{"attempt": s.attempt})
	case errors.Is(err, context.Canceled):
		return
	case errors.Is(err, ocr.ErrNoCamera):
		s.stage = identNoCamera
		s.lastErr = err
		s.log.Warn("identification", "no camera", map[string]interface{}{"error": err.Error()})
	case errors.Is(err, identity.ErrMalformedResponse), errors.Is(err, identity.ErrNotRecognized):
		s.stage = identMalformed
		s.lastErr = err
		s.log.Warn("identification", "card not readable", map[string]interface{}{"error": err.Error()})
	default:
		s.stage = identFailed
		s.lastErr = err
		s.log.Error("identification", "card read failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *IdentificationScreen) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.stopRun()
		s.finish(ActionBack)
		return s, nil
	case "m":
		s.stopRun()
		s.attempt++
		return s, s.startManual()
	case "r":
		if s.reader != nil && (s.stage == identFailed || s.stage == identMalformed || s.stage == identNoCamera) {
			return s, s.startCountdown()
		}
	case "enter":
		if s.stage == identSuccess {
			s.finish(ActionNext)
		}
	}
	return s, nil
}

func (s *IdentificationScreen) startManual() tea.Cmd {
	s.stage = identManual
	id := s.store.Get().Identity
	s.name = id.Name
	s.gender = id.Gender
	if s.gender == "" {
		s.gender = "Female"
	}
	s.nationalID = id.NationalID
	s.ageStr = ""
	if id.Age > 0 {
		s.ageStr = strconv.Itoa(id.Age)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Full name").
				Value(&s.name).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),

			huh.NewInput().
				Key("age").
				Title("Age").
				Value(&s.ageStr).
				Validate(validateAge),

			huh.NewSelect[string]().
				Key("gender").
				Title("Gender").
				Options(
					huh.NewOption("Female", "Female"),
					huh.NewOption("Male", "Male"),
				).
				Value(&s.gender),

			huh.NewInput().
				Key("id_number").
				Title("Ghana Card / NHIS number").
				Placeholder("optional").
				Value(&s.nationalID),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s.form.Init()
}

func validateAge(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 0 || n > 130 {
		return fmt.Errorf("must be between 0 and 130")
	}
	return nil
}

func (s *IdentificationScreen) updateManual(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		s.finish(ActionBack)
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted && !s.done {
		age, _ := strconv.Atoi(strings.TrimSpace(s.ageStr))
		s.store.UpdateIdentity(func(id *session.Identity) {
			id.Name = strings.TrimSpace(s.name)
			id.Age = age
			id.Gender = s.gender
			id.NationalID = strings.TrimSpace(s.nationalID)
		})
		s.finish(ActionNext)
	}
	return s, cmd
}

// View implements tea.Model
func (s *IdentificationScreen) View() string {
	var body string
	var hints []string

	switch s.stage {
	case identCountdown:
		body = lipgloss.JoinVertical(lipgloss.Left,
			"Hold your ID card up to the camera.",
			"",
			components.ValueStyle.Render(fmt.Sprintf("Capturing in %d...", s.countdown)),
		)
		hints = []string{"m: Enter details manually", "Esc: " + s.text.T("ActionBack")}

	case identAnalyzing:
		body = lipgloss.JoinVertical(lipgloss.Left,
			"Analysing your card...",
			"",
			components.ProgressLine(s.progress, components.BarWidth(s.width)),
		)
		hints = []string{"m: Enter details manually", "Esc: " + s.text.T("ActionBack")}

	case identSuccess:
		rows := [][2]string{
			{"Name", s.person.Name},
			{"Age", strconv.Itoa(s.person.Age)},
			{"Gender", s.person.Gender},
			{"ID number", s.person.IDNumber},
		}
		lines := []string{components.SuccessStyle.Render("✓ Card read successfully"), ""}
		for _, r := range rows {
			lines = append(lines, "  "+components.LabelStyle.Render(r[0]+":")+" "+components.ValueStyle.Render(r[1]))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
		hints = []string{"Enter: " + s.text.T("ActionContinue"), "m: Correct details", "Esc: " + s.text.T("ActionBack")}

	case identFailed:
		body = s.errorView("✗ We could not verify your card.")
		hints = []string{"r: " + s.text.T("ActionRetry"), "m: Enter details manually", "Esc: " + s.text.T("ActionBack")}

	case identMalformed:
		body = s.errorView("✗ We could not read the card. Hold it flat and closer to the camera.")
		hints = []string{"r: " + s.text.T("ActionRetry"), "m: Enter details manually", "Esc: " + s.text.T("ActionBack")}

	case identNoCamera:
		body = s.errorView("✗ No camera is available.")
		hints = []string{"m: Enter details manually", "Esc: " + s.text.T("ActionBack")}
		if s.reader != nil {
			hints = append([]string{"r: " + s.text.T("ActionRetry")}, hints...)
		}

	case identManual:
		body = s.form.View()
		hints = []string{"Enter: Submit", "Tab: Next field", "Esc: " + s.text.T("ActionBack")}
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, "", components.Footer(hints...))
}

func (s *IdentificationScreen) errorView(headline string) string {
	lines := []string{components.ErrorStyle.Render(headline)}
	if s.lastErr != nil {
		lines = append(lines, components.HintStyle.Render(s.lastErr.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
