package screens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/internal/consult"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/llm"
	"github.com/healthport/kiosk/internal/logger"
	"github.com/healthport/kiosk/internal/session"
)

type convMode int

const (
	convConnecting convMode = iota
	convVoice
	convText
)

type voiceStartedMsg struct {
	scoped
	session *consult.VoiceSession
	err     error
}

type voiceEventMsg struct {
	scoped
	event consult.Event
	ok    bool
}

type replyMsg struct {
	scoped
	text string
	err  error
}

type assessedMsg struct {
	scoped
	assessment consult.Assessment
	err        error
}

var (
	assistantBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("33")).
			Padding(0, 1).
			MarginLeft(8)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)
)

// ConversationScreen runs the AI consultation. It uses the voice assistant
// when one is configured and reachable, otherwise a typed chat with the
// language model, otherwise the scripted assistant.
type ConversationScreen struct {
	base
	store *session.Store
	voice *consult.VoiceClient
	chat  llm.Chatter
	text  *i18n.Localizer
	log   logger.ILogger

	mode       convMode
	call       *consult.VoiceSession
	state      consult.CallState
	transcript *consult.Transcript
	responder  consult.Responder
	scripted   bool

	input     textinput.Model
	spinner   spinner.Model
	waiting   bool
	over      bool
	assessing bool
	notice    string
}

// NewConversationScreen creates the screen. voice and chat may be nil.
func NewConversationScreen(scope Scope, store *session.Store, voice *consult.VoiceClient, chat llm.Chatter, text *i18n.Localizer, log logger.ILogger) *ConversationScreen {
	if log == nil {
		log = logger.Nop{}
	}

	ti := textinput.New()
	ti.Placeholder = "Type your answer"
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	return &ConversationScreen{
		base:       base{scope: scope},
		store:      store,
		voice:      voice,
		chat:       chat,
		text:       text,
		log:        log,
		transcript: &consult.Transcript{},
		input:      ti,
		spinner:    sp,
	}
}

// Init implements tea.Model
func (s *ConversationScreen) Init() tea.Cmd {
	if s.voice.Enabled() {
		s.mode = convConnecting
		return tea.Batch(s.spinner.Tick, s.startVoice())
	}
	return s.startText("")
}

func (s *ConversationScreen) startVoice() tea.Cmd {
	ctx, tag, client := s.scope.Ctx, s.tag(), s.voice
	vars := consult.Variables(s.store.Get())
	return func() tea.Msg {
		call, err := client.Start(ctx, vars)
		return voiceStartedMsg{scoped: tag, session: call, err: err}
	}
}

func (s *ConversationScreen) waitEvent() tea.Cmd {
	call, tag := s.call, s.tag()
	return func() tea.Msg {
		ev, ok := <-call.Events()
		return voiceEventMsg{scoped: tag, event: ev, ok: ok}
	}
}

func (s *ConversationScreen) startText(notice string) tea.Cmd {
	s.mode = convText
	s.notice = notice
	if s.chat != nil {
		s.responder = consult.NewChat(s.chat, s.store.Get())
	} else {
		s.responder = consult.Scripted{}
		s.scripted = true
	}
	if s.transcript.Len() == 0 {
		s.transcript.Add(consult.RoleAssistant, consult.Greeting(s.store.Get().Identity.Name))
	}
	return tea.Batch(s.input.Focus(), textinput.Blink)
}

func (s *ConversationScreen) requestReply() tea.Cmd {
	s.waiting = true
	ctx, tag, responder := s.scope.Ctx, s.tag(), s.responder
	history := s.transcript.Messages()
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		text, err := responder.Reply(ctx, history)
		return replyMsg{scoped: tag, text: text, err: err}
	})
}

func (s *ConversationScreen) assess() tea.Cmd {
	s.assessing = true
	s.stopCall()
	ctx, tag, chat := s.scope.Ctx, s.tag(), s.chat
	history := s.transcript.Messages()
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		a, err := consult.Assess(ctx, chat, history)
		return assessedMsg{scoped: tag, assessment: a, err: err}
	})
}

func (s *ConversationScreen) stopCall() {
	if s.call != nil {
		_ = s.call.Stop()
		s.call = nil
	}
}

// Close hangs up a call in progress.
func (s *ConversationScreen) Close() {
	s.stopCall()
}

// Update implements tea.Model
func (s *ConversationScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.mode == convConnecting || s.waiting || s.assessing {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return s, cmd
		}
		return s, nil

	case voiceStartedMsg:
		if s.mode != convConnecting {
			if msg.session != nil {
				_ = msg.session.Stop()
			}
			return s, nil
		}
		if msg.err != nil {
			s.log.Warn("conversation", "voice session unavailable", map[string]interface{}{"error": msg.err.Error()})
			return s, s.startText("The voice assistant is unavailable. Please type your answers.")
		}
		s.call = msg.session
		s.mode = convVoice
		s.state = consult.CallState{Connecting: true}
		return s, s.waitEvent()

	case voiceEventMsg:
		if s.call == nil {
			return s, nil
		}
		if !msg.ok {
			s.state.Apply(consult.Event{Type: consult.EventCallEnd}, s.transcript)
			return s, nil
		}
		s.state.Apply(msg.event, s.transcript)
		if msg.event.Type == consult.EventError {
			s.log.Warn("conversation", "voice session error", map[string]interface{}{"error": msg.event.Err})
		}
		return s, s.waitEvent()

	case replyMsg:
		s.waiting = false
		switch {
		case msg.err == nil:
			s.transcript.Add(consult.RoleAssistant, msg.text)
			s.over = s.scripted && s.transcript.UserTurns() >= consult.ScriptLength()
		case errors.Is(msg.err, consult.ErrConversationOver):
			s.over = true
		default:
			s.log.Error("conversation", "assistant reply failed", map[string]interface{}{"error": msg.err.Error()})
			if !s.scripted {
				s.responder = consult.Scripted{}
				s.scripted = true
				s.notice = "The assistant is offline. Continuing with standard questions."
				return s, s.requestReply()
			}
			s.over = true
		}
		return s, nil

	case assessedMsg:
		a := msg.assessment
		if msg.err != nil {
			s.log.Warn("conversation", "assessment unavailable, using default", map[string]interface{}{"error": msg.err.Error()})
			a = consult.DefaultAssessment(s.state.Summary)
		}
		if a.Summary == "" {
			a.Summary = s.state.Summary
		}
		a.Apply(s.store, s.transcript.Messages())
		s.assessing = false
		s.finish(ActionNext)
		return s, nil

	case tea.KeyMsg:
		if s.assessing {
			return s, nil
		}
		if s.mode == convText {
			return s.handleTextKey(msg)
		}
		return s.handleVoiceKey(msg)
	}

	if s.mode == convText {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ConversationScreen) handleVoiceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.stopCall()
		s.finish(ActionBack)
	case "e":
		s.stopCall()
		s.state.Apply(consult.Event{Type: consult.EventCallEnd}, s.transcript)
	case "t":
		s.stopCall()
		return s, s.startText("")
	case "enter", "ctrl+d":
		if s.mode == convVoice {
			return s, s.assess()
		}
	}
	return s, nil
}

func (s *ConversationScreen) handleTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.finish(ActionBack)
		return s, nil
	case "ctrl+d":
		return s, s.assess()
	case "tab":
		if s.scripted {
			if n := s.transcript.UserTurns(); n < len(consult.SuggestedReplies) {
				s.input.SetValue(consult.SuggestedReplies[n])
				s.input.CursorEnd()
			}
		}
		return s, nil
	case "enter":
		answer := strings.TrimSpace(s.input.Value())
		if answer == "" {
			if s.over || s.transcript.UserTurns() > 0 {
				return s, s.assess()
			}
			return s, nil
		}
		if s.waiting || s.over {
			return s, nil
		}
		s.input.Reset()
		s.transcript.Add(consult.RoleUser, answer)
		return s, s.requestReply()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// View implements tea.Model
func (s *ConversationScreen) View() string {
	var parts []string
	if s.notice != "" {
		parts = append(parts, components.HintStyle.Render(s.notice))
	}

	switch s.mode {
	case convConnecting:
		parts = append(parts, s.spinner.View()+" Connecting to the voice assistant...")
	case convVoice:
		parts = append(parts, s.callStatus())
	}

	parts = append(parts, "", s.transcriptView())

	var hints []string
	switch {
	case s.assessing:
		parts = append(parts, "", s.spinner.View()+" Preparing your assessment...")
	case s.mode == convText:
		if s.waiting {
			parts = append(parts, s.spinner.View()+" The assistant is typing...")
		}
		if s.over {
			parts = append(parts, components.SuccessStyle.Render("The consultation is complete."))
		}
		parts = append(parts, "", s.input.View())
		hints = []string{"Enter: Send", "Ctrl+D: Finish", "Esc: " + s.text.T("ActionBack")}
		if s.scripted {
			hints = append([]string{"Tab: Suggested answer"}, hints...)
		}
	case s.mode == convVoice:
		hints = []string{"Enter: Finish", "e: End call", "t: Type instead", "Esc: " + s.text.T("ActionBack")}
	default:
		hints = []string{"t: Type instead", "Esc: " + s.text.T("ActionBack")}
	}

	parts = append(parts, "", components.Footer(hints...))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *ConversationScreen) callStatus() string {
	st := s.state
	switch {
	case st.LastError != "" && !st.Connected:
		return components.ErrorStyle.Render("✗ Call ended: " + st.LastError)
	case st.Complete:
		return components.SuccessStyle.Render("✓ Call complete")
	case st.Connecting:
		return s.spinner.View() + " Connecting..."
	case st.AssistantSpeaking:
		bars := int(st.Volume * 10)
		return components.SelectedStyle.Render("● Assistant speaking ") + strings.Repeat("▮", bars)
	default:
		return components.SuccessStyle.Render("● Listening")
	}
}

func (s *ConversationScreen) transcriptView() string {
	msgs := s.transcript.Messages()
	// Keep the view to the latest exchanges on small terminals.
	limit := 8
	if s.height > 0 {
		limit = s.height / 6
		if limit < 2 {
			limit = 2
		}
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	width := 70
	if s.width > 20 && s.width-10 < width {
		width = s.width - 10
	}

	var lines []string
	for _, m := range msgs {
		if m.Role == consult.RoleUser {
			lines = append(lines, speakerStyle.MarginLeft(8).Render("You"), userBubbleStyle.Width(width-8).Render(m.Content))
		} else {
			lines = append(lines, speakerStyle.Render("Assistant"), assistantBubbleStyle.Width(width).Render(m.Content))
		}
	}
	if len(lines) == 0 {
		return components.HintStyle.Render(fmt.Sprintf("Hello %s, the assistant will greet you shortly.", s.store.Get().Identity.Name))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
