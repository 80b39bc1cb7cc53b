package wizard

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/cmd/healthport/wizard/screens"
	"github.com/healthport/kiosk/internal/audio"
	"github.com/healthport/kiosk/internal/consult"
	"github.com/healthport/kiosk/internal/flow"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/identity"
	"github.com/healthport/kiosk/internal/llm"
	"github.com/healthport/kiosk/internal/logger"
	"github.com/healthport/kiosk/internal/measurement"
	"github.com/healthport/kiosk/internal/notify"
	"github.com/healthport/kiosk/internal/report"
	"github.com/healthport/kiosk/internal/session"
)

// Brand is shown in the header banner.
const Brand = "HealthPort"

// Phase represents what the wizard is currently showing.
type Phase int

const (
	PhaseScreen Phase = iota
	PhaseSaveSession
	PhaseError
)

// Services are the collaborators the screens talk to. Any of them may be
// nil; the screens fall back to their offline behaviour.
type Services struct {
	Identity  identity.Reader
	Sensors   measurement.SensorReader
	Voice     *consult.VoiceClient
	Chat      llm.Chatter
	Audio     *audio.Player
	Receipts  *report.Writer
	Publisher notify.Publisher
	Catalog   *i18n.Catalog
	Log       logger.ILogger
	Rand      *rand.Rand
}

// Options configure a kiosk run.
type Options struct {
	// State resumes a saved visit when set.
	State *session.State
	// ExportPath receives the visit as YAML when the kiosk exits.
	ExportPath string
	Services   Services
}

var screenTitles = map[flow.Screen]string{
	flow.ScreenWelcome:        "TitleWelcome",
	flow.ScreenIdentification: "TitleIdentification",
	flow.ScreenBiometrics:     "TitleBiometrics",
	flow.ScreenTemperature:    "TitleTemperature",
	flow.ScreenSpO2:           "TitleSpO2",
	flow.ScreenHeartRate:      "TitleHeartRate",
	flow.ScreenDashboard:      "TitleDashboard",
	flow.ScreenPainSelection:  "TitlePainSelection",
	flow.ScreenConversation:   "TitleConversation",
	flow.ScreenSummary:        "TitleSummary",
	flow.ScreenConsultation:   "TitleConsultation",
	flow.ScreenMedication:     "TitleMedication",
	flow.ScreenReferral:       "TitleReferral",
	flow.ScreenExit:           "TitleExit",
}

var screenClips = map[flow.Screen]audio.Key{
	flow.ScreenWelcome:        audio.KeyHome,
	flow.ScreenIdentification: audio.KeyAuth,
	flow.ScreenBiometrics:     audio.KeyHeightWeight,
	flow.ScreenTemperature:    audio.KeyTemperature,
	flow.ScreenSpO2:           audio.KeySpO2,
	flow.ScreenHeartRate:      audio.KeyHeartRate,
	flow.ScreenPainSelection:  audio.KeyPain,
	flow.ScreenSummary:        audio.KeyVitalsOverview,
	flow.ScreenConversation:   audio.KeyAI,
}

var noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

// receiptMsg reports the receipt files written for the visit. It is not
// scoped: the receipt belongs to the visit, not to a screen.
type receiptMsg struct {
	paths []string
	err   error
}

// Wizard is the main orchestrator for the kiosk interface.
type Wizard struct {
	store      *session.Store
	controller *flow.Controller
	svc        Services
	text       *i18n.Localizer

	// Current phase
	phase Phase

	// Current screen and its scope
	screen  screens.Screen
	current flow.Screen
	scopeID uint64
	ctx     context.Context
	cancel  context.CancelFunc

	showHelp bool

	// Save session form
	saveSessionForm *huh.Form
	sessionPath     string
	notice          string
	errorScreen     *screens.ErrorScreen

	receipts    []string
	unsubscribe func()

	// Window size
	width  int
	height int

	// Final state
	cancelled bool
	finished  bool
}

// NewWizard creates a wizard positioned on the first screen, or on the
// resume point of opts.State.
func NewWizard(opts Options) *Wizard {
	svc := opts.Services
	if svc.Catalog == nil {
		svc.Catalog = i18n.MustLoad()
	}
	if svc.Log == nil {
		svc.Log = logger.Nop{}
	}
	if svc.Publisher == nil {
		svc.Publisher = notify.Nop{}
	}
	if svc.Rand == nil {
		svc.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	store := session.NewStore()
	controller := flow.NewController()
	if opts.State != nil {
		store = session.NewStoreWith(*opts.State)
		controller.Jump(ResumeIndex(*opts.State))
	}

	sessionPath := opts.ExportPath
	if sessionPath == "" {
		sessionPath = "session.yaml"
	}

	w := &Wizard{
		store:       store,
		controller:  controller,
		svc:         svc,
		sessionPath: sessionPath,
	}

	log := svc.Log
	w.unsubscribe = store.Subscribe(func(s session.State) {
		log.Debug("wizard", "session updated", map[string]interface{}{
			"visit_id":  s.VisitID,
			"next_step": string(s.Diagnosis.NextStep),
		})
	})

	w.transition()
	return w
}

// ResumeIndex returns the first step of the sequence whose data is still
// missing from st.
func ResumeIndex(st session.State) int {
	b := st.Biometrics
	switch {
	case st.Conversation.Summary != "":
		return int(flow.StepSummary)
	case st.Symptoms.Reported:
		return int(flow.StepConversation)
	case b.HeartRate > 0:
		return int(flow.StepDashboard)
	case b.SpO2 > 0:
		return int(flow.StepHeartRate)
	case b.Temperature > 0:
		return int(flow.StepSpO2)
	case b.Weight > 0:
		return int(flow.StepTemperature)
	case st.Identity.Name != "":
		return int(flow.StepBiometrics)
	default:
		return int(flow.StepWelcome)
	}
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return tea.Batch(w.screen.Init(), w.playClip())
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height

	case receiptMsg:
		w.handleReceipt(msg)
		return w, nil

	case screens.Scoped:
		if msg.ScopeID() != w.scopeID {
			return w, nil
		}

	case tea.KeyMsg:
		if w.phase == PhaseScreen {
			switch msg.String() {
			case "f1":
				w.showHelp = !w.showHelp
				return w, nil
			case "ctrl+s":
				return w.transitionToSaveSession()
			}
		}
	}

	switch w.phase {
	case PhaseScreen:
		return w.updateScreen(msg)
	case PhaseSaveSession:
		return w.updateSaveSession(msg)
	case PhaseError:
		return w.updateError(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	st := w.store.Get()
	index := w.controller.Index()
	if index < 0 || index >= flow.StepCount {
		index = 0
	}

	counter := w.text.TData("StepCounter", map[string]interface{}{
		"Current": index + 1,
		"Total":   flow.StepCount,
	})

	var body string
	switch w.phase {
	case PhaseScreen:
		body = w.screen.View()
	case PhaseSaveSession:
		body = w.viewSaveSession()
	case PhaseError:
		body = w.errorScreen.View()
	}
	if st.Identity.Accessibility.LargeText {
		body = components.LargeTextStyle.Render(body)
	}

	parts := []string{
		components.Header(Brand, counter, index, flow.StepCount),
		"",
		components.TitleStyle.Render(w.text.T(screenTitles[w.current])),
		"",
		body,
	}
	if w.notice != "" {
		parts = append(parts, "", noticeStyle.Render(w.notice))
	}
	if w.showHelp {
		parts = append(parts, "", components.HelpCard(w.current.String(), w.width, st.Identity.Accessibility.LargeText))
	}
	parts = append(parts, "", components.HintStyle.Render("F1: Help | Ctrl+S: Save session"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// transition closes the current screen and builds the one the controller
// points at, under a fresh scope.
func (w *Wizard) transition() tea.Cmd {
	w.closeScreen()

	w.scopeID++
	ctx, cancel := context.WithCancel(context.Background())
	w.ctx, w.cancel = ctx, cancel
	scope := screens.Scope{ID: w.scopeID, Ctx: ctx}

	st := w.store.Get()
	w.current = w.controller.Current(st.Diagnosis.NextStep)
	w.text = w.svc.Catalog.For(st.Identity.Language)
	w.screen = w.build(w.current, scope)

	w.svc.Log.Info("wizard", "screen entered", map[string]interface{}{
		"screen": w.current.String(),
		"index":  w.controller.Index(),
	})

	var cmds []tea.Cmd
	if w.width > 0 {
		_, cmd := w.screen.Update(tea.WindowSizeMsg{Width: w.width, Height: w.height})
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// enter transitions and starts the new screen.
func (w *Wizard) enter() tea.Cmd {
	cmd := w.transition()
	return tea.Batch(cmd, w.screen.Init(), w.playClip())
}

func (w *Wizard) build(s flow.Screen, scope screens.Scope) screens.Screen {
	svc := w.svc
	switch s {
	case flow.ScreenIdentification:
		return screens.NewIdentificationScreen(scope, w.store, svc.Identity, w.text, svc.Log)
	case flow.ScreenBiometrics:
		return screens.NewBodyScreen(scope, w.store, svc.Sensors, svc.Rand, w.text, svc.Log)
	case flow.ScreenTemperature:
		return screens.NewTemperatureScreen(scope, w.store, svc.Rand, w.text, svc.Log)
	case flow.ScreenSpO2:
		return screens.NewSpO2Screen(scope, w.store, svc.Rand, w.text, svc.Log)
	case flow.ScreenHeartRate:
		return screens.NewCardioScreen(scope, w.store, svc.Sensors, svc.Rand, w.text, svc.Log)
	case flow.ScreenDashboard:
		return screens.NewDashboardScreen(scope, w.store, w.text)
	case flow.ScreenPainSelection:
		return screens.NewPainScreen(scope, w.store, w.text)
	case flow.ScreenConversation:
		return screens.NewConversationScreen(scope, w.store, svc.Voice, svc.Chat, w.text, svc.Log)
	case flow.ScreenSummary:
		return screens.NewSummaryScreen(scope, w.store, w.text)
	case flow.ScreenConsultation:
		return screens.NewConsultationScreen(scope, w.text)
	case flow.ScreenMedication:
		return screens.NewMedicationScreen(scope, w.text)
	case flow.ScreenReferral:
		return screens.NewReferralScreen(scope, w.text)
	case flow.ScreenExit:
		return screens.NewExitScreen(scope, w.store, svc.Publisher, w.receipts, w.text, svc.Log)
	default:
		return screens.NewWelcomeScreen(scope, w.store, w.text)
	}
}

// playClip plays the current screen's clip when the patient asked for voice
// guidance. The clip stops with the screen scope.
func (w *Wizard) playClip() tea.Cmd {
	st := w.store.Get()
	key, ok := screenClips[w.current]
	if !ok || !st.Identity.Accessibility.Voice || !w.svc.Audio.Enabled() {
		return nil
	}

	player, log := w.svc.Audio, w.svc.Log
	ctx, lang := w.ctx, st.Identity.Language
	return func() tea.Msg {
		if err := player.Play(ctx, key, lang); err != nil {
			log.Warn("wizard", "audio clip not played", map[string]interface{}{
				"clip":  string(key),
				"error": err.Error(),
			})
		}
		return nil
	}
}

// closeScreen releases the current screen and cancels its scope.
func (w *Wizard) closeScreen() {
	if c, ok := w.screen.(screens.Closer); ok {
		c.Close()
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.svc.Audio.Stop()
}

// shutdown releases everything the wizard holds.
func (w *Wizard) shutdown() {
	w.closeScreen()
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}

// updateScreen forwards msg to the current screen and navigates once it is
// done.
func (w *Wizard) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.screen.Update(msg)
	if s, ok := model.(screens.Screen); ok {
		w.screen = s
	}

	if w.screen.Cancelled() {
		w.cancelled = true
		w.shutdown()
		return w, tea.Quit
	}

	if !w.screen.Done() {
		return w, cmd
	}

	w.notice = ""
	switch w.screen.Action() {
	case screens.ActionNext:
		leaving := w.current
		w.controller.Advance()
		next := w.enter()
		if leaving == flow.ScreenSummary {
			return w, tea.Batch(cmd, next, w.saveReceipt())
		}
		return w, tea.Batch(cmd, next)

	case screens.ActionBack:
		w.controller.Retreat()
		return w, tea.Batch(cmd, w.enter())

	case screens.ActionRestart:
		w.svc.Log.Info("wizard", "new session", map[string]interface{}{"previous_visit": w.store.Get().VisitID})
		w.store.Reset()
		w.controller.Reset()
		w.receipts = nil
		return w, tea.Batch(cmd, w.enter())

	case screens.ActionQuit:
		w.finished = true
		w.shutdown()
		return w, tea.Batch(cmd, tea.Quit)
	}

	return w, cmd
}

// saveReceipt writes the visit receipt in the background.
func (w *Wizard) saveReceipt() tea.Cmd {
	if w.svc.Receipts == nil {
		return nil
	}
	receipt := report.New(w.store.Get(), time.Now())
	writer := w.svc.Receipts
	return func() tea.Msg {
		paths, err := writer.Save(receipt)
		return receiptMsg{paths: paths, err: err}
	}
}

func (w *Wizard) handleReceipt(msg receiptMsg) {
	if msg.err != nil {
		w.svc.Log.Error("wizard", "receipt not saved", map[string]interface{}{"error": msg.err.Error()})
	}
	w.receipts = msg.paths
}

// transitionToSaveSession shows the save session dialog.
func (w *Wizard) transitionToSaveSession() (tea.Model, tea.Cmd) {
	w.phase = PhaseSaveSession
	w.notice = ""

	w.saveSessionForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("session_path").
				Title("Save session to").
				Description("Enter the path for the YAML session file").
				Value(&w.sessionPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.saveSessionForm.Init()
}

// updateSaveSession handles updates in the save session phase. Screen
// timers keep running underneath.
func (w *Wizard) updateSaveSession(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.Scoped:
		model, cmd := w.screen.Update(msg)
		if s, ok := model.(screens.Screen); ok {
			w.screen = s
		}
		return w, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			w.phase = PhaseScreen
			return w, nil
		case "ctrl+c":
			w.cancelled = true
			w.shutdown()
			return w, tea.Quit
		}
	}

	form, cmd := w.saveSessionForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveSessionForm = f
	}

	if w.saveSessionForm.State == huh.StateCompleted {
		if err := session.SaveToYAML(w.store.Get(), w.sessionPath); err != nil {
			w.svc.Log.Error("wizard", "session not saved", map[string]interface{}{"path": w.sessionPath, "error": err.Error()})
			w.phase = PhaseError
			w.errorScreen = screens.NewErrorScreen("Session not saved", err)
			return w, nil
		}

		w.svc.Log.Info("wizard", "session saved", map[string]interface{}{"path": w.sessionPath})
		w.notice = "✓ Session saved to " + w.sessionPath
		w.phase = PhaseScreen
		return w, nil
	}

	return w, cmd
}

// viewSaveSession renders the save session dialog.
func (w *Wizard) viewSaveSession() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("Save Session"),
		"",
		w.saveSessionForm.View(),
		"",
		"Enter: Save | Esc: Back",
	)
}

// updateError handles updates in the error phase.
func (w *Wizard) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.errorScreen.Update(msg)
	if es, ok := model.(*screens.ErrorScreen); ok {
		w.errorScreen = es
	}

	if w.errorScreen.Cancelled() {
		w.cancelled = true
		w.shutdown()
		return w, tea.Quit
	}

	if w.errorScreen.Done() {
		w.phase = PhaseScreen
	}

	return w, cmd
}

// Run starts the kiosk and blocks until the patient quits or ctrl+c is
// pressed. The visit is exported to opts.ExportPath on the way out.
func Run(opts Options) error {
	wizard := NewWizard(opts)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	finalModel, err := p.Run()
	wizard.shutdown()
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}

	w, ok := finalModel.(*Wizard)
	if !ok {
		return nil
	}

	if opts.ExportPath != "" {
		if err := session.SaveToYAML(w.store.Get(), opts.ExportPath); err != nil {
			return fmt.Errorf("exporting session: %w", err)
		}
	}

	return nil
}
