package screens

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/cmd/healthport/wizard/components"
	"github.com/healthport/kiosk/internal/i18n"
	"github.com/healthport/kiosk/internal/logger"
	"github.com/healthport/kiosk/internal/measurement"
	"github.com/healthport/kiosk/internal/session"
	"github.com/healthport/kiosk/internal/vitals"
)

type measureTickMsg struct {
	scoped
	attempt uint64
}

type measureResultMsg struct {
	scoped
	attempt uint64
	err     error
}

type measurePreparedMsg struct {
	scoped
	err error
}

// Reading is one labelled value shown once a measurement completes.
type Reading struct {
	Label string
	Value string
}

// MeasureSpec describes how one vital sign is presented and recorded.
type MeasureSpec[T any] struct {
	Instructions string
	// Prepare asks the hardware to start a reading. Optional.
	Prepare  func(ctx context.Context) error
	Readings func(T) []Reading
	Store    func(*session.Store, T)
}

// MeasureScreen drives a measurement simulator: instructions, a progress
// bar while measuring, then the reading or a retry prompt.
type MeasureScreen[T any] struct {
	base
	store *session.Store
	sim   *measurement.Simulator[T]
	spec  MeasureSpec[T]
	text  *i18n.Localizer
	log   logger.ILogger
}

// NewMeasureScreen creates a measurement screen around sim.
func NewMeasureScreen[T any](scope Scope, store *session.Store, sim *measurement.Simulator[T], spec MeasureSpec[T], text *i18n.Localizer, log logger.ILogger) *MeasureScreen[T] {
	if log == nil {
		log = logger.Nop{}
	}
	return &MeasureScreen[T]{
		base:  base{scope: scope},
		store: store,
		sim:   sim,
		spec:  spec,
		text:  text,
		log:   log,
	}
}

// Init implements tea.Model
func (s *MeasureScreen[T]) Init() tea.Cmd {
	return nil
}

// Close abandons a run in progress.
func (s *MeasureScreen[T]) Close() {
	s.sim.Cancel()
}

func (s *MeasureScreen[T]) start() tea.Cmd {
	attempt, err := s.sim.Start()
	if err != nil {
		return nil
	}

	tag := s.tag()
	cmds := []tea.Cmd{after(s.sim.Config().Tick, measureTickMsg{scoped: tag, attempt: attempt})}
	if s.spec.Prepare != nil {
		ctx, prepare := s.scope.Ctx, s.spec.Prepare
		cmds = append(cmds, func() tea.Msg {
			return measurePreparedMsg{scoped: tag, err: prepare(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

func (s *MeasureScreen[T]) resolve(attempt uint64) tea.Cmd {
	ctx, sim, tag := s.scope.Ctx, s.sim, s.tag()
	return func() tea.Msg {
		_, err := sim.Resolve(ctx, attempt)
		return measureResultMsg{scoped: tag, attempt: attempt, err: err}
	}
}

// Update implements tea.Model
func (s *MeasureScreen[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := s.common(msg); handled {
		return s, cmd
	}

	switch msg := msg.(type) {
	case measureTickMsg:
		if msg.attempt != s.sim.Attempt() || s.sim.Stage() != measurement.StageMeasuring {
			return s, nil
		}
		if s.sim.Tick(msg.attempt) {
			return s, s.resolve(msg.attempt)
		}
		return s, after(s.sim.Config().Tick, measureTickMsg{scoped: s.tag(), attempt: msg.attempt})

	case measureResultMsg:
		if errors.Is(msg.err, measurement.ErrStaleAttempt) || errors.Is(msg.err, measurement.ErrNotReady) {
			return s, nil
		}
		details := map[string]interface{}{"vital": s.sim.Config().Name, "attempt": msg.attempt}
		if msg.err != nil {
			details["error"] = msg.err.Error()
			s.log.Warn("measurement", "reading failed", details)
		} else {
			s.log.Info("measurement", "reading complete", details)
		}
		return s, nil

	case measurePreparedMsg:
		if msg.err != nil {
			s.log.Warn("measurement", "sensor request failed", map[string]interface{}{
				"vital": s.sim.Config().Name,
				"error": msg.err.Error(),
			})
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *MeasureScreen[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.sim.Cancel()
		s.finish(ActionBack)
	case "enter":
		switch s.sim.Stage() {
		case measurement.StageInstructions:
			return s, s.start()
		case measurement.StageComplete:
			if res, ok := s.sim.Result(); ok {
				s.spec.Store(s.store, res.Value)
			}
			s.finish(ActionNext)
		}
	case "r":
		s.sim.TryAgain()
	}
	return s, nil
}

// View implements tea.Model
func (s *MeasureScreen[T]) View() string {
	var body string
	var hints []string

	switch s.sim.Stage() {
	case measurement.StageInstructions:
		body = s.spec.Instructions
		hints = []string{"Enter: " + s.text.T("ActionStart"), "Esc: " + s.text.T("ActionBack")}

	case measurement.StageMeasuring:
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.text.T("Measuring"),
			"",
			components.ProgressLine(s.sim.Progress(), components.BarWidth(s.width)),
		)
		hints = []string{"Esc: " + s.text.T("ActionBack")}

	case measurement.StageComplete:
		res, _ := s.sim.Result()
		lines := []string{components.SuccessStyle.Render("✓ " + s.text.T("MeasureComplete")), ""}
		for _, r := range s.spec.Readings(res.Value) {
			lines = append(lines, "  "+components.LabelStyle.Render(r.Label+":")+" "+components.ValueStyle.Render(r.Value))
		}
		lines = append(lines, "", "  "+components.LabelStyle.Render("Status:")+" "+components.RenderStatus(res.Status))
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
		hints = []string{"Enter: " + s.text.T("ActionContinue"), "Esc: " + s.text.T("ActionBack")}

	case measurement.StageFailed:
		body = components.ErrorStyle.Render("✗ " + s.text.T("MeasureFailed"))
		hints = []string{"r: " + s.text.T("ActionRetry"), "Esc: " + s.text.T("ActionBack")}
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, "", components.Footer(hints...))
}

// NewBodyScreen measures height and weight. A nil reader synthesises them.
func NewBodyScreen(scope Scope, store *session.Store, reader measurement.SensorReader, rng *rand.Rand, text *i18n.Localizer, log logger.ILogger) *MeasureScreen[measurement.Body] {
	spec := MeasureSpec[measurement.Body]{
		Instructions: text.T("InstructionsBiometrics"),
		Prepare:      measurement.BodyPrepare(reader),
		Readings: func(b measurement.Body) []Reading {
			return []Reading{
				{"Height", fmt.Sprintf("%.1f %s", b.Height, vitals.UnitHeight)},
				{"Weight", fmt.Sprintf("%.1f %s", b.Weight, vitals.UnitWeight)},
				{"BMI", fmt.Sprintf("%.1f %s", b.BMI, vitals.UnitBMI)},
			}
		},
		Store: func(st *session.Store, b measurement.Body) {
			st.UpdateBiometrics(func(bio *session.Biometrics) {
				bio.Height = b.Height
				bio.Weight = b.Weight
				bio.BMI = b.BMI
			})
		},
	}
	return NewMeasureScreen(scope, store, measurement.New(measurement.BodyConfig(reader), rng), spec, text, log)
}

// NewTemperatureScreen measures body temperature.
func NewTemperatureScreen(scope Scope, store *session.Store, rng *rand.Rand, text *i18n.Localizer, log logger.ILogger) *MeasureScreen[float64] {
	spec := MeasureSpec[float64]{
		Instructions: text.T("InstructionsTemperature"),
		Readings: func(t float64) []Reading {
			return []Reading{{"Temperature", fmt.Sprintf("%.1f %s", t, vitals.UnitTemperature)}}
		},
		Store: func(st *session.Store, t float64) {
			st.UpdateBiometrics(func(bio *session.Biometrics) { bio.Temperature = t })
		},
	}
	return NewMeasureScreen(scope, store, measurement.New(measurement.TemperatureConfig(), rng), spec, text, log)
}

// NewSpO2Screen measures oxygen saturation.
func NewSpO2Screen(scope Scope, store *session.Store, rng *rand.Rand, text *i18n.Localizer, log logger.ILogger) *MeasureScreen[int] {
	spec := MeasureSpec[int]{
		Instructions: text.T("InstructionsSpO2"),
		Readings: func(p int) []Reading {
			return []Reading{{"SpO2", fmt.Sprintf("%d%s", p, vitals.UnitSpO2)}}
		},
		Store: func(st *session.Store, p int) {
			st.UpdateBiometrics(func(bio *session.Biometrics) { bio.SpO2 = p })
		},
	}
	return NewMeasureScreen(scope, store, measurement.New(measurement.SpO2Config(), rng), spec, text, log)
}

// NewCardioScreen measures heart rate and blood pressure.
func NewCardioScreen(scope Scope, store *session.Store, reader measurement.SensorReader, rng *rand.Rand, text *i18n.Localizer, log logger.ILogger) *MeasureScreen[measurement.Cardio] {
	spec := MeasureSpec[measurement.Cardio]{
		Instructions: text.T("InstructionsHeartRate"),
		Prepare:      measurement.CardioPrepare(reader),
		Readings: func(c measurement.Cardio) []Reading {
			return []Reading{
				{"Heart rate", fmt.Sprintf("%d %s", c.HeartRate, vitals.UnitHeartRate)},
				{"Blood pressure", fmt.Sprintf("%d/%d %s", c.Systolic, c.Diastolic, vitals.UnitPressure)},
			}
		},
		Store: func(st *session.Store, c measurement.Cardio) {
			st.UpdateBiometrics(func(bio *session.Biometrics) {
				bio.HeartRate = c.HeartRate
				bio.BloodPressure = session.BloodPressure{Systolic: c.Systolic, Diastolic: c.Diastolic}
			})
		},
	}
	return NewMeasureScreen(scope, store, measurement.New(measurement.CardioConfig(reader), rng), spec, text, log)
}
