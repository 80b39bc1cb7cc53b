package flow

import (
	"sync"

	"github.com/healthport/kiosk/internal/session"
)

// Route picks the terminal screen for a diagnosis next step. Anything other
// than consultation or referral, selfCare included, goes to medication.
func Route(next session.NextStep) Screen {
	switch next {
	case session.NextStepConsultation:
		return ScreenConsultation
	case session.NextStepMedication:
		return ScreenMedication
	case session.NextStepReferral:
		return ScreenReferral
	default:
		return ScreenMedication
	}
}

// ScreenAt resolves an index to a screen. The outcome index is routed by
// next; any index outside the sequence falls back to the welcome screen.
func ScreenAt(index int, next session.NextStep) Screen {
	switch {
	case index >= int(StepWelcome) && index <= int(StepSummary):
		return Screen(index)
	case index == int(StepOutcome):
		return Route(next)
	case index == int(StepExit):
		return ScreenExit
	default:
		return ScreenWelcome
	}
}

// Controller tracks the current position in the kiosk sequence.
type Controller struct {
	mu    sync.Mutex
	index int
}

// NewController starts at the welcome step.
func NewController() *Controller {
	return &Controller{}
}

// Index returns the current position.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Step returns the current step.
func (c *Controller) Step() Step {
	return Step(c.Index())
}

// Advance moves forward one step, stopping at the exit step.
func (c *Controller) Advance() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index < StepCount-1 {
		c.index++
	}
	return c.index
}

// Retreat moves back one step, stopping at the welcome step.
func (c *Controller) Retreat() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index > 0 {
		c.index--
	}
	return c.index
}

// Reset returns to the welcome step for a new visit.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.index = 0
	c.mu.Unlock()
}

// Jump moves to an arbitrary index, used when resuming a saved visit.
// Out-of-range indices are kept; they resolve to the welcome screen.
func (c *Controller) Jump(index int) {
	c.mu.Lock()
	c.index = index
	c.mu.Unlock()
}

// Current resolves the current index to a screen.
func (c *Controller) Current(next session.NextStep) Screen {
	return ScreenAt(c.Index(), next)
}

// Title returns the heading for the current step.
func (c *Controller) Title() string {
	return c.Step().Title()
}
