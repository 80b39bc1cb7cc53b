package screens

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Action is what a finished screen asks the wizard to do next.
type Action int

const (
	ActionNext Action = iota
	ActionBack
	ActionRestart
	ActionQuit
)

// Scope ties a screen to one visit of it. The wizard cancels Ctx and issues
// a new ID on every navigation.
type Scope struct {
	ID  uint64
	Ctx context.Context
}

// BackgroundScope is a scope that is never cancelled, used in tests.
func BackgroundScope(id uint64) Scope {
	return Scope{ID: id, Ctx: context.Background()}
}

// Scoped is implemented by every message a screen's commands produce.
// Messages whose scope is no longer current are dropped by the wizard.
type Scoped interface {
	ScopeID() uint64
}

type scoped struct {
	scope uint64
}

func (s scoped) ScopeID() uint64 { return s.scope }

// Screen is what the wizard needs from every kiosk screen.
type Screen interface {
	tea.Model
	Done() bool
	Cancelled() bool
	Action() Action
}

// Closer is implemented by screens holding resources that outlive their
// context, such as a running simulator or a voice call.
type Closer interface {
	Close()
}

// base carries the bookkeeping every screen shares.
type base struct {
	scope     Scope
	width     int
	height    int
	done      bool
	cancelled bool
	action    Action
}

func (b *base) Done() bool      { return b.done }
func (b *base) Cancelled() bool { return b.cancelled }
func (b *base) Action() Action  { return b.action }

func (b *base) finish(a Action) {
	b.done = true
	b.action = a
}

func (b *base) tag() scoped {
	return scoped{scope: b.scope.ID}
}

// common handles ctrl+c and window sizes. It reports whether msg was
// consumed.
func (b *base) common(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			b.cancelled = true
			return true, tea.Quit
		}
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
	}
	return false, nil
}

// after delivers msg once d has elapsed.
func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
