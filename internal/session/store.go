package session

import (
	"sync"

	"github.com/healthport/kiosk/internal/vitals"
)

// Patch is a top-level partial update. Every non-nil field replaces the
// whole stored subtree; nested fields are not merged.
type Patch struct {
	Identity      *Identity
	Biometrics    *Biometrics
	HealthMetrics *HealthMetrics
	Symptoms      *Symptoms
	Conversation  *Conversation
	Diagnosis     *Diagnosis
	Feedback      *Feedback
}

// Store is the single session container shared by every screen.
type Store struct {
	mu        sync.RWMutex
	state     State
	observers map[int]func(State)
	nextID    int
}

// NewStore creates a store holding a fresh visit.
func NewStore() *Store {
	return NewStoreWith(NewState())
}

// NewStoreWith creates a store holding s, e.g. a resumed visit.
func NewStoreWith(s State) *Store {
	if s.VisitID == "" {
		s.VisitID = NewState().VisitID
	}
	return &Store{
		state:     s.Clone(),
		observers: make(map[int]func(State)),
	}
}

// Get returns a copy of the current state.
func (st *Store) Get() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.Clone()
}

// Update shallow-merges p into the state. A nested value in p replaces the
// stored one wholesale: callers wanting a partial nested change must copy
// the previous value first, or use one of the typed actions below.
func (st *Store) Update(p Patch) {
	st.mutate(func(s *State) {
		if p.Identity != nil {
			s.Identity = *p.Identity
		}
		if p.Biometrics != nil {
			s.Biometrics = *p.Biometrics
		}
		if p.HealthMetrics != nil {
			s.HealthMetrics = *p.HealthMetrics
		}
		if p.Symptoms != nil {
			s.Symptoms = *p.Symptoms
			s.Symptoms.PainAreas = cloneStrings(p.Symptoms.PainAreas)
		}
		if p.Conversation != nil {
			s.Conversation = (State{Conversation: *p.Conversation}).Clone().Conversation
		}
		if p.Diagnosis != nil {
			s.Diagnosis = *p.Diagnosis
		}
		if p.Feedback != nil {
			s.Feedback = *p.Feedback
		}
	})
}

// UpdateIdentity applies fn to a copy of the current identity.
func (st *Store) UpdateIdentity(fn func(*Identity)) {
	st.mutate(func(s *State) {
		id := s.Identity
		fn(&id)
		s.Identity = id
	})
}

// UpdateBiometrics applies fn to a copy of the current readings, then
// recomputes BMI and every status band so they cannot drift from the numbers.
func (st *Store) UpdateBiometrics(fn func(*Biometrics)) {
	st.mutate(func(s *State) {
		b := s.Biometrics
		fn(&b)
		if bmi, ok := vitals.ComputeBMI(b.Height, b.Weight); ok {
			b.BMI = bmi
		}
		s.Biometrics = b
		s.HealthMetrics = Derive(b)
	})
}

// RefreshHealthMetrics re-derives the status bands from the stored readings.
func (st *Store) RefreshHealthMetrics() vitals.Status {
	var overall vitals.Status
	st.mutate(func(s *State) {
		s.HealthMetrics = Derive(s.Biometrics)
		overall = s.HealthMetrics.OverallHealth
	})
	return overall
}

// UpdateSymptoms applies fn to a copy of the current symptoms.
func (st *Store) UpdateSymptoms(fn func(*Symptoms)) {
	st.mutate(func(s *State) {
		sy := s.Symptoms
		sy.PainAreas = cloneStrings(s.Symptoms.PainAreas)
		fn(&sy)
		s.Symptoms = sy
	})
}

// TogglePainArea selects id if absent, otherwise removes it. Selection
// order is preserved. It reports whether id is selected afterwards.
func (st *Store) TogglePainArea(id string) bool {
	selected := false
	st.UpdateSymptoms(func(sy *Symptoms) {
		for i, area := range sy.PainAreas {
			if area == id {
				sy.PainAreas = append(sy.PainAreas[:i], sy.PainAreas[i+1:]...)
				return
			}
		}
		sy.PainAreas = append(sy.PainAreas, id)
		selected = true
	})
	return selected
}

// ClearPainAreas records that the patient skipped pain selection.
func (st *Store) ClearPainAreas() {
	st.UpdateSymptoms(func(sy *Symptoms) {
		sy.PainAreas = []string{}
		sy.Reported = true
	})
}

// SetConversation replaces the conversation outcome.
func (st *Store) SetConversation(c Conversation) {
	st.Update(Patch{Conversation: &c})
}

// UpdateDiagnosis applies fn to a copy of the current diagnosis.
func (st *Store) UpdateDiagnosis(fn func(*Diagnosis)) {
	st.mutate(func(s *State) {
		d := s.Diagnosis
		fn(&d)
		s.Diagnosis = d
	})
}

// SetNextStep records the patient's chosen next step.
func (st *Store) SetNextStep(n NextStep) {
	st.UpdateDiagnosis(func(d *Diagnosis) {
		d.NextStep = n
	})
}

// UpdateFeedback applies fn to a copy of the current feedback.
func (st *Store) UpdateFeedback(fn func(*Feedback)) {
	st.mutate(func(s *State) {
		f := s.Feedback
		fn(&f)
		s.Feedback = f
	})
}

// Reset discards the visit and starts a new one.
func (st *Store) Reset() {
	st.mutate(func(s *State) {
		*s = NewState()
	})
}

// Subscribe registers fn to be called with a copy of the state after each
// change. The returned func removes the observer.
func (st *Store) Subscribe(fn func(State)) func() {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.observers[id] = fn
	st.mu.Unlock()

	return func() {
		st.mu.Lock()
		delete(st.observers, id)
		st.mu.Unlock()
	}
}

func (st *Store) mutate(fn func(*State)) {
	st.mu.Lock()
	fn(&st.state)
	snapshot := st.state.Clone()
	observers := make([]func(State), 0, len(st.observers))
	for _, o := range st.observers {
		observers = append(observers, o)
	}
	st.mu.Unlock()

	for _, o := range observers {
		o(snapshot)
	}
}
