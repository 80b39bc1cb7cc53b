package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/healthport/kiosk/internal/session"
)

func TestNewVisitCompleted(t *testing.T) {
	store := session.NewStore()
	store.UpdateIdentity(func(id *session.Identity) {
		id.Name = "Jane Doe"
		id.NationalID = "NHIS-1"
		id.Language = session.LanguageFrench
	})
	store.UpdateBiometrics(func(b *session.Biometrics) { b.Temperature = 38.0 })
	store.TogglePainArea("head")
	store.UpdateDiagnosis(func(d *session.Diagnosis) {
		d.Condition = "Migraine"
		d.NextStep = session.NextStepReferral
	})
	store.UpdateFeedback(func(f *session.Feedback) { f.Rating = 4 })

	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.FixedZone("GMT+1", 3600))
	st := store.Get()
	ev := NewVisitCompleted(st, now)

	if ev.VisitID != st.VisitID || ev.Language != "french" || ev.OverallHealth != "Fair" {
		t.Errorf("Unexpected event %+v", ev)
	}
	if ev.NextStep != "referral" || ev.Rating != 4 || len(ev.PainAreas) != 1 {
		t.Errorf("Unexpected event %+v", ev)
	}
	if ev.CompletedAt.Location() != time.UTC || ev.CompletedAt.Hour() != 9 {
		t.Errorf("Expected UTC timestamp, got %v", ev.CompletedAt)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]interface{}
	_ = json.Unmarshal(data, &raw)
	for _, leaked := range []string{"name", "national_id", "Jane Doe"} {
		if _, ok := raw[leaked]; ok {
			t.Errorf("Event leaks %s", leaked)
		}
	}
}

func TestNewVisitCompleted_EmptyPainAreas(t *testing.T) {
	ev := NewVisitCompleted(session.NewState(), time.Now())
	data, _ := json.Marshal(ev)
	var raw map[string]interface{}
	_ = json.Unmarshal(data, &raw)
	if arr, ok := raw["pain_areas"].([]interface{}); !ok || len(arr) != 0 {
		t.Errorf("Expected empty pain_areas array, got %v", raw["pain_areas"])
	}
}

func TestNewVisitCompleted_SkippedPainAreas(t *testing.T) {
	store := session.NewStore()
	store.TogglePainArea("head")
	store.ClearPainAreas()

	data, _ := json.Marshal(NewVisitCompleted(store.Get(), time.Now()))
	var raw map[string]interface{}
	_ = json.Unmarshal(data, &raw)
	if arr, ok := raw["pain_areas"].([]interface{}); !ok || len(arr) != 0 {
		t.Errorf("Expected empty pain_areas array, got %v", raw["pain_areas"])
	}
}

func TestNewVisitCompleted_CopiesPainAreas(t *testing.T) {
	st := session.NewState()
	st.Symptoms.PainAreas = []string{"head", "chest"}

	ev := NewVisitCompleted(st, time.Now())
	st.Symptoms.PainAreas[0] = "knee"
	if len(ev.PainAreas) != 2 || ev.PainAreas[0] != "head" {
		t.Errorf("Expected [head chest], got %v", ev.PainAreas)
	}
}

func TestNew_EmptyURLDisables(t *testing.T) {
	p, err := New("", "kiosk.visits.completed")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(Nop); !ok {
		t.Fatalf("Expected Nop publisher, got %T", p)
	}
	if err := p.Publish(context.Background(), VisitCompleted{}); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	p.Close()
}
