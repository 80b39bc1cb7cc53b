package flow

import (
	"testing"

	"github.com/healthport/kiosk/internal/session"
)

func TestAdvance_IncrementsThroughSequence(t *testing.T) {
	c := NewController()

	for i := 0; i <= 10; i++ {
		if c.Index() != i {
			t.Fatalf("Expected index %d, got %d", i, c.Index())
		}
		if got := c.Advance(); got != i+1 {
			t.Errorf("Advance() from %d = %d, want %d", i, got, i+1)
		}
	}
}

func TestAdvance_ClampsAtExit(t *testing.T) {
	c := NewController()
	for i := 0; i < 20; i++ {
		c.Advance()
	}

	if c.Index() != StepCount-1 {
		t.Errorf("Expected index %d, got %d", StepCount-1, c.Index())
	}
	if c.Current(session.NextStepMedication) != ScreenExit {
		t.Errorf("Expected exit screen, got %v", c.Current(session.NextStepMedication))
	}
}

func TestRetreat_StaysAtZero(t *testing.T) {
	c := NewController()
	if got := c.Retreat(); got != 0 {
		t.Errorf("Retreat() from 0 = %d, want 0", got)
	}

	c.Advance()
	c.Advance()
	if got := c.Retreat(); got != 1 {
		t.Errorf("Retreat() from 2 = %d, want 1", got)
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		next     session.NextStep
		expected Screen
	}{
		{session.NextStepConsultation, ScreenConsultation},
		{session.NextStepMedication, ScreenMedication},
		{session.NextStepReferral, ScreenReferral},
		{session.NextStepSelfCare, ScreenMedication},
		{"", ScreenMedication},
		{"surgery", ScreenMedication},
	}

	for _, tc := range tests {
		t.Run(string(tc.next), func(t *testing.T) {
			if got := Route(tc.next); got != tc.expected {
				t.Errorf("Route(%q) = %v, want %v", tc.next, got, tc.expected)
			}
		})
	}
}

func TestScreenAt(t *testing.T) {
	steps := []Screen{
		ScreenWelcome, ScreenIdentification, ScreenBiometrics, ScreenTemperature,
		ScreenSpO2, ScreenHeartRate, ScreenDashboard, ScreenPainSelection,
		ScreenConversation, ScreenSummary,
	}
	for i, want := range steps {
		if got := ScreenAt(i, session.NextStepSelfCare); got != want {
			t.Errorf("ScreenAt(%d) = %v, want %v", i, got, want)
		}
	}

	if got := ScreenAt(10, session.NextStepReferral); got != ScreenReferral {
		t.Errorf("ScreenAt(10, referral) = %v, want referral", got)
	}
	if got := ScreenAt(11, session.NextStepReferral); got != ScreenExit {
		t.Errorf("ScreenAt(11) = %v, want exit", got)
	}
}

func TestScreenAt_UnmappedFallsBackToWelcome(t *testing.T) {
	for _, idx := range []int{-1, 12, 99} {
		if got := ScreenAt(idx, session.NextStepConsultation); got != ScreenWelcome {
			t.Errorf("ScreenAt(%d) = %v, want welcome", idx, got)
		}
	}

	c := NewController()
	c.Jump(42)
	if got := c.Current(session.NextStepMedication); got != ScreenWelcome {
		t.Errorf("Current() at 42 = %v, want welcome", got)
	}
}

func TestReset(t *testing.T) {
	c := NewController()
	c.Advance()
	c.Advance()
	c.Reset()
	if c.Index() != 0 {
		t.Errorf("Expected index 0 after reset, got %d", c.Index())
	}
}

func TestStepTitles(t *testing.T) {
	want := []string{
		"Welcome", "Identification", "Height & Weight", "Temperature",
		"Oxygen Saturation", "Heart Rate", "Health Dashboard", "Pain Areas",
		"AI Consultation", "Diagnosis Summary", "Next Steps", "Thank You",
	}
	if len(want) != StepCount {
		t.Fatalf("Expected %d steps, got %d", len(want), StepCount)
	}
	for i, title := range want {
		if got := Step(i).Title(); got != title {
			t.Errorf("Step(%d).Title() = %q, want %q", i, got, title)
		}
	}
}

func TestScreen_String(t *testing.T) {
	if ScreenSpO2.String() != "spo2" {
		t.Errorf("Expected spo2, got %q", ScreenSpO2.String())
	}
	if ScreenReferral.String() != "referral" {
		t.Errorf("Expected referral, got %q", ScreenReferral.String())
	}
	if !ScreenConsultation.IsTerminal() || ScreenExit.IsTerminal() {
		t.Error("Unexpected IsTerminal result")
	}
}
