package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/healthport/kiosk/internal/vitals"
)

func TestHelpCard(t *testing.T) {
	card := HelpCard("temperature", 0, false)

	for _, want := range []string{"TEMPERATURE", "Hold your forehead", "• Normal is 36.1 to 37.5 °C.", "F1: close help"} {
		if !strings.Contains(card, want) {
			t.Errorf("Expected help card to contain %q, got:\n%s", want, card)
		}
	}
}

func TestHelpCard_OneBulletPerDetailLine(t *testing.T) {
	card := HelpCard("heart-rate", 0, false)
	if got := strings.Count(card, "•"); got != 2 {
		t.Errorf("Expected 2 bullets, got %d", got)
	}
}

func TestHelpCard_Width(t *testing.T) {
	if got := lipgloss.Width(HelpCard("exit", 100, false)); got != 96+2 {
		t.Errorf("Expected card width 98, got %d", got)
	}
	if got := lipgloss.Width(HelpCard("exit", 10, false)); got != minHelpWidth+2 {
		t.Errorf("Expected card clamped to %d, got %d", minHelpWidth+2, got)
	}
}

func TestHelpCard_LargeTextAddsPadding(t *testing.T) {
	normal := lipgloss.Height(HelpCard("exit", 80, false))
	large := lipgloss.Height(HelpCard("exit", 80, true))
	if large != normal+2 {
		t.Errorf("Expected large text to add 2 lines, got %d and %d", normal, large)
	}
}

func TestHelpCard_UnknownScreen(t *testing.T) {
	if card := HelpCard("outcome", 80, false); card != "" {
		t.Errorf("Expected no card, got %q", card)
	}
}

func TestRenderStatus(t *testing.T) {
	if got := RenderStatus(vitals.StatusNone); !strings.Contains(got, "-") {
		t.Errorf("Expected dash for unmeasured vital, got %q", got)
	}
	if got := RenderStatus(vitals.StatusElevated); !strings.Contains(got, "Elevated") {
		t.Errorf("Expected Elevated label, got %q", got)
	}
}
