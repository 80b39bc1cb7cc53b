package help

import (
	"strings"
	"testing"

	"github.com/healthport/kiosk/internal/flow"
	"github.com/healthport/kiosk/internal/vitals"
)

func TestTexts_CoverEveryScreen(t *testing.T) {
	for screen := flow.ScreenWelcome; screen <= flow.ScreenExit; screen++ {
		if _, ok := Texts[screen.String()]; !ok {
			t.Errorf("Missing help for %s", screen)
		}
	}
}

func TestTexts_RangesMatchStatusBands(t *testing.T) {
	tests := []struct {
		screen   string
		fragment string
		normal   []vitals.Status
		outside  []vitals.Status
	}{
		{
			screen:   "temperature",
			fragment: "36.1 to 37.5 °C",
			normal:   []vitals.Status{vitals.TemperatureStatus(36.1), vitals.TemperatureStatus(37.5)},
			outside:  []vitals.Status{vitals.TemperatureStatus(36.0), vitals.TemperatureStatus(37.6)},
		},
		{
			screen:   "spo2",
			fragment: "95% or more",
			normal:   []vitals.Status{vitals.SpO2Status(95), vitals.SpO2Status(100)},
			outside:  []vitals.Status{vitals.SpO2Status(94)},
		},
		{
			screen:   "heart-rate",
			fragment: "60 to 100 bpm",
			normal:   []vitals.Status{vitals.HeartRateStatus(60), vitals.HeartRateStatus(100)},
			outside:  []vitals.Status{vitals.HeartRateStatus(59), vitals.HeartRateStatus(101)},
		},
		{
			screen:   "heart-rate",
			fragment: "90/60 to 140/90 mmHg",
			normal:   []vitals.Status{vitals.BloodPressureStatus(90, 60), vitals.BloodPressureStatus(140, 90)},
			outside:  []vitals.Status{vitals.BloodPressureStatus(89, 70), vitals.BloodPressureStatus(141, 80)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			if !strings.Contains(Texts[tt.screen].Details, tt.fragment) {
				t.Errorf("Expected %s help to mention %q, got %q", tt.screen, tt.fragment, Texts[tt.screen].Details)
			}
			for _, s := range tt.normal {
				if s != vitals.StatusNormal {
					t.Errorf("Expected Normal at the stated bounds, got %s", s)
				}
			}
			for _, s := range tt.outside {
				if s == vitals.StatusNormal {
					t.Error("Expected a reading outside the stated range not to be Normal")
				}
			}
		})
	}
}
