// Package flow decides which kiosk screen is shown.
package flow

// Step is a position in the main kiosk sequence.
type Step int

const (
	StepWelcome Step = iota
	StepIdentification
	StepBiometrics
	StepTemperature
	StepSpO2
	StepHeartRate
	StepDashboard
	StepPainSelection
	StepConversation
	StepSummary
	StepOutcome
	StepExit
)

// StepCount is the number of steps in the main sequence.
const StepCount = int(StepExit) + 1

// String returns the step key, also used to look up help and catalog entries.
func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepIdentification:
		return "identification"
	case StepBiometrics:
		return "biometrics"
	case StepTemperature:
		return "temperature"
	case StepSpO2:
		return "spo2"
	case StepHeartRate:
		return "heart-rate"
	case StepDashboard:
		return "dashboard"
	case StepPainSelection:
		return "pain-selection"
	case StepConversation:
		return "ai-conversation"
	case StepSummary:
		return "summary"
	case StepOutcome:
		return "outcome"
	case StepExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Title returns the English heading shown in the kiosk header.
func (s Step) Title() string {
	switch s {
	case StepWelcome:
		return "Welcome"
	case StepIdentification:
		return "Identification"
	case StepBiometrics:
		return "Height & Weight"
	case StepTemperature:
		return "Temperature"
	case StepSpO2:
		return "Oxygen Saturation"
	case StepHeartRate:
		return "Heart Rate"
	case StepDashboard:
		return "Health Dashboard"
	case StepPainSelection:
		return "Pain Areas"
	case StepConversation:
		return "AI Consultation"
	case StepSummary:
		return "Diagnosis Summary"
	case StepOutcome:
		return "Next Steps"
	case StepExit:
		return "Thank You"
	default:
		return ""
	}
}

// Screen identifies a concrete screen, including the terminal screens the
// outcome step can resolve to.
type Screen int

const (
	ScreenWelcome Screen = iota
	ScreenIdentification
	ScreenBiometrics
	ScreenTemperature
	ScreenSpO2
	ScreenHeartRate
	ScreenDashboard
	ScreenPainSelection
	ScreenConversation
	ScreenSummary
	ScreenConsultation
	ScreenMedication
	ScreenReferral
	ScreenExit
)

// String returns the screen key.
func (s Screen) String() string {
	switch s {
	case ScreenConsultation:
		return "consultation"
	case ScreenMedication:
		return "medication"
	case ScreenReferral:
		return "referral"
	case ScreenExit:
		return "exit"
	}
	if s >= ScreenWelcome && s <= ScreenSummary {
		return Step(s).String()
	}
	return "unknown"
}

// IsTerminal reports whether s is one of the outcome screens.
func (s Screen) IsTerminal() bool {
	return s == ScreenConsultation || s == ScreenMedication || s == ScreenReferral
}
