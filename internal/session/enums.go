package session

import (
	"fmt"
	"strings"
)

// Language is the kiosk language chosen on the welcome screen.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageAkan    Language = "akan"
	LanguageFrench  Language = "french"
)

// Languages lists the supported languages in display order.
var Languages = []Language{LanguageEnglish, LanguageAkan, LanguageFrench}

// Label returns the human-readable language name.
func (l Language) Label() string {
	switch l {
	case LanguageAkan:
		return "Akan (Twi)"
	case LanguageFrench:
		return "Français"
	default:
		return "English"
	}
}

// ParseLanguage parses a language name. Matching is case-insensitive.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageAkan:
		return LanguageAkan, nil
	case LanguageFrench:
		return LanguageFrench, nil
	default:
		return LanguageEnglish, fmt.Errorf("invalid language: %s (valid: english, akan, french)", s)
	}
}

// Severity grades a diagnosis.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Label returns the text shown on the summary screen.
func (s Severity) Label() string {
	switch s {
	case SeverityHigh:
		return "High Severity"
	case SeverityMedium:
		return "Moderate Severity"
	default:
		return "Low Severity"
	}
}

// ParseSeverity parses a severity. Matching is case-insensitive.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow, nil
	case SeverityMedium, "moderate":
		return SeverityMedium, nil
	case SeverityHigh:
		return SeverityHigh, nil
	default:
		return SeverityLow, fmt.Errorf("invalid severity: %s (valid: low, medium, high)", s)
	}
}

// NextStep is where the patient goes after the diagnosis summary.
type NextStep string

const (
	NextStepConsultation NextStep = "consultation"
	NextStepMedication   NextStep = "medication"
	NextStepSelfCare     NextStep = "selfCare"
	NextStepReferral     NextStep = "referral"
)

// Label returns the option title shown on the summary screen.
func (n NextStep) Label() string {
	switch n {
	case NextStepConsultation:
		return "Video Consultation"
	case NextStepMedication:
		return "Medication"
	case NextStepReferral:
		return "Referral"
	default:
		return "Self-Care"
	}
}

// ParseNextStep parses a next step. Accepts the camelCase form and
// common spellings such as "self-care".
func ParseNextStep(s string) (NextStep, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "consultation":
		return NextStepConsultation, nil
	case "medication":
		return NextStepMedication, nil
	case "selfcare", "self-care", "self_care":
		return NextStepSelfCare, nil
	case "referral":
		return NextStepReferral, nil
	default:
		return NextStepSelfCare, fmt.Errorf("invalid next step: %s (valid: consultation, medication, selfCare, referral)", s)
	}
}
