package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SaveToYAML writes the visit to path.
func SaveToYAML(s State, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// LoadFromYAML reads a visit written by SaveToYAML. Enumerated fields are
// validated; derived health metrics are recomputed from the readings.
func LoadFromYAML(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("read session file: %w", err)
	}

	s := NewState()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("parse session file: %w", err)
	}

	if s.Identity.Language == "" {
		s.Identity.Language = LanguageEnglish
	} else if s.Identity.Language, err = ParseLanguage(string(s.Identity.Language)); err != nil {
		return State{}, err
	}
	if s.Diagnosis.Severity == "" {
		s.Diagnosis.Severity = SeverityLow
	} else if s.Diagnosis.Severity, err = ParseSeverity(string(s.Diagnosis.Severity)); err != nil {
		return State{}, err
	}
	if s.Diagnosis.NextStep == "" {
		s.Diagnosis.NextStep = NextStepSelfCare
	} else if s.Diagnosis.NextStep, err = ParseNextStep(string(s.Diagnosis.NextStep)); err != nil {
		return State{}, err
	}

	s.HealthMetrics = Derive(s.Biometrics)
	return s, nil
}
