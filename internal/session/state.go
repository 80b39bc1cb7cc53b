// Package session holds the accumulating record of one kiosk visit.
package session

import (
	"github.com/google/uuid"

	"github.com/healthport/kiosk/internal/vitals"
)

// State is everything collected during one visit.
type State struct {
	VisitID       string        `yaml:"visit_id"`
	Identity      Identity      `yaml:"identity"`
	Biometrics    Biometrics    `yaml:"biometrics"`
	HealthMetrics HealthMetrics `yaml:"health_metrics"`
	Symptoms      Symptoms      `yaml:"symptoms"`
	Conversation  Conversation  `yaml:"conversation"`
	Diagnosis     Diagnosis     `yaml:"diagnosis"`
	Feedback      Feedback      `yaml:"feedback"`
}

// Identity holds who the patient is and how they want to be served.
type Identity struct {
	Name          string        `yaml:"name"`
	Age           int           `yaml:"age"`
	Gender        string        `yaml:"gender"`
	NationalID    string        `yaml:"national_id"`
	Language      Language      `yaml:"language"`
	Accessibility Accessibility `yaml:"accessibility"`
}

// Accessibility flags chosen on the welcome screen.
type Accessibility struct {
	Voice     bool `yaml:"voice"`
	LargeText bool `yaml:"large_text"`
}

// Biometrics are the raw readings. Zero means not measured.
type Biometrics struct {
	Height        float64       `yaml:"height_cm"`
	Weight        float64       `yaml:"weight_kg"`
	BMI           float64       `yaml:"bmi"`
	Temperature   float64       `yaml:"temperature_c"`
	SpO2          int           `yaml:"spo2_percent"`
	HeartRate     int           `yaml:"heart_rate_bpm"`
	BloodPressure BloodPressure `yaml:"blood_pressure"`
}

// BloodPressure in mmHg.
type BloodPressure struct {
	Systolic  int `yaml:"systolic"`
	Diastolic int `yaml:"diastolic"`
}

// HealthMetrics are the status bands derived from Biometrics.
type HealthMetrics struct {
	BMICategory         vitals.Status `yaml:"bmi_category"`
	TemperatureStatus   vitals.Status `yaml:"temperature_status"`
	SpO2Status          vitals.Status `yaml:"spo2_status"`
	HeartRateStatus     vitals.Status `yaml:"heart_rate_status"`
	BloodPressureStatus vitals.Status `yaml:"blood_pressure_status"`
	OverallHealth       vitals.Status `yaml:"overall_health"`
}

// Symptoms reported by the patient. PainAreas keeps selection order.
// Reported is set once the patient submits or skips pain selection.
type Symptoms struct {
	Description string   `yaml:"description"`
	PainAreas   []string `yaml:"pain_areas"`
	Reported    bool     `yaml:"reported"`
}

// Conversation is the outcome of the AI consultation.
type Conversation struct {
	Summary         string    `yaml:"summary"`
	Recommendations []string  `yaml:"recommendations"`
	Transcript      []Message `yaml:"transcript,omitempty"`
}

// Message is one transcript entry.
type Message struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// Diagnosis drives the outcome screen.
type Diagnosis struct {
	Condition string   `yaml:"condition"`
	Severity  Severity `yaml:"severity"`
	NextStep  NextStep `yaml:"next_step"`
}

// Feedback left on the exit screen. Rating 0 means unrated.
type Feedback struct {
	Rating   int    `yaml:"rating"`
	Comments string `yaml:"comments"`
}

// NewState returns the defaults for a fresh visit.
func NewState() State {
	return State{
		VisitID: uuid.NewString(),
		Identity: Identity{
			Language: LanguageEnglish,
		},
		Diagnosis: Diagnosis{
			Severity: SeverityLow,
			NextStep: NextStepSelfCare,
		},
	}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	c := s
	c.Symptoms.PainAreas = cloneStrings(s.Symptoms.PainAreas)
	c.Conversation.Recommendations = cloneStrings(s.Conversation.Recommendations)
	if s.Conversation.Transcript != nil {
		c.Conversation.Transcript = make([]Message, len(s.Conversation.Transcript))
		copy(c.Conversation.Transcript, s.Conversation.Transcript)
	}
	return c
}

// cloneStrings copies src, keeping the nil/empty distinction.
func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// Derive computes the status bands for b. Unmeasured readings get an
// empty status and are left out of the overall rating.
func Derive(b Biometrics) HealthMetrics {
	var m HealthMetrics
	if b.BMI > 0 {
		m.BMICategory = vitals.BMICategory(b.BMI)
	}
	if b.Temperature > 0 {
		m.TemperatureStatus = vitals.TemperatureStatus(b.Temperature)
	}
	if b.SpO2 > 0 {
		m.SpO2Status = vitals.SpO2Status(b.SpO2)
	}
	if b.HeartRate > 0 {
		m.HeartRateStatus = vitals.HeartRateStatus(b.HeartRate)
	}
	if b.BloodPressure.Systolic > 0 && b.BloodPressure.Diastolic > 0 {
		m.BloodPressureStatus = vitals.BloodPressureStatus(b.BloodPressure.Systolic, b.BloodPressure.Diastolic)
	}
	m.OverallHealth = vitals.OverallHealth(
		m.BMICategory,
		m.TemperatureStatus,
		m.SpO2Status,
		m.HeartRateStatus,
		m.BloodPressureStatus,
	)
	return m
}
