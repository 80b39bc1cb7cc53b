// Package report renders the printed visit receipt.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthport/kiosk/internal/session"
	"github.com/healthport/kiosk/internal/vitals"
)

const (
	header   = "--- Health Report ---"
	followUp = "Follow up in 2 weeks or sooner if symptoms worsen."
	qrPrompt = "Scan the QR Code to access results"
	// ResultsURL is encoded in the receipt's QR code.
	ResultsURL = "https://healthport.com"
)

// Receipt is one printed visit summary.
type Receipt struct {
	Number   string
	IssuedAt time.Time
	State    session.State
}

// New numbers a receipt for st.
func New(st session.State, now time.Time) Receipt {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return Receipt{
		Number:   "HP-" + id[:10],
		IssuedAt: now,
		State:    st,
	}
}

// Lines returns the receipt body, one printed line per entry. Empty
// strings are blank lines.
func (r Receipt) Lines() []string {
	st := r.State
	id, bio, hm := st.Identity, st.Biometrics, st.HealthMetrics

	lines := []string{
		header,
		"",
		"Receipt: " + r.Number,
		"Date: " + r.IssuedAt.Format("2006-01-02 15:04"),
		"",
		"Details:",
		"Name: " + orDash(id.Name),
		"Age: " + orDash(intOrEmpty(id.Age)),
		"Gender: " + orDash(id.Gender),
		"Height: " + measured(bio.Height, vitals.UnitHeight),
		"Weight: " + measured(bio.Weight, vitals.UnitWeight),
		"",
		"Vitals:",
		"BMI: " + withStatus(measured(bio.BMI, ""), hm.BMICategory),
		"Temperature: " + withStatus(measured(bio.Temperature, vitals.UnitTemperature), hm.TemperatureStatus),
		"SpO2: " + withStatus(measured(float64(bio.SpO2), vitals.UnitSpO2), hm.SpO2Status),
		"Heart Rate: " + withStatus(measured(float64(bio.HeartRate), vitals.UnitHeartRate), hm.HeartRateStatus),
		"Blood Pressure: " + withStatus(pressure(bio.BloodPressure), hm.BloodPressureStatus),
	}
	if hm.OverallHealth != vitals.StatusNone {
		lines = append(lines, "Overall Health: "+hm.OverallHealth.String())
	}

	if st.Diagnosis.Condition != "" {
		lines = append(lines,
			"",
			"Diagnosis: "+st.Diagnosis.Condition,
			"Severity: "+st.Diagnosis.Severity.Label(),
		)
	}
	lines = append(lines, "Next Step: "+st.Diagnosis.NextStep.Label())

	lines = append(lines, "", "Prescription")
	lines = append(lines, numbered(prescription(st.Diagnosis.NextStep))...)
	lines = append(lines, "", "Instructions:")
	lines = append(lines, numbered(instructions(st))...)

	lines = append(lines, "", followUp, "", qrPrompt, ResultsURL)
	return lines
}

// Text is the receipt as printable text.
func (r Receipt) Text() string {
	return strings.Join(r.Lines(), "\n") + "\n"
}

func prescription(next session.NextStep) []string {
	if next == session.NextStepMedication || next == session.NextStepSelfCare {
		m := DispensedMedication
		return []string{fmt.Sprintf("%s %s (%s)", m.Name, m.Dosage, m.Quantity)}
	}
	return []string{"None"}
}

func instructions(st session.State) []string {
	var out []string
	switch st.Diagnosis.NextStep {
	case session.NextStepConsultation:
		out = append(out, "Video consultation with "+ConsultingDoctor+".")
	case session.NextStepReferral:
		c := NearbyClinics[0]
		out = append(out, fmt.Sprintf("Visit %s, %s (%s).", c.Name, c.Address, c.Phone))
	default:
		out = append(out, DispensedMedication.Instructions)
	}
	out = append(out, st.Conversation.Recommendations...)
	return out
}

func numbered(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return out
}

func measured(v float64, unit string) string {
	if v <= 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + unit
}

func pressure(bp session.BloodPressure) string {
	if bp.Systolic <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d%s", bp.Systolic, bp.Diastolic, vitals.UnitPressure)
}

func withStatus(value string, s vitals.Status) string {
	if s == vitals.StatusNone {
		return value
	}
	return fmt.Sprintf("%s (%s)", value, s)
}

func intOrEmpty(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
