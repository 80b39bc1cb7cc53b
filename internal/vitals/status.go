// Package vitals holds the status bands derived from vital-sign readings.
package vitals

// Status is the categorical band a vital-sign reading falls into.
type Status string

const (
	StatusNone        Status = ""
	StatusNormal      Status = "Normal"
	StatusLow         Status = "Low"
	StatusElevated    Status = "Elevated"
	StatusCritical    Status = "Critical"
	StatusUnderweight Status = "Underweight"
	StatusOverweight  Status = "Overweight"
	StatusObese       Status = "Obese"
)

// Overall health classifications.
const (
	OverallGood           Status = "Good"
	OverallFair           Status = "Fair"
	OverallNeedsAttention Status = "Needs Attention"
)

// Measurement units used when rendering readings.
const (
	UnitHeight      = "cm"
	UnitWeight      = "kg"
	UnitBMI         = "kg/m²"
	UnitTemperature = "°C"
	UnitSpO2        = "%"
	UnitHeartRate   = "bpm"
	UnitPressure    = "mmHg"
)

// String returns the display label of the status.
func (s Status) String() string {
	return string(s)
}

// IsAbnormal reports whether the status counts toward a Fair or worse overall rating.
// Only Elevated and Low count; BMI categories do not.
func (s Status) IsAbnormal() bool {
	return s == StatusElevated || s == StatusLow
}

// BMICategory classifies a body-mass index.
func BMICategory(bmi float64) Status {
	switch {
	case bmi < 18.5:
		return StatusUnderweight
	case bmi < 25:
		return StatusNormal
	case bmi < 30:
		return StatusOverweight
	default:
		return StatusObese
	}
}

// TemperatureStatus classifies a body temperature in degrees Celsius.
func TemperatureStatus(celsius float64) Status {
	switch {
	case celsius < 36.1:
		return StatusLow
	case celsius > 37.5:
		return StatusElevated
	default:
		return StatusNormal
	}
}

// SpO2Status classifies a blood-oxygen saturation percentage.
func SpO2Status(percent int) Status {
	switch {
	case percent < 90:
		return StatusCritical
	case percent < 95:
		return StatusLow
	default:
		return StatusNormal
	}
}

// HeartRateStatus classifies a resting heart rate.
func HeartRateStatus(bpm int) Status {
	switch {
	case bpm < 60:
		return StatusLow
	case bpm > 100:
		return StatusElevated
	default:
		return StatusNormal
	}
}

// BloodPressureStatus classifies a systolic/diastolic pair.
// Elevated wins over Low when both apply.
func BloodPressureStatus(systolic, diastolic int) Status {
	switch {
	case systolic > 140 || diastolic > 90:
		return StatusElevated
	case systolic < 90 || diastolic < 60:
		return StatusLow
	default:
		return StatusNormal
	}
}

// OverallHealth aggregates per-vital statuses.
//
// Any Critical status, or more than two abnormal ones, needs attention.
// One or two abnormal statuses are Fair. Everything else is Good.
// Empty statuses (vitals never measured) are ignored.
func OverallHealth(statuses ...Status) Status {
	abnormal := 0
	for _, s := range statuses {
		if s == StatusCritical {
			return OverallNeedsAttention
		}
		if s.IsAbnormal() {
			abnormal++
		}
	}

	switch {
	case abnormal > 2:
		return OverallNeedsAttention
	case abnormal > 0:
		return OverallFair
	default:
		return OverallGood
	}
}

// Worst returns the most severe of the given statuses, used when a single
// screen shows several readings at once.
func Worst(statuses ...Status) Status {
	worst := StatusNone
	rank := -1
	for _, s := range statuses {
		r := severityRank(s)
		if r > rank {
			worst, rank = s, r
		}
	}
	return worst
}

func severityRank(s Status) int {
	switch s {
	case StatusCritical:
		return 4
	case StatusElevated, StatusObese:
		return 3
	case StatusLow, StatusUnderweight, StatusOverweight:
		return 2
	case StatusNormal:
		return 1
	default:
		return 0
	}
}
