package vitals

import "math"

// ComputeBMI returns weight/(height/100)² rounded to one decimal place.
// ok is false when either input is missing.
func ComputeBMI(heightCm, weightKg float64) (bmi float64, ok bool) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, false
	}
	meters := heightCm / 100
	return Round1(weightKg / (meters * meters)), true
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
