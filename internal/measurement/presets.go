package measurement

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/healthport/kiosk/internal/vitals"
)

// SensorReader is the part of the sensor bridge the presets need.
type SensorReader interface {
	// Request asks the bridge to start a reading and returns immediately.
	Request(ctx context.Context, sensor string) error
	// AwaitFloat polls until the reading is ready and parses it.
	AwaitFloat(ctx context.Context, sensor string) (float64, error)
	// AwaitPressure polls for a "systolic/diastolic" reading.
	AwaitPressure(ctx context.Context) (systolic, diastolic int, err error)
}

// Body is a height and weight reading with its BMI.
type Body struct {
	Height float64
	Weight float64
	BMI    float64
}

// Cardio is a heart rate and blood pressure reading.
type Cardio struct {
	HeartRate int
	Systolic  int
	Diastolic int
}

// BodyConfig measures height and weight. With a reader the values come from
// the sensor bridge; without one they are synthesised.
func BodyConfig(reader SensorReader) Config[Body] {
	return Config[Body]{
		Name:        "height & weight",
		Tick:        300 * time.Millisecond,
		Step:        2,
		SuccessRate: 0.9,
		Generate: func(ctx context.Context, rng *rand.Rand) (Body, error) {
			var b Body
			if reader == nil {
				b.Height = vitals.Round1(150 + rng.Float64()*40)
				b.Weight = math.Floor(55 + rng.Float64()*10)
			} else {
				var err error
				if b.Height, err = reader.AwaitFloat(ctx, "height"); err != nil {
					return Body{}, fmt.Errorf("read height: %w", err)
				}
				if b.Weight, err = reader.AwaitFloat(ctx, "weight"); err != nil {
					return Body{}, fmt.Errorf("read weight: %w", err)
				}
			}
			bmi, ok := vitals.ComputeBMI(b.Height, b.Weight)
			if !ok {
				return Body{}, fmt.Errorf("implausible reading: height %v, weight %v", b.Height, b.Weight)
			}
			b.BMI = bmi
			return b, nil
		},
		Classify: func(b Body) vitals.Status {
			return vitals.BMICategory(b.BMI)
		},
	}
}

// BodyPrepare returns the request that starts a body reading on the bridge.
func BodyPrepare(reader SensorReader) func(ctx context.Context) error {
	return requestAll(reader, "height", "weight")
}

// TemperatureConfig synthesises a temperature in [36.1, 37.5] °C.
func TemperatureConfig() Config[float64] {
	return Config[float64]{
		Name:        "temperature",
		Tick:        100 * time.Millisecond,
		Step:        2,
		SuccessRate: 0.7,
		Generate: func(_ context.Context, rng *rand.Rand) (float64, error) {
			return vitals.Round1(36.1 + rng.Float64()*1.4), nil
		},
		Classify: vitals.TemperatureStatus,
	}
}

// SpO2Config synthesises an oxygen saturation in [94, 100] %.
func SpO2Config() Config[int] {
	return Config[int]{
		Name:        "oxygen saturation",
		Tick:        200 * time.Millisecond,
		Step:        2,
		SuccessRate: 0.7,
		Generate: func(_ context.Context, rng *rand.Rand) (int, error) {
			return int(math.Floor(94 + rng.Float64()*7)), nil
		},
		Classify: vitals.SpO2Status,
	}
}

// CardioConfig measures heart rate and blood pressure. With a reader the
// values come from the pulse and bp sensors; without one it synthesises heart
// rate [60, 99] bpm, systolic [110, 139] and diastolic [70, 89] mmHg.
func CardioConfig(reader SensorReader) Config[Cardio] {
	return Config[Cardio]{
		Name:        "heart rate",
		Tick:        700 * time.Millisecond,
		Step:        2,
		SuccessRate: 0.7,
		Generate: func(ctx context.Context, rng *rand.Rand) (Cardio, error) {
			if reader == nil {
				return Cardio{
					HeartRate: int(math.Floor(60 + rng.Float64()*40)),
					Systolic:  int(math.Floor(110 + rng.Float64()*30)),
					Diastolic: int(math.Floor(70 + rng.Float64()*20)),
				}, nil
			}
			pulse, err := reader.AwaitFloat(ctx, "pulse")
			if err != nil {
				return Cardio{}, fmt.Errorf("read pulse: %w", err)
			}
			sys, dia, err := reader.AwaitPressure(ctx)
			if err != nil {
				return Cardio{}, fmt.Errorf("read blood pressure: %w", err)
			}
			return Cardio{HeartRate: int(math.Round(pulse)), Systolic: sys, Diastolic: dia}, nil
		},
		Classify: func(c Cardio) vitals.Status {
			return vitals.Worst(
				vitals.HeartRateStatus(c.HeartRate),
				vitals.BloodPressureStatus(c.Systolic, c.Diastolic),
			)
		},
	}
}

// CardioPrepare asks the bridge to start pulse and blood-pressure readings.
func CardioPrepare(reader SensorReader) func(ctx context.Context) error {
	return requestAll(reader, "pulse", "bp")
}

func requestAll(reader SensorReader, sensors ...string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if reader == nil {
			return nil
		}
		for _, s := range sensors {
			if err := reader.Request(ctx, s); err != nil {
				return fmt.Errorf("request %s: %w", s, err)
			}
		}
		return nil
	}
}
