package sensor

import (
	"context"
	"fmt"
	"time"
)

// DummyValues are the placeholder readings the bridge answers with while a
// real reading is being taken.
var DummyValues = map[string]string{
	Height:      "172",
	Weight:      "63.4",
	Temperature: "36.5",
	Pulse:       "72",
	BP:          "120/80",
}

// Device takes one reading from the measuring hardware.
type Device interface {
	Fetch(ctx context.Context, sensor string) (string, error)
}

// DummyDevice stands in for the hardware: it waits Delay and returns the
// dummy value for the sensor.
type DummyDevice struct {
	Delay time.Duration
}

// Fetch implements Device.
func (d DummyDevice) Fetch(ctx context.Context, sensor string) (string, error) {
	value, ok := DummyValues[sensor]
	if !ok {
		return "", fmt.Errorf("%s: %w", sensor, ErrUnknownSensor)
	}

	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return value, nil
}
