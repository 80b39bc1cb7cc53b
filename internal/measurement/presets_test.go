package measurement

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/healthport/kiosk/internal/sensor"
)

type fakeReader struct {
	values    map[string]float64
	pressure  [2]int
	err       error
	requested []string
}

func (f *fakeReader) Request(_ context.Context, sensor string) error {
	f.requested = append(f.requested, sensor)
	return f.err
}

func (f *fakeReader) AwaitFloat(_ context.Context, sensor string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.values[sensor], nil
}

func (f *fakeReader) AwaitPressure(_ context.Context) (int, int, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.pressure[0], f.pressure[1], nil
}

func TestTemperatureConfig_Range(t *testing.T) {
	cfg := TemperatureConfig()
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 1000; i++ {
		v, err := cfg.Generate(context.Background(), rng)
		if err != nil {
			t.Fatal(err)
		}
		if v < 36.1 || v > 37.5 {
			t.Fatalf("Temperature %v out of [36.1, 37.5]", v)
		}
	}

	if cfg.Tick != 100*time.Millisecond || cfg.SuccessRate != 0.7 {
		t.Errorf("Unexpected timing: tick %v, success %v", cfg.Tick, cfg.SuccessRate)
	}
}

func TestSpO2Config_Range(t *testing.T) {
	cfg := SpO2Config()
	rng := rand.New(rand.NewPCG(3, 4))
	seen := make(map[int]bool)

	for i := 0; i < 2000; i++ {
		v, _ := cfg.Generate(context.Background(), rng)
		if v < 94 || v > 100 {
			t.Fatalf("SpO2 %d out of [94, 100]", v)
		}
		seen[v] = true
	}

	if len(seen) != 7 {
		t.Errorf("Expected all 7 values in [94, 100], saw %d", len(seen))
	}
}

func TestCardioConfig_Range(t *testing.T) {
	cfg := CardioConfig(nil)
	rng := rand.New(rand.NewPCG(5, 6))

	for i := 0; i < 1000; i++ {
		c, _ := cfg.Generate(context.Background(), rng)
		if c.HeartRate < 60 || c.HeartRate > 99 {
			t.Fatalf("Heart rate %d out of range", c.HeartRate)
		}
		if c.Systolic < 110 || c.Systolic > 139 {
			t.Fatalf("Systolic %d out of range", c.Systolic)
		}
		if c.Diastolic < 70 || c.Diastolic > 89 {
			t.Fatalf("Diastolic %d out of range", c.Diastolic)
		}
	}

	if cfg.Tick != 700*time.Millisecond {
		t.Errorf("Expected 700ms tick, got %v", cfg.Tick)
	}
}

func TestCardioConfig_FromSensor(t *testing.T) {
	reader := &fakeReader{values: map[string]float64{"pulse": 72}, pressure: [2]int{120, 80}}
	cfg := CardioConfig(reader)

	c, err := cfg.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if c.HeartRate != 72 || c.Systolic != 120 || c.Diastolic != 80 {
		t.Errorf("Expected 72 bpm 120/80, got %+v", c)
	}
}

func TestCardioConfig_BridgeClient(t *testing.T) {
	bridge := sensor.NewBridge(sensor.DummyDevice{}, nil, true)
	srv := httptest.NewServer(bridge.Routes())
	defer func() {
		srv.Close()
		bridge.Close()
	}()
	client := sensor.NewClient(srv.URL, 5*time.Millisecond, time.Second)

	ctx := context.Background()
	if err := CardioPrepare(client)(ctx); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	c, err := CardioConfig(client).Generate(ctx, nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if c.HeartRate != 72 || c.Systolic != 120 || c.Diastolic != 80 {
		t.Errorf("Expected 72 bpm 120/80 from the bridge, got %+v", c)
	}
}

func TestCardioConfig_SensorError(t *testing.T) {
	sensorErr := errors.New("cuff not fitted")
	cfg := CardioConfig(&fakeReader{err: sensorErr})

	if _, err := cfg.Generate(context.Background(), nil); !errors.Is(err, sensorErr) {
		t.Errorf("Expected wrapped sensor error, got %v", err)
	}
}

func TestBodyConfig_FromSensor(t *testing.T) {
	reader := &fakeReader{values: map[string]float64{"height": 172, "weight": 63.4}}
	cfg := BodyConfig(reader)

	b, err := cfg.Generate(context.Background(), rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if b.Height != 172 || b.Weight != 63.4 {
		t.Errorf("Expected 172/63.4, got %v/%v", b.Height, b.Weight)
	}
	if b.BMI != 21.4 {
		t.Errorf("Expected BMI 21.4, got %v", b.BMI)
	}
	if cfg.SuccessRate != 0.9 || cfg.Tick != 300*time.Millisecond {
		t.Errorf("Unexpected timing: tick %v, success %v", cfg.Tick, cfg.SuccessRate)
	}
}

func TestBodyConfig_SensorError(t *testing.T) {
	sensorErr := errors.New("bridge offline")
	cfg := BodyConfig(&fakeReader{err: sensorErr})

	if _, err := cfg.Generate(context.Background(), nil); !errors.Is(err, sensorErr) {
		t.Errorf("Expected wrapped sensor error, got %v", err)
	}
}

func TestBodyConfig_Synthesised(t *testing.T) {
	cfg := BodyConfig(nil)
	rng := rand.New(rand.NewPCG(9, 9))

	for i := 0; i < 500; i++ {
		b, err := cfg.Generate(context.Background(), rng)
		if err != nil {
			t.Fatal(err)
		}
		if b.Height < 150 || b.Height > 190 || b.Weight < 55 || b.Weight > 64 {
			t.Fatalf("Implausible synthesised body %+v", b)
		}
		if b.BMI <= 0 {
			t.Fatalf("Expected BMI computed, got %v", b.BMI)
		}
	}
}

func TestPrepare_RequestsSensors(t *testing.T) {
	reader := &fakeReader{}
	if err := BodyPrepare(reader)(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := CardioPrepare(reader)(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []string{"height", "weight", "pulse", "bp"}
	if len(reader.requested) != len(want) {
		t.Fatalf("Expected %v, got %v", want, reader.requested)
	}
	for i := range want {
		if reader.requested[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, reader.requested)
		}
	}

	if err := BodyPrepare(nil)(context.Background()); err != nil {
		t.Errorf("Expected nil reader to be a no-op, got %v", err)
	}
}
