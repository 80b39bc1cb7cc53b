package measurement

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/healthport/kiosk/internal/vitals"
)

func constConfig(rate float64, value int) Config[int] {
	return Config[int]{
		Name:        "test",
		Tick:        time.Millisecond,
		Step:        2,
		SuccessRate: rate,
		Generate: func(context.Context, *rand.Rand) (int, error) {
			return value, nil
		},
		Classify: vitals.HeartRateStatus,
	}
}

func tickToEnd(t *testing.T, s *Simulator[int], attempt uint64) int {
	t.Helper()
	ticks := 0
	for !s.Tick(attempt) {
		ticks++
		if ticks > 1000 {
			t.Fatal("progress never reached 100")
		}
	}
	return ticks + 1
}

func TestSimulator_SuccessfulRun(t *testing.T) {
	s := New(constConfig(1, 72), rand.New(rand.NewPCG(1, 0)))

	if s.Stage() != StageInstructions {
		t.Fatalf("Expected instructions stage, got %v", s.Stage())
	}

	attempt, err := s.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.Stage() != StageMeasuring {
		t.Fatalf("Expected measuring stage, got %v", s.Stage())
	}

	if ticks := tickToEnd(t, s, attempt); ticks != 50 {
		t.Errorf("Expected 50 ticks at step 2, got %d", ticks)
	}

	result, err := s.Resolve(context.Background(), attempt)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if result.Value != 72 {
		t.Errorf("Expected value 72, got %d", result.Value)
	}
	if result.Status != vitals.StatusNormal {
		t.Errorf("Expected status Normal, got %q", result.Status)
	}
	if s.Stage() != StageComplete {
		t.Errorf("Expected complete stage, got %v", s.Stage())
	}
	if s.Progress() != 100 {
		t.Errorf("Expected progress 100, got %v", s.Progress())
	}
}

func TestSimulator_FailedRunAndTryAgain(t *testing.T) {
	s := New(constConfig(0, 72), rand.New(rand.NewPCG(1, 0)))

	attempt, _ := s.Start()
	tickToEnd(t, s, attempt)

	_, err := s.Resolve(context.Background(), attempt)
	if !errors.Is(err, ErrReadingFailed) {
		t.Fatalf("Expected ErrReadingFailed, got %v", err)
	}
	if s.Stage() != StageFailed {
		t.Fatalf("Expected failed stage, got %v", s.Stage())
	}
	if s.Err() == nil {
		t.Error("Expected Err to report the failure")
	}

	if !s.TryAgain() {
		t.Fatal("TryAgain should succeed from failed")
	}
	if s.Stage() != StageInstructions || s.Progress() != 0 {
		t.Errorf("Expected instructions with progress 0, got %v / %v", s.Stage(), s.Progress())
	}
	if _, err := s.Start(); err != nil {
		t.Errorf("Start after TryAgain failed: %v", err)
	}
}

func TestSimulator_StartWhileMeasuring(t *testing.T) {
	s := New(constConfig(1, 72), nil)
	if _, err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Start(); !errors.Is(err, ErrAlreadyMeasuring) {
		t.Errorf("Expected ErrAlreadyMeasuring, got %v", err)
	}
}

func TestSimulator_TryAgainOnlyFromFailed(t *testing.T) {
	s := New(constConfig(1, 72), nil)
	if s.TryAgain() {
		t.Error("TryAgain should be refused from instructions")
	}
}

func TestSimulator_ResolveIsOneShot(t *testing.T) {
	s := New(constConfig(1, 72), rand.New(rand.NewPCG(3, 0)))
	attempt, _ := s.Start()
	tickToEnd(t, s, attempt)

	if _, err := s.Resolve(context.Background(), attempt); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Resolve(context.Background(), attempt); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady on second resolve, got %v", err)
	}
}

func TestSimulator_ResolveBeforeComplete(t *testing.T) {
	s := New(constConfig(1, 72), nil)
	attempt, _ := s.Start()
	s.Tick(attempt)

	if _, err := s.Resolve(context.Background(), attempt); !errors.Is(err, ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
}

func TestSimulator_CancelDiscardsStaleTicks(t *testing.T) {
	s := New(constConfig(1, 72), nil)
	old, _ := s.Start()
	s.Tick(old)
	s.Cancel()

	if s.Stage() != StageInstructions {
		t.Fatalf("Expected instructions after cancel, got %v", s.Stage())
	}

	current, _ := s.Start()
	if current == old {
		t.Fatal("Expected a new attempt ID")
	}
	s.Tick(old)
	s.Tick(old)
	if s.Progress() != 0 {
		t.Errorf("Expected stale ticks ignored, progress %v", s.Progress())
	}

	s.Tick(current)
	if s.Progress() != 2 {
		t.Errorf("Expected progress 2, got %v", s.Progress())
	}
}

func TestSimulator_LateResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	cfg := constConfig(1, 72)
	cfg.Generate = func(context.Context, *rand.Rand) (int, error) {
		close(entered)
		<-release
		return 150, nil
	}

	s := New(cfg, rand.New(rand.NewPCG(5, 0)))
	attempt, _ := s.Start()
	tickToEnd(t, s, attempt)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Resolve(context.Background(), attempt)
		errc <- err
	}()

	<-entered
	s.Cancel()
	close(release)

	if err := <-errc; !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("Expected ErrStaleAttempt, got %v", err)
	}
	if _, ok := s.Result(); ok {
		t.Error("Expected no completed result after cancel")
	}
	if s.Stage() != StageInstructions {
		t.Errorf("Expected instructions stage, got %v", s.Stage())
	}
}

func TestSimulator_ContextCancelledDuringRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := constConfig(1, 72)
	cfg.Generate = func(ctx context.Context, _ *rand.Rand) (int, error) {
		cancel()
		return 0, ctx.Err()
	}

	s := New(cfg, rand.New(rand.NewPCG(6, 0)))
	attempt, _ := s.Start()
	tickToEnd(t, s, attempt)

	if _, err := s.Resolve(ctx, attempt); !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("Expected ErrStaleAttempt, got %v", err)
	}
	if s.Stage() != StageInstructions || s.Progress() != 0 {
		t.Errorf("Expected instructions at 0%%, got %v at %v", s.Stage(), s.Progress())
	}
	if s.Tick(attempt) {
		t.Error("Expected ticks for the abandoned attempt to be ignored")
	}

	next, err := s.Start()
	if err != nil {
		t.Fatalf("Expected a new run to start, got %v", err)
	}
	if next == attempt {
		t.Error("Expected a new attempt ID")
	}
}

func TestSimulator_Run(t *testing.T) {
	s := New(constConfig(1, 120), rand.New(rand.NewPCG(7, 0)))

	var last float64
	calls := 0
	result, err := s.Run(context.Background(), func(p float64) {
		if p < last {
			t.Errorf("Progress went backwards: %v after %v", p, last)
		}
		last = p
		calls++
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Value != 120 || result.Status != vitals.StatusElevated {
		t.Errorf("Expected 120/Elevated, got %d/%q", result.Value, result.Status)
	}
	if calls != 50 {
		t.Errorf("Expected 50 progress callbacks, got %d", calls)
	}
}

func TestSimulator_RunCancelled(t *testing.T) {
	cfg := constConfig(1, 72)
	cfg.Tick = time.Hour
	s := New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if s.Stage() != StageInstructions {
		t.Errorf("Expected instructions after cancelled run, got %v", s.Stage())
	}
}

func TestSimulator_SuccessRateDistribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	successes := 0
	const runs = 2000

	for i := 0; i < runs; i++ {
		s := New(constConfig(0.7, 72), rng)
		attempt, _ := s.Start()
		tickToEnd(t, s, attempt)
		if _, err := s.Resolve(context.Background(), attempt); err == nil {
			successes++
		}
	}

	rate := float64(successes) / runs
	if rate < 0.65 || rate > 0.75 {
		t.Errorf("Expected success rate near 0.7, got %.3f", rate)
	}
}

func TestStage_String(t *testing.T) {
	tests := map[Stage]string{
		StageInstructions: "instructions",
		StageMeasuring:    "measuring",
		StageComplete:     "complete",
		StageFailed:       "failed",
	}
	for stage, want := range tests {
		if got := stage.String(); got != want {
			t.Errorf("Stage(%d).String() = %q, want %q", stage, got, want)
		}
	}
}
