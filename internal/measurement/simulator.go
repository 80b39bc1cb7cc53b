// Package measurement simulates a vital-sign reading: a timed progress run
// that ends in a weighted success or failure draw.
package measurement

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/healthport/kiosk/internal/vitals"
)

// Stage is where a simulator is in its run.
type Stage int

const (
	StageInstructions Stage = iota
	StageMeasuring
	StageComplete
	StageFailed
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageMeasuring:
		return "measuring"
	case StageComplete:
		return "complete"
	case StageFailed:
		return "failed"
	default:
		return "instructions"
	}
}

var (
	// ErrAlreadyMeasuring is returned by Start while a run is in progress.
	ErrAlreadyMeasuring = errors.New("measurement already in progress")
	// ErrNotReady is returned by Start from complete, and by Resolve before progress reaches 100.
	ErrNotReady = errors.New("measurement not ready")
	// ErrStaleAttempt is returned when a result belongs to an abandoned run.
	ErrStaleAttempt = errors.New("stale measurement attempt")
	// ErrReadingFailed marks a run that ended in the failed stage.
	ErrReadingFailed = errors.New("reading failed")
)

// Package-level default RNG to avoid allocations when rng is nil
var defaultRNG = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

// Config parameterises one vital sign.
type Config[T any] struct {
	Name        string
	Tick        time.Duration
	Step        float64
	SuccessRate float64

	// Generate synthesises (or fetches) the reading once progress is complete.
	Generate func(ctx context.Context, rng *rand.Rand) (T, error)
	// Classify derives the status band shown next to the reading.
	Classify func(T) vitals.Status
}

// Result is the outcome of a resolved run.
type Result[T any] struct {
	Value  T
	Status vitals.Status
}

// Simulator runs the instructions → measuring → complete/failed machine.
// It is safe for use from the UI loop and from command goroutines.
type Simulator[T any] struct {
	cfg Config[T]
	rng *rand.Rand

	mu        sync.Mutex
	stage     Stage
	progress  float64
	attempt   uint64
	resolving bool
	result    Result[T]
	err       error
}

// New creates a simulator. If rng is nil, uses shared default RNG.
func New[T any](cfg Config[T], rng *rand.Rand) *Simulator[T] {
	if rng == nil {
		rng = defaultRNG
	}
	if cfg.Step <= 0 {
		cfg.Step = 2
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 100 * time.Millisecond
	}
	return &Simulator[T]{cfg: cfg, rng: rng}
}

// Config returns the simulator's configuration.
func (s *Simulator[T]) Config() Config[T] {
	return s.cfg
}

// Start begins a run from the instructions stage and returns its attempt ID.
func (s *Simulator[T]) Start() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.stage {
	case StageMeasuring:
		return 0, ErrAlreadyMeasuring
	case StageComplete, StageFailed:
		return 0, ErrNotReady
	}

	s.attempt++
	s.stage = StageMeasuring
	s.progress = 0
	s.resolving = false
	s.err = nil
	return s.attempt, nil
}

// Tick advances progress for attempt by one step. It reports true once
// progress has reached 100 and the run is ready to resolve. Ticks for any
// other attempt, or outside the measuring stage, are ignored.
func (s *Simulator[T]) Tick(attempt uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if attempt != s.attempt || s.stage != StageMeasuring {
		return false
	}
	if s.progress < 100 {
		s.progress += s.cfg.Step
		if s.progress > 100 {
			s.progress = 100
		}
	}
	return s.progress >= 100
}

// Resolve draws the outcome of attempt. Only the first call per attempt
// does any work; later calls return ErrNotReady. If the run was abandoned
// while Generate was in flight the result is discarded with ErrStaleAttempt.
func (s *Simulator[T]) Resolve(ctx context.Context, attempt uint64) (Result[T], error) {
	s.mu.Lock()
	if attempt != s.attempt {
		s.mu.Unlock()
		return Result[T]{}, ErrStaleAttempt
	}
	if s.stage != StageMeasuring || s.progress < 100 || s.resolving {
		s.mu.Unlock()
		return Result[T]{}, ErrNotReady
	}
	s.resolving = true
	success := s.rng.Float64() < s.cfg.SuccessRate
	s.mu.Unlock()

	var (
		value T
		err   error
	)
	if success {
		value, err = s.cfg.Generate(ctx, s.rng)
		if err != nil {
			err = fmt.Errorf("%s: %w", s.cfg.Name, err)
		}
	} else {
		err = fmt.Errorf("%s: %w", s.cfg.Name, ErrReadingFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if attempt != s.attempt {
		return Result[T]{}, ErrStaleAttempt
	}
	if ctx.Err() != nil {
		// Abandoned mid-read: back to instructions so a new run can start.
		s.attempt++
		s.stage = StageInstructions
		s.progress = 0
		s.resolving = false
		return Result[T]{}, ErrStaleAttempt
	}
	if err != nil {
		s.stage = StageFailed
		s.err = err
		return Result[T]{}, err
	}

	s.result = Result[T]{Value: value}
	if s.cfg.Classify != nil {
		s.result.Status = s.cfg.Classify(value)
	}
	s.stage = StageComplete
	return s.result, nil
}

// TryAgain returns a failed run to the instructions stage.
func (s *Simulator[T]) TryAgain() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stage != StageFailed {
		return false
	}
	s.stage = StageInstructions
	s.progress = 0
	s.err = nil
	return true
}

// Cancel abandons any run in progress. Pending ticks and results for it are
// discarded.
func (s *Simulator[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempt++
	if s.stage == StageMeasuring {
		s.stage = StageInstructions
		s.progress = 0
	}
	s.resolving = false
}

// Stage returns the current stage.
func (s *Simulator[T]) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Progress returns the current progress in [0, 100].
func (s *Simulator[T]) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Attempt returns the ID of the latest attempt.
func (s *Simulator[T]) Attempt() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// Result returns the completed reading.
func (s *Simulator[T]) Result() (Result[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.stage == StageComplete
}

// Err returns why the last run failed.
func (s *Simulator[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Run drives a whole run on a single ticker, calling onProgress after every
// tick. It blocks until the run resolves or ctx is done.
func (s *Simulator[T]) Run(ctx context.Context, onProgress func(float64)) (Result[T], error) {
	attempt, err := s.Start()
	if err != nil {
		return Result[T]{}, err
	}

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Cancel()
			return Result[T]{}, ctx.Err()
		case <-ticker.C:
			ready := s.Tick(attempt)
			if onProgress != nil {
				onProgress(s.Progress())
			}
			if ready {
				return s.Resolve(ctx, attempt)
			}
		}
	}
}
