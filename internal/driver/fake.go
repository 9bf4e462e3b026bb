package driver

import (
	"context"
	"sync"
)

// Fake is an in-memory Driver for tests: it tracks a step counter and
// direction exactly like real hardware would, and lets a test force a
// stall via SetStalled instead of wiring real StallGuard electronics.
type Fake struct {
	mu sync.Mutex

	totalSteps int32
	direction  int8
	stallArmed bool
	stalled    bool
	stepCount  int
}

var _ Driver = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{direction: 1}
}

func (f *Fake) TotalSteps() int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalSteps
}

func (f *Fake) SetTotalSteps(steps int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalSteps = steps
}

func (f *Fake) Direction() int8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.direction
}

func (f *Fake) SetDirection(dir int8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.direction = dir
}

func (f *Fake) Step(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalSteps += int32(f.direction)
	f.stepCount++
	return nil
}

func (f *Fake) EnableStallguard(ctx context.Context, sensitivity uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stallArmed = true
	return nil
}

func (f *Fake) DisableStallguard(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stallArmed = false
	return nil
}

func (f *Fake) Stalled(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stallArmed && f.stalled, nil
}

// SetStalled sets the simulated stall flag. Stalled() reports it only while
// stallguard is armed, and it stays set until SetStalled(false).
func (f *Fake) SetStalled(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stalled = v
}

// StepCount returns how many times Step has fired, for test assertions.
func (f *Fake) StepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stepCount
}
