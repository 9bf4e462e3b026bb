// Package clockutil supplies the monotonic clock contract spec section 6
// requires: now(), now+µs, and signed difference in µs. It is a thin
// wrapper over github.com/benbjohnson/clock so tests can substitute a
// clock.Mock and drive the self-correcting step-timing loop deterministically.
package clockutil

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock is the subset of clock.Clock the motion core needs.
type Clock interface {
	Now() time.Time
}

// System returns the real wall clock. Go's time.Time already carries
// monotonic readings on Linux/Darwin, which is what clock.Clock.Now uses
// under the hood, satisfying the <=10µs resolution requirement.
func System() Clock {
	return clock.New()
}

// NewMock returns a clock.Mock for deterministic tests: callers advance it
// explicitly with Add, rather than relying on wall-clock sleeps.
func NewMock() *clock.Mock {
	return clock.NewMock()
}

// AddUs returns t advanced by us microseconds, matching the "now + µs"
// operation from the clock contract.
func AddUs(t time.Time, us int64) time.Time {
	return t.Add(time.Duration(us) * time.Microsecond)
}

// DiffUs returns a-b in microseconds (signed), matching the clock contract's
// signed-difference operation.
func DiffUs(a, b time.Time) int64 {
	return a.Sub(b).Microseconds()
}
