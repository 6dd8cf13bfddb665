package frameloop

import "time"

// Clock is the time source for Run.
type Clock interface {
	// Now returns the current time. Run reads it once, as the start of the
	// first frame.
	Now() time.Time

	// NewTicker returns a channel that delivers the current time every d,
	// and a function that releases it. Frame deltas are differences between
	// successive delivered times.
	NewTicker(d time.Duration) (<-chan time.Time, func())
}

type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
