// Package frameloop drives a timer scheduler from wall-clock or simulated time.
//
// A Driver owns the goroutine that ticks its target. Timers and schedulers are
// not safe for concurrent use, so code running on other goroutines hands work
// to the loop with Do or Post instead of touching them directly:
//
//	d := frameloop.New(sched, frameloop.Config{Interval: 16 * time.Millisecond})
//	go d.Run(ctx)
//
//	err := d.Do(ctx, func() { door.Start() })
//
// Without Run, Step advances the target by an explicit delta, which is how
// simulations and tests move time forward deterministically.
package frameloop
