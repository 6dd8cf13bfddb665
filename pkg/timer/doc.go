// Package timer implements frame-driven countdown and repeating timers.
//
// A Scheduler owns the set of active timers and advances each of them once
// per host frame. Timers are created against a Scheduler and register
// themselves with it when started:
//
//	sched := timer.NewScheduler(timer.SchedulerConfig{})
//	t, _ := timer.New(sched, 3*time.Second,
//	    timer.WithName("respawn"),
//	    timer.WithOnComplete(func() { fmt.Println("go!") }),
//	)
//	t.Start()
//
//	for range frames {
//	    sched.Tick(frameDelta)
//	}
//
// # States
//
// A timer is Idle until started, Running while it accumulates time, Paused
// while it is registered but not accumulating, and Completed once a
// non-looping timer reaches its duration or is stopped. Loop timers wrap
// back to zero at the end of each cycle and never report Completed on their
// own.
//
// # Stop versus Cancel
//
// Stop marks a timer Completed but leaves it registered with its scheduler,
// where it is skipped on every tick. Cancel resets elapsed time to zero and
// removes the registration. Callers that want the timer out of the active
// set must Cancel it.
//
// # Callbacks and Signals
//
// The completion and progress callbacks are single slots: setting one
// replaces the previous value. The Started, Stopped, Completed, Paused,
// Resumed and ProgressChanged signals accept any number of subscribers
// and fire them in subscription order.
//
// # Threading
//
// A Scheduler and its timers are not safe for concurrent use. All calls,
// including Tick, must come from one goroutine; callbacks run synchronously
// on it. See package frameloop for a driver that owns that goroutine.
package timer
