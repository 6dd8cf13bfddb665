package scenario

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/frametick/frametick-go/pkg/timer"
)

// Option configures an Instance.
type Option func(*Instance)

// WithLogger sets the logger used to report applied actions.
func WithLogger(l *slog.Logger) Option {
	return func(in *Instance) { in.logger = l }
}

// Instance is a scenario bound to a scheduler.
//
// Like the scheduler, an Instance is not safe for concurrent use; drive it
// from a single goroutine.
type Instance struct {
	scenario *Scenario
	sched    *timer.Scheduler
	logger   *slog.Logger

	timers []*timer.Timer
	byName map[string]*timer.Timer

	actions []Action
	next    int
	started bool
	now     time.Duration
}

// Build creates the scenario's timers on sched. Timers are created idle;
// autostart timers start on the first Tick, so callers can subscribe to
// their signals first.
func (s *Scenario) Build(sched *timer.Scheduler, opts ...Option) (*Instance, error) {
	if sched == nil {
		return nil, timer.ErrNoScheduler
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	in := &Instance{
		scenario: s,
		sched:    sched,
		byName:   make(map[string]*timer.Timer, len(s.Timers)),
		actions:  slices.Clone(s.Actions),
	}
	for _, opt := range opts {
		opt(in)
	}

	for _, ts := range s.Timers {
		t, err := timer.NewFromConfig(sched, ts.Config)
		if err != nil {
			return nil, fmt.Errorf("timer %q: %w", ts.Name, err)
		}
		in.timers = append(in.timers, t)
		in.byName[ts.Name] = t
	}

	slices.SortStableFunc(in.actions, func(a, b Action) int {
		return cmp.Compare(a.At, b.At)
	})
	return in, nil
}

// Scenario returns the scenario the instance was built from.
func (in *Instance) Scenario() *Scenario { return in.scenario }

// Scheduler returns the scheduler the timers are registered with.
func (in *Instance) Scheduler() *timer.Scheduler { return in.sched }

// Timers returns the timers in declaration order.
func (in *Instance) Timers() []*timer.Timer { return slices.Clone(in.timers) }

// Timer returns the timer with the given name.
func (in *Instance) Timer(name string) (*timer.Timer, bool) {
	t, ok := in.byName[name]
	return t, ok
}

// Now returns the scenario time reached so far.
func (in *Instance) Now() time.Duration { return in.now }

// Pending returns the number of actions not yet applied.
func (in *Instance) Pending() int { return len(in.actions) - in.next }

// Tick runs one frame: it applies every action due at the current scenario
// time, then ticks the scheduler by delta. Negative deltas are passed on to
// the scheduler, which treats them as zero.
func (in *Instance) Tick(delta time.Duration) {
	if !in.started {
		in.started = true
		for i, ts := range in.scenario.Timers {
			if ts.Autostart {
				in.timers[i].Start()
			}
		}
	}

	for in.next < len(in.actions) && in.actions[in.next].At <= in.now {
		in.apply(in.actions[in.next])
		in.next++
	}

	in.sched.Tick(delta)
	if delta > 0 {
		in.now += delta
	}
}

// Advance runs frames of the scenario's frame interval until total scenario
// time has passed. The last frame is shortened to land exactly on total.
func (in *Instance) Advance(total time.Duration) {
	interval := in.scenario.Interval()
	for total > 0 {
		delta := min(interval, total)
		in.Tick(delta)
		total -= delta
	}
}

// Done reports whether every action has been applied and no non-loop timer
// is still running or paused. Loop timers never finish on their own and are
// ignored.
func (in *Instance) Done() bool {
	if !in.started || in.Pending() > 0 {
		return false
	}
	for _, t := range in.timers {
		if t.Loop() {
			continue
		}
		if t.IsRunning() || t.IsPaused() {
			return false
		}
	}
	return true
}

func (in *Instance) apply(a Action) {
	t := in.byName[a.Timer]

	switch a.Op {
	case OpStart:
		t.Start()
	case OpStop:
		t.Stop()
	case OpCancel:
		t.Cancel()
	case OpRestart:
		t.Restart()
	case OpPause:
		t.Pause()
	case OpResume:
		t.Resume()
	case OpSetDuration:
		t.SetDuration(a.Duration)
	case OpSetLoop:
		t.SetLoop(*a.Loop)
	}

	if in.logger != nil {
		in.logger.Debug("scenario action applied",
			"scenario", in.scenario.Name,
			"at", a.At,
			"now", in.now,
			"timer", a.Timer,
			"op", string(a.Op),
			"state", t.State().String())
	}
}
