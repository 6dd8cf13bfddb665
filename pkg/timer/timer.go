package timer

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/frametick/frametick-go/pkg/log"
)

// Timer errors.
var (
	ErrInvalidDuration = errors.New("invalid timer duration")
	ErrNoScheduler     = errors.New("timer requires a scheduler")
)

// State represents the timer lifecycle state.
type State uint8

const (
	// StateIdle indicates the timer has not been started or was cancelled.
	StateIdle State = iota

	// StateRunning indicates the timer accumulates time on every tick.
	StateRunning

	// StatePaused indicates the timer is registered but not accumulating.
	StatePaused

	// StateCompleted indicates the timer reached its duration or was stopped.
	StateCompleted
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Option configures a Timer at construction.
type Option func(*Timer)

// WithName sets the timer name used in traces and tooling.
func WithName(name string) Option {
	return func(t *Timer) { t.name = name }
}

// WithLoop makes the timer restart automatically when it reaches its duration.
func WithLoop(loop bool) Option {
	return func(t *Timer) { t.loop = loop }
}

// WithOnComplete sets the completion callback.
func WithOnComplete(fn func()) Option {
	return func(t *Timer) { t.onComplete = fn }
}

// WithOnProgress sets the progress callback. It receives progress in [0,1].
func WithOnProgress(fn func(progress float64)) Option {
	return func(t *Timer) { t.onProgress = fn }
}

// Timer is a duration-bound countdown driven by a Scheduler.
type Timer struct {
	id    string
	name  string
	sched *Scheduler

	// Configuration
	duration time.Duration
	loop     bool

	// Runtime state
	state   State
	elapsed time.Duration

	// Single-slot callbacks
	onComplete func()
	onProgress func(float64)

	// Broadcast signals
	started         Signal[func()]
	stopped         Signal[func()]
	completed       Signal[func()]
	paused          Signal[func()]
	resumed         Signal[func()]
	progressChanged Signal[func(float64)]

	// Scheduler bookkeeping, owned by sched.
	registered bool
	lastFrame  uint64
}

// New creates an idle timer bound to s.
// Returns ErrInvalidDuration if d is not positive.
func New(s *Scheduler, d time.Duration, opts ...Option) (*Timer, error) {
	if s == nil {
		return nil, ErrNoScheduler
	}
	if d <= 0 {
		return nil, ErrInvalidDuration
	}

	t := &Timer{
		id:       uuid.NewString(),
		sched:    s,
		duration: d,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// ID returns the timer's unique identifier.
func (t *Timer) ID() string { return t.id }

// Name returns the timer name (may be empty).
func (t *Timer) Name() string { return t.name }

// Scheduler returns the scheduler the timer is bound to.
func (t *Timer) Scheduler() *Scheduler { return t.sched }

// Duration returns the configured duration.
func (t *Timer) Duration() time.Duration { return t.duration }

// Loop reports whether the timer restarts at completion.
func (t *Timer) Loop() bool { return t.loop }

// Elapsed returns the accumulated time of the current run.
func (t *Timer) Elapsed() time.Duration { return t.elapsed }

// State returns the current lifecycle state.
func (t *Timer) State() State { return t.state }

// IsRunning returns true if the timer is accumulating time.
func (t *Timer) IsRunning() bool { return t.state == StateRunning }

// IsPaused returns true if the timer is paused.
func (t *Timer) IsPaused() bool { return t.state == StatePaused }

// IsCompleted returns true if the timer completed or was stopped.
func (t *Timer) IsCompleted() bool { return t.state == StateCompleted }

// Remaining returns max(0, duration - elapsed).
func (t *Timer) Remaining() time.Duration {
	if r := t.duration - t.elapsed; r > 0 {
		return r
	}
	return 0
}

// Progress returns elapsed/duration clamped to [0,1].
func (t *Timer) Progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	p := float64(t.elapsed) / float64(t.duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Started fires after the timer enters Running from Idle or Completed.
func (t *Timer) Started() *Signal[func()] { return &t.started }

// Stopped fires after Stop, and after Cancel of a running or paused timer.
func (t *Timer) Stopped() *Signal[func()] { return &t.stopped }

// Completed fires after the completion callback each time the duration is reached.
func (t *Timer) Completed() *Signal[func()] { return &t.completed }

// Paused fires after Pause.
func (t *Timer) Paused() *Signal[func()] { return &t.paused }

// Resumed fires after Resume.
func (t *Timer) Resumed() *Signal[func()] { return &t.resumed }

// ProgressChanged fires on every advance, before the progress callback.
func (t *Timer) ProgressChanged() *Signal[func(float64)] { return &t.progressChanged }

// SetOnComplete replaces the completion callback. nil clears it.
func (t *Timer) SetOnComplete(fn func()) *Timer {
	t.onComplete = fn
	return t
}

// SetOnProgress replaces the progress callback. nil clears it.
func (t *Timer) SetOnProgress(fn func(progress float64)) *Timer {
	t.onProgress = fn
	return t
}

// SetDuration changes the duration. Non-positive values are ignored.
// On a completed timer, elapsed time is clamped to the new duration so the
// remaining time never goes negative.
func (t *Timer) SetDuration(d time.Duration) *Timer {
	if d <= 0 {
		return t
	}
	t.duration = d
	if t.state == StateCompleted && t.elapsed >= d {
		t.elapsed = d
	}
	return t
}

// SetLoop changes the loop flag. It takes effect on the next completion check.
func (t *Timer) SetLoop(loop bool) *Timer {
	t.loop = loop
	return t
}

func (t *Timer) active() bool {
	return t.state == StateRunning || t.state == StatePaused
}

// Start registers the timer and begins accumulating time.
// Elapsed time carries over from a previous run; use Restart for a clean run.
// No-op if already running or paused.
func (t *Timer) Start() {
	if t.active() {
		return
	}

	old := t.state
	t.state = StateRunning
	t.sched.Register(t)
	t.sched.traceState(t, log.TriggerStart, old)
	emit(&t.started)
}

// Stop marks the timer completed without resetting elapsed time.
// The timer stays registered with its scheduler but is no longer advanced.
// No-op unless running or paused.
func (t *Timer) Stop() {
	if !t.active() {
		return
	}

	old := t.state
	t.state = StateCompleted
	t.sched.traceState(t, log.TriggerStop, old)
	emit(&t.stopped)
}

// Cancel resets elapsed time to zero, returns the timer to Idle and removes
// it from the scheduler. Stopped fires only if the timer was running or paused.
func (t *Timer) Cancel() {
	old := t.state
	wasActive := t.active()

	t.state = StateIdle
	t.elapsed = 0
	t.sched.Unregister(t)

	if !wasActive {
		return
	}
	t.sched.traceState(t, log.TriggerCancel, old)
	emit(&t.stopped)
}

// Restart cancels the timer and starts it again from zero.
func (t *Timer) Restart() {
	t.Cancel()
	t.Start()
}

// Pause suspends a running timer. No-op unless running.
func (t *Timer) Pause() {
	if t.state != StateRunning {
		return
	}

	t.state = StatePaused
	t.sched.traceState(t, log.TriggerPause, StateRunning)
	emit(&t.paused)
}

// Resume continues a paused timer. No-op unless paused.
func (t *Timer) Resume() {
	if t.state != StatePaused {
		return
	}

	t.state = StateRunning
	t.sched.traceState(t, log.TriggerResume, StatePaused)
	emit(&t.resumed)
}

// advance adds delta to a running timer and handles completion.
// Only the scheduler calls it.
func (t *Timer) advance(delta time.Duration) {
	if t.state != StateRunning {
		return
	}

	t.elapsed += delta
	progress := t.Progress()
	t.sched.traceProgress(t, delta, progress)

	emitProgress(&t.progressChanged, progress)
	if t.onProgress != nil {
		t.onProgress(progress)
	}

	// A progress handler may have paused, stopped or cancelled the timer.
	if t.state != StateRunning || t.elapsed < t.duration {
		return
	}

	if t.loop {
		t.elapsed = 0
		t.sched.traceState(t, log.TriggerLoop, StateRunning)
	} else {
		t.state = StateCompleted
		t.elapsed = t.duration
		t.sched.Unregister(t)
		t.sched.traceState(t, log.TriggerComplete, StateRunning)
	}

	if t.onComplete != nil {
		t.onComplete()
	}
	emit(&t.completed)
}
