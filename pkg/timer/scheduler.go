package timer

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/frametick/frametick-go/pkg/log"
)

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// Trace receives lifecycle events for every timer on this scheduler.
	// If nil, tracing is disabled.
	Trace log.Logger

	// TraceProgress adds one progress event per advanced timer per tick.
	TraceProgress bool

	// TraceTicks adds one summary event per tick.
	TraceTicks bool

	// Now stamps trace events. Defaults to time.Now.
	Now func() time.Time
}

// Scheduler is the registry of active timers for one runtime context.
// It holds non-owning references; timers belong to whoever created them.
//
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	id     string
	logger *slog.Logger
	trace  log.Logger
	now    func() time.Time

	progressTrace bool
	traceTicks    bool

	// Registration order is advance order.
	active []*Timer

	// scratch is reused as the per-tick snapshot of active.
	scratch []*Timer

	frame uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	s := &Scheduler{
		id:            uuid.NewString(),
		logger:        cfg.Logger,
		trace:         cfg.Trace,
		now:           cfg.Now,
		progressTrace: cfg.TraceProgress,
		traceTicks:    cfg.TraceTicks,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ID returns the scheduler's unique identifier.
func (s *Scheduler) ID() string { return s.id }

// Frame returns the number of ticks processed so far.
func (s *Scheduler) Frame() uint64 { return s.frame }

// Len returns the number of registered timers.
func (s *Scheduler) Len() int { return len(s.active) }

// Contains reports whether t is registered.
func (s *Scheduler) Contains(t *Timer) bool {
	return t != nil && t.sched == s && t.registered
}

// Timers returns the registered timers in registration order.
func (s *Scheduler) Timers() []*Timer {
	return slices.Clone(s.active)
}

// Register adds t to the active set. Registering a timer twice, or a timer
// bound to another scheduler, is a no-op.
func (s *Scheduler) Register(t *Timer) {
	if t == nil || t.registered {
		return
	}
	if t.sched != s {
		s.debugLog("ignoring timer bound to another scheduler", "timer", t.name, "timer_id", t.id)
		return
	}

	t.registered = true
	s.active = append(s.active, t)
	s.debugLog("timer registered", "timer", t.name, "active", len(s.active))
}

// Unregister removes t from the active set. Removing an absent timer is a no-op.
func (s *Scheduler) Unregister(t *Timer) {
	if !s.Contains(t) {
		return
	}

	t.registered = false
	if i := slices.Index(s.active, t); i >= 0 {
		s.active = slices.Delete(s.active, i, i+1)
	}
	s.debugLog("timer unregistered", "timer", t.name, "active", len(s.active))
}

// Tick advances every running timer by delta, in registration order.
//
// Iteration runs over a snapshot taken at the start of the tick. A timer
// unregistered while the tick is in progress is not advanced if its turn has
// not come yet; a timer registered during the tick waits for the next one.
// No timer is advanced twice in one tick. Paused and stopped timers stay
// registered and are skipped. Negative deltas are treated as zero.
func (s *Scheduler) Tick(delta time.Duration) {
	s.frame++
	frame := s.frame

	if delta < 0 {
		s.traceError("negative tick delta clamped to zero", delta.String())
		s.warnLog("negative tick delta clamped to zero", "delta", delta, "frame", frame)
		delta = 0
	}

	var began time.Time
	if s.traceTicks && s.trace != nil {
		began = s.now()
	}

	// Take ownership of scratch so a reentrant Tick allocates its own.
	snapshot := append(s.scratch[:0], s.active...)
	s.scratch = nil

	advanced := 0
	for _, t := range snapshot {
		if !t.registered || t.state != StateRunning || t.lastFrame == frame {
			continue
		}
		t.lastFrame = frame
		t.advance(delta)
		advanced++
	}

	registered := len(snapshot)
	clear(snapshot)
	s.scratch = snapshot[:0]

	if s.traceTicks {
		s.traceTick(delta, registered, advanced, began)
	}
}

// debugLog logs a debug message if a logger is configured.
func (s *Scheduler) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, append(args, "scheduler_id", s.id)...)
	}
}

func (s *Scheduler) warnLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, append(args, "scheduler_id", s.id)...)
	}
}
