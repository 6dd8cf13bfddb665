package frameloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Driver defaults.
const (
	DefaultInterval = time.Second / 60
	DefaultMaxDelta = 250 * time.Millisecond
)

// Driver errors.
var (
	ErrStopped = errors.New("frame loop stopped")
	ErrRunning = errors.New("frame loop already running")
)

// Target is advanced once per frame. *timer.Scheduler implements it.
type Target interface {
	Tick(delta time.Duration)
}

// Config configures a Driver.
type Config struct {
	// Interval is the wall-clock frame period for Run. Defaults to DefaultInterval.
	Interval time.Duration

	// MaxDelta caps a single frame delta so a stalled process does not
	// complete every timer in one frame. Defaults to DefaultMaxDelta.
	MaxDelta time.Duration

	// Clock is the time source for Run. Defaults to RealClock.
	Clock Clock

	// OnFrame runs on the loop after every tick.
	OnFrame func(delta time.Duration)

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Driver advances a Target from a frame loop.
type Driver struct {
	target   Target
	interval time.Duration
	maxDelta time.Duration
	clock    Clock
	onFrame  func(time.Duration)
	logger   *slog.Logger

	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake    chan struct{}
	done    chan struct{}
	running atomic.Bool

	frames  atomic.Uint64
	simTime atomic.Int64
}

// New creates a driver for target.
func New(target Target, cfg Config) *Driver {
	d := &Driver{
		target:   target,
		interval: cfg.Interval,
		maxDelta: cfg.MaxDelta,
		clock:    cfg.Clock,
		onFrame:  cfg.OnFrame,
		logger:   cfg.Logger,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	if d.interval <= 0 {
		d.interval = DefaultInterval
	}
	if d.maxDelta <= 0 {
		d.maxDelta = DefaultMaxDelta
	}
	if d.clock == nil {
		d.clock = RealClock()
	}
	return d
}

// Interval returns the configured frame period.
func (d *Driver) Interval() time.Duration { return d.interval }

// Frames returns the number of frames processed.
func (d *Driver) Frames() uint64 { return d.frames.Load() }

// SimTime returns the sum of all deltas passed to the target.
func (d *Driver) SimTime() time.Duration { return time.Duration(d.simTime.Load()) }

// Run ticks the target every Interval until ctx is done. Functions passed to
// Do and Post run on the same goroutine between frames.
//
// A Driver runs at most once; after Run returns, Do and Post fail with
// ErrStopped.
func (d *Driver) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	d.mu.Unlock()

	defer d.shutdown()

	ticks, release := d.clock.NewTicker(d.interval)
	defer release()

	last := d.clock.Now()
	d.debugLog("frame loop started", "interval", d.interval, "max_delta", d.maxDelta)

	for {
		select {
		case <-ctx.Done():
			d.debugLog("frame loop stopped", "frames", d.Frames(), "sim_time", d.SimTime())
			return nil

		case <-d.wake:
			d.drain()

		case now := <-ticks:
			delta := now.Sub(last)
			last = now

			if delta < 0 {
				delta = 0
			}
			if delta > d.maxDelta {
				d.debugLog("frame delta clamped", "delta", delta, "max_delta", d.maxDelta)
				delta = d.maxDelta
			}
			d.drain()
			d.tick(delta)
		}
	}
}

// Step runs pending posted functions, then advances the target by delta.
// Negative deltas are treated as zero. Step must not be called while Run is
// active.
func (d *Driver) Step(delta time.Duration) error {
	if d.running.Load() && !d.isStopped() {
		return ErrRunning
	}
	if delta < 0 {
		delta = 0
	}
	d.drain()
	d.tick(delta)
	return nil
}

// Post queues fn to run on the loop before the next frame. It never blocks
// and may be called from the loop itself.
func (d *Driver) Post(fn func()) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// Do runs fn on the loop and waits for it to return. If Run has not started
// yet, Do waits for it. It must not be called from the loop goroutine.
func (d *Driver) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := d.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-d.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Driver) tick(delta time.Duration) {
	d.target.Tick(delta)
	d.frames.Add(1)
	d.simTime.Add(int64(delta))
	if d.onFrame != nil {
		d.onFrame(delta)
	}
}

// drain runs the functions queued so far. Functions they post wait for the
// next drain.
func (d *Driver) drain() {
	d.mu.Lock()
	queue := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
}

func (d *Driver) isStopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}

func (d *Driver) shutdown() {
	d.mu.Lock()
	d.stopped = true
	dropped := len(d.queue)
	d.queue = nil
	d.mu.Unlock()

	if dropped > 0 {
		d.debugLog("dropped queued calls at shutdown", "count", dropped)
	}
	close(d.done)
}

// debugLog logs a debug message if a logger is configured.
func (d *Driver) debugLog(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
